package repository

import (
	"time"

	"workmind-backend/internal/habit/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormHabitRepository implements HabitRepository using GORM
type gormHabitRepository struct {
	db *gorm.DB
}

// NewGormHabitRepository creates a new GORM-based HabitRepository
func NewGormHabitRepository(db *gorm.DB) HabitRepository {
	db.AutoMigrate(&domain.Habit{}, &domain.CheckIn{})
	return &gormHabitRepository{db: db}
}

func (r *gormHabitRepository) CreateHabit(habit *domain.Habit) error {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = time.Now()
	return r.db.Create(habit).Error
}

func (r *gormHabitRepository) FindHabitByID(id string) (*domain.Habit, error) {
	var habit domain.Habit
	err := r.db.Where("id = ?", id).First(&habit).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &habit, nil
}

func (r *gormHabitRepository) FindHabits(includeArchived bool) ([]*domain.Habit, error) {
	var habits []*domain.Habit
	query := r.db.Model(&domain.Habit{})
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}
	err := query.Order("created_at ASC").Find(&habits).Error
	return habits, err
}

func (r *gormHabitRepository) UpdateHabit(habit *domain.Habit) error {
	habit.UpdatedAt = time.Now()
	return r.db.Save(habit).Error
}

func (r *gormHabitRepository) DeleteHabit(id string) error {
	if err := r.db.Delete(&domain.CheckIn{}, "habit_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.Delete(&domain.Habit{}, "id = ?", id).Error
}

func (r *gormHabitRepository) CreateCheckIn(checkIn *domain.CheckIn) (*domain.CheckIn, bool, error) {
	var existing domain.CheckIn
	err := r.db.Where("habit_id = ? AND date = ?", checkIn.HabitID, checkIn.Date).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	if checkIn.ID == "" {
		checkIn.ID = uuid.New().String()
	}
	checkIn.CreatedAt = time.Now()
	if err := r.db.Create(checkIn).Error; err != nil {
		return nil, false, err
	}
	return checkIn, true, nil
}

func (r *gormHabitRepository) FindCheckIns(habitID string) ([]*domain.CheckIn, error) {
	var checkIns []*domain.CheckIn
	err := r.db.Where("habit_id = ?", habitID).Order("date DESC").Find(&checkIns).Error
	return checkIns, err
}
