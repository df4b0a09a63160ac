package usecase

import (
	"errors"
	"strings"
	"time"

	"workmind-backend/internal/habit/domain"
	"workmind-backend/internal/habit/repository"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// habitUsecase implements HabitUsecase interface
type habitUsecase struct {
	habitRepo repository.HabitRepository
	now       func() time.Time
}

// NewHabitUsecase creates a new instance of habitUsecase
func NewHabitUsecase(habitRepo repository.HabitRepository) HabitUsecase {
	return &habitUsecase{
		habitRepo: habitRepo,
		now:       time.Now,
	}
}

func (u *habitUsecase) CreateHabit(req HabitCreateRequest) (*domain.Habit, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("name is required")
	}

	habit := &domain.Habit{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Cadence:     parseCadence(req.Cadence),
	}

	if err := u.habitRepo.CreateHabit(habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (u *habitUsecase) GetHabits(includeArchived bool) ([]*domain.HabitWithStreak, error) {
	habits, err := u.habitRepo.FindHabits(includeArchived)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.HabitWithStreak, 0, len(habits))
	for _, habit := range habits {
		annotated, err := u.annotate(habit)
		if err != nil {
			return nil, err
		}
		out = append(out, annotated)
	}
	return out, nil
}

func (u *habitUsecase) GetHabitByID(habitID string) (*domain.HabitWithStreak, error) {
	habit, err := u.habitRepo.FindHabitByID(habitID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, errors.New("habit not found")
	}
	return u.annotate(habit)
}

func (u *habitUsecase) UpdateHabit(habitID string, updates HabitUpdateRequest) (*domain.Habit, error) {
	habit, err := u.habitRepo.FindHabitByID(habitID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, errors.New("habit not found")
	}

	if updates.Name != nil && strings.TrimSpace(*updates.Name) != "" {
		habit.Name = strings.TrimSpace(*updates.Name)
	}
	if updates.Description != nil {
		habit.Description = *updates.Description
	}
	if updates.Cadence != nil {
		habit.Cadence = parseCadence(*updates.Cadence)
	}
	if updates.Archived != nil {
		habit.Archived = *updates.Archived
	}

	if err := u.habitRepo.UpdateHabit(habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (u *habitUsecase) DeleteHabit(habitID string) error {
	habit, err := u.habitRepo.FindHabitByID(habitID)
	if err != nil {
		return err
	}
	if habit == nil {
		return errors.New("habit not found")
	}
	return u.habitRepo.DeleteHabit(habitID)
}

func (u *habitUsecase) CheckIn(habitID string) (*domain.CheckIn, bool, error) {
	habit, err := u.habitRepo.FindHabitByID(habitID)
	if err != nil {
		return nil, false, err
	}
	if habit == nil {
		return nil, false, errors.New("habit not found")
	}

	return u.habitRepo.CreateCheckIn(&domain.CheckIn{
		HabitID: habitID,
		Date:    u.now().Format(dateLayout),
	})
}

// annotate attaches streak counters computed from the habit's check-ins
func (u *habitUsecase) annotate(habit *domain.Habit) (*domain.HabitWithStreak, error) {
	checkIns, err := u.habitRepo.FindCheckIns(habit.ID)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(checkIns))
	for _, c := range checkIns {
		d, err := time.Parse(dateLayout, c.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}

	annotated := &domain.HabitWithStreak{Habit: *habit}
	switch habit.Cadence {
	case domain.CadenceWeekly:
		annotated.CurrentStreak, annotated.BestStreak, annotated.DoneInPeriod = weeklyStreaks(dates, u.now())
	default:
		annotated.CurrentStreak, annotated.BestStreak, annotated.DoneInPeriod = dailyStreaks(dates, u.now())
	}
	return annotated, nil
}

// dailyStreaks computes consecutive-day runs. The current streak tolerates a
// missing check-in today: it is still alive if yesterday was done.
func dailyStreaks(dates []time.Time, now time.Time) (current, best int, doneToday bool) {
	if len(dates) == 0 {
		return 0, 0, false
	}

	days := make(map[int64]bool, len(dates))
	for _, d := range dates {
		days[dayIndex(d)] = true
	}

	today := dayIndex(now)
	doneToday = days[today]

	start := today
	if !doneToday {
		start = today - 1
	}
	for days[start-int64(current)] {
		current++
	}

	for day := range days {
		if days[day-1] {
			continue // not the start of a run
		}
		run := 0
		for days[day+int64(run)] {
			run++
		}
		if run > best {
			best = run
		}
	}

	return current, best, doneToday
}

// weeklyStreaks computes consecutive-week runs, keyed by ISO week
func weeklyStreaks(dates []time.Time, now time.Time) (current, best int, doneThisWeek bool) {
	if len(dates) == 0 {
		return 0, 0, false
	}

	weeks := make(map[int64]bool, len(dates))
	for _, d := range dates {
		weeks[weekIndex(d)] = true
	}

	thisWeek := weekIndex(now)
	doneThisWeek = weeks[thisWeek]

	start := thisWeek
	if !doneThisWeek {
		start = thisWeek - 1
	}
	for weeks[start-int64(current)] {
		current++
	}

	for week := range weeks {
		if weeks[week-1] {
			continue
		}
		run := 0
		for weeks[week+int64(run)] {
			run++
		}
		if run > best {
			best = run
		}
	}

	return current, best, doneThisWeek
}

func dayIndex(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// weekIndex numbers ISO weeks consecutively across year boundaries
func weekIndex(t time.Time) int64 {
	// Shift to the Monday of t's week, then count weeks since epoch
	weekday := int64(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the ISO week
	}
	return (dayIndex(t) - (weekday - 1) + 3) / 7
}

func parseCadence(c string) domain.Cadence {
	if domain.Cadence(strings.ToLower(c)) == domain.CadenceWeekly {
		return domain.CadenceWeekly
	}
	return domain.CadenceDaily
}
