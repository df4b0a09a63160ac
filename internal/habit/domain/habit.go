package domain

import "time"

// Cadence is how often a habit is meant to be completed
type Cadence string

const (
	CadenceDaily  Cadence = "daily"
	CadenceWeekly Cadence = "weekly"
)

// Habit is a recurring personal commitment tracked by check-ins
type Habit struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description,omitempty"`
	Cadence     Cadence   `json:"cadence" gorm:"default:daily"`
	Archived    bool      `json:"archived" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CheckIn records one completion of a habit. Date is the local calendar day
// ("2006-01-02"); at most one check-in exists per habit per day.
type CheckIn struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	HabitID   string    `json:"habit_id" gorm:"index;not null;uniqueIndex:idx_habit_date"`
	Date      string    `json:"date" gorm:"not null;uniqueIndex:idx_habit_date"`
	CreatedAt time.Time `json:"created_at"`
}

// HabitWithStreak is a habit annotated with its live streak counters
type HabitWithStreak struct {
	Habit
	CurrentStreak int  `json:"current_streak"`
	BestStreak    int  `json:"best_streak"`
	DoneInPeriod  bool `json:"done_in_period"` // checked in today (daily) or this week (weekly)
}
