package models

import "time"

// Availability is the per-user weekly window set. One row per user,
// fully replaced on profile setup.
type Availability struct {
	ID              string          `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"userId"`
	DaysOfWeek      string          `db:"days_of_week" json:"daysOfWeek"`
	TimeSlots       string          `db:"time_slots" json:"timeSlots"`
	SessionDuration SessionDuration `db:"session_duration" json:"sessionDuration"`
	Timezone        string          `db:"timezone" json:"timezone"`
	IsRecurring     bool            `db:"is_recurring" json:"isRecurring"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}
