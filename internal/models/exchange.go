package models

import "time"

// SkillExchange is one proposed or ongoing barter between a learner and the
// teacher who owns the offered skill.
type SkillExchange struct {
	ID             string         `db:"id" json:"id"`
	TeacherID      string         `db:"teacher_id" json:"teacherId"`
	LearnerID      string         `db:"learner_id" json:"learnerId"`
	OfferedSkillID string         `db:"offered_skill_id" json:"offeredSkillId"`
	WantedSkillID  *string        `db:"wanted_skill_id" json:"wantedSkillId,omitempty"`
	ExchangeTitle  string         `db:"exchange_title" json:"exchangeTitle"`
	AgreementTerms string         `db:"agreement_terms" json:"agreementTerms"`
	Format         ExchangeFormat `db:"format" json:"format"`
	EstimatedHours *int           `db:"estimated_hours" json:"estimatedHours,omitempty"`
	Status         ExchangeStatus `db:"status" json:"status"`
	ScheduledStart *time.Time     `db:"scheduled_start" json:"scheduledStart,omitempty"`
	ActualStart    *time.Time     `db:"actual_start" json:"actualStart,omitempty"`
	CompletedAt    *time.Time     `db:"completed_at" json:"completedAt,omitempty"`
	ProgressNotes  *string        `db:"progress_notes" json:"progressNotes,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// RoleOf derives the viewer's side of an exchange. Computed at the read
// boundary, never stored.
func RoleOf(exchange *SkillExchange, viewerID string) string {
	if exchange != nil && exchange.TeacherID == viewerID {
		return "teacher"
	}
	return "learner"
}

// ExchangeListFilter captures list criteria for a user's exchanges.
type ExchangeListFilter struct {
	UserID string
	Type   string
	Status string
	Page   int
	Limit  int
}
