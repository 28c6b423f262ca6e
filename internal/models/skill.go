package models

import "time"

// SkillOffered is a skill a user teaches. It is discoverable in search only
// while both the skill and its owner satisfy the visibility flags.
type SkillOffered struct {
	ID                string          `db:"id" json:"id"`
	UserID            string          `db:"user_id" json:"userId"`
	Title             string          `db:"title" json:"title"`
	Description       string          `db:"description" json:"description"`
	Category          SkillCategory   `db:"category" json:"category"`
	ExperienceLevel   ExperienceLevel `db:"experience_level" json:"experienceLevel"`
	YearsOfExperience *int            `db:"years_of_experience" json:"yearsOfExperience,omitempty"`
	IsActive          bool            `db:"is_active" json:"isActive"`
	IsPublic          bool            `db:"is_public" json:"isPublic"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updatedAt"`
}

// SkillWanted is a skill a user wants to learn.
type SkillWanted struct {
	ID           string           `db:"id" json:"id"`
	UserID       string           `db:"user_id" json:"userId"`
	Title        string           `db:"title" json:"title"`
	Description  string           `db:"description" json:"description"`
	Category     SkillCategory    `db:"category" json:"category"`
	CurrentLevel *ExperienceLevel `db:"current_level" json:"currentLevel,omitempty"`
	DesiredLevel ExperienceLevel  `db:"desired_level" json:"desiredLevel"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`
}

// SkillSearchFilter captures the composed search criteria for offered skills.
// ViewerID excludes the searcher's own skills and gates owner privacy.
type SkillSearchFilter struct {
	ViewerID        string
	Query           string
	Category        string
	ExperienceLevel string
	Location        string
	Page            int
	Limit           int
}
