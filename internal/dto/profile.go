package dto

import "github.com/skillcircle/skillcircle-api/internal/models"

// LocationInput is an optional address with optional coordinates.
type LocationInput struct {
	Address  *string `json:"address"`
	Position *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"position"`
}

// PrivacyInput carries the per-user visibility flags.
type PrivacyInput struct {
	IsPrivate          bool `json:"isPrivate"`
	ShowLocation       bool `json:"showLocation"`
	ShowRatings        bool `json:"showRatings"`
	ShowSkillsOffered  bool `json:"showSkillsOffered"`
	ShowSkillsWanted   bool `json:"showSkillsWanted"`
	AllowDirectContact bool `json:"allowDirectContact"`
}

// AvailabilityInput defines the user's weekly windows.
type AvailabilityInput struct {
	DaysOfWeek      []string `json:"daysOfWeek" validate:"required,min=1"`
	TimeSlots       []string `json:"timeSlots" validate:"required,min=1"`
	SessionDuration string   `json:"sessionDuration" validate:"required"`
	Timezone        string   `json:"timezone" validate:"required"`
	IsRecurring     bool     `json:"isRecurring"`
}

// SkillOfferedInput is one skill the user can teach.
type SkillOfferedInput struct {
	Title             string `json:"title" validate:"required,min=3,max=100"`
	Description       string `json:"description" validate:"required,min=10,max=500"`
	Category          string `json:"category" validate:"required"`
	ExperienceLevel   string `json:"experienceLevel" validate:"required"`
	YearsOfExperience *int   `json:"yearsOfExperience" validate:"omitempty,min=0,max=50"`
}

// SkillWantedInput is one skill the user wants to learn.
type SkillWantedInput struct {
	Title        string  `json:"title" validate:"required,min=3,max=100"`
	Description  string  `json:"description" validate:"required,min=10,max=500"`
	Category     string  `json:"category" validate:"required"`
	CurrentLevel *string `json:"currentLevel"`
	DesiredLevel string  `json:"desiredLevel" validate:"required"`
}

// ProfileSetupRequest is the full onboarding payload committed in one
// transaction.
type ProfileSetupRequest struct {
	Name          string              `json:"name" validate:"required,max=100"`
	Bio           *string             `json:"bio" validate:"omitempty,max=500"`
	Location      *LocationInput      `json:"location"`
	Privacy       PrivacyInput        `json:"privacy"`
	Availability  AvailabilityInput   `json:"availability" validate:"required"`
	SkillsOffered []SkillOfferedInput `json:"skillsOffered" validate:"dive"`
	SkillsWanted  []SkillWantedInput  `json:"skillsWanted" validate:"dive"`
}

// ProfileSetupResult is the aggregate written during setup.
type ProfileSetupResult struct {
	User          *models.User          `json:"user"`
	Availability  *models.Availability  `json:"availability"`
	SkillsOffered []models.SkillOffered `json:"skillsOffered"`
	SkillsWanted  []models.SkillWanted  `json:"skillsWanted"`
}
