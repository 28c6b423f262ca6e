package dto

import (
	"github.com/skillcircle/skillcircle-api/internal/models"
)

// UserSummary is the restricted participant projection joined onto exchanges.
type UserSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ProfileImage *string `json:"profileImage,omitempty"`
	IsVerified   bool    `json:"isVerified"`
}

// OfferedSkillSummary is the skill projection joined onto exchanges.
type OfferedSkillSummary struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Category        models.SkillCategory   `json:"category"`
	ExperienceLevel models.ExperienceLevel `json:"experienceLevel"`
}

// WantedSkillSummary is the optional wanted-skill projection.
type WantedSkillSummary struct {
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Category     models.SkillCategory   `json:"category"`
	DesiredLevel models.ExperienceLevel `json:"desiredLevel"`
}

// ExchangeRow is the flat joined row repositories scan exchanges into.
type ExchangeRow struct {
	models.SkillExchange

	TeacherName         string  `db:"teacher_name"`
	TeacherImage        *string `db:"teacher_image"`
	TeacherVerified     bool    `db:"teacher_verified"`
	LearnerName         string  `db:"learner_name"`
	LearnerImage        *string `db:"learner_image"`
	LearnerVerified     bool    `db:"learner_verified"`
	SkillTitle          string  `db:"skill_title"`
	SkillDescription    string  `db:"skill_description"`
	SkillCategory       string  `db:"skill_category"`
	SkillLevel          string  `db:"skill_level"`
	WantedTitle         *string `db:"wanted_title"`
	WantedDescription   *string `db:"wanted_description"`
	WantedCategory      *string `db:"wanted_category"`
	WantedDesiredLevel  *string `db:"wanted_desired_level"`
}

// ExchangeDetail is the nested exchange representation returned to clients,
// annotated with the viewer's role.
type ExchangeDetail struct {
	models.SkillExchange

	Teacher      UserSummary         `json:"teacher"`
	Learner      UserSummary         `json:"learner"`
	OfferedSkill OfferedSkillSummary `json:"offeredSkill"`
	WantedSkill  *WantedSkillSummary `json:"wantedSkill,omitempty"`
	UserRole     string              `json:"userRole"`
}

// Detail converts a joined row into the nested client shape for the viewer.
func (r *ExchangeRow) Detail(viewerID string) *ExchangeDetail {
	detail := &ExchangeDetail{
		SkillExchange: r.SkillExchange,
		Teacher: UserSummary{
			ID:           r.TeacherID,
			Name:         r.TeacherName,
			ProfileImage: r.TeacherImage,
			IsVerified:   r.TeacherVerified,
		},
		Learner: UserSummary{
			ID:           r.LearnerID,
			Name:         r.LearnerName,
			ProfileImage: r.LearnerImage,
			IsVerified:   r.LearnerVerified,
		},
		OfferedSkill: OfferedSkillSummary{
			ID:              r.OfferedSkillID,
			Title:           r.SkillTitle,
			Description:     r.SkillDescription,
			Category:        models.SkillCategory(r.SkillCategory),
			ExperienceLevel: models.ExperienceLevel(r.SkillLevel),
		},
		UserRole: models.RoleOf(&r.SkillExchange, viewerID),
	}
	if r.WantedSkillID != nil && r.WantedTitle != nil {
		detail.WantedSkill = &WantedSkillSummary{
			ID:           *r.WantedSkillID,
			Title:        *r.WantedTitle,
			Description:  derefOr(r.WantedDescription, ""),
			Category:     models.SkillCategory(derefOr(r.WantedCategory, "")),
			DesiredLevel: models.ExperienceLevel(derefOr(r.WantedDesiredLevel, "")),
		}
	}
	return detail
}

func derefOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

// CreateExchangeRequest defines the payload for opening an exchange request.
type CreateExchangeRequest struct {
	OfferedSkillID string `json:"offeredSkillId" validate:"required"`
	ExchangeTitle  string `json:"exchangeTitle" validate:"required"`
	AgreementTerms string `json:"agreementTerms" validate:"required"`
	Format         string `json:"format" validate:"required"`
	EstimatedHours *int   `json:"estimatedHours" validate:"omitempty,min=1"`
}

// RespondExchangeRequest defines the accept/reject payload.
type RespondExchangeRequest struct {
	Action          string  `json:"action" validate:"required,oneof=accept reject"`
	ResponseMessage *string `json:"responseMessage"`
}

// ExchangeListResult pairs a page of exchanges with its pagination metadata.
type ExchangeListResult struct {
	Exchanges  []*ExchangeDetail  `json:"exchanges"`
	Pagination *models.Pagination `json:"pagination"`
}
