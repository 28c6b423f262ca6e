package models

// SkillCategory classifies skills for discovery filters.
type SkillCategory string

const (
	CategoryTechnology     SkillCategory = "TECHNOLOGY"
	CategoryBusiness       SkillCategory = "BUSINESS"
	CategoryCreative       SkillCategory = "CREATIVE"
	CategoryLanguages      SkillCategory = "LANGUAGES"
	CategoryMusic          SkillCategory = "MUSIC"
	CategorySports         SkillCategory = "SPORTS"
	CategoryCooking        SkillCategory = "COOKING"
	CategoryCrafts         SkillCategory = "CRAFTS"
	CategoryHealthWellness SkillCategory = "HEALTH_WELLNESS"
	CategoryEducation      SkillCategory = "EDUCATION"
	CategoryAutomotive     SkillCategory = "AUTOMOTIVE"
	CategoryHomeGarden     SkillCategory = "HOME_GARDEN"
	CategoryOther          SkillCategory = "OTHER"
)

// IsValid reports whether the category is a known value.
func (c SkillCategory) IsValid() bool {
	switch c {
	case CategoryTechnology, CategoryBusiness, CategoryCreative, CategoryLanguages,
		CategoryMusic, CategorySports, CategoryCooking, CategoryCrafts,
		CategoryHealthWellness, CategoryEducation, CategoryAutomotive,
		CategoryHomeGarden, CategoryOther:
		return true
	}
	return false
}

// ExperienceLevel grades proficiency for offered and wanted skills.
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "BEGINNER"
	LevelIntermediate ExperienceLevel = "INTERMEDIATE"
	LevelAdvanced     ExperienceLevel = "ADVANCED"
	LevelExpert       ExperienceLevel = "EXPERT"
)

// IsValid reports whether the level is a known value.
func (l ExperienceLevel) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	}
	return false
}

// DayOfWeek names the availability days.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// IsValid reports whether the day is a known value.
func (d DayOfWeek) IsValid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// TimeSlot names the coarse daily windows used for availability.
type TimeSlot string

const (
	SlotEarlyMorning TimeSlot = "EARLY_MORNING"
	SlotMorning      TimeSlot = "MORNING"
	SlotAfternoon    TimeSlot = "AFTERNOON"
	SlotEvening      TimeSlot = "EVENING"
	SlotLateEvening  TimeSlot = "LATE_EVENING"
)

// IsValid reports whether the slot is a known value.
func (s TimeSlot) IsValid() bool {
	switch s {
	case SlotEarlyMorning, SlotMorning, SlotAfternoon, SlotEvening, SlotLateEvening:
		return true
	}
	return false
}

// SessionDuration is the preferred length of a single session.
type SessionDuration string

const (
	DurationThirtyMinutes SessionDuration = "THIRTY_MINUTES"
	DurationOneHour       SessionDuration = "ONE_HOUR"
	DurationTwoHours      SessionDuration = "TWO_HOURS"
	DurationThreeHours    SessionDuration = "THREE_HOURS"
	DurationHalfDay       SessionDuration = "HALF_DAY"
	DurationFullDay       SessionDuration = "FULL_DAY"
	DurationFlexible      SessionDuration = "FLEXIBLE"
)

// IsValid reports whether the duration is a known value.
func (d SessionDuration) IsValid() bool {
	switch d {
	case DurationThirtyMinutes, DurationOneHour, DurationTwoHours,
		DurationThreeHours, DurationHalfDay, DurationFullDay, DurationFlexible:
		return true
	}
	return false
}

// ExchangeFormat describes how sessions are held.
type ExchangeFormat string

const (
	FormatOnlineOnly   ExchangeFormat = "ONLINE_ONLY"
	FormatInPersonOnly ExchangeFormat = "IN_PERSON_ONLY"
	FormatHybrid       ExchangeFormat = "HYBRID"
)

// IsValid reports whether the format is a known value.
func (f ExchangeFormat) IsValid() bool {
	switch f {
	case FormatOnlineOnly, FormatInPersonOnly, FormatHybrid:
		return true
	}
	return false
}

// ExchangeStatus is the lifecycle state of a skill exchange.
//
// PENDING -> ACCEPTED -> IN_PROGRESS -> COMPLETED, with CANCELLED reachable
// from PENDING via rejection. COMPLETED and CANCELLED are terminal.
type ExchangeStatus string

const (
	StatusPending    ExchangeStatus = "PENDING"
	StatusAccepted   ExchangeStatus = "ACCEPTED"
	StatusInProgress ExchangeStatus = "IN_PROGRESS"
	StatusCompleted  ExchangeStatus = "COMPLETED"
	StatusCancelled  ExchangeStatus = "CANCELLED"
)

// IsValid reports whether the status is a known value.
func (s ExchangeStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ActiveStatuses are the states that block a second request from the same
// learner for the same offered skill.
var ActiveStatuses = []ExchangeStatus{StatusPending, StatusAccepted, StatusInProgress}
