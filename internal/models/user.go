package models

import "time"

// User represents an account provisioned through Google sign-in.
type User struct {
	ID                 string     `db:"id" json:"id"`
	Email              string     `db:"email" json:"email"`
	FullName           string     `db:"full_name" json:"name"`
	Bio                *string    `db:"bio" json:"bio,omitempty"`
	ProfileImage       *string    `db:"profile_image" json:"profileImage,omitempty"`
	LocationAddress    *string    `db:"location_address" json:"locationAddress,omitempty"`
	LocationLat        *float64   `db:"location_lat" json:"locationLat,omitempty"`
	LocationLng        *float64   `db:"location_lng" json:"locationLng,omitempty"`
	IsPrivate          bool       `db:"is_private" json:"isPrivate"`
	ShowLocation       bool       `db:"show_location" json:"showLocation"`
	ShowRatings        bool       `db:"show_ratings" json:"showRatings"`
	ShowSkillsOffered  bool       `db:"show_skills_offered" json:"showSkillsOffered"`
	ShowSkillsWanted   bool       `db:"show_skills_wanted" json:"showSkillsWanted"`
	AllowDirectContact bool       `db:"allow_direct_contact" json:"allowDirectContact"`
	IsSetupCompleted   bool       `db:"is_setup_completed" json:"isSetupCompleted"`
	IsActive           bool       `db:"is_active" json:"isActive"`
	IsVerified         bool       `db:"is_verified" json:"isVerified"`
	LastLogin          *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updatedAt"`
}

// Pagination carries page metadata returned alongside list responses.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
	Limit       int  `json:"limit"`
}

// NewPagination derives page metadata from a total count and page window.
func NewPagination(page, limit, totalCount int) *Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}
	return &Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
		Limit:       limit,
	}
}
