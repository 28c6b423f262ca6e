package dto

import (
	"github.com/skillcircle/skillcircle-api/internal/models"
)

// SkillOwner is the restricted owner projection attached to search results.
type SkillOwner struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ProfileImage *string `json:"profileImage,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	Location     *string `json:"location,omitempty"`
	ShowLocation bool    `json:"showLocation"`
	IsVerified   bool    `json:"isVerified"`
}

// SkillSearchRow is the flat joined row the search query scans into.
type SkillSearchRow struct {
	models.SkillOffered

	OwnerName     string  `db:"owner_name"`
	OwnerImage    *string `db:"owner_image"`
	OwnerBio      *string `db:"owner_bio"`
	OwnerLocation *string `db:"owner_location"`
	OwnerShowLoc  bool    `db:"owner_show_location"`
	OwnerVerified bool    `db:"owner_verified"`
}

// SkillSearchItem is one search result with its owner projection.
type SkillSearchItem struct {
	models.SkillOffered

	User SkillOwner `json:"user"`
}

// Item converts a joined row to the client shape. Location is withheld
// unless the owner shares it.
func (r *SkillSearchRow) Item() *SkillSearchItem {
	item := &SkillSearchItem{
		SkillOffered: r.SkillOffered,
		User: SkillOwner{
			ID:           r.UserID,
			Name:         r.OwnerName,
			ProfileImage: r.OwnerImage,
			Bio:          r.OwnerBio,
			ShowLocation: r.OwnerShowLoc,
			IsVerified:   r.OwnerVerified,
		},
	}
	if r.OwnerShowLoc {
		item.User.Location = r.OwnerLocation
	}
	return item
}

// SkillSearchResult pairs a result page with its pagination metadata.
type SkillSearchResult struct {
	Skills     []*SkillSearchItem `json:"skills"`
	Pagination *models.Pagination `json:"pagination"`
}
