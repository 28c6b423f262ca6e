package dto

import "github.com/skillcircle/skillcircle-api/internal/models"

// GoogleProfile is the subset of the Google userinfo payload read at sign-in.
type GoogleProfile struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthResult returns the issued token and the signed-in user.
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}
