package application

// UpdateProfileRequest represents the request body for updating a user's profile
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	LocalOnly   *bool   `json:"local_only,omitempty"`
}

// ProfileResponse represents a user's profile information
type ProfileResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	LocalOnly   bool    `json:"local_only"`
	CreatedAt   string  `json:"created_at"`
}
