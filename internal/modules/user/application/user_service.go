package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	authdomain "github.com/captainhq/captain-backend/internal/modules/auth/domain"
)

type UserService struct {
	repo authdomain.UserRepository
}

func NewUserService(repo authdomain.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// UpdateProfile updates a user's profile information. Only the fields
// present in the request change; a nil field keeps its stored value.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) error {
	return s.repo.UpdateProfile(ctx, userID, req.DisplayName, req.AvatarURL, req.LocalOnly)
}

// GetProfile retrieves a user's profile information
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		Name:        user.Name,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		LocalOnly:   user.LocalOnly,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}, nil
}
