package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sakif/taskmate/internal/apperror"
	"github.com/sakif/taskmate/internal/model"
)

// SessionView is what GET /me returns. It is either a CustomerView or a
// ProviderView; the set is closed by the unexported method.
type SessionView interface {
	isSessionView()
}

// CustomerView is the session of a customer: the user record only.
type CustomerView struct {
	*model.User
}

// ProviderView is the session of a provider. ProviderProfile is nil when the
// profile row is missing, which is not treated as an error.
type ProviderView struct {
	*model.User
	ProviderProfile *model.ProviderProfile `json:"providerProfile,omitempty"`
}

func (CustomerView) isSessionView() {}
func (ProviderView) isSessionView() {}

// CurrentSession loads the account behind an authenticated user id.
func (s *AuthService) CurrentSession(ctx context.Context, userID int64) (SessionView, error) {
	if userID <= 0 {
		return nil, apperror.Unauthenticated("Not authorized")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFoundMessage("User not found")
		}
		return nil, fmt.Errorf("service/auth: fetching user %d: %w", userID, err)
	}

	switch user.Role {
	case model.RoleCustomer:
		return CustomerView{User: user}, nil

	case model.RoleProvider:
		profile, err := s.providers.GetProviderProfileByUserID(ctx, userID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/auth: fetching provider profile for user %d: %w", userID, err)
		}
		return ProviderView{User: user, ProviderProfile: profile}, nil

	default:
		return nil, fmt.Errorf("service/auth: user %d has unknown role %q", userID, user.Role)
	}
}
