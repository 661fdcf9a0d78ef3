package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

// ErrPrincipalNotFound indicates the session refers to a user that no longer exists.
var ErrPrincipalNotFound = errors.New("session user not found")

// Principal is the authenticated identity with its capabilities.
type Principal struct {
	UserID      uint
	Username    string
	Role        string
	Tag         string
	Permissions models.Permissions
}

// Can reports whether the principal may access resource.
func (p Principal) Can(resource models.Resource) bool {
	return p.Permissions.Allows(resource)
}

// IsSuperAdmin reports whether the principal holds settings and users.
func (p Principal) IsSuperAdmin() bool {
	return p.Permissions.IsSuperAdmin()
}

// PermissionService resolves session identities into principals.
type PermissionService interface {
	Principal(ctx context.Context, userID uint) (Principal, error)
}

type permissionService struct {
	users repository.UserRepository
}

// NewPermissionService constructs the permission evaluator.
func NewPermissionService(users repository.UserRepository) PermissionService {
	return &permissionService{users: users}
}

func (s *permissionService) Principal(ctx context.Context, userID uint) (Principal, error) {
	if userID == 0 {
		return Principal{}, ErrPrincipalNotFound
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Principal{}, ErrPrincipalNotFound
		}
		return Principal{}, err
	}
	return Principal{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		Tag:         user.Tag,
		Permissions: user.Permissions,
	}, nil
}
