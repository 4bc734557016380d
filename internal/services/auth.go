package services

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"mixtape/internal/models"
	"mixtape/internal/repositories"
	"mixtape/internal/shared"
)

// AuthService registers users and resolves submitted credentials to an [Identity].
type AuthService struct {
	users  *repositories.UserRepository
	admin  shared.AdminConfig
	logger *log.Logger
}

// NewAuthService creates an AuthService backed by the given user repository
// and the configured administrator credential pair.
func NewAuthService(users *repositories.UserRepository, admin shared.AdminConfig, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AuthService{users: users, admin: admin, logger: logger}
}

// Register creates a new user account with the given opaque credentials.
func (s *AuthService) Register(username, password string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", shared.ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", shared.ErrValidation)
	}

	user := models.NewUser(0, username, password)
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info("registered user", "username", username)
	return user, nil
}

// Login resolves a credential pair to an Identity.
//
// The administrator credential check runs first; a matching pair yields an
// admin identity (attached to the admin's user row when one exists). Otherwise
// the pair is compared against the stored user credentials as opaque values.
func (s *AuthService) Login(username, password string) (Identity, error) {
	if s.IsAdmin(username, password) {
		ident := Identity{Admin: true}
		if user, err := s.users.GetByUsername(username); err == nil {
			ident.UserID = user.ID()
		}
		s.logger.Info("admin login", "username", username)
		return ident, nil
	}

	user, err := s.users.GetByUsername(username)
	if errors.Is(err, shared.ErrUserNotFound) {
		return Identity{}, shared.ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, err
	}

	if !user.CheckPassword(password) {
		return Identity{}, shared.ErrInvalidCredentials
	}

	return Identity{UserID: user.ID()}, nil
}

// IsAdmin performs the fixed credential check against the one designated
// administrator account. Not delegated to a role table; a known
// simplification of the deployment model.
func (s *AuthService) IsAdmin(username, password string) bool {
	if s.admin.Username == "" {
		return false
	}
	return username == s.admin.Username && password == s.admin.Password
}
