package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/internal/users"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service verifies operator credentials. Sessions and tokens live outside
// this backend.
type Service interface {
	VerifyCredentials(ctx context.Context, req VerifyRequest) (*VerifyResponse, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type passwordVerifier interface {
	Verify(password, encoded string) (bool, error)
}

type service struct {
	users    userRepository
	verifier passwordVerifier
}

// NewService constructs a credential verifier with the provided dependencies.
func NewService(usersRepo userRepository, verifier passwordVerifier) (Service, error) {
	if usersRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("password verifier is required")
	}
	return &service{users: usersRepo, verifier: verifier}, nil
}

func (s *service) VerifyCredentials(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "update last login")
	}
	user.LastLoginAt = &now

	return &VerifyResponse{User: users.FromModel(user)}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	var stored string
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	switch {
	case err == nil:
		stored = user.PasswordHash
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "lookup user")
	}

	valid, err := s.verifier.Verify(password, stored)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if user == nil || !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}
