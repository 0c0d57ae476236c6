package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/Dan9191/mealmate/internal/apperrors"
	"github.com/Dan9191/mealmate/internal/models"
	"github.com/Dan9191/mealmate/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidRequest     = "Invalid request data"
	msgUsernameExists     = "Username already exists"
	msgEmailExists        = "Email already exists"
	msgPasswordRequired   = "Password is required"
	msgIdentifierRequired = "Username or email is required"
	msgInvalidCredentials = "Invalid credentials"
)

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) error {
	if req.Username == nil || req.Email == nil || req.Password == nil {
		return apperrors.Validation(msgInvalidRequest)
	}

	// The unique constraints are the backstop for registrations racing past these checks.
	if _, err := s.repo.FindUserByUsername(ctx, *req.Username); err == nil {
		return apperrors.Conflict(msgUsernameExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.Internal(err)
	}
	if _, err := s.repo.FindUserByEmail(ctx, *req.Email); err == nil {
		return apperrors.Conflict(msgEmailExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.Internal(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(passwordKey(*req.Password), s.hashCost)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Username:     *req.Username,
		Email:        *req.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return apperrors.Conflict(msgUsernameExists)
		case errors.Is(err, repository.ErrDuplicateEmail):
			return apperrors.Conflict(msgEmailExists)
		}
		return apperrors.Internal(err)
	}

	s.log.Infof("User registered: %s", user.Email)
	if s.mailer != nil {
		if err := s.mailer.SendWelcome(user.Email, user.Username); err != nil {
			s.log.Warnf("Welcome mail to %s failed: %v", user.Email, err)
		}
	}
	return nil
}

// Login verifies credentials and returns the matching user. Unknown identifiers and
// wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if req.Password == nil {
		return nil, apperrors.Validation(msgPasswordRequired)
	}

	identifier := firstNonEmpty(req.UsernameOrEmail, req.Email, req.Username)
	if identifier == "" {
		return nil, apperrors.Unauthorized(msgIdentifierRequired)
	}

	user, err := s.repo.FindUserByLogin(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordKey(*req.Password)); err != nil {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return user, nil
}

// passwordKey digests the password so bcrypt's 72-byte input limit never applies
func passwordKey(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}
