package users

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tiagobr21/ecommerce-orcou-back/internal/auth"
)

type repo interface {
	Create(ctx context.Context, name, email, passwordHash string) (int64, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	ListByRole(ctx context.Context, role string) ([]User, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type resetTokens interface {
	Save(ctx context.Context, token, email string) error
	Consume(ctx context.Context, token string) (string, error)
}

type mailer interface {
	SendPasswordReset(to, link string) error
}

type Service struct {
	Repo   repo
	Tokens resetTokens
	Mailer mailer
	JWT    *auth.JWTService
	AppURL string
}

func (s *Service) SignUp(ctx context.Context, name, email, password string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return 0, errors.New("name and email are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return 0, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return 0, err
	}
	return s.Repo.Create(ctx, name, email, hash)
}

// LogIn rejects accounts the admin has not approved yet, matching the
// original flow where fresh signups wait for activation.
func (s *Service) LogIn(ctx context.Context, email, password string) (string, time.Time, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrUserNotFound) {
		return "", time.Time{}, ErrBadCredentials
	}
	if err != nil {
		return "", time.Time{}, err
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return "", time.Time{}, ErrBadCredentials
	}
	if u.Status != StatusApproved {
		return "", time.Time{}, ErrNotApproved
	}
	return s.JWT.Generate(u.ID, u.Email, u.Role)
}

// ForgotPassword always reports success to the caller so the endpoint cannot
// be used to probe which emails exist. The mail carries a one-time link,
// never the password itself.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	token := uuid.NewString()
	if err := s.Tokens.Save(ctx, token, u.Email); err != nil {
		return err
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", s.AppURL, token)
	if err := s.Mailer.SendPasswordReset(u.Email, link); err != nil {
		log.Printf("password reset mail to %s failed: %v", u.Email, err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := s.Tokens.Consume(ctx, token)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, email, hash)
}

func (s *Service) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(oldPassword, u.PasswordHash) {
		return ErrBadCredentials
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, email, hash)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.Repo.ListByRole(ctx, RoleUser)
}

func (s *Service) SetStatus(ctx context.Context, id int64, status string) error {
	switch status {
	case StatusPending, StatusApproved, StatusDisabled:
	default:
		return fmt.Errorf("unknown status %q", status)
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}

func (s *Service) EmailByID(ctx context.Context, id int64) (string, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Email, nil
}
