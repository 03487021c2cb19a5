package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New()

type Service struct {
	store  Repository
	logger *zap.Logger
	newID  func() string
	now    func() time.Time
}

func NewService(store Repository, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// Signup registers email and returns the new user.
func (s *Service) Signup(ctx context.Context, email string) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	user := &User{
		ID:        s.newID(),
		Email:     email,
		CreatedAt: s.now(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, ErrAlreadyExists
		}

		s.logger.Error("failed to create user", zap.String("email", email), zap.Error(err))

		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user signed up", zap.String("userId", user.ID))

	return user, nil
}

// Login returns the user registered under email. There are no credentials;
// an unknown email is reported as ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email string) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}

		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	return user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return user, nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	list, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return list, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)

	if err := validate.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidInput, email)
	}

	return email, nil
}
