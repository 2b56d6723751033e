package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zamzam-app/feedback-service/internal/auth"
	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/repositories"
	"github.com/zamzam-app/feedback-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

// Create mirrors a Casdoor identity into the local profile store.
func (s *userService) Create(ctx context.Context, req *CreateUserRequest, session *auth.Session) (*models.User, error) {
	s.logger.Info("Creating user", "user_id", req.ID, "role", req.Role, "actor", session.UserID)

	if !session.IsAdmin() {
		return nil, NewPermissionError(session.UserID, 0, "user", "create", "admin role required")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	taken, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrUserDuplicateEmail
	}

	user := &models.User{
		ID:       req.ID,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
		Language: req.Language,
		IsActive: true,
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = &req.PhoneNumber
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", "user_id", user.ID)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	results, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]models.User, len(results))
	for i, u := range results {
		users[i] = *u
	}
	return &UserListResponse{
		Users: users,
		Total: total,
		Page:  pageFromOffset(filters.Offset, filters.Limit),
		Size:  len(users),
	}, nil
}

func (s *userService) Update(ctx context.Context, id string, req *UpdateUserRequest, session *auth.Session) (*models.User, error) {
	// Users may edit their own profile; role changes stay admin-only.
	if session.UserID != id && !session.IsAdmin() {
		return nil, NewPermissionError(session.UserID, 0, "user", "update", "not own profile")
	}
	if req.Role != nil && !session.IsAdmin() {
		return nil, NewPermissionError(session.UserID, 0, "user", "change_role", "admin role required")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Language != nil {
		user.Language = *req.Language
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", "user_id", id, "actor", session.UserID)
	return user, nil
}

func (s *userService) Deactivate(ctx context.Context, id string, session *auth.Session) error {
	if !session.IsAdmin() {
		return NewPermissionError(session.UserID, 0, "user", "deactivate", "admin role required")
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	user.IsActive = false
	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	s.logger.Info("User deactivated", "user_id", id, "actor", session.UserID)
	return nil
}

func (s *userService) RecordLogin(ctx context.Context, id string) error {
	if err := s.repo.User().UpdateLastLogin(ctx, id, time.Now()); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}
