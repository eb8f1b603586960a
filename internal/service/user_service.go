package service

import (
	"context"
	"errors"
	"fmt"

	"grocigo/internal/model"
	"grocigo/internal/repository"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("User not found")

type UserService interface {
	ListCustomers(ctx context.Context) ([]model.UserResponse, error)
	// ResetPassword sets a new password and ends the user's current session.
	ResetPassword(ctx context.Context, userID, newPassword string) error
	// EnsureAdmin creates the admin account when it is missing. The bool reports creation.
	EnsureAdmin(ctx context.Context, req AdminAccount) (*model.User, bool, error)
}

type AdminAccount struct {
	UserName string `validate:"required,max=100"`
	Password string `validate:"required,min=6"`
	Name     string `validate:"required"`
	Email    string `validate:"omitempty,email"`
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

func (s *userService) ListCustomers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindByRole(ctx, model.RoleCustomer)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) ResetPassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < 6 {
		return &ValidationError{Message: "password must be at least 6 characters"}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}
	return s.userRepo.UpdateTokenVersion(ctx, user.ID, uuid.NewString())
}

func (s *userService) EnsureAdmin(ctx context.Context, req AdminAccount) (*model.User, bool, error) {
	if err := validate(&req); err != nil {
		return nil, false, err
	}

	role, err := s.roleRepo.FindByCode(ctx, model.RoleAdmin)
	if err != nil {
		return nil, false, fmt.Errorf("loading admin role: %w", err)
	}

	existing, err := s.userRepo.FindByID(ctx, req.UserName)
	if err == nil {
		// Privileges added since the admin was created are granted on the next start.
		if len(existing.Privileges) != len(role.Privileges) {
			if err := s.userRepo.UpdatePrivileges(ctx, existing.ID, role.Privileges); err != nil {
				return nil, false, fmt.Errorf("syncing admin privileges: %w", err)
			}
			existing.Privileges = role.Privileges
		}
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	admin := &model.User{
		ID:         req.UserName,
		Name:       req.Name,
		Email:      req.Email,
		RoleID:     &role.ID,
		Privileges: role.Privileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(req.Password); err != nil {
		return nil, false, fmt.Errorf("hashing password: %w", err)
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, false, err
	}
	return admin, true, nil
}
