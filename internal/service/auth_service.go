package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grocigo/internal/model"
	"grocigo/internal/repository"
	"grocigo/pkg/jwt"

	"github.com/google/uuid"
)

var (
	ErrMissingCredentials = errors.New("Missing credentials")
	ErrInvalidCredentials = errors.New("User ID or Password is incorrect!")
	ErrUsernameTaken      = errors.New("User Name already taken!")
	ErrPasswordMismatch   = errors.New("Passwords do not match!")
	ErrSessionRevoked     = errors.New("session expired (logged in elsewhere or logged out)")
)

type AuthService interface {
	Login(ctx context.Context, req LoginInput) (*LoginResponse, error)
	Logout(ctx context.Context, userID string) error
	// Session returns the user name behind token, or "" when there is no valid session.
	Session(ctx context.Context, token string) string
	CreateAccount(ctx context.Context, req CreateAccountInput) (*model.User, error)
	// Authenticate validates token against the signing key and the user's current session.
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
}

type LoginInput struct {
	UserName string `json:"user"`
	Password string `json:"pass"`
}

type CreateAccountInput struct {
	UserName        string `json:"newUserName" validate:"required,max=100"`
	Name            string `json:"newName" validate:"required,max=255"`
	Email           string `json:"newEmail" validate:"required,email"`
	Password        string `json:"newPass" validate:"required,min=6"`
	ConfirmPassword string `json:"newConfirmPass" validate:"required"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	ExpiresAt  time.Time          `json:"expires_at"`
	User       model.UserResponse `json:"user"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	tokens   *jwt.Issuer
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, tokens *jwt.Issuer) AuthService {
	return &authService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		tokens:   tokens,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req LoginInput) (*LoginResponse, error) {
	if req.UserName == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.userRepo.FindByID(ctx, req.UserName)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: a new version invalidates every older token.
	now := s.now()
	user.TokenVersion = uuid.NewString()
	user.LastSeenAt = &now
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, user.TokenVersion); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}
	if err := s.userRepo.UpdateLastSeen(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}

	privileges := user.GetPrivilegeCodes()
	token, err := s.tokens.GenerateToken(user.ID, user.Name, user.RoleCode(), privileges, user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &LoginResponse{
		Token:      token,
		ExpiresAt:  now.Add(s.tokens.TTL()),
		User:       user.ToResponse(),
		Privileges: privileges,
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	return s.userRepo.UpdateTokenVersion(ctx, userID, uuid.NewString())
}

func (s *authService) Session(ctx context.Context, token string) string {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return ""
	}
	return claims.UserID
}

func (s *authService) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

func (s *authService) CreateAccount(ctx context.Context, req CreateAccountInput) (*model.User, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	_, err := s.userRepo.FindByID(ctx, req.UserName)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	role, err := s.roleRepo.FindByCode(ctx, model.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("loading customer role: %w", err)
	}

	user := &model.User{
		ID:         req.UserName,
		Name:       req.Name,
		Email:      req.Email,
		RoleID:     &role.ID,
		Privileges: role.Privileges,
	}
	user.CreatedBy = req.UserName
	user.UpdatedBy = req.UserName
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}
