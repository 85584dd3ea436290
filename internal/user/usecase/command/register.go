package command

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/stawicover/agency-api/internal/user/domain"
)

// RegisterCommand carries a new account registration.
type RegisterCommand struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler handles account registration.
type RegisterHandler struct {
	repo domain.UserRepository
}

// NewRegisterHandler creates a new registration handler.
func NewRegisterHandler(repo domain.UserRepository) *RegisterHandler {
	return &RegisterHandler{repo: repo}
}

// Handle validates the registration, hashes the password and persists the user.
func (h *RegisterHandler) Handle(cmd RegisterCommand) (*domain.User, error) {
	if cmd.Username == "" || cmd.Email == "" {
		return nil, fmt.Errorf("username and email are required")
	}
	if len(cmd.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := h.repo.FindByUsername(cmd.Username); err == nil {
		return nil, fmt.Errorf("username already taken")
	}
	if _, err := h.repo.FindByEmail(cmd.Email); err == nil {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     cmd.Username,
		Email:        cmd.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := h.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
