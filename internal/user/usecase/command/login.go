package command

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/stawicover/agency-api/internal/user/domain"
	"github.com/stawicover/agency-api/pkg/auth"
)

// LoginCommand carries login credentials.
type LoginCommand struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries the issued token and the account it belongs to.
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginHandler handles credential checks and token issue.
type LoginHandler struct {
	repo domain.UserRepository
}

// NewLoginHandler creates a new login handler.
func NewLoginHandler(repo domain.UserRepository) *LoginHandler {
	return &LoginHandler{repo: repo}
}

// Handle verifies the credentials and issues a JWT.
func (h *LoginHandler) Handle(cmd LoginCommand) (*LoginResult, error) {
	user, err := h.repo.FindByUsername(cmd.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}
