package command

import (
	"fmt"
	"testing"

	"github.com/stawicover/agency-api/internal/user/domain"
	"github.com/stawicover/agency-api/pkg/auth"
)

type mockUserRepo struct {
	users  []*domain.User
	nextID uint
}

func (m *mockUserRepo) Create(u *domain.User) error {
	m.nextID++
	u.ID = m.nextID
	m.users = append(m.users, u)
	return nil
}

func (m *mockUserRepo) FindByID(id uint) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (m *mockUserRepo) FindByUsername(username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (m *mockUserRepo) FindByEmail(email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (m *mockUserRepo) FindAll(limit, offset int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func TestRegisterAndLogin(t *testing.T) {
	repo := &mockUserRepo{}

	user, err := NewRegisterHandler(repo).Handle(RegisterCommand{
		Username: "jane",
		Email:    "jane@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Fatal("password stored in plain text")
	}
	if user.Role != domain.RoleUser {
		t.Errorf("role = %q, want user", user.Role)
	}

	login := NewLoginHandler(repo)

	result, err := login.Handle(LoginCommand{Username: "jane", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := auth.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "jane" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := login.Handle(LoginCommand{Username: "jane", Password: "wrong"}); err == nil {
		t.Error("wrong password must be rejected")
	}
	if _, err := login.Handle(LoginCommand{Username: "nobody", Password: "s3cret-pass"}); err == nil {
		t.Error("unknown user must be rejected")
	}
}

func TestRegisterValidation(t *testing.T) {
	repo := &mockUserRepo{}
	h := NewRegisterHandler(repo)

	if _, err := h.Handle(RegisterCommand{Username: "jane", Email: "jane@example.com", Password: "short"}); err == nil {
		t.Error("short password must be rejected")
	}

	if _, err := h.Handle(RegisterCommand{Username: "jane", Email: "jane@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := h.Handle(RegisterCommand{Username: "jane", Email: "other@example.com", Password: "s3cret-pass"}); err == nil {
		t.Error("duplicate username must be rejected")
	}
	if _, err := h.Handle(RegisterCommand{Username: "janet", Email: "jane@example.com", Password: "s3cret-pass"}); err == nil {
		t.Error("duplicate email must be rejected")
	}
}
