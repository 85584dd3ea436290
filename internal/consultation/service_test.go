package consultation

import (
	"fmt"
	"testing"
)

type mockRepo struct {
	items  []*Consultation
	nextID uint
}

func (m *mockRepo) Create(c *Consultation) error {
	m.nextID++
	c.ID = m.nextID
	m.items = append(m.items, c)
	return nil
}

func (m *mockRepo) FindByID(id uint) (*Consultation, error) {
	for _, c := range m.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (m *mockRepo) FindAll(status string, limit, offset int) ([]Consultation, error) {
	var out []Consultation
	for _, c := range m.items {
		if status == "" || c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(c *Consultation) error { return nil }

func (m *mockRepo) Delete(id uint) error {
	for i, c := range m.items {
		if c.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("record not found")
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&mockRepo{})

	tests := []struct {
		name    string
		in      CreateInput
		wantErr bool
	}{
		{
			name: "valid booking",
			in:   CreateInput{Name: "Jane", Email: "jane@example.com", Service: "motor cover review"},
		},
		{
			name: "phone only is enough",
			in:   CreateInput{Name: "Jane", Phone: "254712345678", Service: "motor cover review"},
		},
		{
			name:    "missing name",
			in:      CreateInput{Email: "jane@example.com", Service: "motor cover review"},
			wantErr: true,
		},
		{
			name:    "no contact method",
			in:      CreateInput{Name: "Jane", Service: "motor cover review"},
			wantErr: true,
		},
		{
			name:    "missing service",
			in:      CreateInput{Name: "Jane", Email: "jane@example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := svc.Create(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Status != StatusPending {
				t.Errorf("new booking status = %q, want pending", c.Status)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	c, err := svc.Create(CreateInput{Name: "Jane", Email: "jane@example.com", Service: "review"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateStatus(c.ID, StatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.UpdateStatus(c.ID, "bogus"); err == nil {
		t.Error("unknown status must be rejected")
	}

	if _, err := svc.UpdateStatus(c.ID, StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.UpdateStatus(c.ID, StatusConfirmed); err == nil {
		t.Error("cancelled bookings must not be reopened")
	}
}

func TestListFiltersByStatus(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	svc.Create(CreateInput{Name: "A", Email: "a@example.com", Service: "review"})
	svc.Create(CreateInput{Name: "B", Email: "b@example.com", Service: "review"})
	svc.UpdateStatus(2, StatusConfirmed)

	pending, err := svc.List(StatusPending, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 || pending[0].Name != "A" {
		t.Errorf("pending = %v, want only A", pending)
	}
}
