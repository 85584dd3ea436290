package command

import (
	"fmt"
	"testing"
	"time"

	"github.com/stawicover/agency-api/internal/claim/domain"
)

type mockClaimRepo struct {
	claims []*domain.Claim
	nextID uint
}

func (m *mockClaimRepo) Create(c *domain.Claim) error {
	m.nextID++
	c.ID = m.nextID
	m.claims = append(m.claims, c)
	return nil
}

func (m *mockClaimRepo) FindByID(id uint) (*domain.Claim, error) {
	for _, c := range m.claims {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (m *mockClaimRepo) FindAll(limit, offset int) ([]domain.Claim, error) { return nil, nil }

func (m *mockClaimRepo) FindByStatus(status string, limit, offset int) ([]domain.Claim, error) {
	return nil, nil
}

func (m *mockClaimRepo) Update(c *domain.Claim) error { return nil }

func (m *mockClaimRepo) UpdateStatus(id uint, status string) error { return nil }

func (m *mockClaimRepo) Delete(id uint) error {
	for i, c := range m.claims {
		if c.ID == id {
			m.claims = append(m.claims[:i], m.claims[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("record not found")
}

func TestCreateClaimValidation(t *testing.T) {
	repo := &mockClaimRepo{}
	h := NewCreateClaimHandler(repo)

	tests := []struct {
		name    string
		cmd     CreateClaimCommand
		wantErr bool
	}{
		{
			name: "valid claim",
			cmd: CreateClaimCommand{
				PolicyNumber: "POL-1001",
				ClaimType:    "motor",
				ContactEmail: "jane@example.com",
			},
		},
		{
			name:    "missing policy number",
			cmd:     CreateClaimCommand{ClaimType: "motor", ContactEmail: "jane@example.com"},
			wantErr: true,
		},
		{
			name:    "missing claim type",
			cmd:     CreateClaimCommand{PolicyNumber: "POL-1001", ContactEmail: "jane@example.com"},
			wantErr: true,
		},
		{
			name:    "no contact method",
			cmd:     CreateClaimCommand{PolicyNumber: "POL-1001", ClaimType: "motor"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claim, err := h.Handle(tt.cmd)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if claim.Status != domain.StatusPending {
				t.Errorf("new claim status = %q, want pending", claim.Status)
			}
		})
	}
}

func TestUpdateClaimAppendsDocuments(t *testing.T) {
	repo := &mockClaimRepo{}
	repo.Create(&domain.Claim{
		PolicyNumber: "POL-1001",
		ClaimType:    "motor",
		Status:       domain.StatusPending,
		SupportingDocuments: domain.Documents{
			{OriginalName: "police-report.pdf", UploadedAt: time.Now()},
		},
	})

	h := NewUpdateClaimHandler(repo)
	claim, err := h.Handle(UpdateClaimCommand{
		ID: 1,
		SupportingDocuments: domain.Documents{
			{OriginalName: "photos.zip", UploadedAt: time.Now()},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(claim.SupportingDocuments) != 2 {
		t.Fatalf("documents = %d, want 2 (append, not replace)", len(claim.SupportingDocuments))
	}
	if claim.SupportingDocuments[0].OriginalName != "police-report.pdf" {
		t.Errorf("original document lost: %v", claim.SupportingDocuments)
	}
}

func TestUpdateClaimStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{name: "pending to under_review", from: domain.StatusPending, to: domain.StatusUnderReview},
		{name: "under_review to approved", from: domain.StatusUnderReview, to: domain.StatusApproved},
		{name: "approved to settled", from: domain.StatusApproved, to: domain.StatusSettled},
		{name: "rejected claim can be reopened", from: domain.StatusRejected, to: domain.StatusUnderReview},
		{name: "settled is final", from: domain.StatusSettled, to: domain.StatusPending, wantErr: true},
		{name: "unknown status", from: domain.StatusPending, to: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockClaimRepo{}
			repo.Create(&domain.Claim{PolicyNumber: "POL-1001", ClaimType: "motor", Status: tt.from})

			h := NewUpdateClaimStatusHandler(repo)
			claim, err := h.Handle(UpdateClaimStatusCommand{ID: 1, Status: tt.to})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if claim.Status != tt.to {
				t.Errorf("status = %q, want %q", claim.Status, tt.to)
			}
		})
	}
}

func TestDeleteClaim(t *testing.T) {
	repo := &mockClaimRepo{}
	repo.Create(&domain.Claim{PolicyNumber: "POL-1001", ClaimType: "motor"})

	h := NewDeleteClaimHandler(repo)
	if err := h.Handle(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.Handle(1); err == nil {
		t.Error("deleting a missing claim must fail")
	}
}
