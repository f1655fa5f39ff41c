package services

import (
	"context"
	"fmt"
	"strings"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

// ProfileService manages the account profile: display name, declared family
// members (the allowed spender names) and display currency.
type ProfileService struct {
	storage *storage.SQLiteRepository
}

func NewProfileService(storage *storage.SQLiteRepository) *ProfileService {
	return &ProfileService{storage: storage}
}

func (s *ProfileService) Get(ctx context.Context, userID int64) (core.Profile, error) {
	return s.storage.GetProfile(ctx, userID)
}

func (s *ProfileService) Create(ctx context.Context, p core.Profile) (core.Profile, error) {
	if strings.TrimSpace(p.Name) == "" {
		return core.Profile{}, fmt.Errorf("profile name is required")
	}
	if p.Currency == "" {
		p.Currency = "EUR"
	}
	if p.FamilyMembers == nil {
		p.FamilyMembers = []string{}
	}
	return s.storage.CreateProfile(ctx, p)
}

func (s *ProfileService) Update(ctx context.Context, userID int64, p core.Profile) (core.Profile, error) {
	p.ID = userID
	if strings.TrimSpace(p.Name) == "" {
		return core.Profile{}, fmt.Errorf("profile name is required")
	}
	if p.FamilyMembers == nil {
		p.FamilyMembers = []string{}
	}
	return s.storage.UpdateProfile(ctx, p)
}

// DeleteAccount soft-deletes the profile. Expense history stays in place so
// exports keep working until the data is purged out of band.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID int64) error {
	return s.storage.SoftDeleteProfile(ctx, userID)
}
