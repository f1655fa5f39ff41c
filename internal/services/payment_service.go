package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/storage"
)

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9_]`)
)

// slugValue derives the machine value from a display name: lowercase,
// whitespace runs to underscores, everything else stripped.
func slugValue(name string) string {
	v := strings.ToLower(name)
	v = slugSpaces.ReplaceAllString(v, "_")
	return slugInvalid.ReplaceAllString(v, "")
}

// PaymentMethodService manages user-defined payment methods. Methods are
// created and deleted, never renamed; the stable value slug is referenced by
// saved filters.
type PaymentMethodService struct {
	storage *storage.SQLiteRepository
	events  *amqp.Client
}

func NewPaymentMethodService(storage *storage.SQLiteRepository, events *amqp.Client) *PaymentMethodService {
	return &PaymentMethodService{storage: storage, events: events}
}

func (s *PaymentMethodService) List(ctx context.Context, userID int64) ([]core.PaymentMethod, error) {
	return s.storage.ListPaymentMethods(ctx, userID)
}

func (s *PaymentMethodService) Get(ctx context.Context, userID, id int64) (core.PaymentMethod, error) {
	return s.storage.GetPaymentMethod(ctx, userID, id)
}

func (s *PaymentMethodService) Create(ctx context.Context, userID int64, name string) (core.PaymentMethod, error) {
	if strings.TrimSpace(name) == "" {
		return core.PaymentMethod{}, core.ErrMissingPaymentMethod
	}

	created, err := s.storage.CreatePaymentMethod(ctx, core.PaymentMethod{
		UserID: userID,
		Name:   name,
		Value:  slugValue(name),
	})
	if err != nil {
		return core.PaymentMethod{}, fmt.Errorf("create payment method: %w", err)
	}

	publishActivity(ctx, s.events, userID, core.EntityPaymentMethod, created.ID, core.ActionCreated, map[string]any{
		"name":  created.Name,
		"value": created.Value,
	})
	return created, nil
}

// Delete fails with core.ErrPaymentMethodInUse when expenses still reference
// the method.
func (s *PaymentMethodService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeletePaymentMethod(ctx, userID, id); err != nil {
		return err
	}
	publishActivity(ctx, s.events, userID, core.EntityPaymentMethod, id, core.ActionDeleted, nil)
	return nil
}
