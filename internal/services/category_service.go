package services

import (
	"context"
	"fmt"
	"strings"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/storage"
)

// CategoryService manages user-defined categories. Default categories are
// shared reference data and pass through read-only.
type CategoryService struct {
	storage *storage.SQLiteRepository
	events  *amqp.Client
}

func NewCategoryService(storage *storage.SQLiteRepository, events *amqp.Client) *CategoryService {
	return &CategoryService{storage: storage, events: events}
}

func (s *CategoryService) List(ctx context.Context, userID int64) ([]core.Category, error) {
	return s.storage.ListCategories(ctx, userID)
}

func (s *CategoryService) Get(ctx context.Context, userID, id int64) (core.Category, error) {
	return s.storage.GetCategory(ctx, userID, id)
}

func (s *CategoryService) Create(ctx context.Context, userID int64, c core.Category) (core.Category, error) {
	c.UserID = userID
	if strings.TrimSpace(c.Name) == "" {
		return core.Category{}, core.ErrMissingCategory
	}

	created, err := s.storage.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	publishActivity(ctx, s.events, userID, core.EntityCategory, created.ID, core.ActionCreated, map[string]any{
		"name": created.Name,
	})
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, userID int64, c core.Category) (core.Category, error) {
	c.UserID = userID
	if strings.TrimSpace(c.Name) == "" {
		return core.Category{}, core.ErrMissingCategory
	}

	updated, err := s.storage.UpdateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}

	publishActivity(ctx, s.events, userID, core.EntityCategory, updated.ID, core.ActionUpdated, map[string]any{
		"name": updated.Name,
	})
	return updated, nil
}

// Delete refuses to orphan expenses: a category with linked expenses stays
// put and the caller gets core.ErrCategoryInUse.
func (s *CategoryService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	publishActivity(ctx, s.events, userID, core.EntityCategory, id, core.ActionDeleted, nil)
	return nil
}

// ExpenseCount reports how many expenses reference the category, across all
// users for default categories. Used to warn before deletion.
func (s *CategoryService) ExpenseCount(ctx context.Context, id int64) (int64, error) {
	return s.storage.CountExpensesByCategory(ctx, id)
}
