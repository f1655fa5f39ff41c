package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

type (
	Frequency string

	Money struct {
		Cents int64
	}

	// Category is reference data. Default rows (IsDefault true, UserID 0)
	// are shared across users and never mutated.
	Category struct {
		ID        int64
		UserID    int64
		Name      string
		Icon      string
		Color     string
		IsDefault bool
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	PaymentMethod struct {
		ID        int64
		UserID    int64
		Name      string
		Value     string
		IsDefault bool
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Expense is a realized transaction. CategoryName, CategoryColor and
	// PaymentMethodName are denormalized from the joins at read time, so a
	// renamed category shows its current name on historical records.
	Expense struct {
		ID                 int64
		UserID             int64
		CategoryID         int64
		Amount             Money
		Description        string
		Date               Date
		Spender            string
		PaymentMethodID    int64
		RecurringExpenseID int64 // 0 for manually entered expenses
		CreatedAt          time.Time
		UpdatedAt          time.Time

		CategoryName      string
		CategoryColor     string
		PaymentMethodName string
	}

	// RecurringExpense is a template that generates expenses as its due
	// dates are confirmed. NextDueDate is the occurrence awaiting action.
	RecurringExpense struct {
		ID              int64
		UserID          int64
		CategoryID      int64
		Amount          Money
		Description     string
		Spender         string
		PaymentMethodID int64
		Frequency       Frequency
		StartDate       Date
		EndDate         Date // zero when open-ended; inclusive upper bound
		IsActive        bool
		NextDueDate     Date
		CreatedAt       time.Time
		UpdatedAt       time.Time

		CategoryName      string
		CategoryColor     string
		PaymentMethodName string
	}

	Profile struct {
		ID            int64
		Name          string
		FamilyMembers []string
		Currency      string
		DeletedAt     *time.Time
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	// ActivityLog records a domain mutation for the audit timeline. Rows are
	// written only by the activity worker, never by request handlers.
	ActivityLog struct {
		ID         int64
		UserID     int64
		EntityType string
		EntityID   int64
		Action     string
		Details    string // JSON payload describing the change
		CreatedAt  time.Time
	}
)

// Activity entity types and actions.
const (
	EntityExpense       = "expense"
	EntityCategory      = "category"
	EntityPaymentMethod = "payment_method"
	EntityRecurring     = "recurring_expense"

	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionConfirmed = "confirmed"
	ActionSkipped   = "skipped"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidFrequency     = errors.New("invalid frequency")
	ErrMissingCategory      = errors.New("category is required")
	ErrMissingSpender       = errors.New("spender is required")
	ErrMissingPaymentMethod = errors.New("payment method is required")
	ErrDescriptionTooLong   = errors.New("description too long (max 200 characters)")
	ErrEndBeforeStart       = errors.New("end date must not be before start date")

	ErrNotFound           = errors.New("not found")
	ErrCategoryInUse      = errors.New("category has linked expenses; reassign them first")
	ErrPaymentMethodInUse = errors.New("payment method is used by existing expenses")
	ErrDefaultImmutable   = errors.New("default reference rows cannot be modified")
)

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if strings.TrimSpace(e.Spender) == "" {
		return ErrMissingSpender
	}
	if e.PaymentMethodID <= 0 {
		return ErrMissingPaymentMethod
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

func (re RecurringExpense) Validate() error {
	if err := re.StartDate.Validate(); err != nil {
		return err
	}
	if !re.EndDate.IsZero() {
		if err := re.EndDate.Validate(); err != nil {
			return err
		}
		if re.EndDate.Before(re.StartDate) {
			return ErrEndBeforeStart
		}
	}
	if !re.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if err := re.Amount.Validate(); err != nil {
		return err
	}
	if re.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if strings.TrimSpace(re.Spender) == "" {
		return ErrMissingSpender
	}
	if re.PaymentMethodID <= 0 {
		return ErrMissingPaymentMethod
	}
	if len(re.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

// Pending reports whether the template has an occurrence awaiting action:
// active and due today or earlier.
func (re RecurringExpense) Pending(today Date) bool {
	return re.IsActive && !re.NextDueDate.After(today)
}
