package http

import (
	"time"

	"spendwise/internal/core"
)

// Wire representations. Domain structs stay tag-free; the API shapes live
// here.
type (
	expenseJSON struct {
		ID                 int64      `json:"id"`
		CategoryID         int64      `json:"category_id"`
		CategoryName       string     `json:"category_name"`
		CategoryColor      string     `json:"category_color"`
		Amount             core.Money `json:"amount"`
		Description        string     `json:"description"`
		Date               core.Date  `json:"date"`
		Spender            string     `json:"spender"`
		PaymentMethodID    int64      `json:"payment_method_id"`
		PaymentMethodName  string     `json:"payment_method_name"`
		RecurringExpenseID int64      `json:"recurring_expense_id,omitempty"`
		CreatedAt          time.Time  `json:"created_at"`
		UpdatedAt          time.Time  `json:"updated_at"`
	}

	recurringJSON struct {
		ID                int64          `json:"id"`
		CategoryID        int64          `json:"category_id"`
		CategoryName      string         `json:"category_name"`
		CategoryColor     string         `json:"category_color"`
		Amount            core.Money     `json:"amount"`
		Description       string         `json:"description"`
		Spender           string         `json:"spender"`
		PaymentMethodID   int64          `json:"payment_method_id"`
		PaymentMethodName string         `json:"payment_method_name"`
		Frequency         core.Frequency `json:"frequency"`
		StartDate         core.Date      `json:"start_date"`
		EndDate           core.Date      `json:"end_date,omitempty"`
		IsActive          bool           `json:"is_active"`
		NextDueDate       core.Date      `json:"next_due_date"`
		CreatedAt         time.Time      `json:"created_at"`
		UpdatedAt         time.Time      `json:"updated_at"`
	}

	categoryJSON struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Icon      string `json:"icon"`
		Color     string `json:"color"`
		IsDefault bool   `json:"is_default"`
	}

	paymentMethodJSON struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Value     string `json:"value"`
		IsDefault bool   `json:"is_default"`
	}

	profileJSON struct {
		ID            int64    `json:"id"`
		Name          string   `json:"name"`
		FamilyMembers []string `json:"family_members"`
		Currency      string   `json:"currency"`
	}

	activityJSON struct {
		ID         int64     `json:"id"`
		EntityType string    `json:"entity_type"`
		EntityID   int64     `json:"entity_id"`
		Action     string    `json:"action"`
		Details    string    `json:"details"`
		CreatedAt  time.Time `json:"created_at"`
	}
)

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:                 e.ID,
		CategoryID:         e.CategoryID,
		CategoryName:       e.CategoryName,
		CategoryColor:      e.CategoryColor,
		Amount:             e.Amount,
		Description:        e.Description,
		Date:               e.Date,
		Spender:            e.Spender,
		PaymentMethodID:    e.PaymentMethodID,
		PaymentMethodName:  e.PaymentMethodName,
		RecurringExpenseID: e.RecurringExpenseID,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func toExpenseListJSON(expenses []core.Expense) []expenseJSON {
	out := make([]expenseJSON, len(expenses))
	for i, e := range expenses {
		out[i] = toExpenseJSON(e)
	}
	return out
}

func toRecurringJSON(re core.RecurringExpense) recurringJSON {
	return recurringJSON{
		ID:                re.ID,
		CategoryID:        re.CategoryID,
		CategoryName:      re.CategoryName,
		CategoryColor:     re.CategoryColor,
		Amount:            re.Amount,
		Description:       re.Description,
		Spender:           re.Spender,
		PaymentMethodID:   re.PaymentMethodID,
		PaymentMethodName: re.PaymentMethodName,
		Frequency:         re.Frequency,
		StartDate:         re.StartDate,
		EndDate:           re.EndDate,
		IsActive:          re.IsActive,
		NextDueDate:       re.NextDueDate,
		CreatedAt:         re.CreatedAt,
		UpdatedAt:         re.UpdatedAt,
	}
}

func toRecurringListJSON(templates []core.RecurringExpense) []recurringJSON {
	out := make([]recurringJSON, len(templates))
	for i, re := range templates {
		out[i] = toRecurringJSON(re)
	}
	return out
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color, IsDefault: c.IsDefault}
}

func toPaymentMethodJSON(pm core.PaymentMethod) paymentMethodJSON {
	return paymentMethodJSON{ID: pm.ID, Name: pm.Name, Value: pm.Value, IsDefault: pm.IsDefault}
}

func toProfileJSON(p core.Profile) profileJSON {
	return profileJSON{ID: p.ID, Name: p.Name, FamilyMembers: p.FamilyMembers, Currency: p.Currency}
}

func toActivityJSON(a core.ActivityLog) activityJSON {
	return activityJSON{
		ID:         a.ID,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Action:     a.Action,
		Details:    a.Details,
		CreatedAt:  a.CreatedAt,
	}
}
