package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

type (
	// CategoryTotal is one row of a category breakdown.
	CategoryTotal struct {
		Name  string     `json:"name"`
		Color string     `json:"color"`
		Total core.Money `json:"total"`
	}

	// SpenderTotal is one row of a spender breakdown, with the spender's own
	// category breakdown nested inside.
	SpenderTotal struct {
		Spender    string          `json:"spender"`
		Total      core.Money      `json:"total"`
		Categories []CategoryTotal `json:"categories"`
	}

	Summary struct {
		Total      core.Money      `json:"total"`
		Count      int             `json:"count"`
		ByCategory []CategoryTotal `json:"by_category"`
		BySpender  []SpenderTotal  `json:"by_spender"`
	}

	// TrendMonth is one calendar-month bucket of the category trend. Totals
	// has an entry for every category name in the window, zero when the
	// category had no expenses that month.
	TrendMonth struct {
		Label  string                `json:"label"` // e.g. "Jan 2024"
		Start  core.Date             `json:"start"`
		Totals map[string]core.Money `json:"totals"`
	}

	// CategoryTrend is a dense matrix: len(Months) buckets, each carrying a
	// total for every name in Categories. Months are ordered oldest first.
	CategoryTrend struct {
		Categories []string     `json:"categories"`
		Months     []TrendMonth `json:"months"`
	}

	DailyTotal struct {
		Date  core.Date  `json:"date"`
		Total core.Money `json:"total"`
	}

	// Dashboard bundles the landing-page aggregates for one user.
	// AverageDaily is the month's total divided by the days elapsed so far,
	// not by the month's length.
	Dashboard struct {
		Month        Summary        `json:"month"`
		AverageDaily core.Money     `json:"average_daily"`
		Daily        []DailyTotal   `json:"daily"`
		Recent       []core.Expense `json:"recent"`
	}
)

// BuildSummary aggregates a flat expense list into totals and breakdowns.
// Grouping is by the denormalized category name carried on each record, so a
// renamed category folds its history under the current name. Pure: the same
// input list always yields the same summary, in any order.
func BuildSummary(expenses []core.Expense) Summary {
	s := Summary{Count: len(expenses)}

	type spenderAcc struct {
		total    core.Money
		expenses []core.Expense
	}

	categories := make(map[string]*CategoryTotal)
	spenders := make(map[string]*spenderAcc)

	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)

		ct, ok := categories[e.CategoryName]
		if !ok {
			ct = &CategoryTotal{Name: e.CategoryName, Color: e.CategoryColor}
			categories[e.CategoryName] = ct
		}
		ct.Total = ct.Total.Add(e.Amount)

		sp, ok := spenders[e.Spender]
		if !ok {
			sp = &spenderAcc{}
			spenders[e.Spender] = sp
		}
		sp.total = sp.total.Add(e.Amount)
		sp.expenses = append(sp.expenses, e)
	}

	s.ByCategory = make([]CategoryTotal, 0, len(categories))
	for _, ct := range categories {
		s.ByCategory = append(s.ByCategory, *ct)
	}
	sortCategoryTotals(s.ByCategory)

	s.BySpender = make([]SpenderTotal, 0, len(spenders))
	for name, sp := range spenders {
		nested := make(map[string]*CategoryTotal)
		for _, e := range sp.expenses {
			ct, ok := nested[e.CategoryName]
			if !ok {
				ct = &CategoryTotal{Name: e.CategoryName, Color: e.CategoryColor}
				nested[e.CategoryName] = ct
			}
			ct.Total = ct.Total.Add(e.Amount)
		}
		breakdown := make([]CategoryTotal, 0, len(nested))
		for _, ct := range nested {
			breakdown = append(breakdown, *ct)
		}
		sortCategoryTotals(breakdown)

		s.BySpender = append(s.BySpender, SpenderTotal{
			Spender:    name,
			Total:      sp.total,
			Categories: breakdown,
		})
	}
	sort.Slice(s.BySpender, func(i, j int) bool {
		if s.BySpender[i].Total.Cents != s.BySpender[j].Total.Cents {
			return s.BySpender[i].Total.Cents > s.BySpender[j].Total.Cents
		}
		return s.BySpender[i].Spender < s.BySpender[j].Spender
	})

	return s
}

// sortCategoryTotals orders descending by total, name as a stable tiebreak.
func sortCategoryTotals(totals []CategoryTotal) {
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total.Cents != totals[j].Total.Cents {
			return totals[i].Total.Cents > totals[j].Total.Cents
		}
		return totals[i].Name < totals[j].Name
	})
}

// BuildCategoryTrend buckets expenses into monthsBack consecutive calendar
// months ending at the month of ref, oldest first. Every category name seen
// anywhere in the input appears in every bucket, zero-valued where absent.
func BuildCategoryTrend(expenses []core.Expense, monthsBack int, ref time.Time) CategoryTrend {
	if monthsBack < 1 {
		monthsBack = 1
	}

	nameSet := make(map[string]struct{})
	for _, e := range expenses {
		nameSet[e.CategoryName] = struct{}{}
	}
	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	trend := CategoryTrend{
		Categories: names,
		Months:     make([]TrendMonth, 0, monthsBack),
	}

	for i := monthsBack - 1; i >= 0; i-- {
		m := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		start, end := core.MonthRange(m.Year(), int(m.Month()))

		totals := make(map[string]core.Money, len(names))
		for _, name := range names {
			totals[name] = core.Money{}
		}
		for _, e := range expenses {
			if e.Date.Before(start) || e.Date.After(end) {
				continue
			}
			totals[e.CategoryName] = totals[e.CategoryName].Add(e.Amount)
		}

		trend.Months = append(trend.Months, TrendMonth{
			Label:  m.Format("Jan 2006"),
			Start:  start,
			Totals: totals,
		})
	}

	return trend
}

// ReportService fetches expense windows from storage and aggregates them
// with the pure builders above. Storage errors propagate unchanged; there
// are no partial results.
type ReportService struct {
	storage *storage.SQLiteRepository
	now     func() time.Time
}

func NewReportService(storage *storage.SQLiteRepository) *ReportService {
	return &ReportService{storage: storage, now: time.Now}
}

func (s *ReportService) MonthlySummary(ctx context.Context, userID int64, year, month int) (Summary, error) {
	start, end := core.MonthRange(year, month)
	return s.DateRangeSummary(ctx, userID, start, end)
}

func (s *ReportService) DateRangeSummary(ctx context.Context, userID int64, start, end core.Date) (Summary, error) {
	expenses, err := s.storage.ListExpenses(ctx, userID, storage.ExpenseFilter{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("list expenses: %w", err)
	}
	return BuildSummary(expenses), nil
}

// BySpender returns only the spender portion of the range summary.
func (s *ReportService) BySpender(ctx context.Context, userID int64, start, end core.Date) ([]SpenderTotal, error) {
	summary, err := s.DateRangeSummary(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return summary.BySpender, nil
}

func (s *ReportService) CategoryTrend(ctx context.Context, userID int64, monthsBack int) (CategoryTrend, error) {
	if monthsBack < 1 {
		monthsBack = 1
	}
	ref := s.now()

	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(monthsBack - 1), 0)
	start, _ := core.MonthRange(first.Year(), int(first.Month()))
	_, end := core.MonthRange(ref.Year(), int(ref.Month()))

	expenses, err := s.storage.ListExpenses(ctx, userID, storage.ExpenseFilter{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return CategoryTrend{}, fmt.Errorf("list expenses: %w", err)
	}
	return BuildCategoryTrend(expenses, monthsBack, ref), nil
}

// Dashboard aggregates the current month: summary, per-day totals and the
// five most recent records.
func (s *ReportService) Dashboard(ctx context.Context, userID int64) (Dashboard, error) {
	ref := s.now()
	start, end := core.MonthRange(ref.Year(), int(ref.Month()))

	expenses, err := s.storage.ListExpenses(ctx, userID, storage.ExpenseFilter{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return Dashboard{}, fmt.Errorf("list expenses: %w", err)
	}

	daily := make(map[core.Date]core.Money)
	for _, e := range expenses {
		daily[e.Date] = daily[e.Date].Add(e.Amount)
	}
	days := make([]DailyTotal, 0, len(daily))
	for date, total := range daily {
		days = append(days, DailyTotal{Date: date, Total: total})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	recent, err := s.storage.RecentExpenses(ctx, userID, 5)
	if err != nil {
		return Dashboard{}, fmt.Errorf("recent expenses: %w", err)
	}

	month := BuildSummary(expenses)
	return Dashboard{
		Month:        month,
		AverageDaily: core.Money{Cents: month.Total.Cents / int64(ref.Day())},
		Daily:        days,
		Recent:       recent,
	}, nil
}
