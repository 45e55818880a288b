package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"fintrack-server/src/analytics"
	dbcache "fintrack-server/src/db"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	topCategoriesDefault = 5
	topCategoriesMax     = 20
)

// analyticsEngine builds an engine from the request's date range (default
// last 30 days, bad dates are a 400).
func analyticsEngine(pool *pgxpool.Pool, r *http.Request) (*analytics.Engine, time.Time, time.Time, error) {
	userID := r.Context().Value("user_id").(int)
	start, end, err := util.DateRangeStrict(r.URL.Query(), time.Now().UTC())
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	engine, err := analytics.New(pool, userID, start, end)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	return engine, start, end, nil
}

func GetAnalyticsSummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, start, end, err := analyticsEngine(pool, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		total, err := engine.TotalSpending(r.Context())
		if err != nil {
			writeAnalyticsError(w, r, "summary", err)
			return
		}
		count, err := engine.TransactionCount(r.Context())
		if err != nil {
			writeAnalyticsError(w, r, "summary", err)
			return
		}
		avgDaily, err := engine.AverageDailySpending(r.Context())
		if err != nil {
			writeAnalyticsError(w, r, "summary", err)
			return
		}
		avgTxn, err := engine.AverageTransactionAmount(r.Context())
		if err != nil {
			writeAnalyticsError(w, r, "summary", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"start_date":                 start.Format("2006-01-02"),
			"end_date":                   end.Format("2006-01-02"),
			"total_spending":             total,
			"transaction_count":          count,
			"average_daily_spending":     avgDaily,
			"average_transaction_amount": avgTxn,
		})
	}
}

func GetSpendingTrends(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, _, _, err := analyticsEngine(pool, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		period := r.URL.Query().Get("period")
		switch period {
		case "":
			period = analytics.PeriodDaily
		case analytics.PeriodDaily, analytics.PeriodWeekly, analytics.PeriodMonthly:
		default:
			http.Error(w, "period must be 'daily', 'weekly', or 'monthly'", http.StatusBadRequest)
			return
		}
		points, err := engine.Trends(r.Context(), period)
		if err != nil {
			writeAnalyticsError(w, r, "trends", err)
			return
		}

		trend := make([]map[string]any, 0, len(points))
		for _, p := range points {
			trend = append(trend, map[string]any{
				"date":   analytics.BucketLabel(p.Date, period),
				"amount": p.Amount,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"period": period,
			"trend":  trend,
		})
	}
}

func GetCategorySpending(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, _, _, err := analyticsEngine(pool, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		breakdown, err := engine.CategoryBreakdown(r.Context())
		if err != nil {
			writeAnalyticsError(w, r, "categories", err)
			return
		}
		total, err := engine.TotalSpending(r.Context())
		if err != nil {
			writeAnalyticsError(w, r, "categories", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(categoriesWithShare(breakdown, total))
	}
}

func GetTopCategories(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, _, _, err := analyticsEngine(pool, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		limit := topCategoriesDefault
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		if limit < 1 {
			limit = 1
		}
		if limit > topCategoriesMax {
			limit = topCategoriesMax
		}

		top, err := engine.TopCategories(r.Context(), limit)
		if err != nil {
			writeAnalyticsError(w, r, "top-categories", err)
			return
		}
		total, err := engine.TotalSpending(r.Context())
		if err != nil {
			writeAnalyticsError(w, r, "top-categories", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(categoriesWithShare(top, total))
	}
}

func GetDayOfWeekSpending(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, _, _, err := analyticsEngine(pool, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		days, err := engine.DayOfWeek(r.Context())
		if err != nil {
			writeAnalyticsError(w, r, "day-of-week", err)
			return
		}

		out := make([]map[string]any, 0, len(days))
		for _, d := range days {
			out = append(out, map[string]any{"day": d.Name, "amount": d.Amount})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

// GetSpendingComparison compares two explicit date ranges. All four
// parameters are required.
func GetSpendingComparison(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		q := r.URL.Query()

		parse := func(name string) (time.Time, error) {
			v := q.Get(name)
			if v == "" {
				return time.Time{}, fmt.Errorf("%s is required", name)
			}
			t, err := util.ParseDate(v)
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid %s, use YYYY-MM-DD", name)
			}
			return t, nil
		}

		currentStart, err := parse("current_start")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		currentEnd, err := parse("current_end")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		comparisonStart, err := parse("comparison_start")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		comparisonEnd, err := parse("comparison_end")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if currentStart.After(currentEnd) || comparisonStart.After(comparisonEnd) {
			http.Error(w, "start date must be before or equal to end date", http.StatusBadRequest)
			return
		}

		engine, err := analytics.New(pool, userID, currentStart, currentEnd)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		comparison, err := engine.Comparison(r.Context(), comparisonStart, comparisonEnd)
		if err != nil {
			writeAnalyticsError(w, r, "comparison", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(comparison)
	}
}

// GetDashboard returns the month overview, cached for an hour per
// (user, year, month). Transaction writes invalidate the user's entries.
func GetDashboard(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		now := time.Now().UTC()

		year, month := now.Year(), now.Month()
		q := r.URL.Query()
		if v := q.Get("year"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1970 || n > 9999 {
				http.Error(w, "invalid year", http.StatusBadRequest)
				return
			}
			year = n
		}
		if v := q.Get("month"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 12 {
				http.Error(w, "invalid month, use 1-12", http.StatusBadRequest)
				return
			}
			month = time.Month(n)
		}

		if cached, ok := dbcache.GetDashboardCache(userID, year, int(month)); ok {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		payload, err := buildDashboard(r, pool, userID, year, month, now)
		if err != nil {
			writeAnalyticsError(w, r, "dashboard", err)
			return
		}

		dbcache.SetDashboardCache(userID, year, int(month), payload)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}
}

func buildDashboard(r *http.Request, pool *pgxpool.Pool, userID, year int, month time.Month, now time.Time) (map[string]any, error) {
	start, end := util.MonthBounds(year, month)
	prevYear, prevMonth := util.PreviousMonth(year, month)
	prevStart, prevEnd := util.MonthBounds(prevYear, prevMonth)

	income, expenses, count, err := db.MonthIncomeExpenses(r.Context(), pool, userID, start, end)
	if err != nil {
		return nil, err
	}
	prevIncome, prevExpenses, _, err := db.MonthIncomeExpenses(r.Context(), pool, userID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	net := income.Sub(expenses)
	prevNet := prevIncome.Sub(prevExpenses)
	savingsRate := decimal.Zero
	if income.IsPositive() {
		savingsRate = net.Div(income).Mul(decimal.NewFromInt(100)).Round(2)
	}

	// Average over days elapsed so far when looking at the live month,
	// otherwise over the whole month.
	elapsed := util.InclusiveDays(start, end)
	if year == now.Year() && month == now.Month() {
		elapsed = now.Day()
	}
	avgDaily := decimal.Zero
	if elapsed > 0 {
		avgDaily = expenses.Div(decimal.NewFromInt(int64(elapsed))).Round(2)
	}

	breakdown, err := db.CategoryBreakdown(r.Context(), pool, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(breakdown) > topCategoriesDefault {
		breakdown = breakdown[:topCategoriesDefault]
	}

	recent, err := db.GetRecentTransactions(r.Context(), pool, userID, 5)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []models.Transaction{}
	}

	change := func(prev, cur decimal.Decimal) map[string]any {
		return map[string]any{
			"amount":     cur.Sub(prev),
			"percentage": analytics.ChangePercentage(prev, cur),
		}
	}

	return map[string]any{
		"period": fmt.Sprintf("%04d-%02d", year, int(month)),
		"current_month": map[string]any{
			"total_income":   income,
			"total_expenses": expenses,
			"net_savings":    net,
			"savings_rate":   savingsRate,
		},
		"month_over_month": map[string]any{
			"income_change":  change(prevIncome, income),
			"expense_change": change(prevExpenses, expenses),
			"savings_change": change(prevNet, net),
		},
		"metrics": map[string]any{
			"average_daily_spending": avgDaily,
			"transaction_count":      count,
		},
		"top_categories":      categoriesWithShare(breakdown, expenses),
		"recent_transactions": recent,
	}, nil
}

func categoriesWithShare(categories []models.CategoryAmount, total decimal.Decimal) []map[string]any {
	out := make([]map[string]any, 0, len(categories))
	for _, c := range categories {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = c.Amount.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
		}
		out = append(out, map[string]any{
			"name":       c.Name,
			"amount":     c.Amount,
			"percentage": pct,
		})
	}
	return out
}

func writeAnalyticsError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	userID, _ := r.Context().Value("user_id").(int)
	log.Printf("ERROR: Analytics %s failed for user %d: %v", endpoint, userID, err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
