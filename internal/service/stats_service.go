package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"legalai/internal/cache"
	"legalai/internal/model"
	"legalai/internal/repository"
)

const (
	statsCacheTTL        = 5 * time.Minute
	overviewCacheKey     = "stats:overview"
	revenueCacheKey      = "stats:revenue"
	usageCacheKey        = "stats:usage"
	usageWindowDays      = 30
	revenueHistoryMonths = 12
	recentItemsLimit     = 5
	defaultUserPageSize  = 20
)

// Overview is the admin dashboard headline block.
type Overview struct {
	TotalUsers        int64               `json:"total_users"`
	PlusUsers         int64               `json:"plus_users"`
	TotalSessions     int64               `json:"total_sessions"`
	TotalAdvisories   int64               `json:"total_advisories"`
	PendingAdvisories int64               `json:"pending_advisories"`
	RecentUsers       []model.Profile     `json:"recent_users"`
	RecentSessions    []model.ChatSession `json:"recent_sessions"`
	RecentAdvisories  []model.Advisory    `json:"recent_advisories"`
}

// MonthlyRevenue is one point of the 12-month revenue series.
type MonthlyRevenue struct {
	Month         string          `json:"month"` // YYYY-MM
	Revenue       decimal.Decimal `json:"revenue"`
	Subscriptions int64           `json:"subscriptions"`
}

// RevenueMetrics summarizes subscription income.
type RevenueMetrics struct {
	CurrentMonthRevenue  decimal.Decimal  `json:"current_month_revenue"`
	PreviousMonthRevenue decimal.Decimal  `json:"previous_month_revenue"`
	GrowthPercent        decimal.Decimal  `json:"growth_percent"`
	ActiveSubscribers    int64            `json:"active_subscribers"`
	PendingCancellations int64            `json:"pending_cancellations"`
	History              []MonthlyRevenue `json:"history"`
}

// DailyUsage is one point of the messages-per-day series.
type DailyUsage struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Messages int    `json:"messages"`
}

// UsageMetrics reports platform chat volume.
type UsageMetrics struct {
	Days []DailyUsage `json:"days"`
}

// StatsService aggregates the admin analytics. Aggregates are cached in
// redis for a few minutes; the cache failing open just means more queries.
type StatsService interface {
	Overview(ctx context.Context) (*Overview, error)
	RevenueMetrics(ctx context.Context) (*RevenueMetrics, error)
	UsageMetrics(ctx context.Context) (*UsageMetrics, error)
	ListUsers(ctx context.Context, search string, limit, offset int) ([]model.Profile, int64, error)
}

type statsService struct {
	profileRepo  repository.ProfileRepository
	chatRepo     repository.ChatRepository
	advisoryRepo repository.AdvisoryRepository
	paymentRepo  repository.PaymentRepository
	quotaRepo    repository.QuotaRepository
	cache        *cache.Client
	now          func() time.Time
}

// NewStatsService creates a new stats service.
func NewStatsService(
	profileRepo repository.ProfileRepository,
	chatRepo repository.ChatRepository,
	advisoryRepo repository.AdvisoryRepository,
	paymentRepo repository.PaymentRepository,
	quotaRepo repository.QuotaRepository,
	cacheClient *cache.Client,
) StatsService {
	return &statsService{
		profileRepo:  profileRepo,
		chatRepo:     chatRepo,
		advisoryRepo: advisoryRepo,
		paymentRepo:  paymentRepo,
		quotaRepo:    quotaRepo,
		cache:        cacheClient,
		now:          time.Now,
	}
}

// Overview returns the dashboard headline counts and recent activity.
func (s *statsService) Overview(ctx context.Context) (*Overview, error) {
	var cached Overview
	if s.cache.GetJSON(ctx, overviewCacheKey, &cached) {
		return &cached, nil
	}

	out := &Overview{}
	var err error
	if out.TotalUsers, err = s.profileRepo.Count(ctx, ""); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if out.PlusUsers, err = s.profileRepo.CountByRole(ctx, model.RolePlus); err != nil {
		return nil, fmt.Errorf("count plus users: %w", err)
	}
	if out.TotalSessions, err = s.chatRepo.CountSessions(ctx); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	if out.TotalAdvisories, err = s.advisoryRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count advisories: %w", err)
	}
	if out.PendingAdvisories, err = s.advisoryRepo.CountByStatus(ctx, model.AdvisoryStatusPending); err != nil {
		return nil, fmt.Errorf("count pending advisories: %w", err)
	}
	if out.RecentUsers, err = s.profileRepo.ListRecent(ctx, recentItemsLimit); err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	if out.RecentSessions, err = s.chatRepo.ListRecentSessions(ctx, recentItemsLimit); err != nil {
		return nil, fmt.Errorf("recent sessions: %w", err)
	}
	if out.RecentAdvisories, err = s.advisoryRepo.ListRecent(ctx, recentItemsLimit); err != nil {
		return nil, fmt.Errorf("recent advisories: %w", err)
	}

	s.cache.SetJSON(ctx, overviewCacheKey, out, statsCacheTTL)
	return out, nil
}

// RevenueMetrics returns current and historical subscription income.
func (s *statsService) RevenueMetrics(ctx context.Context) (*RevenueMetrics, error) {
	var cached RevenueMetrics
	if s.cache.GetJSON(ctx, revenueCacheKey, &cached) {
		return &cached, nil
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := &RevenueMetrics{History: make([]MonthlyRevenue, 0, revenueHistoryMonths)}

	// Walk the last 12 calendar months, oldest first.
	for i := revenueHistoryMonths - 1; i >= 0; i-- {
		start := monthStart.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		revenue, err := s.paymentRepo.SumAmountBetween(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("sum revenue: %w", err)
		}
		count, err := s.paymentRepo.CountBetween(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("count payments: %w", err)
		}
		out.History = append(out.History, MonthlyRevenue{
			Month:         start.Format("2006-01"),
			Revenue:       revenue,
			Subscriptions: count,
		})
	}

	out.CurrentMonthRevenue = out.History[len(out.History)-1].Revenue
	out.PreviousMonthRevenue = out.History[len(out.History)-2].Revenue
	out.GrowthPercent = growthPercent(out.PreviousMonthRevenue, out.CurrentMonthRevenue)

	var err error
	if out.ActiveSubscribers, err = s.profileRepo.CountByRole(ctx, model.RolePlus); err != nil {
		return nil, fmt.Errorf("count subscribers: %w", err)
	}
	if out.PendingCancellations, err = s.profileRepo.CountPendingDowngrade(ctx); err != nil {
		return nil, fmt.Errorf("count pending cancellations: %w", err)
	}

	s.cache.SetJSON(ctx, revenueCacheKey, out, statsCacheTTL)
	return out, nil
}

// growthPercent is (current-previous)/previous*100, or zero when there is no
// previous revenue to compare against.
func growthPercent(previous, current decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
}

// UsageMetrics returns platform-wide messages per day over the last 30 days,
// including zero-traffic days.
func (s *statsService) UsageMetrics(ctx context.Context) (*UsageMetrics, error) {
	var cached UsageMetrics
	if s.cache.GetJSON(ctx, usageCacheKey, &cached) {
		return &cached, nil
	}

	now := s.now().UTC()
	start := now.AddDate(0, 0, -(usageWindowDays - 1))
	perDay, err := s.quotaRepo.CountMessagesSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}

	out := &UsageMetrics{Days: make([]DailyUsage, 0, usageWindowDays)}
	for i := 0; i < usageWindowDays; i++ {
		date := start.AddDate(0, 0, i).Format(model.CounterDateLayout)
		out.Days = append(out.Days, DailyUsage{Date: date, Messages: perDay[date]})
	}

	s.cache.SetJSON(ctx, usageCacheKey, out, statsCacheTTL)
	return out, nil
}

// ListUsers returns a page of profiles with the total for pagination. The
// total honors the search filter so page math matches what is listed.
func (s *statsService) ListUsers(ctx context.Context, search string, limit, offset int) ([]model.Profile, int64, error) {
	if limit <= 0 {
		limit = defaultUserPageSize
	}
	profiles, err := s.profileRepo.List(ctx, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	total, err := s.profileRepo.Count(ctx, search)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return profiles, total, nil
}
