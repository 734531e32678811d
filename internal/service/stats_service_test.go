package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"legalai/internal/model"
)

func TestGrowthPercent(t *testing.T) {
	tests := []struct {
		name     string
		previous int64
		current  int64
		expected string
	}{
		{name: "growth", previous: 100, current: 150, expected: "50"},
		{name: "decline", previous: 200, current: 100, expected: "-50"},
		{name: "flat", previous: 100, current: 100, expected: "0"},
		{name: "no previous revenue", previous: 0, current: 100, expected: "0"},
		{name: "everything stopped", previous: 100, current: 0, expected: "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := growthPercent(decimal.NewFromInt(tt.previous), decimal.NewFromInt(tt.current))
			expected, err := decimal.NewFromString(tt.expected)
			assert.NoError(t, err)
			assert.True(t, got.Equal(expected), "got %s, want %s", got, expected)
		})
	}
}

func TestStatsService_UsageMetrics(t *testing.T) {
	profileRepo := new(MockProfileRepository)
	chatRepo := new(MockChatRepository)
	advisoryRepo := new(MockAdvisoryRepository)
	paymentRepo := new(MockPaymentRepository)
	quotaRepo := new(MockQuotaRepository)

	today := time.Now().UTC().Format(model.CounterDateLayout)
	quotaRepo.On("CountMessagesSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(map[string]int{
		today: 7,
	}, nil)

	svc := NewStatsService(profileRepo, chatRepo, advisoryRepo, paymentRepo, quotaRepo, nil)
	metrics, err := svc.UsageMetrics(context.Background())

	assert.NoError(t, err)
	// Quiet days are present with zero counts.
	assert.Len(t, metrics.Days, 30)
	assert.Equal(t, today, metrics.Days[29].Date)
	assert.Equal(t, 7, metrics.Days[29].Messages)
	for _, day := range metrics.Days[:29] {
		assert.Equal(t, 0, day.Messages)
	}
}

func TestStatsService_RevenueMetrics(t *testing.T) {
	profileRepo := new(MockProfileRepository)
	chatRepo := new(MockChatRepository)
	advisoryRepo := new(MockAdvisoryRepository)
	paymentRepo := new(MockPaymentRepository)
	quotaRepo := new(MockQuotaRepository)

	paymentRepo.On("SumAmountBetween", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(decimal.NewFromInt(40), nil)
	paymentRepo.On("CountBetween", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(int64(2), nil)
	profileRepo.On("CountByRole", mock.Anything, model.RolePlus).Return(int64(12), nil)
	profileRepo.On("CountPendingDowngrade", mock.Anything).Return(int64(3), nil)

	svc := NewStatsService(profileRepo, chatRepo, advisoryRepo, paymentRepo, quotaRepo, nil)
	metrics, err := svc.RevenueMetrics(context.Background())

	assert.NoError(t, err)
	assert.Len(t, metrics.History, 12)
	assert.True(t, metrics.CurrentMonthRevenue.Equal(decimal.NewFromInt(40)))
	assert.True(t, metrics.GrowthPercent.IsZero())
	assert.Equal(t, int64(12), metrics.ActiveSubscribers)
	assert.Equal(t, int64(3), metrics.PendingCancellations)

	// History is oldest first and ends with the current month.
	currentMonth := time.Now().UTC().Format("2006-01")
	assert.Equal(t, currentMonth, metrics.History[11].Month)
	paymentRepo.AssertNumberOfCalls(t, "SumAmountBetween", 12)
}

func TestStatsService_ListUsers(t *testing.T) {
	profileRepo := new(MockProfileRepository)
	chatRepo := new(MockChatRepository)
	advisoryRepo := new(MockAdvisoryRepository)
	paymentRepo := new(MockPaymentRepository)
	quotaRepo := new(MockQuotaRepository)

	profileRepo.On("List", mock.Anything, "jane", defaultUserPageSize, 0).Return([]model.Profile{{FullName: "Jane Roe"}}, nil)
	// The pagination total counts only matching rows, not the whole table.
	profileRepo.On("Count", mock.Anything, "jane").Return(int64(1), nil)

	svc := NewStatsService(profileRepo, chatRepo, advisoryRepo, paymentRepo, quotaRepo, nil)
	// A non-positive limit falls back to the default page size.
	users, total, err := svc.ListUsers(context.Background(), "jane", 0, 0)

	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int64(1), total)
	profileRepo.AssertExpectations(t)
}
