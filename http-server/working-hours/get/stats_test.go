package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"manager-analytics/internal/service/workinghours"
	"manager-analytics/internal/workhours"
)

type MockStatsProvider struct {
	mock.Mock
}

func (m *MockStatsProvider) Stats(ctx context.Context, from, to time.Time) ([]workhours.ManagerStat, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workhours.ManagerStat), args.Error(1)
}

type MockOrdersProvider struct {
	mock.Mock
}

func (m *MockOrdersProvider) Orders(ctx context.Context, manager string, from, to time.Time) ([]workinghours.ManagerOrder, error) {
	args := m.Called(ctx, manager, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workinghours.ManagerOrder), args.Error(1)
}

func TestGetWorkingHours_Success(t *testing.T) {
	mockStats := new(MockStatsProvider)

	stats := []workhours.ManagerStat{
		{Name: "Иванов", WorkDays: 5, TotalOrders: 42, AvgStart: "08:30"},
	}
	mockStats.On("Stats", mock.Anything, mock.Anything, mock.Anything).Return(stats, nil)

	handler := GetWorkingHours(slog.Default(), mockStats)

	req := httptest.NewRequest(http.MethodGet, "/api/working-hours?period=week", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ResponseWorkingHours
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	assert.NoError(t, err)

	assert.Equal(t, "week", resp.Period)
	assert.Len(t, resp.ManagerStats, 1)
	assert.Equal(t, "Иванов", resp.ManagerStats[0].Name)
	assert.Equal(t, 5, resp.ManagerStats[0].WorkDays)

	mockStats.AssertExpectations(t)
}

func TestGetWorkingHours_ExplicitRange(t *testing.T) {
	mockStats := new(MockStatsProvider)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mockStats.On("Stats", mock.Anything,
		mock.MatchedBy(func(t time.Time) bool { return t.Equal(from) }),
		mock.Anything).Return([]workhours.ManagerStat{}, nil)

	handler := GetWorkingHours(slog.Default(), mockStats)

	req := httptest.NewRequest(http.MethodGet, "/api/working-hours?from=2026-01-01&to=2026-01-31", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ResponseWorkingHours
	assert.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, "2026-01-01", resp.StartDate)
	assert.Equal(t, "2026-01-31", resp.EndDate)

	mockStats.AssertExpectations(t)
}

func TestGetWorkingHours_BadRange(t *testing.T) {
	mockStats := new(MockStatsProvider)
	handler := GetWorkingHours(slog.Default(), mockStats)

	req := httptest.NewRequest(http.MethodGet, "/api/working-hours?from=2026-99-01&to=2026-01-31", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockStats.AssertNotCalled(t, "Stats", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetWorkingHours_StorageError(t *testing.T) {
	mockStats := new(MockStatsProvider)
	mockStats.On("Stats", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("db down"))

	handler := GetWorkingHours(slog.Default(), mockStats)

	req := httptest.NewRequest(http.MethodGet, "/api/working-hours", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestGetManagerOrders_Success(t *testing.T) {
	mockOrders := new(MockOrdersProvider)

	orders := []workinghours.ManagerOrder{
		{OrderNumber: "Q6-1001", Date: "2026-02-10", Time: "09:15:00", Amount: 1500},
	}
	mockOrders.On("Orders", mock.Anything, "Иванов", mock.Anything, mock.Anything).Return(orders, nil)

	handler := GetManagerOrders(slog.Default(), mockOrders)

	req := httptest.NewRequest(http.MethodGet, "/api/working-hours/orders?manager=%D0%98%D0%B2%D0%B0%D0%BD%D0%BE%D0%B2", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ResponseManagerOrders
	assert.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Len(t, resp.Orders, 1)
	assert.Equal(t, "Q6-1001", resp.Orders[0].OrderNumber)

	mockOrders.AssertExpectations(t)
}

func TestGetManagerOrders_MissingManager(t *testing.T) {
	mockOrders := new(MockOrdersProvider)
	handler := GetManagerOrders(slog.Default(), mockOrders)

	req := httptest.NewRequest(http.MethodGet, "/api/working-hours/orders", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockOrders.AssertNotCalled(t, "Orders", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
