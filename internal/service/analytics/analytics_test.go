package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"manager-analytics/internal/storage"
)

type MockOrdersStorage struct {
	mock.Mock
}

func (m *MockOrdersStorage) GetOrdersRange(ctx context.Context, from, to time.Time) ([]*storage.Order, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Order), args.Error(1)
}

func strPtr(s string) *string { return &s }

func testOrder(num, date, timeStr, manager string, amount float64) *storage.Order {
	d, _ := time.Parse("2006-01-02", date)
	return &storage.Order{
		OrderNum: num,
		Date:     d,
		Time:     timeStr,
		Amount:   amount,
		Manager:  manager,
	}
}

func TestDashboard(t *testing.T) {
	mockStorage := new(MockOrdersStorage)

	o1 := testOrder("A-1", "2026-02-10", "09:15:00", "Иванов", 1000)
	o1.Client = strPtr("ООО Ромашка")
	o1.Status = strPtr("Выполнен")
	o1.BusinessRegion = strPtr("Москва")

	o2 := testOrder("A-2", "2026-02-10", "09:45:00", "Иванов", 500)
	o2.Client = strPtr("ООО Ромашка")

	o3 := testOrder("A-3", "2026-02-11", "14:00:00", "Петрова", 2500)
	o3.BusinessRegion = strPtr("Казань")

	orders := []*storage.Order{o1, o2, o3}
	mockStorage.On("GetOrdersRange", mock.Anything, mock.Anything, mock.Anything).Return(orders, nil)

	svc := NewService(mockStorage)
	from := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	d, err := svc.Dashboard(context.Background(), from, to)
	assert.NoError(t, err)

	assert.Equal(t, 4000.0, d.Summary.TotalRevenue)
	assert.Equal(t, 3, d.Summary.TotalOrders)
	assert.InDelta(t, 1333.33, d.Summary.AvgOrder, 0.01)

	// менеджеры отсортированы по выручке
	assert.Equal(t, "Петрова", d.ManagerStats[0].Name)
	assert.Equal(t, 2500.0, d.ManagerStats[0].Revenue)
	assert.Equal(t, "Иванов", d.ManagerStats[1].Name)
	assert.Equal(t, 2, d.ManagerStats[1].Orders)
	// оба заказа Иванова в один час одного дня — один рабочий слот
	assert.Equal(t, 1, d.ManagerStats[1].WorkHours)

	// распределение по часам: 2 заказа в 9, 1 в 14
	assert.Equal(t, 2, d.HourDistribution[9].Count)
	assert.Equal(t, 1, d.HourDistribution[14].Count)
	assert.Len(t, d.HourDistribution, 24)

	// регионы: без региона — "Не указан"
	regionNames := []string{d.RegionStats[0].Name, d.RegionStats[1].Name, d.RegionStats[2].Name}
	assert.Contains(t, regionNames, "Не указан")

	// тренд по датам по возрастанию
	assert.Equal(t, "2026-02-10", d.TrendData[0].Date)
	assert.Equal(t, 1500.0, d.TrendData[0].Revenue)
	assert.Equal(t, "2026-02-11", d.TrendData[1].Date)

	// топ клиентов
	assert.Equal(t, "Не указан", d.TopClients[0].Name)
	assert.Equal(t, 2500.0, d.TopClients[0].Revenue)
	assert.Equal(t, "ООО Ромашка", d.TopClients[1].Name)

	assert.Len(t, d.PeakHours, 5)
	assert.Equal(t, 9, d.PeakHours[0].Hour)

	mockStorage.AssertExpectations(t)
}

func TestDashboard_Empty(t *testing.T) {
	mockStorage := new(MockOrdersStorage)
	mockStorage.On("GetOrdersRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]*storage.Order{}, nil)

	svc := NewService(mockStorage)
	d, err := svc.Dashboard(context.Background(), time.Now(), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, 0.0, d.Summary.TotalRevenue)
	assert.Equal(t, 0.0, d.Summary.AvgOrder)
	assert.Empty(t, d.ManagerStats)
	assert.Len(t, d.HourDistribution, 24)
	assert.Len(t, d.DayDistribution, 7)
}
