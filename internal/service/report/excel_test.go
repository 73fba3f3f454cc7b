package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

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

func TestGenerateExcel(t *testing.T) {
	mockStats := new(MockStatsProvider)

	stats := []workhours.ManagerStat{
		{
			Name:            "Иванов Иван",
			WorkDays:        5,
			TotalOrders:     42,
			AvgStart:        "08:30",
			AvgEnd:          "17:45",
			LateCount:       1,
			LatePercent:     20,
			ComplianceScore: 88,
		},
	}
	mockStats.On("Stats", mock.Anything, mock.Anything, mock.Anything).Return(stats, nil)

	svc := NewService(mockStats)
	data, err := svc.GenerateExcel(context.Background(),
		time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.NotEmpty(t, data)

	// книга читается обратно, шапка и данные на месте
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := "Рабочее время"
	name, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Менеджер", name)

	manager, _ := f.GetCellValue(sheet, "A2")
	assert.Equal(t, "Иванов Иван", manager)

	days, _ := f.GetCellValue(sheet, "B2")
	assert.Equal(t, "5", days)

	score, _ := f.GetCellValue(sheet, "M2")
	assert.Equal(t, "88", score)

	mockStats.AssertExpectations(t)
}

func TestGenerateExcel_EmptyStats(t *testing.T) {
	mockStats := new(MockStatsProvider)
	mockStats.On("Stats", mock.Anything, mock.Anything, mock.Anything).
		Return([]workhours.ManagerStat{}, nil)

	svc := NewService(mockStats)
	data, err := svc.GenerateExcel(context.Background(), time.Now(), time.Now())

	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
