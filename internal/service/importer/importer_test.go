package importer

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"manager-analytics/internal/storage"
)

func TestParseRowDate(t *testing.T) {
	d, ok := parseRowDate("10.02.2026")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), d)

	d, ok = parseRowDate("5.3.2026")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), d)

	d, ok = parseRowDate("2026-02-10")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), d)

	_, ok = parseRowDate("")
	assert.False(t, ok)

	_, ok = parseRowDate("вчера")
	assert.False(t, ok)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 1250.5, parseAmount("1 250,50"))
	assert.Equal(t, 1250.5, parseAmount("1250.50"))
	assert.Equal(t, 0.0, parseAmount(""))
	assert.Equal(t, 0.0, parseAmount("н/д"))
	assert.Equal(t, 999999.99, parseAmount("999 999,99"))
}

func TestMapRow(t *testing.T) {
	row := []string{
		"Q6-1001", "", "10.02.2026", "", "09:15:33", "1 500,00",
		"ООО Ромашка", "", "Выполнен", "Иванов Иван", "срочно", "Москва",
		"http://example", "SITE-77",
	}

	order, ok := mapRow(row)
	require.True(t, ok)
	assert.Equal(t, "Q6-1001", order.OrderNum)
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), order.Date)
	assert.Equal(t, "09:15:33", order.Time)
	assert.Equal(t, 1500.0, order.Amount)
	assert.Equal(t, "ООО Ромашка", *order.Client)
	assert.Equal(t, "Выполнен", *order.Status)
	assert.Equal(t, "Иванов Иван", order.Manager)
	assert.Equal(t, "Москва", *order.BusinessRegion)
	assert.Equal(t, "SITE-77", *order.SiteOrderNum)
}

func TestMapRow_Skips(t *testing.T) {
	// без номера заказа
	_, ok := mapRow([]string{"", "", "10.02.2026", "", "09:00:00", "100"})
	assert.False(t, ok)

	// без даты
	_, ok = mapRow([]string{"Q6-1", "", "", "", "09:00:00", "100"})
	assert.False(t, ok)
}

func TestMapRow_ManagerFallback(t *testing.T) {
	order, ok := mapRow([]string{"Q6-1", "", "10.02.2026", "", "", "100"})
	require.True(t, ok)
	assert.Equal(t, "Unknown", order.Manager)
	assert.Nil(t, order.Client)
}

type MockUpsertStorage struct {
	mock.Mock
}

func (m *MockUpsertStorage) UpsertOrder(ctx context.Context, o *storage.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// Полный проход: пишем книгу excelize'ом, читаем импортёром
func TestImportExcel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	// четыре строки шапки
	for r := 1; r <= 4; r++ {
		f.SetCellValue(sheet, cellRef(t, 1, r), "шапка")
	}
	writeRow := func(r int, values []string) {
		for c, v := range values {
			f.SetCellValue(sheet, cellRef(t, c+1, r), v)
		}
	}
	writeRow(5, []string{"Q6-1001", "", "10.02.2026", "", "09:15:00", "1 000,00", "ООО Ромашка", "", "Выполнен", "Иванов"})
	writeRow(6, []string{"Q6-1002", "", "11.02.2026", "", "10:00:00", "2 500,00", "", "", "", "Петрова"})
	// строка без даты должна быть пропущена
	writeRow(7, []string{"Q6-1003", "", "", "", "10:00:00", "100"})
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	mockStorage := new(MockUpsertStorage)
	mockStorage.On("UpsertOrder", mock.Anything, mock.MatchedBy(func(o *storage.Order) bool {
		return o.OrderNum == "Q6-1001" && o.Amount == 1000
	})).Return(nil)
	mockStorage.On("UpsertOrder", mock.Anything, mock.MatchedBy(func(o *storage.Order) bool {
		return o.OrderNum == "Q6-1002" && o.Manager == "Петрова"
	})).Return(nil)

	svc := NewService(mockStorage, slog.Default(), dir, 5)
	res, err := svc.importExcel(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	mockStorage.AssertExpectations(t)
}

func cellRef(t *testing.T, col, row int) string {
	t.Helper()
	name, err := excelize.CoordinatesToCellName(col, row)
	require.NoError(t, err)
	return name
}

func TestArchiveName(t *testing.T) {
	now := time.Date(2026, 2, 15, 21, 0, 0, 0, time.UTC)

	name := archiveName("Заказы 2026-02-14.zip", now)
	assert.Contains(t, name, "orders_2026-02-14_")

	name = archiveName("Заказы 14.02.2026.zip", now)
	assert.Contains(t, name, "orders_2026-02-14_")

	// без даты в имени — дата запуска
	name = archiveName("Заказы.zip", now)
	assert.Contains(t, name, "orders_2026-02-15_")
}
