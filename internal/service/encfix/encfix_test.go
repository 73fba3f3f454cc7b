package encfix

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"manager-analytics/internal/storage"
)

func TestHasCyrillic(t *testing.T) {
	assert.True(t, HasCyrillic("Иванов Иван"))
	assert.True(t, HasCyrillic("mixed Пётр text"))
	assert.False(t, HasCyrillic("John Smith"))
	assert.False(t, HasCyrillic(""))
	assert.False(t, HasCyrillic("12345 .-_"))
}

func TestLooksLikeMojibake(t *testing.T) {
	// CP1251-байты "Иванов", прочитанные как latin1
	assert.True(t, LooksLikeMojibake("Èâàíîâ"))
	// нормальная кириллица не считается битой
	assert.False(t, LooksLikeMojibake("Иванов"))
	// обычный латинский текст
	assert.False(t, LooksLikeMojibake("Order 123, draft"))
	assert.False(t, LooksLikeMojibake("a"))
}

func TestRepair_Latin1CP1251(t *testing.T) {
	fixed, ok := Repair("Èâàíîâ")
	assert.True(t, ok)
	assert.Equal(t, "Иванов", fixed)
}

func TestRepair_Unrecoverable(t *testing.T) {
	_, ok := Repair("")
	assert.False(t, ok)

	// латиница без следов кириллицы ни одной стратегией не чинится
	_, ok = Repair("hello")
	assert.False(t, ok)
}

func TestFixFilename(t *testing.T) {
	assert.Equal(t, "Заказы.zip", FixFilename("Çàêàçû.zip"))
	assert.Equal(t, "unknown", FixFilename(""))
}

type MockRepairStorage struct {
	mock.Mock
}

func (m *MockRepairStorage) GetTextRows(ctx context.Context) ([]*storage.TextFields, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.TextFields), args.Error(1)
}

func (m *MockRepairStorage) UpdateTextFields(ctx context.Context, id int64, fields map[string]string) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func TestRepairDatabase(t *testing.T) {
	mockStorage := new(MockRepairStorage)

	broken := "Èâàíîâ"
	okName := "Петров"
	rows := []*storage.TextFields{
		{ID: 1, OrderNum: "A-1", Manager: broken},
		{ID: 2, OrderNum: "A-2", Manager: okName},
	}

	mockStorage.On("GetTextRows", mock.Anything).Return(rows, nil)
	mockStorage.On("UpdateTextFields", mock.Anything, int64(1),
		map[string]string{"manager": "Иванов"}).Return(nil)

	svc := NewService(mockStorage, slog.Default())
	updated, err := svc.RepairDatabase(context.Background(), false)

	assert.NoError(t, err)
	assert.Equal(t, 1, updated)
	mockStorage.AssertExpectations(t)
}

func TestRepairDatabase_DryRun(t *testing.T) {
	mockStorage := new(MockRepairStorage)

	rows := []*storage.TextFields{
		{ID: 1, OrderNum: "A-1", Manager: "Èâàíîâ"},
	}
	mockStorage.On("GetTextRows", mock.Anything).Return(rows, nil)

	svc := NewService(mockStorage, slog.Default())
	updated, err := svc.RepairDatabase(context.Background(), true)

	assert.NoError(t, err)
	assert.Equal(t, 1, updated)
	// UpdateTextFields не должен вызываться
	mockStorage.AssertNotCalled(t, "UpdateTextFields", mock.Anything, mock.Anything, mock.Anything)
}
