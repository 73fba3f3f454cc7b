package workinghours

import (
	"context"
	"fmt"
	"sort"
	"time"

	"manager-analytics/internal/storage"
	"manager-analytics/internal/workhours"
)

type OrdersStorage interface {
	GetOrdersRange(ctx context.Context, from, to time.Time) ([]*storage.Order, error)
	GetOrdersByManager(ctx context.Context, manager string, from, to time.Time) ([]*storage.Order, error)
}

type Service struct {
	storage OrdersStorage
}

func NewService(storage OrdersStorage) *Service {
	return &Service{storage: storage}
}

// Stats статистика рабочего времени по всем менеджерам за период,
// отсортированная по числу рабочих дней по убыванию (как на дашборде)
func (s *Service) Stats(ctx context.Context, from, to time.Time) ([]workhours.ManagerStat, error) {
	const op = "service.workinghours.Stats"

	orders, err := s.storage.GetOrdersRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	inputs := make([]workhours.OrderInput, 0, len(orders))
	for _, o := range orders {
		inputs = append(inputs, workhours.OrderInput{
			Date:    o.Date,
			Time:    o.Time,
			Manager: o.Manager,
		})
	}

	stats := workhours.Compute(inputs, workhours.ISODate)
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].WorkDays > stats[j].WorkDays
	})

	return stats, nil
}

// ManagerOrder строка детализации по заказам менеджера
type ManagerOrder struct {
	OrderNumber string  `json:"orderNumber"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Amount      float64 `json:"amount"`
	Client      *string `json:"client"`
	Status      *string `json:"status"`
	Region      *string `json:"region"`
}

// Orders заказы одного менеджера за период для проваливания из сводки
func (s *Service) Orders(ctx context.Context, manager string, from, to time.Time) ([]ManagerOrder, error) {
	const op = "service.workinghours.Orders"

	orders, err := s.storage.GetOrdersByManager(ctx, manager, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]ManagerOrder, 0, len(orders))
	for _, o := range orders {
		result = append(result, ManagerOrder{
			OrderNumber: o.OrderNum,
			Date:        o.Date.Format("2006-01-02"),
			Time:        o.Time,
			Amount:      o.Amount,
			Client:      o.Client,
			Status:      o.Status,
			Region:      o.BusinessRegion,
		})
	}

	return result, nil
}
