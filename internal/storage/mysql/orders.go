package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"manager-analytics/internal/storage"
)

// GetOrdersRange заказы за период, включительно, по возрастанию даты и времени
func (s *Storage) GetOrdersRange(ctx context.Context, from, to time.Time) ([]*storage.Order, error) {
	const op = "storage.orders.GetOrdersRange"

	stmt := `
		SELECT id, order_num, date, time, amount, client, status, manager, comment, business_region
		FROM orders
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, time ASC
	`

	rows, err := s.db.QueryContext(ctx, stmt, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка выборки заказов за период %w", op, err)
	}
	defer rows.Close()

	return scanOrders(rows, op)
}

// GetOrdersByManager заказы одного менеджера за период, свежие сверху
func (s *Storage) GetOrdersByManager(ctx context.Context, manager string, from, to time.Time) ([]*storage.Order, error) {
	const op = "storage.orders.GetOrdersByManager"

	stmt := `
		SELECT id, order_num, date, time, amount, client, status, manager, comment, business_region
		FROM orders
		WHERE manager = ? AND date >= ? AND date <= ?
		ORDER BY date DESC, time DESC
	`

	rows, err := s.db.QueryContext(ctx, stmt, manager, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка выборки заказов менеджера %w", op, err)
	}
	defer rows.Close()

	return scanOrders(rows, op)
}

func scanOrders(rows *sql.Rows, op string) ([]*storage.Order, error) {
	var orders []*storage.Order

	for rows.Next() {
		var o storage.Order
		var client, status, comment, region sql.NullString

		err := rows.Scan(&o.ID, &o.OrderNum, &o.Date, &o.Time, &o.Amount,
			&client, &status, &o.Manager, &comment, &region)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строк %w", op, err)
		}

		o.Client = nullToPtr(client)
		o.Status = nullToPtr(status)
		o.Comment = nullToPtr(comment)
		o.BusinessRegion = nullToPtr(region)

		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка обхода строк %w", op, err)
	}

	return orders, nil
}

// UpsertOrder вставляет либо обновляет заказ по ключу (order_num, date)
func (s *Storage) UpsertOrder(ctx context.Context, o *storage.Order) error {
	const op = "storage.orders.UpsertOrder"

	stmt := `
		INSERT INTO orders
			(order_num, date, time, amount, client, status, manager, comment, business_region, link, site_order_num)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			time = VALUES(time),
			amount = VALUES(amount),
			client = VALUES(client),
			status = VALUES(status),
			manager = VALUES(manager),
			comment = VALUES(comment),
			business_region = VALUES(business_region),
			link = VALUES(link),
			site_order_num = VALUES(site_order_num)
	`

	_, err := s.db.ExecContext(ctx, stmt,
		o.OrderNum, o.Date, o.Time, o.Amount, o.Client, o.Status,
		o.Manager, o.Comment, o.BusinessRegion, o.Link, o.SiteOrderNum)
	if err != nil {
		return fmt.Errorf("%s: ошибка upsert заказа %s: %w", op, o.OrderNum, err)
	}

	return nil
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
