package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"manager-analytics/internal/storage"
)

// GetTextRows текстовые поля всех заказов для прохода починки кодировки
func (s *Storage) GetTextRows(ctx context.Context) ([]*storage.TextFields, error) {
	const op = "storage.encoding.GetTextRows"

	stmt := `SELECT id, order_num, client, status, manager, comment, business_region FROM orders`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*storage.TextFields
	for rows.Next() {
		var tf storage.TextFields
		var client, status, comment, region sql.NullString

		err := rows.Scan(&tf.ID, &tf.OrderNum, &client, &status, &tf.Manager, &comment, &region)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строк %w", op, err)
		}

		tf.Client = nullToPtr(client)
		tf.Status = nullToPtr(status)
		tf.Comment = nullToPtr(comment)
		tf.BusinessRegion = nullToPtr(region)

		result = append(result, &tf)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка обхода строк %w", op, err)
	}

	return result, nil
}

// UpdateTextFields точечно обновляет исправленные текстовые колонки заказа
func (s *Storage) UpdateTextFields(ctx context.Context, id int64, fields map[string]string) error {
	const op = "storage.encoding.UpdateTextFields"

	if len(fields) == 0 {
		return nil
	}

	allowed := map[string]bool{
		"order_num": true, "client": true, "status": true,
		"manager": true, "comment": true, "business_region": true,
	}

	var sets []string
	var args []interface{}
	for col, val := range fields {
		if !allowed[col] {
			return fmt.Errorf("%s: недопустимая колонка %q", op, col)
		}
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	args = append(args, id)

	stmt := "UPDATE orders SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, id, err)
	}

	return nil
}
