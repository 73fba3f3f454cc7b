package encfix

import (
	"context"
	"fmt"
	"log/slog"

	"manager-analytics/internal/storage"
)

type RepairStorage interface {
	GetTextRows(ctx context.Context) ([]*storage.TextFields, error)
	UpdateTextFields(ctx context.Context, id int64, fields map[string]string) error
}

type Service struct {
	storage RepairStorage
	log     *slog.Logger
}

func NewService(storage RepairStorage, log *slog.Logger) *Service {
	return &Service{storage: storage, log: log}
}

// RepairDatabase проходит по текстовым колонкам заказов и чинит строки,
// похожие на mojibake. В dry-run только считает, ничего не пишет.
// Возвращает число записей, которые были (или были бы) обновлены.
func (s *Service) RepairDatabase(ctx context.Context, dryRun bool) (int, error) {
	const op = "service.encfix.RepairDatabase"

	rows, err := s.storage.GetTextRows(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	updated := 0
	for _, row := range rows {
		updates := make(map[string]string)

		tryField(updates, "order_num", row.OrderNum)
		tryField(updates, "manager", row.Manager)
		tryFieldPtr(updates, "client", row.Client)
		tryFieldPtr(updates, "status", row.Status)
		tryFieldPtr(updates, "comment", row.Comment)
		tryFieldPtr(updates, "business_region", row.BusinessRegion)

		if len(updates) == 0 {
			continue
		}

		if dryRun {
			updated++
			s.log.Info("будет исправлено",
				slog.Int64("id", row.ID),
				slog.Int("fields", len(updates)))
			continue
		}

		if err := s.storage.UpdateTextFields(ctx, row.ID, updates); err != nil {
			return updated, fmt.Errorf("%s: %w", op, err)
		}
		updated++
	}

	s.log.Info("починка кодировки завершена",
		slog.Bool("dry_run", dryRun),
		slog.Int("updated", updated))

	return updated, nil
}

func tryField(updates map[string]string, col, val string) {
	if val == "" || HasCyrillic(val) || !LooksLikeMojibake(val) {
		return
	}
	if fixed, ok := Repair(val); ok {
		updates[col] = fixed
	}
}

func tryFieldPtr(updates map[string]string, col string, val *string) {
	if val == nil {
		return
	}
	tryField(updates, col, *val)
}
