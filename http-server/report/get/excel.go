package get

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"manager-analytics/internal/period"
)

type ExcelGenerator interface {
	GenerateExcel(ctx context.Context, from, to time.Time) ([]byte, error)
}

// GetReportExcel выгрузка сводки рабочего времени в xlsx
func GetReportExcel(log *slog.Logger, generator ExcelGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.GetReportExcel"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		rng, err := period.Resolve(r.URL.Query().Get("period"), r.URL.Query().Get("from"), r.URL.Query().Get("to"), time.Now())
		if err != nil {
			log.Error("некорректные параметры периода", slog.String("error", err.Error()))
			http.Error(w, "Invalid date range", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		data, err := generator.GenerateExcel(ctx, rng.Start, rng.End)
		if err != nil {
			log.Error("ошибка генерации отчёта", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("working-hours_%s_%s.xlsx",
			rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		w.Write(data)
	}
}
