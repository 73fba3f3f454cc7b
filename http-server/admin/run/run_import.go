package run

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"manager-analytics/internal/service/importer"
)

type ImportRunner interface {
	Run(ctx context.Context) (importer.Result, error)
}

type ResponseImport struct {
	importer.Result
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RunImport ручной запуск импорта выгрузок, минуя ночной cron
func RunImport(log *slog.Logger, runner ImportRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.admin.RunImport"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
		defer cancel()

		res, err := runner.Run(ctx)
		if err != nil {
			log.Error("ошибка импорта", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseImport{Error: "Импорт не выполнен"})
			return
		}

		log.Info("импорт завершён",
			slog.Int("imported", res.Imported),
			slog.Int("skipped", res.Skipped),
			slog.Int("archives", res.Archives))

		render.JSON(w, r, ResponseImport{Result: res, Status: "ok"})
	}
}
