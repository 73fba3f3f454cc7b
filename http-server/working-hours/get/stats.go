package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"manager-analytics/internal/period"
	"manager-analytics/internal/workhours"
)

type StatsProvider interface {
	Stats(ctx context.Context, from, to time.Time) ([]workhours.ManagerStat, error)
}

type ResponseWorkingHours struct {
	Period       string                  `json:"period"`
	StartDate    string                  `json:"startDate"`
	EndDate      string                  `json:"endDate"`
	ManagerStats []workhours.ManagerStat `json:"managerStats"`
	Error        string                  `json:"error,omitempty"`
}

// GetWorkingHours сводка рабочего времени менеджеров за период
func GetWorkingHours(log *slog.Logger, stats StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.working-hours.GetWorkingHours"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		periodName := r.URL.Query().Get("period")
		if periodName == "" {
			periodName = "week"
		}

		rng, err := period.Resolve(periodName, r.URL.Query().Get("from"), r.URL.Query().Get("to"), time.Now())
		if err != nil {
			log.Error("некорректные параметры периода", slog.String("error", err.Error()))
			http.Error(w, "Invalid date range", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		managerStats, err := stats.Stats(ctx, rng.Start, rng.End)
		if err != nil {
			log.Error("ошибка расчёта рабочего времени", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseWorkingHours{Error: "Не удалось получить статистику"})
			return
		}

		render.JSON(w, r, ResponseWorkingHours{
			Period:       periodName,
			StartDate:    rng.Start.Format("2006-01-02"),
			EndDate:      rng.End.Format("2006-01-02"),
			ManagerStats: managerStats,
		})
	}
}
