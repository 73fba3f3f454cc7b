package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"manager-analytics/internal/period"
	"manager-analytics/internal/service/analytics"
)

type DashboardProvider interface {
	Dashboard(ctx context.Context, from, to time.Time) (*analytics.Dashboard, error)
}

type ResponseAnalytics struct {
	Period    string `json:"period"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	*analytics.Dashboard
	Error string `json:"error,omitempty"`
}

// GetAnalytics сводная аналитика продаж для главной страницы дашборда
func GetAnalytics(log *slog.Logger, provider DashboardProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.analytics.GetAnalytics"

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

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		dashboard, err := provider.Dashboard(ctx, rng.Start, rng.End)
		if err != nil {
			log.Error("ошибка расчёта аналитики", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseAnalytics{Error: "Не удалось получить аналитику"})
			return
		}

		render.JSON(w, r, ResponseAnalytics{
			Period:    periodName,
			StartDate: rng.Start.Format("2006-01-02"),
			EndDate:   rng.End.Format("2006-01-02"),
			Dashboard: dashboard,
		})
	}
}
