package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"manager-analytics/internal/period"
	"manager-analytics/internal/service/workinghours"
)

type ManagerOrdersProvider interface {
	Orders(ctx context.Context, manager string, from, to time.Time) ([]workinghours.ManagerOrder, error)
}

type ResponseManagerOrders struct {
	Orders []workinghours.ManagerOrder `json:"orders"`
	Error  string                      `json:"error,omitempty"`
}

// GetManagerOrders заказы одного менеджера для детализации из сводки
func GetManagerOrders(log *slog.Logger, provider ManagerOrdersProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.working-hours.GetManagerOrders"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		manager := r.URL.Query().Get("manager")
		if manager == "" {
			log.Error("отсутствует параметр manager")
			http.Error(w, "manager required", http.StatusBadRequest)
			return
		}

		rng, err := period.Resolve(r.URL.Query().Get("period"), r.URL.Query().Get("from"), r.URL.Query().Get("to"), time.Now())
		if err != nil {
			log.Error("некорректные параметры периода", slog.String("error", err.Error()))
			http.Error(w, "Invalid date range", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := provider.Orders(ctx, manager, rng.Start, rng.End)
		if err != nil {
			log.Error("ошибка получения заказов менеджера",
				slog.String("manager", manager),
				slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseManagerOrders{Error: "Не удалось получить заказы"})
			return
		}

		render.JSON(w, r, ResponseManagerOrders{Orders: orders})
	}
}
