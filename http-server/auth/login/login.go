package login

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"manager-analytics/internal/service/auth"
)

type Request struct {
	Password string `json:"password"`
}

type Response struct {
	OK          bool   `json:"ok"`
	Remaining   int    `json:"remaining,omitempty"`
	BannedUntil string `json:"bannedUntil,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Login вход в дашборд по общему паролю. Неудачные попытки считаются
// по IP, после лимита клиент получает 429 до конца бана.
func Login(log *slog.Logger, gate *auth.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.auth.Login"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		clientKey := clientIP(r)

		if banned, until := gate.IsBanned(clientKey); banned {
			log.Warn("попытка входа в бане", slog.String("client", clientKey))
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, Response{
				Error:       "Слишком много попыток",
				BannedUntil: until.Format(time.RFC3339),
			})
			return
		}

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil || req.Password == "" {
			log.Error("некорректное тело запроса")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, Response{Error: "Неверный формат"})
			return
		}

		if !gate.Check(req.Password) {
			gate.RecordFailure(clientKey)
			remaining := gate.Remaining(clientKey)
			log.Warn("неверный пароль",
				slog.String("client", clientKey),
				slog.Int("remaining", remaining))
			render.JSON(w, r, Response{OK: false, Remaining: remaining})
			return
		}

		gate.Reset(clientKey)
		render.JSON(w, r, Response{OK: true})
	}
}

// clientIP после middleware.RealIP в RemoteAddr лежит реальный адрес
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
