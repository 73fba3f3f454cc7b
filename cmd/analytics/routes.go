package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getanalytics "manager-analytics/http-server/analytics/get"
	adminrun "manager-analytics/http-server/admin/run"
	"manager-analytics/http-server/auth/login"
	getreport "manager-analytics/http-server/report/get"
	getwh "manager-analytics/http-server/working-hours/get"
	"manager-analytics/internal/config"
	basicauth "manager-analytics/internal/middleware/auth"
	"manager-analytics/internal/service/analytics"
	authsvc "manager-analytics/internal/service/auth"
	"manager-analytics/internal/service/importer"
	"manager-analytics/internal/service/report"
	"manager-analytics/internal/service/workinghours"
)

func routes(
	cfg config.Config,
	log *slog.Logger,
	workingHours *workinghours.Service,
	dashboard *analytics.Service,
	reports *report.Service,
	imports *importer.Service,
	gate *authsvc.Gate,
) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// вход в дашборд
	router.Post("/api/auth/login", login.Login(log, gate))

	// сводная аналитика продаж
	router.Get("/api/analytics", getanalytics.GetAnalytics(log, dashboard))

	// рабочее время менеджеров и детализация по заказам
	router.Get("/api/working-hours", getwh.GetWorkingHours(log, workingHours))
	router.Get("/api/working-hours/orders", getwh.GetManagerOrders(log, workingHours))

	// выгрузка сводки в Excel
	router.Get("/api/report/excel", getreport.GetReportExcel(log, reports))

	// служебные маршруты
	adminRouter := chi.NewRouter()
	adminRouter.Use(basicauth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))
	adminRouter.Post("/import", adminrun.RunImport(log, imports))
	router.Mount("/api/admin", adminRouter)

	// Статика дашборда
	frontendDir := "./frontend-dist"
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Error("Папка фронтенда не найдена", "path", frontendDir)
		os.Exit(1)
	}

	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	// SPA fallback: любой другой путь — index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, r.URL.Path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
