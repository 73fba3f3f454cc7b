package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"manager-analytics/internal/config"
	"manager-analytics/internal/service/encfix"
	"manager-analytics/internal/service/importer"
	"manager-analytics/internal/storage/mysql"
)

// Ночной импорт выгрузок 1С. Кладётся в cron:
//
//	0 21 * * * cd /var/www/manager_analytics && ./importer
func main() {
	dryRun := flag.Bool("dry-run", false, "ничего не записывать в БД")
	fixEncoding := flag.Bool("fix-encoding", false, "вместо импорта прогнать починку кодировки")
	flag.Parse()

	cfg := config.MustConfig()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	storage, err := mysql.New(*cfg)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if *fixEncoding {
		svc := encfix.NewService(storage, log)
		updated, err := svc.RepairDatabase(ctx, *dryRun)
		if err != nil {
			log.Error("починка кодировки не выполнена", slog.String("error", err.Error()))
			os.Exit(1)
		}
		log.Info("готово", slog.Int("updated", updated), slog.Bool("dry_run", *dryRun))
		return
	}

	if *dryRun {
		log.Error("dry-run поддерживается только вместе с -fix-encoding")
		os.Exit(1)
	}

	svc := importer.NewService(storage, log, cfg.UploadDir, cfg.ArchiveKeep)
	res, err := svc.Run(ctx)
	if err != nil {
		log.Error("импорт не выполнен", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("импорт завершён",
		slog.Int("archives", res.Archives),
		slog.Int("imported", res.Imported),
		slog.Int("skipped", res.Skipped))
}
