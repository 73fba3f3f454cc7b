package importer

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"manager-analytics/internal/service/encfix"
	"manager-analytics/internal/storage"
)

// Количество параллельных upsert'ов в БД
const upsertWorkers = 8

type UpsertStorage interface {
	UpsertOrder(ctx context.Context, o *storage.Order) error
}

type Service struct {
	storage     UpsertStorage
	log         *slog.Logger
	uploadDir   string
	archiveKeep int
}

func NewService(storage UpsertStorage, log *slog.Logger, uploadDir string, archiveKeep int) *Service {
	return &Service{
		storage:     storage,
		log:         log,
		uploadDir:   uploadDir,
		archiveKeep: archiveKeep,
	}
}

type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Archives int `json:"archives"`
}

// Run обрабатывает все .zip в папке загрузок: чинит кириллицу в имени,
// распаковывает, импортирует Excel, убирает архив в archive/ и
// подрезает старые. Ошибка одного архива не прерывает остальные.
func (s *Service) Run(ctx context.Context) (Result, error) {
	const op = "service.importer.Run"

	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return Result{}, fmt.Errorf("%s: папка загрузок недоступна: %w", op, err)
	}

	var total Result
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".zip") {
			continue
		}

		res, err := s.processZip(ctx, e.Name())
		if err != nil {
			s.log.Error("ошибка обработки архива",
				slog.String("op", op),
				slog.String("file", e.Name()),
				slog.String("error", err.Error()))
			continue
		}

		total.Imported += res.Imported
		total.Skipped += res.Skipped
		total.Archives++
	}

	if err := s.pruneArchives(); err != nil {
		s.log.Error("ошибка подрезки архивов", slog.String("error", err.Error()))
	}

	return total, nil
}

var archiveDateRe = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)

// archiveName стабильное имя архива: orders_<дата>_<метка>.zip
func archiveName(fixedName string, now time.Time) string {
	dateStr := now.Format("2006-01-02")
	if m := archiveDateRe.FindStringSubmatch(fixedName); m != nil {
		dateStr = m[0]
	} else if d, ok := parseRowDate(fixedName); ok {
		dateStr = d.Format("2006-01-02")
	}
	ts := fmt.Sprintf("%08d", now.UnixMilli()%100000000)
	return fmt.Sprintf("orders_%s_%s.zip", dateStr, ts)
}

func (s *Service) processZip(ctx context.Context, rawName string) (Result, error) {
	const op = "service.importer.processZip"

	fixedName := encfix.FixFilename(rawName)
	newName := archiveName(fixedName, time.Now())
	zipPath := filepath.Join(s.uploadDir, rawName)
	renamedPath := filepath.Join(s.uploadDir, newName)

	if rawName != newName {
		if err := os.Rename(zipPath, renamedPath); err != nil {
			return Result{}, fmt.Errorf("%s: переименование: %w", op, err)
		}
		s.log.Info("архив переименован",
			slog.String("from", fixedName),
			slog.String("to", newName))
	}

	tempDir, err := os.MkdirTemp(s.uploadDir, "_tmp_orders_")
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	defer os.RemoveAll(tempDir)

	if err := extractZip(renamedPath, tempDir); err != nil {
		return Result{}, fmt.Errorf("%s: распаковка: %w", op, err)
	}

	excelPath := findExcel(tempDir)
	if excelPath == "" {
		return Result{}, fmt.Errorf("%s: в архиве %s нет Excel-файла", op, newName)
	}

	res, err := s.importExcel(ctx, excelPath)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("импорт архива завершён",
		slog.String("file", newName),
		slog.Int("imported", res.Imported),
		slog.Int("skipped", res.Skipped))

	archiveDir := filepath.Join(s.uploadDir, "archive")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(renamedPath, filepath.Join(archiveDir, newName)); err != nil {
		return res, fmt.Errorf("%s: перенос в архив: %w", op, err)
	}

	return res, nil
}

// importExcel читает первый лист и грузит строки в БД параллельными
// upsert'ами
func (s *Service) importExcel(ctx context.Context, path string) (Result, error) {
	const op = "service.importer.importExcel"

	f, err := excelize.OpenFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("%s: открытие файла: %w", op, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, fmt.Errorf("%s: в книге нет листов", op)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("%s: чтение листа: %w", op, err)
	}

	if len(rows) > headerRows {
		rows = rows[headerRows:]
	} else {
		rows = nil
	}

	var imported, skipped atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(upsertWorkers)

	for _, row := range rows {
		if len(row) < minRowLen {
			skipped.Add(1)
			continue
		}

		order, ok := mapRow(row)
		if !ok {
			skipped.Add(1)
			continue
		}

		g.Go(func() error {
			if err := s.storage.UpsertOrder(gCtx, order); err != nil {
				s.log.Error("ошибка upsert",
					slog.String("order", order.OrderNum),
					slog.String("error", err.Error()))
				skipped.Add(1)
				return nil
			}
			imported.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	return Result{Imported: int(imported.Load()), Skipped: int(skipped.Load())}, nil
}

// extractZip распаковывает архив, отсекая пути, выходящие за dest
func extractZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, file := range r.File {
		name := encfix.FixFilename(file.Name)
		target := filepath.Join(dest, filepath.Clean(name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("недопустимый путь в архиве: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}

		if err := extractFile(file, target); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(file *zip.File, target string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// findExcel первый .xlsx/.xls в распакованном дереве
func findExcel(dir string) string {
	var found string
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || found != "" || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".xlsx" || ext == ".xls" {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// pruneArchives держит только archiveKeep последних архивов
func (s *Service) pruneArchives() error {
	archiveDir := filepath.Join(s.uploadDir, "archive")
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	type archived struct {
		path  string
		mtime time.Time
	}
	var files []archived
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, archived{
			path:  filepath.Join(archiveDir, e.Name()),
			mtime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mtime.After(files[j].mtime) })

	for i := s.archiveKeep; i < len(files); i++ {
		if err := os.Remove(files[i].path); err != nil {
			s.log.Error("не удалось удалить старый архив",
				slog.String("path", files[i].path),
				slog.String("error", err.Error()))
			continue
		}
		s.log.Info("удалён старый архив", slog.String("path", files[i].path))
	}

	return nil
}
