package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"manager-analytics/internal/storage"
)

// Колонки листа выгрузки 1С. Позиционный доступ живёт только здесь:
// дальше по системе ходит типизированный storage.Order.
const (
	colOrderNum = 0
	colDate     = 2
	colTime     = 4
	colAmount   = 5
	colClient   = 6
	colStatus   = 8
	colManager  = 9
	colComment  = 10
	colRegion   = 11
	colLink     = 12
	colSiteNum  = 13

	// Шапка отчёта занимает первые строки листа
	headerRows = 4

	minRowLen = 6
)

var (
	ruDateRe  = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	isoDateRe = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
)

// parseRowDate принимает "дд.мм.гггг" (формат 1С) или ISO "гггг-мм-дд"
func parseRowDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := ruDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}

// parseAmount суммы приходят с пробелами-разделителями тысяч и запятой
// в качестве десятичного знака
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellPtr(row []string, idx int) *string {
	v := cell(row, idx)
	if v == "" {
		return nil
	}
	return &v
}

// mapRow превращает строку листа в заказ; false — строку пропускаем
// (нет номера заказа или даты)
func mapRow(row []string) (*storage.Order, bool) {
	orderNum := cell(row, colOrderNum)
	if orderNum == "" {
		return nil, false
	}

	date, ok := parseRowDate(cell(row, colDate))
	if !ok {
		return nil, false
	}

	manager := cell(row, colManager)
	if manager == "" {
		manager = "Unknown"
	}

	return &storage.Order{
		OrderNum:       orderNum,
		Date:           date,
		Time:           cell(row, colTime),
		Amount:         parseAmount(cell(row, colAmount)),
		Client:         cellPtr(row, colClient),
		Status:         cellPtr(row, colStatus),
		Manager:        manager,
		Comment:        cellPtr(row, colComment),
		BusinessRegion: cellPtr(row, colRegion),
		Link:           cellPtr(row, colLink),
		SiteOrderNum:   cellPtr(row, colSiteNum),
	}, true
}
