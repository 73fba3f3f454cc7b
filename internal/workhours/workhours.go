package workhours

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Пороги в минутах от полуночи
const (
	LateThresholdMinutes  = 9 * 60  // 09:00 — позже уже опоздание
	EarlyThresholdMinutes = 8 * 60  // 08:00
	LateEndMinutes        = 18 * 60 // 18:00
	TargetStartMinutes    = 8 * 60

	// Минимум заказов, чтобы день считался рабочим
	minOrdersForWorkingDay = 1

	unknownManager = "Не указан"
)

var dayNames = [7]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// OrderInput minimal projection of a stored order that the
// working-hours engine consumes.
type OrderInput struct {
	Date    time.Time
	Time    string
	Manager string
}

// DayRecord одна запись таблицы "по дням" в ответе
type DayRecord struct {
	Date         string  `json:"date"`
	FirstOrder   string  `json:"firstOrder"`
	LastOrder    string  `json:"lastOrder"`
	FirstMinutes float64 `json:"firstMinutes"`
	LastMinutes  float64 `json:"lastMinutes"`
	Duration     float64 `json:"duration"`
	OrderCount   int     `json:"orderCount"`
}

type DayOfWeekStat struct {
	Day      string  `json:"day"`
	AvgStart float64 `json:"avgStart"`
	Count    int     `json:"count"`
}

// ManagerStat сводка по одному менеджеру за период
type ManagerStat struct {
	Name                       string          `json:"name"`
	WorkDays                   int             `json:"workDays"`
	TotalOrders                int             `json:"totalOrders"`
	AvgStartMinutes            float64         `json:"avgStartMinutes"`
	AvgEndMinutes              float64         `json:"avgEndMinutes"`
	AvgDurationHours           float64         `json:"avgDurationHours"`
	AvgStart                   string          `json:"avgStart"`
	AvgEnd                     string          `json:"avgEnd"`
	MedianStart                string          `json:"medianStart"`
	MedianEnd                  string          `json:"medianEnd"`
	MinStart                   string          `json:"minStart"`
	MaxEnd                     string          `json:"maxEnd"`
	LateCount                  int             `json:"lateCount"`
	LatePercent                int             `json:"latePercent"`
	EarlyCount                 int             `json:"earlyCount"`
	LateEndCount               int             `json:"lateEndCount"`
	LateEndPercent             int             `json:"lateEndPercent"`
	AvgOrdersPerDay            float64         `json:"avgOrdersPerDay"`
	VarianceStartMinutes       float64         `json:"varianceStartMinutes"`
	PeakStartHour              string          `json:"peakStartHour"`
	PeakEndHour                string          `json:"peakEndHour"`
	DeviationFromTargetMinutes int             `json:"deviationFromTargetMinutes"`
	ComplianceScore            int             `json:"complianceScore"`
	ByDayOfWeek                []DayOfWeekStat `json:"byDayOfWeek"`
	DayByDay                   []DayRecord     `json:"dayByDay"`
}

// ParseTimeToMinutes разбирает "H:MM:SS", "HH:MM:SS" или "H:MM" в минуты
// от полуночи (секунды дают дробную часть). Второе значение false, когда
// строка пустая или час не является числом — такой заказ исключается
// из расчёта целиком.
func ParseTimeToMinutes(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	parts := strings.Split(s, ":")
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}

	var m, sec int
	if len(parts) > 1 {
		m, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	if len(parts) > 2 {
		sec, _ = strconv.Atoi(strings.TrimSpace(parts[2]))
	}

	return float64(h)*60 + float64(m) + float64(sec)/60, true
}

// MinutesToTime форматирует минуты от полуночи в "HH:MM"
func MinutesToTime(m float64) string {
	h := int(m) / 60
	mm := int(m) % 60
	return fmt.Sprintf("%02d:%02d", h, mm)
}

// ISODate день в формате YYYY-MM-DD, ключ по умолчанию для группировки
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
