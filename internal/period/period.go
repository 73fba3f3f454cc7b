package period

import (
	"fmt"
	"time"
)

// Range границы выборки заказов, включительно с обеих сторон
type Range struct {
	Start time.Time
	End   time.Time
}

// Resolve переводит параметры запроса в границы дат. Явные from/to
// (YYYY-MM-DD) имеют приоритет над period; period поддерживает
// yesterday / week / month, по умолчанию week.
func Resolve(periodName, from, to string, now time.Time) (Range, error) {
	const op = "period.Resolve"

	if from != "" && to != "" {
		start, err := time.Parse("2006-01-02", from)
		if err != nil {
			return Range{}, fmt.Errorf("%s: некорректная дата from: %w", op, err)
		}
		end, err := time.Parse("2006-01-02", to)
		if err != nil {
			return Range{}, fmt.Errorf("%s: некорректная дата to: %w", op, err)
		}
		return Range{Start: startOfDay(start), End: endOfDay(end)}, nil
	}

	switch periodName {
	case "yesterday":
		y := now.AddDate(0, 0, -1)
		return Range{Start: startOfDay(y), End: endOfDay(y)}, nil
	case "month":
		return Range{Start: startOfDay(now.AddDate(0, 0, -30)), End: endOfDay(now)}, nil
	case "week", "":
		fallthrough
	default:
		return Range{Start: startOfDay(now.AddDate(0, 0, -7)), End: endOfDay(now)}, nil
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
