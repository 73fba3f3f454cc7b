package workhours

import "time"

// dayAggregate накопитель по одному дню одного менеджера
type dayAggregate struct {
	firstMinutes float64
	lastMinutes  float64
	orderCount   int
	weekday      int // 0=Вс .. 6=Сб
}

// aggregateDays группирует заказы по (менеджер, день), отбрасывая выходные
// и заказы без валидного времени. Первый заказ дня задаёт обе границы,
// дальнейшие сдвигают их через min/max, так что порядок записей во входе
// не влияет на результат.
func aggregateDays(orders []OrderInput, formatDate func(time.Time) string) map[string]map[string]*dayAggregate {
	if formatDate == nil {
		formatDate = ISODate
	}

	byManagerDay := make(map[string]map[string]*dayAggregate)

	for _, o := range orders {
		weekday := int(o.Date.Weekday())
		if weekday == 0 || weekday == 6 {
			// выходные не учитываем
			continue
		}

		minutes, ok := ParseTimeToMinutes(o.Time)
		if !ok {
			continue
		}

		manager := o.Manager
		if manager == "" {
			manager = unknownManager
		}
		dateKey := formatDate(o.Date)

		days, ok := byManagerDay[manager]
		if !ok {
			days = make(map[string]*dayAggregate)
			byManagerDay[manager] = days
		}

		if rec, ok := days[dateKey]; ok {
			rec.firstMinutes = min(rec.firstMinutes, minutes)
			rec.lastMinutes = max(rec.lastMinutes, minutes)
			rec.orderCount++
		} else {
			days[dateKey] = &dayAggregate{
				firstMinutes: minutes,
				lastMinutes:  minutes,
				orderCount:   1,
				weekday:      weekday,
			}
		}
	}

	return byManagerDay
}
