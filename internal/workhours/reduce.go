package workhours

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Compute строит статистику рабочего времени по менеджерам из плоского
// списка заказов. formatDate задаёт ключ календарного дня (nil — ISO
// YYYY-MM-DD). Порядок менеджеров в результате не определён, вызывающий
// сортирует сам. Пустой вход даёт пустой срез, паник не бывает.
func Compute(orders []OrderInput, formatDate func(time.Time) string) []ManagerStat {
	byManagerDay := aggregateDays(orders, formatDate)

	stats := make([]ManagerStat, 0, len(byManagerDay))
	for name, days := range byManagerDay {
		stats = append(stats, reduceManager(name, days))
	}

	return stats
}

// reduceManager сводит дневные агрегаты одного менеджера в ManagerStat.
func reduceManager(name string, days map[string]*dayAggregate) ManagerStat {
	// totalOrders считается по ВСЕМ дням до фильтра рабочих дней,
	// workDays — только по прошедшим порог. При пороге 1 разницы нет,
	// но при его повышении расхождение сохраняется намеренно.
	totalAllOrders := 0
	for _, rec := range days {
		totalAllOrders += rec.orderCount
	}

	type keyedDay struct {
		key string
		rec *dayAggregate
	}
	qualifying := make([]keyedDay, 0, len(days))
	for key, rec := range days {
		if rec.orderCount >= minOrdersForWorkingDay {
			qualifying = append(qualifying, keyedDay{key, rec})
		}
	}
	sort.Slice(qualifying, func(i, j int) bool { return qualifying[i].key < qualifying[j].key })

	n := len(qualifying)
	firstTimes := make([]float64, 0, n)
	lastTimes := make([]float64, 0, n)
	qualifyingOrders := 0
	for _, d := range qualifying {
		firstTimes = append(firstTimes, d.rec.firstMinutes)
		lastTimes = append(lastTimes, d.rec.lastMinutes)
		qualifyingOrders += d.rec.orderCount
	}

	avgStart := mean(firstTimes)
	avgEnd := mean(lastTimes)

	lateCount, earlyCount, lateEndCount := 0, 0, 0
	for _, m := range firstTimes {
		if m > LateThresholdMinutes {
			lateCount++
		}
		if m < EarlyThresholdMinutes {
			earlyCount++
		}
	}
	for _, m := range lastTimes {
		if m > LateEndMinutes {
			lateEndCount++
		}
	}

	varianceStart := 0.0
	if n > 1 {
		for _, v := range firstTimes {
			varianceStart += (v - avgStart) * (v - avgStart)
		}
		varianceStart /= float64(n)
	}

	byDow := [7][]float64{}
	for _, d := range qualifying {
		byDow[d.rec.weekday] = append(byDow[d.rec.weekday], d.rec.firstMinutes)
	}
	dowStats := make([]DayOfWeekStat, 7)
	for dow := 0; dow < 7; dow++ {
		dowStats[dow] = DayOfWeekStat{
			Day:      dayNames[dow],
			AvgStart: mean(byDow[dow]),
			Count:    len(byDow[dow]),
		}
	}

	avgOrdersPerDay := 0.0
	if n > 0 {
		avgOrdersPerDay = float64(qualifyingOrders) / float64(n)
	}

	deviation := avgStart - TargetStartMinutes
	compliance := 0.0
	if n > 0 {
		compliance = 100 - float64(lateCount)/float64(n)*50 - math.Max(0, (avgStart-TargetStartMinutes)/60)*5
	}

	dayByDay := make([]DayRecord, 0, n)
	for _, d := range qualifying {
		dayByDay = append(dayByDay, DayRecord{
			Date:         d.key,
			FirstOrder:   MinutesToTime(d.rec.firstMinutes),
			LastOrder:    MinutesToTime(d.rec.lastMinutes),
			FirstMinutes: d.rec.firstMinutes,
			LastMinutes:  d.rec.lastMinutes,
			Duration:     math.Round((d.rec.lastMinutes-d.rec.firstMinutes)/6) / 10,
			OrderCount:   d.rec.orderCount,
		})
	}

	return ManagerStat{
		Name:                       name,
		WorkDays:                   n,
		TotalOrders:                totalAllOrders,
		AvgStartMinutes:            round1(avgStart),
		AvgEndMinutes:              round1(avgEnd),
		AvgDurationHours:           round1((avgEnd - avgStart) / 60),
		AvgStart:                   MinutesToTime(avgStart),
		AvgEnd:                     MinutesToTime(avgEnd),
		MedianStart:                MinutesToTime(medianOf(firstTimes)),
		MedianEnd:                  MinutesToTime(medianOf(lastTimes)),
		MinStart:                   MinutesToTime(minOf(firstTimes)),
		MaxEnd:                     MinutesToTime(maxOf(lastTimes)),
		LateCount:                  lateCount,
		LatePercent:                percent(lateCount, n),
		EarlyCount:                 earlyCount,
		LateEndCount:               lateEndCount,
		LateEndPercent:             percent(lateEndCount, n),
		AvgOrdersPerDay:            round1(avgOrdersPerDay),
		VarianceStartMinutes:       round1(varianceStart),
		PeakStartHour:              fmt.Sprintf("%d:00", peakHour(firstTimes)),
		PeakEndHour:                fmt.Sprintf("%d:00", peakHour(lastTimes)),
		DeviationFromTargetMinutes: int(math.Round(deviation)),
		ComplianceScore:            int(math.Round(math.Max(0, compliance))),
		ByDayOfWeek:                dowStats,
		DayByDay:                   dayByDay,
	}
}

// peakHour возвращает час (0-23), на который пришлось больше всего
// значений. При равенстве берётся первый час с максимумом по
// возрастанию — правило зафиксировано явно, чтобы не зависеть от
// порядка обхода map.
func peakHour(times []float64) int {
	var byHour [24]int
	for _, m := range times {
		h := int(m) / 60
		if h >= 0 && h < 24 {
			byHour[h]++
		}
	}
	best := 0
	for h := 1; h < 24; h++ {
		if byHour[h] > byHour[best] {
			best = h
		}
	}
	return best
}

// medianOf элемент с индексом n/2 в отсортированном срезе. Для
// чётного n это верхний из двух средних, без усреднения.
func medianOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		m = min(m, v)
	}
	return m
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		m = max(m, v)
	}
	return m
}

func percent(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
