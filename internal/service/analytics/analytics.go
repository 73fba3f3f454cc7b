package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"manager-analytics/internal/storage"
	"manager-analytics/internal/workhours"
)

type OrdersStorage interface {
	GetOrdersRange(ctx context.Context, from, to time.Time) ([]*storage.Order, error)
}

type Service struct {
	storage OrdersStorage
}

func NewService(storage OrdersStorage) *Service {
	return &Service{storage: storage}
}

type Summary struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TotalOrders  int     `json:"totalOrders"`
	AvgOrder     float64 `json:"avgOrder"`
}

type ManagerRevenue struct {
	Name      string  `json:"name"`
	Revenue   float64 `json:"revenue"`
	Orders    int     `json:"orders"`
	AvgOrder  float64 `json:"avgOrder"`
	WorkHours int     `json:"workHours"`
}

type RegionStat struct {
	Name     string  `json:"name"`
	Revenue  float64 `json:"revenue"`
	Orders   int     `json:"orders"`
	AvgOrder float64 `json:"avgOrder"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type DayCount struct {
	Day     string  `json:"day"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type TrendPoint struct {
	Date    string  `json:"date"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type StatusCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ClientRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

type Dashboard struct {
	Summary            Summary          `json:"summary"`
	ManagerStats       []ManagerRevenue `json:"managerStats"`
	RegionStats        []RegionStat     `json:"regionStats"`
	HourDistribution   []HourCount      `json:"hourDistribution"`
	DayDistribution    []DayCount       `json:"dayDistribution"`
	TrendData          []TrendPoint     `json:"trendData"`
	StatusDistribution []StatusCount    `json:"statusDistribution"`
	TopClients         []ClientRevenue  `json:"topClients"`
	PeakHours          []HourCount      `json:"peakHours"`
}

const unknownLabel = "Не указан"

var dayNames = [7]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// Dashboard сводная аналитика продаж за период: выручка, разрезы по
// менеджерам, регионам, часам, дням недели, статусам и клиентам.
func (s *Service) Dashboard(ctx context.Context, from, to time.Time) (*Dashboard, error) {
	const op = "service.analytics.Dashboard"

	orders, err := s.storage.GetOrdersRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d := &Dashboard{}

	totalRevenue := 0.0
	for _, o := range orders {
		totalRevenue += o.Amount
	}
	d.Summary = Summary{
		TotalRevenue: round2(totalRevenue),
		TotalOrders:  len(orders),
	}
	if len(orders) > 0 {
		d.Summary.AvgOrder = round2(totalRevenue / float64(len(orders)))
	}

	d.ManagerStats = managerStats(orders)
	d.RegionStats = regionStats(orders)
	d.HourDistribution = hourDistribution(orders)
	d.DayDistribution = dayDistribution(orders)
	d.TrendData = trendData(orders)
	d.StatusDistribution = statusDistribution(orders)
	d.TopClients = topClients(orders, 15)

	// топ-5 часов по числу заказов
	peak := make([]HourCount, len(d.HourDistribution))
	copy(peak, d.HourDistribution)
	sort.SliceStable(peak, func(i, j int) bool { return peak[i].Count > peak[j].Count })
	if len(peak) > 5 {
		peak = peak[:5]
	}
	d.PeakHours = peak

	return d, nil
}

func managerStats(orders []*storage.Order) []ManagerRevenue {
	type acc struct {
		revenue float64
		count   int
		hours   map[string]struct{}
	}
	byManager := make(map[string]*acc)

	for _, o := range orders {
		name := o.Manager
		if name == "" {
			name = unknownLabel
		}
		a, ok := byManager[name]
		if !ok {
			a = &acc{hours: make(map[string]struct{})}
			byManager[name] = a
		}
		a.revenue += o.Amount
		a.count++

		// рабочие часы — различные слоты (день, час) с заказами
		if m, ok := workhours.ParseTimeToMinutes(o.Time); ok {
			slot := fmt.Sprintf("%s-%d", o.Date.Format("2006-01-02"), int(m)/60)
			a.hours[slot] = struct{}{}
		}
	}

	stats := make([]ManagerRevenue, 0, len(byManager))
	for name, a := range byManager {
		stats = append(stats, ManagerRevenue{
			Name:      name,
			Revenue:   round2(a.revenue),
			Orders:    a.count,
			AvgOrder:  round2(a.revenue / float64(a.count)),
			WorkHours: len(a.hours),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Revenue > stats[j].Revenue })
	return stats
}

func regionStats(orders []*storage.Order) []RegionStat {
	type acc struct {
		revenue float64
		count   int
	}
	byRegion := make(map[string]*acc)

	for _, o := range orders {
		name := unknownLabel
		if o.BusinessRegion != nil && *o.BusinessRegion != "" {
			name = *o.BusinessRegion
		}
		a, ok := byRegion[name]
		if !ok {
			a = &acc{}
			byRegion[name] = a
		}
		a.revenue += o.Amount
		a.count++
	}

	stats := make([]RegionStat, 0, len(byRegion))
	for name, a := range byRegion {
		stats = append(stats, RegionStat{
			Name:     name,
			Revenue:  round2(a.revenue),
			Orders:   a.count,
			AvgOrder: round2(a.revenue / float64(a.count)),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Revenue > stats[j].Revenue })
	return stats
}

func hourDistribution(orders []*storage.Order) []HourCount {
	var byHour [24]int
	for _, o := range orders {
		if m, ok := workhours.ParseTimeToMinutes(o.Time); ok {
			h := int(m) / 60
			if h >= 0 && h < 24 {
				byHour[h]++
			}
		}
	}

	dist := make([]HourCount, 24)
	for h := 0; h < 24; h++ {
		dist[h] = HourCount{Hour: h, Count: byHour[h]}
	}
	return dist
}

func dayDistribution(orders []*storage.Order) []DayCount {
	var counts [7]int
	var revenue [7]float64
	for _, o := range orders {
		d := int(o.Date.Weekday())
		counts[d]++
		revenue[d] += o.Amount
	}

	dist := make([]DayCount, 7)
	for d := 0; d < 7; d++ {
		dist[d] = DayCount{Day: dayNames[d], Count: counts[d], Revenue: round2(revenue[d])}
	}
	return dist
}

func trendData(orders []*storage.Order) []TrendPoint {
	type acc struct {
		count   int
		revenue float64
	}
	byDate := make(map[string]*acc)

	for _, o := range orders {
		key := o.Date.Format("2006-01-02")
		a, ok := byDate[key]
		if !ok {
			a = &acc{}
			byDate[key] = a
		}
		a.count++
		a.revenue += o.Amount
	}

	trend := make([]TrendPoint, 0, len(byDate))
	for date, a := range byDate {
		trend = append(trend, TrendPoint{Date: date, Count: a.count, Revenue: round2(a.revenue)})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })
	return trend
}

func statusDistribution(orders []*storage.Order) []StatusCount {
	byStatus := make(map[string]int)
	for _, o := range orders {
		name := unknownLabel
		if o.Status != nil && *o.Status != "" {
			name = *o.Status
		}
		byStatus[name]++
	}

	dist := make([]StatusCount, 0, len(byStatus))
	for name, count := range byStatus {
		dist = append(dist, StatusCount{Name: name, Count: count})
	}
	sort.SliceStable(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Name < dist[j].Name
	})
	return dist
}

func topClients(orders []*storage.Order, limit int) []ClientRevenue {
	byClient := make(map[string]float64)
	for _, o := range orders {
		name := unknownLabel
		if o.Client != nil && *o.Client != "" {
			name = *o.Client
		}
		byClient[name] += o.Amount
	}

	clients := make([]ClientRevenue, 0, len(byClient))
	for name, revenue := range byClient {
		clients = append(clients, ClientRevenue{Name: name, Revenue: round2(revenue)})
	}
	sort.SliceStable(clients, func(i, j int) bool {
		if clients[i].Revenue != clients[j].Revenue {
			return clients[i].Revenue > clients[j].Revenue
		}
		return clients[i].Name < clients[j].Name
	})
	if len(clients) > limit {
		clients = clients[:limit]
	}
	return clients
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
