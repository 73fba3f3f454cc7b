package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"manager-analytics/internal/workhours"
)

type StatsProvider interface {
	Stats(ctx context.Context, from, to time.Time) ([]workhours.ManagerStat, error)
}

type Service struct {
	stats StatsProvider
}

func NewService(stats StatsProvider) *Service {
	return &Service{stats: stats}
}

// GenerateExcel книга со сводкой рабочего времени менеджеров за период
func (s *Service) GenerateExcel(ctx context.Context, from, to time.Time) ([]byte, error) {
	const op = "service.report.GenerateExcel"

	stats, err := s.stats.Stats(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Рабочее время"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	headers := []string{
		"Менеджер", "Рабочих дней", "Заказов", "Среднее начало", "Среднее окончание",
		"Медиана начала", "Длительность, ч", "Опозданий", "Опозданий, %",
		"Ранних стартов", "Поздних окончаний", "Заказов в день", "Оценка режима",
	}
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), headerStyle)

	for rowIdx, st := range stats {
		rowNum := rowIdx + 2
		f.SetCellValue(sheet, cellName(1, rowNum), st.Name)
		f.SetCellValue(sheet, cellName(2, rowNum), st.WorkDays)
		f.SetCellValue(sheet, cellName(3, rowNum), st.TotalOrders)
		f.SetCellValue(sheet, cellName(4, rowNum), st.AvgStart)
		f.SetCellValue(sheet, cellName(5, rowNum), st.AvgEnd)
		f.SetCellValue(sheet, cellName(6, rowNum), st.MedianStart)
		f.SetCellValue(sheet, cellName(7, rowNum), st.AvgDurationHours)
		f.SetCellValue(sheet, cellName(8, rowNum), st.LateCount)
		f.SetCellValue(sheet, cellName(9, rowNum), st.LatePercent)
		f.SetCellValue(sheet, cellName(10, rowNum), st.EarlyCount)
		f.SetCellValue(sheet, cellName(11, rowNum), st.LateEndCount)
		f.SetCellValue(sheet, cellName(12, rowNum), st.AvgOrdersPerDay)
		f.SetCellValue(sheet, cellName(13, rowNum), st.ComplianceScore)
	}

	// Закрепляем шапку
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "M", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
