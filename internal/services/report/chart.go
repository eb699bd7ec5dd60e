package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/finch-money/finch/internal/interfaces"
)

// chartPalette cycles across category bars.
var chartPalette = []string{
	"2563eb", // blue-600
	"dc2626", // red-600
	"16a34a", // green-600
	"d97706", // amber-600
	"9333ea", // purple-600
	"0891b2", // cyan-600
	"db2777", // pink-600
	"65a30d", // lime-600
}

// renderCategoryBars renders category totals as a PNG bar chart.
func renderCategoryBars(rows []interfaces.CategoryTotal, currency string) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data to chart")
	}
	// Cap at the palette size so labels stay readable.
	if len(rows) > len(chartPalette) {
		rows = rows[:len(chartPalette)]
	}

	bars := make([]chart.Value, 0, len(rows))
	for i, row := range rows {
		bars = append(bars, chart.Value{
			Label: row.Name,
			Value: row.Total.Float(),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(chartPalette[i%len(chartPalette)]),
				StrokeColor: drawing.ColorFromHex(chartPalette[i%len(chartPalette)]),
			},
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Spending by Category (%s)", currency),
		Width:    900,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderCategoryChart renders the by-category report as a PNG and persists a
// copy under the data path for later retrieval.
func (s *Service) RenderCategoryChart(ctx context.Context, filter interfaces.TransactionFilter) ([]byte, error) {
	rows, err := s.ByCategory(ctx, filter)
	if err != nil {
		return nil, err
	}

	png, err := renderCategoryBars(rows, s.currency)
	if err != nil {
		return nil, err
	}

	if err := s.storage.WriteRaw("reports", "by_category.png", png); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist chart")
	}
	return png, nil
}
