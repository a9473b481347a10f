// Package chart renders the dashboard and report charts as PNG images.
package chart

import (
	"errors"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"expensetracker/internal/core"
)

const (
	defaultWidth  = 800
	defaultHeight = 400
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to chart")

// lineStyle draws a line with a dot on every point.
func lineStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    4,
	}
}

func amountFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return ""
}

// yRange always includes zero and leaves some headroom; an all-zero series
// still gets a non-empty range. Refunds push min below zero.
func yRange(min, max float64) *gochart.ContinuousRange {
	if max <= 0 && min >= 0 {
		max = 1
	}
	return &gochart.ContinuousRange{Min: min * 1.1, Max: max * 1.1}
}

func toFloat(m core.Money) float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// MonthlyTrendPNG renders amount per month as a line chart.
func MonthlyTrendPNG(w io.Writer, points []core.PeriodAmount) error {
	if len(points) == 0 {
		return ErrNoData
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	ticks := make([]gochart.Tick, len(points))
	var min, max float64
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = toFloat(p.Amount)
		ticks[i] = gochart.Tick{Value: float64(i), Label: p.Period}
		if ys[i] > max {
			max = ys[i]
		}
		if ys[i] < min {
			min = ys[i]
		}
	}

	ch := gochart.Chart{
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: gochart.XAxis{
			Name:  "Month",
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(len(points)) - 0.5},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:           "Amount ($)",
			Range:          yRange(min, max),
			ValueFormatter: amountFormatter,
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "Amount",
				XValues: xs,
				YValues: ys,
				Style:   lineStyle(gochart.ColorBlue),
			},
		},
	}

	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render monthly trend: %w", err)
	}
	return nil
}

// CategoryBarPNG renders amount per category as a bar chart.
func CategoryBarPNG(w io.Writer, totals []core.CategoryAmount) error {
	if len(totals) == 0 {
		return ErrNoData
	}

	bars := make([]gochart.Value, len(totals))
	var min, max float64
	for i, c := range totals {
		v := toFloat(c.Amount)
		bars[i] = gochart.Value{Value: v, Label: string(c.Name)}
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}

	bc := gochart.BarChart{
		Width:      defaultWidth,
		Height:     defaultHeight,
		BarWidth:   60,
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		YAxis: gochart.YAxis{
			Name:           "Amount ($)",
			Range:          yRange(min, max),
			ValueFormatter: amountFormatter,
		},
		Bars: bars,
	}

	if err := bc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render category totals: %w", err)
	}
	return nil
}
