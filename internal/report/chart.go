package report

import (
	"bytes"
	"errors"
	"time"

	"github.com/fogleman/gg"

	"github.com/ykvlv/mood-bot/internal/domain"
)

// ErrNoMarks is returned when a chart is requested over an empty series.
var ErrNoMarks = errors.New("no marks in range")

// Chart renders a user's mood marks as a scatter plot with a linear
// trend line. GridStep controls the vertical grid density (daily for the
// weekly report, weekly for the monthly one).
type Chart struct {
	Width    int
	Height   int
	GridStep time.Duration
}

func WeekChart() Chart {
	return Chart{Width: 800, Height: 500, GridStep: 24 * time.Hour}
}

func MonthChart() Chart {
	return Chart{Width: 800, Height: 500, GridStep: 7 * 24 * time.Hour}
}

const (
	marginX = 40.0
	marginY = 30.0
	// Marks hold values 0..4, plotted as 1..5 on a 0.5..5.5 axis.
	yMin = 0.5
	yMax = 5.5
)

// Render draws the marks recorded in [from, to) and returns a PNG.
func (c Chart) Render(marks []domain.Mark, from, to time.Time) ([]byte, error) {
	if len(marks) == 0 {
		return nil, ErrNoMarks
	}

	dc := gg.NewContext(c.Width, c.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	plotW := float64(c.Width) - 2*marginX
	plotH := float64(c.Height) - 2*marginY
	span := to.Sub(from).Seconds()
	if span <= 0 {
		span = 1
	}

	xAt := func(t time.Time) float64 {
		return marginX + plotW*t.Sub(from).Seconds()/span
	}
	yAt := func(v float64) float64 {
		// pixel y grows downward
		return marginY + plotH*(yMax-v)/(yMax-yMin)
	}

	// grid
	dc.SetRGB(0.85, 0.85, 0.85)
	dc.SetLineWidth(1)
	for t := from; !t.After(to); t = t.Add(c.GridStep) {
		x := xAt(t)
		dc.DrawLine(x, marginY, x, marginY+plotH)
		dc.Stroke()
	}
	for v := 1.0; v <= 5.0; v++ {
		y := yAt(v)
		dc.DrawLine(marginX, y, marginX+plotW, y)
		dc.Stroke()
	}

	// axes
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(2)
	dc.DrawLine(marginX, marginY, marginX, marginY+plotH)
	dc.DrawLine(marginX, marginY+plotH, marginX+plotW, marginY+plotH)
	dc.Stroke()

	// trend line
	xs := make([]float64, len(marks))
	ys := make([]float64, len(marks))
	for i, m := range marks {
		xs[i] = float64(m.CreatedAt.Unix())
		ys[i] = float64(m.Value) + 1
	}
	slope, intercept := linearFit(xs, ys)

	dc.SetRGB(0.85, 0.1, 0.1)
	dc.SetLineWidth(2)
	dc.SetDash(6, 4)
	x0, x1 := xs[0], xs[len(xs)-1]
	dc.DrawLine(
		xAt(time.Unix(int64(x0), 0)), yAt(clamp(slope*x0+intercept, yMin, yMax)),
		xAt(time.Unix(int64(x1), 0)), yAt(clamp(slope*x1+intercept, yMin, yMax)),
	)
	dc.Stroke()
	dc.SetDash()

	// scatter
	for _, m := range marks {
		dc.DrawCircle(xAt(m.CreatedAt), yAt(float64(m.Value)+1), 6)
		dc.Fill()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// linearFit returns the least-squares line through (xs, ys). With fewer
// than two distinct x values the line is flat at the mean.
func linearFit(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
