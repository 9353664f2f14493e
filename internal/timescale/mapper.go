// Package timescale maps calendar dates onto horizontal timeline positions.
package timescale

import (
	"math"
	"time"

	"github.com/constructbms/gantt/internal/domain"
)

// Zoom levels are day granularities. Scale is expressed relative to the
// week view: pixelsPerDay = (width / totalDays) * (zoom / 7).
const (
	ZoomDay   = 1
	ZoomWeek  = 7
	ZoomMonth = 30
)

var zoomSteps = []int{ZoomDay, ZoomWeek, ZoomMonth}

// Mapper is an immutable scale for one window, width and zoom. Build a new
// one whenever any of those change.
type Mapper struct {
	start        time.Time
	end          time.Time
	width        float64
	zoom         int
	totalDays    float64
	pixelsPerDay float64
}

// New builds a mapper for the window [start, end). A window shorter than one
// day is widened to one day. A non-positive width or zoom yields a zero scale.
func New(start, end time.Time, width float64, zoom int) Mapper {
	totalDays := domain.Days(end.Sub(start))
	if totalDays < 1 {
		totalDays = 1
		end = start.Add(domain.Day)
	}
	m := Mapper{start: start, end: end, width: width, zoom: zoom, totalDays: totalDays}
	if width > 0 && zoom > 0 {
		m.pixelsPerDay = (width / totalDays) * (float64(zoom) / 7)
	}
	return m
}

func (m Mapper) Start() time.Time { return m.start }
func (m Mapper) End() time.Time { return m.end }
func (m Mapper) Width() float64 { return m.width }
func (m Mapper) Zoom() int { return m.zoom }
func (m Mapper) TotalDays() float64 { return m.totalDays }
func (m Mapper) PixelsPerDay() float64 { return m.pixelsPerDay }

// DateToPixel returns the horizontal offset of d from the window start.
// Dates outside the window map to negative or beyond-width positions.
func (m Mapper) DateToPixel(d time.Time) float64 {
	return domain.Days(d.Sub(m.start)) * m.pixelsPerDay
}

// PixelToDate is the inverse of DateToPixel. With a zero scale it returns
// the window start.
func (m Mapper) PixelToDate(px float64) time.Time {
	if m.pixelsPerDay == 0 {
		return m.start
	}
	return domain.AddDays(m.start, px/m.pixelsPerDay)
}

// DaysDelta converts a horizontal pointer displacement into days.
func (m Mapper) DaysDelta(dx float64) float64 {
	if m.pixelsPerDay == 0 {
		return 0
	}
	return dx / m.pixelsPerDay
}

// ContentWidth is the pixel width needed to draw the whole window at the
// current zoom. It exceeds Width for zoom levels finer than the week view
// baseline and falls short of it for coarser ones.
func (m Mapper) ContentWidth() float64 {
	return m.totalDays * m.pixelsPerDay
}

// Tick is a gridline at a calendar boundary.
type Tick struct {
	Date  time.Time
	Pixel float64
}

// Ticks returns gridlines every stepDays days starting at the first
// midnight on or after the window start.
func (m Mapper) Ticks(stepDays int) []Tick {
	if stepDays <= 0 || m.pixelsPerDay == 0 {
		return nil
	}
	d := domain.TruncateDay(m.start)
	if d.Before(m.start) {
		d = d.AddDate(0, 0, 1)
	}
	var ticks []Tick
	for d.Before(m.end) {
		ticks = append(ticks, Tick{Date: d, Pixel: m.DateToPixel(d)})
		d = d.AddDate(0, 0, stepDays)
	}
	return ticks
}

// TickStep returns a gridline spacing in days that keeps ticks at least
// minGap pixels apart.
func (m Mapper) TickStep(minGap float64) int {
	if m.pixelsPerDay <= 0 {
		return 0
	}
	for _, step := range []int{1, 7, 14, 30, 90, 365} {
		if float64(step)*m.pixelsPerDay >= minGap {
			return step
		}
	}
	return int(math.Ceil(minGap / m.pixelsPerDay))
}

// FinerZoom returns the next smaller zoom level, or zoom itself at the smallest.
func FinerZoom(zoom int) int {
	for i := len(zoomSteps) - 1; i >= 0; i-- {
		if zoomSteps[i] < zoom {
			return zoomSteps[i]
		}
	}
	return zoom
}

// CoarserZoom returns the next larger zoom level, or zoom itself at the largest.
func CoarserZoom(zoom int) int {
	for _, z := range zoomSteps {
		if z > zoom {
			return z
		}
	}
	return zoom
}
