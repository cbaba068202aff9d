package stats

import (
	"strings"
	"time"
)

// TimeFrame names a dashboard reporting window.
type TimeFrame string

const (
	FrameMonth    TimeFrame = "month"
	FrameYear     TimeFrame = "year"
	FrameAll      TimeFrame = "all"
	Frame30Days   TimeFrame = "30days"
	FrameQuarter  TimeFrame = "quarter"
	FrameSemester TimeFrame = "semester"
	FrameLastYear TimeFrame = "lastYear"
)

// ParseTimeFrame maps a query parameter to a TimeFrame, defaulting to the
// current month.
func ParseTimeFrame(raw string) TimeFrame {
	switch f := TimeFrame(strings.TrimSpace(raw)); f {
	case FrameMonth, FrameYear, FrameAll, Frame30Days, FrameQuarter, FrameSemester, FrameLastYear:
		return f
	}
	return FrameMonth
}

type bucketUnit int

const (
	unitDay bucketUnit = iota
	unitMonth
	unitYear
)

func (u bucketUnit) layout() string {
	switch u {
	case unitDay:
		return "02/01"
	case unitMonth:
		return "Jan 2006"
	default:
		return "2006"
	}
}

// Window is a half-open [Start, End) interval bucketed by a calendar unit.
// A zero Start means unbounded.
type Window struct {
	Start time.Time
	End   time.Time
	unit  bucketUnit
}

// windowsFor resolves frame against now. The second window immediately
// precedes the first and spans the same length; ok is false when the frame
// has nothing to compare with.
func windowsFor(frame TimeFrame, now time.Time, loc *time.Location) (cur Window, prev Window, ok bool) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	nextMonth := monthStart.AddDate(0, 1, 0)

	lastMonths := func(n int) (Window, Window, bool) {
		start := monthStart.AddDate(0, -(n - 1), 0)
		return Window{Start: start, End: nextMonth, unit: unitMonth},
			Window{Start: start.AddDate(0, -n, 0), End: start, unit: unitMonth},
			true
	}

	switch frame {
	case Frame30Days:
		start := today.AddDate(0, 0, -29)
		return Window{Start: start, End: tomorrow, unit: unitDay},
			Window{Start: start.AddDate(0, 0, -30), End: start, unit: unitDay},
			true
	case FrameQuarter:
		return lastMonths(3)
	case FrameSemester:
		return lastMonths(6)
	case FrameYear:
		return lastMonths(12)
	case FrameLastYear:
		start := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, loc)
		end := start.AddDate(1, 0, 0)
		return Window{Start: start, End: end, unit: unitMonth},
			Window{Start: start.AddDate(-1, 0, 0), End: start, unit: unitMonth},
			true
	case FrameAll:
		return Window{End: tomorrow, unit: unitYear}, Window{}, false
	default:
		return Window{Start: monthStart, End: nextMonth, unit: unitDay},
			Window{Start: monthStart.AddDate(0, -1, 0), End: monthStart, unit: unitDay},
			true
	}
}

// buckets lays out the chart buckets of a window.
type buckets struct {
	labels []string
	index  map[string]int
	unit   bucketUnit
	loc    *time.Location
}

// bucketsFor builds the label set of w. An unbounded window starts at the year
// of earliest, or at End's year when earliest is nil.
func bucketsFor(w Window, loc *time.Location, earliest *time.Time) buckets {
	if loc == nil {
		loc = time.UTC
	}
	b := buckets{index: make(map[string]int), unit: w.unit, loc: loc}

	start := w.Start
	if start.IsZero() {
		last := w.End.Add(-time.Nanosecond).In(loc)
		first := last.Year()
		if earliest != nil && earliest.In(loc).Year() < first {
			first = earliest.In(loc).Year()
		}
		start = time.Date(first, time.January, 1, 0, 0, 0, 0, loc)
	}

	for t := start.In(loc); t.Before(w.End); t = b.step(t) {
		label := t.Format(w.unit.layout())
		if _, seen := b.index[label]; seen {
			continue
		}
		b.index[label] = len(b.labels)
		b.labels = append(b.labels, label)
	}
	return b
}

func (b buckets) step(t time.Time) time.Time {
	switch b.unit {
	case unitDay:
		return t.AddDate(0, 0, 1)
	case unitMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}

// of returns the bucket holding t.
func (b buckets) of(t time.Time) (int, bool) {
	i, ok := b.index[t.In(b.loc).Format(b.unit.layout())]
	return i, ok
}

func (b buckets) zero() []float64 {
	return make([]float64, len(b.labels))
}

func (b buckets) labelCopy() []string {
	return append([]string{}, b.labels...)
}
