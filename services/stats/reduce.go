package stats

import (
	"math"

	"pharmakiosk/models"
)

// satisfiedFrom is the lowest pharmacy rating counted as satisfied.
const satisfiedFrom = 4

var (
	starLabels      = []string{"1★", "2★", "3★", "4★", "5★"}
	timeOfDayLabels = []string{"8h-10h", "10h-12h", "12h-14h", "14h-16h", "16h-18h", "18h-20h"}
)

const (
	firstHour = 8
	lastHour  = 20
	slotHours = 2
)

// percent returns part/total as a percentage, 0 for an empty total.
func percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return round2(part / total * 100)
}

func average(sum, count float64) float64 {
	if count <= 0 {
		return 0
	}
	return round2(sum / count)
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// newKPI compares a current value with its previous window. baseline is the
// number of sessions that qualified for the previous value; without any, Delta
// and Change stay 0. Change also stays 0 when the previous value is 0.
func newKPI(current, previous float64, baseline int, compare bool) models.KPI {
	k := models.KPI{Current: round2(current)}
	if !compare {
		return k
	}
	k.Previous = round2(previous)
	if baseline <= 0 {
		return k
	}
	k.Delta = round2(current - previous)
	if previous != 0 {
		k.Change = round2((current - previous) / math.Abs(previous) * 100)
	}
	return k
}

// Summary holds every dashboard figure for one set of sessions.
type Summary struct {
	Sessions          int       `json:"sessions"`
	Feedbacks         int       `json:"feedbacks"`
	Visitors          int       `json:"visitors"`
	RatedSessions     int       `json:"ratedSessions"`
	SatisfactionRate  float64   `json:"satisfactionRate"`
	AverageRating     float64   `json:"averageRating"`
	ParticipationRate float64   `json:"participationRate"`
	CompletionRate    float64   `json:"completionRate"`
	EmployeeRatings   int       `json:"employeeRatings"`
	EmployeeAverage   float64   `json:"employeeAverage"`
	Suggestions       int       `json:"suggestions"`
	Stars             []float64 `json:"stars"`
}

// Summarize reduces sessions to the dashboard figures.
func Summarize(sessions []models.FeedbackSession) Summary {
	var (
		rated, satisfied, ratingSum float64
		empSum, empCount            float64
		completed                   float64
		sum                         Summary
	)
	devices := make(map[string]struct{})
	contributing := make(map[string]struct{})

	for i := range sessions {
		sess := &sessions[i]
		devices[sess.DeviceID] = struct{}{}
		if sess.HasValidData() {
			contributing[sess.DeviceID] = struct{}{}
			sum.Feedbacks++
		}
		if sess.HasSuggestion() {
			sum.Suggestions++
		}
		if sess.Status == models.SessionCompleted || sess.Completed {
			completed++
		}
		if sess.PharmacyRating != nil {
			rated++
			ratingSum += float64(*sess.PharmacyRating)
			if *sess.PharmacyRating >= satisfiedFrom {
				satisfied++
			}
		}
		for _, r := range sess.EmployeeRatings {
			empSum += float64(r.Rating)
			empCount++
		}
	}

	sum.Sessions = len(sessions)
	sum.Visitors = len(devices)
	sum.RatedSessions = int(rated)
	sum.SatisfactionRate = percent(satisfied, rated)
	sum.AverageRating = average(ratingSum, rated)
	sum.ParticipationRate = clampPercent(percent(float64(len(contributing)), float64(len(devices))))
	sum.CompletionRate = clampPercent(percent(completed, float64(len(sessions))))
	sum.EmployeeRatings = int(empCount)
	sum.EmployeeAverage = average(empSum, empCount)
	sum.Stars = starCounts(sessions)
	return sum
}

// starCounts counts pharmacy ratings per star, index 0 being one star.
func starCounts(sessions []models.FeedbackSession) []float64 {
	counts := make([]float64, len(starLabels))
	for _, sess := range sessions {
		if sess.PharmacyRating == nil {
			continue
		}
		r := *sess.PharmacyRating
		if r < 1 || r > len(starLabels) {
			continue
		}
		counts[r-1]++
	}
	return counts
}

// timeOfDaySlot returns the two-hour slot of hour, or false outside opening hours.
func timeOfDaySlot(hour int) (int, bool) {
	if hour < firstHour || hour >= lastHour {
		return 0, false
	}
	return (hour - firstHour) / slotHours, true
}
