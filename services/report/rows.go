package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"
	"pharmakiosk/services/stats"

	"go.uber.org/zap"
)

const (
	missing    = "-"
	dateLayout = "02/01/2006 15:04"
	dayLayout  = "02/01/2006"
)

// table is the renderer-independent content of a report.
type table struct {
	Title   string
	Period  string
	Columns []column
	Rows    [][]string
	Summary []summaryLine
}

// column is a table header with its relative width in the PDF layout.
type column struct {
	Header string
	Weight float64
}

type summaryLine struct {
	Label string
	Value string
}

var titles = map[models.ReportType]string{
	models.ReportFeedback:        "Feedback report",
	models.ReportPharmacyRatings: "Pharmacy ratings",
	models.ReportEmployeeRatings: "Employee ratings",
	models.ReportSuggestions:     "Client suggestions",
	models.ReportClientContacts:  "Client contacts",
	models.ReportSummary:         "Activity summary",
}

func (s Sentiment) valid() bool {
	switch s {
	case SentimentAny, SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// matches reports whether rating falls in the sentiment band. Unrated rows
// only pass an empty filter.
func (s Sentiment) matches(rating *int) bool {
	if s == SentimentAny {
		return true
	}
	if rating == nil {
		return false
	}
	switch s {
	case SentimentPositive:
		return *rating >= 4
	case SentimentNeutral:
		return *rating == 3
	case SentimentNegative:
		return *rating <= 2
	}
	return false
}

func formatRating(r *int) string {
	if r == nil {
		return missing
	}
	return strconv.Itoa(*r) + "/5"
}

func orMissing(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return missing
	}
	return v
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func formatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "/5"
}

func (s *DefaultReportService) formatDate(t time.Time) string {
	if t.IsZero() {
		return missing
	}
	return t.In(s.location()).Format(dateLayout)
}

func (s *DefaultReportService) period(r *models.DateRange) string {
	if r == nil || (r.Start.IsZero() && r.End.IsZero()) {
		return "All time"
	}
	loc := s.location()
	from := "..."
	if !r.Start.IsZero() {
		from = r.Start.In(loc).Format(dayLayout)
	}
	to := "..."
	if !r.End.IsZero() {
		// End is exclusive.
		to = r.End.Add(-time.Nanosecond).In(loc).Format(dayLayout)
	}
	return from + " - " + to
}

// buildTable selects and formats the rows of a report, newest first.
func (s *DefaultReportService) buildTable(ctx context.Context, req GenerateRequest) (*table, error) {
	q := sessionRepo.Query{}
	if req.DateRange != nil {
		q.From = req.DateRange.Start
		q.To = req.DateRange.End
	}
	switch req.Type {
	case models.ReportFeedback:
		q.WithData = true
		q.EmployeeID = req.EmployeeID
	case models.ReportPharmacyRatings:
		q.HasPharmacyRating = true
	case models.ReportEmployeeRatings:
		q.HasEmployeeRatings = true
		q.EmployeeID = req.EmployeeID
	case models.ReportSuggestions:
		q.HasSuggestion = true
	}

	sessions, err := s.Sessions.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to select report rows: %w", err)
	}

	t := &table{Title: titles[req.Type], Period: s.period(req.DateRange)}
	switch req.Type {
	case models.ReportFeedback:
		s.feedbackRows(ctx, t, filterByPharmacyRating(sessions, req.Sentiment))
	case models.ReportPharmacyRatings:
		s.pharmacyRows(t, filterByPharmacyRating(sessions, req.Sentiment))
	case models.ReportEmployeeRatings:
		s.employeeRows(ctx, t, sessions, req.EmployeeID, req.Sentiment)
	case models.ReportSuggestions:
		s.suggestionRows(t, filterByPharmacyRating(sessions, req.Sentiment))
	case models.ReportClientContacts:
		s.contactRows(t, filterByPharmacyRating(sessions, req.Sentiment))
	case models.ReportSummary:
		s.summaryRows(t, sessions)
	default:
		return nil, ErrInvalidReportType
	}
	return t, nil
}

func filterByPharmacyRating(sessions []models.FeedbackSession, sentiment Sentiment) []models.FeedbackSession {
	if sentiment == SentimentAny {
		return sessions
	}
	out := make([]models.FeedbackSession, 0, len(sessions))
	for _, sess := range sessions {
		if sentiment.matches(sess.PharmacyRating) {
			out = append(out, sess)
		}
	}
	return out
}

// names resolves employee ids to display names; unknown ids map to themselves.
func (s *DefaultReportService) names(ctx context.Context) map[string]models.EmployeeView {
	index := make(map[string]models.EmployeeView)
	if s.Directory == nil {
		return index
	}
	employees, err := s.Directory.ListEmployees(ctx, false)
	if err != nil {
		s.logger().Warn("Failed to load employee directory for report", zap.Error(err))
		return index
	}
	for _, e := range employees {
		index[e.ID] = e
	}
	return index
}

func displayName(index map[string]models.EmployeeView, id string) string {
	if e, ok := index[id]; ok && e.FullName() != "" {
		return e.FullName()
	}
	return id
}

func (s *DefaultReportService) feedbackRows(ctx context.Context, t *table, sessions []models.FeedbackSession) {
	t.Columns = []column{
		{"Date", 1.2}, {"Kiosk", 1}, {"Pharmacy", 0.7}, {"Employees", 2}, {"Suggestion", 2.5}, {"Status", 0.9},
	}
	index := s.names(ctx)
	for _, sess := range sessions {
		ratings := make([]string, 0, len(sess.EmployeeRatings))
		for _, r := range sess.EmployeeRatings {
			rating := r.Rating
			ratings = append(ratings, displayName(index, r.EmployeeID)+" "+formatRating(&rating))
		}
		suggestion := ""
		if sess.Suggestion != nil {
			suggestion = *sess.Suggestion
		}
		t.Rows = append(t.Rows, []string{
			s.formatDate(sess.LastActiveAt),
			orMissing(sess.DeviceID),
			formatRating(sess.PharmacyRating),
			orMissing(strings.Join(ratings, ", ")),
			orMissing(suggestion),
			string(sess.Status),
		})
	}

	sum := stats.Summarize(sessions)
	t.Summary = []summaryLine{
		{"Feedbacks", strconv.Itoa(sum.Feedbacks)},
		{"Average pharmacy rating", formatAverage(sum.AverageRating)},
		{"Satisfaction rate", formatPercent(sum.SatisfactionRate)},
		{"Employee ratings", strconv.Itoa(sum.EmployeeRatings)},
		{"Average employee rating", formatAverage(sum.EmployeeAverage)},
		{"Suggestions", strconv.Itoa(sum.Suggestions)},
	}
}

func (s *DefaultReportService) pharmacyRows(t *table, sessions []models.FeedbackSession) {
	t.Columns = []column{{"Date", 1.2}, {"Kiosk", 1}, {"Rating", 0.7}, {"Status", 0.9}}
	for _, sess := range sessions {
		t.Rows = append(t.Rows, []string{
			s.formatDate(sess.LastActiveAt),
			orMissing(sess.DeviceID),
			formatRating(sess.PharmacyRating),
			string(sess.Status),
		})
	}

	sum := stats.Summarize(sessions)
	t.Summary = []summaryLine{
		{"Ratings", strconv.Itoa(sum.RatedSessions)},
		{"Average rating", formatAverage(sum.AverageRating)},
		{"Satisfaction rate", formatPercent(sum.SatisfactionRate)},
	}
	for star := len(sum.Stars); star >= 1; star-- {
		t.Summary = append(t.Summary, summaryLine{
			Label: fmt.Sprintf("%d star", star) + plural(star),
			Value: strconv.Itoa(int(sum.Stars[star-1])),
		})
	}
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

func (s *DefaultReportService) employeeRows(ctx context.Context, t *table, sessions []models.FeedbackSession, employeeID string, sentiment Sentiment) {
	t.Columns = []column{{"Date", 1.2}, {"Employee", 1.6}, {"Position", 1.2}, {"Rating", 0.7}, {"Comment", 2.5}}
	index := s.names(ctx)

	var sum, count float64
	rated := make(map[string]struct{})
	for _, sess := range sessions {
		for _, r := range sess.EmployeeRatings {
			if employeeID != "" && r.EmployeeID != employeeID {
				continue
			}
			rating := r.Rating
			if !sentiment.matches(&rating) {
				continue
			}
			t.Rows = append(t.Rows, []string{
				s.formatDate(sess.LastActiveAt),
				displayName(index, r.EmployeeID),
				orMissing(index[r.EmployeeID].PositionName),
				formatRating(&rating),
				orMissing(r.Comment),
			})
			sum += float64(rating)
			count++
			rated[r.EmployeeID] = struct{}{}
		}
	}

	avg := 0.0
	if count > 0 {
		avg = sum / count
	}
	t.Summary = []summaryLine{
		{"Ratings", strconv.Itoa(int(count))},
		{"Average rating", formatAverage(avg)},
		{"Employees rated", strconv.Itoa(len(rated))},
	}
}

func (s *DefaultReportService) suggestionRows(t *table, sessions []models.FeedbackSession) {
	t.Columns = []column{{"Date", 1.2}, {"Kiosk", 1}, {"Suggestion", 4}, {"Pharmacy", 0.7}}
	for _, sess := range sessions {
		if !sess.HasSuggestion() {
			continue
		}
		t.Rows = append(t.Rows, []string{
			s.formatDate(sess.LastActiveAt),
			orMissing(sess.DeviceID),
			strings.TrimSpace(*sess.Suggestion),
			formatRating(sess.PharmacyRating),
		})
	}
	t.Summary = []summaryLine{{"Suggestions", strconv.Itoa(len(t.Rows))}}
}

// contactRows lists clients who consented to be contacted.
func (s *DefaultReportService) contactRows(t *table, sessions []models.FeedbackSession) {
	t.Columns = []column{{"Date", 1.2}, {"First name", 1.2}, {"Last name", 1.2}, {"Email", 2}, {"Phone", 1.2}, {"Pharmacy", 0.7}}
	for _, sess := range sessions {
		c := sess.ClientData
		if c == nil || !c.Consent {
			continue
		}
		t.Rows = append(t.Rows, []string{
			s.formatDate(sess.LastActiveAt),
			orMissing(c.FirstName),
			orMissing(c.LastName),
			orMissing(c.Email),
			orMissing(c.Phone),
			formatRating(sess.PharmacyRating),
		})
	}
	t.Summary = []summaryLine{{"Contacts", strconv.Itoa(len(t.Rows))}}
}

func (s *DefaultReportService) summaryRows(t *table, sessions []models.FeedbackSession) {
	t.Columns = []column{{"Indicator", 2}, {"Value", 1}}
	sum := stats.Summarize(sessions)
	t.Rows = [][]string{
		{"Sessions started", strconv.Itoa(sum.Sessions)},
		{"Feedbacks received", strconv.Itoa(sum.Feedbacks)},
		{"Kiosks in use", strconv.Itoa(sum.Visitors)},
		{"Satisfaction rate", formatPercent(sum.SatisfactionRate)},
		{"Average pharmacy rating", formatAverage(sum.AverageRating)},
		{"Participation rate", formatPercent(sum.ParticipationRate)},
		{"Completion rate", formatPercent(sum.CompletionRate)},
		{"Employee ratings", strconv.Itoa(sum.EmployeeRatings)},
		{"Average employee rating", formatAverage(sum.EmployeeAverage)},
		{"Suggestions", strconv.Itoa(sum.Suggestions)},
	}
	for star := len(sum.Stars); star >= 1; star-- {
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%d star", star) + plural(star) + " ratings",
			strconv.Itoa(int(sum.Stars[star-1])),
		})
	}
	t.Summary = []summaryLine{{"Period", t.Period}}
}
