package stats

import (
	"context"

	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"

	"go.uber.org/zap"
)

// summaries reduces the current and comparison windows of frame. ok is false
// when the current window could not be loaded; a failed comparison load only
// zeroes the baseline.
func (s *DefaultStatsService) summaries(ctx context.Context, op string, frame TimeFrame) (cur, prev Summary, compare, ok bool) {
	curWin, prevWin, compare := s.windows(frame)

	sessions, ok := s.load(ctx, op, curWin, sessionRepo.Query{})
	if !ok {
		return Summary{}, Summary{}, false, false
	}
	cur = Summarize(sessions)

	if compare {
		previous, loaded := s.load(ctx, op, prevWin, sessionRepo.Query{})
		if loaded {
			prev = Summarize(previous)
		} else {
			s.logger().Warn("Comparison window unavailable, using zero baseline",
				zap.String("op", op),
				zap.String("frame", string(frame)),
			)
		}
	}
	return cur, prev, compare, true
}

// ParticipationRate is the share of kiosks that left any feedback, clamped to
// [0, 100].
func (s *DefaultStatsService) ParticipationRate(ctx context.Context, frame TimeFrame) models.KPI {
	const op = "participation"
	var out models.KPI
	if s.fromCache(ctx, op, frame, &out) {
		return out
	}
	cur, prev, compare, ok := s.summaries(ctx, op, frame)
	if !ok {
		return models.KPI{}
	}
	out = newKPI(cur.ParticipationRate, prev.ParticipationRate, prev.Visitors, compare)
	s.toCache(ctx, op, frame, out)
	return out
}

// CompletionRate is completed sessions over started sessions.
func (s *DefaultStatsService) CompletionRate(ctx context.Context, frame TimeFrame) models.KPI {
	const op = "completion"
	var out models.KPI
	if s.fromCache(ctx, op, frame, &out) {
		return out
	}
	cur, prev, compare, ok := s.summaries(ctx, op, frame)
	if !ok {
		return models.KPI{}
	}
	out = newKPI(cur.CompletionRate, prev.CompletionRate, prev.Sessions, compare)
	s.toCache(ctx, op, frame, out)
	return out
}

func (s *DefaultStatsService) DashboardKPIs(ctx context.Context, frame TimeFrame) models.DashboardKPIs {
	const op = "kpis"
	out := models.DashboardKPIs{Frame: string(frame)}
	if s.fromCache(ctx, op, frame, &out) {
		return out
	}
	cur, prev, compare, ok := s.summaries(ctx, op, frame)
	if !ok {
		return out
	}

	out.SatisfactionRate = newKPI(cur.SatisfactionRate, prev.SatisfactionRate, prev.RatedSessions, compare)
	out.AverageRating = newKPI(cur.AverageRating, prev.AverageRating, prev.RatedSessions, compare)
	out.Visitors = newKPI(float64(cur.Visitors), float64(prev.Visitors), prev.Sessions, compare)
	out.ParticipationRate = newKPI(cur.ParticipationRate, prev.ParticipationRate, prev.Visitors, compare)
	out.CompletionRate = newKPI(cur.CompletionRate, prev.CompletionRate, prev.Sessions, compare)
	out.EmployeeAverage = newKPI(cur.EmployeeAverage, prev.EmployeeAverage, prev.EmployeeRatings, compare)
	out.TotalFeedbacks = newKPI(float64(cur.Feedbacks), float64(prev.Feedbacks), prev.Sessions, compare)

	s.toCache(ctx, op, frame, out)
	return out
}
