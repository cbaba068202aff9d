package stats

import (
	"context"

	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"
)

// SatisfactionRate is the per-bucket share of rated sessions scoring 4 or 5.
func (s *DefaultStatsService) SatisfactionRate(ctx context.Context, frame TimeFrame) models.Series {
	const op = "satisfaction"
	var out models.Series
	if s.fromCache(ctx, op, frame, &out) {
		return out
	}

	cur, _, _ := s.windows(frame)
	b := s.bucketsOf(ctx, cur)
	out = models.Series{Labels: b.labelCopy(), Data: b.zero()}

	sessions, ok := s.load(ctx, op, cur, sessionRepo.Query{HasPharmacyRating: true})
	if !ok {
		return out
	}

	rated, satisfied := b.zero(), b.zero()
	for _, sess := range sessions {
		i, in := b.of(sess.LastActiveAt)
		if !in || sess.PharmacyRating == nil {
			continue
		}
		rated[i]++
		if *sess.PharmacyRating >= satisfiedFrom {
			satisfied[i]++
		}
	}
	for i := range out.Data {
		out.Data[i] = percent(satisfied[i], rated[i])
	}

	s.toCache(ctx, op, frame, out)
	return out
}

// AverageRating is the per-bucket mean pharmacy rating.
func (s *DefaultStatsService) AverageRating(ctx context.Context, frame TimeFrame) models.Series {
	const op = "average-rating"
	var out models.Series
	if s.fromCache(ctx, op, frame, &out) {
		return out
	}

	cur, _, _ := s.windows(frame)
	b := s.bucketsOf(ctx, cur)
	out = models.Series{Labels: b.labelCopy(), Data: b.zero()}

	sessions, ok := s.load(ctx, op, cur, sessionRepo.Query{HasPharmacyRating: true})
	if !ok {
		return out
	}

	sum, count := b.zero(), b.zero()
	for _, sess := range sessions {
		i, in := b.of(sess.LastActiveAt)
		if !in || sess.PharmacyRating == nil {
			continue
		}
		sum[i] += float64(*sess.PharmacyRating)
		count[i]++
	}
	for i := range out.Data {
		out.Data[i] = average(sum[i], count[i])
	}

	s.toCache(ctx, op, frame, out)
	return out
}

// StarRatingDistribution counts pharmacy ratings per star over the whole window.
func (s *DefaultStatsService) StarRatingDistribution(ctx context.Context, frame TimeFrame) models.Series {
	const op = "distribution"
	var out models.Series
	if s.fromCache(ctx, op, frame, &out) {
		return out
	}

	out = models.Series{Labels: append([]string{}, starLabels...), Data: make([]float64, len(starLabels))}
	cur, _, _ := s.windows(frame)
	sessions, ok := s.load(ctx, op, cur, sessionRepo.Query{HasPharmacyRating: true})
	if !ok {
		return out
	}
	out.Data = starCounts(sessions)

	s.toCache(ctx, op, frame, out)
	return out
}

// VisitorCount is the number of distinct kiosks seen per bucket.
func (s *DefaultStatsService) VisitorCount(ctx context.Context, frame TimeFrame) models.Series {
	const op = "visitors"
	var out models.Series
	if s.fromCache(ctx, op, frame, &out) {
		return out
	}

	cur, _, _ := s.windows(frame)
	b := s.bucketsOf(ctx, cur)
	out = models.Series{Labels: b.labelCopy(), Data: b.zero()}

	sessions, ok := s.load(ctx, op, cur, sessionRepo.Query{})
	if !ok {
		return out
	}

	seen := make([]map[string]struct{}, len(b.labels))
	for _, sess := range sessions {
		i, in := b.of(sess.LastActiveAt)
		if !in {
			continue
		}
		if seen[i] == nil {
			seen[i] = make(map[string]struct{})
		}
		seen[i][sess.DeviceID] = struct{}{}
	}
	for i := range out.Data {
		out.Data[i] = float64(len(seen[i]))
	}

	s.toCache(ctx, op, frame, out)
	return out
}

// FeedbackByTimeOfDay counts sessions with feedback per two-hour slot between
// 8h and 20h, local time.
func (s *DefaultStatsService) FeedbackByTimeOfDay(ctx context.Context, frame TimeFrame) models.Series {
	const op = "time-of-day"
	var out models.Series
	if s.fromCache(ctx, op, frame, &out) {
		return out
	}

	out = models.Series{Labels: append([]string{}, timeOfDayLabels...), Data: make([]float64, len(timeOfDayLabels))}
	cur, _, _ := s.windows(frame)
	sessions, ok := s.load(ctx, op, cur, sessionRepo.Query{WithData: true})
	if !ok {
		return out
	}

	loc := s.location()
	for _, sess := range sessions {
		if slot, in := timeOfDaySlot(sess.LastActiveAt.In(loc).Hour()); in {
			out.Data[slot]++
		}
	}

	s.toCache(ctx, op, frame, out)
	return out
}

// RecentFeedback returns the latest sessions carrying feedback, newest first.
func (s *DefaultStatsService) RecentFeedback(ctx context.Context, limit int) []models.FeedbackSession {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	sessions, ok := s.load(ctx, "recent", Window{}, sessionRepo.Query{WithData: true, Limit: int64(limit)})
	if !ok || sessions == nil {
		return []models.FeedbackSession{}
	}
	return sessions
}
