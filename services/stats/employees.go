package stats

import (
	"context"
	"sort"

	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"

	"go.uber.org/zap"
)

const unassignedPosition = "Unassigned"

type ratingAcc struct {
	sum   float64
	count int
}

func (a *ratingAcc) add(r int) {
	a.sum += float64(r)
	a.count++
}

func (a ratingAcc) avg() float64 {
	return average(a.sum, float64(a.count))
}

// EmployeeRatingStats aggregates every employee rating of the window, overall,
// per bucket, per position and per employee.
func (s *DefaultStatsService) EmployeeRatingStats(ctx context.Context, frame TimeFrame) models.EmployeeStats {
	const op = "employees"
	var out models.EmployeeStats
	if s.fromCache(ctx, op, frame, &out) {
		return out
	}

	cur, _, _ := s.windows(frame)
	b := s.bucketsOf(ctx, cur)
	out = models.EmployeeStats{
		Trend:      models.Series{Labels: b.labelCopy(), Data: b.zero()},
		ByPosition: []models.PositionRating{},
		Ranking:    []models.EmployeeRatingSummary{},
	}

	sessions, ok := s.load(ctx, op, cur, sessionRepo.Query{HasEmployeeRatings: true})
	if !ok {
		return out
	}

	var total ratingAcc
	trend := make([]ratingAcc, len(b.labels))
	perEmployee := make(map[string]*ratingAcc)
	for _, sess := range sessions {
		i, in := b.of(sess.LastActiveAt)
		for _, r := range sess.EmployeeRatings {
			total.add(r.Rating)
			if in {
				trend[i].add(r.Rating)
			}
			acc, found := perEmployee[r.EmployeeID]
			if !found {
				acc = &ratingAcc{}
				perEmployee[r.EmployeeID] = acc
			}
			acc.add(r.Rating)
		}
	}

	out.Average = total.avg()
	out.Count = total.count
	for i := range trend {
		out.Trend.Data[i] = trend[i].avg()
	}

	directory := s.employeeDirectory(ctx)
	perPosition := make(map[string]*ratingAcc)
	positionNames := make(map[string]string)
	for id, acc := range perEmployee {
		summary := models.EmployeeRatingSummary{EmployeeID: id, Name: id, Average: acc.avg(), Count: acc.count}
		positionID := ""
		positionName := unassignedPosition
		if emp, found := directory[id]; found {
			summary.Name = emp.FullName()
			summary.PositionName = emp.PositionName
			if emp.PositionID != "" {
				positionID = emp.PositionID
				positionName = emp.PositionName
			}
		}
		out.Ranking = append(out.Ranking, summary)

		pos, found := perPosition[positionID]
		if !found {
			pos = &ratingAcc{}
			perPosition[positionID] = pos
			positionNames[positionID] = positionName
		}
		pos.sum += acc.sum
		pos.count += acc.count
	}

	sort.Slice(out.Ranking, func(i, j int) bool {
		x, y := out.Ranking[i], out.Ranking[j]
		if x.Average != y.Average {
			return x.Average > y.Average
		}
		if x.Count != y.Count {
			return x.Count > y.Count
		}
		return x.Name < y.Name
	})

	for id, acc := range perPosition {
		out.ByPosition = append(out.ByPosition, models.PositionRating{
			PositionID:   id,
			PositionName: positionNames[id],
			Average:      acc.avg(),
			Count:        acc.count,
		})
	}
	sort.Slice(out.ByPosition, func(i, j int) bool {
		return out.ByPosition[i].PositionName < out.ByPosition[j].PositionName
	})

	s.toCache(ctx, op, frame, out)
	return out
}

// employeeDirectory indexes all employees by id. Lookup failures degrade to
// unlabelled ids.
func (s *DefaultStatsService) employeeDirectory(ctx context.Context) map[string]models.EmployeeView {
	index := make(map[string]models.EmployeeView)
	if s.Directory == nil {
		return index
	}
	employees, err := s.Directory.ListEmployees(ctx, false)
	if err != nil {
		s.logger().Warn("Failed to load employee directory", zap.Error(err))
		return index
	}
	for _, e := range employees {
		index[e.ID] = e
	}
	return index
}
