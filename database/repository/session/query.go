package sessionRepo

import (
	"time"

	"pharmakiosk/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Query selects sessions by activity window and content. Zero values do not filter.
// Results are always ordered by lastActiveAt, newest first.
type Query struct {
	From               time.Time // lastActiveAt >= From
	To                 time.Time // lastActiveAt < To
	HasPharmacyRating  bool
	HasEmployeeRatings bool
	HasSuggestion      bool
	WithData           bool // any rating or suggestion
	Statuses           []models.SessionStatus
	DeviceID           string
	EmployeeID         string
	Limit              int64
}

// Filter builds the MongoDB filter for q.
func (q Query) Filter() bson.M {
	filter := bson.M{}

	window := bson.M{}
	if !q.From.IsZero() {
		window["$gte"] = q.From
	}
	if !q.To.IsZero() {
		window["$lt"] = q.To
	}
	if len(window) > 0 {
		filter["lastActiveAt"] = window
	}

	if q.HasPharmacyRating {
		filter["pharmacyRating"] = bson.M{"$exists": true, "$ne": nil}
	}
	if q.HasEmployeeRatings {
		filter["employeeRatings.0"] = bson.M{"$exists": true}
	}
	if q.HasSuggestion {
		filter["suggestion"] = bson.M{"$exists": true, "$nin": bson.A{nil, ""}}
	}
	if q.WithData {
		filter["$or"] = bson.A{
			bson.M{"pharmacyRating": bson.M{"$exists": true, "$ne": nil}},
			bson.M{"employeeRatings.0": bson.M{"$exists": true}},
			bson.M{"suggestion": bson.M{"$exists": true, "$nin": bson.A{nil, ""}}},
		}
	}
	if len(q.Statuses) > 0 {
		filter["status"] = bson.M{"$in": q.Statuses}
	}
	if q.DeviceID != "" {
		filter["deviceId"] = q.DeviceID
	}
	if q.EmployeeID != "" {
		filter["employeeRatings.employeeId"] = q.EmployeeID
	}
	return filter
}

// Matches applies the same selection as Filter to an in-memory session.
func (q Query) Matches(s *models.FeedbackSession) bool {
	if !q.From.IsZero() && s.LastActiveAt.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && !s.LastActiveAt.Before(q.To) {
		return false
	}
	if q.HasPharmacyRating && s.PharmacyRating == nil {
		return false
	}
	if q.HasEmployeeRatings && len(s.EmployeeRatings) == 0 {
		return false
	}
	if q.HasSuggestion && (s.Suggestion == nil || *s.Suggestion == "") {
		return false
	}
	if q.WithData && s.PharmacyRating == nil && len(s.EmployeeRatings) == 0 &&
		(s.Suggestion == nil || *s.Suggestion == "") {
		return false
	}
	if len(q.Statuses) > 0 {
		found := false
		for _, st := range q.Statuses {
			if s.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.DeviceID != "" && s.DeviceID != q.DeviceID {
		return false
	}
	if q.EmployeeID != "" {
		found := false
		for _, r := range s.EmployeeRatings {
			if r.EmployeeID == q.EmployeeID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
