// File: models/stats.go
package models

// Series is a chart-ready pair of parallel label / value arrays.
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// KPI is a dashboard card value compared with the preceding window.
type KPI struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Delta    float64 `json:"delta"`
	Change   float64 `json:"change"` // percent change, 0 when previous is 0
}

type DashboardKPIs struct {
	Frame             string `json:"frame"`
	SatisfactionRate  KPI    `json:"satisfactionRate"`
	AverageRating     KPI    `json:"averageRating"`
	Visitors          KPI    `json:"visitors"`
	ParticipationRate KPI    `json:"participationRate"`
	CompletionRate    KPI    `json:"completionRate"`
	EmployeeAverage   KPI    `json:"employeeAverage"`
	TotalFeedbacks    KPI    `json:"totalFeedbacks"`
}

type PositionRating struct {
	PositionID   string  `json:"positionId"`
	PositionName string  `json:"positionName"`
	Average      float64 `json:"average"`
	Count        int     `json:"count"`
}

type EmployeeRatingSummary struct {
	EmployeeID   string  `json:"employeeId"`
	Name         string  `json:"name"`
	PositionName string  `json:"positionName,omitempty"`
	Average      float64 `json:"average"`
	Count        int     `json:"count"`
}

type EmployeeStats struct {
	Average    float64                 `json:"average"`
	Count      int                     `json:"count"`
	Trend      Series                  `json:"trend"`
	ByPosition []PositionRating        `json:"byPosition"`
	Ranking    []EmployeeRatingSummary `json:"ranking"`
}
