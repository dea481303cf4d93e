package models

import "fmt"

// TypeDuration is one slice of a statistics breakdown.
type TypeDuration struct {
	Type     BlockType `json:"type"`
	Duration float64   `json:"duration"`
}

// GroupBy selects the trend bucket size.
type GroupBy string

const (
	GroupByDay   GroupBy = "DAY"
	GroupByWeek  GroupBy = "WEEK"
	GroupByMonth GroupBy = "MONTH"
)

// ParseGroupBy validates a group-by value.
func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(s); g {
	case GroupByDay, GroupByWeek, GroupByMonth:
		return g, nil
	default:
		return "", fmt.Errorf("invalid group_by %q (want DAY, WEEK or MONTH)", s)
	}
}

// TrendItem is one bucket of a trend series.
type TrendItem struct {
	Duration  float64 `json:"duration"`
	TimeLabel string  `json:"timeLabel"`
}

// TrendSeries is the trend of a single type.
type TrendSeries struct {
	Type  BlockType   `json:"type"`
	Items []TrendItem `json:"items"`
}

// Total sums the durations of every bucket.
func (s TrendSeries) Total() float64 {
	var total float64
	for _, item := range s.Items {
		total += item.Duration
	}
	return total
}

// StatsQuery filters a statistics request. Nil pointers are omitted.
type StatsQuery struct {
	StartDate       string
	EndDate         string
	TimeSlotMinutes *int
	Hour            *int
	Minute          *int
	DayOfWeek       *int
	TypeUIDs        []int
}

// SleepQuery parameterises the server-side sleep regression.
type SleepQuery struct {
	StartDate   string
	EndDate     string
	DecayFactor *float64
	WindowSize  *int
}

// SleepStats holds the server-computed sleep moving averages.
type SleepStats struct {
	StartMovingAvg    []float64 `json:"start_moving_avg"`
	EndMovingAvg      []float64 `json:"end_moving_avg"`
	DurationMovingAvg []float64 `json:"duration_moving_avg"`
	MovingAvgDates    []string  `json:"moving_avg_dates"`
	StartHours        []float64 `json:"start_hours"`
	EndHours          []float64 `json:"end_hours"`
}
