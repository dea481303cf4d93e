package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julianstephens/blockytime/internal/models"
)

// GetStats returns per-type durations for the query.
func (c *Client) GetStats(ctx context.Context, q models.StatsQuery) ([]models.TypeDuration, error) {
	var stats []models.TypeDuration
	if err := c.call(ctx, http.MethodGet, "/stats", statsValues(q), nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func statsValues(q models.StatsQuery) url.Values {
	v := dateRange(q.StartDate, q.EndDate)
	setInt(v, "time_slot_minutes", q.TimeSlotMinutes)
	setInt(v, "hour", q.Hour)
	setInt(v, "minute", q.Minute)
	setInt(v, "day_of_week", q.DayOfWeek)
	for _, uid := range q.TypeUIDs {
		v.Add("type_uid", strconv.Itoa(uid))
	}
	return v
}

func setInt(v url.Values, key string, p *int) {
	if p != nil {
		v.Set(key, strconv.Itoa(*p))
	}
}

// GetTrends returns one series per type bucketed by groupBy.
func (c *Client) GetTrends(ctx context.Context, start, end string, groupBy models.GroupBy) ([]models.TrendSeries, error) {
	v := dateRange(start, end)
	v.Set("group_by", string(groupBy))

	var series []models.TrendSeries
	if err := c.call(ctx, http.MethodGet, "/trends", v, nil, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// GetSleepStats fetches the server's sleep regression. This endpoint is not
// enveloped.
func (c *Client) GetSleepStats(ctx context.Context, q models.SleepQuery) (models.SleepStats, error) {
	v := dateRange(q.StartDate, q.EndDate)
	if q.DecayFactor != nil {
		v.Set("decay_factor", strconv.FormatFloat(*q.DecayFactor, 'f', -1, 64))
	}
	setInt(v, "window_size", q.WindowSize)

	raw, _, err := c.do(ctx, http.MethodGet, "/sleep/stats", v, nil)
	if err != nil {
		return models.SleepStats{}, err
	}

	var stats models.SleepStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return models.SleepStats{}, fmt.Errorf("%s /sleep/stats: decoding response: %w", http.MethodGet, err)
	}
	return stats, nil
}
