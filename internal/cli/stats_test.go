package cli

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypesCmdHidesHidden(t *testing.T) {
	ctx, _, out := setupTestContext(t)

	require.NoError(t, (&TypesCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Work")
	assert.NotContains(t, out.String(), "Archived")

	out.Reset()
	require.NoError(t, (&TypesCmd{All: true}).Run(ctx))
	assert.Contains(t, out.String(), "Archived")
}

func TestStatsCmdQuery(t *testing.T) {
	ctx, fake, out := setupTestContext(t)

	cmd := &StatsCmd{
		DateWindow: DateWindow{Days: 7},
		Types:      []int{3, 4},
		Slot:       -1,
		Hour:       9,
		Minute:     -1,
		Weekday:    -1,
	}
	require.NoError(t, cmd.Run(ctx))

	q, err := url.ParseQuery(fake.query("/api/v1/stats"))
	require.NoError(t, err)
	assert.Equal(t, "2023-12-28", q.Get("start_date"))
	assert.Equal(t, "2024-01-03", q.Get("end_date"))
	assert.Equal(t, []string{"3", "4"}, q["type_uid"])
	assert.Equal(t, "9", q.Get("hour"))
	assert.NotContains(t, q, "minute")
	assert.NotContains(t, q, "day_of_week")
	assert.Contains(t, out.String(), "1.50h")
}

func TestStatsCmdValidatesFilters(t *testing.T) {
	ctx, _, _ := setupTestContext(t)

	cmd := &StatsCmd{Slot: -1, Hour: 24, Minute: -1, Weekday: -1}
	assert.Error(t, cmd.Run(ctx))
}

func TestTrendsCmd(t *testing.T) {
	ctx, fake, out := setupTestContext(t)

	cmd := &TrendsCmd{DateWindow: DateWindow{Start: "2024-01-01", End: "2024-01-02"}, GroupBy: "WEEK"}
	require.NoError(t, cmd.Run(ctx))

	q, err := url.ParseQuery(fake.query("/api/v1/trends"))
	require.NoError(t, err)
	assert.Equal(t, "WEEK", q.Get("group_by"))
	assert.Contains(t, out.String(), "2024-01-01")
}

func TestSleepCmd(t *testing.T) {
	ctx, fake, out := setupTestContext(t)

	cmd := &SleepCmd{DateWindow: DateWindow{Start: "2024-01-01"}, Decay: 0.1, Window: 7}
	require.NoError(t, cmd.Run(ctx))

	q, err := url.ParseQuery(fake.query("/api/v1/sleep/stats"))
	require.NoError(t, err)
	assert.Equal(t, "0.1", q.Get("decay_factor"))
	assert.Equal(t, "7", q.Get("window_size"))
	assert.Contains(t, out.String(), "23:30")
}

func TestServerConfigCmd(t *testing.T) {
	ctx, _, out := setupTestContext(t)

	require.NoError(t, (&ServerConfigCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "QUARTER_HOUR")
}
