package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/blockytime/internal/api"
	"github.com/julianstephens/blockytime/internal/blockcache"
	"github.com/julianstephens/blockytime/internal/config"
	"github.com/julianstephens/blockytime/internal/keyring"
	"github.com/julianstephens/blockytime/internal/printers"
)

// fakeServer answers the read endpoints with fixed data and records writes.
type fakeServer struct {
	mu       sync.Mutex
	updates  [][]map[string]any
	queries  map[string]string
	failWith int
}

func (s *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries[r.URL.Path] = r.URL.RawQuery

	if s.failWith != 0 {
		w.WriteHeader(s.failWith)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": nil, "error": "boom"})
		return
	}

	var data any
	switch r.URL.Path {
	case "/api/v1/blocks":
		if r.Method == http.MethodPut {
			var items []map[string]any
			_ = json.NewDecoder(r.Body).Decode(&items)
			s.updates = append(s.updates, items)
			break
		}
		data = []map[string]any{
			{"date": 1704103200, "type_": map[string]any{"uid": 3, "name": "Work"}, "comment": "standup"},
		}
	case "/api/v1/configs":
		data = map[string]any{"mainTimePrecision": 2, "disablePixelate": false, "specialTimePeriod": [][]int{}}
	case "/api/v1/types":
		data = []map[string]any{
			{"uid": 3, "category_uid": 1, "name": "Work", "color": 16711680},
			{"uid": 4, "category_uid": 1, "name": "Archived", "hidden": true},
		}
	case "/api/v1/stats":
		data = []map[string]any{{"type": map[string]any{"uid": 3, "name": "Work"}, "duration": 1.5}}
	case "/api/v1/trends":
		data = []map[string]any{{"type": map[string]any{"uid": 3, "name": "Work"}, "items": []map[string]any{{"duration": 1.5, "timeLabel": "2024-01-01"}}}}
	case "/api/v1/sleep/stats":
		_ = json.NewEncoder(w).Encode(map[string]any{
			"start_moving_avg": []float64{23.5}, "end_moving_avg": []float64{7.25},
			"duration_moving_avg": []float64{7.75}, "moving_avg_dates": []string{"2024-01-01"},
		})
		return
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "error": nil})
}

func (s *fakeServer) batches() [][]map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

func (s *fakeServer) query(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[path]
}

func setupTestContext(t *testing.T) (*Context, *fakeServer, *bytes.Buffer) {
	t.Helper()
	fake := &fakeServer{queries: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	ctx := &Context{
		Config: &config.Config{
			APIURL:    srv.URL,
			Timeout:   2 * time.Second,
			CacheTTL:  time.Second,
			LongPress: 200 * time.Millisecond,
			Timezone:  "UTC",
			Days:      3,
			ConfigDir: t.TempDir(),
		},
		Client:      client,
		Cache:       blockcache.New(client),
		Location:    time.UTC,
		Printer:     &printers.Printer{Out: out},
		TokenSource: keyring.SourceNone,
		Now:         func() time.Time { return time.Date(2024, 1, 3, 10, 20, 0, 0, time.UTC) },
	}
	return ctx, fake, out
}

func TestResolveDate(t *testing.T) {
	ctx, _, _ := setupTestContext(t)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "2024-01-03", false},
		{"today", "2024-01-03", false},
		{"Yesterday", "2024-01-02", false},
		{"2023-12-31", "2023-12-31", false},
		{"2023-13-01", "", true},
		{"tomorrow", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ctx.ResolveDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveRange(t *testing.T) {
	ctx, _, _ := setupTestContext(t)

	start, end, err := ctx.ResolveRange("yesterday", "")
	if err != nil || start != "2024-01-02" || end != "2024-01-02" {
		t.Errorf("ResolveRange(yesterday) = %s, %s, %v", start, end, err)
	}
	if _, _, err := ctx.ResolveRange("2024-01-03", "2024-01-01"); err == nil {
		t.Error("reversed range should fail")
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-01-01-10-15", "2024-01-01-10-15", false},
		{"2024-01-01 10:15", "2024-01-01-10-15", false},
		{" 2024-01-01 09:00 ", "2024-01-01-9-0", false},
		{"2024-01-01 10:20", "", true},
		{"2024-01-01-10-20", "", true},
		{"10:15", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCell(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCell(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got.Key() != tt.want {
				t.Errorf("ParseCell(%q) = %s, want %s", tt.in, got.Key(), tt.want)
			}
		})
	}
}
