package models

import (
	"encoding/json"
	"testing"
)

func TestPrecisionUnmarshal(t *testing.T) {
	tests := []struct {
		payload string
		want    Precision
		wantErr bool
	}{
		{`0`, PrecisionRough, false},
		{`1`, PrecisionHalfHour, false},
		{`2`, PrecisionQuarterHour, false},
		{`"HALF_HOUR"`, PrecisionHalfHour, false},
		{`"quarter_hour"`, PrecisionQuarterHour, false},
		{`"ROUGH"`, PrecisionRough, false},
		{`3`, 0, true},
		{`"MINUTE"`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			var p Precision
			err := json.Unmarshal([]byte(tt.payload), &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.payload, err, tt.wantErr)
			}
			if !tt.wantErr && p != tt.want {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.payload, p, tt.want)
			}
		})
	}
}

func TestServerConfigUnmarshal(t *testing.T) {
	payload := `{"mainTimePrecision": 1, "disablePixelate": true, "specialTimePeriod": [[22, 6], [12, 13]]}`
	var cfg ServerConfig
	if err := json.Unmarshal([]byte(payload), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !cfg.MainTimePrecision.IsHalfHour() {
		t.Errorf("MainTimePrecision = %v, want HALF_HOUR", cfg.MainTimePrecision)
	}
	if !cfg.DisablePixelate || len(cfg.SpecialTimePeriod) != 2 || cfg.SpecialTimePeriod[0] != [2]int{22, 6} {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestPrecisionCellMinutes(t *testing.T) {
	if PrecisionHalfHour.CellMinutes() != 30 {
		t.Error("half hour cells should be 30 minutes")
	}
	if PrecisionQuarterHour.CellMinutes() != 15 || PrecisionRough.CellMinutes() != 15 {
		t.Error("quarter and rough cells should be 15 minutes")
	}
}
