package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestBlockUnmarshal(t *testing.T) {
	want := time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC).Unix()

	tests := []struct {
		name     string
		payload  string
		wantType int
		wantErr  bool
	}{
		{
			name:     "unix seconds with type_",
			payload:  `{"date": 1704104100, "type_": {"uid": 3, "name": "Work"}, "project": null, "comment": "x"}`,
			wantType: 3,
		},
		{
			name:     "numeric string with type",
			payload:  `{"date": "1704104100", "type": {"uid": 4}, "comment": ""}`,
			wantType: 4,
		},
		{
			name:    "rfc3339",
			payload: `{"date": "2024-01-01T10:15:00Z", "type_": null}`,
		},
		{
			name:    "missing date",
			payload: `{"type_": null}`,
			wantErr: true,
		},
		{
			name:    "garbage date",
			payload: `{"date": "yesterday"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Block
			err := json.Unmarshal([]byte(tt.payload), &b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if b.Date != want {
				t.Errorf("Date = %d, want %d", b.Date, want)
			}
			if b.TypeUID() != tt.wantType {
				t.Errorf("TypeUID() = %d, want %d", b.TypeUID(), tt.wantType)
			}
		})
	}
}

func TestBlockUpdateMarshal(t *testing.T) {
	upsert, err := json.Marshal(NewUpsert(100, 7, 0, "deep work"))
	if err != nil {
		t.Fatalf("Marshal(upsert) error = %v", err)
	}
	got := string(upsert)
	for _, part := range []string{`"date":100`, `"type":{"uid":7}`, `"comment":"deep work"`, `"operation":"upsert"`} {
		if !strings.Contains(got, part) {
			t.Errorf("upsert JSON %s missing %s", got, part)
		}
	}
	if strings.Contains(got, `"project"`) {
		t.Errorf("upsert JSON %s should omit an unset project", got)
	}

	del := NewDelete(200, "")
	del.Type = &Ref{UID: 9}
	raw, err := json.Marshal(del)
	if err != nil {
		t.Fatalf("Marshal(delete) error = %v", err)
	}
	if string(raw) != `{"date":200,"comment":"","operation":"delete"}` {
		t.Errorf("delete JSON = %s", raw)
	}
}

func TestBlockTypeHex(t *testing.T) {
	red := 16711680
	teal := 0x00807f
	tests := []struct {
		name string
		typ  BlockType
		want string
	}{
		{"no colour", BlockType{}, ""},
		{"red", BlockType{Color: &red}, "#ff0000"},
		{"leading zeros", BlockType{Color: &teal}, "#00807f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Hex(); got != tt.want {
				t.Errorf("Hex() = %q, want %q", got, tt.want)
			}
		})
	}
}
