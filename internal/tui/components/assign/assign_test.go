package assign

import (
	"testing"

	"github.com/julianstephens/blockytime/internal/commit"
	"github.com/julianstephens/blockytime/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestVisible(t *testing.T) {
	types := []models.BlockType{
		{UID: 1, Name: "Sleep"},
		{UID: 2, Name: "Archived", Hidden: ptr(true)},
		{UID: 3, Name: "Work", Priority: ptr(5)},
		{UID: 4, Name: "Reading", Hidden: ptr(false)},
	}

	got := Visible(types)
	want := []int{3, 4, 1}
	if len(got) != len(want) {
		t.Fatalf("got %d types, want %d", len(got), len(want))
	}
	for i, uid := range want {
		if got[i].UID != uid {
			t.Errorf("position %d: got uid %d, want %d", i, got[i].UID, uid)
		}
	}
}

func TestResult(t *testing.T) {
	tests := []struct {
		name    string
		fm      FormModel
		want    commit.Assignment
		wantErr bool
	}{
		{"type only", FormModel{TypeUID: 3}, commit.Assignment{TypeUID: 3}, false},
		{"with project", FormModel{TypeUID: 3, Project: " 12 ", Comment: " focus "}, commit.Assignment{TypeUID: 3, ProjectUID: 12, Comment: "focus"}, false},
		{"missing type", FormModel{}, commit.Assignment{}, true},
		{"bad project", FormModel{TypeUID: 3, Project: "abc"}, commit.Assignment{}, true},
		{"negative project", FormModel{TypeUID: 3, Project: "-1"}, commit.Assignment{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fm.Result()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Result() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Result() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewFormDefaultsToFirstVisibleType(t *testing.T) {
	fm := &FormModel{}
	form := NewForm(fm, []models.BlockType{
		{UID: 2, Name: "Archived", Hidden: ptr(true)},
		{UID: 7, Name: "Work"},
	}, 4)

	if form == nil {
		t.Fatal("expected a form")
	}
	if fm.TypeUID != 7 {
		t.Errorf("default type = %d, want 7", fm.TypeUID)
	}
}
