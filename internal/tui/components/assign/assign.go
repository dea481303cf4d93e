// Package assign builds the form used to label the current selection.
package assign

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/blockytime/internal/commit"
	"github.com/julianstephens/blockytime/internal/models"
)

// FormModel holds the raw field values bound to the form.
type FormModel struct {
	TypeUID int
	Project string
	Comment string
}

// Result converts the bound values into an assignment.
func (fm *FormModel) Result() (commit.Assignment, error) {
	if fm.TypeUID <= 0 {
		return commit.Assignment{}, fmt.Errorf("a type is required")
	}
	project, err := parseProject(fm.Project)
	if err != nil {
		return commit.Assignment{}, err
	}
	return commit.Assignment{
		TypeUID:    fm.TypeUID,
		ProjectUID: project,
		Comment:    strings.TrimSpace(fm.Comment),
	}, nil
}

func parseProject(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	uid, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("project uid must be a number")
	}
	if uid < 0 {
		return 0, fmt.Errorf("project uid cannot be negative")
	}
	return uid, nil
}

// Visible returns the selectable types ordered by priority then name.
func Visible(types []models.BlockType) []models.BlockType {
	out := make([]models.BlockType, 0, len(types))
	for _, t := range types {
		if t.Hidden != nil && *t.Hidden {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := priority(out[i]), priority(out[j])
		if pi != pj {
			return pi > pj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func priority(t models.BlockType) int {
	if t.Priority == nil {
		return 0
	}
	return *t.Priority
}

// NewForm builds the assignment form for count selected cells.
func NewForm(fm *FormModel, types []models.BlockType, count int) *huh.Form {
	visible := Visible(types)
	opts := make([]huh.Option[int], 0, len(visible))
	for _, t := range visible {
		opts = append(opts, huh.NewOption(t.Name, t.UID))
	}
	if fm.TypeUID == 0 && len(visible) > 0 {
		fm.TypeUID = visible[0].UID
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(fmt.Sprintf("Type for %d block(s)", count)).
				Options(opts...).
				Value(&fm.TypeUID),
			huh.NewInput().
				Title("Project UID").
				Description("Leave empty for no project").
				Value(&fm.Project).
				Validate(func(s string) error {
					_, err := parseProject(s)
					return err
				}),
			huh.NewInput().
				Title("Comment").
				Value(&fm.Comment),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewConfirmForm asks before erasing count cells.
func NewConfirmForm(confirmed *bool, count int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Erase %d block(s)?", count)).
				Affirmative("Erase").
				Negative("Cancel").
				Value(confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
