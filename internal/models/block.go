package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Ref is a sparse reference to a server-owned entity.
type Ref struct {
	UID int `json:"uid"`
}

// BlockType is an activity type. Color is a decimal RGB value.
type BlockType struct {
	UID         int    `json:"uid"`
	CategoryUID int    `json:"category_uid"`
	Name        string `json:"name"`
	Color       *int   `json:"color,omitempty"`
	Hidden      *bool  `json:"hidden,omitempty"`
	Priority    *int   `json:"priority,omitempty"`
}

// Hex renders Color as #rrggbb, or "" when the type has no colour.
func (t BlockType) Hex() string {
	if t.Color == nil {
		return ""
	}
	return fmt.Sprintf("#%06x", *t.Color&0xffffff)
}

// Project groups blocks across types.
type Project struct {
	UID         int    `json:"uid"`
	Name        string `json:"name"`
	Abbr        string `json:"abbr"`
	Acronym     string `json:"acronym"`
	Latin       string `json:"latin"`
	Hidden      *bool  `json:"hidden,omitempty"`
	ClassifyUID int    `json:"classify_uid"`
	Taglist     string `json:"taglist"`
	Priority    *int   `json:"priority,omitempty"`
}

// Block is one persisted quarter-hour record. The server owns it; the client
// only reads it and sends sparse updates.
type Block struct {
	Date    int64      `json:"date"` // unix seconds on a quarter-hour boundary
	Type    *BlockType `json:"type_"`
	Project *Project   `json:"project"`
	Comment string     `json:"comment"`
}

// UnmarshalJSON accepts the type under either "type_" or "type", and a date
// given as unix seconds, a numeric string, or an RFC3339 timestamp.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date    json.RawMessage `json:"date"`
		TypeU   *BlockType      `json:"type_"`
		Type    *BlockType      `json:"type"`
		Project *Project        `json:"project"`
		Comment string          `json:"comment"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	date, err := parseBlockDate(raw.Date)
	if err != nil {
		return err
	}

	b.Date = date
	b.Type = raw.TypeU
	if b.Type == nil {
		b.Type = raw.Type
	}
	b.Project = raw.Project
	b.Comment = raw.Comment
	return nil
}

func parseBlockDate(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("block date is missing")
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		if i, err := num.Int64(); err == nil {
			return i, nil
		}
		f, err := num.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid block date %s: %w", raw, err)
		}
		return int64(f), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid block date %s", raw)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("invalid block date %q: %w", s, err)
	}
	return t.Unix(), nil
}

// TypeUID returns the block's type uid, or 0 if untyped.
func (b Block) TypeUID() int {
	if b.Type == nil {
		return 0
	}
	return b.Type.UID
}

// Operation is the kind of change carried by a BlockUpdate.
type Operation string

const (
	OperationUpsert Operation = "upsert"
	OperationDelete Operation = "delete"
)

// BlockUpdate is one item of a batch write.
type BlockUpdate struct {
	Date      int64     `json:"date"`
	Type      *Ref      `json:"type,omitempty"`
	Project   *Ref      `json:"project,omitempty"`
	Comment   string    `json:"comment"`
	Operation Operation `json:"operation"`
}

// MarshalJSON drops type and project from delete items.
func (u BlockUpdate) MarshalJSON() ([]byte, error) {
	type plain BlockUpdate
	if u.Operation == OperationDelete {
		return json.Marshal(struct {
			Date      int64     `json:"date"`
			Comment   string    `json:"comment"`
			Operation Operation `json:"operation"`
		}{u.Date, u.Comment, u.Operation})
	}
	return json.Marshal(plain(u))
}

// NewUpsert builds an upsert item. A zero uid leaves that field unset.
func NewUpsert(date int64, typeUID, projectUID int, comment string) BlockUpdate {
	u := BlockUpdate{Date: date, Comment: comment, Operation: OperationUpsert}
	if typeUID != 0 {
		u.Type = &Ref{UID: typeUID}
	}
	if projectUID != 0 {
		u.Project = &Ref{UID: projectUID}
	}
	return u
}

// NewDelete builds a delete item.
func NewDelete(date int64, comment string) BlockUpdate {
	return BlockUpdate{Date: date, Comment: comment, Operation: OperationDelete}
}
