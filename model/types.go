// Package model defines the core data structures for matchday.
package model

import (
	"encoding/json"
	"errors"
	"time"
)

// Event represents a scheduled fixture.
type Event struct {
	ID       string `json:"_id"`
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	Date     string `json:"date,omitempty"`
	Venue    string `json:"venue,omitempty"`
	KickOff  string `json:"kickOff,omitempty"`
	Matchday int    `json:"matchday,omitempty"`
}

// StartTime parses the nominal start instant.
func (e *Event) StartTime() (time.Time, bool) {
	return ParseInstant(e.Date)
}

// IsPast returns true if the event starts at or before now.
// Events with an unparsable start are never past.
func (e *Event) IsPast(now time.Time) bool {
	start, ok := e.StartTime()
	if !ok {
		return false
	}
	return !start.After(now)
}

// KickOffLabel returns the display kick-off time.
func (e *Event) KickOffLabel() string {
	if e.KickOff != "" {
		return e.KickOff
	}
	if start, ok := e.StartTime(); ok {
		return start.Format("15:04")
	}
	return TBD
}

// DateLabel returns the display date, e.g. "SAT 7 MAR".
func (e *Event) DateLabel() string {
	return DateLabel(e.Date)
}

// VenueLabel returns the venue or TBD.
func (e *Event) VenueLabel() string {
	if e.Venue == "" {
		return TBD
	}
	return e.Venue
}

// Result represents a played match.
type Result struct {
	ID        string `json:"_id"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
	Date      string `json:"date,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	Report    string `json:"report,omitempty"`
}

// Validate checks the outcome is one of the known values.
func (r *Result) Validate() error {
	switch r.Outcome {
	case "", "win", "draw", "loss":
		return nil
	}
	return errors.New("result outcome must be win, draw or loss")
}

// ReplayItem is a previously broadcast match that can be replayed.
type ReplayItem struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	VideoURL string `json:"videoUrl"`
	Date     string `json:"date,omitempty"`
}

// Published parses the publish date.
func (r *ReplayItem) Published() (time.Time, bool) {
	return ParseInstant(r.Date)
}

// LiveStream is the singleton live broadcast document.
type LiveStream struct {
	IsLive     bool   `json:"isLive"`
	YouTubeURL string `json:"youtubeUrl,omitempty"`
	MatchTitle string `json:"matchTitle,omitempty"`
}

// Standing is a single league table row.
type Standing struct {
	Position int    `json:"position"`
	Team     string `json:"team"`
	Played   int    `json:"played"`
	Won      int    `json:"won"`
	Drawn    int    `json:"drawn"`
	Lost     int    `json:"lost"`
	GF       int    `json:"gf"`
	GA       int    `json:"ga"`
	Points   int    `json:"points"`
	IsSkyy   bool   `json:"isSkyy,omitempty"`
}

// GoalDifference returns goals for minus goals against.
func (s *Standing) GoalDifference() int {
	return s.GF - s.GA
}

// Story is a news article.
type Story struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	Date     string `json:"date,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
	Author   string `json:"author,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}

// Player is a squad member.
type Player struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Number      int    `json:"number,omitempty"`
	Category    string `json:"category,omitempty"`
	Position    string `json:"position,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	IsCaptain   bool   `json:"isCaptain,omitempty"`
}

// Album is a photo gallery album. Images are counted, not carried.
type Album struct {
	ID         string   `json:"_id"`
	Title      string   `json:"title"`
	Date       string   `json:"date,omitempty"`
	Matchday   int      `json:"matchday,omitempty"`
	Category   string   `json:"category,omitempty"`
	ImageCount int      `json:"imageCount"`
	Captions   []string `json:"captions,omitempty"`
}

var albumCategories = map[string]string{
	"highlights": "Match Highlights",
	"training":   "Training",
	"bts":        "Behind the Scenes",
	"fans":       "Fan Zone",
	"other":      "Other",
}

// CategoryLabel returns the display name of the category. Unknown
// categories are shown as stored.
func (a *Album) CategoryLabel() string {
	if label, ok := albumCategories[a.Category]; ok {
		return label
	}
	return a.Category
}

// Document is a projected content record as held by the local store.
type Document struct {
	ID   string          `json:"_id"`
	Type string          `json:"_type"`
	Body json.RawMessage `json:"-"`
}

// Validate checks if the document has required fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return errors.New("document _id is required")
	}
	if d.Type == "" {
		return errors.New("document _type is required")
	}
	if len(d.Body) == 0 {
		return errors.New("document body is empty")
	}
	return nil
}

// Field decodes a top-level field of the body into v.
// Returns false if the field is absent or null.
func (d *Document) Field(name string, v any) (bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(d.Body, &fields); err != nil {
		return false, err
	}
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}
