package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstant(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "rfc3339 utc",
			input:  "2026-03-07T15:00:00Z",
			want:   time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "rfc3339 with millis",
			input:  "2026-03-07T15:00:00.000Z",
			want:   time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "rfc3339 with offset",
			input:  "2026-03-07T15:00:00+01:00",
			want:   time.Date(2026, 3, 7, 14, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "no zone",
			input:  "2026-03-07T15:00",
			want:   time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "date only",
			input:  "2026-03-07",
			want:   time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{name: "empty", input: ""},
		{name: "garbage", input: "next saturday"},
		{name: "impossible date", input: "2026-02-30T10:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInstant(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestEvent_IsPast(t *testing.T) {
	now := time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)

	past := Event{Date: "2026-03-07T14:59:59Z"}
	exact := Event{Date: "2026-03-07T15:00:00Z"}
	future := Event{Date: "2026-03-07T15:00:01Z"}
	broken := Event{Date: "soon"}

	assert.True(t, past.IsPast(now))
	assert.True(t, exact.IsPast(now), "an event starting now is past")
	assert.False(t, future.IsPast(now))
	assert.False(t, broken.IsPast(now), "unparsable start is never past")
}

func TestEvent_Labels(t *testing.T) {
	e := Event{Date: "2026-03-07T15:30:00Z"}
	assert.Equal(t, "15:30", e.KickOffLabel())
	assert.Equal(t, "SAT 7 MAR", e.DateLabel())
	assert.Equal(t, TBD, e.VenueLabel())

	e.KickOff = "3:30 PM"
	e.Venue = "Nana Ameyaw Park"
	assert.Equal(t, "3:30 PM", e.KickOffLabel())
	assert.Equal(t, "Nana Ameyaw Park", e.VenueLabel())

	missing := Event{}
	assert.Equal(t, TBD, missing.KickOffLabel())
	assert.Equal(t, TBD, missing.DateLabel())
}

func TestResult_Validation(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
		wantErr bool
	}{
		{name: "win", outcome: "win"},
		{name: "draw", outcome: "draw"},
		{name: "loss", outcome: "loss"},
		{name: "unset", outcome: ""},
		{name: "unknown", outcome: "abandoned", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Result{Outcome: tt.outcome}
			if tt.wantErr {
				assert.Error(t, r.Validate())
			} else {
				assert.NoError(t, r.Validate())
			}
		})
	}
}

func TestStanding_GoalDifference(t *testing.T) {
	s := Standing{GF: 12, GA: 17}
	assert.Equal(t, -5, s.GoalDifference())
}

func TestAlbum_CategoryLabel(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"highlights", "Match Highlights"},
		{"bts", "Behind the Scenes"},
		{"fans", "Fan Zone"},
		{"youth", "youth"},
		{"", ""},
	}

	for _, tt := range tests {
		a := Album{Category: tt.category}
		assert.Equal(t, tt.want, a.CategoryLabel(), "category %q", tt.category)
	}
}

func TestDocument_Validation(t *testing.T) {
	valid := Document{ID: "fx-1", Type: "fixture", Body: json.RawMessage(`{"_id":"fx-1"}`)}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&Document{Type: "fixture", Body: valid.Body}).Validate())
	assert.Error(t, (&Document{ID: "fx-1", Body: valid.Body}).Validate())
	assert.Error(t, (&Document{ID: "fx-1", Type: "fixture"}).Validate())
}

func TestDocument_Field(t *testing.T) {
	d := Document{Body: json.RawMessage(`{"date":"2026-03-07","venue":null,"matchday":4}`)}

	var date string
	ok, err := d.Field("date", &date)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2026-03-07", date)

	var venue string
	ok, err = d.Field("venue", &venue)
	require.NoError(t, err)
	assert.False(t, ok, "null counts as absent")

	ok, err = d.Field("missing", &venue)
	require.NoError(t, err)
	assert.False(t, ok)

	bad := Document{Body: json.RawMessage(`[1,2]`)}
	_, err = bad.Field("date", &date)
	assert.Error(t, err)
}
