// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestParseMediaType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        string
		want      MediaType
		supported bool
	}{
		{"movie", MediaTypeMovie, true},
		{" Episode ", MediaTypeEpisode, true},
		{"unknown", MediaTypeUnknown, false},
		{"musicvideo", MediaType("musicvideo"), false},
		{"", MediaType(""), false},
	}
	for _, tt := range tests {
		got := ParseMediaType(tt.in)
		if got != tt.want {
			t.Errorf("ParseMediaType(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got.Supported() != tt.supported {
			t.Errorf("%q.Supported() = %v, want %v", got, got.Supported(), tt.supported)
		}
	}
}

func TestItemDecodesGetItemResult(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": 12, "label": "Pilot", "type": "episode", "title": "Pilot",
		"showtitle": "Show", "tvshowid": 7, "season": 1, "episode": 2,
		"firstaired": "2008-01-20", "uniqueid": {"tvdb": "349232", "imdb": "tt0959621"}
	}`

	var item Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !item.IsEpisode() {
		t.Errorf("IsEpisode() = false, type %q", item.Type)
	}
	if item.TVShowID != 7 || item.Season != 1 || item.Episode != 2 {
		t.Errorf("unexpected numbering: %+v", item)
	}
	if item.UniqueIDs["imdb"] != "tt0959621" {
		t.Errorf("uniqueid = %v", item.UniqueIDs)
	}
	if item.ShowUniqueIDs() != nil {
		t.Error("ShowUniqueIDs() should be nil before the show is attached")
	}

	item.Show = &TVShow{TVShowID: 7, UniqueIDs: map[string]any{"tvdb": "81189"}}
	if item.ShowUniqueIDs()["tvdb"] != "81189" {
		t.Errorf("ShowUniqueIDs() = %v", item.ShowUniqueIDs())
	}
}

func TestNilItem(t *testing.T) {
	t.Parallel()

	var item *Item
	if item.IsEpisode() {
		t.Error("nil item is not an episode")
	}
	if item.ShowUniqueIDs() != nil {
		t.Error("nil item has no show ids")
	}
}

func TestPlaybackTimeTotalSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   PlaybackTime
		want float64
	}{
		{PlaybackTime{}, 0},
		{PlaybackTime{Minutes: 20}, 1200},
		{PlaybackTime{Hours: 1, Minutes: 2, Seconds: 3, Milliseconds: 500}, 3723.5},
	}
	for _, tt := range tests {
		if got := tt.in.TotalSeconds(); got != tt.want {
			t.Errorf("%+v.TotalSeconds() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
