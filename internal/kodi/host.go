// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package kodi

import (
	"context"

	"github.com/tomtom215/mdblist-scrobbler/internal/models"
)

// JSON-RPC methods used by the scrobbler.
const (
	MethodGetActivePlayers = "Player.GetActivePlayers"
	MethodGetProperties    = "Player.GetProperties"
	MethodGetItem          = "Player.GetItem"
	MethodGetTVShowDetails = "VideoLibrary.GetTVShowDetails"
	MethodShowNotification = "GUI.ShowNotification"
)

// itemProperties are requested from Player.GetItem.
var itemProperties = []string{
	"title", "tvshowid", "showtitle", "season", "episode",
	"firstaired", "premiered", "year", "uniqueid",
}

type activePlayer struct {
	PlayerID int    `json:"playerid"`
	Type     string `json:"type"`
}

// videoPlayer returns the id of the active video player. ok is false when
// no video is playing.
func (c *Client) videoPlayer(ctx context.Context) (id int, ok bool, err error) {
	var players []activePlayer
	if err := c.Call(ctx, MethodGetActivePlayers, nil, &players); err != nil {
		return 0, false, err
	}
	for _, p := range players {
		if p.Type == "video" {
			return p.PlayerID, true, nil
		}
	}
	return 0, false, nil
}

// playerIDOrDefault resolves the player to query, falling back to the
// configured id when Kodi reports no active video player.
func (c *Client) playerIDOrDefault(ctx context.Context) (int, error) {
	id, ok, err := c.videoPlayer(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return c.playerID, nil
	}
	return id, nil
}

// IsPlaying reports whether a video player is active. Paused playback
// counts as playing.
func (c *Client) IsPlaying(ctx context.Context) (bool, error) {
	_, ok, err := c.videoPlayer(ctx)
	return ok, err
}

type playerTimes struct {
	Time      models.PlaybackTime `json:"time"`
	TotalTime models.PlaybackTime `json:"totaltime"`
}

// PlaybackTimes returns the current position and the total duration in seconds.
func (c *Client) PlaybackTimes(ctx context.Context) (current, total float64, err error) {
	id, err := c.playerIDOrDefault(ctx)
	if err != nil {
		return 0, 0, err
	}

	var props playerTimes
	params := map[string]any{
		"playerid":   id,
		"properties": []string{"time", "totaltime"},
	}
	if err := c.Call(ctx, MethodGetProperties, params, &props); err != nil {
		return 0, 0, err
	}
	return props.Time.TotalSeconds(), props.TotalTime.TotalSeconds(), nil
}

type getItemResult struct {
	Item *models.Item `json:"item"`
}

// CurrentItem returns the item loaded in the video player, or nil when
// Kodi reports none.
func (c *Client) CurrentItem(ctx context.Context) (*models.Item, error) {
	id, err := c.playerIDOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	var res getItemResult
	params := map[string]any{
		"playerid":   id,
		"properties": itemProperties,
	}
	if err := c.Call(ctx, MethodGetItem, params, &res); err != nil {
		return nil, err
	}
	if res.Item == nil || (res.Item.Type == "" && res.Item.Label == "") {
		return nil, nil
	}
	res.Item.Type = models.ParseMediaType(string(res.Item.Type))
	return res.Item, nil
}

type tvShowDetailsResult struct {
	Details *models.TVShow `json:"tvshowdetails"`
}

// TVShow returns the library details of a show, unique ids included.
func (c *Client) TVShow(ctx context.Context, tvShowID int) (*models.TVShow, error) {
	var res tvShowDetailsResult
	params := map[string]any{
		"tvshowid":   tvShowID,
		"properties": []string{"uniqueid"},
	}
	if err := c.Call(ctx, MethodGetTVShowDetails, params, &res); err != nil {
		return nil, err
	}
	return res.Details, nil
}

// Notify shows an on-screen notification.
func (c *Client) Notify(ctx context.Context, title, message string) error {
	params := map[string]any{
		"title":   title,
		"message": message,
	}
	return c.Call(ctx, MethodShowNotification, params, nil)
}
