package helix

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"
)

// ClipsParams filters a GetClips call. Exactly one of BroadcasterID, GameID,
// or ClipIDs must be set; StartedAt/EndedAt narrow the window when non-zero.
type ClipsParams struct {
	BroadcasterID string
	GameID        string
	ClipIDs       []string
	StartedAt     time.Time
	EndedAt       time.Time

	// CapRecords caps the number of clips fetched across pages; zero or
	// negative fetches everything the API will serve.
	CapRecords int
}

// GetClips returns clips for a broadcaster, a game, or a set of clip IDs.
func (c *Client) GetClips(ctx context.Context, p ClipsParams) ([]map[string]any, error) {
	selectors := 0
	if p.BroadcasterID != "" {
		selectors++
	}
	if p.GameID != "" {
		selectors++
	}
	if len(p.ClipIDs) > 0 {
		selectors++
	}
	if selectors != 1 {
		return nil, errors.New("helix: broadcaster id, game id, and clip ids are mutually exclusive")
	}
	if len(p.ClipIDs) > 100 {
		return nil, errors.New("helix: at most 100 clips can be queried in one call")
	}

	params := url.Values{}
	if p.BroadcasterID != "" {
		params.Set("broadcaster_id", p.BroadcasterID)
	}
	if p.GameID != "" {
		params.Set("game_id", p.GameID)
	}
	for _, id := range p.ClipIDs {
		params.Add("id", id)
	}
	if !p.StartedAt.IsZero() {
		params.Set("started_at", p.StartedAt.Format(time.RFC3339))
	}
	if !p.EndedAt.IsZero() {
		params.Set("ended_at", p.EndedAt.Format(time.RFC3339))
	}

	return c.paginatedGet(ctx, "clips", params, maxRecordsPerPage, p.CapRecords)
}

// CreateClip captures a clip from the broadcaster's live stream. hasDelay
// adds a delay between the live broadcast and the captured clip. The returned
// record carries the clip id and edit URL.
func (c *Client) CreateClip(ctx context.Context, broadcasterID string, hasDelay bool) ([]map[string]any, error) {
	if broadcasterID == "" {
		return nil, errors.New("helix: broadcaster id is required")
	}

	params := url.Values{}
	params.Set("broadcaster_id", broadcasterID)
	params.Set("has_delay", strconv.FormatBool(hasDelay))

	return c.Post(ctx, "clips", params, nil)
}
