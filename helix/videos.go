package helix

import (
	"context"
	"errors"
	"net/url"
)

// VideosParams filters a GetVideos call. Exactly one of IDs, UserID, or
// GameID must be set. Language, Period, Sort, Type, and CapRecords only apply
// when querying by user or game, per the Helix API rules.
type VideosParams struct {
	IDs    []string
	UserID string
	GameID string

	// Language is an ISO 639-1 two-letter code, or "other" for languages
	// Helix does not support. Requires GameID.
	Language string
	// Period is one of "all", "day", "month", "week".
	Period string
	// Sort is one of "time", "trending", "views".
	Sort string
	// Type is one of "all", "archive", "highlight", "upload".
	Type string

	// CapRecords caps the number of videos fetched across pages; zero or
	// negative fetches everything the API will serve.
	CapRecords int
}

// GetVideos returns videos by ID, user, or game. Queries by ID are a single
// call; queries by user or game follow the pagination cursor.
func (c *Client) GetVideos(ctx context.Context, p VideosParams) ([]map[string]any, error) {
	selectors := 0
	if len(p.IDs) > 0 {
		selectors++
	}
	if p.UserID != "" {
		selectors++
	}
	if p.GameID != "" {
		selectors++
	}
	if selectors != 1 {
		return nil, errors.New("helix: video ids, user id, and game id are mutually exclusive")
	}
	if len(p.IDs) > 100 {
		return nil, errors.New("helix: at most 100 video ids can be queried in one call")
	}
	if p.Language != "" && p.GameID == "" {
		return nil, errors.New("helix: language requires a game id")
	}
	byIDs := len(p.IDs) > 0
	if byIDs && (p.Period != "" || p.Sort != "" || p.Type != "" || p.CapRecords > 0) {
		return nil, errors.New("helix: period, sort, type, and record caps require a user id or game id")
	}

	params := url.Values{}
	for _, id := range p.IDs {
		params.Add("id", id)
	}
	if p.UserID != "" {
		params.Set("user_id", p.UserID)
	}
	if p.GameID != "" {
		params.Set("game_id", p.GameID)
	}
	if p.Language != "" {
		params.Set("language", p.Language)
	}
	if p.Period != "" {
		params.Set("period", p.Period)
	}
	if p.Sort != "" {
		params.Set("sort", p.Sort)
	}
	if p.Type != "" {
		params.Set("type", p.Type)
	}

	if byIDs {
		return c.Get(ctx, "videos", params)
	}
	return c.paginatedGet(ctx, "videos", params, maxRecordsPerPage, p.CapRecords)
}
