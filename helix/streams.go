package helix

import (
	"context"
	"errors"
	"net/url"
)

// StreamsParams filters a GetStreams call. All filters are optional; an empty
// params fetches the most-watched live streams globally. At most 100 user
// IDs, 100 user logins, and 100 game IDs may be given.
type StreamsParams struct {
	UserIDs    []string
	UserLogins []string
	GameIDs    []string
	// Type is "all" or "live".
	Type string
	// Languages are ISO 639-1 two-letter codes, or "other".
	Languages []string

	// CapRecords caps the number of streams fetched across pages; zero or
	// negative fetches everything the API will serve.
	CapRecords int
}

// GetStreams returns live streams sorted by viewer count, descending.
func (c *Client) GetStreams(ctx context.Context, p StreamsParams) ([]map[string]any, error) {
	if len(p.UserIDs) > 100 || len(p.UserLogins) > 100 || len(p.GameIDs) > 100 {
		return nil, errors.New("helix: at most 100 user ids, user logins, and game ids per call")
	}

	params := url.Values{}
	for _, id := range p.UserIDs {
		params.Add("user_id", id)
	}
	for _, login := range p.UserLogins {
		params.Add("user_login", login)
	}
	for _, id := range p.GameIDs {
		params.Add("game_id", id)
	}
	for _, lang := range p.Languages {
		params.Add("language", lang)
	}
	if p.Type != "" {
		params.Set("type", p.Type)
	}

	return c.paginatedGet(ctx, "streams", params, maxRecordsPerPage, p.CapRecords)
}
