package helix

import (
	"context"
	"errors"
	"net/url"
)

// maxRecordsPerPage is the page size ceiling Helix applies to paginated
// resources.
const maxRecordsPerPage = 100

// GetTopGames returns the current top games on Twitch, most popular first.
// capRecords caps how many records to fetch across pages; zero or negative
// fetches everything the API will serve.
func (c *Client) GetTopGames(ctx context.Context, capRecords int) ([]map[string]any, error) {
	return c.paginatedGet(ctx, "games/top", url.Values{}, maxRecordsPerPage, capRecords)
}

// GetGames looks up games by ID, name, or IGDB ID. At least one selector is
// required and the combined number of selectors must not exceed 100.
func (c *Client) GetGames(ctx context.Context, ids, names, igdbIDs []string) ([]map[string]any, error) {
	if len(ids) == 0 && len(names) == 0 && len(igdbIDs) == 0 {
		return nil, errors.New("helix: specify game ids, names, or igdb ids")
	}
	if len(ids)+len(names)+len(igdbIDs) > 100 {
		return nil, errors.New("helix: at most 100 games can be looked up in one call")
	}

	params := url.Values{}
	for _, id := range ids {
		params.Add("id", id)
	}
	for _, name := range names {
		params.Add("name", name)
	}
	for _, igdbID := range igdbIDs {
		params.Add("igdb_id", igdbID)
	}

	return c.Get(ctx, "games", params)
}
