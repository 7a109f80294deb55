package helix

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// GetUsers looks up users by ID or login name. At least one selector is
// required and the combined number of selectors must not exceed 100.
func (c *Client) GetUsers(ctx context.Context, ids, logins []string) ([]map[string]any, error) {
	if len(ids) == 0 && len(logins) == 0 {
		return nil, errors.New("helix: specify user ids, login names, or both")
	}
	if len(ids)+len(logins) > 100 {
		return nil, errors.New("helix: at most 100 users can be looked up in one call")
	}

	params := url.Values{}
	for _, id := range ids {
		params.Add("id", id)
	}
	for _, login := range logins {
		params.Add("login", login)
	}

	return c.Get(ctx, "users", params)
}

// GetUserFollows returns follow relationships filtered by follower (fromID)
// and/or followed channel (toID), along with the total count the API reports.
// capRecords caps the number of follow records fetched; if total follower
// count is all that is needed, cap to 1 to avoid paging through everything.
func (c *Client) GetUserFollows(ctx context.Context, fromID, toID string, capRecords int) (int, []map[string]any, error) {
	if fromID == "" && toID == "" {
		return 0, nil, errors.New("helix: specify from id, to id, or both")
	}

	params := url.Values{}
	if fromID != "" {
		params.Set("from_id", fromID)
	}
	if toID != "" {
		params.Set("to_id", toID)
	}

	// The users/follows envelope carries a total field the generic
	// paginated walk discards, so grab it with an initial one-record call.
	params.Set("first", "1")
	env, err := c.request(ctx, http.MethodGet, "users/follows", params, nil)
	if err != nil {
		return 0, nil, err
	}

	data, err := c.paginatedGet(ctx, "users/follows", params, maxRecordsPerPage, capRecords)
	if err != nil {
		return 0, nil, err
	}

	return env.Total, data, nil
}
