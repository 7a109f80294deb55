package helix

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// paginatedGet walks a cursor-paginated resource and returns the concatenated
// "data" arrays. capRecords caps the total number of records fetched; zero or
// negative means no cap (walk until the cursor runs out). The Helix API may
// serve fewer records than requested.
func (c *Client) paginatedGet(ctx context.Context, endpoint string, params url.Values, maxPerPage, capRecords int) ([]map[string]any, error) {
	var records []map[string]any
	remaining := capRecords

	for {
		first := maxPerPage
		if capRecords > 0 && remaining < first {
			first = remaining
		}
		params.Set("first", strconv.Itoa(first))

		env, err := c.request(ctx, http.MethodGet, endpoint, params, nil)
		if err != nil {
			return nil, err
		}
		records = append(records, env.Data...)

		if len(env.Data) == 0 || env.Pagination.Cursor == "" {
			break
		}
		if capRecords > 0 {
			remaining -= len(env.Data)
			if remaining <= 0 {
				break
			}
		}
		params.Set("after", env.Pagination.Cursor)
	}

	return records, nil
}
