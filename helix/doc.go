// Package helix is a minimal client for the Twitch Helix REST API, aimed at
// data-collection use cases rather than chat or bot integration.
//
// The client manages an app access token (OAuth client-credentials grant) and
// issues authenticated GET/POST requests against Helix resources. Responses
// are returned as the decoded "data" array of the Helix envelope, a plain
// []map[string]any, without any domain-object wrapping. The token is
// refreshed lazily: a 401 triggers exactly one refresh and one retry.
package helix
