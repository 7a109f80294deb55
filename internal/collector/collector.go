// Package collector turns a collection plan into periodic Helix snapshots,
// emitting one NDJSON record per Helix record.
package collector

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/frits-z/twitch-dc/helix"
	"github.com/frits-z/twitch-dc/internal/config"
	"github.com/frits-z/twitch-dc/internal/platform/runid"
)

// API is the slice of the helix client the collector needs.
type API interface {
	GetTopGames(ctx context.Context, capRecords int) ([]map[string]any, error)
	GetStreams(ctx context.Context, p helix.StreamsParams) ([]map[string]any, error)
	GetUsers(ctx context.Context, ids, logins []string) ([]map[string]any, error)
	GetClips(ctx context.Context, p helix.ClipsParams) ([]map[string]any, error)
	GetVideos(ctx context.Context, p helix.VideosParams) ([]map[string]any, error)
}

// Record is one collected Helix record with its provenance.
type Record struct {
	RunID       string         `json:"run_id"`
	CollectedAt time.Time      `json:"collected_at"`
	Resource    string         `json:"resource"`
	Data        map[string]any `json:"data"`
}

// Collector runs the jobs of a collection plan against the Helix API and
// writes the results as NDJSON.
type Collector struct {
	api     API
	plan    config.Plan
	enc     *json.Encoder
	clock   clockwork.Clock
	limiter *rate.Limiter
}

// New creates a Collector writing NDJSON records to out. A nil limiter gets
// a default pacing of one Helix call per second, well inside the app access
// token bucket.
func New(api API, plan config.Plan, out io.Writer, clock clockwork.Clock, limiter *rate.Limiter) *Collector {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(time.Second), 1)
	}
	return &Collector{
		api:     api,
		plan:    plan,
		enc:     json.NewEncoder(out),
		clock:   clock,
		limiter: limiter,
	}
}

// Run takes a snapshot immediately and then on every plan interval until ctx
// is cancelled. Snapshot errors are logged and do not stop the loop.
func (c *Collector) Run(ctx context.Context) error {
	interval := c.plan.IntervalOrDefault()
	slog.Info("collector started", "interval", interval)

	if err := c.Snapshot(ctx); err != nil {
		slog.Error("snapshot failed", "error", err)
	}

	ticker := c.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("collector stopped")
			return nil
		case <-ticker.Chan():
			if err := c.Snapshot(ctx); err != nil {
				slog.Error("snapshot failed", "error", err)
			}
		}
	}
}

// Snapshot runs one pass over all configured jobs under a fresh run ID.
// A failing job does not abort the remaining jobs; the first error is
// returned after the pass completes.
func (c *Collector) Snapshot(ctx context.Context) error {
	ctx = runid.WithID(ctx, uuid.NewString())

	var firstErr error
	run := func(resource string, enabled bool, fetch func() ([]map[string]any, error)) {
		if !enabled || ctx.Err() != nil {
			return
		}
		if err := c.limiter.Wait(ctx); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		records, err := fetch()
		if err != nil {
			slog.ErrorContext(ctx, "collection job failed", "resource", resource, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		if err := c.write(ctx, resource, records); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	run("games/top", c.plan.TopGames.Enabled, func() ([]map[string]any, error) {
		return c.api.GetTopGames(ctx, c.plan.TopGames.Cap)
	})

	streams := c.plan.Streams
	run("streams", len(streams.UserLogins) > 0 || len(streams.GameIDs) > 0, func() ([]map[string]any, error) {
		return c.api.GetStreams(ctx, helix.StreamsParams{
			UserLogins: streams.UserLogins,
			GameIDs:    streams.GameIDs,
			CapRecords: streams.Cap,
		})
	})

	users := c.plan.Users
	run("users", len(users.Logins) > 0 || len(users.IDs) > 0, func() ([]map[string]any, error) {
		return c.api.GetUsers(ctx, users.IDs, users.Logins)
	})

	clips := c.plan.Clips
	run("clips", clips.BroadcasterID != "", func() ([]map[string]any, error) {
		return c.api.GetClips(ctx, helix.ClipsParams{
			BroadcasterID: clips.BroadcasterID,
			CapRecords:    clips.Cap,
		})
	})

	videos := c.plan.Videos
	run("videos", videos.UserID != "", func() ([]map[string]any, error) {
		return c.api.GetVideos(ctx, helix.VideosParams{
			UserID:     videos.UserID,
			Type:       videos.Type,
			CapRecords: videos.Cap,
		})
	})

	return firstErr
}

func (c *Collector) write(ctx context.Context, resource string, records []map[string]any) error {
	id, _ := runid.ID(ctx)
	now := c.clock.Now().UTC()

	for _, data := range records {
		rec := Record{
			RunID:       id,
			CollectedAt: now,
			Resource:    resource,
			Data:        data,
		}
		if err := c.enc.Encode(rec); err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "collected records", "resource", resource, "count", len(records))
	return nil
}
