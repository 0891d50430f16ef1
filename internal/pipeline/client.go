// Package pipeline exposes the backend news-processing stages as typed
// operations. Discover and Export may answer asynchronously and run through
// the task poller; the remaining stages are plain calls. Stages never talk
// to each other directly: the discoverer publishes its result set to the
// artifact store, and later stages read it back from there.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/AK067CSE/newsagent/internal/api"
	"github.com/AK067CSE/newsagent/internal/artifact"
	"github.com/AK067CSE/newsagent/internal/observe"
	"github.com/AK067CSE/newsagent/internal/task"
)

// Client drives the pipeline stages.
type Client struct {
	api    *api.Client
	poller *task.Poller
	store  *artifact.Store
	obs    *observe.Observer
	bus    *EventBus
}

// New wires a pipeline client. store may be nil, in which case results are
// not cached and LatestDiscovery always reports absence.
func New(apiClient *api.Client, poller *task.Poller, store *artifact.Store, obs *observe.Observer) *Client {
	return &Client{
		api:    apiClient,
		poller: poller,
		store:  store,
		obs:    obs,
		bus:    NewEventBus(),
	}
}

// Events returns the bus carrying stage progress notifications.
func (c *Client) Events() *EventBus {
	return c.bus
}

// Discover runs the news discoverer and publishes the result set as the
// latest-discovery artifact. Cache write failures are logged, not fatal.
func (c *Client) Discover(ctx context.Context, req DiscoverRequest) (*DiscoverResult, error) {
	var result DiscoverResult
	err := c.stage(ctx, "discover news", func(ctx context.Context) error {
		raw, err := c.poller.Execute(ctx, api.EndpointDiscover, req)
		if err != nil {
			return err
		}
		return api.Decode(api.EndpointDiscover, raw, &result)
	})
	if err != nil {
		return nil, err
	}

	c.publishDiscovery(req.Query, result.Articles)
	return &result, nil
}

// Classify buckets articles per company.
func (c *Client) Classify(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error) {
	var result ClassifyResult
	err := c.stage(ctx, "classify content", func(ctx context.Context) error {
		raw, err := c.api.PostJSON(ctx, api.EndpointClassify, req)
		if err != nil {
			return err
		}
		return api.Decode(api.EndpointClassify, raw, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Summarize produces a bounded-length summary for one URL.
func (c *Client) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResult, error) {
	var result SummarizeResult
	err := c.stage(ctx, "summarize", func(ctx context.Context) error {
		raw, err := c.api.PostJSON(ctx, api.EndpointSummarize, req)
		if err != nil {
			return err
		}
		return api.Decode(api.EndpointSummarize, raw, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Export hands articles to the exporter service and records the export
// metadata artifact.
func (c *Client) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	var result ExportResult
	err := c.stage(ctx, "export data", func(ctx context.Context) error {
		raw, err := c.poller.Execute(ctx, api.EndpointExport, req)
		if err != nil {
			return err
		}
		return api.Decode(api.EndpointExport, raw, &result)
	})
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		if err := c.store.Publish(artifact.LatestExport, result); err != nil {
			c.obs.Log().Warn().Str("artifact", artifact.LatestExport).Err(err).Msg("cache write failed")
		}
	}
	return &result, nil
}

// Ingest feeds URLs into the retrieval index. The returned SessionID is the
// one the backend actually used; callers adopt it into their identity.
func (c *Client) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	var result IngestResult
	err := c.stage(ctx, "ingest for retrieval", func(ctx context.Context) error {
		raw, err := c.api.PostJSON(ctx, api.EndpointRagIngest, req)
		if err != nil {
			return err
		}
		return api.Decode(api.EndpointRagIngest, raw, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Query asks a question against an ingested session.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	var result QueryResult
	err := c.stage(ctx, "query retrieval index", func(ctx context.Context) error {
		raw, err := c.api.PostJSON(ctx, api.EndpointRagQuery, req)
		if err != nil {
			return err
		}
		return api.Decode(api.EndpointRagQuery, raw, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Stats fetches the dashboard counters.
func (c *Client) Stats(ctx context.Context) (*DashboardStats, error) {
	var result DashboardStats
	err := c.stage(ctx, "dashboard stats", func(ctx context.Context) error {
		raw, err := c.api.Get(ctx, api.EndpointDashboardStats)
		if err != nil {
			return err
		}
		return api.Decode(api.EndpointDashboardStats, raw, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// LatestDiscovery reads back the most recently published discovery, if any.
// Absence (including a corrupt cache entry) is not an error.
func (c *Client) LatestDiscovery() (*Discovery, bool) {
	if c.store == nil {
		return nil, false
	}
	var d Discovery
	ok, err := c.store.FetchLatest(artifact.LatestDiscovery, &d)
	if err != nil {
		c.obs.Log().Warn().Str("artifact", artifact.LatestDiscovery).Err(err).Msg("cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &d, true
}

func (c *Client) publishDiscovery(query string, articles []Article) {
	if c.store == nil {
		return
	}
	d := Discovery{Query: query, Articles: articles, RetrievedAt: time.Now().UTC()}
	if err := c.store.Publish(artifact.LatestDiscovery, d); err != nil {
		c.obs.Log().Warn().Str("artifact", artifact.LatestDiscovery).Err(err).Msg("cache write failed")
	}
}

// stage runs fn under a span, publishes start/done events, and wraps the
// error with the operation name so user-visible failures carry it.
func (c *Client) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	c.bus.stageStart(name)
	err := c.obs.Operation(ctx, name, fn)
	c.bus.stageDone(name, err)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
