// Package orchestrator is the GraphQL boundary to the workflow orchestrator.
// It owns the wire shapes and turns every response into domain values; nothing
// above this package sees raw JSON.
package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"flowdeck/internal/domain"
)

// DefaultTimeout bounds one round trip to the orchestrator.
const DefaultTimeout = 15 * time.Second

// Config holds connection settings for the orchestrator API.
type Config struct {
	BaseURL string
	Token   string // optional bearer token
	Timeout time.Duration
}

// Client executes GraphQL queries against one orchestrator instance.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient builds a Client from config. The token, when set, rides on an
// oauth2 static-token transport so every request carries it.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	endpoint, err := graphqlEndpoint(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Transport: transport, Timeout: timeout},
		logger:   logger.With("component", "orchestrator"),
	}, nil
}

// graphqlEndpoint resolves the GraphQL URL from the configured base. A base
// already pointing at /graphql is used as-is; otherwise the segment is
// appended.
func graphqlEndpoint(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", domain.ErrValidation("orchestrator url %q is not an absolute url", base)
	}
	u.RawQuery = ""
	u.Fragment = ""
	if !strings.HasSuffix(strings.TrimSuffix(u.Path, "/"), "/graphql") {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/graphql"
	}
	return u.String(), nil
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// execute POSTs one GraphQL request and decodes the response envelope.
// Transport failures, non-2xx statuses, GraphQL-level errors, and undecodable
// bodies all come back as UpstreamError.
func execute[T any](ctx context.Context, c *Client, req graphQLRequest) (T, error) {
	var zero T

	body, err := json.Marshal(req)
	if err != nil {
		return zero, domain.ErrUpstream("marshal query: %v", err)
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, domain.ErrUpstream("build request: %v", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(hreq)
	if err != nil {
		return zero, domain.ErrUpstream("orchestrator request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, domain.ErrUpstream("orchestrator returned http %d", resp.StatusCode)
	}

	var out graphQLResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, domain.ErrUpstream("decode orchestrator response: %v", err)
	}
	if len(out.Errors) > 0 {
		return zero, domain.ErrUpstream("orchestrator: %s", out.Errors[0].Message)
	}
	return out.Data, nil
}

// FetchScheduleState runs the schedules query for one repository and decodes
// the three result unions. Implements domain.ScheduleGateway.
func (c *Client) FetchScheduleState(ctx context.Context, sel domain.RepositorySelector) (domain.ScheduleQueryResult, error) {
	if err := sel.Validate(); err != nil {
		return domain.ScheduleQueryResult{}, err
	}

	req := graphQLRequest{
		Query: schedulesQuery,
		Variables: map[string]interface{}{
			"repositorySelector": map[string]string{
				"repositoryName":         sel.RepositoryName,
				"repositoryLocationName": sel.LocationName,
			},
			"jobType": scheduleJobType,
		},
	}

	start := time.Now()
	data, err := execute[schedulesQueryData](ctx, c, req)
	if err != nil {
		c.logger.Warn("schedules query failed", "repository", sel.String(), "error", err)
		return domain.ScheduleQueryResult{}, err
	}

	result, err := decodeScheduleQuery(data)
	if err != nil {
		return domain.ScheduleQueryResult{}, err
	}

	c.logger.Debug("schedules query complete",
		"repository", sel.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// Compile-time check that Client implements the gateway port.
var _ domain.ScheduleGateway = (*Client)(nil)
