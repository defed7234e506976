// Package scalingo provides a client for the Scalingo platform API.
package scalingo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/narvanalabs/scalingo-dashboard/internal/logparse"
	"github.com/narvanalabs/scalingo-dashboard/internal/models"
	"github.com/narvanalabs/scalingo-dashboard/internal/pagination"
	"github.com/narvanalabs/scalingo-dashboard/pkg/logger"
)

const (
	// DefaultLogLines is the number of log lines fetched when none is given.
	DefaultLogLines = 150
	// DefaultDeploymentsPerPage is the page size assumed when the deployments
	// endpoint omits pagination metadata.
	DefaultDeploymentsPerPage = 20
	// DefaultTimeout is the request timeout when none is configured.
	DefaultTimeout = 30 * time.Second
)

// Client is an API client for one Scalingo region.
type Client struct {
	http   *resty.Client
	tokens TokenProvider
	parser *logparse.Parser
	logger *logger.Logger
}

// NewClient creates a new API client for the region served at baseURL.
func NewClient(baseURL string, tokens TokenProvider, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Discard()
	}

	c := &Client{
		tokens: tokens,
		parser: &logparse.Parser{},
		logger: log.WithComponent("scalingo"),
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			c.logger.Debug("scalingo request",
				"method", resp.Request.Method,
				"url", resp.Request.URL,
				"status", resp.StatusCode(),
				"duration_ms", resp.Time().Milliseconds(),
			)
			return nil
		})

	return c
}

// HTTPClient returns the underlying resty client.
func (c *Client) HTTPClient() *resty.Client {
	return c.http
}

// WithParser returns a copy of the client parsing logs with p.
func (c *Client) WithParser(p *logparse.Parser) *Client {
	clone := *c
	clone.parser = p
	return &clone
}

// request returns an authenticated request bound to ctx.
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	bearer, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting bearer token: %w", err)
	}
	return c.http.R().SetContext(ctx).SetAuthToken(bearer), nil
}

// Invalidator is implemented by token providers that cache bearers.
type Invalidator interface {
	Invalidate()
}

// send runs do on an authenticated request. When the bearer is rejected with
// 401 and the provider caches bearers, the cached bearer is dropped and do
// runs once more with a fresh one.
func (c *Client) send(ctx context.Context, do func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := c.request(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := do(req)
		if err != nil {
			return nil, fmt.Errorf("making request: %w", err)
		}

		inv, ok := c.tokens.(Invalidator)
		if attempt == 0 && ok && resp.StatusCode() == http.StatusUnauthorized {
			c.logger.Debug("bearer rejected, exchanging a new one")
			inv.Invalidate()
			continue
		}
		return resp, nil
	}
}

// get performs a GET request and unmarshals the JSON response into result.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	resp, err := c.send(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.SetResult(result).Get(path)
	})
	if err != nil {
		return err
	}
	return checkResponse(resp)
}

func checkResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return &Error{StatusCode: resp.StatusCode(), Body: strings.TrimSpace(string(resp.Body()))}
}

// ListApps fetches every application visible to the token.
func (c *Client) ListApps(ctx context.Context) ([]models.Application, error) {
	var result struct {
		Apps []models.Application `json:"apps"`
	}
	if err := c.get(ctx, "/v1/apps", &result); err != nil {
		return nil, fmt.Errorf("listing apps: %w", err)
	}
	if result.Apps == nil {
		return []models.Application{}, nil
	}
	return result.Apps, nil
}

// GetApp fetches a single application by ID or name.
func (c *Client) GetApp(ctx context.Context, id string) (*models.Application, error) {
	var result struct {
		App *models.Application `json:"app"`
	}
	if err := c.get(ctx, "/v1/apps/"+url.PathEscape(id), &result); err != nil {
		return nil, fmt.Errorf("getting app %s: %w", id, err)
	}
	if result.App == nil {
		return nil, fmt.Errorf("getting app %s: %w", id, ErrNotFound)
	}
	return result.App, nil
}

// RawLogs fetches the last lines of an application's logs as plain text.
// The logs endpoint returns a signed URL which is then fetched without the bearer.
func (c *Client) RawLogs(ctx context.Context, id string, lines int) (string, error) {
	if lines <= 0 {
		lines = DefaultLogLines
	}

	var result struct {
		LogsURL string `json:"logs_url"`
	}
	if err := c.get(ctx, "/v1/apps/"+url.PathEscape(id)+"/logs", &result); err != nil {
		return "", fmt.Errorf("getting logs url for %s: %w", id, err)
	}
	if result.LogsURL == "" {
		return "", fmt.Errorf("getting logs url for %s: %w", id, ErrNoLogsURL)
	}

	logsURL, err := withLineCount(result.LogsURL, lines)
	if err != nil {
		return "", fmt.Errorf("parsing logs url: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get(logsURL)
	if err != nil {
		return "", fmt.Errorf("fetching logs for %s: %w", id, err)
	}
	if err := checkResponse(resp); err != nil {
		return "", fmt.Errorf("fetching logs for %s: %w", id, err)
	}
	return resp.String(), nil
}

// Logs fetches and parses the last lines of an application's logs.
func (c *Client) Logs(ctx context.Context, id string, lines int) ([]models.LogEntry, error) {
	raw, err := c.RawLogs(ctx, id, lines)
	if err != nil {
		return nil, err
	}
	return c.parser.Parse(raw), nil
}

// withLineCount appends the n query parameter to the signed logs URL, leaving
// the existing query bytes untouched.
func withLineCount(raw string, lines int) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	n := "n=" + strconv.Itoa(lines)
	if u.RawQuery == "" {
		u.RawQuery = n
	} else {
		u.RawQuery += "&" + n
	}
	return u.String(), nil
}

// PerformAction triggers a lifecycle action on an application.
func (c *Client) PerformAction(ctx context.Context, id string, action models.AppAction) error {
	if _, ok := models.ParseAppAction(string(action)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	resp, err := c.send(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.Post("/v1/apps/" + url.PathEscape(id) + "/" + action.String())
	})
	if err != nil {
		return err
	}
	if err := checkResponse(resp); err != nil {
		return fmt.Errorf("%s app %s: %w", action, id, err)
	}
	return nil
}

// ListDeployments fetches one page of an application's deployments.
// When the upstream response omits pagination metadata it is derived from the
// page contents, assuming DefaultDeploymentsPerPage items per page.
func (c *Client) ListDeployments(ctx context.Context, id string, page int) (*models.DeploymentPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be positive, got %d", pagination.ErrInvalidArgument, page)
	}

	result := &models.DeploymentPage{}
	resp, err := c.send(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetQueryParam("page", strconv.Itoa(page)).
			SetResult(result).
			Get("/v1/apps/" + url.PathEscape(id) + "/deployments")
	})
	if err != nil {
		return nil, err
	}
	if err := checkResponse(resp); err != nil {
		return nil, fmt.Errorf("listing deployments of %s: %w", id, err)
	}

	if result.Deployments == nil {
		result.Deployments = []models.Deployment{}
	}
	if result.Meta.Pagination.TotalPages == 0 {
		seen := (page-1)*DefaultDeploymentsPerPage + len(result.Deployments)
		meta, err := pagination.Paginate(seen, page, DefaultDeploymentsPerPage)
		if err != nil {
			return nil, err
		}
		result.Meta.Pagination = meta
	}
	return result, nil
}

// DeploymentOutput fetches the build output of a deployment.
func (c *Client) DeploymentOutput(ctx context.Context, id, deploymentID string) (*models.DeploymentOutput, error) {
	resp, err := c.send(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetHeader("Accept", "text/plain").
			Get("/v1/apps/" + url.PathEscape(id) + "/deployments/" + url.PathEscape(deploymentID) + "/output")
	})
	if err != nil {
		return nil, err
	}
	if err := checkResponse(resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrOutputNotAvailable
		}
		return nil, fmt.Errorf("getting output of deployment %s: %w", deploymentID, err)
	}
	return &models.DeploymentOutput{Output: resp.String()}, nil
}

// ListDomains fetches the custom domains of an application.
func (c *Client) ListDomains(ctx context.Context, id string) ([]models.Domain, error) {
	var result struct {
		Domains []models.Domain `json:"domains"`
	}
	if err := c.get(ctx, "/v1/apps/"+url.PathEscape(id)+"/domains", &result); err != nil {
		return nil, fmt.Errorf("listing domains of %s: %w", id, err)
	}
	if result.Domains == nil {
		return []models.Domain{}, nil
	}
	return result.Domains, nil
}

// Ping verifies that a bearer can be obtained and the regional API answers.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.send(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.Get("/v1/apps")
	})
	if err != nil {
		return err
	}
	return checkResponse(resp)
}
