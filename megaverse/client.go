package megaverse

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"megaverse-client/shared/config"
	"megaverse-client/shared/errors"
)

// Client talks to the Megaverse API. It is safe for concurrent use: all
// calls share one rate limiter, and grid bounds learned from the goal map
// are guarded by a short-lived lock that is never held across network I/O.
type Client struct {
	builder   *requestBuilder
	gate      *rateGate
	transport *transport
	logger    *slog.Logger

	mu     sync.RWMutex
	bounds GridBounds
}

func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	logger.Debug("Initializing megaverse client",
		"base_url", cfg.API.BaseURL,
		"requests_per_second", cfg.RateLimit.RequestsPerSecond,
		"max_retries", cfg.Retry.MaxRetries,
	)

	return &Client{
		builder:   newRequestBuilder(cfg.API.BaseURL, cfg.API.CandidateID),
		gate:      newRateGate(cfg.RateLimit),
		transport: newTransport(cfg.API.RequestTimeout, cfg.Retry, logger),
		logger:    logger,
	}
}

// CreateObject places an astral object on the grid and returns the parsed
// response payload.
func (c *Client) CreateObject(ctx context.Context, obj AstralObject) (map[string]interface{}, error) {
	return c.dispatchObject(ctx, opCreate, obj)
}

// DeleteObject removes an astral object from the grid and returns the
// parsed response payload.
func (c *Client) DeleteObject(ctx context.Context, obj AstralObject) (map[string]interface{}, error) {
	return c.dispatchObject(ctx, opDelete, obj)
}

func (c *Client) CreatePolyanet(ctx context.Context, row, column int) error {
	_, err := c.CreateObject(ctx, AstralObject{Kind: KindPolyanet, Row: row, Column: column})
	return err
}

func (c *Client) DeletePolyanet(ctx context.Context, row, column int) error {
	_, err := c.DeleteObject(ctx, AstralObject{Kind: KindPolyanet, Row: row, Column: column})
	return err
}

func (c *Client) CreateSoloon(ctx context.Context, row, column int, color SoloonColor) error {
	_, err := c.CreateObject(ctx, AstralObject{Kind: KindSoloon, Row: row, Column: column, Color: color})
	return err
}

func (c *Client) DeleteSoloon(ctx context.Context, row, column int) error {
	_, err := c.DeleteObject(ctx, AstralObject{Kind: KindSoloon, Row: row, Column: column})
	return err
}

func (c *Client) CreateCometh(ctx context.Context, row, column int, direction ComethDirection) error {
	_, err := c.CreateObject(ctx, AstralObject{Kind: KindCometh, Row: row, Column: column, Direction: direction})
	return err
}

func (c *Client) DeleteCometh(ctx context.Context, row, column int) error {
	_, err := c.DeleteObject(ctx, AstralObject{Kind: KindCometh, Row: row, Column: column})
	return err
}

// GoalMap retrieves the candidate's target grid. The grid bounds learned
// here are kept so later calls can be rejected client-side when they fall
// outside the grid.
func (c *Client) GoalMap(ctx context.Context) (*GoalMap, error) {
	logger := c.logger.With("component", "megaverse_client", "operation", "goal_map")

	req := c.builder.goalMapRequest()

	if err := c.gate.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.transport.do(ctx, req)
	if err != nil {
		logger.Error("Goal map fetch failed", "error", err)
		return nil, err
	}
	if _, err := validateResponse(resp); err != nil {
		logger.Error("Goal map fetch failed", "error", err)
		return nil, err
	}

	var goal GoalMap
	if err := json.Unmarshal(resp.Body, &goal); err != nil {
		return nil, &errors.AppError{
			Type:       errors.ErrorTypeUnexpectedResponse,
			Message:    "could not parse goal map",
			StatusCode: resp.StatusCode,
			Body:       excerpt(resp.Body),
			Attempts:   resp.Attempts,
			Err:        err,
		}
	}

	c.setBounds(goal.Bounds())
	logger.Info("Goal map fetched", "rows", goal.Bounds().Rows, "columns", goal.Bounds().Columns)
	return &goal, nil
}

func (c *Client) dispatchObject(ctx context.Context, op operation, obj AstralObject) (map[string]interface{}, error) {
	logger := c.logger.With(
		"component", "megaverse_client",
		"operation", string(op),
		"kind", string(obj.Kind),
		"row", obj.Row,
		"column", obj.Column,
	)

	req, err := c.builder.objectRequest(op, obj, c.knownBounds())
	if err != nil {
		logger.Debug("Rejected before dispatch", "error", err)
		return nil, err
	}

	if err := c.gate.Wait(ctx); err != nil {
		logger.Debug("Aborted waiting for admission", "error", err)
		return nil, err
	}

	resp, err := c.transport.do(ctx, req)
	if err != nil {
		logger.Error("Request failed", "error", err)
		return nil, err
	}

	payload, err := validateResponse(resp)
	if err != nil {
		logger.Error("Upstream rejected request", "error", err)
		return nil, err
	}

	logger.Info("Astral object updated", "attempts", resp.Attempts)
	return payload, nil
}

func (c *Client) knownBounds() GridBounds {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bounds
}

func (c *Client) setBounds(bounds GridBounds) {
	if !bounds.Known() {
		return
	}
	c.mu.Lock()
	c.bounds = bounds
	c.mu.Unlock()
}
