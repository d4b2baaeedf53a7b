package megaverse

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"megaverse-client/shared/config"
)

// Painter draws whole formations by issuing many object calls through one
// shared client. Concurrency only overlaps the waiting; the client's rate
// limiter still spaces the actual dispatches.
type Painter struct {
	client      *Client
	concurrency int
	logger      *slog.Logger
}

func NewPainter(client *Client, cfg config.PainterConfig, logger *slog.Logger) *Painter {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Painter{
		client:      client,
		concurrency: concurrency,
		logger:      logger,
	}
}

// PaintCross places the 11x11 X formation of polyanets: both diagonals
// from row 2 through row 8, sharing the center cell.
func (p *Painter) PaintCross(ctx context.Context) error {
	logger := p.logger.With("component", "painter", "operation", "paint_cross")
	logger.Debug("Painting polyanet cross")

	for i := 2; i <= 8; i++ {
		if err := p.client.CreatePolyanet(ctx, i, i); err != nil {
			return err
		}
		if i == 5 {
			continue
		}
		if err := p.client.CreatePolyanet(ctx, i, 10-i); err != nil {
			return err
		}
	}

	logger.Info("Polyanet cross painted")
	return nil
}

// PaintGoal fetches the goal map and creates every non-empty cell it
// names. The whole map is parsed before any object is placed, so a
// malformed cell aborts the run without wasted calls.
func (p *Painter) PaintGoal(ctx context.Context) error {
	logger := p.logger.With("component", "painter", "operation", "paint_goal")

	goal, err := p.client.GoalMap(ctx)
	if err != nil {
		return err
	}

	var objects []AstralObject
	for i, row := range goal.Goal {
		for j, name := range row {
			obj, ok, err := ParseGoalCell(name, i, j)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			objects = append(objects, obj)
		}
	}

	logger.Debug("Painting goal map", "objects", len(objects))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, obj := range objects {
		obj := obj
		g.Go(func() error {
			_, err := p.client.CreateObject(ctx, obj)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Goal map painted", "objects", len(objects))
	return nil
}
