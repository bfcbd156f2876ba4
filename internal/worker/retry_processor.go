package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/petkovbg/shipgate/internal/domain/errors"
	"github.com/petkovbg/shipgate/internal/domain/repository"
	"github.com/petkovbg/shipgate/internal/usecase"
)

// ShipmentFacade exposes the subset of application functionality required by the worker.
type ShipmentFacade interface {
	ShipmentsForRetry(ctx context.Context, limit int) ([]repository.RetryCandidate, error)
	ResubmitShipment(ctx context.Context, candidate repository.RetryCandidate) (*usecase.SubmissionResult, error)
}

// RetryProcessor sweeps shipments left in a non-terminal state and re-drives
// them through the submission flow concurrently.
type RetryProcessor struct {
	facade       ShipmentFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan repository.RetryCandidate
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewRetryProcessor constructs the retry worker pool.
func NewRetryProcessor(facade ShipmentFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *RetryProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &RetryProcessor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan repository.RetryCandidate, batchSize*workers),
	}
}

// Start launches background processing.
func (p *RetryProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *RetryProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *RetryProcessor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *RetryProcessor) fetchAndDispatch(ctx context.Context) {
	candidates, err := p.facade.ShipmentsForRetry(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch shipments for retry failed", slog.String("error", err.Error()))
		return
	}
	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- candidate:
		}
	}
}

func (p *RetryProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case candidate, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleCandidate(ctx, candidate)
		}
	}
}

func (p *RetryProcessor) handleCandidate(ctx context.Context, candidate repository.RetryCandidate) {
	result, err := p.facade.ResubmitShipment(ctx, candidate)
	if err != nil {
		var validationErr *domainErrors.ValidationError
		var resolutionErr *domainErrors.ResolutionError
		switch {
		case errors.As(err, &validationErr):
			// Stored order data can never pass validation later either; the
			// row stays failed and surfaces through operator inspection.
			p.logger.Warn("retry abandoned, stored order invalid",
				slog.Int64("shipment_id", candidate.Shipment.ID),
				slog.String("error", err.Error()),
			)
		case errors.As(err, &resolutionErr) && resolutionErr.Kind == domainErrors.RemoteUnavailable:
			p.logger.Warn("retry postponed, courier unavailable",
				slog.Int64("shipment_id", candidate.Shipment.ID),
				slog.String("error", err.Error()),
			)
		default:
			p.logger.Error("retry attempt failed",
				slog.Int64("shipment_id", candidate.Shipment.ID),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	p.logger.Info("retry succeeded",
		slog.Int64("shipment_id", result.Shipment.ID),
		slog.Int64("source_order_id", result.Order.SourceOrderID),
		slog.Bool("replayed", result.Replayed),
	)
}
