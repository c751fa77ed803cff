package calculator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-chi-calculator/internal/expression"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Batch handles POST /calculator/batch — evaluates many independent
// expressions concurrently, creating a child span for every item. A failing
// expression does not fail the batch; it is reported in its own result.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	const opName = "batch"

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// Parent span for the entire batch
	ctx, span := tracer.Start(ctx, "calculator.batch",
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req BatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err)
		handlers.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Expressions) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "no expressions provided", fmt.Errorf("expressions array is empty"))
		handlers.WriteError(w, http.StatusBadRequest, "no expressions provided")
		return
	}
	if len(req.Expressions) > h.maxBatchSize {
		err := fmt.Errorf("batch of %d exceeds limit of %d", len(req.Expressions), h.maxBatchSize)
		observability.RecordError(ctx, span, logger, errorCounter, opName, "batch too large", err)
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	calc, err := h.calculatorFor(req.Separator)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid separator", err)
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	span.SetAttributes(attribute.Int("batch.size", len(req.Expressions)))

	results := make([]BatchItem, len(req.Expressions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.batchConcurrency)

	for i, expr := range req.Expressions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			_, itemSpan := tracer.Start(gctx, fmt.Sprintf("calculator.batch.item.%d", i),
				trace.WithAttributes(
					attribute.Int("batch.item.index", i),
					attribute.String("calculator.expression", expr),
				),
			)
			defer itemSpan.End()

			start := time.Now()
			res, err := calc.Evaluate(expr)
			elapsed := float64(time.Since(start).Microseconds()) / 1000.0

			if err != nil {
				kind := expression.ErrorKind(err)
				itemSpan.RecordError(err)
				itemSpan.SetStatus(codes.Error, kind)

				evalCounter.Add(gctx, 1, metric.WithAttributes(
					attribute.String("operation", opName),
					attribute.String("outcome", "rejected"),
				))
				errorCounter.Add(gctx, 1, metric.WithAttributes(
					attribute.String("operation", opName),
					attribute.String("error.kind", kind),
				))
				expressionsTotal.WithLabelValues("rejected", kind).Inc()

				results[i] = BatchItem{
					Expression: expr,
					Result:     expression.NotPerformed,
					Error:      err.Error(),
					Kind:       kind,
				}
				return nil
			}

			recordSuccess(gctx, opName, res, elapsed)
			itemSpan.SetAttributes(attribute.Float64("calculator.result", res.Value))
			itemSpan.SetStatus(codes.Ok, "")

			value := res.Value
			results[i] = BatchItem{
				Expression: expr,
				Result:     res.Text,
				Value:      &value,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "batch cancelled", err)
		handlers.WriteError(w, http.StatusServiceUnavailable, "batch cancelled")
		return
	}

	resp := BatchResponse{Results: results}
	for _, item := range results {
		if item.Kind == "" {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}

	span.AddEvent("batch.complete", trace.WithAttributes(
		attribute.Int("succeeded", resp.Succeeded),
		attribute.Int("failed", resp.Failed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("batch evaluated",
		zap.Int("size", len(results)),
		zap.Int("succeeded", resp.Succeeded),
		zap.Int("failed", resp.Failed),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}
