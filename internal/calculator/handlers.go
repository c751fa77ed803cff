package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/expression"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// maxBodyBytes caps request bodies for every calculator endpoint.
const maxBodyBytes = 1 << 20

// Handler serves the expression API. It is safe for concurrent use.
type Handler struct {
	calc             *expression.Calculator
	maxLength        int
	maxBatchSize     int
	batchConcurrency int
}

// NewHandler builds a Handler from the service configuration.
func NewHandler(cfg config.Config) (*Handler, error) {
	calc, err := expression.New(cfg.CalculatorOptions()...)
	if err != nil {
		return nil, fmt.Errorf("creating calculator: %w", err)
	}

	return &Handler{
		calc:             calc,
		maxLength:        cfg.MaxExpressionLength,
		maxBatchSize:     cfg.MaxBatchSize,
		batchConcurrency: cfg.BatchConcurrency,
	}, nil
}

// calculatorFor returns the default calculator, or one using the separator
// requested by the client.
func (h *Handler) calculatorFor(separator string) (*expression.Calculator, error) {
	if separator == "" {
		return h.calc, nil
	}

	sep, err := config.ParseSeparator(separator)
	if err != nil {
		return nil, err
	}
	if sep == h.calc.Separator() {
		return h.calc, nil
	}

	return expression.New(expression.Separator(sep), expression.MaxLength(h.maxLength))
}

// Evaluate handles POST /calculator/evaluate. Every pipeline stage runs in
// its own child span.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	const opName = "evaluate"

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err)
		handlers.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	calc, err := h.calculatorFor(req.Separator)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid separator", err)
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	span.SetAttributes(attribute.String("calculator.expression", req.Expression))

	start := time.Now()
	res, err := calc.EvaluateWith(req.Expression, stageSpans(ctx))
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		rejectExpression(ctx, span, logger, opName, req.Expression, err)
		handlers.WriteJSON(w, http.StatusUnprocessableEntity, newErrorResponse(err))
		return
	}

	recordSuccess(ctx, opName, res, elapsed)

	span.AddEvent("evaluation.complete", trace.WithAttributes(
		attribute.String("canonical", res.Canonical),
		attribute.Float64("result", res.Value),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("calculator.result", res.Value))
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("operation", opName),
		zap.String("expression", req.Expression),
		zap.String("canonical", res.Canonical),
		zap.String("rpn", expression.FormatTokens(res.RPN)),
		zap.Float64("result", res.Value),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Expression: res.Expression,
		Canonical:  res.Canonical,
		RPN:        expression.FormatTokens(res.RPN),
		Value:      res.Value,
		Result:     res.Text,
	})
}

// Calculate handles GET /calculator/calculate?expression=... and answers in
// plain text: the rendered result, or "Not performed." with status 422.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	const opName = "calculate"

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.calculate",
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	query := r.URL.Query()
	calc, err := h.calculatorFor(query.Get("separator"))
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid separator", err)
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	expr := query.Get("expression")
	span.SetAttributes(attribute.String("calculator.expression", expr))

	start := time.Now()
	res, err := calc.Evaluate(expr)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		rejectExpression(ctx, span, logger, opName, expr, err)
		writeText(w, http.StatusUnprocessableEntity, expression.NotPerformed)
		return
	}

	recordSuccess(ctx, opName, res, elapsed)
	span.SetStatus(codes.Ok, "")

	writeText(w, http.StatusOK, res.Text)
}

// stageSpans opens a child span around every pipeline stage and records its
// duration.
func stageSpans(ctx context.Context) expression.StageFunc {
	return func(stage expression.Stage, run func() error) error {
		_, span := tracer.Start(ctx, "calculator.stage."+string(stage),
			trace.WithAttributes(attribute.String("calculator.stage", string(stage))),
		)
		defer span.End()

		start := time.Now()
		err := run()
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6

		stageHistogram.Record(ctx, elapsed, metric.WithAttributes(attribute.String("stage", string(stage))))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, expression.ErrorKind(err))
			return err
		}
		span.SetStatus(codes.Ok, "")
		return nil
	}
}

func recordSuccess(ctx context.Context, opName string, res *expression.Result, elapsedMs float64) {
	attrs := metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.String("outcome", "ok"),
	)
	evalCounter.Add(ctx, 1, attrs)
	evalHistogram.Record(ctx, elapsedMs, attrs)
	resultGauge.Record(ctx, res.Value, metric.WithAttributes(attribute.String("operation", opName)))
	expressionsTotal.WithLabelValues("ok", "").Inc()
}

func rejectExpression(ctx context.Context, span trace.Span, logger *zap.Logger, opName, expr string, err error) {
	kind := expression.ErrorKind(err)

	evalCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.String("outcome", "rejected"),
	))
	expressionsTotal.WithLabelValues("rejected", kind).Inc()

	observability.RecordError(ctx, span, logger.With(zap.String("expression", expr)), errorCounter, opName,
		"expression rejected", err, attribute.String("error.kind", kind))
}

func newErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{
		Error:  err.Error(),
		Kind:   expression.ErrorKind(err),
		Result: expression.NotPerformed,
	}
	if pos, ok := expression.ErrorPosition(err); ok {
		resp.Position = &pos
	}
	return resp
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
