// Package usecases - query.go answers a sales question end to end.
package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/aggregate"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/daterange"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/entities"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/ports"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/retrieval"
	"github.com/0xcro3dile/salesinsight-go/internal/observability"
)

// DefaultTopK is the number of grounding snippets used when none is configured.
const DefaultTopK = 4

// ErrEmptyQuestion is returned when the question is blank.
var ErrEmptyQuestion = errors.New("question is empty")

// QueryUseCase turns a question into a grounded answer:
// resolve dates, fetch orders, aggregate, retrieve context, generate.
type QueryUseCase struct {
	resolver   *daterange.Resolver
	orders     ports.OrderSource
	aggregator *aggregate.Aggregator
	policy     aggregate.Policy
	retriever  *retrieval.Retriever
	llm        ports.LLMService
	topK       int
	now        func() time.Time
	log        *zap.Logger
}

// Option customizes a QueryUseCase.
type Option func(*QueryUseCase)

// WithClock overrides the time source used to resolve relative dates.
func WithClock(now func() time.Time) Option {
	return func(uc *QueryUseCase) { uc.now = now }
}

// WithPolicy overrides the order filter policy.
func WithPolicy(p aggregate.Policy) Option {
	return func(uc *QueryUseCase) { uc.policy = p }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(uc *QueryUseCase) { uc.log = log }
}

// NewQueryUseCase creates a QueryUseCase with injected dependencies.
func NewQueryUseCase(
	resolver *daterange.Resolver,
	orders ports.OrderSource,
	aggregator *aggregate.Aggregator,
	retriever *retrieval.Retriever,
	llm ports.LLMService,
	topK int,
	opts ...Option,
) *QueryUseCase {
	if topK <= 0 {
		topK = DefaultTopK
	}
	uc := &QueryUseCase{
		resolver:   resolver,
		orders:     orders,
		aggregator: aggregator,
		policy:     aggregate.DefaultPolicy,
		retriever:  retriever,
		llm:        llm,
		topK:       topK,
		now:        time.Now,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Query answers req. Only an order fetch failure is fatal; a generation
// failure is reported inside the answer text.
func (uc *QueryUseCase) Query(ctx context.Context, req *entities.ChatRequest) (resp *entities.ChatResponse, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		observability.QueriesTotal.WithLabelValues(status).Inc()
		observability.QueryDuration.Observe(time.Since(start).Seconds())
	}()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	// 1. Resolve the date range
	interval, rule := uc.resolver.ResolveWithRule(question, uc.now())
	uc.log.Debug("resolved date range",
		zap.String("rule", rule),
		zap.String("range", interval.String()),
	)

	// 2. Fetch orders
	orders, err := uc.orders.FetchOrders(ctx, req.ForceRefresh)
	if err != nil {
		return nil, fmt.Errorf("fetching orders: %w", err)
	}

	// 3. Filter and aggregate
	payload := uc.aggregator.Summarize(orders, interval, uc.policy)
	uc.log.Info("aggregated orders",
		zap.Int("fetched", len(orders)),
		zap.Int("matched", payload.OrderCount),
		zap.String("revenue", aggregate.FormatDollars(payload.RevenueTotalCents)),
	)

	// 4. Retrieve grounding context
	snippets := uc.retrieve(ctx, question, req.TopK)

	// 5. Generate the answer
	answer, err := uc.generate(ctx, question, interval, payload, snippets)
	if err != nil {
		return nil, err
	}

	return &entities.ChatResponse{
		Answer:   answer,
		Interval: interval,
		Payload:  payload,
		Snippets: snippets,
	}, nil
}

// retrieve ranks the corpus. A scoring failure only loses context.
func (uc *QueryUseCase) retrieve(ctx context.Context, question string, k int) []entities.Snippet {
	if k <= 0 {
		k = uc.topK
	}
	if uc.retriever == nil {
		return []entities.Snippet{}
	}
	snippets, err := uc.retriever.Retrieve(ctx, question, k)
	if err != nil {
		uc.log.Warn("retrieval failed, answering without context", zap.Error(err))
		return []entities.Snippet{}
	}
	return snippets
}

func (uc *QueryUseCase) generate(
	ctx context.Context,
	question string,
	interval entities.DateInterval,
	payload entities.AggregatePayload,
	snippets []entities.Snippet,
) (string, error) {
	prompt, err := buildPrompt(question, interval, payload, snippets)
	if err != nil {
		return "", err
	}

	provider := uc.llm.Name()
	answer, err := uc.llm.Generate(ctx, SystemPrompt, prompt)
	if err != nil {
		observability.LLMRequestsTotal.WithLabelValues(provider, "error").Inc()
		uc.log.Error("generation failed", zap.String("provider", provider), zap.Error(err))
		return fmt.Sprintf("⚠️ LLM API error: %v", err), nil
	}
	observability.LLMRequestsTotal.WithLabelValues(provider, "ok").Inc()
	return answer, nil
}
