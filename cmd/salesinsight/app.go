package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/0xcro3dile/salesinsight-go/internal/adapters/cache"
	"github.com/0xcro3dile/salesinsight-go/internal/adapters/dateparser"
	"github.com/0xcro3dile/salesinsight-go/internal/adapters/embedding"
	"github.com/0xcro3dile/salesinsight-go/internal/adapters/filewatcher"
	"github.com/0xcro3dile/salesinsight-go/internal/adapters/llm"
	"github.com/0xcro3dile/salesinsight-go/internal/adapters/salesapi"
	"github.com/0xcro3dile/salesinsight-go/internal/config"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/aggregate"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/daterange"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/ports"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/retrieval"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/usecases"
)

// app holds the wired components and what must be released on exit.
type app struct {
	queries *usecases.QueryUseCase
	orders  *salesapi.Client
	cache   ports.ResponseCache
	watcher *filewatcher.FSNotifyWatcher
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger, serve bool) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	respCache, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cache: respCache}

	a.orders = salesapi.NewClient(cfg.SalesAPI.URL, cfg.SalesAPI.Timeout, respCache, log.Named("salesapi"))

	generator, err := llm.New(llm.Options{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		OllamaURL:   cfg.Ollama.URL,
		OllamaModel: cfg.Ollama.Model,
	}, log.Named("llm"))
	if err != nil {
		a.Close()
		return nil, err
	}

	retriever, err := newRetriever(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.queries = usecases.NewQueryUseCase(
		daterange.NewResolver(loc, dateparser.NewWhenParser(log.Named("dateparser"))),
		a.orders,
		aggregate.NewAggregator(loc, aggregate.DefaultTopN),
		retriever,
		generator,
		cfg.Retrieval.TopK,
		usecases.WithPolicy(policy),
		usecases.WithLogger(log.Named("query")),
	)

	// Only a long-running server benefits from noticing cache rewrites
	// by other processes.
	if serve && cfg.Cache.Backend == "sqlite" {
		w, err := filewatcher.NewFSNotifyWatcher(nil, log.Named("filewatcher"))
		if err != nil {
			log.Warn("cache watcher unavailable", zap.Error(err))
		} else {
			a.watcher = w
		}
	}

	log.Info("components ready",
		zap.String("llm", generator.Name()),
		zap.String("cache", cfg.Cache.Backend),
		zap.String("retrieval", cfg.Retrieval.Backend),
		zap.String("timezone", loc.String()),
	)
	return a, nil
}

func newCache(ctx context.Context, cfg *config.Config) (ports.ResponseCache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		c, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	default:
		c, err := cache.NewSQLiteCache(cfg.Cache.Dir, cfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("sqlite cache: %w", err)
		}
		return c, nil
	}
}

// newRetriever indexes the grounding corpus. An unreachable embedding
// backend falls back to bag-of-words.
func newRetriever(ctx context.Context, cfg *config.Config, log *zap.Logger) (*retrieval.Retriever, error) {
	docs := retrieval.SalesDocs()

	if cfg.Retrieval.Backend == "ollama" {
		embedder := embedding.NewOllamaAdapter(cfg.Ollama.URL, cfg.Ollama.EmbedModel, log.Named("embedding"))
		r, err := retrieval.NewRetriever(ctx, docs, retrieval.NewEmbeddingScorer(embedder))
		if err == nil {
			return r, nil
		}
		log.Warn("embedding retrieval unavailable, using bag-of-words", zap.Error(err))
	}

	return retrieval.NewRetriever(ctx, docs, retrieval.NewBagOfWords())
}

// Close releases the watcher and the cache connection.
func (a *app) Close() error {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}
