package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/graph"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/llm"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/storage"
)

// engine builds a workflow engine. Mock runs get no completion client.
func (a *app) engine(ctx context.Context, mock bool) (*graph.Engine, error) {
	if mock {
		return graph.New(nil, graph.WithLogger(a.logger)), nil
	}
	client, err := a.completionClient(ctx)
	if err != nil {
		return nil, err
	}
	return graph.New(client, graph.WithLogger(a.logger)), nil
}

func (a *app) completionClient(ctx context.Context) (llm.Client, error) {
	timeout, err := a.cfg.LLMTimeout()
	if err != nil {
		return nil, err
	}

	provider := a.cfg.LLM.Provider
	model := a.cfg.LLM.Model

	var client llm.Client
	switch provider {
	case "anthropic":
		client = llm.NewAnthropic(llm.AnthropicConfig{
			APIKey:     a.cfg.GetAPIKey(),
			BaseURL:    a.cfg.LLM.BaseURL,
			Model:      model,
			MaxTokens:  a.cfg.LLM.MaxTokens,
			MaxRetries: a.cfg.LLM.MaxRetries,
			Timeout:    timeout,
		})
	case "ollama":
		if strings.HasPrefix(model, "claude-") {
			model = ""
		}
		client = llm.NewOllama(a.cfg.LLM.BaseURL, model, &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
	client = llm.NewInstrumented(client, provider)

	if !a.cfg.Cache.Enabled {
		return client, nil
	}

	ttl, err := a.cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	rdb, err := storage.NewRedisClient(ctx, storage.RedisOptions{
		Addr:     a.cfg.Cache.RedisURL,
		Password: a.cfg.Cache.Password,
		DB:       a.cfg.Cache.DB,
	})
	if err != nil {
		a.logger.Warn("redis unavailable, completion cache disabled", zap.Error(err))
		_ = rdb.Close()
		return client, nil
	}

	cache := storage.NewCompletionCache(rdb, ttl)
	a.closers = append(a.closers, cache.Close)
	a.logger.Info("completion cache enabled", zap.String("addr", a.cfg.Cache.RedisURL), zap.Duration("ttl", ttl))
	return llm.NewCached(client, cache, provider+":"+model, a.logger), nil
}
