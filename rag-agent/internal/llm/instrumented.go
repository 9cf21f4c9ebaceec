package llm

import (
	"context"
	"time"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/metrics"
)

// Instrumented records call counts and latency for a backend.
type Instrumented struct {
	next     Client
	provider string
}

// NewInstrumented wraps next, labelling its metrics with provider.
func NewInstrumented(next Client, provider string) *Instrumented {
	return &Instrumented{next: next, provider: provider}
}

func (i *Instrumented) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	start := time.Now()
	defer func() {
		metrics.CompletionDuration.WithLabelValues(i.provider).Observe(time.Since(start).Seconds())
	}()

	text, err := i.next.Complete(ctx, messages, opts)
	if err != nil {
		metrics.CompletionCallsTotal.WithLabelValues(i.provider, "error").Inc()
		return "", err
	}
	metrics.CompletionCallsTotal.WithLabelValues(i.provider, "success").Inc()
	return text, nil
}
