package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/llm"
)

const critiqueSystem = "You are a strict quality assessor. Evaluate if the answer fully addresses the question " +
	`using ONLY the provided context. Answer with a JSON object: {"complete": true/false, "reason": "brief explanation"}.`

// critique asks whether the retrieved answer is complete.
func (e *Engine) critique(ctx context.Context, s State) (Patch, error) {
	if s.Mock {
		text := e.fixtures.Critique
		needs := e.fixtures.NeedsRefinement
		return Patch{
			Critique:        &text,
			NeedsRefinement: &needs,
			// mock traces print capitalised booleans
			Trace: []string{"[critique] needs_refinement=" + capitalBool(needs)},
		}, nil
	}

	prompt := fmt.Sprintf(
		"Question: %s\n\nAnswer to evaluate:\n%s\n\n"+
			"Is this answer complete and supported by the context? Reply with JSON only.",
		s.Question, s.RAGAnswer,
	)
	text, err := e.complete(ctx, llm.UserMessage(prompt), llm.Options{System: critiqueSystem})
	if err != nil {
		return Patch{}, err
	}

	needs := NeedsRefinement(text)
	return Patch{
		Critique:        &text,
		NeedsRefinement: &needs,
		Trace:           []string{fmt.Sprintf("[critique] needs_refinement=%t", needs)},
	}, nil
}

// NeedsRefinement is false only when the critique mentions both "true" and
// "complete", in any case. The raw text is not parsed as JSON.
func NeedsRefinement(critique string) bool {
	lower := strings.ToLower(critique)
	return !(strings.Contains(lower, "true") && strings.Contains(lower, "complete"))
}

func capitalBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
