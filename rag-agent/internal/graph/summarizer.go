package graph

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/llm"
)

// synthesize merges the sub-answers into one narrative.
func (e *Engine) synthesize(ctx context.Context, s State) (Patch, error) {
	synthesized := e.fixtures.SynthesizedAnswer
	if !s.Mock {
		sections := make([]string, len(s.SubAnswers))
		for i, a := range s.SubAnswers {
			sections[i] = fmt.Sprintf("### %d. %s\n%s", i+1, a.Question, a.Answer)
		}

		prompt := fmt.Sprintf(
			"Original question: %s\n\n"+
				"Below are answers to specific sub-questions about the Terraform infrastructure.\n"+
				"Synthesize them into one coherent, well-structured answer. Group by concern if helpful.\n"+
				"Include any issues or recommendations. Be concise but complete.\n\n"+
				"Sub-question answers:\n%s\n\nSynthesized answer:",
			s.Question,
			strings.Join(sections, "\n"),
		)

		var err error
		if synthesized, err = e.complete(ctx, llm.UserMessage(prompt), llm.Options{}); err != nil {
			return Patch{}, err
		}
	}
	return Patch{
		SynthesizedAnswer: &synthesized,
		Trace: []string{fmt.Sprintf("[synthesize] Combined %d answers (%d chars)",
			len(s.SubAnswers), utf8.RuneCountInString(synthesized))},
	}, nil
}
