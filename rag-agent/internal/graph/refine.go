package graph

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/llm"
)

const maxFollowUpRunes = 200

// refine runs one corrective retrieval pass over the initial answer.
func (e *Engine) refine(ctx context.Context, s State) (Patch, error) {
	refined := e.fixtures.RefinedAnswer
	if !s.Mock {
		var err error
		if refined, err = e.refineLive(ctx, s); err != nil {
			return Patch{}, err
		}
	}
	return Patch{
		RefinedAnswer: &refined,
		Iteration:     ptr(s.Iteration + 1),
		Trace:         []string{fmt.Sprintf("[refine] Synthesized %d chars", utf8.RuneCountInString(refined))},
	}, nil
}

func (e *Engine) refineLive(ctx context.Context, s State) (string, error) {
	followUpPrompt := fmt.Sprintf(
		"Original question: %s\n\n"+
			"Initial answer (may be incomplete): %s\n\n"+
			"Critique: %s\n\n"+
			"Generate a more specific follow-up question to retrieve missing information. "+
			"One short question only, no explanation.",
		s.Question, s.RAGAnswer, s.Critique,
	)
	followUp, err := e.complete(ctx, llm.UserMessage(followUpPrompt), llm.Options{})
	if err != nil {
		return "", fmt.Errorf("follow-up question: %w", err)
	}
	followUp = CleanFollowUp(followUp)

	supplemental, err := e.askExpert(ctx, followUp)
	if err != nil {
		return "", fmt.Errorf("supplemental answer: %w", err)
	}

	combinePrompt := fmt.Sprintf(
		"Original question: %s\n\n"+
			"Initial answer: %s\n\n"+
			"Supplemental info (from follow-up): %s\n\n"+
			"Combine into one complete, concise answer. Do not repeat yourself.",
		s.Question, s.RAGAnswer, supplemental,
	)
	return e.complete(ctx, llm.UserMessage(combinePrompt), llm.Options{})
}

// CleanFollowUp trims the generated follow-up question, drops one leading
// and one trailing quote, and caps it at 200 runes.
func CleanFollowUp(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, `"`) || strings.HasPrefix(text, "'") {
		text = text[1:]
	}
	if strings.HasSuffix(text, `"`) || strings.HasSuffix(text, "'") {
		text = text[:len(text)-1]
	}
	if utf8.RuneCountInString(text) > maxFollowUpRunes {
		text = string([]rune(text)[:maxFollowUpRunes])
	}
	return text
}
