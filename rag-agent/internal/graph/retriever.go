package graph

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/llm"
)

const (
	planExpertSystem = "You are a Terraform infrastructure expert. Answer questions about resources, " +
		"dependencies, and the Terraform plan. Be concise."
	expertSystem = "You are a Terraform infrastructure expert. Be concise."
)

// retrieve answers the question directly.
func (e *Engine) retrieve(ctx context.Context, s State) (Patch, error) {
	answer := e.fixtures.RAGAnswer
	if !s.Mock {
		var err error
		answer, err = e.complete(ctx,
			llm.UserMessage("You are a Terraform infrastructure expert. Answer this question about a Terraform plan:\n\n"+s.Question),
			llm.Options{System: planExpertSystem},
		)
		if err != nil {
			return Patch{}, err
		}
	}
	return Patch{
		RAGAnswer: &answer,
		Trace:     []string{fmt.Sprintf("[rag] Retrieved answer (%d chars)", utf8.RuneCountInString(answer))},
	}, nil
}

// askExpert answers one focused question. Used by the fan-out and by refine.
func (e *Engine) askExpert(ctx context.Context, question string) (string, error) {
	return e.complete(ctx,
		llm.UserMessage("You are a Terraform infrastructure expert. Answer this question:\n\n"+question),
		llm.Options{System: expertSystem},
	)
}

// multiRetrieve answers every sub-question concurrently. Answers keep the
// order of SubQuestions; any failure fails the node.
func (e *Engine) multiRetrieve(ctx context.Context, s State) (Patch, error) {
	answers := make([]SubAnswer, len(s.SubQuestions))

	if s.Mock {
		for i, q := range s.SubQuestions {
			answers[i] = SubAnswer{Question: q, Answer: e.fixtures.subAnswer(q)}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, q := range s.SubQuestions {
			i, q := i, q // per-iteration copies; module targets go 1.21 loop semantics
			g.Go(func() error {
				answer, err := e.askExpert(gctx, q)
				if err != nil {
					e.logger.Debug("sub-question failed", zap.Int("index", i+1), zap.Error(err))
					return err
				}
				answers[i] = SubAnswer{Question: q, Answer: answer}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Patch{}, err
		}
	}

	return Patch{
		SubAnswers: answers,
		Trace:      []string{fmt.Sprintf("[multi_rag] Retrieved %d sub-answers in parallel", len(answers))},
	}, nil
}
