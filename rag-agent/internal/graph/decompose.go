package graph

import (
	"context"
	"fmt"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/llm"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/parse"
)

const maxSubQuestions = 6

const decomposePrompt = `Given this Terraform/infrastructure question, decompose it into 3-5 specific sub-questions.
Each sub-question should target a different concern. Use these categories when relevant:
- Terraform deployment issues (syntax, plan errors, state)
- Security issues (IAM, permissions, exposed resources)
- Networking issues (VPC, subnets, connectivity)
- Missing resources or dependencies (resources needed but not defined)
- Configuration issues (incorrect values, drift)

Original question: %s

Return a JSON array of strings only. Example: ["question 1?", "question 2?", "question 3?"]
Output only the JSON array, no other text.`

// FallbackSubQuestions is used when the model does not return a usable list.
func FallbackSubQuestions() []string {
	return []string{
		"Are there Terraform deployment or plan issues?",
		"Are there security or IAM issues?",
		"Are there networking or connectivity issues?",
		"Are there any missing resources or dependencies?",
		"Does each aws_lambda_function that should consume from SQS/Kinesis have a corresponding aws_lambda_event_source_mapping?",
		"Are there configuration or drift issues?",
	}
}

func (e *Engine) decompose(ctx context.Context, s State) (Patch, error) {
	var questions []string
	if s.Mock {
		questions = append([]string{}, e.fixtures.SubQuestions...)
	} else {
		text, err := e.complete(ctx, llm.UserMessage(fmt.Sprintf(decomposePrompt, s.Question)), llm.Options{})
		if err != nil {
			return Patch{}, err
		}
		var ok bool
		if questions, ok = parse.StringList(text, maxSubQuestions); !ok {
			e.logger.Debug("decomposition unusable, using fallback questions")
			questions = FallbackSubQuestions()
		}
	}
	return Patch{
		SubQuestions: questions,
		Trace:        []string{fmt.Sprintf("[decompose] Generated %d sub-questions", len(questions))},
	}, nil
}
