package graph

import "github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/plan"

// Fixtures are the canned outputs returned by every node in mock mode.
// The default texts are shared with the other viewer backends and must
// match them byte for byte.
type Fixtures struct {
	RAGAnswer         string
	SubQuestions      []string
	SubAnswers        []SubAnswer
	SynthesizedAnswer string
	Critique          string
	NeedsRefinement   bool
	RefinedAnswer     string
	Enrichment        map[string]plan.Insight
}

// DefaultFixtures returns a fresh copy of the canonical mock data.
func DefaultFixtures() Fixtures {
	return Fixtures{
		RAGAnswer: "The Terraform plan contains an S3 bucket (aws_s3_bucket.test), " +
			"a Lambda function (aws_lambda_function.writer), and an SQS queue " +
			"(aws_sqs_queue.input). The Lambda is triggered by the SQS queue " +
			"via an event source mapping.",
		SubQuestions: []string{
			"Are there Terraform deployment or plan issues?",
			"Are there security or IAM issues?",
			"Are there any missing resources or dependencies?",
		},
		SubAnswers: []SubAnswer{
			{
				Question: "Are there Terraform deployment or plan issues?",
				Answer:   "No deployment issues found. All resources have valid configurations.",
			},
			{
				Question: "Are there security or IAM issues?",
				Answer:   "The Lambda function has an IAM role with appropriate SQS permissions.",
			},
			{
				Question: "Are there any missing resources or dependencies?",
				Answer:   "No missing dependencies detected. The event source mapping connects Lambda to SQS.",
			},
		},
		SynthesizedAnswer: "The Terraform plan is well-configured. No deployment issues, security gaps, " +
			"or missing dependencies were found. The Lambda function is properly connected " +
			"to the SQS queue via an event source mapping with appropriate IAM permissions.",
		Critique:        `{"complete": true, "reason": "The answer addresses the question with specific resource details."}`,
		NeedsRefinement: false,
		RefinedAnswer: "After additional review: The Terraform plan includes properly configured " +
			"resources with no issues detected.",
		Enrichment: map[string]plan.Insight{
			"aws_s3_bucket.test": {
				Summary:         "S3 bucket used for data storage. No issues detected.",
				Issues:          []string{},
				Recommendations: []string{},
			},
			"aws_lambda_function.writer": {
				Summary:         "Lambda function triggered by SQS queue via event source mapping.",
				Issues:          []string{"No dead letter queue configured for error handling"},
				Recommendations: []string{"Add a dead letter queue for failed invocations"},
			},
			"aws_sqs_queue.input": {
				Summary:         "SQS queue that triggers the Lambda function.",
				Issues:          []string{},
				Recommendations: []string{"Consider adding a message retention policy"},
			},
		},
	}
}

// subAnswer returns the canned answer for a sub-question, falling back to
// the single-question answer.
func (f Fixtures) subAnswer(question string) string {
	for _, a := range f.SubAnswers {
		if a.Question == question {
			return a.Answer
		}
	}
	return f.RAGAnswer
}

// enrichment returns the canned insights for the permitted ids.
func (f Fixtures) enrichment(resourceIDs []string) map[string]plan.Insight {
	out := make(map[string]plan.Insight)
	for _, id := range resourceIDs {
		in, ok := f.Enrichment[id]
		if !ok {
			continue
		}
		out[id] = plan.Insight{
			Summary:         in.Summary,
			Issues:          append([]string{}, in.Issues...),
			Recommendations: append([]string{}, in.Recommendations...),
		}
	}
	return out
}
