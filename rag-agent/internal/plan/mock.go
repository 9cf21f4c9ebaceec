package plan

func noop(address, typ string, attrs map[string]any) map[string]Resource {
	return map[string]Resource{
		address: {
			Address: address,
			Type:    typ,
			Change: Change{
				Actions: []string{"no-op"},
				Before:  attrs,
				After:   attrs,
				Diff:    map[string]any{},
			},
		},
	}
}

// MockGraph returns the fixed three-resource plan graph used in mock mode.
// Every call returns a fresh copy.
func MockGraph() Graph {
	return Graph{
		"aws_s3_bucket.test": {
			Resources:     noop("aws_s3_bucket.test", "aws_s3_bucket", map[string]any{"bucket": "my-test-bucket"}),
			EdgesNew:      []string{"aws_lambda_function.writer"},
			EdgesExisting: []string{},
		},
		"aws_lambda_function.writer": {
			Resources:     noop("aws_lambda_function.writer", "aws_lambda_function", map[string]any{"function_name": "writer"}),
			EdgesNew:      []string{"aws_sqs_queue.input"},
			EdgesExisting: []string{"aws_s3_bucket.test"},
		},
		"aws_sqs_queue.input": {
			Resources:     noop("aws_sqs_queue.input", "aws_sqs_queue", map[string]any{"name": "input-queue"}),
			EdgesNew:      []string{},
			EdgesExisting: []string{"aws_lambda_function.writer"},
		},
	}
}
