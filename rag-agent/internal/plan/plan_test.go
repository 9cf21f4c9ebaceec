package plan

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_ResourceIDs(t *testing.T) {
	want := []string{
		"aws_lambda_function.writer",
		"aws_s3_bucket.test",
		"aws_sqs_queue.input",
	}
	if diff := cmp.Diff(want, MockGraph().ResourceIDs()); diff != "" {
		t.Errorf("ResourceIDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestGraph_CloneIsIndependent(t *testing.T) {
	g := MockGraph()
	clone := g.Clone()

	clone["aws_s3_bucket.test"].EdgesNew[0] = "changed"
	clone.Apply(map[string]Insight{})

	assert.Equal(t, "aws_lambda_function.writer", g["aws_s3_bucket.test"].EdgesNew[0])
	assert.Nil(t, g["aws_s3_bucket.test"].Enrichment)
}

func TestGraph_Apply(t *testing.T) {
	g := MockGraph()
	g.Apply(map[string]Insight{
		"aws_lambda_function.writer": {
			Summary:         "Lambda function triggered by SQS.",
			Issues:          []string{"No dead letter queue"},
			Recommendations: []string{"Add a DLQ"},
		},
	})

	lambda := g["aws_lambda_function.writer"]
	require.NotNil(t, lambda.Enrichment)
	assert.Equal(t, "Lambda function triggered by SQS.", lambda.Enrichment.Summary)
	assert.Equal(t, []string{"No dead letter queue"}, lambda.AI.Issues)
	assert.Equal(t, "Lambda function triggered by SQS.", lambda.AI.Summary)

	bucket := g["aws_s3_bucket.test"]
	require.NotNil(t, bucket.Enrichment)
	assert.Equal(t, "", bucket.Enrichment.Summary)
	assert.Equal(t, []string{}, bucket.Enrichment.Issues)
	assert.Equal(t, []string{}, bucket.AI.Recommendations)
}

func TestGraph_ApplyWireFormat(t *testing.T) {
	g := Graph{"aws_sqs_queue.input": MockGraph()["aws_sqs_queue.input"]}
	g.Apply(map[string]Insight{"aws_sqs_queue.input": {Summary: "queue"}})

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var decoded map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	node := decoded["aws_sqs_queue.input"]

	assert.JSONEq(t, `{"summary":"queue","issues":[],"recommendations":[]}`, string(node["enrichment"]))
	assert.JSONEq(t, `{"Issues":[],"Sumary":"queue","Recomendations":[]}`, string(node["AI"]))
	assert.JSONEq(t, `[]`, string(node["edges_new"]))
}
