package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/graph"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/plan"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	cfgPath := filepath.Join(t.TempDir(), "agent.toml")
	require.NoError(t, os.WriteFile(cfgPath, nil, 0o644))
	root.SetArgs(append(args, "--config", cfgPath))
	err := root.Execute()
	return out.String(), err
}

func TestQueryCmd_Mock(t *testing.T) {
	out, err := run(t, "query", "--mock", "Are", "there", "any", "bugs?")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Are there any bugs?", res["question"])
	assert.Equal(t, "analysis", res["route"])
	assert.Equal(t, graph.DefaultFixtures().SynthesizedAnswer, res["final_answer"])
}

func TestQueryCmd_RequiresQuestion(t *testing.T) {
	_, err := run(t, "query", "--mock")
	assert.Error(t, err)
}

func TestRootCmd_ExplicitConfigMustExist(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"query", "--mock", "hi", "--config", filepath.Join(t.TempDir(), "typo.toml")})

	err := root.Execute()
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnrichCmd_Mock(t *testing.T) {
	out, err := run(t, "enrich", "--mock", "--analysis", "anything",
		"--resource", "aws_sqs_queue.input", "--resource", "aws_iam_role.x")
	require.NoError(t, err)

	var got map[string]plan.Insight
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]plan.Insight{
		"aws_sqs_queue.input": {
			Summary:         "SQS queue that triggers the Lambda function.",
			Issues:          []string{},
			Recommendations: []string{"Consider adding a message retention policy"},
		},
	}, got)
}

func TestEnrichCmd_GraphAndFileAnalysis(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "nodes.json")
	data, err := json.Marshal(plan.MockGraph())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(graphPath, data, 0o644))
	analysisPath := filepath.Join(dir, "analysis.txt")
	require.NoError(t, os.WriteFile(analysisPath, []byte("the plan is fine"), 0o644))

	out, err := run(t, "enrich", "--mock", "--analysis", "@"+analysisPath, "--graph", graphPath)
	require.NoError(t, err)

	var got map[string]plan.Insight
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 3)
}

func TestEnrichCmd_PlanJSON(t *testing.T) {
	planPath := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(planPath, []byte(`{
  "format_version": "1.2",
  "resource_changes": [
    {"address": "aws_s3_bucket.test", "type": "aws_s3_bucket", "change": {"actions": ["create"], "before": null, "after": {}}},
    {"address": "aws_sqs_queue.input", "type": "aws_sqs_queue", "change": {"actions": ["no-op"], "before": {}, "after": {}}}
  ]
}`), 0o644))

	out, err := run(t, "enrich", "--mock", "--analysis", "x", "--plan", planPath)
	require.NoError(t, err)

	var got map[string]plan.Insight
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 2)
	assert.Contains(t, got, "aws_s3_bucket.test")
	assert.Contains(t, got, "aws_sqs_queue.input")
}

func TestEnrichCmd_NoResources(t *testing.T) {
	_, err := run(t, "enrich", "--mock", "--analysis", "x")
	assert.ErrorContains(t, err, "no resources")
}

func TestEnrichCmd_MissingAnalysisFile(t *testing.T) {
	_, err := run(t, "enrich", "--mock", "--analysis", "@/does/not/exist", "--resource", "a")
	assert.Error(t, err)
}

func TestReadArg(t *testing.T) {
	v, err := readArg("inline text")
	require.NoError(t, err)
	assert.Equal(t, "inline text", v)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, dedupe([]string{"a", "b", "a", "c", "b"}))
}
