package ingestion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDOT = `digraph {
	compound = "true"
	newrank = "true"
	subgraph "root" {
		"[root] aws_lambda_function.writer (expand)" [label = "aws_lambda_function.writer", shape = "box"]
		"[root] aws_s3_bucket.test (expand)" [label = "aws_s3_bucket.test", shape = "box"]
		"[root] aws_sqs_queue.input (expand)" [label = "aws_sqs_queue.input", shape = "box"]
		"[root] provider[\"registry.opentofu.org/hashicorp/aws\"]" [label = "provider[\"registry.opentofu.org/hashicorp/aws\"]", shape = "diamond"]
		"[root] var.region" [label = "var.region", shape = "note"]
		"[root] aws_s3_bucket.test (expand)" -> "[root] aws_lambda_function.writer (expand)"
		"[root] aws_lambda_function.writer (expand)" -> "[root] aws_sqs_queue.input (expand)"
		"[root] aws_lambda_function.writer (expand)" -> "[root] aws_sqs_queue.input (expand)"
		"[root] aws_s3_bucket.test (expand)" -> "[root] provider[\"registry.opentofu.org/hashicorp/aws\"]"
		"[root] provider[\"registry.opentofu.org/hashicorp/aws\"]" -> "[root] var.region"
	}
}
`

func TestParseDOT(t *testing.T) {
	g, err := ParseDOT(strings.NewReader(sampleDOT))
	require.NoError(t, err)

	require.Len(t, g.Nodes, 5)
	assert.Equal(t, DOTNode{
		ID:    "[root] aws_lambda_function.writer (expand)",
		Label: "aws_lambda_function.writer",
		Shape: "box",
	}, g.Nodes[0])
	assert.Equal(t, "diamond", g.Nodes[3].Shape)

	require.Len(t, g.Edges, 5)
	assert.Equal(t, DOTEdge{
		Source: "[root] aws_s3_bucket.test (expand)",
		Target: "[root] aws_lambda_function.writer (expand)",
	}, g.Edges[0])
}

func TestParseDOT_Defaults(t *testing.T) {
	g, err := ParseDOT(strings.NewReader(`"node.a" [color = "red"]`))
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "node.a", g.Nodes[0].Label)
	assert.Equal(t, "box", g.Nodes[0].Shape)
}

func TestCleanID(t *testing.T) {
	assert.Equal(t, "aws_s3_bucket.test", CleanID("[root] aws_s3_bucket.test (expand)"))
	assert.Equal(t, "aws_s3_bucket.test", CleanID("[root] aws_s3_bucket.test (close)"))
	assert.Equal(t, "module.net.aws_subnet.a", CleanID("module.net.aws_subnet.a"))
	assert.Equal(t, "aws_s3_bucket.old", CleanID("[root] aws_s3_bucket.old (destroy)"))
	assert.Equal(t, "module.net.aws_subnet.a", CleanID("[root] module.net.aws_subnet.a (expand, reference)"))
	assert.Equal(t, `provider["registry.opentofu.org/hashicorp/aws"]`,
		CleanID(`[root] provider["registry.opentofu.org/hashicorp/aws"] (close)`))
}

func TestToPlanGraph_DecoratedIDs(t *testing.T) {
	dot, err := ParseDOT(strings.NewReader(`digraph {
	"[root] aws_s3_bucket.old (destroy)" [label = "aws_s3_bucket.old", shape = "box"]
	"[root] aws_s3_bucket.old (expand)" [label = "aws_s3_bucket.old", shape = "box"]
	"[root] module.net.aws_subnet.a (expand, reference)" [label = "module.net.aws_subnet.a", shape = "box"]
	"[root] aws_s3_bucket.old (destroy)" -> "[root] aws_s3_bucket.old (expand)"
	"[root] module.net.aws_subnet.a (expand, reference)" -> "[root] aws_s3_bucket.old (destroy)"
}`))
	require.NoError(t, err)

	g := ToPlanGraph(dot)

	assert.Equal(t, []string{"aws_s3_bucket.old", "module.net.aws_subnet.a"}, g.ResourceIDs())
	assert.Equal(t, []string{}, g["aws_s3_bucket.old"].EdgesNew)
	assert.Equal(t, []string{"module.net.aws_subnet.a"}, g["aws_s3_bucket.old"].EdgesExisting)
	assert.Equal(t, []string{"aws_s3_bucket.old"}, g["module.net.aws_subnet.a"].EdgesNew)
}

func TestToPlanGraph(t *testing.T) {
	dot, err := ParseDOT(strings.NewReader(sampleDOT))
	require.NoError(t, err)

	g := ToPlanGraph(dot)

	assert.Equal(t, []string{
		"aws_lambda_function.writer",
		"aws_s3_bucket.test",
		"aws_sqs_queue.input",
	}, g.ResourceIDs())

	assert.Equal(t, []string{"aws_lambda_function.writer"}, g["aws_s3_bucket.test"].EdgesNew)
	assert.Equal(t, []string{}, g["aws_s3_bucket.test"].EdgesExisting)
	assert.Equal(t, []string{"aws_sqs_queue.input"}, g["aws_lambda_function.writer"].EdgesNew)
	assert.Equal(t, []string{"aws_s3_bucket.test"}, g["aws_lambda_function.writer"].EdgesExisting)
	assert.Equal(t, []string{"aws_lambda_function.writer"}, g["aws_sqs_queue.input"].EdgesExisting)

	res := g["aws_sqs_queue.input"].Resources["aws_sqs_queue.input"]
	assert.Equal(t, "aws_sqs_queue", res.Type)
}

func TestResourceType(t *testing.T) {
	assert.Equal(t, "aws_subnet", resourceType("module.net.aws_subnet.private"))
	assert.Equal(t, "aws_s3_bucket", resourceType("aws_s3_bucket.test"))
	assert.Equal(t, "", resourceType("bare"))
}

func TestLoadGraph(t *testing.T) {
	dir := t.TempDir()
	dotPath := filepath.Join(dir, "graph.dot")
	require.NoError(t, os.WriteFile(dotPath, []byte(sampleDOT), 0o644))

	g, err := LoadGraph(dotPath)
	require.NoError(t, err)
	assert.Len(t, g, 3)

	jsonPath := filepath.Join(dir, "nodes.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"aws_s3_bucket.test": {"resources": {}, "edges_new": [], "edges_existing": []},
		"ghost": null
	}`), 0o644))

	g, err = LoadGraph(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"aws_s3_bucket.test"}, g.ResourceIDs())
}

func TestLoadGraph_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.dot"), []byte(sampleDOT), 0o644))

	g, err := LoadGraph(dir)
	require.NoError(t, err)
	assert.Len(t, g, 3)

	_, err = LoadGraph(t.TempDir())
	assert.Error(t, err)
}

func TestLoadGraph_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := LoadGraph(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
