package ingestion

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// DOTNode is a node statement from `terraform graph` output.
type DOTNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Shape string `json:"shape"`
}

// DOTEdge is a directed edge statement.
type DOTEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// DOTGraph holds the nodes and edges of a DOT document in source order.
type DOTGraph struct {
	Nodes []DOTNode `json:"nodes"`
	Edges []DOTEdge `json:"edges"`
}

var (
	// "[root] aws_s3_bucket.test (expand)" [label = "aws_s3_bucket.test", shape = "box"]
	nodeRe = regexp.MustCompile(`^\s*"(.+?)"\s*\[(.+)\]`)
	// "[root] aws_s3_bucket.test (expand)" -> "[root] provider[\"registry.opentofu.org/hashicorp/aws\"]"
	edgeRe  = regexp.MustCompile(`^\s*"(.+?)"\s*->\s*"(.+?)"`)
	labelRe = regexp.MustCompile(`label\s*=\s*"(.+?)"`)
	shapeRe = regexp.MustCompile(`shape\s*=\s*"(.+?)"`)
	// (expand), (close), (destroy), (expand, reference) ...
	suffixRe = regexp.MustCompile(`\s*\([^)]*\)$`)
)

// ParseDOT reads node and edge statements line by line. Lines that are
// neither are ignored.
func ParseDOT(r io.Reader) (*DOTGraph, error) {
	g := &DOTGraph{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := edgeRe.FindStringSubmatch(line); m != nil {
			g.Edges = append(g.Edges, DOTEdge{Source: m[1], Target: m[2]})
			continue
		}

		if m := nodeRe.FindStringSubmatch(line); m != nil {
			node := DOTNode{ID: m[1], Label: m[1], Shape: "box"}
			if lm := labelRe.FindStringSubmatch(m[2]); lm != nil {
				node.Label = lm[1]
			}
			if sm := shapeRe.FindStringSubmatch(m[2]); sm != nil {
				node.Shape = sm[1]
			}
			g.Nodes = append(g.Nodes, node)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dot graph: %w", err)
	}
	return g, nil
}

// CleanID strips the "[root] " prefix and any trailing parenthesised
// decoration terraform adds around resource addresses.
func CleanID(id string) string {
	id = strings.ReplaceAll(id, "[root] ", "")
	return strings.TrimSpace(suffixRe.ReplaceAllString(id, ""))
}
