// Package plan models the Terraform resource graph that enrichment is
// attached to.
package plan

import (
	"encoding/json"
	"sort"
)

// Insight is the structured analysis extracted for one resource.
type Insight struct {
	Summary         string   `json:"summary"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// AIView is the legacy per-node shape consumed by the graph viewer. The
// misspelt keys are part of the wire format.
type AIView struct {
	Issues          []string `json:"Issues"`
	Summary         string   `json:"Sumary"`
	Recommendations []string `json:"Recomendations"`
}

// Change describes the planned change for a resource.
type Change struct {
	Actions []string       `json:"actions"`
	Before  map[string]any `json:"before"`
	After   map[string]any `json:"after"`
	Diff    map[string]any `json:"diff"`
}

// Resource is a single resource entry inside a graph node.
type Resource struct {
	Address string `json:"address"`
	Type    string `json:"type"`
	Change  Change `json:"change"`
}

// Node is one vertex of the plan graph.
type Node struct {
	Resources     map[string]Resource `json:"resources"`
	EdgesNew      []string            `json:"edges_new"`
	EdgesExisting []string            `json:"edges_existing"`
	Enrichment    *Insight            `json:"enrichment,omitempty"`
	AI            *AIView             `json:"AI,omitempty"`
}

// Graph maps a resource identifier to its node.
type Graph map[string]*Node

// ResourceIDs returns the node identifiers in sorted order.
func (g Graph) ResourceIDs() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	data, err := json.Marshal(g)
	if err != nil {
		panic("plan: graph is not serialisable: " + err.Error())
	}
	out := Graph{}
	if err := json.Unmarshal(data, &out); err != nil {
		panic("plan: graph round trip failed: " + err.Error())
	}
	return out
}

// Apply attaches insights to every node. Nodes without an insight get empty
// values so the viewer always sees both shapes.
func (g Graph) Apply(insights map[string]Insight) {
	for id, node := range g {
		in := insights[id]
		issues := nonNil(in.Issues)
		recs := nonNil(in.Recommendations)
		node.Enrichment = &Insight{
			Summary:         in.Summary,
			Issues:          issues,
			Recommendations: recs,
		}
		node.AI = &AIView{
			Issues:          issues,
			Summary:         in.Summary,
			Recommendations: recs,
		}
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
