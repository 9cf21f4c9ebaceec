package ingestion

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"regexp"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/plan"
)

// TerraformPlan is the subset of `terraform show -json` output the viewer
// uses.
type TerraformPlan struct {
	FormatVersion    string           `json:"format_version"`
	TerraformVersion string           `json:"terraform_version"`
	PlannedValues    PlannedValues    `json:"planned_values"`
	ResourceChanges  []ResourceChange `json:"resource_changes"`
}

// PlannedValues holds the module tree after the plan is applied.
type PlannedValues struct {
	RootModule PlanModule `json:"root_module"`
}

// PlanModule is a module in the planned values tree.
type PlanModule struct {
	Address      string         `json:"address"`
	Resources    []PlanResource `json:"resources"`
	ChildModules []PlanModule   `json:"child_modules"`
}

// PlanResource is a resource instance in the planned values tree.
type PlanResource struct {
	Address      string         `json:"address"`
	Mode         string         `json:"mode"`
	Type         string         `json:"type"`
	Name         string         `json:"name"`
	ProviderName string         `json:"provider_name"`
	Values       map[string]any `json:"values"`
}

// ResourceChange is one entry of resource_changes.
type ResourceChange struct {
	Address string `json:"address"`
	Mode    string `json:"mode"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Change  struct {
		Actions []string       `json:"actions"`
		Before  map[string]any `json:"before"`
		After   map[string]any `json:"after"`
	} `json:"change"`
}

// ParsePlanJSON decodes `terraform show -json` output.
func ParsePlanJSON(r io.Reader) (*TerraformPlan, error) {
	var p TerraformPlan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding terraform plan: %w", err)
	}
	return &p, nil
}

// isPlanJSON reports whether a decoded JSON object looks like
// `terraform show -json` output rather than a serialised plan.Graph.
func isPlanJSON(top map[string]json.RawMessage) bool {
	for _, key := range []string{"format_version", "planned_values", "resource_changes"} {
		if _, ok := top[key]; ok {
			return true
		}
	}
	return false
}

// Resources returns every planned resource, walking child modules depth
// first.
func (p *TerraformPlan) Resources() []PlanResource {
	var out []PlanResource
	var walk func(m PlanModule)
	walk = func(m PlanModule) {
		out = append(out, m.Resources...)
		for _, child := range m.ChildModules {
			walk(child)
		}
	}
	walk(p.PlannedValues.RootModule)
	return out
}

var instanceKeyRe = regexp.MustCompile(`\[[^\]]*\]$`)

// nodeID maps an instance address such as aws_instance.web[0] to the graph
// node that terraform graph draws for it.
func nodeID(address string) string {
	return instanceKeyRe.ReplaceAllString(address, "")
}

// ToPlanGraph builds a graph with one node per resource in the plan. The
// plan carries no dependency edges, so every edge list is empty.
func (p *TerraformPlan) ToPlanGraph() plan.Graph {
	g := plan.Graph{}
	for _, r := range p.Resources() {
		addInstance(g, r.Address, r.Type, plan.Change{})
	}
	p.MergeInto(g)
	return g
}

// MergeInto fills the change of every resource in g from resource_changes.
// Changes for resources g does not know about, such as deletions missing
// from a DOT graph, add new nodes.
func (p *TerraformPlan) MergeInto(g plan.Graph) {
	for _, rc := range p.ResourceChanges {
		before, after := nonNilMap(rc.Change.Before), nonNilMap(rc.Change.After)
		addInstance(g, rc.Address, rc.Type, plan.Change{
			Actions: rc.Change.Actions,
			Before:  before,
			After:   after,
			Diff:    diff(before, after),
		})
	}
}

func addInstance(g plan.Graph, address, typ string, change plan.Change) {
	id := nodeID(address)
	if !isResourceID(id) {
		return
	}
	if typ == "" {
		typ = resourceType(id)
	}
	node, ok := g[id]
	if !ok {
		node = &plan.Node{
			Resources:     map[string]plan.Resource{},
			EdgesNew:      []string{},
			EdgesExisting: []string{},
		}
		g[id] = node
	}
	if node.Resources == nil {
		node.Resources = map[string]plan.Resource{}
	}
	// an instance address replaces the bare placeholder from a DOT graph
	if address != id {
		if placeholder, ok := node.Resources[id]; ok && len(placeholder.Change.Actions) == 0 {
			delete(node.Resources, id)
		}
	}
	if existing, ok := node.Resources[address]; ok && len(change.Actions) == 0 {
		change = existing.Change
	}
	node.Resources[address] = plan.Resource{
		Address: address,
		Type:    typ,
		Change:  withEmptyDefaults(change),
	}
}

func withEmptyDefaults(c plan.Change) plan.Change {
	if c.Actions == nil {
		c.Actions = []string{}
	}
	c.Before = nonNilMap(c.Before)
	c.After = nonNilMap(c.After)
	c.Diff = nonNilMap(c.Diff)
	return c
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// diff returns the attributes whose value differs between before and after
// as {"before": x, "after": y}.
func diff(before, after map[string]any) map[string]any {
	out := map[string]any{}
	record := func(k string) {
		b, a := before[k], after[k]
		if !reflect.DeepEqual(b, a) {
			out[k] = map[string]any{"before": b, "after": a}
		}
	}
	for k := range before {
		record(k)
	}
	for k := range after {
		record(k)
	}
	return out
}
