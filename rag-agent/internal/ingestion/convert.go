package ingestion

import (
	"strings"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/plan"
)

var nonResourcePrefixes = []string{"provider", "var.", "output.", "local.", "meta."}

// isResourceID reports whether a cleaned DOT id names a resource.
func isResourceID(id string) bool {
	if id == "root" || !strings.Contains(id, ".") {
		return false
	}
	for _, p := range nonResourcePrefixes {
		if strings.HasPrefix(id, p) {
			return false
		}
	}
	return true
}

// resourceType returns the type segment of an address such as
// module.net.aws_subnet.private.
func resourceType(address string) string {
	parts := strings.Split(address, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// ToPlanGraph keeps the resource nodes of a DOT graph. An edge a -> b is
// recorded as a.edges_new += b and b.edges_existing += a.
func ToPlanGraph(dot *DOTGraph) plan.Graph {
	g := plan.Graph{}
	for _, n := range dot.Nodes {
		id := CleanID(n.ID)
		if !isResourceID(id) {
			continue
		}
		if _, ok := g[id]; ok {
			continue
		}
		g[id] = &plan.Node{
			Resources: map[string]plan.Resource{
				id: {
					Address: id,
					Type:    resourceType(id),
					Change: plan.Change{
						Actions: []string{},
						Before:  map[string]any{},
						After:   map[string]any{},
						Diff:    map[string]any{},
					},
				},
			},
			EdgesNew:      []string{},
			EdgesExisting: []string{},
		}
	}

	for _, e := range dot.Edges {
		src, tgt := CleanID(e.Source), CleanID(e.Target)
		if src == tgt {
			continue
		}
		from, ok := g[src]
		if !ok {
			continue
		}
		to, ok := g[tgt]
		if !ok {
			continue
		}
		from.EdgesNew = appendUnique(from.EdgesNew, tgt)
		to.EdgesExisting = appendUnique(to.EdgesExisting, src)
	}
	return g
}

func appendUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}
