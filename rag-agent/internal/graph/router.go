package graph

import (
	"context"
	"fmt"
	"strings"
)

// Route is the path a question takes through the graph.
type Route string

const (
	RouteSimple   Route = "simple"
	RouteComplex  Route = "complex"
	RouteAnalysis Route = "analysis"
)

// RouteRule assigns Route to questions containing any of Keywords.
type RouteRule struct {
	Route    Route
	Keywords []string
}

// DefaultRouteRules returns the built-in rules in priority order.
func DefaultRouteRules() []RouteRule {
	return []RouteRule{
		{
			Route: RouteAnalysis,
			Keywords: []string{
				"bug", "error", "issue", "correct", "wrong", "problem", "analyze",
				"lambda", "event_source", "event source mapping", "trigger",
				"consumer", "missing",
			},
		},
		{
			Route:    RouteComplex,
			Keywords: []string{"depend", "use", "connect", "link", "chain", "impact"},
		},
	}
}

// Classify returns the route of the first rule with a keyword contained in
// the lower-cased question, or RouteSimple.
func Classify(question string, rules []RouteRule) Route {
	q := strings.ToLower(question)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(q, strings.ToLower(kw)) {
				return rule.Route
			}
		}
	}
	return RouteSimple
}

func (e *Engine) classify(_ context.Context, s State) (Patch, error) {
	route := Classify(s.Question, e.rules)
	return Patch{
		Route: &route,
		Trace: []string{fmt.Sprintf("[router] Classified as '%s'", route)},
	}, nil
}
