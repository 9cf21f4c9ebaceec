package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		want     Route
	}{
		{"Are there any bugs in this plan?", RouteAnalysis},
		{"What resources does the plan create?", RouteSimple},
		{"How does the bucket connect to the queue?", RouteComplex},
		{"Which resources depend on the S3 bucket?", RouteComplex},
		{"Is the LAMBDA wired to a consumer?", RouteAnalysis},
		{"Is an event source mapping missing?", RouteAnalysis},
		// analysis outranks complex
		{"Which resources depend on the broken lambda?", RouteAnalysis},
		{"What is the impact of this error?", RouteAnalysis},
		{"", RouteSimple},
		// substring membership, not word matching
		{"Summarise the user data", RouteComplex},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.question, DefaultRouteRules()))
		})
	}
}

func TestClassify_AnalysisKeywordsAlwaysWin(t *testing.T) {
	var analysis, complexKw []string
	for _, r := range DefaultRouteRules() {
		switch r.Route {
		case RouteAnalysis:
			analysis = r.Keywords
		case RouteComplex:
			complexKw = r.Keywords
		}
	}
	for _, a := range analysis {
		for _, c := range complexKw {
			q := "does the " + c + " relate to a " + a + " here"
			assert.Equal(t, RouteAnalysis, Classify(q, DefaultRouteRules()), q)
		}
	}
}

func TestClassify_CustomRules(t *testing.T) {
	rules := append([]RouteRule{{Route: RouteComplex, Keywords: []string{"Blast Radius"}}}, DefaultRouteRules()...)

	assert.Equal(t, RouteComplex, Classify("what is the blast radius of this bug", rules))
	assert.Equal(t, RouteSimple, Classify("list the buckets", nil))
}
