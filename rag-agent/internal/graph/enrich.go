package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/llm"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/metrics"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/parse"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/plan"
)

const enrichRules = `For each resource path that the analysis discusses, extract what it says. Return a JSON object where each key is a resource path (exact string from the list) and each value is:
{ "summary": "brief 1-2 sentence summary for this resource", "issues": ["issue1", "issue2"], "recommendations": ["rec1", "rec2"] }

Rules:
- Only include paths that appear in the list and that the analysis discusses
- If the analysis doesn't mention a resource, omit it (don't include empty entries)
- Use empty arrays for issues/recommendations if none
- Return valid JSON only, no markdown or extra text`

// EnrichResources maps analysisText onto the given resource ids. Only ids in
// resourceIDs can appear in the result, and ids the analysis does not cover
// are omitted. It never fails: completion errors and unparseable output are
// logged and produce an empty map.
func (e *Engine) EnrichResources(ctx context.Context, analysisText string, subAnswers []SubAnswer, resourceIDs []string, mock bool) map[string]plan.Insight {
	mode := metrics.Mode(mock)
	if len(resourceIDs) == 0 {
		metrics.EnrichmentsTotal.WithLabelValues(mode, "skipped").Inc()
		return map[string]plan.Insight{}
	}
	if mock {
		metrics.EnrichmentsTotal.WithLabelValues(mode, "ok").Inc()
		return e.fixtures.enrichment(resourceIDs)
	}

	ctx, span := e.tracer.Start(ctx, "graph.enrich")
	defer span.End()

	text, err := e.complete(ctx, llm.UserMessage(enrichPrompt(analysisText, subAnswers, resourceIDs)), llm.Options{})
	if err != nil {
		span.RecordError(err)
		metrics.EnrichmentsTotal.WithLabelValues(mode, "error").Inc()
		e.logger.Warn("enrichment call failed", zap.Int("resources", len(resourceIDs)), zap.Error(err))
		return map[string]plan.Insight{}
	}

	insights := parse.Insights(text, resourceIDs)
	metrics.EnrichmentsTotal.WithLabelValues(mode, "ok").Inc()
	e.logger.Debug("enrichment parsed",
		zap.Int("resources", len(resourceIDs)),
		zap.Int("matched", len(insights)),
	)
	return insights
}

func enrichPrompt(analysisText string, subAnswers []SubAnswer, resourceIDs []string) string {
	var b strings.Builder
	b.WriteString("Given this Terraform infrastructure analysis:\n\n")
	fmt.Fprintf(&b, "=== SYNTHESIZED ANALYSIS ===\n%s\n=== END ===\n\n", analysisText)

	if len(subAnswers) > 0 {
		pairs := make([]string, len(subAnswers))
		for i, a := range subAnswers {
			pairs[i] = fmt.Sprintf("Q: %s\nA: %s", a.Question, a.Answer)
		}
		fmt.Fprintf(&b, "\n=== SUB-QUESTION ANSWERS (additional context) ===\n%s\n=== END ===\n\n", strings.Join(pairs, "\n\n"))
	}

	fmt.Fprintf(&b, "And these resource paths from the Terraform plan:\n%s\n\n", idList(resourceIDs))
	b.WriteString(enrichRules)
	return b.String()
}

// idList renders ids as a compact JSON array.
func idList(ids []string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ids); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
