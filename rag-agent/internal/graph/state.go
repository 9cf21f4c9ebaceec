package graph

// SubAnswer pairs a sub-question with the answer retrieved for it.
type SubAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// State is threaded through every node of a run. Zero values mean unset.
type State struct {
	Question string
	Mock     bool

	Route             Route
	RAGAnswer         string
	Critique          string
	NeedsRefinement   bool
	RefinedAnswer     string
	Iteration         int
	SubQuestions      []string
	SubAnswers        []SubAnswer
	SynthesizedAnswer string
	FinalAnswer       string

	Trace []string
}

// Patch is the partial result of a node. Nil fields are left untouched by
// Reduce; Trace is appended.
type Patch struct {
	Route             *Route
	RAGAnswer         *string
	Critique          *string
	NeedsRefinement   *bool
	RefinedAnswer     *string
	Iteration         *int
	SubQuestions      []string
	SubAnswers        []SubAnswer
	SynthesizedAnswer *string
	FinalAnswer       *string

	Trace []string
}

// Reduce merges p into s and returns the new state. s is not modified.
func Reduce(s State, p Patch) State {
	trace := make([]string, 0, len(s.Trace)+len(p.Trace))
	trace = append(trace, s.Trace...)
	s.Trace = append(trace, p.Trace...)

	if p.Route != nil {
		s.Route = *p.Route
	}
	if p.RAGAnswer != nil {
		s.RAGAnswer = *p.RAGAnswer
	}
	if p.Critique != nil {
		s.Critique = *p.Critique
	}
	if p.NeedsRefinement != nil {
		s.NeedsRefinement = *p.NeedsRefinement
	}
	if p.RefinedAnswer != nil {
		s.RefinedAnswer = *p.RefinedAnswer
	}
	if p.Iteration != nil {
		s.Iteration = *p.Iteration
	}
	if p.SubQuestions != nil {
		s.SubQuestions = p.SubQuestions
	}
	if p.SubAnswers != nil {
		s.SubAnswers = p.SubAnswers
	}
	if p.SynthesizedAnswer != nil {
		s.SynthesizedAnswer = *p.SynthesizedAnswer
	}
	if p.FinalAnswer != nil {
		s.FinalAnswer = *p.FinalAnswer
	}
	return s
}

func ptr[T any](v T) *T { return &v }
