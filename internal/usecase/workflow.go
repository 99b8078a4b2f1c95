package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"GovAI/internal/classifier"
	"GovAI/internal/domain"
)

// Stage marks how far a WorkflowState has progressed.
type Stage int

const (
	StageNew Stage = iota
	StageClassified
	StageSearched
	StageGenerated
)

func (s Stage) String() string {
	switch s {
	case StageNew:
		return "new"
	case StageClassified:
		return "classified"
	case StageSearched:
		return "searched"
	case StageGenerated:
		return "generated"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// WorkflowState is the value threaded through the three stages.
type WorkflowState struct {
	Stage            Stage
	Query            domain.Query
	Results          []domain.SearchResult
	SearchContext    string
	Answer           string
	GenerationFailed bool
}

// Searcher is the search capability used by the workflow.
type Searcher interface {
	Search(ctx context.Context, query string, lang domain.Language) []domain.SearchResult
}

// Generator is the answer capability used by the workflow.
type Generator interface {
	Generate(ctx context.Context, query string, results []domain.SearchResult, searchContext string) (string, bool)
}

// Workflow runs Analyze, Search and Generate in order.
type Workflow struct {
	searcher  Searcher
	generator Generator
	logger    *slog.Logger
}

// NewWorkflow wires the stage collaborators.
func NewWorkflow(searcher Searcher, generator Generator, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{searcher: searcher, generator: generator, logger: logger}
}

// Run executes all stages for a raw query.
func (w *Workflow) Run(ctx context.Context, raw string) (WorkflowState, error) {
	state := WorkflowState{Query: domain.Query{Raw: raw}}

	stages := []func(context.Context, WorkflowState) (WorkflowState, error){
		w.Analyze,
		w.Search,
		w.Generate,
	}
	for _, stage := range stages {
		var err error
		state, err = stage(ctx, state)
		if err != nil {
			return state, err
		}
	}
	return state, nil
}

// Analyze classifies the raw query.
func (w *Workflow) Analyze(_ context.Context, state WorkflowState) (WorkflowState, error) {
	if err := expectStage(state, StageNew); err != nil {
		return state, err
	}

	state.Query = classifier.Classify(state.Query.Raw)
	if state.Query.Text == "" {
		return state, domain.NewError(domain.KindEmptyQuery, MsgEmptyQuery, nil)
	}

	w.logger.Info("query analyzed",
		"query", state.Query.Text,
		"language", state.Query.Language,
		"relevant", state.Query.Relevant,
		"reason", state.Query.Reason)

	state.Stage = StageClassified
	return state, nil
}

// Search fetches results and renders the prompt context.
func (w *Workflow) Search(ctx context.Context, state WorkflowState) (WorkflowState, error) {
	if err := expectStage(state, StageClassified); err != nil {
		return state, err
	}
	if w.searcher == nil {
		return state, fmt.Errorf("workflow: searcher is nil")
	}

	state.Results = w.searcher.Search(ctx, state.Query.Text, state.Query.Language)
	state.SearchContext = FormatSearchContext(state.Results)
	state.Stage = StageSearched
	return state, nil
}

// Generate produces the raw answer.
func (w *Workflow) Generate(ctx context.Context, state WorkflowState) (WorkflowState, error) {
	if err := expectStage(state, StageSearched); err != nil {
		return state, err
	}
	if w.generator == nil {
		return state, fmt.Errorf("workflow: generator is nil")
	}

	state.Answer, state.GenerationFailed = w.generator.Generate(ctx, state.Query.Text, state.Results, state.SearchContext)
	state.Stage = StageGenerated
	return state, nil
}

func expectStage(state WorkflowState, want Stage) error {
	if state.Stage != want {
		return fmt.Errorf("workflow: stage %s expected, got %s", want, state.Stage)
	}
	return nil
}
