package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GovAI/internal/domain"
	"GovAI/internal/logging"
)

type stubSearcher struct {
	results []domain.SearchResult
	gotLang domain.Language
}

func (s *stubSearcher) Search(_ context.Context, _ string, lang domain.Language) []domain.SearchResult {
	s.gotLang = lang
	return s.results
}

type stubGenerator struct {
	answer  string
	failed  bool
	gotCtx  string
	gotText string
}

func (g *stubGenerator) Generate(_ context.Context, query string, _ []domain.SearchResult, searchContext string) (string, bool) {
	g.gotText, g.gotCtx = query, searchContext
	return g.answer, g.failed
}

func TestWorkflowAnalyze(t *testing.T) {
	t.Parallel()

	w := NewWorkflow(nil, nil, logging.Discard())
	state, err := w.Analyze(context.Background(), WorkflowState{Query: domain.Query{Raw: "  পাসপোর্ট   করতে কি লাগে? "}})
	require.NoError(t, err)

	assert.Equal(t, StageClassified, state.Stage)
	assert.Equal(t, "পাসপোর্ট করতে কি লাগে?", state.Query.Text)
	assert.Equal(t, domain.LanguageBangla, state.Query.Language)
	assert.True(t, state.Query.Relevant)
}

func TestWorkflowAnalyze_EmptyQuery(t *testing.T) {
	t.Parallel()

	w := NewWorkflow(nil, nil, logging.Discard())
	_, err := w.Analyze(context.Background(), WorkflowState{Query: domain.Query{Raw: " <> [] "}})
	assert.True(t, domain.IsKind(err, domain.KindEmptyQuery))
}

func TestWorkflowSearch(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{results: []domain.SearchResult{{Title: "NID", URL: "https://nid.gov.bd"}}}
	w := NewWorkflow(searcher, nil, logging.Discard())

	state, err := w.Search(context.Background(), WorkflowState{
		Stage: StageClassified,
		Query: domain.Query{Text: "nid", Language: domain.LanguageEnglish},
	})
	require.NoError(t, err)

	assert.Equal(t, StageSearched, state.Stage)
	assert.Equal(t, domain.LanguageEnglish, searcher.gotLang)
	assert.Len(t, state.Results, 1)
	assert.Contains(t, state.SearchContext, "https://nid.gov.bd")
}

func TestWorkflowGenerate(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{answer: "উত্তর", failed: true}
	w := NewWorkflow(nil, gen, logging.Discard())

	state, err := w.Generate(context.Background(), WorkflowState{
		Stage:         StageSearched,
		Query:         domain.Query{Text: "q"},
		SearchContext: "ctx",
	})
	require.NoError(t, err)

	assert.Equal(t, StageGenerated, state.Stage)
	assert.Equal(t, "উত্তর", state.Answer)
	assert.True(t, state.GenerationFailed)
	assert.Equal(t, "ctx", gen.gotCtx)
}

func TestWorkflow_StagesOutOfOrder(t *testing.T) {
	t.Parallel()

	w := NewWorkflow(&stubSearcher{}, &stubGenerator{}, logging.Discard())

	_, err := w.Generate(context.Background(), WorkflowState{Stage: StageClassified})
	assert.ErrorContains(t, err, "stage searched expected, got classified")

	_, err = w.Search(context.Background(), WorkflowState{})
	assert.Error(t, err)
}

func TestWorkflowRun(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{results: FallbackResults("passport")}
	gen := &stubGenerator{answer: "ok"}
	w := NewWorkflow(searcher, gen, logging.Discard())

	state, err := w.Run(context.Background(), "passport")
	require.NoError(t, err)
	assert.Equal(t, StageGenerated, state.Stage)
	assert.Equal(t, "passport", gen.gotText)
	assert.Equal(t, "ok", state.Answer)
}
