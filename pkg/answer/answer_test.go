package answer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfplens/rfplens/internal/models"
)

type stubCompleter struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	s.lastSystem = system
	s.lastUser = user
	return s.reply, s.err
}

func sampleAnalysis() *models.Analysis {
	var analysis models.Analysis
	analysis.ID = "rfp_test"
	analysis.Title = "차세대 포털 구축"
	analysis.Budget.EstimatedBudget = "5억원"
	analysis.Requirements.Details = []models.RequirementDetail{
		{
			Number:       "REQ-001",
			Class:        "기능요구",
			Name:         "웹접근성 개선",
			Detail:       "KWCAG 2.1 준수",
			Deliverables: []string{"접근성 인증서"},
		},
	}
	analysis.Normalize()
	return &analysis
}

func TestAnswerReturnsReplyVerbatim(t *testing.T) {
	chat := &stubCompleter{reply: "추정 예산은 5억원입니다."}
	ans := NewWithConfig(AnswererConfig{}, chat)

	reply, err := ans.Answer(context.Background(), sampleAnalysis(),
		"본문 텍스트", "예산은 얼마인가요?", nil)
	require.NoError(t, err)
	assert.Equal(t, "추정 예산은 5억원입니다.", reply)
}

func TestAnswerPromptContents(t *testing.T) {
	chat := &stubCompleter{reply: "ok"}
	ans := NewWithConfig(AnswererConfig{ContentLimit: 10}, chat)

	content := strings.Repeat("긴 본문 텍스트입니다. ", 50)
	similar := []models.SearchResult{
		{Document: models.IndexedDocument{Title: "유사 RFP A"}, Score: 0.91},
	}

	_, err := ans.Answer(context.Background(), sampleAnalysis(), content, "예산은 얼마인가요?", similar)
	require.NoError(t, err)

	assert.Contains(t, chat.lastUser, "예산은 얼마인가요?")
	assert.Contains(t, chat.lastUser, "5억원")
	assert.Contains(t, chat.lastUser, "유사 RFP A")
	assert.Contains(t, chat.lastSystem, "RFP 문서 분석 전문가")

	// Raw content is truncated to the configured limit.
	assert.NotContains(t, chat.lastUser, content)
}

func TestAnswerFailure(t *testing.T) {
	chat := &stubCompleter{err: fmt.Errorf("timeout")}
	ans := NewWithConfig(AnswererConfig{}, chat)

	_, err := ans.Answer(context.Background(), sampleAnalysis(), "본문", "질문", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAnswer)
}

func TestProposalPromptContents(t *testing.T) {
	chat := &stubCompleter{reply: "제안서 초안"}
	ans := NewWithConfig(AnswererConfig{}, chat)

	similar := []models.SearchResult{
		{Document: models.IndexedDocument{Title: "과거 프로젝트 1"}},
		{Document: models.IndexedDocument{Title: "과거 프로젝트 2"}},
		{Document: models.IndexedDocument{Title: "과거 프로젝트 3"}},
		{Document: models.IndexedDocument{Title: "과거 프로젝트 4"}},
	}

	draft, err := ans.ProposalDraft(context.Background(), sampleAnalysis(), similar)
	require.NoError(t, err)
	assert.Equal(t, "제안서 초안", draft)

	assert.Contains(t, chat.lastUser, "REQ-001")
	assert.Contains(t, chat.lastUser, "웹접근성 개선")
	assert.Contains(t, chat.lastUser, "접근성 인증서")
	assert.Contains(t, chat.lastUser, "과거 프로젝트 3")
	// Only the first three similar projects are cited.
	assert.NotContains(t, chat.lastUser, "과거 프로젝트 4")
	assert.Contains(t, chat.lastSystem, "제안서 작성 전문가")
}
