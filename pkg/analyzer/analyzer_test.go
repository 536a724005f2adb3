package analyzer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfplens/rfplens/internal/models"
	"github.com/rfplens/rfplens/pkg/analyzer"
)

const sampleReply = `{
	"2_일정마일스톤": {"사업기간": "2024.01~2024.12"},
	"3_예산가격": {"추정예산": "5억원"},
	"핵심키워드": ["사업기간", "예산"]
}`

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestParseReply(t *testing.T) {
	analysis, err := analyzer.ParseReply(sampleReply)
	require.NoError(t, err)

	assert.Equal(t, "2024.01~2024.12", analysis.Schedule.ProjectPeriod)
	assert.Equal(t, "5억원", analysis.Budget.EstimatedBudget)
	assert.Equal(t, []string{"사업기간", "예산"}, analysis.Keywords)

	// Categories the model never mentioned are still fully populated.
	assert.Equal(t, models.NotSpecified, analysis.Overview.Background)
	assert.Equal(t, models.NotSpecified, analysis.Contract.Warranty)
	assert.Equal(t, models.NotSpecified, analysis.Schedule.SubmissionDeadline)
}

func TestParseReplyWithSurroundingProse(t *testing.T) {
	raw := "분석 결과는 다음과 같습니다:\n" + sampleReply + "\n이상입니다."

	analysis, err := analyzer.ParseReply(raw)
	require.NoError(t, err)
	assert.Equal(t, "5억원", analysis.Budget.EstimatedBudget)
}

func TestParseReplyMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no JSON at all", "죄송합니다. 분석할 수 없습니다."},
		{"broken JSON", `{"2_일정마일스톤": {"사업기간": }`},
		{"wrong shape", `{"2_일정마일스톤": "not an object"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analyzer.ParseReply(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrParse)

			var parseErr *analyzer.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.raw, parseErr.Raw)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", analyzer.Truncate("abc", 10))
	assert.Equal(t, "abc", analyzer.Truncate("abcdef", 3))

	// Cuts on rune boundaries, not bytes.
	assert.Equal(t, "사업기", analyzer.Truncate("사업기간", 3))

	// Deterministic for identical input.
	long := analyzer.Truncate("사업기간: 2024.01~2024.12", 10)
	assert.Equal(t, long, analyzer.Truncate("사업기간: 2024.01~2024.12", 10))
}

func TestBuildPrompt(t *testing.T) {
	prompt := analyzer.BuildPrompt("사업기간: 2024.01~2024.12, 예산: 5억원")

	assert.Contains(t, prompt, "사업기간: 2024.01~2024.12")
	for _, key := range []string{
		"1_핵심개요", "2_일정마일스톤", "3_예산가격", "4_평가선정기준",
		"5_요구사항", "6_보안준법", "7_서비스수준운영", "8_품질검수인수",
		"9_계약법무", "10_공급사자격역량", "11_제출형식지시",
		"기술솔루션매핑", "핵심키워드",
	} {
		assert.Contains(t, prompt, key)
	}
}

func TestAnalyze(t *testing.T) {
	chat := &stubCompleter{reply: sampleReply}
	a := analyzer.NewWithConfig(analyzer.AnalyzerConfig{}, chat)

	analysis, err := a.Analyze(context.Background(), "사업기간: 2024.01~2024.12, 예산: 5억원", "sample.txt")
	require.NoError(t, err)

	assert.Equal(t, 1, chat.calls)
	assert.Equal(t, models.DocumentID("sample.txt"), analysis.ID)
	assert.Equal(t, "sample.txt", analysis.Title)
	assert.False(t, analysis.AnalyzedAt.IsZero())
}

func TestAnalyzeModelFailure(t *testing.T) {
	chat := &stubCompleter{err: fmt.Errorf("connection refused")}
	a := analyzer.NewWithConfig(analyzer.AnalyzerConfig{}, chat)

	_, err := a.Analyze(context.Background(), "text", "sample.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAnalysis)
	assert.False(t, errors.Is(err, models.ErrParse))
}
