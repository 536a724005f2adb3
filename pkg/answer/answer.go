package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rfplens/rfplens/internal/models"
	"github.com/rfplens/rfplens/pkg/analyzer"
)

const answerSystemPrompt = "당신은 RFP 문서 분석 전문가입니다. RFP 문서의 내용을 정확하게 분석하여 사용자의 질문에 구체적이고 정확한 답변을 제공합니다."

const proposalSystemPrompt = "당신은 경험이 풍부한 제안서 작성 전문가입니다. 기술적으로 정확하고 설득력 있는 제안서를 작성합니다."

type AnswererConfig struct {
	ContentLimit   int // raw document chars included in the prompt
	MaxSimilarRFPs int // similar documents cited in the proposal prompt
}

// Answerer builds retrieval-augmented prompts over a stored analysis and
// returns the model reply verbatim.
type Answerer struct {
	config AnswererConfig
	chat   analyzer.Completer
}

func NewWithConfig(config AnswererConfig, chat analyzer.Completer) Answerer {
	if config.ContentLimit == 0 {
		config.ContentLimit = 3000
	}
	if config.MaxSimilarRFPs == 0 {
		config.MaxSimilarRFPs = 3
	}

	return Answerer{config: config, chat: chat}
}

// Answer responds to a free-text question about the analyzed document.
func (ans Answerer) Answer(ctx context.Context, analysis *models.Analysis, content, question string, similar []models.SearchResult) (string, error) {
	prompt := ans.buildAnswerPrompt(analysis, content, question, similar)

	reply, err := ans.chat.Complete(ctx, answerSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrAnswer, err)
	}

	return reply, nil
}

// ProposalDraft generates a structured proposal outline from the analysis
// and, when present, similar past RFPs.
func (ans Answerer) ProposalDraft(ctx context.Context, analysis *models.Analysis, similar []models.SearchResult) (string, error) {
	prompt := ans.buildProposalPrompt(analysis, similar)

	reply, err := ans.chat.Complete(ctx, proposalSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrAnswer, err)
	}

	return reply, nil
}

func (ans Answerer) buildAnswerPrompt(analysis *models.Analysis, content, question string, similar []models.SearchResult) string {
	var sb strings.Builder

	sb.WriteString("RFP 문서 내용을 바탕으로 질문에 답변해주세요.\n\n")
	sb.WriteString("RFP 내용:\n")
	sb.WriteString(analyzer.Truncate(content, ans.config.ContentLimit))
	sb.WriteString("\n")

	if analysis != nil {
		sb.WriteString("\nRFP 분석 결과:\n")
		sb.WriteString(analysis.MarshalIndent())
		sb.WriteString("\n")
	}

	if len(similar) > 0 {
		sb.WriteString("\n유사 RFP 사례:\n")
		for i, result := range similar {
			fmt.Fprintf(&sb, "%d. %s (유사도: %.2f)\n", i+1, result.Document.Title, result.Score)
		}
	}

	sb.WriteString("\n사용자 질문: ")
	sb.WriteString(question)
	sb.WriteString("\n\n답변 지침:\n")
	sb.WriteString("1. RFP 문서에서 직접 찾을 수 있는 정보를 우선 제공\n")
	sb.WriteString("2. 구체적인 수치, 조건, 일정 등 정확히 명시\n")
	sb.WriteString("3. 관련 조항이나 섹션 참조\n")
	sb.WriteString("4. 정보가 명확하지 않으면 \"문서에서 명확한 정보를 찾을 수 없습니다\" 표시\n")
	sb.WriteString("5. 한국어로 간결하게 답변\n")

	return sb.String()
}

func (ans Answerer) buildProposalPrompt(analysis *models.Analysis, similar []models.SearchResult) string {
	var sb strings.Builder

	sb.WriteString("다음 RFP 분석 결과를 바탕으로 전문적인 제안서 초안을 작성해주세요.\n\n")
	sb.WriteString("RFP 분석 결과:\n")
	sb.WriteString(analysis.MarshalIndent())
	sb.WriteString("\n")

	if len(analysis.Requirements.Details) > 0 {
		sb.WriteString("\n요구사항 상세목록:\n")
		for _, req := range analysis.Requirements.Details {
			fmt.Fprintf(&sb, "- %s (%s): %s\n", req.Number, req.Class, req.Name)
			if req.Detail != "" && req.Detail != models.NotSpecified {
				fmt.Fprintf(&sb, "  세부내용: %s\n", req.Detail)
			}
			if len(req.Deliverables) > 0 {
				fmt.Fprintf(&sb, "  산출정보: %s\n", strings.Join(req.Deliverables, ", "))
			}
		}
	}

	if len(similar) > 0 {
		sb.WriteString("\n유사 프로젝트 사례:\n")
		limit := ans.config.MaxSimilarRFPs
		if len(similar) < limit {
			limit = len(similar)
		}
		for i := 0; i < limit; i++ {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, similar[i].Document.Title)
		}
	}

	sb.WriteString(`
**제안서 작성 지침:**
- 요구사항 고유번호를 명시하여 각 요구사항에 대한 구체적인 솔루션을 제시하세요
- 각 요구사항별로 어떻게 해결할 것인지 명확하게 설명하세요
- 요구사항 고유번호와 함께 산출물도 언급하세요

다음 구조로 제안서 초안을 작성해주세요:

**Ⅰ. 제안 개요**
**Ⅱ. 제안 업체 일반**
**Ⅲ. 프로젝트 수행 부문**
**Ⅳ. 프로젝트 관리 부문**
**Ⅴ. 지원 부문**
`)

	return sb.String()
}
