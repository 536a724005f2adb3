package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rfplens/rfplens/internal/models"
)

// Completer is the single chat exchange the analyzer needs.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type AnalyzerConfig struct {
	MaxChars int // document text beyond this is cut before prompting
}

// Analyzer turns extracted document text into a populated Analysis by
// prompting the model once and parsing its JSON reply into the schema.
type Analyzer struct {
	config AnalyzerConfig
	chat   Completer
}

func NewWithConfig(config AnalyzerConfig, chat Completer) Analyzer {
	if config.MaxChars == 0 {
		config.MaxChars = 24000
	}

	return Analyzer{config: config, chat: chat}
}

// Analyze runs the categorized extraction over the document text.
func (a Analyzer) Analyze(ctx context.Context, text, title string) (*models.Analysis, error) {
	prompt := BuildPrompt(Truncate(text, a.config.MaxChars))

	raw, err := a.chat.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrAnalysis, err)
	}

	analysis, err := ParseReply(raw)
	if err != nil {
		return nil, err
	}

	analysis.ID = models.DocumentID(title)
	analysis.Title = title
	analysis.AnalyzedAt = time.Now().UTC()

	return analysis, nil
}

// ParseError carries the raw model reply that failed schema mapping.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing model reply: %v", e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{models.ErrParse, e.Err}
}

// ParseReply maps the model reply onto the category schema. The reply must
// contain one JSON object; anything else fails fast with a ParseError. Fields
// the model omitted are normalized to the NotSpecified sentinel, never
// dropped.
func ParseReply(raw string) (*models.Analysis, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("no JSON object in reply")}
	}

	var analysis models.Analysis
	if err := json.Unmarshal([]byte(raw[start:end+1]), &analysis); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	analysis.Normalize()

	return &analysis, nil
}

// Truncate deterministically cuts text to at most maxChars characters.
// Documents are assumed to fit the model context window after this cut.
func Truncate(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
