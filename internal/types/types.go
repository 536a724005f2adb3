package types

import (
	"context"

	"github.com/rfplens/rfplens/internal/models"
)

// Core interfaces
type Extractor interface {
	Extract(path string) (*models.Extracted, error)
	ExtractBytes(data []byte, name string) (*models.Extracted, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, text, title string) (*models.Analysis, error)
}

type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

type Store interface {
	Store(ctx context.Context, analysis *models.Analysis, content string) error
	Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
	Close()
}

type Answerer interface {
	Answer(ctx context.Context, analysis *models.Analysis, content, question string, similar []models.SearchResult) (string, error)
	ProposalDraft(ctx context.Context, analysis *models.Analysis, similar []models.SearchResult) (string, error)
}
