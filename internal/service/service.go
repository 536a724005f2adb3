package service

import (
	"context"

	"github.com/rfplens/rfplens/internal/models"
	"github.com/rfplens/rfplens/internal/types"
)

type ServiceConfig struct {
	SearchLimit int
}

// Service chains the pipeline components for one user action at a time.
// It holds no state between calls; the caller keeps the Analysis.
type Service struct {
	config    ServiceConfig
	extractor types.Extractor
	analyzer  types.Analyzer
	store     types.Store
	answerer  types.Answerer
}

func New(config ServiceConfig, extractor types.Extractor, analyzer types.Analyzer, store types.Store, answerer types.Answerer) *Service {
	if config.SearchLimit == 0 {
		config.SearchLimit = 5
	}

	return &Service{
		config:    config,
		extractor: extractor,
		analyzer:  analyzer,
		store:     store,
		answerer:  answerer,
	}
}

// AnalyzeFile extracts the document at path, analyzes it and stores the
// result in the index. The store call is retried once with the unchanged
// payload; the upsert is idempotent by key. Returns the analysis and the
// extracted text for later question answering.
func (s *Service) AnalyzeFile(ctx context.Context, path string) (*models.Analysis, string, error) {
	extracted, err := s.extractor.Extract(path)
	if err != nil {
		return nil, "", err
	}

	analysis, err := s.analyzer.Analyze(ctx, extracted.Text, extracted.Title)
	if err != nil {
		return nil, "", err
	}
	analysis.SourceFile = extracted.SourceFile

	if err := s.store.Store(ctx, analysis, extracted.Text); err != nil {
		if err = s.store.Store(ctx, analysis, extracted.Text); err != nil {
			return nil, "", err
		}
	}

	return analysis, extracted.Text, nil
}

// AnalyzeBytes runs the same chain over already uploaded content.
func (s *Service) AnalyzeBytes(ctx context.Context, data []byte, name string) (*models.Analysis, string, error) {
	extracted, err := s.extractor.ExtractBytes(data, name)
	if err != nil {
		return nil, "", err
	}

	analysis, err := s.analyzer.Analyze(ctx, extracted.Text, extracted.Title)
	if err != nil {
		return nil, "", err
	}
	analysis.SourceFile = extracted.SourceFile

	if err := s.store.Store(ctx, analysis, extracted.Text); err != nil {
		if err = s.store.Store(ctx, analysis, extracted.Text); err != nil {
			return nil, "", err
		}
	}

	return analysis, extracted.Text, nil
}

// Ask answers a question about the current analysis.
func (s *Service) Ask(ctx context.Context, analysis *models.Analysis, content, question string, similar []models.SearchResult) (string, error) {
	return s.answerer.Answer(ctx, analysis, content, question, similar)
}

// SearchSimilar finds stored RFPs close to the query text.
func (s *Service) SearchSimilar(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	if limit <= 0 {
		limit = s.config.SearchLimit
	}
	return s.store.Search(ctx, query, limit)
}

// Proposal drafts a proposal from the analysis, pulling similar RFPs from
// the index as supporting context.
func (s *Service) Proposal(ctx context.Context, analysis *models.Analysis) (string, error) {
	similar, err := s.store.Search(ctx, analysis.KeywordText(), s.config.SearchLimit)
	if err != nil {
		return "", err
	}

	return s.answerer.ProposalDraft(ctx, analysis, similar)
}
