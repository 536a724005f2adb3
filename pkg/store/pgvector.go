package store

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/rfplens/rfplens/internal/models"
	"github.com/rfplens/rfplens/internal/types"
)

type VectorStoreConfig struct {
	ConnString  string
	TableName   string
	VectorDim   int
	SearchLimit int
}

// VectorStore keeps analyzed RFPs in a pgvector-backed table, one row per
// document keyed by the analysis id.
type VectorStore struct {
	config   VectorStoreConfig
	pool     *pgxpool.Pool
	embedder types.Embedder
}

func NewWithConfig(config VectorStoreConfig, embedder types.Embedder) (*VectorStore, error) {
	if config.TableName == "" {
		config.TableName = "rfp_documents"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 1536 // Default for OpenAI embeddings
	}
	if config.SearchLimit == 0 {
		config.SearchLimit = 5
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to database: %v", models.ErrStore, err)
	}

	vs := &VectorStore{
		config:   config,
		pool:     pool,
		embedder: embedder,
	}

	if err := vs.initialize(); err != nil {
		pool.Close()
		return nil, err
	}

	return vs, nil
}

func (vs *VectorStore) initialize() error {
	ctx := context.Background()

	// Enable pgvector extension
	_, err := vs.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("%w: failed to create vector extension: %v", models.ErrStore, err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			title TEXT,
			content TEXT,
			analysis JSONB,
			requirements TEXT,
			budget_range TEXT,
			submission_deadline TEXT,
			keywords TEXT,
			created_at TIMESTAMPTZ,
			embedding vector(%d)
		)`, vs.config.TableName, vs.config.VectorDim)

	_, err = vs.pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("%w: failed to create table: %v", models.ErrStore, err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		vs.config.TableName, vs.config.TableName)

	_, err = vs.pool.Exec(ctx, createIndex)
	if err != nil {
		return fmt.Errorf("%w: failed to create index: %v", models.ErrStore, err)
	}

	return nil
}

// Store flattens the analysis, embeds its keyword text and upserts the row.
// Re-storing the same analysis overwrites the existing row.
func (vs *VectorStore) Store(ctx context.Context, analysis *models.Analysis, content string) error {
	doc := analysis.Flatten(content)

	keywordText := analysis.KeywordText()
	if keywordText == "" {
		keywordText = doc.Title
	}

	embedding, err := vs.embedder.EmbedText(ctx, keywordText)
	if err != nil {
		return fmt.Errorf("%w: failed to create embedding: %v", models.ErrStore, err)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, title, content, analysis, requirements,
			budget_range, submission_deadline, keywords, created_at, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			analysis = EXCLUDED.analysis,
			requirements = EXCLUDED.requirements,
			budget_range = EXCLUDED.budget_range,
			submission_deadline = EXCLUDED.submission_deadline,
			keywords = EXCLUDED.keywords,
			created_at = EXCLUDED.created_at,
			embedding = EXCLUDED.embedding`,
		vs.config.TableName)

	_, err = vs.pool.Exec(ctx, stmt,
		doc.ID,
		sanitizeUTF8(doc.Title),
		sanitizeUTF8(doc.Content),
		analysis.MarshalIndent(),
		doc.Requirements,
		doc.BudgetRange,
		doc.SubmissionDeadline,
		doc.Keywords,
		doc.CreatedAt,
		pgvector.NewVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert document %s: %v", models.ErrStore, doc.ID, err)
	}

	return nil
}

// Search embeds the query text and returns the closest documents by cosine
// distance, best match first. An empty result is not an error.
func (vs *VectorStore) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	if limit <= 0 {
		limit = vs.config.SearchLimit
	}

	embedding, err := vs.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to embed query: %v", models.ErrSearch, err)
	}

	return vs.Query(ctx, embedding, limit)
}

// Query runs the kNN lookup with an already computed vector.
func (vs *VectorStore) Query(ctx context.Context, queryEmbedding []float32, limit int) ([]models.SearchResult, error) {
	if limit <= 0 {
		limit = vs.config.SearchLimit
	}

	stmt := fmt.Sprintf(`
		SELECT id, title, content, requirements, budget_range,
			submission_deadline, keywords, created_at,
			1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`,
		vs.config.TableName)

	rows, err := vs.pool.Query(ctx, stmt, pgvector.NewVector(queryEmbedding), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query documents: %v", models.ErrSearch, err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var result models.SearchResult
		err := rows.Scan(
			&result.Document.ID,
			&result.Document.Title,
			&result.Document.Content,
			&result.Document.Requirements,
			&result.Document.BudgetRange,
			&result.Document.SubmissionDeadline,
			&result.Document.Keywords,
			&result.Document.CreatedAt,
			&result.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan row: %v", models.ErrSearch, err)
		}
		results = append(results, result)
	}

	return results, nil
}

func (vs *VectorStore) Close() {
	if vs.pool != nil {
		vs.pool.Close()
	}
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
