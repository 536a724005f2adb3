package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// EmbedderConfig represents the configuration for an embeddings client.
type EmbedderConfig struct {
	Token         string
	BaseURL       string
	APIVersion    string
	Model         string
	MaxChunkChars int     // inputs longer than this are split before embedding
	RateLimit     float64 // requests per second
}

// Embedder produces one embedding vector per input text. Long inputs are
// split into chunks and the chunk vectors are averaged into a single vector.
type Embedder struct {
	config  EmbedderConfig
	client  *openai.LLM
	limiter *rate.Limiter
}

func NewEmbedderWithConfig(config EmbedderConfig) (*Embedder, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("API token is required")
	}
	if config.Model == "" {
		config.Model = "text-embedding-ada-002"
	}
	if config.MaxChunkChars <= 0 {
		config.MaxChunkChars = 4000
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 2.0
	}

	opts := []openai.Option{
		openai.WithToken(config.Token),
		openai.WithEmbeddingModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}
	if config.APIVersion != "" {
		opts = append(opts, openai.WithAPIType(openai.APITypeAzure),
			openai.WithAPIVersion(config.APIVersion))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	return &Embedder{
		config:  config,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

// EmbedText returns a single vector for the given text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	chunks := splitChunks(text, e.config.MaxChunkChars)

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding error: %w", err)
	}

	embeddings, err := e.client.CreateEmbedding(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding error: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding error: no vectors returned")
	}

	return meanPool(embeddings), nil
}

// splitChunks breaks text into pieces no longer than max characters,
// preferring sentence boundaries and falling back to word boundaries.
func splitChunks(text string, max int) []string {
	if len(text) <= max {
		return []string{text}
	}

	var chunks []string
	current := strings.Builder{}

	for _, sentence := range splitSentences(text) {
		if current.Len()+len(sentence)+1 > max && current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}

		if len(sentence) > max {
			// Sentence itself is too long; break on words.
			for _, piece := range splitWords(sentence, max) {
				if current.Len()+len(piece)+1 > max && current.Len() > 0 {
					chunks = append(chunks, strings.TrimSpace(current.String()))
					current.Reset()
				}
				current.WriteString(piece)
				current.WriteString(" ")
			}
			continue
		}

		current.WriteString(sentence)
		current.WriteString(" ")
	}

	if strings.TrimSpace(current.String()) != "" {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	return chunks
}

func splitSentences(text string) []string {
	sentenceEnders := []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}
	var sentences []string

	current := strings.Builder{}

	for i := 0; i < len(text); i++ {
		current.WriteByte(text[i])

		for _, ender := range sentenceEnders {
			if strings.HasSuffix(current.String(), ender) {
				sentences = append(sentences, strings.TrimSpace(current.String()))
				current.Reset()
				break
			}
		}
	}

	if strings.TrimSpace(current.String()) != "" {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}

func splitWords(sentence string, max int) []string {
	words := strings.Fields(sentence)
	var pieces []string

	current := strings.Builder{}
	for _, word := range words {
		if current.Len()+len(word)+1 > max && current.Len() > 0 {
			pieces = append(pieces, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(word)
		current.WriteString(" ")
	}
	if strings.TrimSpace(current.String()) != "" {
		pieces = append(pieces, strings.TrimSpace(current.String()))
	}

	return pieces
}

// meanPool averages chunk vectors into one vector of the same dimension.
func meanPool(vectors [][]float32) []float32 {
	if len(vectors) == 1 {
		return vectors[0]
	}

	pooled := make([]float32, len(vectors[0]))
	for _, vec := range vectors {
		for i := range pooled {
			if i < len(vec) {
				pooled[i] += vec[i]
			}
		}
	}
	for i := range pooled {
		pooled[i] /= float32(len(vectors))
	}

	return pooled
}
