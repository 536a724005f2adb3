package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitChunksShortText(t *testing.T) {
	chunks := splitChunks("짧은 문서입니다.", 4000)
	assert.Equal(t, []string{"짧은 문서입니다."}, chunks)
}

func TestSplitChunksLongText(t *testing.T) {
	sentence := "이 문장은 청크 분할을 검증하기 위한 반복 문장입니다. "
	text := strings.Repeat(sentence, 100)

	chunks := splitChunks(text, 500)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 500, "chunk %d over budget", i)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}

	// Deterministic for identical input.
	assert.Equal(t, chunks, splitChunks(text, 500))
}

func TestSplitChunksOversizedSentence(t *testing.T) {
	// One sentence with no period, longer than the budget.
	text := strings.Repeat("단어 ", 300)

	chunks := splitChunks(text, 200)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 200)
	}
}

func TestMeanPool(t *testing.T) {
	single := [][]float32{{1, 2, 3}}
	assert.Equal(t, []float32{1, 2, 3}, meanPool(single))

	pooled := meanPool([][]float32{
		{1, 2, 3},
		{3, 4, 5},
	})
	assert.Equal(t, []float32{2, 3, 4}, pooled)
}
