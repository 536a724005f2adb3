package extract_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfplens/rfplens/internal/models"
	"github.com/rfplens/rfplens/pkg/extract"
)

func TestExtractText(t *testing.T) {
	e := extract.New()

	content := "사업기간: 2024.01~2024.12\n예산: 5억원\n"
	extracted, err := e.ExtractBytes([]byte(content), "rfp.txt")
	require.NoError(t, err)

	assert.Equal(t, content, extracted.Text)
	assert.Equal(t, "사업기간: 2024.01~2024.12", extracted.Title)
	assert.Equal(t, "rfp.txt", extracted.SourceFile)
	assert.Equal(t, "txt", extracted.Format)
}

func TestExtractTextLongFirstLineFallsBackToFileName(t *testing.T) {
	e := extract.New()

	long := make([]byte, 0, 300)
	for i := 0; i < 150; i++ {
		long = append(long, 'a', 'b')
	}

	extracted, err := e.ExtractBytes(long, "proposal-request.txt")
	require.NoError(t, err)
	assert.Equal(t, "proposal-request", extracted.Title)
}

func TestExtractHTML(t *testing.T) {
	e := extract.New()

	html := `<html>
		<head><title>제안요청서</title><style>body{color:red}</style></head>
		<body>
			<script>console.log("skip me")</script>
			<h1>사업 개요</h1>
			<p>사업기간: 2024.01~2024.12</p>
		</body>
	</html>`

	extracted, err := e.ExtractBytes([]byte(html), "rfp.html")
	require.NoError(t, err)

	assert.Equal(t, "제안요청서", extracted.Title)
	assert.Contains(t, extracted.Text, "사업 개요")
	assert.Contains(t, extracted.Text, "사업기간: 2024.01~2024.12")
	assert.NotContains(t, extracted.Text, "skip me")
	assert.NotContains(t, extracted.Text, "color:red")
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := extract.New()

	for _, name := range []string{"rfp.hwp", "rfp.xlsx", "rfp", "archive.zip"} {
		t.Run(name, func(t *testing.T) {
			_, err := e.ExtractBytes([]byte("content"), name)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
		})
	}
}

func TestExtractFailures(t *testing.T) {
	e := extract.New()

	t.Run("empty file", func(t *testing.T) {
		_, err := e.ExtractBytes(nil, "rfp.txt")
		assert.ErrorIs(t, err, models.ErrExtraction)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		_, err := e.ExtractBytes([]byte{0xff, 0xfe, 0xfd}, "rfp.txt")
		assert.ErrorIs(t, err, models.ErrExtraction)
	})

	t.Run("whitespace only", func(t *testing.T) {
		_, err := e.ExtractBytes([]byte("   \n\t  "), "rfp.txt")
		assert.ErrorIs(t, err, models.ErrExtraction)
	})

	t.Run("corrupt pdf", func(t *testing.T) {
		_, err := e.ExtractBytes([]byte("not a pdf at all"), "rfp.pdf")
		assert.ErrorIs(t, err, models.ErrExtraction)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := e.Extract(filepath.Join(t.TempDir(), "nope.txt"))
		assert.ErrorIs(t, err, models.ErrExtraction)
	})
}

func TestExtractFromPath(t *testing.T) {
	e := extract.New()

	dir := t.TempDir()
	path := filepath.Join(dir, "upload.txt")
	require.NoError(t, os.WriteFile(path, []byte("제안요청서\n본문입니다.\n"), 0644))

	extracted, err := e.Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "제안요청서", extracted.Title)
	assert.Equal(t, "upload.txt", extracted.SourceFile)
}
