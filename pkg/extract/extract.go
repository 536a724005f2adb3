package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"

	"github.com/rfplens/rfplens/internal/models"
)

type ExtractorConfig struct {
	MaxPDFPages int // pages beyond this are ignored
	MaxTitleLen int // longer first lines are not treated as titles
}

type Extractor struct {
	config ExtractorConfig
}

func NewWithConfig(config ExtractorConfig) Extractor {
	if config.MaxPDFPages == 0 {
		config.MaxPDFPages = 200
	}
	if config.MaxTitleLen == 0 {
		config.MaxTitleLen = 100
	}

	return Extractor{config: config}
}

func New() Extractor {
	return NewWithConfig(ExtractorConfig{})
}

// Extract reads the file at path and returns its plain text.
func (e Extractor) Extract(path string) (*models.Extracted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", models.ErrExtraction, path, err)
	}

	return e.ExtractBytes(data, filepath.Base(path))
}

// ExtractBytes converts raw document bytes into plain text. The format is
// chosen by the file name extension.
func (e Extractor) ExtractBytes(data []byte, name string) (*models.Extracted, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", models.ErrExtraction, name)
	}

	ext := strings.ToLower(filepath.Ext(name))

	var (
		text  string
		title string
		err   error
	)

	switch ext {
	case ".pdf":
		text, err = e.extractPDF(data)
	case ".docx":
		text, title, err = e.extractDOCX(data)
	case ".txt":
		text, title, err = e.extractText(data)
	case ".html", ".htm":
		text, title, err = e.extractHTML(data)
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text found in %s", models.ErrExtraction, name)
	}

	if title == "" {
		title = strings.TrimSuffix(filepath.Base(name), ext)
	}

	return &models.Extracted{
		Text:       text,
		Title:      title,
		SourceFile: name,
		Format:     strings.TrimPrefix(ext, "."),
	}, nil
}

func (e Extractor) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: reading pdf: %v", models.ErrExtraction, err)
	}

	pages := reader.NumPage()
	if pages > e.config.MaxPDFPages {
		pages = e.config.MaxPDFPages
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		// Pages that fail to decode are skipped rather than failing
		// the whole document.
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (e Extractor) extractDOCX(data []byte) (string, string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", "", fmt.Errorf("%w: reading docx: %v", models.ErrExtraction, err)
	}

	var sb strings.Builder
	title := ""

	for _, item := range doc.Document.Body.Items {
		var line string
		switch block := item.(type) {
		case *docx.Paragraph:
			line = block.String()
		case *docx.Table:
			line = block.String()
		default:
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if title == "" && len(line) < e.config.MaxTitleLen {
			title = line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String(), title, nil
}

func (e Extractor) extractText(data []byte) (string, string, error) {
	if !utf8.Valid(data) {
		return "", "", fmt.Errorf("%w: file is not valid UTF-8", models.ErrExtraction)
	}

	content := string(data)
	title := firstLineTitle(content, e.config.MaxTitleLen)

	return content, title, nil
}

func (e Extractor) extractHTML(data []byte) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("%w: reading html: %v", models.ErrExtraction, err)
	}

	doc.Find("script, style, noscript").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if len(title) >= e.config.MaxTitleLen {
		title = ""
	}

	body := doc.Find("body").Text()
	// Collapse runs of whitespace page layout leaves behind.
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), title, nil
}

func firstLineTitle(content string, maxLen int) string {
	line := content
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		line = content[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" || len(line) >= maxLen {
		return ""
	}
	return line
}
