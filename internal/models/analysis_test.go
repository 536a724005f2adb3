package models_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfplens/rfplens/internal/models"
)

func TestNormalizeFillsEverySchemaField(t *testing.T) {
	var analysis models.Analysis
	analysis.Schedule.ProjectPeriod = "2024.01~2024.12"
	analysis.Requirements.Details = []models.RequirementDetail{
		{Number: "REQ-001"},
	}

	analysis.Normalize()

	assert.Equal(t, "2024.01~2024.12", analysis.Schedule.ProjectPeriod)
	assert.Equal(t, models.NotSpecified, analysis.Budget.EstimatedBudget)
	assert.Equal(t, models.NotSpecified, analysis.Requirements.Details[0].Name)
	assert.NotNil(t, analysis.Requirements.Details[0].Deliverables)
	assert.NotNil(t, analysis.TechnologyMapping)
	assert.NotNil(t, analysis.Keywords)

	// Every string field of every category block must be non-empty.
	blocks := []interface{}{
		analysis.Overview, analysis.Schedule, analysis.Budget,
		analysis.Evaluation, analysis.Requirements, analysis.Security,
		analysis.ServiceOps, analysis.Quality, analysis.Contract,
		analysis.Vendor, analysis.Submission,
	}
	for _, block := range blocks {
		v := reflect.ValueOf(block)
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if f.Kind() == reflect.String {
				assert.NotEmpty(t, f.String(),
					"%s.%s left empty", v.Type().Name(), v.Type().Field(i).Name)
			}
		}
	}
}

func TestKeywordTextSkipsSentinel(t *testing.T) {
	var analysis models.Analysis
	analysis.Normalize()
	analysis.Keywords = []string{"웹접근성", "고도화"}
	analysis.Budget.EstimatedBudget = "5억원"

	text := analysis.KeywordText()

	assert.Contains(t, text, "웹접근성")
	assert.Contains(t, text, "5억원")
	assert.NotContains(t, text, models.NotSpecified)
}

func TestFlatten(t *testing.T) {
	var analysis models.Analysis
	analysis.ID = "rfp_abc"
	analysis.Title = "차세대 포털 구축"
	analysis.Budget.EstimatedBudget = "5억원"
	analysis.Schedule.SubmissionDeadline = "2024.06.30"
	analysis.Keywords = []string{"포털", "구축"}

	doc := analysis.Flatten("본문 전체 텍스트")

	assert.Equal(t, "rfp_abc", doc.ID)
	assert.Equal(t, "차세대 포털 구축", doc.Title)
	assert.Equal(t, "본문 전체 텍스트", doc.Content)
	assert.Equal(t, "5억원", doc.BudgetRange)
	assert.Equal(t, "2024.06.30", doc.SubmissionDeadline)
	assert.Equal(t, "포털 구축", doc.Keywords)
	assert.Contains(t, doc.Requirements, "요구사항_상세목록")
}

func TestDocumentID(t *testing.T) {
	id := models.DocumentID("sample.pdf")

	require.True(t, strings.HasPrefix(id, "rfp_"))
	assert.Equal(t, id, models.DocumentID("sample.pdf"))
	assert.Equal(t, id, models.DocumentID("  sample.pdf "))
	assert.NotEqual(t, id, models.DocumentID("other.pdf"))
}
