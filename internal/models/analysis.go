package models

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

// NotSpecified marks a schema field the model could not resolve from the
// document. Fields are filled with this sentinel instead of being dropped.
const NotSpecified = "명시되지 않음"

// Analysis is the structured result of a single RFP extraction. The JSON
// tags match the category keys the model is instructed to reply with.
type Analysis struct {
	ID         string    `json:"-"`
	Title      string    `json:"-"`
	SourceFile string    `json:"-"`
	AnalyzedAt time.Time `json:"-"`

	Overview     CoreOverview        `json:"1_핵심개요"`
	Schedule     ScheduleMilestones  `json:"2_일정마일스톤"`
	Budget       BudgetPricing       `json:"3_예산가격"`
	Evaluation   EvaluationCriteria  `json:"4_평가선정기준"`
	Requirements Requirements        `json:"5_요구사항"`
	Security     SecurityCompliance  `json:"6_보안준법"`
	ServiceOps   ServiceLevelOps     `json:"7_서비스수준운영"`
	Quality      QualityAcceptance   `json:"8_품질검수인수"`
	Contract     ContractLegal       `json:"9_계약법무"`
	Vendor       VendorQualification `json:"10_공급사자격역량"`
	Submission   SubmissionFormat    `json:"11_제출형식지시"`

	TechnologyMapping map[string]string `json:"기술솔루션매핑"`
	Keywords          []string          `json:"핵심키워드"`
}

type CoreOverview struct {
	Background     string `json:"배경목적"`
	Scope          string `json:"범위"`
	ExpectedResult string `json:"기대성과"`
	Definitions    string `json:"용어정의"`
	Stakeholders   string `json:"이해관계자"`
}

type ScheduleMilestones struct {
	ProjectPeriod      string `json:"사업기간"`
	Milestones         string `json:"주요마일스톤"`
	DeliverableDates   string `json:"제출물일정"`
	SubmissionDeadline string `json:"질의응답마감"`
}

type BudgetPricing struct {
	EstimatedBudget string `json:"추정예산"`
	VATIncluded     string `json:"부가세포함"`
	PriceBreakdown  string `json:"가격구성"`
	PaymentTerms    string `json:"지불조건"`
	CostBasis       string `json:"원가산출근거"`
}

type EvaluationCriteria struct {
	ScoringWeights string `json:"정량정성배점"`
	BonusPenalty   string `json:"가점감점요건"`
	Disqualifiers  string `json:"탈락필수요건"`
}

// RequirementDetail is a single uniquely numbered requirement pulled from
// the requirement tables of the document.
type RequirementDetail struct {
	Number       string   `json:"요구사항_고유번호"`
	Class        string   `json:"요구사항_분류"`
	Name         string   `json:"요구사항_명칭"`
	Detail       string   `json:"요구사항_세부내용"`
	Deliverables []string `json:"산출정보"`
}

type Requirements struct {
	Details       []RequirementDetail `json:"요구사항_상세목록"`
	Functional    string              `json:"기능요구"`
	Interfaces    string              `json:"인터페이스연계"`
	Data          string              `json:"데이터"`
	NonFunctional string              `json:"비기능요구"`
	Compatibility string              `json:"호환성표준"`
}

type SecurityCompliance struct {
	AuthAudit     string `json:"인증권한감사"`
	Privacy       string `json:"개인정보컴플라이언스"`
	NetworkCrypto string `json:"망구성암호화"`
	VulnScan      string `json:"취약점진단"`
}

type ServiceLevelOps struct {
	SLA            string `json:"SLA"`
	IncidentChange string `json:"장애변경배포"`
	Monitoring     string `json:"모니터링리포팅"`
	Helpdesk       string `json:"헬프데스크"`
	Training       string `json:"교육매뉴얼"`
}

type QualityAcceptance struct {
	Deliverables       string `json:"산출물목록"`
	TestPlan           string `json:"테스트계획"`
	AcceptanceCriteria string `json:"인수기준"`
	PilotPoC           string `json:"파일럿PoC"`
}

type ContractLegal struct {
	ContractType string `json:"계약유형"`
	IPRights     string `json:"지적재산권"`
	NDA          string `json:"비밀유지"`
	Damages      string `json:"손해배상"`
	Warranty     string `json:"하자보수"`
}

type VendorQualification struct {
	Restrictions  string `json:"참여제한"`
	Prerequisites string `json:"필수자격"`
	Staffing      string `json:"투입인력"`
	References    string `json:"레퍼런스"`
}

type SubmissionFormat struct {
	ProposalFormat string `json:"제안서형식"`
	Attachments    string `json:"필수첨부"`
	Channel        string `json:"제출채널"`
	Presentation   string `json:"프레젠테이션"`
}

// Normalize fills every empty schema field with the NotSpecified sentinel
// so that all declared fields are always present for downstream consumers.
func (a *Analysis) Normalize() {
	blocks := []interface{}{
		&a.Overview, &a.Schedule, &a.Budget, &a.Evaluation,
		&a.Security, &a.ServiceOps, &a.Quality, &a.Contract,
		&a.Vendor, &a.Submission, &a.Requirements,
	}
	for _, block := range blocks {
		fillEmptyStrings(block)
	}

	if a.Requirements.Details == nil {
		a.Requirements.Details = []RequirementDetail{}
	}
	for i := range a.Requirements.Details {
		fillEmptyStrings(&a.Requirements.Details[i])
		if a.Requirements.Details[i].Deliverables == nil {
			a.Requirements.Details[i].Deliverables = []string{}
		}
	}
	if a.TechnologyMapping == nil {
		a.TechnologyMapping = map[string]string{}
	}
	if a.Keywords == nil {
		a.Keywords = []string{}
	}
}

func fillEmptyStrings(block interface{}) {
	v := reflect.ValueOf(block).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() == reflect.String && strings.TrimSpace(f.String()) == "" {
			f.SetString(NotSpecified)
		}
	}
}

// KeywordText joins the derived keywords with a fixed subset of high-signal
// fields into the text that gets embedded and matched during search.
func (a *Analysis) KeywordText() string {
	parts := append([]string{}, a.Keywords...)
	for _, field := range []string{
		a.Overview.Background,
		a.Schedule.ProjectPeriod,
		a.Budget.EstimatedBudget,
		a.Requirements.Functional,
		a.Requirements.NonFunctional,
	} {
		if field != "" && field != NotSpecified {
			parts = append(parts, field)
		}
	}
	return strings.Join(parts, " ")
}

// Flatten builds the stored representation of the analysis. Nested blocks
// that the index keeps as single columns are serialized to JSON.
func (a *Analysis) Flatten(content string) IndexedDocument {
	requirements, _ := json.Marshal(a.Requirements)

	return IndexedDocument{
		ID:                 a.ID,
		Title:              a.Title,
		Content:            content,
		Requirements:       string(requirements),
		BudgetRange:        a.Budget.EstimatedBudget,
		SubmissionDeadline: a.Schedule.SubmissionDeadline,
		Keywords:           strings.Join(a.Keywords, " "),
		CreatedAt:          a.AnalyzedAt,
	}
}

// MarshalIndent renders the full analysis as indented JSON for prompts and
// console output.
func (a *Analysis) MarshalIndent() string {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// DocumentID derives the stable index key for a source identifier, so that
// re-analyzing the same document overwrites its previous entry.
func DocumentID(source string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(source)))
	return "rfp_" + hex.EncodeToString(sum[:8])
}
