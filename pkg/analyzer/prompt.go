package analyzer

import "fmt"

const systemPrompt = "당신은 RFP 분석 전문가입니다. 주어진 RFP 문서를 정확하게 분석하여 구조화된 정보를 추출합니다."

// BuildPrompt produces the single extraction prompt enumerating the 11
// categories and their field names.
func BuildPrompt(content string) string {
	return fmt.Sprintf(promptTemplate, content)
}

const promptTemplate = `RFP 내용을 11개 카테고리별로 분석하세요.

**요구사항 추출 지침:**
1. RFP 문서 전체를 처음부터 끝까지 검토하여 모든 요구사항을 추출하세요
2. 요구사항 고유번호 패턴: ECR-XXX-XXX-XX, REQ-XXX-XXX, RFP-XXX-XXX, REQ-001 등
3. 각 요구사항별로 분류, 명칭, 세부내용, 산출정보를 포함하세요
4. 고유번호가 없는 요구사항은 REQ-GEN-001, REQ-GEN-002 형태로 부여하세요
5. "요구사항", "기능요구", "비기능요구", "성능요구", "보안요구" 등의 키워드로 검색하세요

**응답 규칙:**
- 반드시 아래 JSON 형식 하나만으로 응답하세요
- 문서에서 확인할 수 없는 항목은 빈 문자열로 두세요
- 예시 값을 복사하지 말고 실제 문서의 내용으로 채우세요

RFP 내용:
%s

다음 JSON 형식으로 응답해주세요:
{
    "1_핵심개요": {
        "배경목적": "프로젝트 배경 및 목적",
        "범위": "프로젝트 범위 (포함/제외 사항)",
        "기대성과": "비즈니스 목표 및 효과 지표",
        "용어정의": "주요 용어 및 약어 정의",
        "이해관계자": "발주부서 및 이해관계자"
    },
    "2_일정마일스톤": {
        "사업기간": "착수일부터 종료일까지",
        "주요마일스톤": "착수/중간점검/시범/검수 일정",
        "제출물일정": "요구서/설계/결과보고 등 제출물 일정",
        "질의응답마감": "Q&A 및 제안서 접수 마감일"
    },
    "3_예산가격": {
        "추정예산": "예산 범위 및 상한가",
        "부가세포함": "부가세 포함 여부",
        "가격구성": "라이선스/구축/운영/교육/옵션 비용",
        "지불조건": "선급/중도/준공/검수 연동 지불 조건",
        "원가산출근거": "인력단가, 수량, 산식 등"
    },
    "4_평가선정기준": {
        "정량정성배점": "기술/가격 비율 및 배점표",
        "가점감점요건": "레퍼런스, 인증, 현장실사 등",
        "탈락필수요건": "필수 서류 및 자격 미충족 시 탈락 조건"
    },
    "5_요구사항": {
        "요구사항_상세목록": [
            {"요구사항_고유번호": "REQ-001", "요구사항_분류": "기능요구", "요구사항_명칭": "명칭", "요구사항_세부내용": "세부내용", "산출정보": ["산출물"]}
        ],
        "기능요구": "요구사항 고유번호별 핵심 기능 요구사항",
        "인터페이스연계": "시스템 목록, 연계 방식, 주기",
        "데이터": "요구사항 고유번호별 데이터 관련 요구사항",
        "비기능요구": "성능, 가용성, 확장성, 보안, 접근성 요구사항",
        "호환성표준": "국가표준, 오픈API, 브라우저/OS 호환성"
    },
    "6_보안준법": {
        "인증권한감사": "로그, 분리, 추적성",
        "개인정보컴플라이언스": "ISO27001, ISMS, GDPR 등",
        "망구성암호화": "망구성, 암호화, 키관리",
        "취약점진단": "취약점 진단 및 보안점검 대응"
    },
    "7_서비스수준운영": {
        "SLA": "가용성, 응답/복구 시간, 페널티",
        "장애변경배포": "ITSM, CAB 프로세스",
        "모니터링리포팅": "KPI, 주기, 포맷",
        "헬프데스크": "지원 시간 및 티어",
        "교육매뉴얼": "교육, 매뉴얼, 전환운영, 케어기간"
    },
    "8_품질검수인수": {
        "산출물목록": "산출물 목록 및 템플릿",
        "테스트계획": "단위/통합/성능/UAT 테스트 계획",
        "인수기준": "인수 기준, 결함 허용치, 재검수 규칙",
        "파일럿PoC": "파일럿/PoC 조건"
    },
    "9_계약법무": {
        "계약유형": "총액/단가/성과형 계약",
        "지적재산권": "소스코드 소유 및 사용권",
        "비밀유지": "NDA, 자료반환 조건",
        "손해배상": "손해배상, 지체상금, 보증, 보험",
        "하자보수": "하자보수 기간 및 범위"
    },
    "10_공급사자격역량": {
        "참여제한": "업종, 등급, 실적 등 참여 제한",
        "필수자격": "필수 자격 요건",
        "투입인력": "등급, 자격증, 상주 여부",
        "레퍼런스": "유사 프로젝트 규모, 기간, 기술스택"
    },
    "11_제출형식지시": {
        "제안서형식": "제안서 형식, 분량, 언어, 파일 규격",
        "필수첨부": "서약서, 인증서, 재무제표 등",
        "제출채널": "제출 채널, 원본/사본 매수",
        "프레젠테이션": "데모/샘플/시연 요구 기준"
    },
    "기술솔루션매핑": {"요구사항": "구체적인 기술 솔루션 명"},
    "핵심키워드": ["핵심 키워드들"]
}`
