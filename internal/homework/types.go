// Package homework defines the domain model shared by the extraction,
// grading and practice pipelines: subjects, extracted problems and
// graded results. Everything here lives for a single request.
package homework

// Subject is the coarse subject category of a submission.
type Subject string

const (
	SubjectLanguage      Subject = "language"       // 国語
	SubjectMath          Subject = "math"           // 算数
	SubjectEnglish       Subject = "english"        // 英語
	SubjectScience       Subject = "science"        // 理科
	SubjectThinkingSkill Subject = "thinking_skill" // 思考力
	SubjectUnknown       Subject = "unknown"
)

// japaneseLabels maps subjects to the labels printed on worksheets and
// used by the original mobile client.
var japaneseLabels = map[Subject]string{
	SubjectLanguage:      "国語",
	SubjectMath:          "算数",
	SubjectEnglish:       "英語",
	SubjectScience:       "理科",
	SubjectThinkingSkill: "思考力",
}

// Label returns the Japanese display label for a subject, or the raw
// enum value when no label exists.
func (s Subject) Label() string {
	if l, ok := japaneseLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseSubject accepts both the API enum values and the Japanese labels
// clients historically sent. Unrecognized input (including "auto")
// returns (SubjectUnknown, false).
func ParseSubject(s string) (Subject, bool) {
	switch s {
	case "language", "国語":
		return SubjectLanguage, true
	case "math", "算数":
		return SubjectMath, true
	case "english", "英語":
		return SubjectEnglish, true
	case "science", "理科":
		return SubjectScience, true
	case "thinking_skill", "思考力":
		return SubjectThinkingSkill, true
	}
	return SubjectUnknown, false
}

// UnknownField is the sentinel the extraction stage uses for question or
// answer text it cannot read. Extraction must never guess at illegible
// content.
const UnknownField = "unknown"

// ExtractedItem is one problem transcribed from a submission, before any
// correctness judgment. Items are immutable once produced; grading
// builds GradedItems instead of editing them.
type ExtractedItem struct {
	// ID is a positive sequence number, unique within the submission,
	// in reading order.
	ID           int    `json:"id"`
	QuestionText string `json:"question_text"`
	ChildAnswer  string `json:"child_answer"`
}

// Difficulty is the per-problem difficulty the grader reports.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ErrorType classifies arithmetic mistakes. Only populated for math
// items; assigned by deterministic rules, not by the grading engine.
type ErrorType string

const (
	ErrorNone                ErrorType = "none"
	ErrorCarryBorrow         ErrorType = "carry_borrow"
	ErrorMultiplicationTable ErrorType = "multiplication_table"
	ErrorFraction            ErrorType = "fraction_error"
	ErrorGeneric             ErrorType = "generic"
)

// SimilarPractice is one follow-up drill problem attached to a graded
// item.
type SimilarPractice struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// GradedItem is the grading verdict for one extracted problem.
// Correct and Score are independent signals: 0.8 with Correct=false
// legitimately means "close, but not accepted".
type GradedItem struct {
	ID              int               `json:"id"`
	QuestionText    string            `json:"question_text"`
	ChildAnswer     string            `json:"child_answer"`
	Correct         bool              `json:"correct"`
	Score           float64           `json:"score"`
	Feedback        string            `json:"feedback"`
	Hint            string            `json:"hint"`
	Difficulty      Difficulty        `json:"difficulty,omitempty"`
	TopicTags       []string          `json:"topic_tags,omitempty"`
	SimilarPractice []SimilarPractice `json:"similar_practice,omitempty"`
	ErrorType       ErrorType         `json:"error_type,omitempty"`
}

// GradingResult is the top-level response for an image submission.
// Mock marks a degraded placeholder result the client should offer to
// retry.
type GradingResult struct {
	// SubmissionID correlates the response with server logs when a
	// parent reports a bad grade.
	SubmissionID  string       `json:"submission_id"`
	Subject       Subject      `json:"subject"`
	DetectedGrade string       `json:"detected_grade,omitempty"`
	Problems      []GradedItem `json:"problems"`
	Mock          bool         `json:"mock,omitempty"`
}

// ClampScore forces a score into the [0,1] contract regardless of what
// the engine returned.
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
