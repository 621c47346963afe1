package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tougaku/sensei/internal/extract"
	"github.com/tougaku/sensei/internal/grade"
	"github.com/tougaku/sensei/internal/homework"
	"github.com/tougaku/sensei/internal/llm"
	"github.com/tougaku/sensei/internal/pipeline"
	"github.com/tougaku/sensei/internal/practice"
)

// Handler carries the pipeline and per-request limits.
type Handler struct {
	pipeline      *pipeline.Pipeline
	log           zerolog.Logger
	maxUploadSize int64
}

// NewHandler creates the endpoint handlers.
func NewHandler(p *pipeline.Pipeline, log zerolog.Logger, maxUploadSize int64) *Handler {
	return &Handler{pipeline: p, log: log, maxUploadSize: maxUploadSize}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// checkHomeworkRequest is the text endpoint's body.
type checkHomeworkRequest struct {
	Grade        string `json:"grade"`
	Subject      string `json:"subject"`
	QuestionText string `json:"question_text"`
	ChildAnswer  string `json:"child_answer"`
}

// checkHomeworkResponse echoes the request context around the verdict.
type checkHomeworkResponse struct {
	Grade   string            `json:"grade"`
	Subject homework.Subject  `json:"subject"`
	Result  *grade.TextResult `json:"result"`
}

// CheckHomework grades one typed-in question and answer.
func (h *Handler) CheckHomework(w http.ResponseWriter, r *http.Request) {
	var req checkHomeworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Grade == "" || req.QuestionText == "" || req.ChildAnswer == "" {
		writeError(w, http.StatusBadRequest, "grade, question_text and child_answer are required")
		return
	}
	subject, ok := homework.ParseSubject(req.Subject)
	if !ok {
		writeError(w, http.StatusBadRequest, "subject must be one of language, math, english, science, thinking_skill")
		return
	}

	res := h.pipeline.CheckText(r.Context(), grade.TextInput{
		Grade:        req.Grade,
		Subject:      subject,
		QuestionText: req.QuestionText,
		ChildAnswer:  req.ChildAnswer,
	})

	writeJSON(w, http.StatusOK, checkHomeworkResponse{
		Grade:   req.Grade,
		Subject: subject,
		Result:  res,
	})
}

// CheckHomeworkImage grades a photographed homework page. The form
// carries the photo under "image" and an optional "subject" hint
// ("auto", empty, an enum value or a Japanese label).
func (h *Handler) CheckHomeworkImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		writeError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read image")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "image file is empty")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		writeError(w, http.StatusBadRequest, "uploaded file is not an image")
		return
	}

	// "auto" and empty both mean detect; anything else must parse.
	hint := homework.SubjectUnknown
	if s := r.FormValue("subject"); s != "" && s != "auto" {
		parsed, ok := homework.ParseSubject(s)
		if !ok {
			writeError(w, http.StatusBadRequest, "unrecognized subject hint")
			return
		}
		hint = parsed
	}

	res := h.pipeline.CheckImage(r.Context(), extract.Input{
		Images:      []llm.Image{{MIMEType: mimeType, Data: data}},
		SubjectHint: hint,
	})

	writeJSON(w, http.StatusOK, res)
}

// generatePracticeRequest is the practice endpoint's body.
type generatePracticeRequest struct {
	Grade        string `json:"grade"`
	Subject      string `json:"subject"`
	NumQuestions int    `json:"num_questions"`
	SkillFocus   string `json:"skill_focus"`
}

type generatePracticeResponse struct {
	Grade      string              `json:"grade"`
	Subject    homework.Subject    `json:"subject"`
	SkillFocus string              `json:"skill_focus,omitempty"`
	Questions  []practice.Question `json:"questions"`
	Mock       bool                `json:"mock,omitempty"`
}

// GeneratePractice produces fresh drill questions.
func (h *Handler) GeneratePractice(w http.ResponseWriter, r *http.Request) {
	var req generatePracticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Grade == "" {
		writeError(w, http.StatusBadRequest, "grade is required")
		return
	}
	subject, ok := homework.ParseSubject(req.Subject)
	if !ok {
		writeError(w, http.StatusBadRequest, "subject must be one of language, math, english, science, thinking_skill")
		return
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = 3
	}
	if req.NumQuestions < 1 || req.NumQuestions > 10 {
		writeError(w, http.StatusBadRequest, "num_questions must be between 1 and 10")
		return
	}

	qs, degraded := h.pipeline.GeneratePractice(r.Context(), practice.GenerateInput{
		Grade:        req.Grade,
		Subject:      subject,
		NumQuestions: req.NumQuestions,
		SkillFocus:   req.SkillFocus,
	})

	writeJSON(w, http.StatusOK, generatePracticeResponse{
		Grade:      req.Grade,
		Subject:    subject,
		SkillFocus: req.SkillFocus,
		Questions:  qs,
		Mock:       degraded,
	})
}
