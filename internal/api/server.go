package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"quizforge/internal/attempts"
	"quizforge/internal/config"
	"quizforge/internal/models"
	"quizforge/internal/prompt"
	"quizforge/internal/providers"
	"quizforge/internal/review"
	"quizforge/internal/storage"
	"quizforge/internal/synthesis"
	"quizforge/internal/util"
	"quizforge/internal/workflows"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

type Server struct {
	cfg          config.Config
	db           *storage.DB
	setRepo      *storage.QuestionSetRepo
	attemptRepo  *storage.AttemptRepo
	reviewSvc    *review.Service
	providers    *providers.Manager
	builder      *prompt.Builder
	orchestrator *synthesis.Orchestrator
	temporal     tclient.Client
	logger       zerolog.Logger
}

func NewServer(cfg config.Config, logger zerolog.Logger) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	pm, err := providers.NewManager(cfg.LLMProviders)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}
	setRepo := storage.NewQuestionSetRepo(db)
	attemptRepo := storage.NewAttemptRepo(db)
	builder := prompt.NewBuilder(cfg.MaxContextChars)
	orch := synthesis.NewOrchestrator(pm, builder, cfg.MaxConcurrentCalls, cfg.UnitRetries, logger).
		WithCooldown(time.Duration(cfg.ProviderCooldownSecs) * time.Second).
		WithAudit(storage.NewLLMAuditRepo(db))
	return &Server{
		cfg:          cfg,
		db:           db,
		setRepo:      setRepo,
		attemptRepo:  attemptRepo,
		reviewSvc:    review.NewService(attemptRepo, setRepo),
		providers:    pm,
		builder:      builder,
		orchestrator: orch,
		temporal:     tc,
		logger:       logger,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/quizzes", s.handleQuizzes)
	mux.HandleFunc("/quizzes/", s.handleQuizzesScoped)
	mux.HandleFunc("/attempts", s.handleAttempts)
	mux.HandleFunc("/attempts/", s.handleAttemptsScoped)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"llm_providers": s.providers.LLMCount(),
	})
}

func (s *Server) handleQuizzes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		sets, err := s.setRepo.ListQuestionSets(r.Context(), r.URL.Query().Get("user_id"), r.URL.Query().Get("course_id"), limit, offset)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"quizzes": sets})
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleQuizzesScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/quizzes/"), "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}

	if len(parts) == 1 {
		switch parts[0] {
		case "topic":
			s.handleTopicQuiz(w, r)
			return
		case "document":
			s.handleDocumentQuiz(w, r)
			return
		case "mistake-review":
			s.handleMistakeReview(w, r)
			return
		}
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		set, err := s.setRepo.GetQuestionSet(r.Context(), parts[0])
		if err != nil {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, set)
		return
	}

	if len(parts) == 2 {
		setID := parts[0]
		switch parts[1] {
		case "progress":
			s.handleProgress(w, r, setID)
			return
		case "more":
			s.handleAddMore(w, r, setID)
			return
		case "attempts":
			if r.Method != http.MethodGet {
				writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
				return
			}
			list, err := s.attemptRepo.ListAttemptsBySet(r.Context(), setID)
			if err != nil {
				writeErr(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"attempts": list})
			return
		}
	}

	writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
}

type topicQuizRequest struct {
	Topic        string `json:"topic"`
	Title        string `json:"title,omitempty"`
	Difficulty   string `json:"difficulty"`
	QuestionType string `json:"question_type"`
	Count        int    `json:"count"`
	Instructions string `json:"instructions,omitempty"`
	CourseID     string `json:"course_id,omitempty"`
	UserID       string `json:"user_id,omitempty"`
}

func (s *Server) handleTopicQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req topicQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("topic is required"))
		return
	}
	difficulty, qtype, count, err := normalizeQuizParams(req.Difficulty, req.QuestionType, req.Count)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	unit := synthesis.Unit{
		Key:     "topic",
		Request: s.builder.Topic(req.Topic, difficulty, qtype, count, req.Instructions),
	}
	out, err := s.orchestrator.Run(r.Context(), string(models.ModeTopic), []synthesis.Unit{unit}, count, nil)
	if err != nil {
		writeErr(w, synthesisStatus(err), err)
		return
	}

	title := req.Title
	if title == "" {
		title = req.Topic
	}
	now := time.Now().UTC()
	set := &models.QuestionSet{
		SetID:         uuid.NewString(),
		Title:         title,
		SourceType:    models.ModeTopic,
		Difficulty:    difficulty,
		QuestionType:  qtype,
		CourseID:      req.CourseID,
		UserID:        req.UserID,
		Questions:     out.Questions,
		RejectedCount: len(out.Rejected),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.setRepo.InsertQuestionSet(r.Context(), set); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"set_id":    set.SetID,
		"questions": len(set.Questions),
		"shortfall": out.Shortfall,
		"rejected":  len(out.Rejected),
	})
}

func (s *Server) handleDocumentQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	if err := r.ParseMultipartForm(128 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	fh, ok := firstSingleFile(r.MultipartForm.File)
	if !ok {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("only pdf uploads are supported"))
		return
	}

	count, _ := strconv.Atoi(r.FormValue("count"))
	difficulty, qtype, count, err := normalizeQuizParams(r.FormValue("difficulty"), r.FormValue("question_type"), count)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	setID := uuid.NewString()
	inDir := filepath.Join(s.cfg.DataInRoot, setID)
	if err := util.EnsureDir(inDir); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	savedPath, digest, err := saveUploadedFile(inDir, fh)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename))
	}
	withDiagrams := r.FormValue("with_diagrams") != "false"

	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                                       "quiz-" + setID,
		TaskQueue:                                s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflows.DocumentQuizWorkflow, workflows.DocumentQuizInput{
		SetID:        setID,
		DocumentPath: savedPath,
		Title:        title,
		Difficulty:   difficulty,
		QuestionType: qtype,
		TargetCount:  count,
		Instructions: r.FormValue("instructions"),
		CourseID:     r.FormValue("course_id"),
		UserID:       r.FormValue("user_id"),
		WithDiagrams: withDiagrams,
	})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"set_id":          setID,
		"workflow_id":     we.GetID(),
		"run_id":          we.GetRunID(),
		"document_sha256": digest,
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request, setID string) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var status workflows.QuizBuildStatus
	resp, err := s.temporal.QueryWorkflow(r.Context(), "quiz-"+setID, "", workflows.QueryGetQuizStatus)
	if err != nil {
		// Fallback to the stored set when no live workflow answers.
		set, sErr := s.setRepo.GetQuestionSet(r.Context(), setID)
		if sErr != nil {
			writeErr(w, http.StatusNotFound, fmt.Errorf("quiz not found"))
			return
		}
		writeJSON(w, http.StatusOK, workflows.QuizBuildStatus{
			SetID:         setID,
			CurrentStep:   "done",
			Status:        "completed",
			SkippedPages:  set.SkippedPages,
			SkippedImages: set.SkippedImages,
			Questions:     len(set.Questions),
			Rejected:      set.RejectedCount,
		})
		return
	}
	if err := resp.Get(&status); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type addMoreRequest struct {
	Count        int    `json:"count"`
	Instructions string `json:"instructions,omitempty"`
}

func (s *Server) handleAddMore(w http.ResponseWriter, r *http.Request, setID string) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req addMoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if req.Count <= 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("count must be positive"))
		return
	}

	set, err := s.setRepo.GetQuestionSet(r.Context(), setID)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	existing := make([]string, 0, len(set.Questions))
	for _, q := range set.Questions {
		existing = append(existing, q.Text)
	}

	qtype := set.QuestionType
	if qtype == models.TypeImage {
		// Image questions need a diagram payload, which add-more does not carry.
		qtype = models.TypeMultipleChoice
	}
	base := s.builder.Topic(set.Title, set.Difficulty, qtype, req.Count, req.Instructions)
	unit := synthesis.Unit{Key: "add-more", Request: base.WithExclusions(existing)}
	out, err := s.orchestrator.Run(r.Context(), "add_more", []synthesis.Unit{unit}, req.Count, existing)
	if err != nil {
		writeErr(w, synthesisStatus(err), err)
		return
	}
	if err := s.setRepo.AppendQuestions(r.Context(), setID, out.Questions, len(out.Rejected)); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"set_id":    setID,
		"added":     len(out.Questions),
		"shortfall": out.Shortfall,
		"rejected":  len(out.Rejected),
	})
}

type mistakeReviewRequest struct {
	UserID            string `json:"user_id"`
	CourseID          string `json:"course_id"`
	IncludeUnanswered bool   `json:"include_unanswered"`
	Limit             int    `json:"limit"`
}

func (s *Server) handleMistakeReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req mistakeReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("user_id is required"))
		return
	}

	set, err := s.reviewSvc.BuildReviewSet(r.Context(), req.UserID, strings.TrimSpace(req.CourseID), req.IncludeUnanswered, req.Limit)
	if err != nil {
		if errors.Is(err, util.ErrNoQualifyingMistakes) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"set_id":    set.SetID,
		"questions": len(set.Questions),
	})
}

type startAttemptRequest struct {
	SetID  string `json:"set_id"`
	UserID string `json:"user_id,omitempty"`
}

func (s *Server) handleAttempts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req startAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if strings.TrimSpace(req.SetID) == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("set_id is required"))
		return
	}

	set, err := s.setRepo.GetQuestionSet(r.Context(), req.SetID)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	now := time.Now().UTC()
	attempt := &models.Attempt{
		AttemptID: uuid.NewString(),
		SetID:     set.SetID,
		UserID:    req.UserID,
		Status:    "in_progress",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.attemptRepo.InsertAttempt(r.Context(), attempt); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"attempt_id": attempt.AttemptID,
		"set_id":     set.SetID,
		"questions":  attempts.PublicQuestions(set.Questions),
	})
}

type submitAttemptRequest struct {
	Answers          []models.AttemptAnswer `json:"answers"`
	TimeTakenSeconds int                    `json:"time_taken_seconds"`
}

func (s *Server) handleAttemptsScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/attempts/"), "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	attemptID := parts[0]

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		attempt, err := s.attemptRepo.GetAttempt(r.Context(), attemptID)
		if err != nil {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, attempt)
		return
	}

	if len(parts) == 2 && parts[1] == "submit" {
		if r.Method != http.MethodPost {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		s.handleSubmit(w, r, attemptID)
		return
	}

	writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, attemptID string) {
	var req submitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}

	attempt, err := s.attemptRepo.GetAttempt(r.Context(), attemptID)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	if attempt.Status != "in_progress" {
		writeErr(w, http.StatusConflict, fmt.Errorf("attempt already submitted"))
		return
	}
	set, err := s.setRepo.GetQuestionSet(r.Context(), attempt.SetID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	correct, percent, breakdown := attempts.Score(set.Questions, req.Answers)
	attempt.Answers = req.Answers
	attempt.CorrectCount = correct
	attempt.ScorePercent = percent
	attempt.TimeTakenSeconds = req.TimeTakenSeconds
	if err := s.attemptRepo.CompleteAttempt(r.Context(), &attempt); err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"attempt_id":    attempt.AttemptID,
		"correct_count": correct,
		"score_percent": percent,
		"breakdown":     breakdown,
	})
}

func normalizeQuizParams(difficulty, qtype string, count int) (models.Difficulty, models.QuestionType, int, error) {
	d := models.Difficulty(strings.ToLower(strings.TrimSpace(difficulty)))
	switch d {
	case "":
		d = models.DifficultyMedium
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		return "", "", 0, fmt.Errorf("unknown difficulty %q", difficulty)
	}

	q := models.QuestionType(strings.ToLower(strings.TrimSpace(qtype)))
	switch q {
	case "":
		q = models.TypeMultipleChoice
	case models.TypeMultipleChoice, models.TypeTrueFalse, models.TypeEssay, models.TypeMixed:
	default:
		return "", "", 0, fmt.Errorf("unknown question_type %q", qtype)
	}

	if count <= 0 {
		count = 10
	}
	if count > 50 {
		count = 50
	}
	return d, q, count, nil
}

func synthesisStatus(err error) int {
	switch {
	case errors.Is(err, util.ErrNoEligibleContent), errors.Is(err, util.ErrSynthesisExhausted):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// saveUploadedFile stores the upload under dstDir and returns its path
// and sha256 digest.
func saveUploadedFile(dstDir string, fh *multipart.FileHeader) (string, string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	tmp, err := os.CreateTemp(dstDir, "upload-*.pdf")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		return "", "", fmt.Errorf("write upload: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("rewind upload: %w", err)
	}
	digest, err := util.SHA256HexFromReader(tmp)
	if err != nil {
		return "", "", fmt.Errorf("hash upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", "", err
	}
	finalPath := util.SafeJoin(dstDir, fh.Filename)
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		return "", "", fmt.Errorf("atomic move upload: %w", err)
	}
	return finalPath, digest, nil
}

func firstSingleFile(m map[string][]*multipart.FileHeader) (*multipart.FileHeader, bool) {
	if v, ok := m["file"]; ok && len(v) > 0 {
		return v[0], true
	}
	for _, v := range m {
		if len(v) > 0 {
			return v[0], true
		}
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "QF-API-4000"
	raw := ""
	if err != nil {
		raw = strings.ToLower(err.Error())
	}

	switch {
	case status >= 500 && status != http.StatusBadGateway:
		switch {
		case strings.Contains(raw, "relation") && strings.Contains(raw, "does not exist"):
			return apiError{
				Code:    "QF-DB-5001",
				Message: "Database schema is not initialized. Run migrations and retry.",
			}
		case strings.Contains(raw, "connect"), strings.Contains(raw, "dial tcp"), strings.Contains(raw, "connection refused"):
			return apiError{
				Code:    "QF-DB-5002",
				Message: "Database connection is unavailable. Check local services and retry.",
			}
		default:
			return apiError{
				Code:    "QF-API-5000",
				Message: "Internal server error. Please retry or check service logs.",
			}
		}
	case status == http.StatusBadRequest:
		code = "QF-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusNotFound:
		code = "QF-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusConflict:
		code = "QF-API-4009"
		msg = "Operation conflicts with current state. Retry after checking status."
	case status == http.StatusMethodNotAllowed:
		code = "QF-API-4005"
		msg = "This endpoint does not support the requested method."
	case status == http.StatusUnprocessableEntity:
		code = "QF-GEN-4022"
		msg = "No questions could be generated from the given content."
	case status == http.StatusBadGateway:
		code = "QF-API-5020"
		msg = "Upstream provider unavailable. Retry shortly."
	}

	// For 4xx, keep user-safe validation context only.
	if status >= 400 && status < 500 && err != nil {
		switch {
		case strings.Contains(raw, "topic is required"):
			msg = "A topic is required."
		case strings.Contains(raw, "user_id is required"):
			msg = "A user is required."
		case strings.Contains(raw, "set_id is required"):
			msg = "A quiz is required."
		case strings.Contains(raw, "no files provided"):
			msg = "No PDF file was provided."
		case strings.Contains(raw, "only pdf uploads"):
			msg = "Only PDF uploads are supported."
		case strings.Contains(raw, "count must be positive"):
			msg = "Question count must be positive."
		case strings.Contains(raw, "unknown difficulty"):
			msg = "Difficulty must be easy, medium, or hard."
		case strings.Contains(raw, "unknown question_type"):
			msg = "Unsupported question type."
		case strings.Contains(raw, "invalid json"):
			msg = "Malformed JSON request body."
		case strings.Contains(raw, "already submitted"):
			msg = "This attempt was already submitted."
		case strings.Contains(raw, "no qualifying mistakes"):
			msg = "No past mistakes qualify for a review quiz."
		}
	}

	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
