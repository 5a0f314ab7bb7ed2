// Package server exposes the spell-check pipeline over HTTP. It accepts a
// PDF upload, runs the full check-and-highlight pass, mails the result to
// the requester, and returns the annotated document inline as base64.
package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/obmakesomething/redpen"
	"github.com/obmakesomething/redpen/extract"
	"github.com/obmakesomething/redpen/model"
	"github.com/obmakesomething/redpen/server/mail"
)

// Version is reported by the test endpoint.
const Version = "1.0.0"

// Processor runs the check-and-highlight pass on an uploaded document.
// The default implementation wraps the pipeline; tests substitute fakes.
type Processor interface {
	Process(ctx context.Context, inPath, outPath string) (*redpen.Report, []redpen.Warning, error)
}

// Config holds server settings.
type Config struct {
	// Addr is the listen address.
	Addr string

	// MaxUploadBytes caps the accepted PDF size.
	MaxUploadBytes int64

	// TempDir receives the uploaded and annotated files for the duration
	// of a request.
	TempDir string

	// EmailLogPath and SurveyLogPath are CSV files appended on each
	// request. Empty values disable the logs.
	EmailLogPath  string
	SurveyLogPath string

	// BareunAPIKey, when set, puts the Bareun checker at the front of the
	// chain.
	BareunAPIKey string

	// OCRFallback retries extraction with OCR when a document yields too
	// little text.
	OCRFallback bool

	// SnapshotDir, when set, stores a per-run analysis snapshot.
	SnapshotDir string

	// Timeout bounds a single document run.
	Timeout time.Duration
}

// DefaultConfig returns the settings used by NewServer when no config is
// given. The listen port honors the PORT environment variable.
func DefaultConfig() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	return Config{
		Addr:           ":" + port,
		MaxUploadBytes: 20 << 20,
		TempDir:        os.TempDir(),
		EmailLogPath:   "user_emails.csv",
		SurveyLogPath:  "survey_responses.csv",
		OCRFallback:    true,
		Timeout:        5 * time.Minute,
	}
}

// Server wires the HTTP routes to the pipeline.
type Server struct {
	config    Config
	processor Processor
	mailer    *mail.Sender
	emailLog  *csvLog
	surveyLog *csvLog
	logger    *logrus.Logger
	engine    *gin.Engine
}

// NewServer builds a server with the default pipeline processor and a
// mailer configured from the environment.
func NewServer(config Config) *Server {
	logger := logrus.StandardLogger()
	return New(config, &pipelineProcessor{config: config, logger: logger},
		mail.New(mail.ConfigFromEnv(), logger), logger)
}

// New builds a server from explicit collaborators.
func New(config Config, processor Processor, mailer *mail.Sender, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}
	if config.MaxUploadBytes == 0 {
		config.MaxUploadBytes = 20 << 20
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Minute
	}

	s := &Server{
		config:    config,
		processor: processor,
		mailer:    mailer,
		logger:    logger,
	}
	if config.EmailLogPath != "" {
		s.emailLog = newCSVLog(config.EmailLogPath,
			[]string{"timestamp", "email", "filename", "errors_found"})
	}
	if config.SurveyLogPath != "" {
		s.surveyLog = newCSVLog(config.SurveyLogPath,
			[]string{"timestamp", "source", "purpose", "email"})
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())
	engine.GET("/health", s.handleHealth)
	engine.GET("/api/test", s.handleTest)
	engine.POST("/api/check-pdf", s.handleCheckPDF)
	engine.POST("/api/survey", s.handleSurvey)
	s.engine = engine
	return s
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on the configured address and blocks.
func (s *Server) Run() error {
	s.logger.WithField("addr", s.config.Addr).Info("server listening")
	return s.engine.Run(s.config.Addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "korean-pdf-spellcheck",
	})
}

func (s *Server) handleTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "API is working",
		"version": Version,
	})
}

// checkResponse is the body returned for a completed document run.
type checkResponse struct {
	Status            string             `json:"status"`
	Message           string             `json:"message"`
	ErrorsFound       int                `json:"errors_found"`
	ErrorsHighlighted int                `json:"errors_highlighted"`
	Errors            []model.Annotation `json:"errors"`
	PDFData           string             `json:"pdf_data"`
	PDFFilename       string             `json:"pdf_filename"`
	Warnings          []string           `json:"warnings,omitempty"`
}

func (s *Server) handleCheckPDF(c *gin.Context) {
	file, err := c.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PDF 파일이 없습니다"})
		return
	}
	email := strings.TrimSpace(c.PostForm("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "이메일 주소가 없습니다"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "파일명이 비어 있습니다"})
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PDF 파일만 업로드할 수 있습니다"})
		return
	}
	if file.Size > s.config.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("파일 크기는 %dMB 이하여야 합니다", s.config.MaxUploadBytes>>20),
		})
		return
	}

	id := uuid.NewString()
	inPath := filepath.Join(s.config.TempDir, id+"_input.pdf")
	outPath := filepath.Join(s.config.TempDir, id+"_output.pdf")
	defer os.Remove(inPath)
	defer os.Remove(outPath)

	if err := c.SaveUploadedFile(file, inPath); err != nil {
		s.logger.WithError(err).Error("saving upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "파일 저장에 실패했습니다"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.Timeout)
	defer cancel()

	report, warnings, err := s.processor.Process(ctx, inPath, outPath)
	if err != nil {
		s.logger.WithError(err).WithField("file", file.Filename).Error("document run failed")
		status := http.StatusInternalServerError
		message := "문서 처리 중 오류가 발생했습니다"
		if errors.Is(err, extract.ErrInsufficientText) || errors.Is(err, extract.ErrNoText) {
			status = http.StatusUnprocessableEntity
			message = "텍스트를 추출할 수 없습니다. 스캔된 문서일 수 있습니다"
		}
		s.notifyFailure(email, message)
		c.JSON(status, gin.H{"error": message})
		return
	}

	errorsFound := len(report.Annotations)
	s.appendEmailLog(email, file.Filename, errorsFound)

	// The annotated file only exists when highlights were drawn. With a
	// clean document the original is returned untouched.
	resultPath := inPath
	resultName := file.Filename
	if errorsFound > 0 {
		resultPath = outPath
		base := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
		resultName = base + "_맞춤법검사.pdf"
		if err := s.mailer.SendCheckResult(email, outPath, errorsFound, file.Filename); err != nil {
			s.logger.WithError(err).Warn("result mail failed")
		}
	}

	pdfData, err := os.ReadFile(resultPath)
	if err != nil {
		s.logger.WithError(err).Error("reading result file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "결과 파일을 읽을 수 없습니다"})
		return
	}

	resp := checkResponse{
		Status:            "success",
		Message:           fmt.Sprintf("%d개의 오류를 찾았습니다", errorsFound),
		ErrorsFound:       errorsFound,
		ErrorsHighlighted: report.Highlighted,
		Errors:            report.Annotations,
		PDFData:           base64.StdEncoding.EncodeToString(pdfData),
		PDFFilename:       resultName,
	}
	for _, w := range warnings {
		resp.Warnings = append(resp.Warnings, w.String())
	}
	c.JSON(http.StatusOK, resp)
}

// surveyRequest is the body accepted by the survey endpoint.
type surveyRequest struct {
	Source  string `json:"source"`
	Purpose string `json:"purpose"`
	Email   string `json:"email"`
}

func (s *Server) handleSurvey(c *gin.Context) {
	var req surveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청 형식입니다"})
		return
	}
	if strings.TrimSpace(req.Source) == "" || strings.TrimSpace(req.Purpose) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "유입 경로와 사용 목적을 입력해주세요"})
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = "anonymous"
	}

	if s.surveyLog != nil {
		if err := s.surveyLog.Append(timestamp(), req.Source, req.Purpose, email); err != nil {
			s.logger.WithError(err).Warn("survey log append failed")
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) appendEmailLog(email, filename string, errorsFound int) {
	if s.emailLog == nil {
		return
	}
	if err := s.emailLog.Append(timestamp(), email, filename, fmt.Sprintf("%d", errorsFound)); err != nil {
		s.logger.WithError(err).Warn("email log append failed")
	}
}

func (s *Server) notifyFailure(email, message string) {
	if err := s.mailer.SendErrorNotification(email, message); err != nil {
		s.logger.WithError(err).Warn("error mail failed")
	}
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// pipelineProcessor runs the real document pipeline.
type pipelineProcessor struct {
	config Config
	logger *logrus.Logger
}

func (p *pipelineProcessor) Process(ctx context.Context, inPath, outPath string) (*redpen.Report, []redpen.Warning, error) {
	pipe := redpen.Open(inPath).WithLogger(p.logger)
	if p.config.OCRFallback {
		pipe = pipe.WithOCRFallback()
	}
	if p.config.BareunAPIKey != "" {
		pipe = pipe.WithBareun(p.config.BareunAPIKey)
	}
	if p.config.SnapshotDir != "" {
		pipe = pipe.WithSnapshots(p.config.SnapshotDir)
	}
	return pipe.Annotate(ctx, outPath)
}
