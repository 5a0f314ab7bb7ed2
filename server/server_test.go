package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/obmakesomething/redpen"
	"github.com/obmakesomething/redpen/extract"
	"github.com/obmakesomething/redpen/model"
	"github.com/obmakesomething/redpen/server/mail"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProcessor struct {
	report      *redpen.Report
	warnings    []redpen.Warning
	err         error
	writeOutput bool
}

func (f *fakeProcessor) Process(_ context.Context, _, outPath string) (*redpen.Report, []redpen.Warning, error) {
	if f.writeOutput {
		if err := os.WriteFile(outPath, []byte("%PDF-1.4 annotated"), 0o644); err != nil {
			return nil, nil, err
		}
	}
	return f.report, f.warnings, f.err
}

func testServer(t *testing.T, p Processor) *Server {
	t.Helper()
	dir := t.TempDir()
	config := Config{
		TempDir:       dir,
		EmailLogPath:  filepath.Join(dir, "emails.csv"),
		SurveyLogPath: filepath.Join(dir, "surveys.csv"),
	}
	return New(config, p, mail.New(mail.Config{}, nil), nil)
}

func uploadRequest(t *testing.T, filename, email string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("pdf", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(payload); err != nil {
			t.Fatal(err)
		}
	}
	if email != "" {
		if err := w.WriteField("email", email); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/check-pdf", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	s := testServer(t, &fakeProcessor{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestAPITest(t *testing.T) {
	s := testServer(t, &fakeProcessor{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), Version) {
		t.Error("response missing version")
	}
}

func TestCheckPDFValidation(t *testing.T) {
	s := testServer(t, &fakeProcessor{})

	cases := []struct {
		name     string
		filename string
		email    string
	}{
		{"missing pdf", "", "user@example.com"},
		{"missing email", "doc.pdf", ""},
		{"wrong extension", "doc.txt", "user@example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, uploadRequest(t, tc.filename, tc.email, []byte("%PDF")))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCheckPDFTooLarge(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{TempDir: dir, MaxUploadBytes: 16}, &fakeProcessor{},
		mail.New(mail.Config{}, nil), nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "doc.pdf", "user@example.com",
		bytes.Repeat([]byte("x"), 64)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCheckPDFSuccessWithErrors(t *testing.T) {
	box := model.NewBBox(10, 20, 60, 32)
	proc := &fakeProcessor{
		report: &redpen.Report{
			Annotations: []model.Annotation{
				{Wrong: "되요", Correct: "돼요", Category: model.CategorySpell, Page: 1, Box: &box},
			},
			Highlighted: 1,
		},
		writeOutput: true,
	}
	s := testServer(t, proc)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "보고서.pdf", "user@example.com", []byte("%PDF original")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp checkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.ErrorsFound != 1 || resp.ErrorsHighlighted != 1 {
		t.Errorf("counts = %d/%d, want 1/1", resp.ErrorsFound, resp.ErrorsHighlighted)
	}
	if resp.PDFFilename != "보고서_맞춤법검사.pdf" {
		t.Errorf("filename = %q", resp.PDFFilename)
	}
	data, err := base64.StdEncoding.DecodeString(resp.PDFData)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.4 annotated" {
		t.Errorf("returned wrong document: %q", data)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Wrong != "되요" {
		t.Errorf("error list = %+v", resp.Errors)
	}
}

func TestCheckPDFCleanDocumentReturnsOriginal(t *testing.T) {
	proc := &fakeProcessor{report: &redpen.Report{}}
	s := testServer(t, proc)

	original := []byte("%PDF clean document")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "clean.pdf", "user@example.com", original))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp checkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ErrorsFound != 0 {
		t.Errorf("errors_found = %d, want 0", resp.ErrorsFound)
	}
	if resp.PDFFilename != "clean.pdf" {
		t.Errorf("filename = %q, want original name", resp.PDFFilename)
	}
	data, err := base64.StdEncoding.DecodeString(resp.PDFData)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, original) {
		t.Error("clean document should round-trip unmodified")
	}
}

func TestCheckPDFInsufficientText(t *testing.T) {
	proc := &fakeProcessor{err: extract.ErrInsufficientText}
	s := testServer(t, proc)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "scan.pdf", "user@example.com", []byte("%PDF")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestCheckPDFAppendsEmailLog(t *testing.T) {
	proc := &fakeProcessor{report: &redpen.Report{}}
	s := testServer(t, proc)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "doc.pdf", "logged@example.com", []byte("%PDF")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	data, err := os.ReadFile(s.config.EmailLogPath)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "timestamp,email,filename,errors_found") {
		t.Error("log missing header")
	}
	if !strings.Contains(content, "logged@example.com,doc.pdf,0") {
		t.Errorf("log missing row: %q", content)
	}
}

func TestSurvey(t *testing.T) {
	s := testServer(t, &fakeProcessor{})

	body := `{"source":"검색","purpose":"과제 제출"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/survey", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	data, err := os.ReadFile(s.config.SurveyLogPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "anonymous") {
		t.Error("missing email should default to anonymous")
	}
	if !strings.Contains(string(data), "검색") {
		t.Error("survey row not recorded")
	}
}

func TestSurveyRequiresFields(t *testing.T) {
	s := testServer(t, &fakeProcessor{})

	for _, body := range []string{
		`{"purpose":"과제"}`,
		`{"source":"검색"}`,
		`not json`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/survey", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestCSVLogHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	l := newCSVLog(path, []string{"a", "b"})

	if err := l.Append("1", "2"); err != nil {
		t.Fatal(err)
	}
	if err := l.Append("3", "4"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "a,b"); got != 1 {
		t.Errorf("header written %d times, want 1", got)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("log has %d lines, want 3", len(lines))
	}
}
