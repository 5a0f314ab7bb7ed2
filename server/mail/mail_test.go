package mail

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestSimulatedWithoutCredentials(t *testing.T) {
	s := New(Config{}, nil)
	if !s.Simulated() {
		t.Error("sender without credentials should be simulated")
	}

	if err := s.SendCheckResult("user@example.com", "/nonexistent.pdf", 3, "report.pdf"); err != nil {
		t.Errorf("simulated send returned error: %v", err)
	}
	if err := s.SendErrorNotification("user@example.com", "broken file"); err != nil {
		t.Errorf("simulated error notification returned error: %v", err)
	}
}

func TestNotSimulatedWithCredentials(t *testing.T) {
	s := New(Config{Sender: "bot@example.com", Password: "secret"}, nil)
	if s.Simulated() {
		t.Error("sender with credentials should not be simulated")
	}
}

func TestBuildMessageWithAttachment(t *testing.T) {
	msg := string(buildMessage("bot@example.com", "user@example.com", "결과",
		"plain body", "<p>html body</p>", "보고서_검사완료.pdf", []byte("%PDF-1.4 fake")))

	for _, want := range []string{
		"To: user@example.com",
		"MIME-Version: 1.0",
		"multipart/mixed",
		"multipart/alternative",
		"text/plain; charset=utf-8",
		"text/html; charset=utf-8",
		"application/pdf",
		"Content-Disposition: attachment",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}

	if strings.Contains(msg, "결과") {
		t.Error("subject should be Q-encoded, found raw Korean in headers")
	}
	wantPDF := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake"))
	if !strings.Contains(msg, wantPDF) {
		t.Error("attachment payload not base64-encoded in message")
	}
}

func TestBuildMessageWithoutAttachment(t *testing.T) {
	msg := string(buildMessage("bot@example.com", "user@example.com", "오류",
		"plain", "<p>html</p>", "", nil))

	if strings.Contains(msg, "multipart/mixed") {
		t.Error("message without attachment should not be multipart/mixed")
	}
	if !strings.Contains(msg, "multipart/alternative") {
		t.Error("message should be multipart/alternative")
	}
}

func TestWrapBase64Folds(t *testing.T) {
	out := wrapBase64String(make([]byte, 200))
	for _, line := range strings.Split(out, "\r\n") {
		if len(line) > 76 {
			t.Errorf("line exceeds 76 columns: %d", len(line))
		}
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	c := ConfigFromEnv()
	if c.Host != "smtp.gmail.com" || c.Port != 587 {
		t.Errorf("unexpected defaults: %s:%d", c.Host, c.Port)
	}
}
