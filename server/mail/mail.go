// Package mail sends spell-check result emails over SMTP with the checked
// PDF attached. Without credentials the sender runs in simulation mode,
// logging what would have been sent, so local development does not need a
// mail account.
package mail

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config holds SMTP settings.
type Config struct {
	// Sender is the account the mail is sent from.
	Sender string

	// Password is the SMTP password or app password.
	Password string

	// Host and Port locate the SMTP server.
	Host string
	Port int
}

// ConfigFromEnv reads SMTP settings from the environment, defaulting to
// Gmail's submission endpoint.
func ConfigFromEnv() Config {
	return Config{
		Sender:   os.Getenv("GMAIL_SENDER_EMAIL"),
		Password: os.Getenv("GMAIL_APP_PASSWORD"),
		Host:     "smtp.gmail.com",
		Port:     587,
	}
}

// Sender sends result emails.
type Sender struct {
	config Config
	logger *logrus.Logger
}

// New creates a Sender. A config without credentials yields a simulating
// sender.
func New(config Config, logger *logrus.Logger) *Sender {
	if config.Host == "" {
		config.Host = "smtp.gmail.com"
	}
	if config.Port == 0 {
		config.Port = 587
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Sender{config: config, logger: logger}
}

// Simulated reports whether the sender only logs instead of sending.
func (s *Sender) Simulated() bool {
	return s.config.Sender == "" || s.config.Password == ""
}

// SendCheckResult mails the checked document to the user with a summary of
// how many errors were found.
func (s *Sender) SendCheckResult(to, pdfPath string, errorsFound int, originalFilename string) error {
	if s.Simulated() {
		s.logger.WithFields(logrus.Fields{
			"to":     to,
			"file":   pdfPath,
			"errors": errorsFound,
		}).Info("simulated result mail")
		return nil
	}

	pdfData, err := os.ReadFile(pdfPath)
	if err != nil {
		return fmt.Errorf("mail: reading attachment: %w", err)
	}

	base := strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename))
	attachmentName := base + "_검사완료.pdf"
	subject := "[PDF 맞춤법 검사 완료] 결과를 확인하세요"
	msg := buildMessage(s.config.Sender, to, subject,
		resultText(originalFilename, errorsFound),
		resultHTML(originalFilename, errorsFound),
		attachmentName, pdfData)

	return s.send(to, msg)
}

// SendErrorNotification tells the user their document could not be
// processed.
func (s *Sender) SendErrorNotification(to, errorMessage string) error {
	if s.Simulated() {
		s.logger.WithFields(logrus.Fields{
			"to":    to,
			"error": errorMessage,
		}).Info("simulated error mail")
		return nil
	}

	subject := "[PDF 맞춤법 검사] 처리 중 오류 발생"
	msg := buildMessage(s.config.Sender, to, subject,
		errorText(errorMessage), errorHTML(errorMessage), "", nil)
	return s.send(to, msg)
}

func (s *Sender) send(to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Sender, s.config.Password, s.config.Host)
	if err := smtp.SendMail(addr, auth, s.config.Sender, []string{to}, msg); err != nil {
		return fmt.Errorf("mail: sending to %s: %w", to, err)
	}
	s.logger.WithField("to", to).Info("mail sent")
	return nil
}

const (
	mixedBoundary = "redpen-mixed-a1b2c3"
	altBoundary   = "redpen-alt-d4e5f6"
)

// buildMessage assembles a multipart/alternative text+HTML message, wrapped
// in multipart/mixed when an attachment is present. Header values with
// Korean text are Q-encoded.
func buildMessage(from, to, subject, textBody, htmlBody, attachmentName string, attachment []byte) []byte {
	var b strings.Builder

	b.WriteString("From: " + mime.QEncoding.Encode("utf-8", "PDF 맞춤법 검사기") + " <" + from + ">\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	writeAlternative := func() {
		b.WriteString("--" + altBoundary + "\r\n")
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		b.WriteString(wrapBase64(textBody) + "\r\n")
		b.WriteString("--" + altBoundary + "\r\n")
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		b.WriteString(wrapBase64(htmlBody) + "\r\n")
		b.WriteString("--" + altBoundary + "--\r\n")
	}

	if attachment == nil {
		b.WriteString("Content-Type: multipart/alternative; boundary=" + altBoundary + "\r\n\r\n")
		writeAlternative()
		return []byte(b.String())
	}

	b.WriteString("Content-Type: multipart/mixed; boundary=" + mixedBoundary + "\r\n\r\n")
	b.WriteString("--" + mixedBoundary + "\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=" + altBoundary + "\r\n\r\n")
	writeAlternative()
	b.WriteString("--" + mixedBoundary + "\r\n")
	b.WriteString("Content-Type: application/pdf\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString("Content-Disposition: attachment; filename=\"" +
		mime.QEncoding.Encode("utf-8", attachmentName) + "\"\r\n\r\n")
	b.WriteString(wrapBase64String(attachment) + "\r\n")
	b.WriteString("--" + mixedBoundary + "--\r\n")
	return []byte(b.String())
}

func wrapBase64(s string) string {
	return wrapBase64String([]byte(s))
}

// wrapBase64String encodes data and folds it into 76-column lines.
func wrapBase64String(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	var b strings.Builder
	for len(encoded) > 76 {
		b.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	return b.String()
}

func resultText(filename string, errorsFound int) string {
	return fmt.Sprintf(`안녕하세요,

요청하신 PDF 맞춤법 검사가 완료되었습니다.

검사 결과:
- 파일명: %s
- 총 오류 개수: %d개
- 첨부된 PDF에 색깔로 표시되어 있습니다.

주석을 클릭하시면 수정 제안을 확인하실 수 있습니다.

감사합니다.
PDF 한국어 맞춤법 검사기
`, filename, errorsFound)
}

func resultHTML(filename string, errorsFound int) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2c3e50;">PDF 맞춤법 검사 완료</h2>
    <p>안녕하세요,</p>
    <p>요청하신 <strong>%s</strong> 파일의 맞춤법 검사가 완료되었습니다.</p>
    <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
      <h3 style="margin-top: 0; color: #495057;">검사 결과</h3>
      <p style="margin: 10px 0;">
        <strong>총 오류 개수:</strong> <span style="color: #dc3545; font-size: 18px;">%d개</span>
      </p>
      <p style="margin: 10px 0;">첨부된 PDF 파일에 색깔로 표시되어 있습니다.</p>
    </div>
    <p><strong>사용 방법:</strong></p>
    <ol>
      <li>첨부된 PDF 파일을 다운로드하세요</li>
      <li>PDF 뷰어로 파일을 열어주세요</li>
      <li>주석을 클릭하면 수정 제안을 확인할 수 있습니다</li>
    </ol>
    <p style="font-size: 14px; color: #6c757d;">
      감사합니다.<br><strong>PDF 한국어 맞춤법 검사기</strong>
    </p>
  </div>
</body>
</html>`, filename, errorsFound)
}

func errorText(message string) string {
	return fmt.Sprintf(`안녕하세요,

요청하신 PDF 파일 처리 중 오류가 발생했습니다.

오류 내용: %s

다시 시도해주시거나, 문제가 지속되면 다른 PDF 파일로 시도해주세요.

감사합니다.
PDF 한국어 맞춤법 검사기
`, message)
}

func errorHTML(message string) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #dc3545;">처리 중 오류 발생</h2>
    <p>안녕하세요,</p>
    <p>요청하신 PDF 파일 처리 중 오류가 발생했습니다.</p>
    <div style="background-color: #f8d7da; padding: 15px; border-radius: 5px; margin: 20px 0; border-left: 4px solid #dc3545;">
      <p style="margin: 0; color: #721c24;"><strong>오류 내용:</strong> %s</p>
    </div>
    <p>다시 시도해주시거나, 문제가 지속되면 다른 PDF 파일로 시도해주세요.</p>
    <p style="font-size: 14px; color: #6c757d;">
      문의사항이 있으시면 언제든 연락주세요.<br><strong>PDF 한국어 맞춤법 검사기</strong>
    </p>
  </div>
</body>
</html>`, message)
}
