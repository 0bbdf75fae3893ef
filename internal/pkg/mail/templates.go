package mail

import (
	"bytes"
	"html/template"
)

var feedbackTpl = template.Must(template.New("feedback").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>New {{.Type}} feedback</h2>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p><strong>From:</strong> {{.From}}</p>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
  <p style="color: #888; font-size: 12px;">Feedback ID {{.ID}}</p>
</body>
</html>`))

var testTpl = template.Must(template.New("test").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Blips email test</h2>
  <p>If you can read this, outgoing mail is configured correctly.</p>
  <p style="color: #888; font-size: 12px;">Sent at {{.}}</p>
</body>
</html>`))

type FeedbackMail struct {
	ID      string
	Type    string
	Subject string
	From    string
	Message string
}

func RenderFeedback(m FeedbackMail) (string, error) {
	var buf bytes.Buffer
	if err := feedbackTpl.Execute(&buf, m); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func RenderTest(sentAt string) (string, error) {
	var buf bytes.Buffer
	if err := testTpl.Execute(&buf, sentAt); err != nil {
		return "", err
	}
	return buf.String(), nil
}
