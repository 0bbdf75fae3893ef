package mail

import (
	"Blips/internal/api/config"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailerDisabledWithoutHost(t *testing.T) {
	m := NewSMTPMailer(config.EmailConfig{})
	assert.False(t, m.Enabled())
	assert.ErrorIs(t, m.Send(context.Background(), "a@b.co", "hi", "<p>hi</p>"), ErrNotConfigured)
}

func TestRenderFeedbackEscapesHTML(t *testing.T) {
	body, err := RenderFeedback(FeedbackMail{
		ID:      "1",
		Type:    "bug",
		Subject: "Broken <script>",
		From:    "guest@example.com",
		Message: "steps",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Broken &lt;script&gt;")
	assert.Contains(t, body, "guest@example.com")
}
