package emailsvc

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/marks/core"
)

var testConf = &core.Config{
	AppName:          "Marks",
	FrontendBaseURL:  "http://marks.test",
	DefaultFromEmail: mail.Address{Name: "Marks", Address: "noreply@marks.test"},
}

func welcomeMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: "awe", Address: "awe@test.cd"}},
		Subject:      "Welcome",
		TemplateName: "welcome",
		TemplateData: struct{ Username, Email string }{"awe", "awe@test.cd"},
	}
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	svc := NewConsoleServiceMock(testConf)
	svc.SendMessages(welcomeMessage(), &core.EmailMessage{Subject: "no recipients", BodyStr: "lost"})

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Contains(t, msg.TextContent, "Hi awe,")
	assert.Contains(t, msg.TextContent, "awe@test.cd")
	assert.Contains(t, msg.TextContent, "The Marks team")
	assert.Contains(t, msg.HTMLContent, "<b>awe@test.cd</b>")
	assert.Contains(t, msg.HTMLContent, `href="http://marks.test"`)
}

func TestConsoleService_format(t *testing.T) {
	svc := NewConsoleServiceMock(testConf)
	msg := &core.EmailMessage{
		To:      []mail.Address{{Address: "awe@test.cd"}},
		Subject: "Hello",
		BodyStr: "plain body",
	}
	require.NoError(t, msg.Render(testConf))

	body, err := svc.format(*msg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, `From: "Marks" <noreply@marks.test>`))
	assert.Contains(t, body, "Subject: [Marks] Hello\r\n")
	assert.Contains(t, body, "To: <awe@test.cd>\r\n")
	assert.Contains(t, body, "plain body")
	assert.NotContains(t, body, "text/html")
}

func TestSendgridService_prepare(t *testing.T) {
	svc := NewSendgridService(testConf, nil).(*sendgridService)
	msg := welcomeMessage()
	require.NoError(t, msg.Render(testConf))

	m := svc.prepare(*msg)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[Marks] Welcome", m.Personalizations[0].Subject)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, "awe@test.cd", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "noreply@marks.test", m.From.Address)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "text/html", m.Content[1].Type)
}
