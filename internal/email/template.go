package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var notificationTemplate = template.Must(template.New("notification").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #2563eb;">{{.Title}}</h2>
  <p style="font-size: 16px; line-height: 1.5; color: #333;">{{.Message}}</p>
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;" />
  <p style="font-size: 12px; color: #6b7280;">
    This is an automated notification from MediBook.
    <a href="{{.Link}}" style="color: #2563eb;">View all notifications</a>
  </p>
</div>`))

// Renderer turns a notification into the email body.
type Renderer struct {
	clientOrigin string
}

func NewRenderer(clientOrigin string) *Renderer {
	return &Renderer{clientOrigin: strings.TrimRight(clientOrigin, "/")}
}

func (r *Renderer) Render(title, message string) (string, error) {
	var buf bytes.Buffer
	err := notificationTemplate.Execute(&buf, struct {
		Title   string
		Message string
		Link    string
	}{
		Title:   title,
		Message: message,
		Link:    r.clientOrigin + "/notifications",
	})
	if err != nil {
		return "", fmt.Errorf("failed to render notification email: %w", err)
	}
	return buf.String(), nil
}
