// Package export renders session transcripts to markdown through a
// mustache template, so the output format can be customized without
// rebuilding.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cbroglie/mustache"

	"github.com/pilotchat/pilotchat/internal/core/models"
)

// Markdown renders a session with the given template. An empty model is
// rendered as "unknown".
func Markdown(template string, session *models.Session, model string) (string, error) {
	if model == "" {
		model = "unknown"
	}

	messages := make([]map[string]interface{}, 0, len(session.History))
	for _, m := range session.History {
		messages = append(messages, map[string]interface{}{
			"role": string(m.Role),
			"text": m.Text,
		})
	}

	title := session.Title
	if title == "" {
		title = models.DefaultTitle
	}

	out, err := mustache.Render(template, map[string]interface{}{
		"title":       title,
		"model":       model,
		"exported_at": time.Now().Format("2006-01-02 15:04"),
		"messages":    messages,
	})
	if err != nil {
		return "", fmt.Errorf("render export template: %w", err)
	}
	return out, nil
}

// WriteFile renders the session and writes it next to the working
// directory, deriving a filename from the title. Returns the path
// written.
func WriteFile(template string, session *models.Session, model, dir string) (string, error) {
	out, err := Markdown(template, session, model)
	if err != nil {
		return "", err
	}

	name := slugify(session.Title)
	if name == "" {
		name = "chat"
	}
	path := filepath.Join(dir, name+".md")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func slugify(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteByte('-')
		}
	}
	return strings.Trim(sb.String(), "-")
}
