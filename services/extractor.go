package services

import (
	"encoding/json"
	"regexp"

	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/models"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// richTextPayload is the serialized rich-text editor format: a JSON object
// carrying an HTML rendition of the content.
type richTextPayload struct {
	HTML string `json:"html"`
}

// extractProjectContent resolves a project's content to plain indexable text.
// Preference order: the pre-rendered HTML field, then the HTML embedded in a
// rich-text JSON payload, then the raw content verbatim. A payload that fails
// to parse falls back to the raw content rather than aborting ingestion.
func extractProjectContent(project models.Project, logger *zap.Logger) string {
	if project.Content == "" {
		return ""
	}
	if project.ContentHTML != "" {
		return stripHTMLTags(project.ContentHTML)
	}
	var payload richTextPayload
	if err := json.Unmarshal([]byte(project.Content), &payload); err != nil {
		logger.Warn("could not parse project content as rich text, using raw content",
			zap.String("project_id", project.ID), zap.Error(err))
		return project.Content
	}
	if payload.HTML == "" {
		return project.Content
	}
	return stripHTMLTags(payload.HTML)
}

// stripHTMLTags replaces markup tags with whitespace so adjacent text nodes
// stay separated in the indexed text.
func stripHTMLTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, " ")
}
