package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/models"
	"github.com/agentciril/portfolio-chat/vectorstore"
)

// defaultOwner is used when neither the caller nor the profile carries a
// user id; ingestion proceeds rather than failing.
const defaultOwner = "default"

// IngestService converts profile, project, and conversation records into
// indexed documents. All operations report success as a boolean and absorb
// failures so the surrounding request path stays alive.
type IngestService interface {
	IngestProfile(ctx context.Context, profile *models.Profile, userID string) bool
	IngestProjects(ctx context.Context, projects []models.Project, userID string) bool
	IngestConversation(ctx context.Context, message, response, visitorID, messageID, userID string) bool
}

type ingestServiceImpl struct {
	store  vectorstore.Store
	logger *zap.Logger
}

func NewIngestService(store vectorstore.Store, logger *zap.Logger) IngestService {
	return &ingestServiceImpl{store: store, logger: logger}
}

// IngestProfile replaces the owner's profile documents with one document per
// non-empty profile field, then delegates to project ingestion for the
// profile's project list.
func (s *ingestServiceImpl) IngestProfile(ctx context.Context, profile *models.Profile, userID string) bool {
	if profile == nil {
		s.logger.Warn("no profile provided for ingestion")
		return false
	}
	effectiveUserID := userID
	if effectiveUserID == "" {
		effectiveUserID = profile.UserID
	}
	if effectiveUserID == "" {
		s.logger.Warn("no user id for profile ingestion, documents will not be user-specific")
		effectiveUserID = defaultOwner
	}

	// Clear the previous generation for this owner. A delete against an
	// empty collection is not fatal.
	err := s.store.Delete(ctx, vectorstore.Filter{
		"category": models.CategoryProfile,
		"user_id":  effectiveUserID,
	})
	if err != nil {
		s.logger.Warn("could not clear existing profile documents, collection may be empty",
			zap.String("user_id", effectiveUserID), zap.Error(err))
	}

	fields := []struct {
		subcategory string
		value       string
	}{
		{"name", profile.Name},
		{"location", profile.Location},
		{"bio", profile.Bio},
		{"skills", profile.Skills},
		{"experience", profile.Experience},
		{"projects", profile.Projects},
		{"interests", profile.Interests},
	}
	docs := make([]models.Document, 0, len(fields))
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		docs = append(docs, models.Document{
			ID:   fmt.Sprintf("%s_%s", field.subcategory, effectiveUserID),
			Text: field.value,
			Metadata: map[string]interface{}{
				"category":    models.CategoryProfile,
				"subcategory": field.subcategory,
				"user_id":     effectiveUserID,
			},
		})
	}
	if len(docs) > 0 {
		if err := s.store.Add(ctx, docs); err != nil {
			s.logger.Error("failed to add profile documents",
				zap.String("user_id", effectiveUserID), zap.Error(err))
			return false
		}
		s.logger.Info("profile documents ingested",
			zap.String("user_id", effectiveUserID), zap.Int("count", len(docs)))
	}

	s.IngestProjects(ctx, profile.ProjectList, effectiveUserID)
	return true
}

// IngestProjects replaces all project documents with the given projects'
// title/description/details/content documents. Projects without an id are
// skipped; content over the chunk threshold is split into indexed chunks.
func (s *ingestServiceImpl) IngestProjects(ctx context.Context, projects []models.Project, userID string) bool {
	if len(projects) == 0 {
		s.logger.Debug("no projects to ingest")
		return true
	}

	err := s.store.Delete(ctx, vectorstore.Filter{"category": models.CategoryProject})
	if err != nil {
		s.logger.Warn("could not clear existing project documents, collection may be empty", zap.Error(err))
	}

	var docs []models.Document
	for _, project := range projects {
		if project.ID == "" {
			continue
		}
		if project.Title != "" {
			docs = append(docs, models.Document{
				ID:       fmt.Sprintf("project_title_%s_%s", project.ID, userID),
				Text:     project.Title,
				Metadata: projectMetadata(project, userID, "title"),
			})
		}
		if project.Description != "" {
			docs = append(docs, models.Document{
				ID:       fmt.Sprintf("project_description_%s_%s", project.ID, userID),
				Text:     project.Description,
				Metadata: projectMetadata(project, userID, "description"),
			})
		}
		if project.Details != "" {
			docs = append(docs, models.Document{
				ID:       fmt.Sprintf("project_details_%s_%s", project.ID, userID),
				Text:     project.Details,
				Metadata: projectMetadata(project, userID, "details"),
			})
		}

		contentText := extractProjectContent(project, s.logger)
		if contentText == "" {
			continue
		}
		if len(contentText) > ChunkSize {
			chunks, err := SplitText(contentText, ChunkSize, ChunkOverlap)
			if err != nil {
				s.logger.Error("failed to chunk project content",
					zap.String("project_id", project.ID), zap.Error(err))
				chunks = []string{contentText}
			}
			for i, chunk := range chunks {
				metadata := projectMetadata(project, userID, "content")
				metadata["chunk_index"] = i
				metadata["total_chunks"] = len(chunks)
				docs = append(docs, models.Document{
					ID:       fmt.Sprintf("project_content_%s_%d_%s", project.ID, i, userID),
					Text:     chunk,
					Metadata: metadata,
				})
			}
		} else {
			docs = append(docs, models.Document{
				ID:       fmt.Sprintf("project_content_%s_%s", project.ID, userID),
				Text:     contentText,
				Metadata: projectMetadata(project, userID, "content"),
			})
		}
	}

	if len(docs) > 0 {
		if err := s.store.Add(ctx, docs); err != nil {
			s.logger.Error("failed to add project documents",
				zap.String("user_id", userID), zap.Error(err))
			return false
		}
		s.logger.Info("project documents ingested",
			zap.String("user_id", userID), zap.Int("count", len(docs)))
	}
	return true
}

// IngestConversation appends one exchange document for later retrieval.
// Conversation documents accumulate; they are never replaced.
func (s *ingestServiceImpl) IngestConversation(ctx context.Context, message, response, visitorID, messageID, userID string) bool {
	if messageID == "" {
		messageID = uuid.New().String()
	}
	metadata := map[string]interface{}{
		"category":    models.CategoryConversation,
		"subcategory": "exchange",
		"visitor_id":  visitorID,
		"timestamp":   time.Now().Format("2006-01-02 15:04:05"),
	}
	if userID != "" {
		metadata["user_id"] = userID
	}
	doc := models.Document{
		ID:       "conversation_" + messageID,
		Text:     fmt.Sprintf("User asked: %s\nYou responded: %s", message, response),
		Metadata: metadata,
	}
	if err := s.store.Add(ctx, []models.Document{doc}); err != nil {
		s.logger.Error("failed to add conversation exchange",
			zap.String("visitor_id", visitorID), zap.Error(err))
		return false
	}
	s.logger.Info("conversation exchange ingested", zap.String("visitor_id", visitorID))
	return true
}

func projectMetadata(project models.Project, userID, subcategory string) map[string]interface{} {
	return map[string]interface{}{
		"category":         models.CategoryProject,
		"subcategory":      subcategory,
		"project_id":       project.ID,
		"project_category": project.Category,
		"user_id":          userID,
	}
}
