package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/models"
	"github.com/agentciril/portfolio-chat/vectorstore"
)

const (
	defaultNResults      = 3
	conversationNResults = 3
)

// QueryOptions scopes a retrieval call. The zero value disables conversation
// lookup; use DefaultQueryOptions for the standard settings.
type QueryOptions struct {
	NResults            int
	UserID              string
	VisitorID           string
	IncludeConversation bool
}

// DefaultQueryOptions returns the standard retrieval settings: three matches,
// conversation history included.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{NResults: defaultNResults, IncludeConversation: true}
}

// RetrievalService answers semantic queries against the corpus. Query never
// fails from the caller's perspective: every error path degrades to an
// empty, well-formed result set.
type RetrievalService interface {
	Query(ctx context.Context, text string, opts QueryOptions) *models.QueryResults
}

type retrievalServiceImpl struct {
	store  vectorstore.Store
	logger *zap.Logger
}

func NewRetrievalService(store vectorstore.Store, logger *zap.Logger) RetrievalService {
	return &retrievalServiceImpl{store: store, logger: logger}
}

// Query runs a broad semantic search, optionally merges in the visitor's
// conversation history, then applies the residual owner filter. The broad
// query is deliberately unscoped: the backend's combined category/owner
// filters are unreliable, so ownership is filtered in-process afterwards.
func (r *retrievalServiceImpl) Query(ctx context.Context, text string, opts QueryOptions) *models.QueryResults {
	nResults := opts.NResults
	if nResults <= 0 {
		nResults = defaultNResults
	}

	count, err := r.store.Count(ctx)
	if err != nil {
		r.logger.Error("failed to count corpus documents", zap.Error(err))
		return models.NewQueryResults()
	}
	if count == 0 {
		r.logger.Info("vector store is empty, returning empty results")
		return models.NewQueryResults()
	}

	results, err := r.store.Query(ctx, text, nResults, nil)
	if err != nil {
		r.logger.Error("vector store query failed", zap.Error(err))
		return models.NewQueryResults()
	}

	if opts.VisitorID != "" && opts.IncludeConversation {
		conversation, err := r.store.Query(ctx, text, conversationNResults, vectorstore.Filter{
			"category":   models.CategoryConversation,
			"visitor_id": opts.VisitorID,
		})
		if err != nil {
			// The broad results are still usable without history.
			r.logger.Warn("conversation history query failed",
				zap.String("visitor_id", opts.VisitorID), zap.Error(err))
		} else {
			for i := range conversation.Documents {
				results.Append(conversation.Documents[i], conversation.Metadatas[i], conversation.Distances[i])
			}
			r.logger.Debug("merged conversation matches", zap.Int("count", conversation.Len()))
		}
	}

	if opts.UserID == "" {
		return results
	}

	// Residual ownership filter. Conversation documents are always retained:
	// a visitor's own exchanges stay relevant regardless of which owner is
	// being queried.
	filtered := models.NewQueryResults()
	for i, metadata := range results.Metadatas {
		category, _ := metadata["category"].(string)
		docUserID, _ := metadata["user_id"].(string)
		if category == models.CategoryConversation || docUserID == opts.UserID {
			filtered.Append(results.Documents[i], results.Metadatas[i], results.Distances[i])
		}
	}
	r.logger.Debug("applied owner filter",
		zap.String("user_id", opts.UserID),
		zap.Int("before", results.Len()), zap.Int("after", filtered.Len()))
	return filtered
}
