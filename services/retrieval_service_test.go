package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/models"
)

func newTestRetrievalService(store *fakeStore) RetrievalService {
	return NewRetrievalService(store, zap.NewNop())
}

func profileDoc(id, text, userID string) models.Document {
	return models.Document{
		ID:   id,
		Text: text,
		Metadata: map[string]interface{}{
			"category":    models.CategoryProfile,
			"subcategory": "bio",
			"user_id":     userID,
		},
	}
}

func conversationDoc(id, text, visitorID string) models.Document {
	return models.Document{
		ID:   id,
		Text: text,
		Metadata: map[string]interface{}{
			"category":    models.CategoryConversation,
			"subcategory": "exchange",
			"visitor_id":  visitorID,
		},
	}
}

func TestQueryEmptyCorpusSkipsBackend(t *testing.T) {
	store := newFakeStore()
	svc := newTestRetrievalService(store)

	results := svc.Query(context.Background(), "anything", DefaultQueryOptions())
	require.NotNil(t, results)
	require.Equal(t, 0, results.Len())
	require.Equal(t, 0, store.queryCalls)
}

func TestQueryOwnerFilterKeepsConversationAndOwnerDocs(t *testing.T) {
	store := newFakeStore()
	store.docs = []models.Document{
		profileDoc("bio_u2", "someone else's bio", "u2"),
		profileDoc("bio_u1", "the owner's bio", "u1"),
		conversationDoc("conversation_m1", "User asked: hi\nYou responded: hello", "v9"),
	}
	svc := newTestRetrievalService(store)

	opts := DefaultQueryOptions()
	opts.UserID = "u1"
	results := svc.Query(context.Background(), "bio", opts)

	require.Equal(t, 2, results.Len())
	require.Equal(t, "the owner's bio", results.Documents[0])
	require.Equal(t, "User asked: hi\nYou responded: hello", results.Documents[1])
	require.Len(t, results.Metadatas, 2)
	require.Len(t, results.Distances, 2)
}

func TestQueryWithoutOwnerReturnsMergedUnfiltered(t *testing.T) {
	store := newFakeStore()
	store.docs = []models.Document{
		profileDoc("bio_u2", "u2 bio", "u2"),
		profileDoc("bio_u1", "u1 bio", "u1"),
	}
	svc := newTestRetrievalService(store)

	results := svc.Query(context.Background(), "bio", DefaultQueryOptions())
	require.Equal(t, 2, results.Len())
}

func TestQueryMergesVisitorConversationHistory(t *testing.T) {
	store := newFakeStore()
	store.docs = []models.Document{
		profileDoc("bio_u1", "u1 bio", "u1"),
		conversationDoc("conversation_m1", "exchange for v1", "v1"),
		conversationDoc("conversation_m2", "exchange for v2", "v2"),
	}
	svc := newTestRetrievalService(store)

	opts := DefaultQueryOptions()
	opts.NResults = 1
	opts.VisitorID = "v1"
	results := svc.Query(context.Background(), "bio", opts)

	// One broad match plus the visitor's own exchange; v2's exchange is
	// excluded by the conversation filter.
	require.Equal(t, 2, results.Len())
	require.Equal(t, "u1 bio", results.Documents[0])
	require.Equal(t, "exchange for v1", results.Documents[1])
	require.Equal(t, 2, store.queryCalls)
}

func TestQuerySkipsConversationPassWhenDisabled(t *testing.T) {
	store := newFakeStore()
	store.docs = []models.Document{
		profileDoc("bio_u1", "u1 bio", "u1"),
		conversationDoc("conversation_m1", "exchange for v1", "v1"),
	}
	svc := newTestRetrievalService(store)

	opts := QueryOptions{NResults: 1, VisitorID: "v1", IncludeConversation: false}
	results := svc.Query(context.Background(), "bio", opts)

	require.Equal(t, 1, results.Len())
	require.Equal(t, 1, store.queryCalls)
}

func TestQueryConversationFailureKeepsBroadResults(t *testing.T) {
	store := newFakeStore()
	store.docs = []models.Document{
		profileDoc("bio_u1", "u1 bio", "u1"),
	}
	store.filteredQueryErr = errors.New("filter not supported")
	svc := newTestRetrievalService(store)

	opts := DefaultQueryOptions()
	opts.VisitorID = "v1"
	results := svc.Query(context.Background(), "bio", opts)

	require.Equal(t, 1, results.Len())
	require.Equal(t, "u1 bio", results.Documents[0])
}

func TestQueryBackendFailureReturnsEmptyResults(t *testing.T) {
	store := newFakeStore()
	store.docs = []models.Document{profileDoc("bio_u1", "u1 bio", "u1")}
	store.queryErr = errors.New("backend down")
	svc := newTestRetrievalService(store)

	results := svc.Query(context.Background(), "bio", DefaultQueryOptions())
	require.NotNil(t, results)
	require.Equal(t, 0, results.Len())
}

func TestQueryCountFailureReturnsEmptyResults(t *testing.T) {
	store := newFakeStore()
	store.countErr = errors.New("backend down")
	svc := newTestRetrievalService(store)

	results := svc.Query(context.Background(), "bio", DefaultQueryOptions())
	require.NotNil(t, results)
	require.Equal(t, 0, results.Len())
	require.Equal(t, 0, store.queryCalls)
}
