package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/models"
	"github.com/agentciril/portfolio-chat/services"
	"github.com/agentciril/portfolio-chat/store"
)

type fakeRetrieval struct {
	results  *models.QueryResults
	lastOpts services.QueryOptions
}

func (f *fakeRetrieval) Query(_ context.Context, _ string, opts services.QueryOptions) *models.QueryResults {
	f.lastOpts = opts
	if f.results == nil {
		return models.NewQueryResults()
	}
	return f.results
}

type fakeGenerator struct {
	answer string
	lastPC models.PromptContext
}

func (f *fakeGenerator) GenerateResponse(_ context.Context, _ string, pc models.PromptContext) string {
	f.lastPC = pc
	return f.answer
}

type conversationIngest struct {
	message   string
	response  string
	visitorID string
	messageID string
	userID    string
}

type fakeIngest struct {
	profileCalls  int
	conversations []conversationIngest
}

func (f *fakeIngest) IngestProfile(_ context.Context, _ *models.Profile, _ string) bool {
	f.profileCalls++
	return true
}

func (f *fakeIngest) IngestProjects(_ context.Context, _ []models.Project, _ string) bool {
	return true
}

func (f *fakeIngest) IngestConversation(_ context.Context, message, response, visitorID, messageID, userID string) bool {
	f.conversations = append(f.conversations, conversationIngest{
		message: message, response: response,
		visitorID: visitorID, messageID: messageID, userID: userID,
	})
	return true
}

type chatFixture struct {
	router    *gin.Engine
	retrieval *fakeRetrieval
	generator *fakeGenerator
	ingest    *fakeIngest
	profiles  *store.ProfileStore
	messages  *store.MessageStore
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &chatFixture{
		retrieval: &fakeRetrieval{},
		generator: &fakeGenerator{answer: "a generated answer"},
		ingest:    &fakeIngest{},
		profiles:  store.NewProfileStore(db, zap.NewNop()),
		messages:  store.NewMessageStore(db, zap.NewNop()),
	}
	c := NewChatController(f.retrieval, f.generator, f.ingest, f.profiles, f.messages, zap.NewNop())

	f.router = gin.New()
	f.router.POST("/api/v1/chat", c.Chat)
	f.router.GET("/api/v1/history", c.History)
	return f
}

func (f *chatFixture) postChat(t *testing.T, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestChatRespondsAndRecordsExchange(t *testing.T) {
	f := newChatFixture(t)

	w := f.postChat(t, models.ChatRequest{
		Message:      "What do you work on?",
		VisitorID:    "v1",
		TargetUserID: "u1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "a generated answer", resp.Response)
	require.GreaterOrEqual(t, resp.QueryTimeMs, 0.0)

	require.Equal(t, "u1", f.retrieval.lastOpts.UserID)
	require.Equal(t, "v1", f.retrieval.lastOpts.VisitorID)
	require.True(t, f.retrieval.lastOpts.IncludeConversation)

	items, err := f.messages.History(context.Background(), 10, "v1", "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "What do you work on?", items[0].Message)
	require.Equal(t, "a generated answer", items[0].Response)

	require.Len(t, f.ingest.conversations, 1)
	recorded := f.ingest.conversations[0]
	require.Equal(t, "What do you work on?", recorded.message)
	require.Equal(t, "a generated answer", recorded.response)
	require.Equal(t, "v1", recorded.visitorID)
	require.Equal(t, items[0].ID, recorded.messageID)
	require.Equal(t, "u1", recorded.userID)
}

func TestChatEmptyMessageShortCircuits(t *testing.T) {
	f := newChatFixture(t)

	w := f.postChat(t, models.ChatRequest{Message: "   ", VisitorID: "v1"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "I didn't receive a message. Could you please try again?", resp.Response)

	items, err := f.messages.History(context.Background(), 10, "", "")
	require.NoError(t, err)
	require.Empty(t, items)
	require.Empty(t, f.ingest.conversations)
}

func TestChatRejectsMalformedBody(t *testing.T) {
	f := newChatFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatOwnerFallsBackToProfileUser(t *testing.T) {
	f := newChatFixture(t)
	require.NoError(t, f.profiles.Upsert(context.Background(), &models.Profile{UserID: "u1", Name: "Grace"}))

	w := f.postChat(t, models.ChatRequest{Message: "hello", VisitorID: "v1"})
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, f.ingest.conversations, 1)
	require.Equal(t, "u1", f.ingest.conversations[0].userID)
	require.Equal(t, "Grace", f.generator.lastPC.PersonaName)
}

func TestChatHistoryIsChronologicalInPrompt(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, f.messages.Log(ctx, models.ChatMessage{
		ID: "m1", Message: "earlier question", Sender: models.SenderUser,
		Response: "earlier answer", VisitorID: "v1", Timestamp: base,
	}))
	require.NoError(t, f.messages.Log(ctx, models.ChatMessage{
		ID: "m2", Message: "later question", Sender: models.SenderUser,
		Response: "later answer", VisitorID: "v1", Timestamp: base.Add(time.Minute),
	}))

	w := f.postChat(t, models.ChatRequest{Message: "now", VisitorID: "v1"})
	require.Equal(t, http.StatusOK, w.Code)

	history := f.generator.lastPC.HistoryBlock
	require.Contains(t, history, "earlier question")
	require.Contains(t, history, "later question")
	require.Less(t,
		bytes.Index([]byte(history), []byte("earlier question")),
		bytes.Index([]byte(history), []byte("later question")))
}

func TestHistoryEndpointReturnsRows(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	require.NoError(t, f.messages.Log(ctx, models.ChatMessage{
		Message: "q", Sender: models.SenderUser, Response: "a", VisitorID: "v1",
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history?visitor_id=v1", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Len(t, resp.History, 1)
	require.Equal(t, "q", resp.History[0].Message)
}
