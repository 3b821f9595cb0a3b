package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/models"
)

const defaultHistoryLimit = 50

// MessageStore persists chat transcript rows.
type MessageStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMessageStore(db *sqlx.DB, logger *zap.Logger) *MessageStore {
	return &MessageStore{db: db, logger: logger}
}

// Log writes one transcript row. Missing id and timestamp are filled in.
func (s *MessageStore) Log(ctx context.Context, msg models.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, message, sender, response, visitor_id, visitor_name, target_user_id, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Message, msg.Sender, msg.Response,
		msg.VisitorID, msg.VisitorName, msg.TargetUserID, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("log chat message: %w", err)
	}
	s.logger.Debug("chat message logged",
		zap.String("id", msg.ID), zap.String("visitor_id", msg.VisitorID))
	return nil
}

// History returns transcript rows newest first, optionally filtered by
// visitor and/or target owner.
func (s *MessageStore) History(ctx context.Context, limit int, visitorID, targetUserID string) ([]models.ChatHistoryItem, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	query := `SELECT id, message, sender, response, visitor_id, visitor_name, target_user_id, timestamp FROM messages`
	args := []interface{}{}
	where := ""
	if visitorID != "" {
		where = " WHERE visitor_id = ?"
		args = append(args, visitorID)
	}
	if targetUserID != "" {
		if where == "" {
			where = " WHERE target_user_id = ?"
		} else {
			where += " AND target_user_id = ?"
		}
		args = append(args, targetUserID)
	}
	query += where + ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	items := []models.ChatHistoryItem{}
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("fetch chat history: %w", err)
	}
	return items, nil
}
