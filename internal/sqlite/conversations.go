package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ConversationsForUser lists a user's threads, most recently active first.
func (s *Store) ConversationsForUser(ctx context.Context, userID int64) ([]Conversation, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store not initialised")
	}
	conversations := []Conversation{}
	err := s.db.SelectContext(ctx, &conversations,
		`SELECT * FROM conversations WHERE user_id = ? ORDER BY updated_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select conversations: %w", err)
	}
	return conversations, nil
}

// ConversationByID fetches a thread scoped to its owner; nil when absent or
// owned by someone else.
func (s *Store) ConversationByID(ctx context.Context, userID, id int64) (*Conversation, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store not initialised")
	}
	var conv Conversation
	err := s.db.GetContext(ctx, &conv, `SELECT * FROM conversations WHERE id = ? AND user_id = ?`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select conversation: %w", err)
	}
	return &conv, nil
}

// MessagesForConversation returns a thread's turns in order.
func (s *Store) MessagesForConversation(ctx context.Context, conversationID int64) ([]Message, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store not initialised")
	}
	messages := []Message{}
	err := s.db.SelectContext(ctx, &messages,
		`SELECT * FROM messages WHERE conversation_id = ? ORDER BY id`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	return messages, nil
}

// CreateConversation opens a new thread seeded with the first exchange and
// returns its id.
func (s *Store) CreateConversation(ctx context.Context, userID int64, title, prompt, answer, pendingOffer string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlite store not initialised")
	}
	now := time.Now().UTC()
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin create conversation: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (user_id, title, pending_offer, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		userID, title, pendingOffer, now, now)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("insert conversation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("conversation id: %w", err)
	}
	if err := insertExchange(ctx, tx, id, prompt, answer, now); err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create conversation: %w", err)
	}
	return id, nil
}

// AppendExchange adds a (user, assistant) turn pair to an existing thread
// and records the new pending offer.
func (s *Store) AppendExchange(ctx context.Context, conversationID int64, prompt, answer, pendingOffer string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlite store not initialised")
	}
	now := time.Now().UTC()
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin append exchange: %w", err)
	}
	if err := insertExchange(ctx, tx, conversationID, prompt, answer, now); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET pending_offer = ?, updated_at = ? WHERE id = ?`,
		pendingOffer, now, conversationID); err != nil {
		tx.Rollback()
		return fmt.Errorf("update conversation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append exchange: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertExchange(ctx context.Context, tx execer, conversationID int64, prompt, answer string, now time.Time) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, 'user', ?, ?)`,
		conversationID, prompt, now); err != nil {
		return fmt.Errorf("insert user message: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, 'assistant', ?, ?)`,
		conversationID, answer, now); err != nil {
		return fmt.Errorf("insert assistant message: %w", err)
	}
	return nil
}
