// Package conversation manages per-user chat threads and the one-step
// dialogue state the resolver consults between turns.
package conversation

import (
	"context"
	"fmt"

	"github.com/rsanthanam/techdesk/internal/kb"
	"github.com/rsanthanam/techdesk/internal/sqlite"
)

const maxTitleRunes = 30

type Service struct {
	store *sqlite.Store
}

func New(store *sqlite.Store) *Service {
	return &Service{store: store}
}

// List returns the user's threads, most recently active first.
func (s *Service) List(ctx context.Context, userID int64) ([]sqlite.Conversation, error) {
	return s.store.ConversationsForUser(ctx, userID)
}

// Get fetches a thread with its messages, scoped to the owner. Returns a nil
// conversation when absent or not owned by the user.
func (s *Service) Get(ctx context.Context, userID, id int64) (*sqlite.Conversation, []sqlite.Message, error) {
	conv, err := s.store.ConversationByID(ctx, userID, id)
	if err != nil || conv == nil {
		return nil, nil, err
	}
	messages, err := s.store.MessagesForConversation(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return conv, messages, nil
}

// PendingOffer returns the dialogue state carried by a thread. Threads
// written before the state column was populated fall back to scanning their
// last assistant message, which carries the same markers.
func (s *Service) PendingOffer(ctx context.Context, userID, id int64) (kb.PendingOffer, error) {
	conv, err := s.store.ConversationByID(ctx, userID, id)
	if err != nil {
		return kb.PendingOffer{}, err
	}
	if conv == nil {
		return kb.PendingOffer{}, nil
	}
	if conv.PendingOffer != "" {
		return kb.DecodeOffer(conv.PendingOffer), nil
	}
	messages, err := s.store.MessagesForConversation(ctx, id)
	if err != nil {
		return kb.PendingOffer{}, err
	}
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "assistant" {
			return kb.DetectOffer(messages[i].Content), nil
		}
	}
	return kb.PendingOffer{}, nil
}

// RecordExchange persists a (prompt, answer) pair. With conversationID zero
// a new thread is opened, titled after the prompt; the returned flag reports
// whether one was created. The answer's offer markers become the thread's
// next pending-offer state.
func (s *Service) RecordExchange(ctx context.Context, userID, conversationID int64, prompt, answer string) (int64, bool, error) {
	offer := kb.DetectOffer(answer).Encode()
	if conversationID == 0 {
		id, err := s.store.CreateConversation(ctx, userID, titleFor(prompt), prompt, answer, offer)
		if err != nil {
			return 0, false, err
		}
		return id, true, nil
	}
	conv, err := s.store.ConversationByID(ctx, userID, conversationID)
	if err != nil {
		return 0, false, err
	}
	if conv == nil {
		return 0, false, fmt.Errorf("conversation %d not found", conversationID)
	}
	if err := s.store.AppendExchange(ctx, conversationID, prompt, answer, offer); err != nil {
		return 0, false, err
	}
	return conversationID, false, nil
}

func titleFor(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= maxTitleRunes {
		return prompt
	}
	return string(runes[:maxTitleRunes])
}
