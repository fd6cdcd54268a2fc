package api

import "github.com/rsanthanam/techdesk/internal/sqlite"

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type chatRequest struct {
	Prompt         string `json:"prompt"`
	ConversationID int64  `json:"conversation_id,omitempty"`
}

type conversationResponse struct {
	Conversation sqlite.Conversation `json:"conversation"`
	Messages     []sqlite.Message    `json:"messages"`
}

type uploadResponse struct {
	Records int    `json:"records"`
	Backup  string `json:"backup,omitempty"`
}

type revertResponse struct {
	Records  int    `json:"records"`
	Reverted string `json:"reverted"`
}
