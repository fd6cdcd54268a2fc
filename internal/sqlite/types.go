package sqlite

import "time"

// User represents an account row. Passwords are stored as bcrypt hashes.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Conversation represents a chat thread owned by a user. PendingOffer holds
// the encoded one-step dialogue state consulted on the next confirmation.
type Conversation struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Title        string    `db:"title" json:"title"`
	PendingOffer string    `db:"pending_offer" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Message is one turn of a conversation, role "user" or "assistant".
type Message struct {
	ID             int64     `db:"id" json:"id"`
	ConversationID int64     `db:"conversation_id" json:"conversation_id"`
	Role           string    `db:"role" json:"role"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// KnowledgeRow is a raw knowledge-base row, used by the admin preview.
type KnowledgeRow struct {
	ID          int64  `db:"id" json:"id"`
	Code        string `db:"code" json:"code"`
	Name        string `db:"name" json:"name"`
	SubCode     string `db:"sub_code" json:"sub_code"`
	Description string `db:"description" json:"description"`
}
