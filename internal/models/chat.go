package models

// Role identifies the author of a chat message.

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is a single turn of the conversation history supplied by the client.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body accepted by both the chat and agent routes.
type ChatRequest struct {
	Prompt  string        `json:"prompt"`
	History []ChatMessage `json:"history"`
}
