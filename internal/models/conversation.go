package models

import "time"

type ConversationState string

const (
	StateNormal                ConversationState = "NORMAL"
	StateAwaitingClarification ConversationState = "AWAITING_CLARIFICATION"
)

// ConversationContext is the per-session clarification state.
type ConversationContext struct {
	State                 ConversationState `json:"state"`
	PendingQuery          string            `json:"pendingQuery,omitempty"`
	ClarificationAskedFor string            `json:"clarificationAskedFor,omitempty"`
	LastIntents           IntentSet         `json:"lastIntents,omitempty"`
}

func NewConversationContext() ConversationContext {
	return ConversationContext{State: StateNormal}
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ReplyKind classifies an assistant message.
type ReplyKind string

const (
	ReplyAnswer        ReplyKind = "answer"
	ReplyClarification ReplyKind = "clarification"
	ReplyError         ReplyKind = "error"
)

type Message struct {
	Role      MessageRole `json:"role"`
	Kind      ReplyKind   `json:"kind,omitempty"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}
