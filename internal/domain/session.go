package domain

import (
	"slices"
	"time"
)

// MessageRole identifies who spoke a conversation turn.
type MessageRole string

const (
	MessageRoleClient MessageRole = "client"
	MessageRoleRep    MessageRole = "rep"
)

// Message is one conversation turn.
type Message struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// Metrics are the named sub-scores of a training session.
type Metrics struct {
	ProductKnowledge   int `json:"productKnowledge"`
	NeedsAnalysis      int `json:"needsAnalysis"`
	ValueArgumentation int `json:"valueArgumentation"`
}

// Feedback is the coaching summary of a training session.
type Feedback struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// TrainingSession is the record of one completed simulated conversation.
type TrainingSession struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId,omitempty"`
	Date         string         `json:"date"`
	Config       TrainingConfig `json:"config"`
	Score        int            `json:"score"`
	Metrics      Metrics        `json:"metrics"`
	UsedInsights []Insight      `json:"usedInsights"`
	Messages     []Message      `json:"messages"`
	Feedback     Feedback       `json:"feedback"`
}

// SessionDateLayout is the calendar-day format of TrainingSession.Date.
const SessionDateLayout = "2006-01-02"

// Conversation holds the live turns of the conversation in progress.
// Messages are only ever appended.
type Conversation struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	Progress  int       `json:"progress"`
	StartedAt time.Time `json:"startedAt"`
}

// Append adds a turn at the end of the conversation.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
}

// Snapshot returns a copy that shares no slices with c.
func (c *Conversation) Snapshot() Conversation {
	out := *c
	out.Messages = slices.Clone(c.Messages)
	return out
}
