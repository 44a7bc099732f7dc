package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sender identifies who produced a conversation turn
type Sender string

const (
	SenderScammer Sender = "scammer"
	SenderAgent   Sender = "user"
)

// Timestamp accepts either an ISO-8601 string or a millisecond integer on the wire
type Timestamp struct {
	time.Time
}

// UnmarshalJSON parses both timestamp encodings
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}

	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, str)
		if err != nil {
			parsed, err = time.Parse("2006-01-02T15:04:05", str)
			if err != nil {
				return fmt.Errorf("invalid timestamp %q: %w", str, err)
			}
		}
		t.Time = parsed.UTC()
		return nil
	}

	ms, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", s, err)
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

// MarshalJSON emits RFC3339
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Turn is a single message in a conversation
type Turn struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp Timestamp `json:"timestamp,omitempty"`
}

// Metadata carries channel and locale hints for a request
type Metadata struct {
	Channel  string `json:"channel,omitempty"`
	Language string `json:"language,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

// AnalyzeRequest is the honeypot analyze payload
type AnalyzeRequest struct {
	SessionID string    `json:"sessionId,omitempty"`
	Message   Turn      `json:"message"`
	History   []Turn    `json:"conversationHistory"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// Validate checks the request for the only hard failure we report to callers
func (r *AnalyzeRequest) Validate() error {
	if strings.TrimSpace(r.Message.Text) == "" {
		return fmt.Errorf("message.text must not be empty")
	}
	return nil
}

// FullText concatenates the current message and all history turns
func (r *AnalyzeRequest) FullText() string {
	var sb strings.Builder
	sb.WriteString(r.Message.Text)
	for _, turn := range r.History {
		sb.WriteString(" ")
		sb.WriteString(turn.Text)
	}
	return sb.String()
}

// SuspectText concatenates the current message and the history turns the
// counterparty sent. Our own replies stay out so the honeypot never
// attributes its own utterances as intelligence.
func (r *AnalyzeRequest) SuspectText() string {
	var sb strings.Builder
	sb.WriteString(r.Message.Text)
	for _, turn := range r.History {
		if turn.Sender != SenderScammer {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(turn.Text)
	}
	return sb.String()
}
