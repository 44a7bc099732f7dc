package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2026-08-30T10:15:00Z"`, time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC)},
		{"rfc3339 with offset", `"2026-08-30T15:45:00+05:30"`, time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC)},
		{"no zone", `"2026-08-30T10:15:00"`, time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC)},
		{"milliseconds", `1788084900000`, time.UnixMilli(1788084900000).UTC()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v, want %v", ts.Time, tt.want)
		})
	}

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestAnalyzeRequestValidate(t *testing.T) {
	req := &AnalyzeRequest{Message: Turn{Text: "   "}}
	assert.Error(t, req.Validate())

	req.Message.Text = "hello"
	assert.NoError(t, req.Validate())
}

func TestSuspectText(t *testing.T) {
	req := &AnalyzeRequest{
		Message: Turn{Sender: SenderScammer, Text: "Share your UPI"},
		History: []Turn{
			{Sender: SenderScammer, Text: "You won a prize"},
			{Sender: SenderAgent, Text: "Mera UPI hai myself@ybl"},
		},
	}

	assert.Equal(t, "Share your UPI You won a prize", req.SuspectText())
	assert.Equal(t, "Share your UPI You won a prize Mera UPI hai myself@ybl", req.FullText())
}

func TestAnalyzeRequestDecoding(t *testing.T) {
	payload := `{
		"sessionId": "wa-123",
		"message": {"sender": "scammer", "text": "You won!", "timestamp": "2026-08-30T10:15:00Z"},
		"conversationHistory": [
			{"sender": "scammer", "text": "hello", "timestamp": 1788084000000}
		],
		"metadata": {"channel": "whatsapp", "language": "hi", "locale": "IN"}
	}`

	var req AnalyzeRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	assert.Equal(t, "wa-123", req.SessionID)
	assert.Equal(t, SenderScammer, req.Message.Sender)
	assert.Len(t, req.History, 1)
	assert.Equal(t, "whatsapp", req.Metadata.Channel)
	assert.Equal(t, "You won! hello", req.FullText())
}
