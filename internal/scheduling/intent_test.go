package scheduling

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/max-verstappen001/wiral-node-sub001/internal/chatwoot"
	"github.com/max-verstappen001/wiral-node-sub001/internal/nlu"
)

type stubOracle struct {
	resp    nlu.Response
	err     error
	lastReq nlu.Request
}

func (s *stubOracle) Complete(ctx context.Context, req nlu.Request) (nlu.Response, error) {
	s.lastReq = req
	return s.resp, s.err
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		name string
		resp string
		err  error
		want IntentResult
	}{
		{
			name: "positive with details",
			resp: `{"wants_to_schedule": true, "confidence": 0.93, "extracted_details": {"date": "tomorrow", "time": "3pm", "address": "12 Marina Rd", "urgency": "normal", "notes": ""}, "reasoning": "asked to book pickup"}`,
			want: IntentResult{
				WantsToSchedule: true,
				Confidence:      0.93,
				Extracted:       ExtractedDetails{Date: "tomorrow", Time: "3pm", Address: "12 Marina Rd", Urgency: "normal"},
				Reasoning:       "asked to book pickup",
			},
		},
		{
			name: "negative verdict passes through",
			resp: `{"wants_to_schedule": false, "confidence": 0.2, "extracted_details": {}, "reasoning": "pricing question"}`,
			want: IntentResult{Confidence: 0.2, Reasoning: "pricing question"},
		},
		{
			name: "oracle failure degrades",
			err:  errors.New("boom"),
			want: IntentResult{},
		},
		{
			name: "garbage payload degrades",
			resp: "no json here",
			want: IntentResult{},
		},
		{
			name: "confidence above one zeroed",
			resp: `{"wants_to_schedule": true, "confidence": 42}`,
			want: IntentResult{WantsToSchedule: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &stubOracle{resp: nlu.Response{Text: tt.resp}, err: tt.err}
			detector := NewIntentDetector(oracle, "test-model", nil)
			got := detector.DetectIntent(context.Background(), nil, nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectIntentUsesLastTenMessages(t *testing.T) {
	oracle := &stubOracle{resp: nlu.Response{Text: `{"wants_to_schedule": false, "confidence": 0}`}}
	detector := NewIntentDetector(oracle, "test-model", nil)

	var messages []chatwoot.Message
	for i := 0; i < 12; i++ {
		messages = append(messages, chatwoot.Message{
			Content:     string(rune('a' + i)),
			MessageType: chatwoot.MessageTypeIncoming,
		})
	}
	detector.DetectIntent(context.Background(), messages, nil)

	prompt := oracle.lastReq.Messages[0].Content
	assert.NotContains(t, prompt, "Customer: a\n")
	assert.NotContains(t, prompt, "Customer: b\n")
	assert.Contains(t, prompt, "Customer: c")
	assert.Contains(t, prompt, "Customer: l")
}
