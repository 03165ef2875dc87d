package booking

import (
	"context"
	"errors"
	"strings"
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

func TestDetectConfirmation(t *testing.T) {
	tests := []struct {
		name string
		resp string
		err  error
		want ConfirmationResult
	}{
		{
			name: "clean confirmation",
			resp: `{"is_confirmation": true, "is_rejection": false, "confidence": 0.95, "reasoning": "said yes"}`,
			want: ConfirmationResult{IsConfirmation: true, Confidence: 0.95, Reasoning: "said yes"},
		},
		{
			name: "rejection",
			resp: `{"is_confirmation": false, "is_rejection": true, "confidence": 0.9, "reasoning": "said no"}`,
			want: ConfirmationResult{IsRejection: true, Confidence: 0.9, Reasoning: "said no"},
		},
		{
			name: "fenced JSON",
			resp: "```json\n{\"is_confirmation\": true, \"is_rejection\": false, \"confidence\": 0.85}\n```",
			want: ConfirmationResult{IsConfirmation: true, Confidence: 0.85},
		},
		{
			name: "oracle failure degrades to negative default",
			err:  errors.New("timeout"),
			want: ConfirmationResult{},
		},
		{
			name: "non-JSON payload degrades",
			resp: "I'm not sure what you mean",
			want: ConfirmationResult{},
		},
		{
			name: "out-of-range confidence zeroed",
			resp: `{"is_confirmation": true, "is_rejection": false, "confidence": 7.5}`,
			want: ConfirmationResult{IsConfirmation: true, Confidence: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &stubOracle{resp: nlu.Response{Text: tt.resp}, err: tt.err}
			detector := NewConfirmationDetector(oracle, "test-model", nil)

			got := detector.DetectConfirmation(context.Background(), nil, nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectConfirmationUsesLastFiveMessages(t *testing.T) {
	oracle := &stubOracle{resp: nlu.Response{Text: `{"is_confirmation": false, "is_rejection": false, "confidence": 0}`}}
	detector := NewConfirmationDetector(oracle, "test-model", nil)

	messages := []chatwoot.Message{
		{Content: "m1", MessageType: chatwoot.MessageTypeIncoming},
		{Content: "m2", MessageType: chatwoot.MessageTypeOutgoing},
		{Content: "m3", MessageType: chatwoot.MessageTypeIncoming},
		{Content: "m4", MessageType: chatwoot.MessageTypeOutgoing},
		{Content: "m5", MessageType: chatwoot.MessageTypeIncoming},
		{Content: "m6", MessageType: chatwoot.MessageTypeOutgoing},
		{Content: "m7", MessageType: chatwoot.MessageTypeIncoming},
	}
	detector.DetectConfirmation(context.Background(), messages, map[string]string{"origin": "Chennai"})

	prompt := oracle.lastReq.Messages[0].Content
	assert.NotContains(t, prompt, "m1")
	assert.NotContains(t, prompt, "m2")
	assert.Contains(t, prompt, "m3")
	assert.Contains(t, prompt, "m7")
	assert.Contains(t, prompt, "origin: Chennai")
	assert.True(t, strings.Contains(prompt, "Customer: m7"))
}
