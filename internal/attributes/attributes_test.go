package attributes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/max-verstappen001/wiral-node-sub001/internal/chatwoot"
	"github.com/max-verstappen001/wiral-node-sub001/internal/nlu"
)

type stubOracle struct {
	resp nlu.Response
	err  error
}

func (s *stubOracle) Complete(ctx context.Context, req nlu.Request) (nlu.Response, error) {
	return s.resp, s.err
}

func newService(resp string, err error) *OracleService {
	return NewOracleService(&stubOracle{resp: nlu.Response{Text: resp}, err: err}, "test-model", 4, 10, nil)
}

func TestMissing(t *testing.T) {
	current := map[string]string{
		"lead_name": "Ravi",
		"origin":    "Chennai",
		"cargo_details": "2BHK", // optional, must not affect the list
	}
	missing := Missing(DefaultDefinitions, current)
	assert.ElementsMatch(t, []string{"phone_number", "destination", "service_type"}, missing)

	assert.Empty(t, Missing(DefaultDefinitions, map[string]string{
		"lead_name": "a", "phone_number": "b", "origin": "c", "destination": "d", "service_type": "e",
	}))
}

func TestDetectChangeIntent(t *testing.T) {
	current := map[string]string{"origin": "Chennai"}

	t.Run("change detected", func(t *testing.T) {
		svc := newService(`{"has_change": true, "updates": {"origin": "Madurai"}, "reasoning": "corrected pickup city"}`, nil)
		got := svc.DetectChangeIntent(context.Background(), "actually we're moving from Madurai", current, DefaultDefinitions)
		assert.True(t, got.HasChange)
		assert.Equal(t, map[string]string{"origin": "Madurai"}, got.Updates)
	})

	t.Run("oracle failure never raises", func(t *testing.T) {
		svc := newService("", errors.New("boom"))
		got := svc.DetectChangeIntent(context.Background(), "actually we're moving from Madurai", current, DefaultDefinitions)
		assert.Equal(t, ChangeIntent{}, got)
	})

	t.Run("nothing on file short-circuits", func(t *testing.T) {
		svc := newService(`{"has_change": true, "updates": {"origin": "Madurai"}}`, nil)
		got := svc.DetectChangeIntent(context.Background(), "hello", nil, DefaultDefinitions)
		assert.Equal(t, ChangeIntent{}, got)
	})

	t.Run("has_change without updates treated as no change", func(t *testing.T) {
		svc := newService(`{"has_change": true, "updates": {}, "reasoning": "unsure"}`, nil)
		got := svc.DetectChangeIntent(context.Background(), "hmm", current, DefaultDefinitions)
		assert.False(t, got.HasChange)
	})
}

func TestExtractMissing(t *testing.T) {
	messages := []chatwoot.Message{{Content: "I'm Ravi, moving from Chennai to Bangalore", MessageType: chatwoot.MessageTypeIncoming}}

	t.Run("fills gaps only", func(t *testing.T) {
		svc := newService(`{"lead_name": "Ravi", "origin": "Chennai", "destination": "Bangalore"}`, nil)
		got := svc.ExtractMissing(context.Background(), messages, map[string]string{"origin": "Madurai"}, DefaultDefinitions)
		// origin is already on file and must not be overwritten.
		assert.Equal(t, map[string]string{"lead_name": "Ravi", "destination": "Bangalore"}, got)
	})

	t.Run("oracle failure yields empty map", func(t *testing.T) {
		svc := newService("", errors.New("boom"))
		got := svc.ExtractMissing(context.Background(), messages, nil, DefaultDefinitions)
		assert.Empty(t, got)
	})

	t.Run("everything collected short-circuits", func(t *testing.T) {
		svc := newService(`{"lead_name": "X"}`, nil)
		current := map[string]string{}
		for _, def := range DefaultDefinitions {
			current[def.Key] = "set"
		}
		got := svc.ExtractMissing(context.Background(), messages, current, DefaultDefinitions)
		assert.Empty(t, got)
	})
}

func TestShouldCollectNow(t *testing.T) {
	svc := newService("{}", nil)
	missing := []string{"origin", "destination"}

	assert.True(t, svc.ShouldCollectNow(2, missing), "always collect early")
	assert.True(t, svc.ShouldCollectNow(6, missing), "mid-conversation with several gaps")
	assert.False(t, svc.ShouldCollectNow(6, []string{"origin"}), "mid-conversation with a single gap")
	assert.False(t, svc.ShouldCollectNow(10, missing), "long conversation stops nagging")
	assert.False(t, svc.ShouldCollectNow(2, nil), "nothing missing")
}
