package chatwoot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(Config{
		BaseURL:   srv.URL,
		APIToken:  "test-token",
		AccountID: "7",
	})
	require.NoError(t, err)
	return client
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{BaseURL: "http://x", AccountID: "1"})
	assert.Error(t, err)

	_, err = New(Config{APIToken: "t", AccountID: "1"})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "http://x", APIToken: "t"})
	assert.Error(t, err)
}

func TestSendReply(t *testing.T) {
	var gotPath, gotToken string
	var gotBody sendMessageRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("api_access_token")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(Message{ID: 99, Content: gotBody.Content, MessageType: MessageTypeOutgoing})
	})

	msg, err := client.SendReply(context.Background(), 42, "hello there")
	require.NoError(t, err)
	assert.Equal(t, 99, msg.ID)
	assert.Equal(t, "/api/v1/accounts/7/conversations/42/messages", gotPath)
	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "outgoing", gotBody.MessageType)
}

func TestSendReplyRejectsEmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := client.SendReply(context.Background(), 1, "   ")
	assert.Error(t, err)
}

func TestSendReplyErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := client.SendReply(context.Background(), 1, "hi")
	assert.ErrorContains(t, err, "unexpected status 401")
}

func TestListMessagesAppliesLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(messagesEnvelope{Payload: []Message{
			{ID: 1, Content: "a"}, {ID: 2, Content: "b"}, {ID: 3, Content: "c"},
		}})
	})

	messages, err := client.ListMessages(context.Background(), 42, 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	// Most recent messages are kept.
	assert.Equal(t, 2, messages[0].ID)
	assert.Equal(t, 3, messages[1].ID)
}

func TestAddLabelPreservesExisting(t *testing.T) {
	var setBody setLabelsRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(labelsEnvelope{Payload: []string{"warm"}})
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&setBody)
		_ = json.NewEncoder(w).Encode(labelsEnvelope{Payload: setBody.Labels})
	})

	err := client.AddLabel(context.Background(), 42, "Hot")
	require.NoError(t, err)
	assert.Equal(t, []string{"warm", "hot"}, setBody.Labels)
}

func TestAddLabelAlreadyPresentSkipsSet(t *testing.T) {
	sets := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(labelsEnvelope{Payload: []string{"hot"}})
			return
		}
		sets++
		_ = json.NewEncoder(w).Encode(labelsEnvelope{})
	})

	require.NoError(t, client.AddLabel(context.Background(), 42, "hot"))
	assert.Equal(t, 0, sets)
}

func TestRemoveLabel(t *testing.T) {
	var setBody setLabelsRequest
	sets := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(labelsEnvelope{Payload: []string{"hot", "rfq"}})
			return
		}
		sets++
		_ = json.NewDecoder(r.Body).Decode(&setBody)
		_ = json.NewEncoder(w).Encode(labelsEnvelope{Payload: setBody.Labels})
	})

	require.NoError(t, client.RemoveLabel(context.Background(), 42, "rfq"))
	assert.Equal(t, 1, sets)
	assert.Equal(t, []string{"hot"}, setBody.Labels)

	// Absent label: no set call, no error.
	require.NoError(t, client.RemoveLabel(context.Background(), 42, "booked"))
	assert.Equal(t, 1, sets)
}

func TestUpdateContactAttributes(t *testing.T) {
	var gotPath string
	var gotBody updateContactRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPut, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{}`))
	})

	err := client.UpdateContactAttributes(context.Background(), 5, map[string]string{"origin": "Chennai"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/accounts/7/contacts/5", gotPath)
	assert.Equal(t, "Chennai", gotBody.CustomAttributes["origin"])
}

func TestMessageIsIncoming(t *testing.T) {
	assert.True(t, Message{MessageType: MessageTypeIncoming}.IsIncoming())
	assert.False(t, Message{MessageType: MessageTypeOutgoing}.IsIncoming())
}
