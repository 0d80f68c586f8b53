package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		apiKey:     "test-key",
		videoID:    "video123",
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: time.Second},
	}
}

func TestClient_ConnectResolvesLiveChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "video123", r.URL.Query().Get("id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "liveStreamingDetails", r.URL.Query().Get("part"))
		_, _ = w.Write([]byte(`{"items":[{"liveStreamingDetails":{"activeLiveChatId":"chat-abc"}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	require.NoError(t, client.Connect(context.Background()))
	assert.Equal(t, "chat-abc", client.liveChatID)
}

func TestClient_ConnectUnknownVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Connect(context.Background())
	assert.ErrorIs(t, err, ErrInvalidVideoID)
}

func TestClient_ConnectStreamAlreadyOver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"liveStreamingDetails":{}}]}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Connect(context.Background())
	assert.ErrorIs(t, err, ErrChatEnded)
}

func TestClient_PollParsesMessages(t *testing.T) {
	var gotPageTokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/liveChatMessages", r.URL.Path)
		assert.Equal(t, "chat-abc", r.URL.Query().Get("liveChatId"))
		gotPageTokens = append(gotPageTokens, r.URL.Query().Get("pageToken"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"nextPageToken": "page-2",
			"items": []map[string]any{
				{
					"snippet": map[string]any{
						"type": "superChatEvent",
						"superChatDetails": map[string]any{
							"amountDisplayString": "$5.00",
							"currency":            "USD",
							"userComment":         "spawn a tornado",
						},
					},
					"authorDetails": map[string]any{"displayName": "Alice", "isChatModerator": true},
				},
				{
					"snippet": map[string]any{
						"type":               "textMessageEvent",
						"textMessageDetails": map[string]any{"messageText": "!chaos rain frogs"},
					},
					"authorDetails": map[string]any{"displayName": "Bob"},
				},
				{
					"snippet":       map[string]any{"type": "memberMilestoneChatEvent"},
					"authorDetails": map[string]any{"displayName": "Carol"},
				},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	client.liveChatID = "chat-abc"

	messages, err := client.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2, "unknown message types must be skipped")

	assert.Equal(t, Message{
		Kind:         KindSuperChat,
		Author:       "Alice",
		IsModerator:  true,
		Text:         "spawn a tornado",
		AmountString: "$5.00",
		Currency:     "USD",
	}, messages[0])
	assert.Equal(t, Message{
		Kind:   KindText,
		Author: "Bob",
		Text:   "!chaos rain frogs",
	}, messages[1])

	_, err = client.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"", "page-2"}, gotPageTokens, "second poll must carry the page token")
}

func TestClient_PollChatEnded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"errors":[{"reason":"liveChatEnded"}]}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	client.liveChatID = "chat-abc"

	_, err := client.Poll(context.Background())
	assert.ErrorIs(t, err, ErrChatEnded)
}

func TestClient_PollBeforeConnect(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:0").Poll(context.Background())
	assert.Error(t, err)
}
