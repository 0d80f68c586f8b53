package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultAPIBase = "https://www.googleapis.com/youtube/v3"

// Client talks to the YouTube Data API v3 with an API key. It resolves the
// video's active live chat once and then pages through liveChatMessages.
type Client struct {
	apiKey     string
	videoID    string
	baseURL    string
	httpClient *http.Client

	liveChatID string
	pageToken  string
}

func NewClient(apiKey, videoID string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		videoID:    videoID,
		baseURL:    defaultAPIBase,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type videosResponse struct {
	Items []struct {
		LiveStreamingDetails struct {
			ActiveLiveChatID string `json:"activeLiveChatId"`
		} `json:"liveStreamingDetails"`
	} `json:"items"`
}

// Connect looks up the video and stores its active live chat id.
func (c *Client) Connect(ctx context.Context) error {
	query := url.Values{
		"part": {"liveStreamingDetails"},
		"id":   {c.videoID},
		"key":  {c.apiKey},
	}

	var resp videosResponse
	if err := c.get(ctx, "/videos", query, &resp); err != nil {
		return err
	}

	if len(resp.Items) == 0 {
		return ErrInvalidVideoID
	}
	chatID := resp.Items[0].LiveStreamingDetails.ActiveLiveChatID
	if chatID == "" {
		return ErrChatEnded
	}

	c.liveChatID = chatID
	c.pageToken = ""
	return nil
}

type liveChatResponse struct {
	NextPageToken string `json:"nextPageToken"`
	OfflineAt     string `json:"offlineAt"`
	Items         []struct {
		Snippet struct {
			Type               string `json:"type"`
			DisplayMessage     string `json:"displayMessage"`
			TextMessageDetails struct {
				MessageText string `json:"messageText"`
			} `json:"textMessageDetails"`
			SuperChatDetails struct {
				AmountDisplayString string `json:"amountDisplayString"`
				Currency            string `json:"currency"`
				UserComment         string `json:"userComment"`
			} `json:"superChatDetails"`
		} `json:"snippet"`
		AuthorDetails struct {
			DisplayName     string `json:"displayName"`
			IsChatOwner     bool   `json:"isChatOwner"`
			IsChatModerator bool   `json:"isChatModerator"`
		} `json:"authorDetails"`
	} `json:"items"`
}

// Poll fetches the next page of live chat messages.
func (c *Client) Poll(ctx context.Context) ([]Message, error) {
	if c.liveChatID == "" {
		return nil, fmt.Errorf("youtube: poll before connect")
	}

	query := url.Values{
		"part":       {"snippet,authorDetails"},
		"liveChatId": {c.liveChatID},
		"key":        {c.apiKey},
	}
	if c.pageToken != "" {
		query.Set("pageToken", c.pageToken)
	}

	var resp liveChatResponse
	if err := c.get(ctx, "/liveChatMessages", query, &resp); err != nil {
		return nil, err
	}
	if resp.OfflineAt != "" {
		return nil, ErrChatEnded
	}
	c.pageToken = resp.NextPageToken

	messages := make([]Message, 0, len(resp.Items))
	for _, item := range resp.Items {
		msg := Message{
			Author:      item.AuthorDetails.DisplayName,
			IsModerator: item.AuthorDetails.IsChatModerator || item.AuthorDetails.IsChatOwner,
		}
		switch item.Snippet.Type {
		case "superChatEvent":
			msg.Kind = KindSuperChat
			msg.Text = item.Snippet.SuperChatDetails.UserComment
			msg.AmountString = item.Snippet.SuperChatDetails.AmountDisplayString
			msg.Currency = item.Snippet.SuperChatDetails.Currency
		case "textMessageEvent":
			msg.Kind = KindText
			msg.Text = item.Snippet.TextMessageDetails.MessageText
			if msg.Text == "" {
				msg.Text = item.Snippet.DisplayMessage
			}
		default:
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

type apiError struct {
	Err struct {
		Code   int    `json:"code"`
		Errors []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("youtube: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil {
			for _, e := range apiErr.Err.Errors {
				switch e.Reason {
				case "liveChatEnded", "liveChatDisabled":
					return ErrChatEnded
				case "liveChatNotFound":
					return ErrInvalidVideoID
				}
			}
		}
		return fmt.Errorf("youtube: %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("youtube: decode %s response: %w", path, err)
	}
	return nil
}
