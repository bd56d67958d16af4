package telegram

import (
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Gateway abstracts the outbound side of the bot transport: reply messages
// and attachment downloads. The reconciler depends on this interface so it
// can be tested without a live connection.
type Gateway interface {
	// SendText sends a plain-text reply to a chat.
	SendText(chatID int64, text string) error

	// FetchFile opens the content of an attachment by its transport file ID.
	// The caller owns the returned reader.
	FetchFile(fileID string) (io.ReadCloser, error)
}

// BotGateway implements Gateway over the Telegram Bot API.
type BotGateway struct {
	api    *tgbotapi.BotAPI
	client *http.Client
}

// NewBotGateway creates a gateway around an authorized bot client.
func NewBotGateway(api *tgbotapi.BotAPI) *BotGateway {
	return &BotGateway{
		api: api,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendText sends a plain-text message to the chat.
func (g *BotGateway) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := g.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// FetchFile resolves the file ID to a download URL and opens it.
func (g *BotGateway) FetchFile(fileID string) (io.ReadCloser, error) {
	url, err := g.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file %s: %w", fileID, err)
	}

	resp, err := g.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download file %s: unexpected status %d", fileID, resp.StatusCode)
	}

	return resp.Body, nil
}
