package telegram

import (
	"bridgebot/internal/core/domain"
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

const MessageLimit = 4096

//go:generate mockery --name TelegramBot

type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	Start(ctx context.Context)
}

// Telegram is a line source and sender backed by the Telegram bot API.
type Telegram struct {
	bot     TelegramBot
	updates <-chan domain.Line
}

// NewTelegram wraps a bot whose default handler was built with UpdateHandler
// on the same updates channel.
func NewTelegram(bot TelegramBot, updates <-chan domain.Line) *Telegram {
	return &Telegram{bot: bot, updates: updates}
}

// UpdateHandler converts incoming text messages into lines.
func UpdateHandler(updates chan<- domain.Line) bot.HandlerFunc {
	return func(ctx context.Context, _ *bot.Bot, update *models.Update) {
		line, ok := lineFromUpdate(update)
		if !ok {
			return
		}

		log.Debug().Str("message", line.Message).Str("chat", line.Channel).Msg("received message")

		select {
		case updates <- line:
		case <-ctx.Done():
		}
	}
}

func (t *Telegram) Listen(ctx context.Context, lines chan<- domain.Line) error {
	go t.bot.Start(ctx)

	log.Info().Msg("telegram bot listening")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line := <-t.updates:
			select {
			case lines <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (t *Telegram) Send(ctx context.Context, out domain.Outbound) error {
	text := out.Wire()
	if out.Target == domain.TargetAction {
		text = "* " + out.Text
	}

	chatID := chatIDParam(out.Channel)
	for _, chunk := range chunkText(text, MessageLimit) {
		_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   chunk,
		})
		if err != nil {
			log.Error().Err(err).Str("chat", out.Channel).Msg("failed to send message")
			return fmt.Errorf("telegram send: %w", err)
		}
	}

	return nil
}

func lineFromUpdate(update *models.Update) (domain.Line, bool) {
	if update == nil || update.Message == nil {
		return domain.Line{}, false
	}

	msg := update.Message
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if text == "" || msg.From == nil {
		return domain.Line{}, false
	}

	return domain.Line{
		Command: domain.PrivMsg,
		Channel: strconv.FormatInt(msg.Chat.ID, 10),
		User: domain.User{
			Nick:     getUserNameOrFirstName(msg.From),
			Hostmask: strconv.FormatInt(msg.From.ID, 10),
			Account:  msg.From.Username,
		},
		Message: text,
	}, true
}

func getUserNameOrFirstName(user *models.User) string {
	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}

// chatIDParam passes numeric ids as integers and anything else, like
// @channelname, verbatim.
func chatIDParam(channel string) any {
	id, err := strconv.ParseInt(channel, 10, 64)
	if err != nil {
		return channel
	}

	return id
}

func chunkText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > 0 {
		n := min(limit, len(runes))
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}

	return chunks
}
