package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-referral-bot/internal/application"
	"telegram-referral-bot/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.MessengerAdapter = (*Messenger)(nil)

// Messenger implements the outbound messenger port over tgbotapi. All text is
// sent with HTML formatting, matching the bot's product copy.
type Messenger struct {
	api *tgbotapi.BotAPI
}

func NewMessenger(token string) (*Messenger, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Messenger{api: api}, nil
}

// API exposes the underlying client for the update poller.
func (m *Messenger) API() *tgbotapi.BotAPI { return m.api }

func contactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(application.LabelShareContact)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(application.LabelReferralLink),
			tgbotapi.NewKeyboardButton(application.LabelMyPoints),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(application.LabelKnowledge),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func inlineRows(rows [][]adapter.InlineButton) tgbotapi.InlineKeyboardMarkup {
	var out [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		var r []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			if b.URL != "" {
				r = append(r, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				r = append(r, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
		}
		out = append(out, r)
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

func (m *Messenger) SendMessage(ctx context.Context, chatID int64, text string, markup adapter.ReplyMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	switch markup {
	case adapter.MarkupContactRequest:
		msg.ReplyMarkup = contactKeyboard()
	case adapter.MarkupMainMenu:
		msg.ReplyMarkup = mainMenuKeyboard()
	}
	_, err := m.api.Send(msg)
	return err
}

func (m *Messenger) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = inlineRows(rows)
	_, err := m.api.Send(msg)
	return err
}

func (m *Messenger) SendPhoto(ctx context.Context, chatID int64, photoPath, caption string, rows [][]adapter.InlineButton) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(photoPath))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	if len(rows) > 0 {
		photo.ReplyMarkup = inlineRows(rows)
	}
	_, err := m.api.Send(photo)
	return err
}

func (m *Messenger) SendDocument(ctx context.Context, chatID int64, filename string, content []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: content})
	doc.Caption = caption
	_, err := m.api.Send(doc)
	return err
}

func (m *Messenger) EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	_, err := m.api.Send(edit)
	return err
}

func (m *Messenger) AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = showAlert
	_, err := m.api.Request(cb)
	return err
}

func (m *Messenger) GetChatMember(ctx context.Context, channelID string, userID int64) (adapter.MemberStatus, error) {
	cfg := tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{UserID: userID},
	}
	// Channel identity is either @username or a numeric -100... id.
	if strings.HasPrefix(channelID, "@") {
		cfg.SuperGroupUsername = channelID
	} else if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		cfg.ChatID = id
	} else {
		cfg.SuperGroupUsername = channelID
	}

	member, err := m.api.GetChatMember(cfg)
	if err != nil {
		return "", err
	}
	return adapter.MemberStatus(member.Status), nil
}
