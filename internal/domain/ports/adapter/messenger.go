package adapter

import "context"

// InlineButton is one inline-keyboard button; Data and URL are mutually
// exclusive on the wire.
type InlineButton struct {
	Text string
	Data string
	URL  string
}

// ReplyMarkup selects one of the bot's fixed reply keyboards.
type ReplyMarkup int

const (
	MarkupNone ReplyMarkup = iota
	MarkupContactRequest
	MarkupMainMenu
)

// MemberStatus is the messaging gateway's classification of a user's
// relationship to a channel.
type MemberStatus string

const (
	StatusMember        MemberStatus = "member"
	StatusAdministrator MemberStatus = "administrator"
	StatusCreator       MemberStatus = "creator"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
	StatusRestricted    MemberStatus = "restricted"
)

// MessengerAdapter is the outbound port to the messaging gateway. The live
// implementation wraps tgbotapi; tests use in-memory fakes.
type MessengerAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup ReplyMarkup) error
	SendButtons(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
	SendPhoto(ctx context.Context, chatID int64, photoPath, caption string, rows [][]InlineButton) error
	SendDocument(ctx context.Context, chatID int64, filename string, content []byte, caption string) error
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error
	AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error
	GetChatMember(ctx context.Context, channelID string, userID int64) (MemberStatus, error)
}
