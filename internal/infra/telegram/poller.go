package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/application"
)

// Poller long-polls Telegram and dispatches each update to the facade.
// Updates are handled strictly one at a time: an update runs to completion
// before the next begins, so handler logic needs no cross-update locking.
type Poller struct {
	api    *tgbotapi.BotAPI
	facade *application.BotFacade
	log    *zerolog.Logger
}

func NewPoller(m *Messenger, facade *application.BotFacade, logger *zerolog.Logger) *Poller {
	return &Poller{api: m.API(), facade: facade, log: logger}
}

func (p *Poller) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := p.api.GetUpdatesChan(u)

	p.log.Info().Str("bot", p.api.Self.UserName).Msg("bot starting")

	for {
		select {
		case <-ctx.Done():
			p.api.StopReceivingUpdates()
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			p.handleUpdate(ctx, up)
		}
	}
}

func (p *Poller) handleUpdate(ctx context.Context, up tgbotapi.Update) {
	if cq := up.CallbackQuery; cq != nil && cq.Message != nil {
		switch cq.Data {
		case "check_subscription":
			p.facade.HandleCheckSubscription(ctx, cq.From.ID, cq.Message.Chat.ID, cq.Message.MessageID, cq.ID)
		case "back_to_menu":
			p.facade.HandleBackToMenu(ctx, cq.From.ID, cq.ID)
		default:
			p.log.Debug().Str("data", cq.Data).Msg("unknown callback")
		}
		return
	}

	msg := up.Message
	if msg == nil || msg.From == nil {
		return
	}
	tgID := msg.From.ID

	if msg.Contact != nil {
		p.facade.HandleContact(ctx, tgID, msg.Contact.UserID, msg.Contact.PhoneNumber)
		return
	}

	if msg.IsCommand() {
		switch cmd := msg.Command(); cmd {
		case "start":
			p.facade.HandleStart(ctx, tgID, msg.From.UserName, msg.From.FirstName, msg.From.LastName, msg.CommandArguments())
		default:
			if !p.facade.HandleAdminCommand(ctx, tgID, cmd) {
				p.log.Debug().Str("command", cmd).Int64("tg_id", tgID).Msg("unknown command")
			}
		}
		return
	}

	if msg.Text != "" {
		if !p.facade.HandleMenuText(ctx, tgID, msg.Text) {
			p.log.Debug().Int64("tg_id", tgID).Msg("unmatched text ignored")
		}
	}
}
