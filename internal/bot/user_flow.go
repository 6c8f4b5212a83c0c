package bot

import (
	"context"
	"strings"

	"cheesecode/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) startLoginFlow(ctx context.Context, chatID int64) {
	if err := b.sessions.SetStep(ctx, chatID, models.StepLoginEmail, nil); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendWithKeyboard(chatID, "📧 Your email address?", cancelKeyboard())
}

func (b *Bot) handleLoginEmail(ctx context.Context, chatID int64, text string) {
	if !strings.Contains(text, "@") {
		b.sendMessage(chatID, "⚠️ That does not look like an email address. Please try again.")
		return
	}
	err := b.sessions.SetStep(ctx, chatID, models.StepLoginPassword, map[string]interface{}{
		"login_email": text,
	})
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(chatID, "🔑 Your password?")
}

func (b *Bot) handleLoginPassword(ctx context.Context, chatID int64, text string, session *models.SessionState) {
	user, err := b.userService.Login(ctx, session.GetString("login_email"), text)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		b.showMainMenu(ctx, chatID, "")
		return
	}

	if err := b.sessions.SetUser(ctx, chatID, user); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.showMainMenu(ctx, chatID, "✅ Logged in as "+user.Name+".")
}

func (b *Bot) startRegisterFlow(ctx context.Context, chatID int64) {
	if err := b.sessions.SetStep(ctx, chatID, models.StepRegisterName, nil); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendWithKeyboard(chatID, "🪪 Your full name?", cancelKeyboard())
}

func (b *Bot) handleRegisterName(ctx context.Context, chatID int64, text string) {
	if text == "" {
		b.sendMessage(chatID, "⚠️ Please enter your name.")
		return
	}
	err := b.sessions.SetStep(ctx, chatID, models.StepRegisterEmail, map[string]interface{}{
		"reg_name": text,
	})
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(chatID, "📧 Your email address?")
}

func (b *Bot) handleRegisterEmail(ctx context.Context, chatID int64, text string) {
	if !strings.Contains(text, "@") {
		b.sendMessage(chatID, "⚠️ That does not look like an email address. Please try again.")
		return
	}
	err := b.sessions.SetStep(ctx, chatID, models.StepRegisterPhone, map[string]interface{}{
		"reg_email": text,
	})
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(chatID, "📞 Your phone number?")
}

func (b *Bot) handleRegisterPhone(ctx context.Context, chatID int64, text string) {
	err := b.sessions.SetStep(ctx, chatID, models.StepRegisterPass, map[string]interface{}{
		"reg_phone": text,
	})
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(chatID, "🔑 Choose a password:")
}

func (b *Bot) handleRegisterPassword(ctx context.Context, chatID int64, text string, session *models.SessionState) {
	if text == "" {
		b.sendMessage(chatID, "⚠️ Please enter a password.")
		return
	}

	user, err := b.userService.Register(ctx, session.GetString("reg_name"),
		session.GetString("reg_email"), session.GetString("reg_phone"), text)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		b.showMainMenu(ctx, chatID, "")
		return
	}

	if err := b.sessions.SetUser(ctx, chatID, user); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.showMainMenu(ctx, chatID, "🎉 Account created. You are now logged in, "+user.Name+".")
}

func (b *Bot) handleLogout(ctx context.Context, chatID int64) {
	if err := b.sessions.ClearSession(ctx, chatID); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.showMainMenu(ctx, chatID, "👋 You have been logged out.")
}

func (b *Bot) showMyBookings(ctx context.Context, chatID int64, session *models.SessionState) {
	if session.User == nil {
		b.sendMessage(chatID, "⚠️ Please log in first to see your bookings.")
		return
	}

	bookings, err := b.bookingService.ListBookingsForUser(ctx, session.User.Email)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if len(bookings) == 0 {
		b.sendMessage(chatID, "You have no bookings yet.")
		return
	}

	for i := range bookings {
		booking := &bookings[i]
		msg := tgbotapi.NewMessage(chatID, formatBooking(booking))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("❌ Cancel this booking", "cancel_booking:"+booking.ID),
			),
		)
		if _, err := b.tgService.Send(msg); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send booking")
		}
	}
}
