package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cheesecode/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	btnSearch     = "🔍 Search rooms"
	btnMyBookings = "📋 My bookings"
	btnLogin      = "👤 Log in"
	btnRegister   = "📝 Register"
	btnLogout     = "🚪 Log out"
	btnCancel     = "❌ Cancel"
	btnConfirm    = "✅ Confirm"
	btnStats      = "📊 Stats"
	btnExport     = "📤 Export"
)

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) mainMenuKeyboard(chatID int64, loggedIn bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		{tgbotapi.NewKeyboardButton(btnSearch), tgbotapi.NewKeyboardButton(btnMyBookings)},
	}
	if loggedIn {
		rows = append(rows, []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(btnLogout)})
	} else {
		rows = append(rows, []tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButton(btnLogin), tgbotapi.NewKeyboardButton(btnRegister),
		})
	}
	if b.isManager(chatID) {
		rows = append(rows, []tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButton(btnStats), tgbotapi.NewKeyboardButton(btnExport),
		})
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm), tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func (b *Bot) showMainMenu(ctx context.Context, chatID int64, text string) {
	session, err := b.sessions.GetSession(ctx, chatID)
	loggedIn := err == nil && session != nil && session.User != nil

	if err := b.sessions.SetStep(ctx, chatID, models.StepMainMenu, nil); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to reset session step")
	}

	if text == "" {
		text = "What would you like to do?"
	}
	b.sendWithKeyboard(chatID, text, b.mainMenuKeyboard(chatID, loggedIn))
}

// parseUserDate accepts YYYY-MM-DD and DD.MM.YYYY, which is what guests
// actually type.
func parseUserDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if t, err := time.Parse(models.DateLayout, input); err == nil {
		return t, nil
	}
	return time.Parse("02.01.2006", input)
}

func formatBooking(booking *models.Booking) string {
	return fmt.Sprintf(
		"🏨 %s (%s)\n📅 %s → %s (%d nights)\n👥 %d guests\n💰 %.2f €\n🆔 %s",
		booking.RoomName,
		booking.RoomType,
		booking.Checkin.Format(models.DateLayout),
		booking.Checkout.Format(models.DateLayout),
		booking.Nights,
		booking.Adults,
		booking.TotalPrice,
		booking.ID,
	)
}
