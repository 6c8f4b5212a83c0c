package bot

import (
	"context"
	"strings"

	"cheesecode/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	session, err := b.sessions.GetSession(ctx, chatID)
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to load session")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	// Commands and menu buttons work from any step.
	switch text {
	case "/start":
		b.greet(ctx, update)
		return
	case btnCancel, "/cancel":
		b.showMainMenu(ctx, chatID, "Cancelled.")
		return
	case btnSearch:
		b.startSearchFlow(ctx, chatID)
		return
	case btnMyBookings:
		b.showMyBookings(ctx, chatID, session)
		return
	case btnLogin:
		b.startLoginFlow(ctx, chatID)
		return
	case btnRegister:
		b.startRegisterFlow(ctx, chatID)
		return
	case btnLogout:
		b.handleLogout(ctx, chatID)
		return
	case btnStats, "/stats":
		if b.isManager(chatID) {
			b.showStats(ctx, chatID)
			return
		}
	case btnExport, "/export":
		if b.isManager(chatID) {
			b.handleExport(ctx, chatID)
			return
		}
	}

	switch session.CurrentStep {
	case models.StepCheckinDate:
		b.handleCheckinInput(ctx, chatID, text)
	case models.StepCheckoutDate:
		b.handleCheckoutInput(ctx, chatID, text, session)
	case models.StepGuestCount:
		b.handleGuestCountInput(ctx, chatID, text, session)
	case models.StepSelectRoom:
		b.handleRoomSelection(ctx, chatID, text, session)
	case models.StepGuestName:
		b.handleGuestNameInput(ctx, chatID, text)
	case models.StepGuestEmail:
		b.handleGuestEmailInput(ctx, chatID, text)
	case models.StepGuestPhone:
		b.handleGuestPhoneInput(ctx, chatID, text, session)
	case models.StepConfirmation:
		b.handleConfirmation(ctx, chatID, text, session)
	case models.StepLoginEmail:
		b.handleLoginEmail(ctx, chatID, text)
	case models.StepLoginPassword:
		b.handleLoginPassword(ctx, chatID, text, session)
	case models.StepRegisterName:
		b.handleRegisterName(ctx, chatID, text)
	case models.StepRegisterEmail:
		b.handleRegisterEmail(ctx, chatID, text)
	case models.StepRegisterPhone:
		b.handleRegisterPhone(ctx, chatID, text)
	case models.StepRegisterPass:
		b.handleRegisterPassword(ctx, chatID, text, session)
	default:
		b.showMainMenu(ctx, chatID, "")
	}
}

func (b *Bot) greet(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	name := update.Message.From.FirstName
	text := "👋 Welcome to the hotel booking service"
	if name != "" {
		text = "👋 Welcome, " + name + "!"
	}
	b.showMainMenu(ctx, chatID, text+"\nSearch for a room or manage your bookings below.")
}

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID
	data := query.Data

	// Acknowledge the button press so the client stops the spinner.
	if _, err := b.tgService.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Error().Err(err).Msg("Failed to answer callback query")
	}

	if id, ok := strings.CutPrefix(data, "cancel_booking:"); ok {
		b.handleCancelBooking(ctx, chatID, id)
		return
	}

	b.logger.Warn().Str("data", data).Msg("Unknown callback data")
}

func (b *Bot) handleCancelBooking(ctx context.Context, chatID int64, bookingID string) {
	count, err := b.bookingService.DeleteBooking(ctx, bookingID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if count == 0 {
		b.sendMessage(chatID, "⚠️ That booking was already cancelled.")
		return
	}
	b.sendMessage(chatID, "✅ Your booking has been cancelled.")
}
