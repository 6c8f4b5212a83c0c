package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cheesecode/internal/models"
	"cheesecode/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) startSearchFlow(ctx context.Context, chatID int64) {
	if err := b.sessions.SetStep(ctx, chatID, models.StepCheckinDate, nil); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendWithKeyboard(chatID, "📅 Check-in date? (YYYY-MM-DD)", cancelKeyboard())
}

func (b *Bot) handleCheckinInput(ctx context.Context, chatID int64, text string) {
	checkin, err := parseUserDate(text)
	if err != nil {
		b.sendMessage(chatID, "⚠️ I could not read that date. Please use YYYY-MM-DD, e.g. 2026-06-10.")
		return
	}

	err = b.sessions.SetStep(ctx, chatID, models.StepCheckoutDate, map[string]interface{}{
		"checkin": checkin.Format(models.DateLayout),
	})
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(chatID, "📅 Check-out date? (YYYY-MM-DD)")
}

func (b *Bot) handleCheckoutInput(ctx context.Context, chatID int64, text string, session *models.SessionState) {
	checkout, err := parseUserDate(text)
	if err != nil {
		b.sendMessage(chatID, "⚠️ I could not read that date. Please use YYYY-MM-DD, e.g. 2026-06-13.")
		return
	}

	// The service does not re-check date order, so the front end must.
	checkin := session.GetTime("checkin")
	if !checkout.After(checkin) {
		b.sendMessage(chatID, "⚠️ Check-out must be after check-in. Please enter a later date.")
		return
	}

	err = b.sessions.SetStep(ctx, chatID, models.StepGuestCount, map[string]interface{}{
		"checkout": checkout.Format(models.DateLayout),
	})
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(chatID, "👥 How many adults?")
}

func (b *Bot) handleGuestCountInput(ctx context.Context, chatID int64, text string, session *models.SessionState) {
	adults, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || adults <= 0 {
		b.sendMessage(chatID, "⚠️ Please enter a positive number of adults.")
		return
	}

	checkin := session.GetTime("checkin")
	checkout := session.GetTime("checkout")

	rooms, err := b.roomService.SearchAvailableRooms(ctx, checkin, checkout, adults)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if len(rooms) == 0 {
		b.showMainMenu(ctx, chatID, "😔 No rooms are available for those dates. Try a different range.")
		return
	}

	err = b.sessions.SetStep(ctx, chatID, models.StepSelectRoom, map[string]interface{}{
		"adults": adults,
	})
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	nights := service.CalculateNights(checkin, checkout)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏨 Available rooms for %d night(s):\n\n", nights))
	rows := make([][]tgbotapi.KeyboardButton, 0, len(rooms)+1)
	for _, room := range rooms {
		sb.WriteString(fmt.Sprintf("• %s — %.2f €/night, up to %d guests\n%s\n\n",
			room.Name, room.Price, room.MaxGuests, room.Description))
		rows = append(rows, []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(room.Name)})
	}
	rows = append(rows, []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(btnCancel)})
	sb.WriteString("Pick a room by name.")

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	b.sendWithKeyboard(chatID, sb.String(), keyboard)
}

func (b *Bot) handleRoomSelection(ctx context.Context, chatID int64, text string, session *models.SessionState) {
	rooms, err := b.roomService.ListRooms(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var selected *models.Room
	for i := range rooms {
		if strings.EqualFold(rooms[i].Name, text) || rooms[i].Type == strings.ToLower(text) {
			selected = &rooms[i]
			break
		}
	}
	if selected == nil {
		b.sendMessage(chatID, "⚠️ Please pick a room from the keyboard below.")
		return
	}

	data := map[string]interface{}{
		"room_id":   selected.ID,
		"room_type": selected.Type,
	}

	// A logged-in user skips the contact questions.
	if session.User != nil {
		data["guest_name"] = session.User.Name
		data["guest_email"] = session.User.Email
		data["guest_phone"] = session.User.Phone
		if err := b.sessions.SetStep(ctx, chatID, models.StepConfirmation, data); err != nil {
			b.sendMessage(chatID, b.getErrorMessage(err))
			return
		}
		session, err = b.sessions.GetSession(ctx, chatID)
		if err != nil {
			b.sendMessage(chatID, b.getErrorMessage(err))
			return
		}
		b.showBookingSummary(ctx, chatID, session)
		return
	}

	if err := b.sessions.SetStep(ctx, chatID, models.StepGuestName, data); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendWithKeyboard(chatID, "🪪 Your full name?", cancelKeyboard())
}

func (b *Bot) handleGuestNameInput(ctx context.Context, chatID int64, text string) {
	if text == "" {
		b.sendMessage(chatID, "⚠️ Please enter your name.")
		return
	}
	err := b.sessions.SetStep(ctx, chatID, models.StepGuestEmail, map[string]interface{}{
		"guest_name": text,
	})
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(chatID, "📧 Your email address?")
}

func (b *Bot) handleGuestEmailInput(ctx context.Context, chatID int64, text string) {
	if !strings.Contains(text, "@") {
		b.sendMessage(chatID, "⚠️ That does not look like an email address. Please try again.")
		return
	}
	err := b.sessions.SetStep(ctx, chatID, models.StepGuestPhone, map[string]interface{}{
		"guest_email": text,
	})
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(chatID, "📞 Your phone number?")
}

func (b *Bot) handleGuestPhoneInput(ctx context.Context, chatID int64, text string, session *models.SessionState) {
	if text == "" {
		b.sendMessage(chatID, "⚠️ Please enter your phone number.")
		return
	}
	err := b.sessions.SetStep(ctx, chatID, models.StepConfirmation, map[string]interface{}{
		"guest_phone": text,
	})
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	session, err = b.sessions.GetSession(ctx, chatID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.showBookingSummary(ctx, chatID, session)
}

func (b *Bot) showBookingSummary(ctx context.Context, chatID int64, session *models.SessionState) {
	checkin := session.GetTime("checkin")
	checkout := session.GetTime("checkout")
	nights := service.CalculateNights(checkin, checkout)

	room, err := b.roomService.GetRoom(ctx, session.GetString("room_id"))
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	text := fmt.Sprintf(
		"Please confirm your booking:\n\n🏨 %s\n📅 %s → %s (%d nights)\n👥 %d adults\n🪪 %s\n📧 %s\n💰 Total: %.2f €",
		room.Name,
		checkin.Format(models.DateLayout),
		checkout.Format(models.DateLayout),
		nights,
		session.GetInt("adults"),
		session.GetString("guest_name"),
		session.GetString("guest_email"),
		float64(nights)*room.Price,
	)
	b.sendWithKeyboard(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmation(ctx context.Context, chatID int64, text string, session *models.SessionState) {
	if text != btnConfirm && !strings.EqualFold(text, "confirm") {
		b.sendMessage(chatID, "Press ✅ Confirm to book, or ❌ Cancel to go back.")
		return
	}

	input := models.BookingInput{
		RoomType:   session.GetString("room_type"),
		Checkin:    session.GetTime("checkin"),
		Checkout:   session.GetTime("checkout"),
		Adults:     session.GetInt("adults"),
		GuestName:  session.GetString("guest_name"),
		GuestEmail: session.GetString("guest_email"),
		GuestPhone: session.GetString("guest_phone"),
	}

	booking, err := b.bookingService.CreateBooking(ctx, input)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		b.showMainMenu(ctx, chatID, "")
		return
	}

	b.logger.Info().Str("booking_id", booking.ID).Int64("chat_id", chatID).Msg("Booking created via bot")
	b.showMainMenu(ctx, chatID, "🎉 Booking confirmed!\n\n"+formatBooking(booking))
}
