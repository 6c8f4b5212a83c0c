package bot

import (
	"errors"

	"cheesecode/internal/database"
)

func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, database.ErrRoomNotFound) {
		return "⚠️ Sorry, no room of that type exists. Please pick one from the list."
	}

	if errors.Is(err, database.ErrEmailTaken) {
		return "⚠️ That email address is already registered. Try logging in instead."
	}

	if errors.Is(err, database.ErrInvalidCredentials) {
		return "⚠️ Wrong email or password. Please try again."
	}

	if errors.Is(err, database.ErrBookingNotFound) {
		return "⚠️ That booking no longer exists."
	}

	// Default error message
	return "❌ Something went wrong while handling your request. Please try again later."
}
