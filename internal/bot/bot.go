package bot

import (
	"context"
	"os"
	"time"

	"cheesecode/internal/config"
	"cheesecode/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingExporter produces a bookings report file for managers.
type BookingExporter interface {
	ExportBookings(ctx context.Context, startDate, endDate time.Time) (string, error)
}

// Bot is the conversational front end: it walks a guest through the
// availability search and booking form, and exposes login, registration and
// booking management on top of the same services the REST API uses.
type Bot struct {
	tgService      domain.TelegramService
	config         *config.Config
	sessions       domain.SessionManager
	bookingService domain.BookingService
	roomService    domain.RoomService
	userService    domain.UserService
	exporter       BookingExporter
	logger         *zerolog.Logger
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	sessions domain.SessionManager,
	bookingService domain.BookingService,
	roomService domain.RoomService,
	userService domain.UserService,
	exporter BookingExporter,
	logger *zerolog.Logger,
) (*Bot, error) {
	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tgService:      tgService,
		config:         config,
		sessions:       sessions,
		bookingService: bookingService,
		roomService:    roomService,
		userService:    userService,
		exporter:       exporter,
		logger:         logger,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		var chatID int64
		if update.Message != nil {
			chatID = update.Message.Chat.ID
		} else if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
		if chatID == 0 {
			return
		}

		if !b.isManager(chatID) {
			allowed, err := b.sessions.CheckRateLimit(updateCtx, chatID,
				b.config.Bot.RateLimitMessages, time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
			if err != nil {
				b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Rate limit check failed")
			} else if !allowed {
				b.logger.Warn().Int64("chat_id", chatID).Msg("Rate limit exceeded")
				if update.Message != nil {
					b.sendMessage(chatID, "⚠️ You are sending messages too fast. Please wait a moment.")
				}
				return
			}
		}

		if update.CallbackQuery != nil {
			b.handleCallbackQuery(updateCtx, update)
			return
		}

		if update.Message == nil {
			return
		}

		b.handleMessage(updateCtx, update)
	})
}

func (b *Bot) withRecovery(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Interface("panic", r).Msg("Recovered from panic in update handler")
		}
	}()
	handler()
}

func (b *Bot) isManager(chatID int64) bool {
	for _, id := range b.config.Managers {
		if id == chatID {
			return true
		}
	}
	return false
}

func (b *Bot) Stop() {
	b.tgService.StopReceivingUpdates()
}
