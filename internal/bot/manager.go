package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) showStats(ctx context.Context, chatID int64) {
	stats, err := b.bookingService.Stats(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 Booking statistics\n\n")
	sb.WriteString(fmt.Sprintf("Total bookings: %d\n", stats.TotalBookings))
	sb.WriteString(fmt.Sprintf("Total revenue: %.2f €\n", stats.TotalRevenue))

	if len(stats.RoomStats) > 0 {
		sb.WriteString("\nBy room type:\n")
		types := make([]string, 0, len(stats.RoomStats))
		for roomType := range stats.RoomStats {
			types = append(types, roomType)
		}
		sort.Strings(types)
		for _, roomType := range types {
			bucket := stats.RoomStats[roomType]
			sb.WriteString(fmt.Sprintf("• %s: %d bookings, %.2f €\n", roomType, bucket.Count, bucket.Revenue))
		}
	}

	b.sendMessage(chatID, sb.String())
}

// handleExport builds an Excel report of the last 30 days of check-ins and
// sends it as a document.
func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	if b.exporter == nil {
		b.sendMessage(chatID, "⚠️ Export is not configured.")
		return
	}

	end := time.Now()
	start := end.AddDate(0, 0, -30)

	b.sendMessage(chatID, "⏳ Preparing the export...")

	path, err := b.exporter.ExportBookings(ctx, start, end)
	if err != nil {
		b.logger.Error().Err(err).Msg("Export failed")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = fmt.Sprintf("Bookings %s — %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	if _, err := b.tgService.Send(doc); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send export document")
		b.sendMessage(chatID, "⚠️ Could not send the export file.")
	}
}
