package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cheesecode/internal/domain"
	"cheesecode/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var columnHeaders = []string{
	"ID", "Room", "Type", "Check-in", "Check-out", "Nights", "Adults",
	"Guest", "Email", "Phone", "Total", "Status", "Created At",
}

// ExcelExporter writes booking reports for the manager export command.
type ExcelExporter struct {
	store  domain.Store
	path   string
	logger *zerolog.Logger
}

func NewExcelExporter(store domain.Store, path string, logger *zerolog.Logger) *ExcelExporter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &ExcelExporter{store: store, path: path, logger: logger}
}

// ExportBookings writes an .xlsx of bookings whose check-in falls inside
// [startDate, endDate] and returns the file path.
func (e *ExcelExporter) ExportBookings(ctx context.Context, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	bookings, err := e.store.GetBookingsByDateRange(ctx, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bookings: %s - %s",
		startDate.Format(models.DateLayout), endDate.Format(models.DateLayout)))
	_ = f.MergeCell(sheetName, "A1", "M1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range columnHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var totalRevenue float64
	for i, booking := range bookings {
		row := i + 3
		values := []interface{}{
			booking.ID,
			booking.RoomName,
			booking.RoomType,
			booking.Checkin.Format(models.DateLayout),
			booking.Checkout.Format(models.DateLayout),
			booking.Nights,
			booking.Adults,
			booking.GuestName,
			booking.GuestEmail,
			booking.GuestPhone,
			booking.TotalPrice,
			booking.Status,
			booking.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
		totalRevenue += booking.TotalPrice
	}

	summaryRow := len(bookings) + 4
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	_ = f.SetCellValue(sheetName, cell, fmt.Sprintf("Total: %d bookings", len(bookings)))
	cell, _ = excelize.CoordinatesToCellName(11, summaryRow)
	_ = f.SetCellValue(sheetName, cell, totalRevenue)

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "M", 16)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		startDate.Format(models.DateLayout), endDate.Format(models.DateLayout))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}
