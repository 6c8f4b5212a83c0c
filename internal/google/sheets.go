package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"cheesecode/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrRowNotFound means no sheet row carries the requested booking id.
var ErrRowNotFound = errors.New("booking row not found")

const (
	bookingsSheetRange = "Bookings"
	usersSheetRange    = "Users"
	timestampLayout    = "2006-01-02 15:04:05"
)

// SheetsService mirrors bookings and users into Google Sheets, with a row
// index cache keyed by booking id to avoid rescanning column A per delete.
type SheetsService struct {
	service         *sheets.Service
	bookingsSheetID string
	usersSheetID    string
	rowCache        map[string]int
	cacheMu         sync.RWMutex
}

func NewSheetsService(credentialsFile, bookingsSheetID, usersSheetID string) (*SheetsService, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	service := &SheetsService{
		service:         srv,
		bookingsSheetID: bookingsSheetID,
		usersSheetID:    usersSheetID,
		rowCache:        make(map[string]int),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = service.WarmUpCache(ctx)
	}()

	return service, nil
}

// TestConnection reads one cell to verify credentials and sharing.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.bookingsSheetID, bookingsSheetRange+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// GetServiceAccountEmail extracts the account email from the credentials
// file, for the "share the spreadsheet with ..." hint at startup.
func (s *SheetsService) GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}
	return creds.ClientEmail, nil
}

func bookingRowValues(booking *models.Booking) []interface{} {
	return []interface{}{
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
		booking.CreatedAt.Format(timestampLayout),
	}
}

var bookingHeaders = []interface{}{
	"ID", "Room", "Type", "Check-in", "Check-out", "Nights", "Adults",
	"Guest", "Email", "Phone", "Total", "Status", "Created At",
}

// AppendBooking adds one booking row at the bottom of the sheet.
func (s *SheetsService) AppendBooking(ctx context.Context, booking *models.Booking) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{bookingRowValues(booking)},
	}

	_, err := s.service.Spreadsheets.Values.Append(s.bookingsSheetID, bookingsSheetRange+"!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// DeleteBookingRow clears the row that carries bookingID. A row that is
// already gone is not an error.
func (s *SheetsService) DeleteBookingRow(ctx context.Context, bookingID string) error {
	rowIdx, err := s.FindBookingRow(ctx, bookingID)
	if errors.Is(err, ErrRowNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	rangeData := fmt.Sprintf("%s!A%d:M%d", bookingsSheetRange, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Clear(s.bookingsSheetID, rangeData, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err == nil {
		s.deleteCachedRow(bookingID)
	}
	return err
}

// ReplaceBookingsSheet overwrites the whole sheet with headers plus the
// given bookings, used by the full resync task.
func (s *SheetsService) ReplaceBookingsSheet(ctx context.Context, bookings []models.Booking) error {
	values := [][]interface{}{bookingHeaders}
	for i := range bookings {
		values = append(values, bookingRowValues(&bookings[i]))
	}

	_, err := s.service.Spreadsheets.Values.Clear(s.bookingsSheetID, bookingsSheetRange+"!A:M", &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	rangeData := fmt.Sprintf("%s!A1:M%d", bookingsSheetRange, len(values))
	_, err = s.service.Spreadsheets.Values.Update(s.bookingsSheetID, rangeData, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err == nil {
		s.resetCache(bookings)
	}
	return err
}

// UpdateUsersSheet overwrites the users sheet. Passwords are not exported.
func (s *SheetsService) UpdateUsersSheet(ctx context.Context, users []models.User) error {
	values := [][]interface{}{
		{"ID", "Name", "Email", "Phone", "Created At"},
	}
	for _, user := range users {
		values = append(values, []interface{}{
			user.ID,
			user.Name,
			user.Email,
			user.Phone,
			user.CreatedAt.Format(timestampLayout),
		})
	}

	rangeData := fmt.Sprintf("%s!A1:E%d", usersSheetRange, len(values))
	_, err := s.service.Spreadsheets.Values.Update(s.usersSheetID, rangeData, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// WarmUpCache populates the row index cache by reading the ID column.
func (s *SheetsService) WarmUpCache(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Values.Get(s.bookingsSheetID, bookingsSheetRange+"!A:A").Context(ctx).Do()
	if err != nil {
		return err
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[string]int)

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if id, ok := row[0].(string); ok && id != "" {
			s.rowCache[id] = i + 1
		}
	}
	return nil
}

// FindBookingRow locates the 1-based row index for a booking id in column A.
func (s *SheetsService) FindBookingRow(ctx context.Context, bookingID string) (int, error) {
	if bookingID == "" {
		return 0, fmt.Errorf("booking id is required")
	}

	if row, ok := s.getCachedRow(bookingID); ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.bookingsSheetID, bookingsSheetRange+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if id, ok := row[0].(string); ok && id == bookingID {
			rowIdx := i + 1 // Values are zero-based; sheet rows are 1-based
			s.setCachedRow(bookingID, rowIdx)
			return rowIdx, nil
		}
	}

	return 0, ErrRowNotFound
}

func (s *SheetsService) getCachedRow(id string) (int, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	row, ok := s.rowCache[id]
	return row, ok
}

func (s *SheetsService) setCachedRow(id string, row int) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache[id] = row
}

func (s *SheetsService) deleteCachedRow(id string) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	delete(s.rowCache, id)
}

func (s *SheetsService) resetCache(bookings []models.Booking) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[string]int)
	for i := range bookings {
		// +2: one for the header row, one for 1-based sheet rows.
		s.rowCache[bookings[i].ID] = i + 2
	}
}
