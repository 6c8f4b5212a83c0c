package models

const (
	// StatusConfirmed is the only status the service ever writes.
	StatusConfirmed = "confirmed"
)

const (
	RoomTypeStandard     = "standard"
	RoomTypePremium      = "premium"
	RoomTypePresidential = "presidential"
)

// Bot conversation steps.
const (
	StepMainMenu      = "main_menu"
	StepCheckinDate   = "checkin_date"
	StepCheckoutDate  = "checkout_date"
	StepGuestCount    = "guest_count"
	StepSelectRoom    = "select_room"
	StepGuestName     = "guest_name"
	StepGuestEmail    = "guest_email"
	StepGuestPhone    = "guest_phone"
	StepConfirmation  = "confirmation"
	StepLoginEmail    = "login_email"
	StepLoginPassword = "login_password"
	StepRegisterName  = "register_name"
	StepRegisterEmail = "register_email"
	StepRegisterPhone = "register_phone"
	StepRegisterPass  = "register_password"
)

const (
	// DefaultSessionTTL is how long a chat session lives in Redis (seconds).
	DefaultSessionTTL = 24 * 60 * 60

	// WorkerQueueSize is the in-memory queue capacity of the sheets worker.
	WorkerQueueSize = 128

	// RateLimitMessages / RateLimitWindow bound bot messages per chat.
	RateLimitMessages = 20
	RateLimitWindow   = 60

	// DateLayout is the wire and storage format for check-in/check-out dates.
	DateLayout = "2006-01-02"
)
