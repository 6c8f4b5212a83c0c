package models

import "time"

// SessionState holds the per-chat conversation state of the bot front end:
// the current step, collected form input and the logged-in user (the only
// client-side session value the original app kept).
type SessionState struct {
	ChatID      int64                  `json:"chat_id"`
	CurrentStep string                 `json:"current_step"`
	User        *User                  `json:"user,omitempty"`
	TempData    map[string]interface{} `json:"temp_data,omitempty"`
}

func (s *SessionState) GetString(key string) string {
	if s.TempData == nil {
		return ""
	}
	if v, ok := s.TempData[key].(string); ok {
		return v
	}
	return ""
}

func (s *SessionState) GetInt(key string) int {
	if s.TempData == nil {
		return 0
	}
	switch v := s.TempData[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		// JSON round-trips through Redis decode numbers as float64.
		return int(v)
	default:
		return 0
	}
}

func (s *SessionState) GetTime(key string) time.Time {
	if s.TempData == nil {
		return time.Time{}
	}
	switch v := s.TempData[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}
