package dto

import "speakscore/internal/domain"

// ItemResponse is a reference item the client should read, repeat or talk about.
type ItemResponse struct {
	Success bool          `json:"success"`
	Module  domain.Module `json:"module"`
	ID      int           `json:"id"`
	Text    string        `json:"text"`
}

// SpeechScoreResponse wraps the result of a scored recording.
type SpeechScoreResponse struct {
	Success bool `json:"success"`
	*domain.SpeechScoreResult
}

// ReportResponse wraps the session report.
type ReportResponse struct {
	Success bool `json:"success"`
	*domain.SessionReport
}

// SessionResponse is returned when a practice session starts.
type SessionResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	ExpiresAt string `json:"expires_at"`
}

// StartSessionRequest optionally continues an existing user's history in a new session.
type StartSessionRequest struct {
	UserID string `json:"user_id"`
}

// HealthResponse reports the state of each dependency.
type HealthResponse struct {
	Success bool              `json:"success"`
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
}
