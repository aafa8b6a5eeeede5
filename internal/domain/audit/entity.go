package audit

import "time"

// RecordID identifier type
type RecordID string

// Record captures one raw generation exchange for later review. Stored
// best-effort; a failed audit write never fails the generation request.
type Record struct {
	ID        RecordID  `json:"id"`
	ReportID  string    `json:"report_id"`
	Model     string    `json:"model,omitempty"`
	Response  string    `json:"response"` // generated content, JSON string
	CreatedAt time.Time `json:"created_at"`
}
