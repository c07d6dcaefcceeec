package domain

import "time"

// Status is the lifecycle state of a flow.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Snapshot captures a flow's position so a host can rebuild it later.
// Step definitions are not part of it; they are reloaded from the flow.
type Snapshot struct {
	Flow      string    `json:"flow"`
	Index     int       `json:"index"`
	Status    Status    `json:"status"`
	Answers   Answers   `json:"answers"`
	Candidate Answer    `json:"candidate"`
	UpdatedAt time.Time `json:"updated_at"`
}
