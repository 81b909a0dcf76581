package entity

import "strings"

// RetrievalMode selects how GET /get-csv/:file_id reads rows.
type RetrievalMode string

const (
	RetrievalModeCursor RetrievalMode = "cursor"
	RetrievalModeBulk   RetrievalMode = "bulk"
)

// ParseRetrievalMode falls back to RetrievalModeCursor for unknown values.
func ParseRetrievalMode(value string) RetrievalMode {
	switch RetrievalMode(strings.ToLower(strings.TrimSpace(value))) {
	case RetrievalModeBulk:
		return RetrievalModeBulk
	default:
		return RetrievalModeCursor
	}
}
