package models

// Message kinds carried on the "message" event.
const (
	MessageSystem = "SYSTEM"
	MessageUser   = "USER"
)

type Message struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Author  string `json:"author,omitempty"`
	Content string `json:"content"`
	// Roses is the live rose count; it always equals the size of the
	// message's reaction set.
	Roses   int   `json:"roses"`
	TS      int64 `json:"ts"`
	IsError bool  `json:"isError,omitempty"`
}
