package models

// WordMeta describes one owned vocabulary word.
type WordMeta struct {
	Rarity     string `json:"rarity,omitempty"`
	AcquiredTS int64  `json:"acquired_ts,omitempty"`
}

// Inventory maps a word to its metadata. Membership checks are
// case-insensitive; the chat core indexes by lower-cased word.
type Inventory map[string]WordMeta

// Profile is the persisted user record served by the profile store.
type Profile struct {
	Name      string    `json:"name"`
	Inventory Inventory `json:"inventory,omitempty"`
	CreatedTS int64     `json:"created_ts"`
	UpdatedTS int64     `json:"updated_ts"`
}

// UserSnapshot is one row of the users-update broadcast.
type UserSnapshot struct {
	ConnID     string `json:"connectionId"`
	UserName   string `json:"userName"`
	VocabCount int    `json:"vocabCount"`
	TotalRoses int    `json:"totalRoses"`
}
