package models

import "encoding/json"

// Inbound event types, sent by clients.
const (
	EventJoin            = "join"
	EventSendMessage     = "send-message"
	EventSendRose        = "send-rose"
	EventUpdateInventory = "update-inventory"
)

// Outbound event types, emitted by the room.
const (
	EventMessage     = "message"
	EventUsersUpdate = "users-update"
	EventRoseUpdate  = "rose-update"
	EventError       = "error"
)

// Rose toggle outcomes carried on rose-update.
const (
	RoseAdded   = "ADDED"
	RoseRemoved = "REMOVED"
)

// Frame is the tagged envelope for every websocket message in both
// directions.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinPayload struct {
	UserName  string    `json:"userName"`
	Inventory Inventory `json:"inventory,omitempty"`
}

type SendMessagePayload struct {
	Content        string   `json:"content"`
	RequiredTokens []string `json:"requiredTokens,omitempty"`
}

type SendRosePayload struct {
	TargetUserName string `json:"targetUserName"`
	MessageID      string `json:"messageId"`
}

type UpdateInventoryPayload struct {
	Inventory Inventory `json:"inventory"`
}

type UsersUpdatePayload struct {
	Users []UserSnapshot `json:"users"`
}

type RoseUpdatePayload struct {
	MessageID  string `json:"messageId"`
	Roses      int    `json:"roses"`
	TotalRoses int    `json:"totalRoses"`
	Sender     string `json:"sender"`
	Receiver   string `json:"receiver"`
	Action     string `json:"action"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
