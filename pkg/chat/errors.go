package chat

import "errors"

// Wire error codes reported back to the originating session. No error in
// this package is fatal; each one rejects a single inbound event and
// leaves every store untouched.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotAuthenticated = "NOT_AUTHENTICATED"
	CodeMessageNotFound  = "MESSAGE_NOT_FOUND"
	CodeSelfReaction     = "SELF_REACTION_FORBIDDEN"
	CodeReceiverOffline  = "RECEIVER_OFFLINE"
	CodeRateLimited      = "RATE_LIMITED"
)

// Error is a room protocol error carrying its wire code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

var (
	ErrNotAuthenticated = &Error{Code: CodeNotAuthenticated, Message: "no session for this connection"}
	ErrMessageNotFound  = &Error{Code: CodeMessageNotFound, Message: "message not found"}
	ErrSelfReaction     = &Error{Code: CodeSelfReaction, Message: "cannot send a rose to your own message"}
	ErrReceiverOffline  = &Error{Code: CodeReceiverOffline, Message: "receiver is not connected"}
	ErrRateLimited      = &Error{Code: CodeRateLimited, Message: "rose sent too recently"}
)

// NewValidationError reports tokens missing from the author's inventory.
func NewValidationError(missing []string) *Error {
	msg := "message uses words you do not own"
	if len(missing) > 0 {
		msg += ": " + joinWords(missing)
	}
	return &Error{Code: CodeValidationFailed, Message: msg}
}

func joinWords(ws []string) string {
	out := ""
	for i, w := range ws {
		if i > 0 {
			out += ", "
		}
		out += w
	}
	return out
}

// ErrorCode extracts the wire code from err, or empty when err is not a
// room protocol error.
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
