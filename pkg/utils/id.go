package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenMessageID returns a collision-resistant message id. The nanosecond
// prefix keeps ids roughly sortable by creation time for humans; ordering
// for eviction comes from ledger insertion order, not the id.
func GenMessageID() string {
	return fmt.Sprintf("m-%d-%s", time.Now().UTC().UnixNano(), uuid.NewString()[:8])
}

// GenConnID returns a unique connection identifier.
func GenConnID() string {
	return "c-" + uuid.NewString()
}
