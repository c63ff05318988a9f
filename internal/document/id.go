package document

import (
	"sync"
	"time"
)

var idMu sync.Mutex
var lastID int64

// NextID returns a millisecond-timestamp-derived numeric ID. Two IDs
// requested within the same millisecond would collide; the monotonic
// bump closes that gap within one process.
func NextID() int64 {
	idMu.Lock()
	defer idMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}
