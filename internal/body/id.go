package body

import (
	"fmt"
	"os"
	"sync/atomic"
)

// ID identifies a body for the lifetime of the process. IDs are minted by
// NextID, start at 1 and are never reused. The zero value means "no body" and
// is what optional id slots carry when empty.
type ID uint64

var idCounter atomic.Uint64

// NextID mints a fresh process-unique ID. Safe for concurrent use.
func NextID() ID {
	id := idCounter.Add(1)
	if id == 0 {
		// The counter wrapped. There is no degraded mode worth offering here.
		fmt.Fprintln(os.Stderr, "body: ID counter overflow, exiting")
		os.Exit(1)
	}
	return ID(id)
}
