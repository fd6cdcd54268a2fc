// Package catalog holds the in-memory knowledge-base snapshot served to
// resolvers. The snapshot is replaced wholesale on ingestion and never
// mutated, so readers are lock-free and can never observe a partial table.
package catalog

import (
	"sync/atomic"

	"github.com/rsanthanam/techdesk/internal/kb"
)

type Catalog struct {
	snapshot atomic.Pointer[[]kb.Record]
}

func New() *Catalog {
	c := &Catalog{}
	empty := []kb.Record{}
	c.snapshot.Store(&empty)
	return c
}

// Records returns the current snapshot. Callers must treat it as read-only.
func (c *Catalog) Records() []kb.Record {
	return *c.snapshot.Load()
}

// Replace swaps in a new snapshot. In-flight readers keep the slice they
// already loaded.
func (c *Catalog) Replace(records []kb.Record) {
	if records == nil {
		records = []kb.Record{}
	}
	c.snapshot.Store(&records)
}

func (c *Catalog) Len() int {
	return len(c.Records())
}
