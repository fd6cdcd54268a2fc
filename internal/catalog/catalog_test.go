package catalog

import (
	"sync"
	"testing"

	"github.com/rsanthanam/techdesk/internal/kb"
)

func TestEmptyCatalog(t *testing.T) {
	c := New()
	if c.Len() != 0 {
		t.Fatalf("new catalog has %d records", c.Len())
	}
	if c.Records() == nil {
		t.Fatal("Records returned nil slice")
	}
}

func TestReplace(t *testing.T) {
	c := New()
	c.Replace([]kb.Record{{Code: "6210", Name: "Network Protocol"}})
	if c.Len() != 1 {
		t.Fatalf("after replace: %d records", c.Len())
	}
	c.Replace(nil)
	if c.Len() != 0 {
		t.Fatalf("after nil replace: %d records", c.Len())
	}
}

// Readers racing with a replace must only ever see a complete snapshot.
func TestConcurrentReplace(t *testing.T) {
	c := New()
	generation := func(code string, n int) []kb.Record {
		records := make([]kb.Record, n)
		for i := range records {
			records[i] = kb.Record{Code: code, Name: "gen " + code}
		}
		return records
	}
	c.Replace(generation("1111", 5))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				records := c.Records()
				if len(records) != 5 && len(records) != 9 {
					t.Errorf("observed partial snapshot of %d records", len(records))
					return
				}
				for _, rec := range records[1:] {
					if rec.Code != records[0].Code {
						t.Errorf("mixed snapshot: %s and %s", records[0].Code, rec.Code)
						return
					}
				}
			}
		}()
	}
	for i := 0; i < 500; i++ {
		if i%2 == 0 {
			c.Replace(generation("2222", 9))
		} else {
			c.Replace(generation("1111", 5))
		}
	}
	close(stop)
	wg.Wait()
}
