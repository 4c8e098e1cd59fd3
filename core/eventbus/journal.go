package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	v1 "github.com/snirkop89/ppe-lambdas/api/v1"
)

const journalPrefix = "event/"

// Journal stores events in an embedded badger database instead of sending
// them anywhere. Keys sort by publish time so List can walk newest first.
type Journal struct {
	db  *badger.DB
	ttl time.Duration
}

func NewJournal(db *badger.DB, ttl time.Duration) *Journal {
	return &Journal{db: db, ttl: ttl}
}

func (j *Journal) PutEvent(ctx context.Context, ev v1.DomainEvent) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	published := ev.Publish()
	data, err := json.Marshal(published)
	if err != nil {
		return "", fmt.Errorf("journal event: %w", err)
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(journalKey(published.Header), data)
		if j.ttl > 0 {
			e = e.WithTTL(j.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return "", fmt.Errorf("journal event: %w", err)
	}
	return published.Header.ID, nil
}

// List returns up to limit events, most recent first. A limit of zero or
// less returns every stored event.
func (j *Journal) List(ctx context.Context, limit int) ([]v1.PublishedEvent, error) {
	var events []v1.PublishedEvent
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(journalPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration has to start past the last key with the prefix.
		for it.Seek([]byte(journalPrefix + "\xff")); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if limit > 0 && len(events) >= limit {
				break
			}
			var ev v1.PublishedEvent
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ev)
			})
			if err != nil {
				return err
			}
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	return events, nil
}

func journalKey(h v1.Header) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", journalPrefix, h.PublishedAt.UnixNano(), h.ID))
}
