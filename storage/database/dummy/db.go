package dummydb

import (
	"sync"

	"github.com/opennotes/opennotes/core/content"
	"github.com/opennotes/opennotes/core/subscription"
)

type (
	DB struct {
		subject      *subjectTable
		note         *noteTable
		subscription *subscriptionTable
	}

	subjectTable struct {
		sync.RWMutex
		table map[string]*content.Subject
	}

	noteTable struct {
		sync.RWMutex
		table map[string]*content.Note
	}

	subscriptionTable struct {
		sync.RWMutex
		table map[string]*subscription.Subscription
	}
)

func Open() (*DB, error) {
	db := &DB{
		subject:      &subjectTable{table: make(map[string]*content.Subject)},
		note:         &noteTable{table: make(map[string]*content.Note)},
		subscription: &subscriptionTable{table: make(map[string]*subscription.Subscription)},
	}
	return db, nil
}

// Reset empties all tables; for tests.
func (db *DB) Reset() {
	db.subject.Lock()
	db.subject.table = make(map[string]*content.Subject)
	db.subject.Unlock()

	db.note.Lock()
	db.note.table = make(map[string]*content.Note)
	db.note.Unlock()

	db.subscription.Lock()
	db.subscription.table = make(map[string]*subscription.Subscription)
	db.subscription.Unlock()
}
