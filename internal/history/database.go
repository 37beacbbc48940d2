package history

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/zombor/receipt-reconciler/internal/matching"
)

const runBucketName = "match-runs"

// MatchRun is one completed reconciliation batch
type MatchRun struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Report    matching.Report        `json:"report"`
	Results   []matching.MatchResult `json:"results"`
}

// DB defines the interface for match-run persistence
type DB interface {
	// SaveRun saves a match run
	SaveRun(run *MatchRun) error

	// GetRun retrieves a match run by ID
	GetRun(id string) (*MatchRun, error)

	// ListRuns returns all match runs, newest first
	ListRuns() ([]*MatchRun, error)

	// Close closes the database
	Close() error
}

// BoltDB implements DB using bbolt. Old runs beyond the retention count
// are trimmed on save.
type BoltDB struct {
	db        *bbolt.DB
	retention int
}

// DefaultRetention is how many past runs are kept
const DefaultRetention = 10

// NewBoltDB opens (or creates) a history database at path. retention <= 0
// falls back to DefaultRetention.
func NewBoltDB(path string, retention int) (*BoltDB, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltDB{db: db, retention: retention}, nil
}

// SaveRun saves a match run and trims runs beyond the retention count
func (b *BoltDB) SaveRun(run *MatchRun) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(runBucketName))

		data, err := json.Marshal(run)
		if err != nil {
			return fmt.Errorf("marshaling match run: %w", err)
		}
		if err := bucket.Put([]byte(run.ID), data); err != nil {
			return err
		}

		return b.trim(bucket)
	})
}

// trim drops the oldest runs until at most retention remain
func (b *BoltDB) trim(bucket *bbolt.Bucket) error {
	type stamped struct {
		id string
		at time.Time
	}
	var runs []stamped

	err := bucket.ForEach(func(k, v []byte) error {
		var run MatchRun
		if err := json.Unmarshal(v, &run); err != nil {
			return fmt.Errorf("unmarshaling match run: %w", err)
		}
		runs = append(runs, stamped{id: run.ID, at: run.CreatedAt})
		return nil
	})
	if err != nil {
		return err
	}
	if len(runs) <= b.retention {
		return nil
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].at.Before(runs[j].at) })
	for _, r := range runs[:len(runs)-b.retention] {
		if err := bucket.Delete([]byte(r.id)); err != nil {
			return err
		}
	}
	return nil
}

// GetRun retrieves a match run by ID
func (b *BoltDB) GetRun(id string) (*MatchRun, error) {
	var run *MatchRun
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(runBucketName)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("match run not found: %s", id)
		}
		return json.Unmarshal(data, &run)
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns all match runs, newest first
func (b *BoltDB) ListRuns() ([]*MatchRun, error) {
	runs := make([]*MatchRun, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(runBucketName)).ForEach(func(k, v []byte) error {
			var run MatchRun
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("unmarshaling match run: %w", err)
			}
			runs = append(runs, &run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return runs, nil
}

// Close closes the database
func (b *BoltDB) Close() error {
	return b.db.Close()
}
