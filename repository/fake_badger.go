package repository

import (
	"encoding/json"

	badger "github.com/dgraph-io/badger/v4"
)

// badgerRecord is the on-disk shape of one RepoResource plus its binary
// payload, used only by Persist/LoadFake's optional durable mode.
type badgerRecord struct {
	Meta   MetadataNode `json:"meta"`
	Binary []byte       `json:"binary,omitempty"`
}

// Persist snapshots every resource currently held by f into a badger
// database rooted at dir, keyed by URI. This is the optional durable mode
// mentioned in SPEC_FULL.md's domain dependency ledger: the in-memory Fake
// stays the default, but long-running test scenarios (or a CLI dry-run
// that must survive a restart) can round-trip through badger instead of
// losing state.
func (f *Fake) Persist(dir string) error {
	db, err := badger.Open(badger.DefaultOptions(dir))
	if err != nil {
		return err
	}
	defer db.Close()

	f.mu.Lock()
	defer f.mu.Unlock()
	return db.Update(func(txn *badger.Txn) error {
		for uri, res := range f.resources {
			rec := badgerRecord{Meta: res.Meta, Binary: f.binaries[uri]}
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := txn.Set([]byte(uri), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadFake rebuilds a Fake from a badger database previously written by
// Persist.
func LoadFake(dir, baseURL string, schema Schema) (*Fake, error) {
	db, err := badger.Open(badger.DefaultOptions(dir))
	if err != nil {
		return nil, err
	}
	defer db.Close()

	f := NewFake(baseURL, schema)
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			uri := string(item.KeyCopy(nil))
			var rec badgerRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			res := &RepoResource{URI: uri, Meta: rec.Meta}
			f.resources[uri] = res
			for _, id := range rec.Meta.Ids {
				f.idIndex[id] = uri
			}
			if len(rec.Binary) > 0 {
				f.binaries[uri] = rec.Binary
			}
			if f.nextSeq < len(f.resources) {
				f.nextSeq = len(f.resources)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}
