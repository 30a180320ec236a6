// Package catalog persists type trees by class name, so that records can be
// decoded without going back to the asset metadata they were discovered in.
//
// Trees are stored in Bolt (or in memory, for tests) in two buckets:
//
//  1. types: class name → entry (see encodeEntry).
//  2. fingerprints: fingerprint:64 + class name → empty, to find every class
//     sharing a layout.
package catalog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/andreyvit/typetree"
	"go.etcd.io/bbolt"
)

var (
	ErrNotFound     = errors.New("type not found")
	ErrCorruptEntry = errors.New("corrupted catalog entry")
)

const (
	typesBucket        = "types"
	fingerprintsBucket = "fingerprints"

	defaultTimeout = 10 * time.Second
)

type Options struct {
	Logger    *slog.Logger
	Verbose   bool
	IsTesting bool
	MmapSize  int
	Timeout   time.Duration
}

type Catalog struct {
	st      storage
	logger  *slog.Logger
	verbose bool
}

// Open opens or creates a Bolt-backed catalog at path.
func Open(path string, opt Options) (*Catalog, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = opt.Timeout
	if bopt.Timeout == 0 {
		bopt.Timeout = defaultTimeout
	}
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c, err := newCatalog(newBoltStorage(bdb), opt)
	if err != nil {
		bdb.Close()
		return nil, err
	}
	return c, nil
}

// OpenMemory returns a transient in-memory catalog.
func OpenMemory(opt Options) *Catalog {
	c, err := newCatalog(newMemStorage(), opt)
	if err != nil {
		panic(err)
	}
	return c
}

func newCatalog(st storage, opt Options) (*Catalog, error) {
	c := &Catalog{
		st:      st,
		logger:  opt.Logger,
		verbose: opt.Verbose,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	err := c.write(func(tx storageTx) error {
		for _, name := range []string{typesBucket, fingerprintsBucket} {
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: init: %w", err)
	}
	return c, nil
}

func (c *Catalog) Close() error {
	return c.st.Close()
}

func (c *Catalog) read(f func(tx storageTx) error) error {
	tx, err := c.st.BeginTx(false)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return f(tx)
}

func (c *Catalog) write(f func(tx storageTx) error) error {
	tx, err := c.st.BeginTx(true)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := f(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func fingerprintKey(fp uint64, name string) []byte {
	key := make([]byte, 8, 8+len(name))
	binary.BigEndian.PutUint64(key, fp)
	return append(key, name...)
}

// Put stores the tree under name, reporting whether anything changed.
func (c *Catalog) Put(name string, t typetree.Tree) (changed bool, err error) {
	if name == "" {
		return false, fmt.Errorf("catalog: empty type name")
	}
	raw, err := encodeEntry(t)
	if err != nil {
		return false, fmt.Errorf("catalog: %s: %w", name, err)
	}
	fp := t.Fingerprint()

	err = c.write(func(tx storageTx) error {
		types, fps := tx.Bucket(typesBucket), tx.Bucket(fingerprintsBucket)
		key := []byte(name)
		if old := types.Get(key); old != nil {
			var h entryHeader
			if h.decode(old) == nil {
				if h.Fingerprint == fp {
					return nil
				}
				if err := fps.Delete(fingerprintKey(h.Fingerprint, name)); err != nil {
					return err
				}
			}
		}
		changed = true
		if err := types.Put(key, raw); err != nil {
			return err
		}
		return fps.Put(fingerprintKey(fp, name), []byte{})
	})
	if err != nil {
		return false, fmt.Errorf("catalog: %s: %w", name, err)
	}
	if changed && c.verbose {
		c.logger.Info("catalog: stored type tree", "type", name, "nodes", t.Len(), "fingerprint", fmt.Sprintf("%016x", fp))
	}
	return changed, nil
}

// Get loads the tree stored under name.
func (c *Catalog) Get(name string) (typetree.Tree, error) {
	var t typetree.Tree
	err := c.read(func(tx storageTx) error {
		raw := tx.Bucket(typesBucket).Get([]byte(name))
		if raw == nil {
			return ErrNotFound
		}
		// errors keep the entry, which must outlive the transaction
		raw = bytes.Clone(raw)
		var err error
		t, err = decodeEntry(raw)
		return err
	})
	if err != nil {
		return typetree.Tree{}, fmt.Errorf("catalog: %s: %w", name, err)
	}
	return t, nil
}

// Delete removes the tree stored under name.
func (c *Catalog) Delete(name string) error {
	err := c.write(func(tx storageTx) error {
		types, fps := tx.Bucket(typesBucket), tx.Bucket(fingerprintsBucket)
		key := []byte(name)
		old := types.Get(key)
		if old == nil {
			return ErrNotFound
		}
		var h entryHeader
		if h.decode(old) == nil {
			if err := fps.Delete(fingerprintKey(h.Fingerprint, name)); err != nil {
				return err
			}
		}
		return types.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("catalog: %s: %w", name, err)
	}
	if c.verbose {
		c.logger.Info("catalog: deleted type tree", "type", name)
	}
	return nil
}

// Names returns all stored type names in byte order.
func (c *Catalog) Names() ([]string, error) {
	var names []string
	err := c.read(func(tx storageTx) error {
		cur := tx.Bucket(typesBucket).Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			names = append(names, string(k))
		}
		return nil
	})
	return names, err
}

// NamesByFingerprint returns the names of all types whose tree has the
// given fingerprint.
func (c *Catalog) NamesByFingerprint(fp uint64) ([]string, error) {
	var names []string
	prefix := fingerprintKey(fp, "")
	err := c.read(func(tx storageTx) error {
		cur := tx.Bucket(fingerprintsBucket).Cursor()
		for k, _ := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = cur.Next() {
			names = append(names, string(k[len(prefix):]))
		}
		return nil
	})
	return names, err
}
