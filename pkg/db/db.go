package db

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/rustsec-vex/pkg/log"
)

const (
	SchemaVersion = 1

	metadataBucket = "metadata"
	metadataKey    = "data"
)

var (
	db    *bolt.DB
	dbDir string
)

// Operation is the key/value store used by the registry cache.
type Operation interface {
	Put(bucket, key string, value any) error
	Get(bucket, key string, value any) (bool, error)
	Delete(bucket, key string) error
	ForEach(bucket string) (map[string][]byte, error)
}

type Metadata struct {
	Version   int
	UpdatedAt time.Time
}

type Config struct{}

func Init(cacheDir string) (err error) {
	dbPath := Path(cacheDir)
	dbDir = filepath.Dir(dbPath)
	if err = os.MkdirAll(dbDir, 0700); err != nil {
		return xerrors.Errorf("failed to mkdir: %w", err)
	}

	log.Debug("Opening the database", log.FilePath(dbPath))
	db, err = bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return xerrors.Errorf("failed to open db: %w", err)
	}
	return nil
}

func Path(cacheDir string) string {
	return filepath.Join(cacheDir, "db", "rustsec-vex.db")
}

func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return xerrors.Errorf("failed to close DB: %w", err)
	}
	db = nil
	return nil
}

func (dbc Config) GetMetadata() (Metadata, error) {
	var metadata Metadata
	if _, err := dbc.Get(metadataBucket, metadataKey, &metadata); err != nil {
		return Metadata{}, xerrors.Errorf("failed to get metadata: %w", err)
	}
	return metadata, nil
}

func (dbc Config) SetMetadata(metadata Metadata) error {
	if err := dbc.Put(metadataBucket, metadataKey, metadata); err != nil {
		return xerrors.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

func (dbc Config) Put(bucket, key string, value any) error {
	v, err := json.Marshal(value)
	if err != nil {
		return xerrors.Errorf("failed to marshal JSON: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return xerrors.Errorf("failed to create a bucket: %w", err)
		}
		return b.Put([]byte(key), v)
	})
	if err != nil {
		return xerrors.Errorf("error in db update: %w", err)
	}
	return nil
}

// Get decodes the stored value into value and reports whether the key exists.
func (dbc Config) Get(bucket, key string, value any) (bool, error) {
	var raw []byte
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		// The slice is only valid inside the transaction
		if v := b.Get([]byte(key)); v != nil {
			raw = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return false, xerrors.Errorf("failed to get data from db: %w", err)
	}
	if raw == nil {
		return false, nil
	}
	if err = json.Unmarshal(raw, value); err != nil {
		return false, xerrors.Errorf("failed to unmarshal JSON: %w", err)
	}
	return true, nil
}

func (dbc Config) Delete(bucket, key string) error {
	err := db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return xerrors.Errorf("failed to delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (dbc Config) ForEach(bucket string) (map[string][]byte, error) {
	values := map[string][]byte{}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			values[string(k)] = append([]byte{}, v...)
			return nil
		})
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to get all key/value in the specified bucket: %w", err)
	}
	return values, nil
}
