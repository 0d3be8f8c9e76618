package dbtest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/xerrors"
)

var (
	ErrNoBucket = xerrors.New("no such bucket")
	ErrNoKey    = xerrors.New("no such key")
)

// JSONEq asserts that bucket/key of the database at dbPath holds the JSON
// encoding of want. The database must not be held open by the caller.
func JSONEq(t *testing.T, dbPath, bucket, key string, want any, msgAndArgs ...any) {
	t.Helper()

	wantByte, err := json.Marshal(want)
	require.NoError(t, err, msgAndArgs...)

	got, err := get(dbPath, bucket, key)
	require.NoError(t, err, msgAndArgs...)

	assert.JSONEq(t, string(wantByte), string(got), msgAndArgs...)
}

// NoKey asserts that bucket/key is absent from the database at dbPath.
func NoKey(t *testing.T, dbPath, bucket, key string, msgAndArgs ...any) {
	t.Helper()

	_, err := get(dbPath, bucket, key)
	if xerrors.Is(err, ErrNoBucket) {
		return
	}
	require.ErrorIs(t, err, ErrNoKey, msgAndArgs...)
}

func get(dbPath, bucket, key string) ([]byte, error) {
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{
		ReadOnly: true,
		Timeout:  time.Second,
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to open db: %w", err)
	}
	defer db.Close()

	var b []byte
	err = db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(bucket))
		if bkt == nil {
			return xerrors.Errorf("bucket error %s: %w", bucket, ErrNoBucket)
		}
		res := bkt.Get([]byte(key))
		if res == nil {
			return xerrors.Errorf("key error %s/%s: %w", bucket, key, ErrNoKey)
		}

		// Copy the returned value
		b = make([]byte, len(res))
		copy(b, res)
		return nil
	})
	return b, err
}
