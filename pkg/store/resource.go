package store

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"time"

	. "github.com/patrickelectric/sixtyfps/pkg/store/storedefs"
	bolt "go.etcd.io/bbolt"
)

const bucketResource = "resource"

func init() {
	initDB["initialize resource cache table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketResource))
		return err
	}
}

// An entry is stored as the modification time in nanoseconds and the size,
// both big endian, followed by the content.
const headerSize = 16

func marshalResource(info os.FileInfo, data []byte) []byte {
	v := make([]byte, headerSize+len(data))
	binary.BigEndian.PutUint64(v, uint64(info.ModTime().UnixNano()))
	binary.BigEndian.PutUint64(v[8:], uint64(info.Size()))
	copy(v[headerSize:], data)
	return v
}

func unmarshalResource(path string, v []byte) (Resource, []byte, bool) {
	if len(v) < headerSize {
		return Resource{}, nil, false
	}
	r := Resource{
		Path:    path,
		ModTime: time.Unix(0, int64(binary.BigEndian.Uint64(v))),
		Size:    int64(binary.BigEndian.Uint64(v[8:])),
	}
	return r, v[headerSize:], true
}

func upToDate(r Resource, info os.FileInfo) bool {
	return r.ModTime.UnixNano() == info.ModTime().UnixNano() && r.Size == info.Size()
}

// Resources are keyed by absolute paths, so that a relative path and the
// absolute path of the same file share an entry.
func resourceKey(path string) (string, error) {
	return filepath.Abs(path)
}

// Load returns the content of a resource file. The cached content is used if
// the modification time and the size of the file are unchanged; otherwise
// the file is read and the cache updated.
func (s *dbStore) Load(path string) ([]byte, error) {
	key, err := resourceKey(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(key)
	if err != nil {
		return nil, err
	}

	var data []byte
	hit := false
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketResource)).Get([]byte(key))
		if r, content, ok := unmarshalResource(key, v); ok && upToDate(r, info) {
			// Values are only valid during the transaction.
			data = append([]byte(nil), content...)
			hit = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if hit {
		return data, nil
	}

	data, err = os.ReadFile(key)
	if err != nil {
		return nil, err
	}
	logger.Println("caching", key)
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketResource))
		return b.Put([]byte(key), marshalResource(info, data))
	})
	return data, err
}

// Resource returns the cache entry of a file.
func (s *dbStore) Resource(path string) (Resource, error) {
	key, err := resourceKey(path)
	if err != nil {
		return Resource{}, err
	}
	var r Resource
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketResource)).Get([]byte(key))
		var ok bool
		r, _, ok = unmarshalResource(key, v)
		if !ok {
			return ErrNoResource
		}
		return nil
	})
	return r, err
}

// Resources lists all entries of the cache, ordered by path.
func (s *dbStore) Resources() ([]Resource, error) {
	var resources []Resource
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketResource)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if r, _, ok := unmarshalResource(string(k), v); ok {
				resources = append(resources, r)
			}
		}
		return nil
	})
	return resources, err
}

// DelResource deletes the cache entry of a file. Deleting a missing entry is
// not an error.
func (s *dbStore) DelResource(path string) error {
	key, err := resourceKey(path)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketResource)).Delete([]byte(key))
	})
}

// Purge deletes the entries whose file was removed or changed, and returns
// the number of deleted entries.
func (s *dbStore) Purge() (int, error) {
	n := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketResource))
		var stale [][]byte
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			r, _, ok := unmarshalResource(string(k), v)
			info, err := os.Stat(string(k))
			if !ok || err != nil || !upToDate(r, info) {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		// Deleting while iterating with a cursor skips keys.
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		n = len(stale)
		return nil
	})
	if n > 0 {
		logger.Println("purged", n, "resources")
	}
	return n, err
}
