// Package cache persists compiled chunks keyed by source hash, in a
// sqlite database, the same driver/import idiom the wider funxy project
// uses for its own sql bindings (import the driver for its side effect,
// drive everything else through database/sql).
package cache

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver, registered via side-effect import

	"github.com/ash-lang/ash/internal/vm"
)

// Cache is a compile cache backed by a single sqlite table mapping a
// source hash to a serialized Chunk (vm.EncodeChunk's format).
type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	source_hash TEXT PRIMARY KEY,
	bytecode    BLOB NOT NULL
);`

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: creating schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key hashes source into the cache's lookup key.
func Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached chunk for key, re-interning any strings it
// contains through strings, or ok=false if nothing is cached for key.
func (c *Cache) Lookup(key string, strings *vm.Interner) (*vm.Chunk, bool, error) {
	var blob []byte
	err := c.db.QueryRow(`SELECT bytecode FROM chunks WHERE source_hash = ?`, key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: querying %s: %w", key, err)
	}

	chunk, err := vm.DecodeChunk(bytes.NewReader(blob), strings)
	if err != nil {
		return nil, false, fmt.Errorf("cache: decoding cached chunk for %s: %w", key, err)
	}
	return chunk, true, nil
}

// Store saves chunk under key, overwriting any existing entry.
func (c *Cache) Store(key string, chunk *vm.Chunk) error {
	var buf bytes.Buffer
	if err := vm.EncodeChunk(chunk, &buf); err != nil {
		return fmt.Errorf("cache: encoding chunk for %s: %w", key, err)
	}
	_, err := c.db.Exec(
		`INSERT INTO chunks (source_hash, bytecode) VALUES (?, ?)
		 ON CONFLICT(source_hash) DO UPDATE SET bytecode = excluded.bytecode`,
		key, buf.Bytes())
	if err != nil {
		return fmt.Errorf("cache: storing %s: %w", key, err)
	}
	return nil
}
