package cache

import (
	"path/filepath"
	"testing"

	"github.com/ash-lang/ash/internal/vm"
)

func TestCacheStoreAndLookup(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	in := vm.NewInterner()
	chunk := vm.NewChunk()
	compiler, ok := vm.Compile(`print 1 + 2;`, chunk, in)
	if !ok {
		t.Fatalf("compile failed: %v", compiler.Errors())
	}

	key := Key(`print 1 + 2;`)
	if err := c.Store(key, chunk); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, ok, err := c.Lookup(key, in)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatalf("Lookup reported no cached entry")
	}
	if len(got.Code) != len(chunk.Code) {
		t.Errorf("decoded chunk has %d code bytes, want %d", len(got.Code), len(chunk.Code))
	}
}

func TestCacheLookupMissReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	in := vm.NewInterner()
	_, ok, err := c.Lookup(Key("nonexistent"), in)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok {
		t.Errorf("Lookup reported a hit for a key never stored")
	}
}

func TestCacheStoreOverwritesExistingKey(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	in := vm.NewInterner()
	chunk1 := vm.NewChunk()
	vm.Compile(`print 1;`, chunk1, in)
	chunk2 := vm.NewChunk()
	vm.Compile(`print 1; print 2;`, chunk2, in)

	key := Key("shared-key")
	if err := c.Store(key, chunk1); err != nil {
		t.Fatalf("Store 1: %v", err)
	}
	if err := c.Store(key, chunk2); err != nil {
		t.Fatalf("Store 2: %v", err)
	}

	got, ok, err := c.Lookup(key, in)
	if err != nil || !ok {
		t.Fatalf("Lookup: ok=%v err=%v", ok, err)
	}
	if len(got.Code) != len(chunk2.Code) {
		t.Errorf("Lookup after overwrite returned %d code bytes, want %d (chunk2)", len(got.Code), len(chunk2.Code))
	}
}
