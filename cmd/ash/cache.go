package main

import (
	"fmt"
	"os"

	"github.com/ash-lang/ash/internal/cache"
	"github.com/ash-lang/ash/internal/config"
	"github.com/ash-lang/ash/internal/vm"
)

// openCache opens the configured compile cache. A disabled cache or a
// failed open both return nil; the caller falls back to compiling from
// source every time rather than treating caching as load-bearing.
func openCache(cfg *config.Config) *cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	c, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ash: cache: %s\n", err)
		return nil
	}
	return c
}

// compileCached compiles source into a Chunk, consulting store (if
// non-nil) before compiling and populating it after a miss, per
// SPEC_FULL.md §9's bytecode cache.
func compileCached(store *cache.Cache, in *vm.Interner, source string) (*vm.Chunk, []*vm.CompileError) {
	key := cache.Key(source)

	if store != nil {
		chunk, ok, err := store.Lookup(key, in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ash: cache: %s\n", err)
		} else if ok {
			return chunk, nil
		}
	}

	chunk := vm.NewChunk()
	compiler, ok := vm.Compile(source, chunk, in)
	if !ok {
		return nil, compiler.Errors()
	}

	if store != nil {
		if err := store.Store(key, chunk); err != nil {
			fmt.Fprintf(os.Stderr, "ash: cache: %s\n", err)
		}
	}

	return chunk, nil
}
