package vm

// Interner owns the process-wide string intern set and the object list
// every heap allocation is registered in. The compiler uses it for
// string constants; the VM uses it for runtime concatenation results.
// Both ownership-transfer entry points compute the same FNV-1a hash and
// probe the same intern set by (length, hash, bytes), so two equal-
// content strings always resolve to one *ObjString.
type Interner struct {
	strings *Table
	objs    objects
}

// NewInterner returns an empty intern set with an empty object list.
func NewInterner() *Interner {
	return &Interner{strings: NewTable()}
}

// CopyString interns chars. If an equal interned string exists it is
// returned; otherwise chars is stored as-is in a fresh ObjString (Go
// strings are immutable, so no byte copy is needed).
func (in *Interner) CopyString(chars string) *ObjString {
	hash := hashString(chars)
	if interned := in.strings.FindString(chars, hash); interned != nil {
		return interned
	}
	return in.allocateString(chars, hash)
}

// TakeString interns chars, which the caller has already freshly
// allocated (e.g. a concatenation buffer) and is transferring ownership
// of. On an intern-hit, the caller's buffer is simply dropped (Go's GC
// reclaims it); on a miss, it becomes the interned instance directly.
func (in *Interner) TakeString(chars string) *ObjString {
	hash := hashString(chars)
	if interned := in.strings.FindString(chars, hash); interned != nil {
		return interned // drop the freshly built buffer, reuse the interned one
	}
	return in.allocateString(chars, hash)
}

func (in *Interner) allocateString(chars string, hash uint32) *ObjString {
	s := &ObjString{Chars: chars, Hash: hash}
	in.objs.prepend(s)
	in.strings.Set(s, NilValue())
	return s
}

// Free releases the object list at VM shutdown. There is no mark-sweep
// collector: everything allocated during a run is freed in bulk here.
func (in *Interner) Free() {
	in.objs.free()
	in.strings = NewTable()
}

// internCompileTimeString is the compiler's hook into the shared
// interner for string constants (identifiers used as global names, and
// string literals).
func internCompileTimeString(c *Compiler, chars string) *ObjString {
	return c.strings.CopyString(chars)
}
