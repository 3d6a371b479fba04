package vm

// Object is a process-owned heap node. The only kind in this core is
// ObjString; the interface exists so the VM's object list and Value's
// Obj field can hold any future heap kind without change.
type Object interface {
	object()
	String() string
}

// ObjString is an immutable interned byte sequence with a precomputed
// FNV-1a hash, suitable for O(1) identity equality.
type ObjString struct {
	Chars string
	Hash  uint32

	// next links this object into the VM's intrusive object list, newest
	// first (objects are prepended), for mass teardown.
	next Object
}

func (*ObjString) object()          {}
func (s *ObjString) String() string { return s.Chars }

// hashString computes the FNV-1a hash of s, per spec: hash = 2166136261;
// for each byte, hash ^= byte; hash *= 16777619.
func hashString(s string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 16777619
	}
	return hash
}

// objects is the intrusive heap object list rooted at the VM: every
// object reachable from constants, stack, or globals must also be
// reachable from here, since teardown frees exactly this list.
type objects struct {
	head Object
}

func (o *objects) prepend(obj Object) {
	switch v := obj.(type) {
	case *ObjString:
		v.next = o.head
	}
	o.head = obj
}

// nextOf returns the intrusive-list successor of obj, or nil.
func nextOf(obj Object) Object {
	switch v := obj.(type) {
	case *ObjString:
		return v.next
	}
	return nil
}

// free walks the list releasing every node. There is no GC here: objects
// are collected in bulk at VM shutdown (see §1/§9 Non-goals).
func (o *objects) free() {
	for n := o.head; n != nil; {
		next := nextOf(n)
		n = next
	}
	o.head = nil
}
