package vm

import "testing"

func key(t *testing.T, in *Interner, s string) *ObjString {
	t.Helper()
	return in.CopyString(s)
}

func TestTableSetGetDelete(t *testing.T) {
	in := NewInterner()
	tbl := NewTable()

	k := key(t, in, "answer")
	if isNew := tbl.Set(k, NumberValue(42)); !isNew {
		t.Fatalf("Set of brand new key reported isNewKey = false")
	}

	v, ok := tbl.Get(k)
	if !ok || v.AsNumber() != 42 {
		t.Fatalf("Get after Set = (%v, %v), want (42, true)", v, ok)
	}

	if isNew := tbl.Set(k, NumberValue(43)); isNew {
		t.Errorf("Set overwriting existing key reported isNewKey = true")
	}
	v, _ = tbl.Get(k)
	if v.AsNumber() != 43 {
		t.Errorf("Get after overwrite = %v, want 43", v)
	}

	if !tbl.Delete(k) {
		t.Fatalf("Delete of present key returned false")
	}
	if _, ok := tbl.Get(k); ok {
		t.Errorf("Get found key after Delete")
	}
	if tbl.Delete(k) {
		t.Errorf("second Delete of same key returned true")
	}
}

func TestTableTombstoneReuseKeepsLaterEntryReachable(t *testing.T) {
	in := NewInterner()
	tbl := NewTable()

	a := key(t, in, "a")
	b := key(t, in, "b")
	tbl.Set(a, NumberValue(1))
	tbl.Set(b, NumberValue(2))

	tbl.Delete(a)

	v, ok := tbl.Get(b)
	if !ok || v.AsNumber() != 2 {
		t.Fatalf("Get(b) after deleting a = (%v, %v), want (2, true)", v, ok)
	}
}

func TestTableGrowRehashesAllLiveEntries(t *testing.T) {
	in := NewInterner()
	tbl := NewTable()

	names := make([]*ObjString, 0, 64)
	for i := 0; i < 64; i++ {
		names = append(names, key(t, in, string(rune('a'+i%26))+string(rune('A'+i/26))))
	}
	for i, k := range names {
		tbl.Set(k, NumberValue(float64(i)))
	}
	for i, k := range names {
		v, ok := tbl.Get(k)
		if !ok || v.AsNumber() != float64(i) {
			t.Fatalf("entry %d lost after growth: (%v, %v)", i, v, ok)
		}
	}
}

func TestTableFindStringLocatesInternedKeyByContent(t *testing.T) {
	in := NewInterner()
	tbl := NewTable()
	k := key(t, in, "needle")
	tbl.Set(k, TrueValue())

	found := tbl.FindString("needle", hashString("needle"))
	if found != k {
		t.Errorf("FindString returned %p, want %p", found, k)
	}

	if tbl.FindString("haystack", hashString("haystack")) != nil {
		t.Errorf("FindString found a key that was never inserted")
	}
}

func TestTableCountIncludesTombstones(t *testing.T) {
	in := NewInterner()
	tbl := NewTable()
	k := key(t, in, "x")
	tbl.Set(k, NumberValue(1))
	tbl.Delete(k)
	if tbl.Count() != 1 {
		t.Errorf("Count() after delete = %d, want 1 (tombstone still occupies a slot)", tbl.Count())
	}
}
