package memory

import (
	"bytes"
	"context"
	"testing"
)

func TestMemoryStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Save(ctx, "db", "kv", "k", []byte("v")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	v, found, err := s.Load(ctx, "db", "kv", "k")
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if !bytes.Equal(v, []byte("v")) {
		t.Fatalf("unexpected value %q", v)
	}
}

func TestMemoryStore_ScopesByDatabaseAndStore(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Save(ctx, "db", "kv", "k", []byte("one"))
	_ = s.Save(ctx, "db", "other", "k", []byte("two"))
	_ = s.Save(ctx, "db2", "kv", "k", []byte("three"))

	if s.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", s.Len())
	}
	if _, found, _ := s.Load(ctx, "db3", "kv", "k"); found {
		t.Fatalf("unexpected hit in unknown db")
	}
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := New()
	in := []byte("abc")
	_ = s.Save(ctx, "db", "kv", "k", in)
	in[0] = 'X'

	out, _, _ := s.Load(ctx, "db", "kv", "k")
	if string(out) != "abc" {
		t.Fatalf("stored value aliased caller slice: %q", out)
	}
	out[1] = 'Y'
	again, _, _ := s.Load(ctx, "db", "kv", "k")
	if string(again) != "abc" {
		t.Fatalf("loaded value aliased store: %q", again)
	}
}
