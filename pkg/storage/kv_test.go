package storage

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"

	"github.com/matst80/moment-finder/pkg/types"
)

type keyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

func backends(t *testing.T) map[string]keyValueStore {
	ret := map[string]keyValueStore{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(t.TempDir()),
	}
	b, err := OpenBadger(InMemoryBadgerConfig())
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	ret["badger"] = b

	if addr, ok := os.LookupEnv("REDIS_ADDR"); ok {
		r := NewRedisStore(addr, os.Getenv("REDIS_PASSWORD"), 0, "moment-finder-test:")
		t.Cleanup(func() { _ = r.Close() })
		ret["redis"] = r
	}
	return ret
}

func TestKeyValueBackends(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := "momentPresets:swap/from"
			if _, err := kv.Get(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if err := kv.Set(ctx, key, []byte(`{"a":1}`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := kv.Set(ctx, key, []byte(`{"a":2}`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err := kv.Get(ctx, key)
			if err != nil || string(got) != `{"a":2}` {
				t.Errorf("expected latest value, got %s %v", got, err)
			}
			if err := kv.Remove(ctx, key); err != nil {
				t.Fatalf("remove: %v", err)
			}
			if err := kv.Remove(ctx, key); err != nil {
				t.Errorf("removing a missing key should not fail, got %v", err)
			}
			if _, err := kv.Get(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound after remove, got %v", err)
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	m := NewMemoryStore()
	value := []byte("abc")
	_ = m.Set(context.Background(), "b", value)
	_ = m.Set(context.Background(), "a", value)
	value[0] = 'x'
	got, _ := m.Get(context.Background(), "b")
	if string(got) != "abc" {
		t.Errorf("stored value changed with the caller's slice: %s", got)
	}
	if keys := m.Keys(); !slices.Equal(keys, []string{"a", "b"}) {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestDiskSnapshots(t *testing.T) {
	root := t.TempDir()
	jersey := 23
	moments := []types.Moment{
		{Id: "1", Tier: "common", Series: 2, SerialNumber: 100, MomentCount: 1000},
		{Id: "2", Tier: "Fandom", Series: 3, SerialNumber: 23, JerseyNumber: &jersey},
	}

	alice := NewDiskStorage("alice", root)
	if _, err := alice.LoadMoments(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a missing snapshot, got %v", err)
	}
	if err := alice.SaveMoments(moments); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := alice.LoadMoments()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 || loaded[1].JerseyNumber == nil || *loaded[1].JerseyNumber != 23 {
		t.Errorf("unexpected snapshot %+v", loaded)
	}

	bob := NewDiskStorage("bob", root)
	if err := bob.SaveGzippedJson(moments[:1], gzippedMomentsFile); err != nil {
		t.Fatalf("save gzipped: %v", err)
	}
	loaded, err = bob.LoadMoments()
	if err != nil || len(loaded) != 1 || loaded[0].Id != "1" {
		t.Errorf("unexpected gzipped snapshot %+v %v", loaded, err)
	}

	if err := os.MkdirAll(root+"/empty", 0755); err != nil {
		t.Fatal(err)
	}
	accounts, err := Accounts(root)
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	slices.Sort(accounts)
	if !slices.Equal(accounts, []string{"alice", "bob"}) {
		t.Errorf("unexpected accounts %v", accounts)
	}
}
