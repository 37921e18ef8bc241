package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestStoreSetGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Fatal("empty store should miss")
	}

	store.Set(ctx, "k", 42)
	value, ok := store.Get(ctx, "k")
	if !ok || value.(int) != 42 {
		t.Fatalf("got %v/%v, want 42", value, ok)
	}

	store.Delete(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("deleted key should miss")
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewStore(10 * time.Millisecond)

	store.Set(ctx, "k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expired entry should miss")
	}
}

func TestGetOrLoadCachesResult(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		value, err := store.GetOrLoad(ctx, "k", loader)
		if err != nil {
			t.Fatal(err)
		}
		if value.(string) != "loaded" {
			t.Fatalf("got %v", value)
		}
	}
	if loads != 1 {
		t.Fatalf("loads = %d, want 1", loads)
	}
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	boom := errors.New("boom")
	loads := 0
	if _, err := store.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
		loads++
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}

	if _, err := store.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
		loads++
		return "ok", nil
	}); err != nil {
		t.Fatal(err)
	}
	if loads != 2 {
		t.Fatalf("loads = %d, failed loads must not stick", loads)
	}
}

func TestGetOrLoadSingleFlight(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	var mu sync.Mutex
	loads := 0
	release := make(chan struct{})

	loader := func(context.Context) (any, error) {
		mu.Lock()
		loads++
		mu.Unlock()
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.GetOrLoad(ctx, "k", loader); err != nil {
				t.Error(err)
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if loads != 1 {
		t.Fatalf("loads = %d, concurrent callers should share one load", loads)
	}
}
