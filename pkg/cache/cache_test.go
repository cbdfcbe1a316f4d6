package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %v, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set(ctx, "layout:a", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:a")
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("x"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("y"), 0)

	now = now.Add(2 * time.Minute)

	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get = %v, %v; want silent miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry was not removed")
	}
}

func TestFileCacheStatsAndClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "b", []byte("2"), time.Hour)
	_ = c.Set(ctx, "c", []byte("3"), 0)
	now = now.Add(10 * time.Minute)

	st, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 3 || st.Expired != 1 || st.Bytes == 0 {
		t.Errorf("Stats = %+v, want 3 entries, 1 expired", st)
	}

	n, err := c.Clear(true)
	if err != nil || n != 1 {
		t.Fatalf("Clear(expired) = %d, %v; want 1", n, err)
	}
	n, err = c.Clear(false)
	if err != nil || n != 2 {
		t.Fatalf("Clear(all) = %d, %v; want 2", n, err)
	}
	if st, _ := c.Stats(); st.Entries != 0 {
		t.Errorf("Entries after clear = %d", st.Entries)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		target string
		want   string
	}{
		{"", "*cache.NullCache"},
		{"none", "*cache.NullCache"},
		{dir, "*cache.FileCache"},
		{"file://" + dir, "*cache.FileCache"},
	}
	for _, tt := range tests {
		c, err := Open(ctx, tt.target)
		if err != nil {
			t.Errorf("Open(%q): %v", tt.target, err)
			continue
		}
		if got := fmt.Sprintf("%T", c); got != tt.want {
			t.Errorf("Open(%q) = %s, want %s", tt.target, got, tt.want)
		}
		c.Close()
	}

	if _, err := Open(ctx, "memcached://localhost"); err == nil {
		t.Error("expected error for unknown scheme")
	}
}

func TestRemoteBackends(t *testing.T) {
	ctx := context.Background()
	targets := map[string]string{
		"redis": os.Getenv("FRAMEGRID_REDIS_URL"),
		"mongo": os.Getenv("FRAMEGRID_MONGO_URI"),
	}
	for name, target := range targets {
		t.Run(name, func(t *testing.T) {
			if target == "" {
				t.Skipf("%s backend not configured", name)
			}
			c, err := Open(ctx, target)
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()

			key := "test:" + Hash([]byte(t.Name()))
			if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
				t.Fatal(err)
			}
			if data, hit, err := c.Get(ctx, key); err != nil || !hit || string(data) != "v" {
				t.Fatalf("Get = %q, %v, %v", data, hit, err)
			}
			if err := c.Delete(ctx, key); err != nil {
				t.Fatal(err)
			}
			if _, hit, _ := c.Get(ctx, key); hit {
				t.Error("entry present after Delete")
			}
		})
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("doc", LayoutKeyOpts{Width: 800, Height: 600})
	lk2 := k.LayoutKey("doc", LayoutKeyOpts{Width: 801, Height: 600})
	lk3 := k.LayoutKey("doc", LayoutKeyOpts{Width: 800, Height: 600, Deltas: "d"})
	if lk1 == lk2 || lk1 == lk3 {
		t.Error("different LayoutKeyOpts should produce different keys")
	}
	if lk1 != k.LayoutKey("doc", LayoutKeyOpts{Width: 800, Height: 600}) {
		t.Error("LayoutKey should be deterministic")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey = %s", lk1)
	}

	ak1 := k.ArtifactKey("l", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("l", ArtifactKeyOpts{Format: "txt"})
	if ak1 == ak2 {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}

	if got := k.SessionKey("abc"); got != "session:abc" {
		t.Errorf("SessionKey = %s", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "staging:")
	if got := scoped.SessionKey("abc"); got != "staging:session:abc" {
		t.Errorf("SessionKey = %s", got)
	}
	if got := scoped.LayoutKey("doc", LayoutKeyOpts{}); !strings.HasPrefix(got, "staging:layout:") {
		t.Errorf("LayoutKey should be prefixed: %s", got)
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if got := nilInner.SessionKey("x"); got != "p:session:x" {
		t.Errorf("nil inner SessionKey = %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should unwrap to ErrNetwork")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(errBoom) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"permanent", 5, false, 1, true},
		{"recovers", 1, true, 2, false},
		{"exhausted", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls > tt.failures {
					return nil
				}
				if tt.retryable {
					return Retryable(ErrNetwork)
				}
				return errBoom
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
