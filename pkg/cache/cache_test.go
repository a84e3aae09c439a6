package cache

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var errDropped = errors.New("connection reset")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "page", []byte("png"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if data, hit, err := c.Get(ctx, "page"); hit || data != nil || err != nil {
		t.Errorf("Get = %q, %v, %v; want a clean miss", data, hit, err)
	}
	if err := c.Delete(ctx, "page"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if len(h) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h))
	}
	if h != Hash([]byte("hello")) || h == Hash([]byte("world")) {
		t.Error("Hash must be deterministic and input dependent")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := GridKeyOpts{
		ColHeaders:  []string{"euler", "ddim"},
		RowHeaders:  []string{"20", "30"},
		CurrentPage: 1,
		TotalPages:  2,
		Style:       map[string]any{"gap": 20},
	}
	key := k.GridKey("abc", base)
	if !strings.HasPrefix(key, "grid:") {
		t.Errorf("GridKey = %q, want grid: prefix", key)
	}
	if key != k.GridKey("abc", base) {
		t.Error("GridKey is not deterministic")
	}

	tests := []struct {
		name    string
		content string
		mutate  func(*GridKeyOpts)
	}{
		{"content", "abd", func(*GridKeyOpts) {}},
		{"page", "abc", func(o *GridKeyOpts) { o.CurrentPage = 2 }},
		{"style", "abc", func(o *GridKeyOpts) { o.Style = map[string]any{"gap": 10} }},
		{"labels", "abc", func(o *GridKeyOpts) { o.ColHeaders = []string{"euler", "lms"} }},
		{"footer", "abc", func(o *GridKeyOpts) { o.Footer = map[string]any{"text_right": "x"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.mutate(&opts)
			if k.GridKey(tt.content, opts) == key {
				t.Errorf("changing %s did not change the key", tt.name)
			}
		})
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	if got, want := NewScopedKeyer(inner, "xyplot:test:").GridKey("abc", GridKeyOpts{}),
		"xyplot:test:"+inner.GridKey("abc", GridKeyOpts{}); got != want {
		t.Errorf("GridKey = %q, want %q", got, want)
	}
	if got, want := NewScopedKeyer(nil, "p:").GridKey("abc", GridKeyOpts{}),
		"p:"+inner.GridKey("abc", GridKeyOpts{}); got != want {
		t.Errorf("nil inner: GridKey = %q, want %q", got, want)
	}
}

func TestHashImages(t *testing.T) {
	a := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	b := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	if HashImages([][]image.Image{{a}}) != HashImages([][]image.Image{{b}}) {
		t.Error("identical images should hash equal")
	}

	b.Set(1, 1, color.White)
	if HashImages([][]image.Image{{a}}) == HashImages([][]image.Image{{b}}) {
		t.Error("different pixels should hash differently")
	}

	if HashImages([][]image.Image{{a, a}}) == HashImages([][]image.Image{{a}, {a}}) {
		t.Error("different matrix shapes should hash differently")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if HashImages([][]image.Image{{rgba}}) != HashImages([][]image.Image{{a}}) {
		t.Error("transparent RGBA and NRGBA images should hash equal")
	}
}

func newFileCache(t *testing.T) *FileCache {
	t.Helper()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	return c.(*FileCache)
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "page", []byte("png bytes"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "page")
	if err != nil || !hit || string(data) != "png bytes" {
		t.Errorf("Get(page) = %q, %v, %v", data, hit, err)
	}
	if !strings.HasSuffix(c.path("page"), entryExt) {
		t.Errorf("entry path %q lacks %s", c.path("page"), entryExt)
	}

	if err := c.Set(ctx, "page", []byte("v2"), 0); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	if data, _, _ := c.Get(ctx, "page"); string(data) != "v2" {
		t.Errorf("Get after overwrite = %q, want v2", data)
	}

	if err := c.Delete(ctx, "page"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "page"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "page"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should hit")
	}
}

func TestFileCacheTruncatedEntry(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); err != nil || hit {
		t.Errorf("Get(truncated) = hit %v, err %v, want clean miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("truncated entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	// a temp file left by an interrupted write is removed but not counted
	shard := filepath.Dir(c.path("a"))
	if err := os.WriteFile(filepath.Join(shard, "tmp-123"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir not empty after Clear: %d entries", len(entries))
	}
}

func TestFileCacheClearKeepsForeignFiles(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)
	if err := c.Set(ctx, "a", []byte("a"), 0); err != nil {
		t.Fatal(err)
	}
	shard := filepath.Dir(c.path("a"))
	keep := []string{
		filepath.Join(c.Dir(), "notes.txt"),
		filepath.Join(c.Dir(), "old.page"),
		filepath.Join(c.Dir(), "plots", "run.page"),
		filepath.Join(c.Dir(), "zz", "x.page"),
		filepath.Join(shard, "README"),
	}
	for _, p := range keep {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("keep"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 1 {
		t.Errorf("Clear removed %d entries, want 1", n)
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("entry survived Clear")
	}
	for _, p := range keep {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s removed by Clear: %v", p, err)
		}
	}
}

func TestIsShard(t *testing.T) {
	tests := map[string]bool{
		"00": true, "a7": true, "ff": true,
		"": false, "a": false, "abc": false, "zz": false, "AB": false, "..": false,
	}
	for name, want := range tests {
		if got := isShard(name); got != want {
			t.Errorf("isShard(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(errDropped)
	if !IsRetryable(err) || !errors.Is(err, errDropped) || err.Error() != errDropped.Error() {
		t.Errorf("Retryable(errDropped) = %v", err)
	}
	if IsRetryable(errDropped) {
		t.Error("a bare error should not be retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	errFatal := errors.New("wrong type")
	tests := []struct {
		name      string
		failures  int
		fail      error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"not retryable", 1, errFatal, 1, errFatal},
		{"one retry", 1, Retryable(errDropped), 2, nil},
		{"exhausted", 10, Retryable(errDropped), retryAttempts, errDropped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.fail
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil || tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errDropped)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
