package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/staffsheet/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(custom, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := newCache(true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(interface{ Dir() string }); ok {
		t.Error("--no-cache should not use the file cache")
	}

	c, err = newCache(false)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	fc, ok := c.(interface{ Dir() string })
	if !ok {
		t.Fatalf("expected a file cache, got %T", c)
	}
	if filepath.Base(fc.Dir()) != appName {
		t.Errorf("cache dir = %q", fc.Dir())
	}
}

func TestServeRunnerScopesKeys(t *testing.T) {
	c := New(io.Discard, LogInfo)
	opts := cache.ArtifactKeyOpts{Format: "pdf"}

	serve, err := c.newServeRunner(true)
	if err != nil {
		t.Fatal(err)
	}
	defer serve.Close()
	cli, err := c.newRunner(true)
	if err != nil {
		t.Fatal(err)
	}
	defer cli.Close()

	key := serve.Keyer.ArtifactKey("abc", opts)
	if !strings.HasPrefix(key, serveKeyPrefix) {
		t.Errorf("serve key %q lacks prefix %q", key, serveKeyPrefix)
	}
	if plain := cli.Keyer.ArtifactKey("abc", opts); key == plain || strings.HasPrefix(plain, serveKeyPrefix) {
		t.Errorf("cli key %q should differ from serve key %q", plain, key)
	}
}

func TestCompletionCommand(t *testing.T) {
	root := New(os.Stderr, LogInfo).RootCommand()
	var out bytesCounter
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash", "--config", writeEmptyConfig(t)})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if out.n == 0 {
		t.Error("completion script is empty")
	}
}

type bytesCounter struct{ n int }

func (b *bytesCounter) Write(p []byte) (int, error) {
	b.n += len(p)
	return len(p), nil
}
