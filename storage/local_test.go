package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raushankrgupta/merchant-dashboard/config"
)

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(t.TempDir())

	res, err := l.Put(ctx, strings.NewReader("image-bytes"), PutInput{Filename: "Shoe.PNG", ContentType: "image/png"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Size != int64(len("image-bytes")) {
		t.Errorf("size = %d", res.Size)
	}
	if !strings.HasSuffix(res.Key, ".png") {
		t.Errorf("key %q should keep the image extension", res.Key)
	}

	rc, err := l.Open(ctx, res.Key)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "image-bytes" {
		t.Errorf("data = %q", data)
	}

	if err := l.Delete(ctx, res.Key); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Open(ctx, res.Key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open after Delete = %v, want ErrNotFound", err)
	}
	if err := l.Delete(ctx, res.Key); err != nil {
		t.Errorf("second Delete = %v, want nil", err)
	}
}

func TestLocalDropsUnknownExtension(t *testing.T) {
	l := NewLocal(t.TempDir())
	res, err := l.Put(context.Background(), strings.NewReader("x"), PutInput{Filename: "evil.sh"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.Key, ".") {
		t.Errorf("key %q should not carry the extension", res.Key)
	}
}

func TestLocalKeysStayInsideBaseDir(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir)
	if got := l.path("../../etc/passwd"); !strings.HasPrefix(got, dir) {
		t.Errorf("path escaped base dir: %s", got)
	}
}

func TestFromConfig(t *testing.T) {
	s, err := FromConfig(context.Background(), &config.Config{StorageDriver: "local", LocalUploadDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Local); !ok {
		t.Errorf("driver = %T, want *Local", s)
	}

	if _, err := FromConfig(context.Background(), &config.Config{StorageDriver: "s3"}); err == nil {
		t.Error("s3 without bucket should fail")
	}
	if _, err := FromConfig(context.Background(), &config.Config{StorageDriver: "ftp"}); err == nil {
		t.Error("unknown driver should fail")
	}
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestLocalPutRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir)

	r := io.MultiReader(strings.NewReader("partial"), failingReader{})
	if _, err := l.Put(context.Background(), r, PutInput{Filename: "a.png"}); err == nil {
		t.Fatal("expected error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d files left after failed upload", len(entries))
	}
}

func TestLocalSweep(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	l := NewLocal(dir)

	old, err := l.Put(ctx, strings.NewReader("old"), PutInput{Filename: "a.png"})
	if err != nil {
		t.Fatal(err)
	}
	fresh, err := l.Put(ctx, strings.NewReader("fresh"), PutInput{Filename: "b.png"})
	if err != nil {
		t.Fatal(err)
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, old.Key), stale, stale); err != nil {
		t.Fatal(err)
	}

	n, err := l.Sweep(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("swept %d, want 1", n)
	}
	if _, err := l.Open(ctx, old.Key); !errors.Is(err, ErrNotFound) {
		t.Errorf("old image still there: %v", err)
	}
	rc, err := l.Open(ctx, fresh.Key)
	if err != nil {
		t.Fatalf("fresh image swept: %v", err)
	}
	rc.Close()

	n, err = NewLocal(filepath.Join(dir, "missing")).Sweep(ctx, time.Now())
	if err != nil || n != 0 {
		t.Errorf("missing dir sweep = %d, %v", n, err)
	}
}

func TestRunJanitorSweepsBeforeStopping(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir)
	res, err := l.Put(context.Background(), strings.NewReader("x"), PutInput{Filename: "a.png"})
	if err != nil {
		t.Fatal(err)
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, res.Key), stale, stale); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	RunJanitor(ctx, l, 24*time.Hour, time.Hour)

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("janitor left %d files", len(entries))
	}
}
