package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func testMkdirAllStat(t *testing.T, fsys Filesystem, root string) {
	t.Helper()
	if err := fsys.MkdirAll(filepath.Join(root, "a/b/c"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	info, err := fsys.Stat(filepath.Join(root, "a/b"))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("expected directory, got file: %v", info.Name())
	}
}

func testCreateWriteReadRemove(t *testing.T, fsys Filesystem, root string) {
	t.Helper()
	p := filepath.Join(root, "file.txt")

	f, err := fsys.Create(p)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_ = f.Close()

	if e := fsys.WriteFile(p, []byte("hello"), 0o644); e != nil {
		t.Fatalf("WriteFile failed: %v", e)
	}

	b, err := fsys.ReadFile(p)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(b) != "hello" {
		t.Errorf("ReadFile = %q, want %q", string(b), "hello")
	}

	ok, err := fsys.Exists(p)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Errorf("Exists = false, want true")
	}

	if e := fsys.Remove(p); e != nil {
		t.Fatalf("Remove failed: %v", e)
	}

	ok, err = fsys.Exists(p)
	if err != nil {
		t.Fatalf("Exists after Remove failed: %v", err)
	}
	if ok {
		t.Errorf("Exists = true after Remove, want false")
	}
}

func testOpenReadAtSeek(t *testing.T, fsys Filesystem, root string) {
	t.Helper()
	p := filepath.Join(root, "open.txt")
	if e := fsys.WriteFile(p, []byte("abcdef"), 0o644); e != nil {
		t.Fatalf("WriteFile failed: %v", e)
	}

	f, err := fsys.Open(p)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 3)
	n, err := f.ReadAt(buf, 2)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if n != 3 || string(buf) != "cde" {
		t.Errorf("ReadAt = %q (%d bytes), want %q", string(buf[:n]), n, "cde")
	}

	if _, err := f.Seek(1, io.SeekStart); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	rest, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll after Seek failed: %v", err)
	}
	if string(rest) != "bcdef" {
		t.Errorf("ReadAll after Seek = %q, want %q", string(rest), "bcdef")
	}

	f2, err := fsys.OpenFile(p, os.O_RDONLY, 0)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	_ = f2.Close()
}

// runSuite runs a battery of consistency tests against a Filesystem impl.
func runSuite(t *testing.T, fsys Filesystem, root string) {
	t.Helper()
	testMkdirAllStat(t, fsys, root)
	testCreateWriteReadRemove(t, fsys, root)
	testOpenReadAtSeek(t, fsys, root)
}

func TestInMemoryFS_Suite(t *testing.T) {
	runSuite(t, NewInMemoryFS(), "/")
}

func TestOSFS_Suite(t *testing.T) {
	root := t.TempDir()
	runSuite(t, NewOSFS(root), root)
}
