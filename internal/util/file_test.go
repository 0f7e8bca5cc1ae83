package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomicReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "datos.json")

	if err := WriteFileAtomic(path, []byte("first"), 0644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0644); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Fatalf("content = %q, want %q", got, "second")
	}

	if _, err := os.Stat(path + TempSuffix); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone, stat err = %v", err)
	}
}

func TestStageFileLeavesTargetUntilCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timestamp.txt")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	st, err := StageFile(path, []byte("new"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := os.ReadFile(path); string(got) != "old" {
		t.Fatalf("target changed before commit: %q", got)
	}

	st.Discard()
	if _, err := os.Stat(path + TempSuffix); !os.IsNotExist(err) {
		t.Fatalf("discard left the temp file, stat err = %v", err)
	}
	if got, _ := os.ReadFile(path); string(got) != "old" {
		t.Fatalf("discard touched the target: %q", got)
	}

	st, err = StageFile(path, []byte("new"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Commit(); err != nil {
		t.Fatal(err)
	}
	if got, _ := os.ReadFile(path); string(got) != "new" {
		t.Fatalf("content = %q after commit", got)
	}
}

func TestCleanupUnfinishedTempFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "timestamp.txt")
	other := filepath.Join(dir, "keep.tmp")

	for _, p := range []string{target + TempSuffix, other, target} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	CleanupUnfinishedTempFiles(target, "")

	if _, err := os.Stat(target + TempSuffix); !os.IsNotExist(err) {
		t.Fatalf("temp file for target should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatalf("unrelated file removed: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("target removed: %v", err)
	}
}
