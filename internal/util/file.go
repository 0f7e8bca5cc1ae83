package util

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// TempSuffix marks files that WriteFileAtomic has not renamed into place yet.
const TempSuffix = ".tmp"

// WriteFileAtomic writes data next to path, syncs it and renames it over
// path, so readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	st, err := StageFile(path, data, perm)
	if err != nil {
		return err
	}
	return st.Commit()
}

// StagedFile is a synced temp file waiting to be renamed over its target.
type StagedFile struct {
	path string
	tmp  string
}

// StageFile writes data to path+TempSuffix and syncs it. Nothing changes at
// path until Commit.
func StageFile(path string, data []byte, perm os.FileMode) (*StagedFile, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
	}

	tmp := path + TempSuffix

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		closeQuietly(f)
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Sync(); err != nil {
		closeQuietly(f)
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("sync %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("close %s: %w", path, err)
	}

	return &StagedFile{path: path, tmp: tmp}, nil
}

func (s *StagedFile) Commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		_ = os.Remove(s.tmp)
		return fmt.Errorf("rename %s: %w", s.path, err)
	}
	return nil
}

// Discard drops the staged content and leaves the target untouched.
func (s *StagedFile) Discard() {
	_ = os.Remove(s.tmp)
}

func closeQuietly(f *os.File) {
	if cerr := f.Close(); cerr != nil {
		log.Printf("error closing %s: %v", f.Name(), cerr)
	}
}
