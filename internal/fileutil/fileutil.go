package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temp file beside target, verifies what
// landed on disk, then renames it over target. Readers observe either the
// previous contents or the new ones.
func WriteFileAtomic(target string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(tmp, hasher), bytes.NewReader(data))
	if err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if written != int64(len(data)) {
		return fmt.Errorf("write size mismatch: expected %d bytes, wrote %d bytes", len(data), written)
	}
	if err := verifyDigest(tmpName, hasher.Sum(nil)); err != nil {
		return err
	}
	return os.Rename(tmpName, target)
}

func verifyDigest(path string, want []byte) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, in); err != nil {
		return err
	}
	if !bytes.Equal(hasher.Sum(nil), want) {
		return fmt.Errorf("write hash mismatch: %s corrupted before rename", filepath.Base(path))
	}
	return nil
}
