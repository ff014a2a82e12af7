package storage

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// DiskStore keeps uploaded media on the local filesystem under a single root.
// Objects are addressed by their stored relative path everywhere; no URL
// parsing is involved.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	os.MkdirAll(root, 0755)
	return &DiskStore{root: root}
}

func (s *DiskStore) Save(relPath string, src io.Reader) error {
	dst := filepath.Join(s.root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, src)
	return err
}

// Remove is best-effort: a failure is logged and swallowed so that database
// cleanup can proceed even if an orphaned file remains.
func (s *DiskStore) Remove(relPath string) {
	if relPath == "" {
		return
	}
	dst := filepath.Join(s.root, filepath.FromSlash(relPath))
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		log.Printf("storage: failed to remove %s: %v", relPath, err)
	}
}

func (s *DiskStore) RemoveAll(relPaths []string) {
	for _, p := range relPaths {
		s.Remove(p)
	}
}

func (s *DiskStore) Root() string {
	return s.root
}
