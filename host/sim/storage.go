package sim

import (
	"os"
	"path/filepath"
)

// DirStore implements core.Storage with one file per key, the desktop
// stand-in for the device's EEPROM slots
type DirStore struct {
	dir string
}

func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) path(key string) string {
	return filepath.Join(s.dir, key+".bin")
}

func (s *DirStore) Get(key string, buf []byte) (int, bool, error) {
	blob, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	copy(buf, blob)
	return len(blob), true, nil
}

// Put writes the blob and syncs it before returning, so a committed
// save survives the process like an EEPROM write survives power-off
func (s *DirStore) Put(key string, data []byte) error {
	f, err := os.CreateTemp(s.dir, key+".tmp-")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.path(key))
}
