//go:build linux || darwin

package mapfile

import (
	"os"
	"syscall"
)

// mmapRegion holds the raw mapping so it can be unmapped later. No
// third-party mmap library appears anywhere in the retrieval pack, so
// this wraps syscall.Mmap directly, the same way the slotcache reference
// code does.
type mmapRegion struct {
	data []byte
}

func mmapFile(f *os.File, size int64) (mmapRegion, []byte, error) {
	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return mmapRegion{}, nil, err
	}
	return mmapRegion{data: data}, data, nil
}

func munmapRegion(r mmapRegion) error {
	if r.data == nil {
		return nil
	}
	return syscall.Munmap(r.data)
}
