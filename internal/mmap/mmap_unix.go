//go:build !windows

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmap maps size bytes of f read-only. MAP_SHARED keeps the mapping backed
// by the page cache instead of duplicating it per process.
func mmap(f *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
}

// munmap releases a mapping obtained from mmap.
func munmap(data []byte) error {
	return unix.Munmap(data)
}
