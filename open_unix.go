//go:build !windows || appengine
// +build !windows appengine

package mmdbquery

import "syscall"

// mmap maps fd's first length bytes read-only into memory, mirroring the
// teacher's original Open/OpenBytes use of syscall.Mmap directly.
func mmap(fd int, length int) ([]byte, error) {
	return syscall.Mmap(fd, 0, length, syscall.PROT_READ, syscall.MAP_SHARED)
}

// munmap undoes a mapping made by mmap.
func munmap(b []byte) error {
	return syscall.Munmap(b)
}
