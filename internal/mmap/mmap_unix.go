//go:build unix || linux || darwin || freebsd || openbsd || netbsd

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func osMap(f *os.File, offset int64, size int) ([]byte, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_SHARED

	return unix.Mmap(int(f.Fd()), offset, size, prot, flags)
}

func osUnmap(data []byte) error {
	return unix.Munmap(data)
}

func osSync(data []byte) error {
	return unix.Msync(data, unix.MS_SYNC)
}

func osAdvise(data []byte, pattern AccessPattern) error {
	if len(data) == 0 {
		return nil
	}

	var advice int
	switch pattern {
	case AccessSequential:
		advice = unix.MADV_SEQUENTIAL
	case AccessRandom:
		advice = unix.MADV_RANDOM
	case AccessWillNeed:
		advice = unix.MADV_WILLNEED
	case AccessDontNeed:
		advice = unix.MADV_DONTNEED
	default:
		advice = unix.MADV_NORMAL
	}

	// On Linux, madvise requires page-aligned addresses. If the slice isn't
	// page-aligned we silently succeed since the hint is advisory.
	err := unix.Madvise(data, advice)
	if err == unix.EINVAL {
		return nil
	}
	return err
}
