//go:build windows

package mmap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

func osMap(f *os.File, offset int64, size int) ([]byte, error) {
	maxSize := uint64(offset) + uint64(size)

	// PAGE_READWRITE for a shared, writable view.
	h, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil,
		windows.PAGE_READWRITE, uint32(maxSize>>32), uint32(maxSize), nil)
	if err != nil {
		return nil, err
	}
	// The view holds a reference, so the handle can be closed immediately.
	defer windows.CloseHandle(h)

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_WRITE,
		uint32(uint64(offset)>>32), uint32(uint64(offset)), uintptr(size))
	if err != nil {
		return nil, err
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func osUnmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	return windows.UnmapViewOfFile(addr)
}

func osSync(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	return windows.FlushViewOfFile(addr, uintptr(len(data)))
}

func osAdvise(data []byte, pattern AccessPattern) error {
	// Windows has no direct equivalent to madvise; the OS page cache still
	// works effectively for sequential access. No-op.
	_ = data
	_ = pattern
	return nil
}
