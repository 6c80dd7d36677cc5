package persistence

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

var (
	// ErrUnsupportedArchitecture is returned when running on unsupported CPU architecture
	ErrUnsupportedArchitecture = errors.New("unsupported architecture: only amd64 and arm64 are supported")

	// ErrBigEndian is returned when running on big-endian systems
	ErrBigEndian = errors.New("big-endian systems are not supported")
)

// init performs startup validation of platform requirements
func init() {
	if err := validatePlatform(); err != nil {
		panic(fmt.Sprintf("fmgo/persistence: %v", err))
	}
}

// validatePlatform checks if the current platform supports the raw-slice IO
// used for section payloads. Section bodies are written in host byte order
// through unsafe.Slice while the header, length prefixes, and checksum
// trailer are little-endian; the two only agree on little-endian hosts, so
// anything else must refuse to run rather than emit checksum-valid files
// that no other machine can read.
func validatePlatform() error {
	arch := runtime.GOARCH
	if arch != "amd64" && arch != "arm64" {
		return fmt.Errorf("%w: %s", ErrUnsupportedArchitecture, arch)
	}

	if !isLittleEndian() {
		return ErrBigEndian
	}

	return nil
}

// isLittleEndian checks if the system is little-endian
func isLittleEndian() bool {
	var test uint16 = 0x0001
	firstByte := *(*byte)(unsafe.Pointer(&test))
	return firstByte == 1
}

// PlatformInfo returns information about the current platform
func PlatformInfo() string {
	endian := "little-endian"
	if !isLittleEndian() {
		endian = "big-endian"
	}
	return fmt.Sprintf("GOOS=%s GOARCH=%s endianness=%s", runtime.GOOS, runtime.GOARCH, endian)
}
