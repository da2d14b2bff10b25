package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

const fingerprintTail = 2048

// FileFingerprint is the stat identity of a file plus a CRC32 of its last
// 2KB, which catches rewrites that keep size and modification time.
type FileFingerprint struct {
	Info FileInfo
	Tail string
}

// CalculateFileFingerprint fingerprints the file at path.
func CalculateFileFingerprint(path string) (FileFingerprint, error) {
	info, err := GetFileInfo(path)
	if err != nil {
		return FileFingerprint{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	defer file.Close()

	readSize := int64(fingerprintTail)
	if info.Size < readSize {
		readSize = info.Size
	}
	if _, err := file.Seek(-readSize, io.SeekEnd); err != nil {
		return FileFingerprint{}, err
	}

	data := make([]byte, readSize)
	if _, err := io.ReadFull(file, data); err != nil {
		return FileFingerprint{}, err
	}

	return FileFingerprint{
		Info: *info,
		Tail: fmt.Sprintf("%08x", crc32.ChecksumIEEE(data)),
	}, nil
}
