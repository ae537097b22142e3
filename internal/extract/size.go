package extract

import "fmt"

// DefaultMaxSizeMB is the upload size limit when none is configured.
const DefaultMaxSizeMB = 10

const bytesPerMB = 1024 * 1024

// FileTooLargeError reports an upload above the configured size limit.
type FileTooLargeError struct {
	Size      int64
	MaxSizeMB int
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("File size (%.1f MB) exceeds maximum allowed size (%d MB)",
		float64(e.Size)/bytesPerMB, e.MaxSizeMB)
}

// ValidateSize rejects sizes above maxMB megabytes. A non-positive maxMB
// uses DefaultMaxSizeMB.
func ValidateSize(size int64, maxMB int) error {
	if maxMB <= 0 {
		maxMB = DefaultMaxSizeMB
	}
	if size > int64(maxMB)*bytesPerMB {
		return &FileTooLargeError{Size: size, MaxSizeMB: maxMB}
	}
	return nil
}
