// internal/format/detect.go
package format

// ArchiveFormat represents the detected archive format
type ArchiveFormat int

const (
	FormatUnknown ArchiveFormat = iota
	FormatTMLP
)

// String returns the string representation of the format
func (f ArchiveFormat) String() string {
	switch f {
	case FormatTMLP:
		return "TMLP"
	default:
		return "UNKNOWN"
	}
}

// DetectFormat detects the archive format from its leading bytes
func DetectFormat(magic []byte) ArchiveFormat {
	if len(magic) >= MagicSize && string(magic[:MagicSize]) == Magic {
		return FormatTMLP
	}
	return FormatUnknown
}
