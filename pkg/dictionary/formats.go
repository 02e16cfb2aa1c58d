// Package dictionary reads and writes the word lists that feed the completer.
package dictionary

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat is a dictionary file encoding.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatChunk              // binary rank-ordered chunk, dict_NNNN.bin
	FormatText               // "word [frequency]" per line
)

func (f FileFormat) String() string {
	if info, ok := GetFormatInfo(f); ok {
		return info.Description
	}
	return "unknown"
}

// FormatInfo describes a supported format.
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

// maxChunkWords bounds the header of a chunk file.
const maxChunkWords = 1_000_000

var supportedFormats = map[FileFormat]FormatInfo{
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Chunked Binary Dictionary",
		Extensions:  []string{".bin"},
		MinSize:     4, // word count header
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Dictionary",
		Extensions:  []string{".txt"},
		MinSize:     1,
	},
}

// ValidateFileFormat checks that filename looks like the expected format.
func ValidateFileFormat(filename string, expected FileFormat) error {
	info, ok := supportedFormats[expected]
	if !ok {
		return fmt.Errorf("unknown format: %d", expected)
	}

	stat, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if stat.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for %s (minimum: %d bytes)",
			filename, stat.Size(), info.Description, info.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, e := range info.Extensions {
		if ext == e {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %q for %s (expected: %v)",
			filename, ext, info.Description, info.Extensions)
	}

	if expected == FormatChunk {
		return validateChunkHeader(filename)
	}
	return nil
}

func validateChunkHeader(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var count int32
	if err := binary.Read(file, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if count < 0 || count > maxChunkWords {
		return fmt.Errorf("invalid word count in %s: %d", filename, count)
	}

	log.Debugf("Binary file %s validated: %d words", filename, count)
	return nil
}

// DetectFileFormat picks the format of filename from its extension and
// validates it.
func DetectFileFormat(filename string) (FileFormat, error) {
	var format FileFormat
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".bin":
		format = FormatChunk
	case ".txt":
		format = FormatText
	default:
		return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
	}
	if err := ValidateFileFormat(filename, format); err != nil {
		return FormatUnknown, err
	}
	return format, nil
}

// GetFormatInfo returns the description of format.
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, ok := supportedFormats[format]
	return info, ok
}
