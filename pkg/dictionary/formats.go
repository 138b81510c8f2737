package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the candidate file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // one title per line
	FormatTSV                // title<TAB>subtitle per line
	FormatBinary             // chunk layout: count, then (len, word, rank)
	FormatTOML               // [[item]] tables with optional search ranges
)

// FormatInfo contains metadata about a candidate file format
type FormatInfo struct {
	Format      FileFormat
	Name        string
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Name:        "text",
		Description: "Plain text list",
		Extensions:  []string{".txt", ".list"},
		MinSize:     1,
	},
	FormatTSV: {
		Format:      FormatTSV,
		Name:        "tsv",
		Description: "Tab separated title/subtitle list",
		Extensions:  []string{".tsv"},
		MinSize:     1,
	},
	FormatBinary: {
		Format:      FormatBinary,
		Name:        "bin",
		Description: "Binary word list",
		Extensions:  []string{".bin"},
		MinSize:     4, // word count header
	},
	FormatTOML: {
		Format:      FormatTOML,
		Name:        "toml",
		Description: "TOML item list",
		Extensions:  []string{".toml"},
		MinSize:     1,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Name
	}
	return "unknown"
}

// ParseFormat maps a -format flag value onto a FileFormat. "" and "auto" give FormatUnknown.
func ParseFormat(name string) (FileFormat, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		return FormatUnknown, nil
	}
	for format, info := range supportedFormats {
		if info.Name == name {
			return format, nil
		}
	}
	names := make([]string, 0, len(supportedFormats))
	for _, info := range ListSupportedFormats() {
		names = append(names, info.Name)
	}
	return FormatUnknown, fmt.Errorf("unknown format %q (supported: auto, %s)", name, strings.Join(names, ", "))
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := FormatInfoFor(expectedFormat)
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	if expectedFormat == FormatBinary {
		return validateBinaryFormat(filename)
	}
	return nil
}

// validateBinaryFormat checks the word count header
func validateBinaryFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if wordCount < 0 {
		return fmt.Errorf("invalid word count in %s: %d (negative)", filename, wordCount)
	}

	log.Debugf("Binary file %s validated: %d words", filename, wordCount)
	return nil
}

// DetectFileFormat picks a format from the extension, then sniffs the first
// non-empty line of files with an unknown extension.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if ext == e {
				if err := ValidateFileFormat(filename, format); err != nil {
					return FormatUnknown, err
				}
				return format, nil
			}
		}
	}

	format, err := sniffFormat(filename)
	if err != nil {
		return FormatUnknown, fmt.Errorf("unable to detect format for file %s: %w", filename, err)
	}
	log.Debugf("Detected %s format for %s", format, filename)
	return format, nil
}

func sniffFormat(filename string) (FileFormat, error) {
	file, err := os.Open(filename)
	if err != nil {
		return FormatUnknown, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "[[item]]"):
			return FormatTOML, nil
		case strings.Contains(scanner.Text(), "\t"):
			return FormatTSV, nil
		default:
			return FormatText, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return FormatUnknown, err
	}
	return FormatText, nil
}

// FormatInfoFor returns information about a specific format
func FormatInfoFor(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats ordered by FileFormat
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for _, info := range supportedFormats {
		formats = append(formats, info)
	}
	sort.Slice(formats, func(i, j int) bool {
		return formats[i].Format < formats[j].Format
	})
	return formats
}
