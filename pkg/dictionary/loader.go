/*
Package dictionary loads candidate sets for the suggestion engine from files.
*/
package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/searchfield/internal/utils"
	"github.com/bastiangx/searchfield/pkg/suggest"
	"github.com/charmbracelet/log"
)

// ErrTooManyItems is returned when a file holds more candidates than allowed.
var ErrTooManyItems = errors.New("too many candidates")

// Loader reads candidate files into items.
type Loader struct {
	// MaxItems stops loading with ErrTooManyItems once exceeded. 0 = no limit.
	MaxItems int
	// Dedupe drops repeated titles, keeping the first occurrence.
	Dedupe bool
	// CaseSensitive makes Dedupe treat "Go" and "go" as different titles.
	CaseSensitive bool
}

// LoaderStats describes the last load.
type LoaderStats struct {
	Read    int
	Kept    int
	Dropped int
	Format  FileFormat
}

// NewLoader creates a loader with a candidate limit.
func NewLoader(maxItems int, dedupe bool) *Loader {
	return &Loader{MaxItems: maxItems, Dedupe: dedupe}
}

// Load reads path in format, detecting the format when it is FormatUnknown.
func (l *Loader) Load(path string, format FileFormat) ([]*suggest.Item, LoaderStats, error) {
	if format == FormatUnknown {
		detected, err := DetectFileFormat(path)
		if err != nil {
			return nil, LoaderStats{}, err
		}
		format = detected
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, LoaderStats{}, fmt.Errorf("failed to open candidate file %s: %w", path, err)
	}
	defer file.Close()

	items, stats, err := l.Read(file, format)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Debugf("Loaded %d candidates from %s (%s, %d read, %d dropped)",
		stats.Kept, path, format, stats.Read, stats.Dropped)
	return items, stats, nil
}

// Read parses r as format.
func (l *Loader) Read(r io.Reader, format FileFormat) ([]*suggest.Item, LoaderStats, error) {
	var (
		items []*suggest.Item
		err   error
	)
	switch format {
	case FormatText:
		items, err = readLines(r, false)
	case FormatTSV:
		items, err = readLines(r, true)
	case FormatBinary:
		items, err = readBinary(r)
	case FormatTOML:
		items, err = readTOML(r)
	default:
		err = fmt.Errorf("unsupported format: %v", format)
	}
	stats := LoaderStats{Read: len(items), Format: format}
	if err != nil {
		return nil, stats, err
	}

	items = l.filter(items)
	stats.Kept = len(items)
	stats.Dropped = stats.Read - stats.Kept
	if l.MaxItems > 0 && len(items) > l.MaxItems {
		return nil, stats, fmt.Errorf("%w: %d (limit %d)", ErrTooManyItems, len(items), l.MaxItems)
	}
	return items, stats, nil
}

func (l *Loader) filter(items []*suggest.Item) []*suggest.Item {
	if !l.Dedupe {
		return items
	}
	df := utils.NewDuplicateFilter(l.CaseSensitive)
	kept := items[:0]
	for _, item := range items {
		if df.ShouldInclude(item.Title) {
			kept = append(kept, item)
		}
	}
	log.Debugf("Dedupe kept %d unique titles", df.Seen())
	return kept
}

// readLines reads one item per line. Blank lines and lines starting with '#'
// are skipped. With tabs set the text after the first tab is the subtitle.
func readLines(r io.Reader, tabs bool) ([]*suggest.Item, error) {
	var items []*suggest.Item
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !tabs {
			items = append(items, suggest.NewItem(strings.TrimSpace(line)))
			continue
		}
		title, subtitle, _ := strings.Cut(line, "\t")
		items = append(items, suggest.NewItemWithSubtitle(strings.TrimSpace(title), strings.TrimSpace(subtitle)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}
	return items, nil
}

// readBinary reads an int32 entry count followed by entries of a uint16 byte
// length, the word, and a uint16 rank. The rank is kept as the item Object.
func readBinary(r io.Reader) ([]*suggest.Item, error) {
	reader := bufio.NewReader(r)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if totalEntries < 0 {
		return nil, fmt.Errorf("invalid word count: %d", totalEntries)
	}

	items := make([]*suggest.Item, 0, min(int(totalEntries), 1<<16))
	for len(items) < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				log.Warnf("Binary list ended after %d of %d entries", len(items), totalEntries)
				break
			}
			return nil, fmt.Errorf("failed to read word length: %w", err)
		}
		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return nil, fmt.Errorf("failed to read word: %w", err)
		}
		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return nil, fmt.Errorf("failed to read rank: %w", err)
		}
		items = append(items, &suggest.Item{Title: string(wordBytes), Object: int(rank)})
	}
	return items, nil
}

// WriteBinary writes titles in the layout readBinary expects, ranked by position.
func WriteBinary(w io.Writer, titles []string) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(titles))); err != nil {
		return err
	}
	for i, title := range titles {
		if len(title) > 0xFFFF {
			return fmt.Errorf("title %d is too long (%d bytes)", i, len(title))
		}
		rank := uint16(min(i+1, 0xFFFF))
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(title))); err != nil {
			return err
		}
		if _, err := bw.WriteString(title); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, rank); err != nil {
			return err
		}
	}
	return bw.Flush()
}

type tomlItems struct {
	Items []tomlItem `toml:"item"`
}

type tomlItem struct {
	Title         string `toml:"title"`
	Subtitle      string `toml:"subtitle"`
	TitleRange    []int  `toml:"title_range"`
	SubtitleRange []int  `toml:"subtitle_range"`
	Value         string `toml:"value"`
}

// readTOML reads [[item]] tables. Ranges are [offset, length] pairs in runes.
func readTOML(r io.Reader) ([]*suggest.Item, error) {
	var doc tomlItems
	meta, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode item list: %w", err)
	}
	for _, key := range meta.Undecoded() {
		log.Debugf("Ignoring unknown key %q in item list", key.String())
	}

	items := make([]*suggest.Item, 0, len(doc.Items))
	for i, ti := range doc.Items {
		titleRange, err := parseRange(ti.TitleRange)
		if err != nil {
			return nil, fmt.Errorf("item %d title_range: %w", i, err)
		}
		subtitleRange, err := parseRange(ti.SubtitleRange)
		if err != nil {
			return nil, fmt.Errorf("item %d subtitle_range: %w", i, err)
		}
		var object any
		if ti.Value != "" {
			object = ti.Value
		}
		items = append(items, suggest.NewRangedItem(ti.Title, ti.Subtitle, titleRange, subtitleRange, object))
	}
	return items, nil
}

func parseRange(pair []int) (*suggest.Range, error) {
	switch len(pair) {
	case 0:
		return nil, nil
	case 2:
		return &suggest.Range{Offset: pair[0], Length: pair[1]}, nil
	}
	return nil, fmt.Errorf("expected [offset, length], got %v", pair)
}

// LoadChunks loads dict_*.bin chunk files from dir in chunk order. Loading
// stops once MaxItems candidates are collected instead of failing.
func (l *Loader) LoadChunks(dir string) ([]*suggest.Item, error) {
	files, err := filepath.Glob(filepath.Join(dir, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no chunk files found in %s", dir)
	}
	sort.Strings(files)

	raw := &Loader{}
	var items []*suggest.Item
	loaded := 0
	for _, file := range files {
		if l.MaxItems > 0 && len(items) >= l.MaxItems {
			break
		}
		chunk, _, err := raw.Load(file, FormatBinary)
		if err != nil {
			log.Warnf("Skipping chunk %s: %v", file, err)
			continue
		}
		items = append(items, chunk...)
		loaded++
	}
	items = l.filter(items)
	if l.MaxItems > 0 && len(items) > l.MaxItems {
		items = items[:l.MaxItems]
	}
	log.Debugf("Loaded %d candidates from %d of %d chunk files in %s", len(items), loaded, len(files), dir)
	return items, nil
}
