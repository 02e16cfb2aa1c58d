package dictionary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrNoDictionary is returned by LoadDir when the directory holds no
// dictionary files.
var ErrNoDictionary = errors.New("no dictionary files found")

// ChunkInfo describes a chunk file found on disk.
type ChunkInfo struct {
	ChunkID  int
	Filename string
}

// LoaderStats summarizes a LoadDir call.
type LoaderStats struct {
	Files int
	Words int
}

// GetAvailableChunks lists dict_NNNN.bin files in dir ordered by ID.
func GetAvailableChunks(dir string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		id := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(id)
		if err != nil {
			log.Debugf("Ignoring %s: not a numbered chunk", file)
			continue
		}
		chunks = append(chunks, ChunkInfo{ChunkID: chunkID, Filename: file})
	}
	slices.SortFunc(chunks, func(a, b ChunkInfo) int { return a.ChunkID - b.ChunkID })
	return chunks, nil
}

// LoadFile loads one dictionary file of any supported format into sink.
func LoadFile(path string, sink Sink, limit int) (int, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return 0, err
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var n int
	switch format {
	case FormatChunk:
		n, err = ReadChunk(file, sink, limit)
	case FormatText:
		n, err = ReadText(file, sink, limit)
	}
	if err != nil {
		return n, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Loaded %d words from %s", n, path)
	return n, nil
}

// LoadDir loads the chunk files of dir in ID order, then its .txt files in
// name order, stopping once maxWords words were added (0 loads everything).
// Broken files are logged and skipped.
func LoadDir(dir string, maxWords int, sink Sink) (LoaderStats, error) {
	var stats LoaderStats

	chunks, err := GetAvailableChunks(dir)
	if err != nil {
		return stats, err
	}
	texts, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return stats, fmt.Errorf("failed to scan for text files: %w", err)
	}
	slices.Sort(texts)

	files := make([]string, 0, len(chunks)+len(texts))
	for _, c := range chunks {
		files = append(files, c.Filename)
	}
	files = append(files, texts...)
	if len(files) == 0 {
		return stats, fmt.Errorf("%w in %s", ErrNoDictionary, dir)
	}

	for _, file := range files {
		remaining := 0
		if maxWords > 0 {
			remaining = maxWords - stats.Words
			if remaining <= 0 {
				break
			}
		}
		n, err := LoadFile(file, sink, remaining)
		stats.Words += n
		if err != nil {
			log.Warnf("Skipping dictionary file: %v", err)
			continue
		}
		stats.Files++
	}

	log.Debugf("Loaded %d words from %d files in %s", stats.Words, stats.Files, dir)
	return stats, nil
}
