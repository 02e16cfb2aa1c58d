package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Sink receives decoded words. *suggest.Completer implements it.
type Sink interface {
	AddWord(word string, frequency int)
}

// Entry is one word of a chunk file. Rank 1 is the most frequent word.
type Entry struct {
	Word string
	Rank uint16
}

// ScoreFromRank converts a chunk rank into a frequency score so that
// lower ranks sort first.
func ScoreFromRank(rank uint16) int {
	return math.MaxUint16 + 1 - int(rank)
}

// ReadChunk decodes a chunk stream into sink and returns the number of words
// added. Decoding stops after limit words when limit > 0.
//
// Layout, little endian: int32 count, then count times
// (uint16 length, length bytes of word, uint16 rank).
func ReadChunk(r io.Reader, sink Sink, limit int) (int, error) {
	reader := bufio.NewReader(r)

	var total int32
	if err := binary.Read(reader, binary.LittleEndian, &total); err != nil {
		return 0, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if total < 0 || total > maxChunkWords {
		return 0, fmt.Errorf("invalid word count %d", total)
	}

	count := 0
	for count < int(total) {
		if limit > 0 && count >= limit {
			break
		}

		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if errors.Is(err, io.EOF) {
				return count, fmt.Errorf("chunk truncated after %d of %d words", count, total)
			}
			return count, fmt.Errorf("failed to read word length: %w", err)
		}
		word := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, word); err != nil {
			return count, fmt.Errorf("failed to read word: %w", err)
		}
		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return count, fmt.Errorf("failed to read rank: %w", err)
		}

		sink.AddWord(string(word), ScoreFromRank(rank))
		count++
	}
	return count, nil
}

// WriteChunk encodes entries in the chunk layout read by ReadChunk.
func WriteChunk(w io.Writer, entries []Entry) error {
	if len(entries) > maxChunkWords {
		return fmt.Errorf("too many entries for one chunk: %d", len(entries))
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if len(e.Word) > math.MaxUint16 {
			return fmt.Errorf("word too long: %d bytes", len(e.Word))
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(e.Word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(e.Word); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, e.Rank); err != nil {
			return err
		}
	}
	return bw.Flush()
}
