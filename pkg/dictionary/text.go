package dictionary

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultTextFrequency is used for text entries without a frequency column.
const DefaultTextFrequency = 100

// ReadText decodes "word [frequency]" lines into sink. Blank lines and lines
// starting with '#' are skipped; lines with a malformed frequency are logged
// and skipped. Decoding stops after limit words when limit > 0.
func ReadText(r io.Reader, sink Sink, limit int) (int, error) {
	scanner := bufio.NewScanner(r)
	count := 0
	lineNo := 0
	for scanner.Scan() {
		if limit > 0 && count >= limit {
			break
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		freq := DefaultTextFrequency
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				log.Warnf("Skipping line %d: invalid frequency %q", lineNo, fields[1])
				continue
			}
			freq = n
		}

		sink.AddWord(fields[0], freq)
		count++
	}
	return count, scanner.Err()
}
