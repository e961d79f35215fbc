package subscription

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	reLetterRangeHeader = regexp.MustCompile(`^[A-Z]-[A-Z]$`)
	reHandleAndCount    = regexp.MustCompile(`(@[^\x{2022}]+)\x{2022}(.+)`)
)

const (
	subscribedMarker = "Subscribed"
	defaultSubCount  = "0"
)

// Extract turns a copied subscription-page export into records. Each entry is a
// name line followed by an "@handle•N subscribers" line and an optional
// description line. Anything that does not fit that shape is skipped.
func Extract(text string) []Record {
	lines := strings.Split(text, "\n")
	records := make([]Record, 0, len(lines)/3)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || reLetterRangeHeader.MatchString(line) {
			continue
		}
		if i+1 >= len(lines) || !strings.HasPrefix(strings.TrimSpace(lines[i+1]), "@") {
			continue
		}

		handle, count := splitHandleLine(strings.TrimSpace(lines[i+1]))
		description := ""
		if i+2 < len(lines) {
			next := strings.TrimSpace(lines[i+2])
			if next != "" && !strings.HasPrefix(next, "@") && next != subscribedMarker {
				description = next
				i++
			}
		}

		records = append(records, Record{
			ID:          strconv.Itoa(len(records)),
			Name:        line,
			Handle:      handle,
			SubCount:    count,
			Description: description,
			Status:      StatusPending,
			Tags:        []string{},
		})
		i++
	}
	return records
}

// ExtractReader reads the whole export before extracting.
func ExtractReader(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read subscription export: %w", err)
	}
	return Extract(string(data)), nil
}

func splitHandleLine(line string) (handle, count string) {
	m := reHandleAndCount.FindStringSubmatch(line)
	if m == nil {
		return line, defaultSubCount
	}
	handle = strings.TrimSpace(m[1])
	count = strings.TrimSpace(strings.ReplaceAll(m[2], "subscribers", ""))
	return handle, count
}
