// Package statefile reads and writes the plain-text mode state file: one
// "name width height refresh" line per head, refresh in millihertz. No
// header, no escaping; names containing whitespace are a known limitation.
package statefile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"wlrmode/internal/model"
)

// Entry is one saved head mode, parsed from the state file. Entries live for
// a single restore invocation.
type Entry struct {
	Name    string
	Width   int32
	Height  int32
	Refresh int32
}

// Save writes one line per head that has both a name and a resolved current
// mode; heads missing either are silently skipped. A write failure is
// reported to the caller and leaves no partial protocol state behind.
func Save(path string, heads []*model.Head) error {
	var b strings.Builder
	for _, h := range heads {
		current, ok := h.CurrentMode()
		if h.Name == "" || !ok {
			continue
		}
		fmt.Fprintf(&b, "%s %d %d %d\n", h.Name, current.Width, current.Height, current.Refresh)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Load parses the state file best-effort: it stops at the first line that is
// not exactly four tokens with three valid integers and keeps everything
// parsed before it. A missing file is an empty entry set, not an error.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open state file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entry, ok := parseLine(scanner.Text())
		if !ok {
			break
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("read state file: %w", err)
	}
	return entries, nil
}

func parseLine(line string) (Entry, bool) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return Entry{}, false
	}
	width, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return Entry{}, false
	}
	height, err := strconv.ParseInt(fields[2], 10, 32)
	if err != nil {
		return Entry{}, false
	}
	refresh, err := strconv.ParseInt(fields[3], 10, 32)
	if err != nil {
		return Entry{}, false
	}
	return Entry{
		Name:    fields[0],
		Width:   int32(width),
		Height:  int32(height),
		Refresh: int32(refresh),
	}, true
}

// Find returns the first entry with the given name. Duplicate names never
// shadow earlier entries; first match wins.
func Find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
