// Package keywords holds the official keyword ability list. The list is the
// closed set of ability names allowed in a FilterSpec's keywords field;
// anything outside it is slang and must be expressed as effect-group text
// fragments instead. The list is loaded once at startup and read-only
// thereafter, so it can be shared across concurrent searches.
package keywords

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// List is an immutable set of official keyword abilities, preserving the
// order they were declared in.
type List struct {
	ordered []string
	set     map[string]struct{}
}

// NewList builds a List from keyword names, dropping blanks and duplicates.
func NewList(names []string) *List {
	l := &List{set: make(map[string]struct{}, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := l.set[name]; ok {
			continue
		}
		l.set[name] = struct{}{}
		l.ordered = append(l.ordered, name)
	}
	return l
}

// Load reads a keyword list from a file with one keyword per line.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyword list: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		names = append(names, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keyword list: %w", err)
	}
	return NewList(names), nil
}

// Contains reports whether name is an official keyword.
func (l *List) Contains(name string) bool {
	_, ok := l.set[name]
	return ok
}

// All returns the keywords in declaration order. Callers must not modify
// the returned slice.
func (l *List) All() []string {
	return l.ordered
}

// Len returns the number of keywords in the list.
func (l *List) Len() int {
	return len(l.ordered)
}

// Chunk splits the list into groups of at most size keywords, used to keep
// the extraction prompt readable.
func (l *List) Chunk(size int) [][]string {
	if size <= 0 || len(l.ordered) == 0 {
		return nil
	}
	var chunks [][]string
	for i := 0; i < len(l.ordered); i += size {
		end := i + size
		if end > len(l.ordered) {
			end = len(l.ordered)
		}
		chunks = append(chunks, l.ordered[i:end])
	}
	return chunks
}
