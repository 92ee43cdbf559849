package app

import (
	"slices"
	"strings"
	"sync"

	"github.com/rivo/uniseg"
)

// State is the text sink: the text typed so far and the display size.
// Editing always happens at the end of the text.
type State struct {
	mu     sync.Mutex
	lines  []string
	width  int
	height int
	typed  int
}

// NewState returns an empty text sink.
func NewState() *State {
	return &State{lines: []string{""}}
}

// CharTyped appends one typed character.
func (s *State) CharTyped(ch string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines[len(s.lines)-1] += ch
	s.typed++
}

// Newline starts a new line.
func (s *State) Newline() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = append(s.lines, "")
}

// Backspace removes the last user-perceived character, joining lines when
// the last line is empty.
func (s *State) Backspace() {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := len(s.lines) - 1
	line := s.lines[last]
	if line == "" {
		if last > 0 {
			s.lines = s.lines[:last]
		}
		return
	}

	start := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		start, _ = g.Positions()
	}
	s.lines[last] = line[:start]
}

// Insert appends text that may span several lines.
func (s *State) Insert(text string) {
	if text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.Split(text, "\n")
	s.lines[len(s.lines)-1] += parts[0]
	s.lines = append(s.lines, parts[1:]...)
}

// Resize records the display size.
func (s *State) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.width = width
	s.height = height
}

// Size returns the last recorded display size.
func (s *State) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Lines returns a copy of the text split into lines.
func (s *State) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

// Text returns the whole text.
func (s *State) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.lines, "\n")
}

// Typed returns how many characters CharTyped received.
func (s *State) Typed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typed
}

// Cursor returns the one-based line and the display column after the last
// character.
func (s *State) Cursor() (line, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines), uniseg.StringWidth(s.lines[len(s.lines)-1]) + 1
}
