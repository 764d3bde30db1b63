// Package register provides the text registers used by operators and paste.
//
// Registers follow Vim naming: the unnamed register ("), the yank register
// (0), the rotating delete history (1-9), named registers (a-z, with A-Z
// appending), the black hole (_) and the clipboard registers (+ and *),
// which delegate to a ClipboardProvider when one is set.
package register

import (
	"sync"
	"unicode"
)

// Well-known register names.
const (
	Unnamed   = '"'
	Yank      = '0'
	BlackHole = '_'
	Clipboard = '+'
	Selection = '*'
)

// Type categorizes registers by their behavior.
type Type uint8

const (
	// TypeNamed is a named register (a-z, A-Z).
	TypeNamed Type = iota

	// TypeNumbered is a delete history register (1-9).
	TypeNumbered

	// TypeUnnamed is the default register (").
	TypeUnnamed

	// TypeYank is the last yank register (0).
	TypeYank

	// TypeBlackHole is the black hole register (_).
	TypeBlackHole

	// TypeClipboard is a system clipboard register (+ or *).
	TypeClipboard

	// TypeInvalid is returned for names that are not registers.
	TypeInvalid
)

// Register is a snapshot of a register's content.
type Register struct {
	// Name is the register character.
	Name rune

	// Content holds the register's text.
	Content string

	// Linewise indicates the content is line-oriented.
	Linewise bool
}

// ClipboardProvider abstracts system clipboard access.
type ClipboardProvider interface {
	// Get returns the current clipboard content.
	Get() (string, error)

	// Set sets the clipboard content.
	Set(content string) error
}

// Store manages all registers. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	registers map[rune]*Register

	// numbered holds 1-9, newest first.
	numbered [9]*Register

	clipboard ClipboardProvider
}

// NewStore creates a register store with all registers empty.
func NewStore() *Store {
	s := &Store{
		registers: make(map[rune]*Register),
	}

	s.registers[Unnamed] = &Register{Name: Unnamed}
	s.registers[Yank] = &Register{Name: Yank}
	for r := 'a'; r <= 'z'; r++ {
		s.registers[r] = &Register{Name: r}
	}
	for i := 1; i <= 9; i++ {
		r := rune('0' + i)
		s.registers[r] = &Register{Name: r}
		s.numbered[i-1] = s.registers[r]
	}
	s.registers[Clipboard] = &Register{Name: Clipboard}
	s.registers[Selection] = &Register{Name: Selection}
	return s
}

// SetClipboard sets the provider backing the + and * registers.
func (s *Store) SetClipboard(cp ClipboardProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipboard = cp
}

func (s *Store) provider() ClipboardProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clipboard
}

// Get returns the content of a register.
// Unknown registers and the black hole read as empty.
func (s *Store) Get(name rune) Register {
	name = unicode.ToLower(name)

	if TypeOf(name) == TypeClipboard {
		if cp := s.provider(); cp != nil {
			content, err := cp.Get()
			if err == nil {
				return Register{Name: name, Content: content}
			}
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.registers[name]
	if !ok {
		return Register{Name: name}
	}
	return *reg
}

// Set stores content in a register. Uppercase named registers append.
// Clipboard registers write through to the provider and report its error.
func (s *Store) Set(name rune, content string, linewise bool) error {
	switch TypeOf(name) {
	case TypeBlackHole, TypeInvalid:
		return nil
	case TypeClipboard:
		if cp := s.provider(); cp != nil {
			if err := cp.Set(content); err != nil {
				return err
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	appendMode := unicode.IsUpper(name)
	reg := s.registers[unicode.ToLower(name)]

	if appendMode && reg.Content != "" {
		if reg.Linewise {
			reg.Content += "\n" + content
		} else {
			reg.Content += content
		}
		return nil
	}
	reg.Content = content
	reg.Linewise = linewise
	return nil
}

// SetYank stores yanked text in register 0 and the unnamed register.
func (s *Store) SetYank(content string, linewise bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store(Yank, content, linewise)
	s.store(Unnamed, content, linewise)
}

// SetDelete stores deleted text in register 1, shifting 1-8 into 2-9,
// and in the unnamed register.
func (s *Store) SetDelete(content string, linewise bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.numbered) - 1; i > 0; i-- {
		s.numbered[i].Content = s.numbered[i-1].Content
		s.numbered[i].Linewise = s.numbered[i-1].Linewise
	}
	s.store('1', content, linewise)
	s.store(Unnamed, content, linewise)
}

func (s *Store) store(name rune, content string, linewise bool) {
	reg := s.registers[name]
	reg.Content = content
	reg.Linewise = linewise
}

// TypeOf returns the type of register for a given name.
func TypeOf(name rune) Type {
	switch {
	case name == Unnamed:
		return TypeUnnamed
	case name >= 'a' && name <= 'z', name >= 'A' && name <= 'Z':
		return TypeNamed
	case name == Yank:
		return TypeYank
	case name >= '1' && name <= '9':
		return TypeNumbered
	case name == BlackHole:
		return TypeBlackHole
	case name == Clipboard, name == Selection:
		return TypeClipboard
	default:
		return TypeInvalid
	}
}

// IsValid returns true if name is a register.
func IsValid(name rune) bool {
	return TypeOf(name) != TypeInvalid
}
