// Package source implements the shared position model (§4.2): byte offset,
// 1-indexed line/column, and file identity, with grapheme-safe column
// advance so multi-unit code points (including emoji and ZWJ sequences)
// advance the column by exactly one.
package source

import "fmt"

// Pos is an immutable source location. Two Pos values are equal iff every
// field matches; once created a Pos is never mutated.
type Pos struct {
	File   string
	Line   int // 1-indexed
	Col    int // 1-indexed, counted in Unicode scalar values
	Offset int // 0-indexed, counted in code units (bytes)
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Span is a half-open range [Start, End) of source positions.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.Start, s.End.Line, s.End.Col)
}

// Cursor tracks the running (line, column, offset) triple while a scanner
// consumes a source file one Unicode scalar value at a time. It implements
// the §4.2 advance rule:
//
//   - '\n' increments the line and resets the column to 1.
//   - '\r' is consumed but never emits a token, never bumps the line, and
//     does not itself advance the column (it is treated as a no-op besides
//     consuming its code units).
//   - any other scalar value advances the column by exactly one, regardless
//     of how many UTF-8 code units it occupies.
type Cursor struct {
	File   string
	Line   int
	Col    int
	Offset int
}

// NewCursor creates a cursor positioned at the start of file.
func NewCursor(file string) *Cursor {
	return &Cursor{File: file, Line: 1, Col: 1, Offset: 0}
}

// Pos snapshots the cursor's current position.
func (c *Cursor) Pos() Pos {
	return Pos{File: c.File, Line: c.Line, Col: c.Col, Offset: c.Offset}
}

// Advance moves the cursor past one decoded scalar value r, which occupied
// width code units in the underlying byte stream.
func (c *Cursor) Advance(r rune, width int) {
	switch r {
	case '\n':
		c.Line++
		c.Col = 1
	case '\r':
		// consumed silently: no line bump, no column advance
	default:
		c.Col++
	}
	c.Offset += width
}
