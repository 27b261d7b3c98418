package syntax

import "fmt"

// Pos represents a position in a script.
// The zero value is an invalid position.
type Pos struct {
	filename string // script file name, may be empty
	line     uint32 // 1-based line number
	col      uint32 // 1-based column number
}

// NoPos is the zero position, used for values that do not come from source.
var NoPos Pos

// NewPos creates a new Pos with the given filename, line, and column.
func NewPos(filename string, line, col uint32) Pos {
	return Pos{filename: filename, line: line, col: col}
}

// String formats the position as "file:line:col", or "line:col" when the
// script has no file name.
func (p Pos) String() string {
	if p.filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.filename, p.line, p.col)
	}
	return fmt.Sprintf("%d:%d", p.line, p.col)
}

// IsValid reports whether the position is valid (line > 0).
func (p Pos) IsValid() bool {
	return p.line > 0
}

// Line returns the 1-based line number.
func (p Pos) Line() uint32 {
	return p.line
}

// Col returns the 1-based column number.
func (p Pos) Col() uint32 {
	return p.col
}

// Filename returns the script file name.
func (p Pos) Filename() string {
	return p.filename
}
