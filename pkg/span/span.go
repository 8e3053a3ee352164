// Package span provides source positions shared by the lexer, the
// parser and every consumer that reports locations back to the user.
package span

import "fmt"

// Span is a half-open source region. Lines and columns are 0-based;
// ByteStart/ByteEnd are byte offsets into the original source and are
// always valid UTF-8 boundaries, so source[ByteStart:ByteEnd] is the
// exact text the span covers.
type Span struct {
	StartLine   int `json:"start_line" yaml:"start_line"`
	StartColumn int `json:"start_column" yaml:"start_column"`
	EndLine     int `json:"end_line" yaml:"end_line"`
	EndColumn   int `json:"end_column" yaml:"end_column"`
	ByteStart   int `json:"byte_start" yaml:"byte_start"`
	ByteEnd     int `json:"byte_end" yaml:"byte_end"`
}

// New builds a span from explicit positions.
func New(startLine, startColumn, endLine, endColumn, byteStart, byteEnd int) Span {
	return Span{
		StartLine:   startLine,
		StartColumn: startColumn,
		EndLine:     endLine,
		EndColumn:   endColumn,
		ByteStart:   byteStart,
		ByteEnd:     byteEnd,
	}
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	out := s
	if other.ByteStart < out.ByteStart {
		out.StartLine = other.StartLine
		out.StartColumn = other.StartColumn
		out.ByteStart = other.ByteStart
	}
	if other.ByteEnd > out.ByteEnd {
		out.EndLine = other.EndLine
		out.EndColumn = other.EndColumn
		out.ByteEnd = other.ByteEnd
	}
	return out
}

// Text slices the covered region out of the source the span was
// produced from.
func (s Span) Text(source string) string {
	if s.ByteStart < 0 || s.ByteEnd > len(source) || s.ByteStart > s.ByteEnd {
		return ""
	}
	return source[s.ByteStart:s.ByteEnd]
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.ByteEnd - s.ByteStart
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartColumn, s.EndLine, s.EndColumn)
}
