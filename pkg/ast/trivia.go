package ast

import "cguide/pkg/span"

// CommentKind distinguishes // comments from /* */ comments.
type CommentKind int

const (
	LineComment CommentKind = iota
	BlockComment
)

// Comment is a single source comment with its raw text (delimiters
// included) and location.
type Comment struct {
	Kind CommentKind `json:"kind" yaml:"kind"`
	Text string      `json:"text" yaml:"text"`
	Span span.Span   `json:"span" yaml:"span"`
}

// IsBlock reports whether the comment is a /* */ comment.
func (c Comment) IsBlock() bool {
	return c.Kind == BlockComment
}

// Trivia carries the comments attached to an item. Comments seen
// before an item become its leading trivia.
type Trivia struct {
	Leading  []Comment `json:"leading,omitempty" yaml:"leading,omitempty"`
	Trailing []Comment `json:"trailing,omitempty" yaml:"trailing,omitempty"`
}

// IsEmpty reports whether no comments are attached.
func (t Trivia) IsEmpty() bool {
	return len(t.Leading) == 0 && len(t.Trailing) == 0
}
