package ast

import "strings"

// Kind identifies the log node type a segment selects.
type Kind string

const (
	KindProject Kind = "project"
	KindTarget  Kind = "target"
	KindTask    Kind = "task"
	KindMessage Kind = "message"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Kinds lists every keyword of the query language in rank order.
var Kinds = []Kind{KindProject, KindTarget, KindTask, KindMessage, KindWarning, KindError}

// KindFromKeyword resolves a keyword case-insensitively.
// The second result is false if the keyword is not part of the language.
func KindFromKeyword(keyword string) (Kind, bool) {
	switch kind := Kind(strings.ToLower(keyword)); kind {
	case KindProject, KindTarget, KindTask, KindMessage, KindWarning, KindError:
		return kind, true
	default:
		return "", false
	}
}

// Rank returns the nesting rank of the kind.
func (k Kind) Rank() Rank {
	switch k {
	case KindProject:
		return RankProject
	case KindTarget:
		return RankTarget
	case KindTask:
		return RankTask
	case KindMessage, KindWarning, KindError:
		return RankLeaf
	default:
		return RankNone
	}
}

// IsLeaf returns true for the terminal kinds (message, warning, error).
func (k Kind) IsLeaf() bool {
	return k.Rank() == RankLeaf
}

// IsStructural returns true for project, target and task.
func (k Kind) IsStructural() bool {
	r := k.Rank()
	return r >= RankProject && r < RankLeaf
}

// String returns the canonical (lower case) keyword.
func (k Kind) String() string {
	return string(k)
}

// Rank orders keywords so that a path always nests
// project > target > task > leaf. A child must rank strictly higher than its parent.
type Rank int

const (
	RankNone    Rank = -1 // below every keyword; initial running maximum
	RankProject Rank = 0
	RankTarget  Rank = 1
	RankTask    Rank = 2
	RankLeaf    Rank = 3
)

// Axis selects how far below the parent a leaf may match.
type Axis int

const (
	// AxisDirect matches immediate children only ("/").
	AxisDirect Axis = iota
	// AxisAll matches descendants at any depth ("//").
	AxisAll
)

// String returns "direct" or "all".
func (a Axis) String() string {
	switch a {
	case AxisDirect:
		return "direct"
	case AxisAll:
		return "all"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so trees encode readably.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
