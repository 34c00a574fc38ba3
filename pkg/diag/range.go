package diag

// Ranger wraps the Range method.
type Ranger interface {
	// Range returns the range associated with the value.
	Range() Ranging
}

// Ranging represents a range [From, To) within a source file. Syntax nodes
// and object tree elements embed Ranging to satisfy the [Ranger] interface.
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// Len returns the number of bytes covered by the range.
func (r Ranging) Len() int { return r.To - r.From }

// PointRanging returns a zero-width Ranging at the given point.
func PointRanging(p int) Ranging {
	return Ranging{p, p}
}

// MixedRanging returns a Ranging from the start position of a to the end
// position of b.
func MixedRanging(a, b Ranger) Ranging {
	return Ranging{a.Range().From, b.Range().To}
}

// UnknownRanging is used for synthesized objects that have no source text.
var UnknownRanging = Ranging{-1, -1}

// SourceFile is a named piece of source code. Diagnostics are grouped by the
// *SourceFile they point into.
type SourceFile struct {
	Name string
	Code string
}

// Span locates a range of text inside a SourceFile. A Span with a nil File
// refers to generated code.
type Span struct {
	File *SourceFile
	Ranging
}

// SpanOf returns a Span in file covering r.
func SpanOf(file *SourceFile, r Ranger) Span {
	return Span{file, r.Range()}
}

// IsKnown reports whether the span points to actual source text.
func (s Span) IsKnown() bool { return s.File != nil && s.From >= 0 }
