package wad

import (
	"fmt"

	"github.com/pkg/errors"
)

// Load failures. All of them abort the load of a level; callers match them
// with errors.Is.
var (
	ErrMalformedArchive  = errors.New("malformed archive")
	ErrLumpNotFound      = errors.New("lump not found")
	ErrMissingFrontSide  = errors.New("line has no front side")
	ErrDanglingReference = errors.New("dangling reference")
	ErrRecordIndex       = errors.New("record index out of range")
)

// ReferenceError reports a record whose index field points outside its
// target array.
type ReferenceError struct {
	Lump  string // Lump holding the referencing record
	Index int    // Record index within Lump
	Field string // Name of the offending field
	Ref   int    // The bad index value
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%v[%d].%s = %d: %v", e.Lump, e.Index, e.Field, e.Ref, ErrDanglingReference)
}

func (e *ReferenceError) Unwrap() error {
	return ErrDanglingReference
}

func danglingRef(lump string, index int, field string, ref int) error {
	return &ReferenceError{Lump: lump, Index: index, Field: field, Ref: ref}
}

// SectorWarning records a subsector whose segments do not all face the same
// sector. It is a diagnostic collected on Level.Warnings, never returned as a
// load error.
type SectorWarning struct {
	SubSector int // Subsector index
	Segment   int // Index of the disagreeing segment in the SEGS lump
	Expected  int // Sector of the subsector's first segment
	Got       int // Sector of the disagreeing segment
}

func (w *SectorWarning) Error() string {
	return fmt.Sprintf("subsector %d: segment %d faces sector %d, expected sector %d",
		w.SubSector, w.Segment, w.Got, w.Expected)
}
