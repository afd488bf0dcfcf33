package opt

import (
	"fmt"
	"strings"
)

// Stats counts what the passes did.
type Stats struct {
	Removed      int // instructions erased, including loads
	LoadsRemoved int
	Replaced     int // redundant instructions whose uses moved to a leader
	Folded       int
}

func (s *Stats) Add(other Stats) {
	s.Removed += other.Removed
	s.LoadsRemoved += other.LoadsRemoved
	s.Replaced += other.Replaced
	s.Folded += other.Folded
}

func (s Stats) IsZero() bool {
	return s == Stats{}
}

func (s Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%6d instructions removed\n", s.Removed)
	fmt.Fprintf(&sb, "%6d loads removed\n", s.LoadsRemoved)
	fmt.Fprintf(&sb, "%6d redundant instructions replaced\n", s.Replaced)
	fmt.Fprintf(&sb, "%6d constants folded\n", s.Folded)
	return sb.String()
}
