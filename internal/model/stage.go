package model

import (
	"math"
	"strconv"
)

// HeadExt is the extension carried by the active log file.
const HeadExt = "log"

// Stage is a position in a rotation chain. Head is the active log; numbered
// stages count up from 0 as files age.
type Stage struct {
	Head  bool
	Index int
}

// HeadStage returns the stage of the active log file.
func HeadStage() Stage { return Stage{Head: true} }

// NumberedStage returns the stage for backup number i.
func NumberedStage(i int) Stage { return Stage{Index: i} }

// Ext returns the file extension (without dot) that encodes the stage.
func (s Stage) Ext() string {
	if s.Head {
		return HeadExt
	}
	return strconv.Itoa(s.Index)
}

// Rank orders stages by age: head is 0, backup i is i+1. Ranks saturate
// below math.MaxInt, which is left for names that are not stages at all.
func (s Stage) Rank() int {
	if s.Head {
		return 0
	}
	if s.Index >= math.MaxInt-2 {
		return math.MaxInt - 1
	}
	return s.Index + 1
}

// Next returns the stage a file moves to on rotation.
func (s Stage) Next() Stage {
	if s.Head {
		return NumberedStage(0)
	}
	return NumberedStage(s.Index + 1)
}

func (s Stage) String() string { return s.Ext() }

// ParseStage maps a file extension to its stage. Numbered stages must be
// written in canonical decimal form ("7", not "07").
func ParseStage(ext string) (Stage, bool) {
	if ext == HeadExt {
		return HeadStage(), true
	}
	n, err := strconv.Atoi(ext)
	if err != nil || n < 0 || strconv.Itoa(n) != ext {
		return Stage{}, false
	}
	return NumberedStage(n), true
}
