package types

import (
	"time"

	"github.com/austcse/carnival-backend/pkg/valueobjects"
)

// SegmentType is how a segment is delivered.
type SegmentType string

const (
	SegmentTypeOnline SegmentType = "Online"
	SegmentTypeOnsite SegmentType = "Onsite"
)

// IsValid checks if the segment type is one of the known values
func (t SegmentType) IsValid() bool {
	switch t {
	case SegmentTypeOnline, SegmentTypeOnsite:
		return true
	}
	return false
}

// SegmentGroup is the section of the schedule a segment is listed under.
type SegmentGroup string

const (
	SegmentGroupWorkshop SegmentGroup = "workshop"
	SegmentGroupPrelim   SegmentGroup = "prelim"
	SegmentGroupMain     SegmentGroup = "main"
)

func (g SegmentGroup) IsValid() bool {
	switch g {
	case SegmentGroupWorkshop, SegmentGroupPrelim, SegmentGroupMain:
		return true
	}
	return false
}

// Registration holds the registration details shown on a segment page.
type Registration struct {
	Deadline string            `json:"deadline" yaml:"deadline"`
	Fee      string            `json:"fee" yaml:"fee"`
	TeamSize string            `json:"teamSize" yaml:"teamSize"`
	FeeInfo  *valueobjects.Fee `json:"feeDetails,omitempty" yaml:"-"`
}

// Schedule is the structured form of a segment's date. End is nil for
// single-day segments.
type Schedule struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// EventSegment is one scheduled festival activity.
type EventSegment struct {
	ID           string       `json:"id" yaml:"id"`
	Title        string       `json:"title" yaml:"title"`
	Type         SegmentType  `json:"type" yaml:"type"`
	Category     string       `json:"category" yaml:"category"`
	Date         string       `json:"date" yaml:"date"`
	Time         string       `json:"time" yaml:"time"`
	Description  string       `json:"description" yaml:"description"`
	Image        string       `json:"image" yaml:"image"`
	Registration Registration `json:"registration" yaml:"registration"`
	Group        SegmentGroup `json:"group" yaml:"-"`
	Schedule     *Schedule    `json:"schedule,omitempty" yaml:"-"`
}

// SegmentFilter narrows a segment listing. Empty fields match everything.
type SegmentFilter struct {
	Category string       `form:"category"`
	Type     SegmentType  `form:"type"`
	Group    SegmentGroup `form:"group"`
}
