// Package segment holds the festival's read-only segment catalog and the
// lookups the website pages run against it.
package segment

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"time"

	apperrors "github.com/austcse/carnival-backend/errors"
	"github.com/austcse/carnival-backend/logger"
	"github.com/austcse/carnival-backend/pkg/valueobjects"
	"github.com/austcse/carnival-backend/types"
	"gopkg.in/yaml.v3"
)

//go:embed segments.yaml
var defaultSeed []byte

type seedFile struct {
	Workshops    []types.EventSegment `yaml:"workshops"`
	Prelims      []types.EventSegment `yaml:"prelims"`
	MainSegments []types.EventSegment `yaml:"mainSegments"`
}

// Catalog is an immutable, ordered collection of event segments. It is safe
// for concurrent use because nothing mutates it after construction.
type Catalog struct {
	segments []types.EventSegment
	index    map[string]int
	location *time.Location
	invalid  []string
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLocation sets the time zone used to interpret segment dates and
// "today". Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(c *Catalog) {
		if loc != nil {
			c.location = loc
		}
	}
}

// LoadDefault builds the catalog from the embedded seed file.
func LoadDefault(opts ...Option) (*Catalog, error) {
	return Load(bytes.NewReader(defaultSeed), opts...)
}

// Load builds a catalog from a YAML seed with workshops, prelims and
// mainSegments lists, preserving that order.
func Load(r io.Reader, opts ...Option) (*Catalog, error) {
	var seed seedFile
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode segment seed: %w", err)
	}

	all := make([]types.EventSegment, 0, len(seed.Workshops)+len(seed.Prelims)+len(seed.MainSegments))
	for _, group := range []struct {
		name     types.SegmentGroup
		segments []types.EventSegment
	}{
		{types.SegmentGroupWorkshop, seed.Workshops},
		{types.SegmentGroupPrelim, seed.Prelims},
		{types.SegmentGroupMain, seed.MainSegments},
	} {
		for _, s := range group.segments {
			s.Group = group.name
			all = append(all, s)
		}
	}

	return New(all, opts...)
}

// New builds a catalog from segments in display order. Duplicate ids and
// unknown types are rejected. Unparseable dates or fees are logged and kept;
// such segments are simply never "upcoming".
func New(segments []types.EventSegment, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		segments: make([]types.EventSegment, 0, len(segments)),
		index:    make(map[string]int, len(segments)),
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(c)
	}

	log := logger.GetLogger()
	for _, s := range segments {
		if s.ID == "" {
			return nil, apperrors.ValidationFailed("invalid segment", fmt.Sprintf("segment %q has no id", s.Title))
		}
		if _, dup := c.index[s.ID]; dup {
			return nil, apperrors.ValidationFailed("duplicate segment id", s.ID)
		}
		if !s.Type.IsValid() {
			return nil, apperrors.ValidationFailed("invalid segment type", fmt.Sprintf("%s: %q", s.ID, s.Type))
		}

		schedule, err := ParseSchedule(s.Date, c.location)
		if err != nil {
			log.Warnw("Segment date could not be parsed", "segment_id", s.ID, "date", s.Date, "error", err)
			c.invalid = append(c.invalid, s.ID)
			s.Schedule = nil
		} else {
			s.Schedule = schedule
		}

		fee, err := valueobjects.ParseFee(s.Registration.Fee)
		if err != nil {
			log.Warnw("Segment fee could not be parsed", "segment_id", s.ID, "fee", s.Registration.Fee, "error", err)
			s.Registration.FeeInfo = nil
		} else {
			s.Registration.FeeInfo = fee
		}

		c.index[s.ID] = len(c.segments)
		c.segments = append(c.segments, s)
	}

	return c, nil
}

// Len returns the number of segments.
func (c *Catalog) Len() int {
	return len(c.segments)
}

// All returns every segment in catalog order.
func (c *Catalog) All() []types.EventSegment {
	return c.filter(func(types.EventSegment) bool { return true })
}

// ByID returns the segment with the given id; ok is false when none exists.
func (c *Catalog) ByID(id string) (types.EventSegment, bool) {
	i, ok := c.index[id]
	if !ok {
		return types.EventSegment{}, false
	}
	return clone(c.segments[i]), true
}

// ByCategory returns segments whose category equals category exactly.
func (c *Catalog) ByCategory(category string) []types.EventSegment {
	return c.filter(func(s types.EventSegment) bool { return s.Category == category })
}

// ByType returns segments with the given delivery type.
func (c *Catalog) ByType(t types.SegmentType) []types.EventSegment {
	return c.filter(func(s types.EventSegment) bool { return s.Type == t })
}

// ByGroup returns the workshops, prelims or main segments.
func (c *Catalog) ByGroup(g types.SegmentGroup) []types.EventSegment {
	return c.filter(func(s types.EventSegment) bool { return s.Group == g })
}

// Find applies every non-empty field of f.
func (c *Catalog) Find(f types.SegmentFilter) []types.EventSegment {
	return c.filter(func(s types.EventSegment) bool {
		return (f.Category == "" || s.Category == f.Category) &&
			(f.Type == "" || s.Type == f.Type) &&
			(f.Group == "" || s.Group == f.Group)
	})
}

// Upcoming returns segments starting today or later relative to now, earliest
// first. Segments on the same day keep catalog order. Segments without a
// parseable date are excluded.
func (c *Catalog) Upcoming(now time.Time) []types.EventSegment {
	today := startOfDay(now, c.location)
	upcoming := c.filter(func(s types.EventSegment) bool {
		return s.Schedule != nil && !s.Schedule.Start.Before(today)
	})
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Schedule.Start.Before(upcoming[j].Schedule.Start)
	})
	return upcoming
}

// Related returns the other segments in the same category as id. ok is false
// when id is unknown.
func (c *Catalog) Related(id string) ([]types.EventSegment, bool) {
	seg, ok := c.ByID(id)
	if !ok {
		return nil, false
	}
	return c.filter(func(s types.EventSegment) bool {
		return s.ID != id && s.Category == seg.Category
	}), true
}

// Categories lists distinct categories in order of first appearance.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range c.segments {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

// Unscheduled returns ids whose date could not be parsed at load time.
func (c *Catalog) Unscheduled() []string {
	return append([]string(nil), c.invalid...)
}

func (c *Catalog) filter(keep func(types.EventSegment) bool) []types.EventSegment {
	out := make([]types.EventSegment, 0)
	for _, s := range c.segments {
		if keep(s) {
			out = append(out, clone(s))
		}
	}
	return out
}

// clone copies the schedule so callers cannot reach catalog state through
// the returned value.
func clone(s types.EventSegment) types.EventSegment {
	if s.Schedule != nil {
		sched := *s.Schedule
		if sched.End != nil {
			end := *sched.End
			sched.End = &end
		}
		s.Schedule = &sched
	}
	return s
}
