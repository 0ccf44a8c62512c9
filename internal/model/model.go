package model

import "time"

// Color is an enumerated palette tag attached to an event. The engine never
// interprets it; the rendering layer resolves tags to concrete styles
// through its own lookup table.
type Color string

const (
	ColorBlue    Color = "blue"
	ColorEmerald Color = "emerald"
	ColorAmber   Color = "amber"
	ColorRose    Color = "rose"
	ColorViolet  Color = "violet"
	ColorCyan    Color = "cyan"
	ColorOrange  Color = "orange"
	ColorPink    Color = "pink"
	ColorTeal    Color = "teal"
	ColorIndigo  Color = "indigo"
)

// DefaultColor is used whenever an event arrives without a palette tag.
const DefaultColor = ColorBlue

var palette = []Color{
	ColorBlue,
	ColorEmerald,
	ColorAmber,
	ColorRose,
	ColorViolet,
	ColorCyan,
	ColorOrange,
	ColorPink,
	ColorTeal,
	ColorIndigo,
}

// PaletteColor deterministically picks a palette tag for a seed value.
// Negative seeds are folded into the palette range.
func PaletteColor(seed int) Color {
	n := seed % len(palette)
	if n < 0 {
		n += len(palette)
	}
	return palette[n]
}

// Valid reports whether c is one of the known palette tags.
func (c Color) Valid() bool {
	for _, p := range palette {
		if c == p {
			return true
		}
	}
	return false
}

// OrDefault resolves an empty or unknown tag to DefaultColor.
func (c Color) OrDefault() Color {
	if c.Valid() {
		return c
	}
	return DefaultColor
}

// ViewMode selects which grid shape the engine produces.
type ViewMode string

const (
	ViewMonth ViewMode = "Month"
	ViewWeek  ViewMode = "Week"
	ViewDay   ViewMode = "Day"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	switch m {
	case ViewMonth, ViewWeek, ViewDay:
		return true
	}
	return false
}

// Event is a single calendar item as supplied by the caller. The engine
// holds no event store; callers pass the full list on every computation
// and the engine only reads and re-buckets it.
//
// AllDay is authoritative and never inferred: the zero value means a timed
// event. End >= Start is expected but not enforced; degenerate ranges are
// handled downstream (zero-height layout), never rejected.
type Event struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	AllDay bool  `json:"allDay"`
	Color  Color `json:"color"`

	// Display-only, opaque to the engine.
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}
