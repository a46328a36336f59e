package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category tags a POI. CategoryAll is only ever a filter value.
type Category string

const (
	CategoryAll       Category = "all"
	CategoryLandmarks Category = "landmarks"
	CategoryFood      Category = "food"
	CategoryArt       Category = "art"
	CategoryHistory   Category = "history"
	CategoryCulture   Category = "culture"
)

// FilterOrder is the fixed order of the filter bar chips.
var FilterOrder = []Category{
	CategoryAll,
	CategoryLandmarks,
	CategoryFood,
	CategoryArt,
	CategoryHistory,
	CategoryCulture,
}

// CategoryStyle is the presentation record of a category: chip label, marker
// glyph and marker color.
type CategoryStyle struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var categoryStyles = map[Category]CategoryStyle{
	CategoryAll:       {Label: "All", Icon: "🗺️", Color: "#6366f1"},
	CategoryLandmarks: {Label: "Landmarks", Icon: "🏛️", Color: "#ef4444"},
	CategoryFood:      {Label: "Food", Icon: "🍽️", Color: "#f59e0b"},
	CategoryArt:       {Label: "Art", Icon: "🎨", Color: "#8b5cf6"},
	CategoryHistory:   {Label: "History", Icon: "📜", Color: "#10b981"},
	CategoryCulture:   {Label: "Culture", Icon: "🎭", Color: "#ec4899"},
}

// ParseCategory normalizes a filter value coming from the outside. An empty
// value selects CategoryAll.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if c == "" {
		return CategoryAll, nil
	}
	if !c.IsKnown() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return c, nil
}

// IsKnown reports whether c belongs to the closed enumeration, "all" included.
func (c Category) IsKnown() bool {
	_, ok := categoryStyles[c]
	return ok
}

// Style returns the style of c. Unrecognized categories get the icon and color
// of CategoryAll and a label derived from the raw value.
func (c Category) Style() CategoryStyle {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	fallback := categoryStyles[CategoryAll]
	if c != "" {
		fallback.Label = cases.Title(language.English).String(string(c))
	}
	return fallback
}

func (c Category) Label() string { return c.Style().Label }

func (c Category) String() string { return string(c) }
