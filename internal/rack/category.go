package rack

import (
	"fmt"
)

// Category identifies one of the three rack kinds a preset can describe.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryAudioEffect
	CategoryInstrument
	CategoryMidiEffect
)

// Categories lists the known rack categories in detection order.
var Categories = []Category{CategoryAudioEffect, CategoryInstrument, CategoryMidiEffect}

type categoryInfo struct {
	tag       string
	branchTag string
	label     string
}

var categoryTable = map[Category]categoryInfo{
	CategoryAudioEffect: {tag: "AudioEffectGroupDevice", branchTag: "AudioEffectBranchPreset", label: "Audio Effect Rack"},
	CategoryInstrument:  {tag: "InstrumentGroupDevice", branchTag: "InstrumentBranchPreset", label: "Instrument Rack"},
	CategoryMidiEffect:  {tag: "MidiEffectGroupDevice", branchTag: "MidiEffectBranchPreset", label: "MIDI Effect Rack"},
}

// CategoryForTag maps a device tag to its rack category. The second return
// value is false for every tag that is not one of the three container kinds.
func CategoryForTag(tag string) (Category, bool) {
	for _, c := range Categories {
		if categoryTable[c].tag == tag {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// Tag returns the schema tag of the rack device, or "" for CategoryUnknown.
func (c Category) Tag() string {
	return categoryTable[c].tag
}

// BranchTag returns the tag used by branch presets of this category.
func (c Category) BranchTag() string {
	return categoryTable[c].branchTag
}

// Label returns a human-readable category name.
func (c Category) Label() string {
	if info, ok := categoryTable[c]; ok {
		return info.label
	}
	return "Unknown"
}

// Known reports whether c is one of the container categories.
func (c Category) Known() bool {
	_, ok := categoryTable[c]
	return ok
}

func (c Category) String() string {
	if tag := c.Tag(); tag != "" {
		return tag
	}
	return "unknown"
}

// MarshalText encodes the category as its schema tag ("unknown" when unset).
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts a schema tag or "unknown".
func (c *Category) UnmarshalText(text []byte) error {
	value := string(text)
	if value == "" || value == "unknown" {
		*c = CategoryUnknown
		return nil
	}
	parsed, ok := CategoryForTag(value)
	if !ok {
		return fmt.Errorf("unknown rack category %q", value)
	}
	*c = parsed
	return nil
}
