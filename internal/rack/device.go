package rack

import (
	"github.com/beevik/etree"
	"golang.org/x/text/cases"
)

const (
	tagUserName = "UserName"
	tagOn       = "On"
	tagManual   = "Manual"
)

// decodeDevice turns one device element into a Device. Rack devices are
// walked recursively one level deeper than depth.
func (d *decoder) decodeDevice(elem *etree.Element, depth int, path string) (Device, error) {
	tag := elem.Tag
	resolved, _ := DeviceTypeName(tag)

	device := Device{
		TypeTag:     tag,
		DisplayName: resolved,
		IsEnabled:   true,
	}

	if custom := customName(elem); custom != "" {
		device.DisplayName = custom
		if !sameName(custom, resolved) {
			device.PresetName = resolved
		}
	}

	if on := elem.SelectElement(tagOn); on != nil {
		if manual := on.SelectElement(tagManual); manual != nil {
			device.IsEnabled = manual.SelectAttrValue("Value", "") == "true"
		}
	}

	if category, ok := CategoryForTag(tag); ok {
		nested, err := d.walkChains(siblingCollection(elem), category, depth+1, path)
		if err != nil {
			return device, err
		}
		device.NestedChains = nested
	}
	return device, nil
}

func customName(elem *etree.Element) string {
	userName := elem.SelectElement(tagUserName)
	if userName == nil {
		return ""
	}
	return userName.SelectAttrValue("Value", "")
}

// sameName compares two labels with Unicode case folding.
func sameName(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
