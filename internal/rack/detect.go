package rack

import (
	"github.com/beevik/etree"
)

const (
	tagGroupDevicePreset = "GroupDevicePreset"
	tagDevice            = "Device"
	tagBranchPresets     = "BranchPresets"
)

// detectionStrategy looks for the main rack device in a document tree.
type detectionStrategy struct {
	name   string
	search func(root *etree.Element) (Category, *etree.Element)
}

// detectionStrategies are tried in order; append new schema fallbacks here.
var detectionStrategies = []detectionStrategy{
	{name: "group-device-preset", search: searchGroupDevicePreset},
	{name: "any-rack-tag", search: searchAnyRackTag},
}

// DetectCategory returns the rack category of the document and the element
// of its main rack device. It returns (CategoryUnknown, nil) when no strategy
// finds a rack device.
func DetectCategory(root *etree.Element) (Category, *etree.Element) {
	category, device, _ := detect(root)
	return category, device
}

func detect(root *etree.Element) (Category, *etree.Element, string) {
	if root == nil {
		return CategoryUnknown, nil, ""
	}
	for _, strategy := range detectionStrategies {
		if category, device := strategy.search(root); device != nil {
			return category, device, strategy.name
		}
	}
	return CategoryUnknown, nil, ""
}

// searchGroupDevicePreset follows the documented layout:
// GroupDevicePreset > Device > <rack tag>.
func searchGroupDevicePreset(root *etree.Element) (Category, *etree.Element) {
	preset := findFirst(root, func(e *etree.Element) bool { return e.Tag == tagGroupDevicePreset })
	if preset == nil {
		return CategoryUnknown, nil
	}
	container := preset.SelectElement(tagDevice)
	if container == nil {
		return CategoryUnknown, nil
	}
	for _, child := range container.ChildElements() {
		if category, ok := CategoryForTag(child.Tag); ok {
			return category, child
		}
	}
	return CategoryUnknown, nil
}

// searchAnyRackTag scans the whole tree for each rack tag in category order.
func searchAnyRackTag(root *etree.Element) (Category, *etree.Element) {
	for _, category := range Categories {
		tag := category.Tag()
		if found := findFirst(root, func(e *etree.Element) bool { return e.Tag == tag }); found != nil {
			return category, found
		}
	}
	return CategoryUnknown, nil
}

// findFirst returns the first element in depth-first pre-order (root
// included) that satisfies match.
func findFirst(root *etree.Element, match func(*etree.Element) bool) *etree.Element {
	if root == nil {
		return nil
	}
	stack := []*etree.Element{root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if match(current) {
			return current
		}
		children := current.ChildElements()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nil
}
