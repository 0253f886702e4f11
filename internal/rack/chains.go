package rack

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

const (
	tagName          = "Name"
	tagIsSoloed      = "IsSoloed"
	tagDevicePresets = "DevicePresets"
)

// DefaultChainName is the name given to chains stored without one.
func DefaultChainName(index int) string {
	return fmt.Sprintf("Chain %d", index+1)
}

// walkChains decodes every branch preset of a rack. collection is the
// BranchPresets element and may be nil. The returned slice is never nil.
//
// Failures inside one chain are recorded as an Error diagnostic and the chain
// is kept with no devices. ErrDepthExceeded is the exception: below the top
// level it is returned so the whole top-level chain that led to it fails.
func (d *decoder) walkChains(collection *etree.Element, category Category, depth int, path string) ([]Chain, error) {
	if depth > d.maxDepth {
		return nil, fmt.Errorf("%w: level %d exceeds limit of %d", ErrDepthExceeded, depth, d.maxDepth)
	}

	chains := make([]Chain, 0)
	if collection == nil {
		d.warn(path, "no chain collection found")
		return chains, nil
	}

	branchTag := category.BranchTag()
	branches := collection.SelectElements(branchTag)
	if len(branches) == 0 {
		d.warn(path, "no chains found - expected %s elements", branchTag)
		return chains, nil
	}

	for idx, branch := range branches {
		chainPath := joinPath(path, fmt.Sprintf("chains[%d]", idx))
		mark := len(d.diagnostics)
		chain, err := d.decodeChain(branch, idx, depth, chainPath)
		if err != nil {
			if depth > 0 && errors.Is(err, ErrDepthExceeded) {
				return nil, err
			}
			d.diagnostics = d.diagnostics[:mark]
			d.fail(chainPath, "error parsing chain %d: %v", idx+1, err)
			chain.Devices = make([]Device, 0)
		}
		chains = append(chains, chain)
	}
	return chains, nil
}

// decodeChain decodes one branch preset. A panic while walking the branch is
// recovered and returned as an error so only this chain is lost.
func (d *decoder) decodeChain(branch *etree.Element, index, depth int, path string) (chain Chain, err error) {
	chain = Chain{Name: DefaultChainName(index), Devices: make([]Device, 0)}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected structure: %v", r)
		}
	}()

	if name := branch.SelectElement(tagName); name != nil {
		if value := name.SelectAttrValue("Value", ""); value != "" {
			chain.Name = value
		}
	}
	if solo := branch.SelectElement(tagIsSoloed); solo != nil {
		chain.IsSoloed = solo.SelectAttrValue("Value", "") == "true"
	}

	presets := branch.SelectElement(tagDevicePresets)
	if presets == nil {
		return chain, nil
	}
	for _, preset := range presets.ChildElements() {
		container := preset.SelectElement(tagDevice)
		if container == nil {
			continue
		}
		for _, elem := range container.ChildElements() {
			devicePath := joinPath(path, fmt.Sprintf("devices[%d]", len(chain.Devices)))
			device, err := d.decodeDevice(elem, depth, devicePath)
			if err != nil {
				return chain, err
			}
			chain.Devices = append(chain.Devices, device)
		}
	}
	return chain, nil
}

// topLevelCollection finds the BranchPresets of the main rack: the sibling of
// its Device wrapper when present, otherwise the first
// GroupDevicePreset/BranchPresets in the tree.
func topLevelCollection(root, main *etree.Element) *etree.Element {
	if collection := siblingCollection(main); collection != nil {
		return collection
	}
	preset := findFirst(root, func(e *etree.Element) bool {
		return e.Tag == tagGroupDevicePreset && e.SelectElement(tagBranchPresets) != nil
	})
	if preset == nil {
		return nil
	}
	return preset.SelectElement(tagBranchPresets)
}

// siblingCollection returns the BranchPresets element stored next to the
// Device wrapper of a rack device, i.e. inside the same preset element.
func siblingCollection(device *etree.Element) *etree.Element {
	if device == nil {
		return nil
	}
	wrapper := device.Parent()
	if wrapper == nil || wrapper.Tag != tagDevice {
		return nil
	}
	preset := wrapper.Parent()
	if preset == nil {
		return nil
	}
	return preset.SelectElement(tagBranchPresets)
}

func joinPath(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "/" + segment
}
