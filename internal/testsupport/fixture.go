package testsupport

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/beevik/etree"
	"github.com/klauspost/compress/gzip"
)

// Rack device tags used by fixtures.
const (
	AudioEffectRack = "AudioEffectGroupDevice"
	InstrumentRack  = "InstrumentGroupDevice"
	MidiEffectRack  = "MidiEffectGroupDevice"
)

var branchTags = map[string]string{
	AudioEffectRack: "AudioEffectBranchPreset",
	InstrumentRack:  "InstrumentBranchPreset",
	MidiEffectRack:  "MidiEffectBranchPreset",
}

// MacroFixture is one macro slot on a rack device. An empty Value omits the
// MacroControls element.
type MacroFixture struct {
	Index int
	Name  string
	Value string
}

// DeviceFixture is a device inside a chain. When Tag is a rack tag the device
// is written as a nested GroupDevicePreset with Chains as its branches.
type DeviceFixture struct {
	Tag      string
	UserName string
	Disabled bool

	// OmitOn drops the On element entirely.
	OmitOn bool
	Chains []ChainFixture
}

// ChainFixture is one branch preset. An empty Name omits the Name element.
type ChainFixture struct {
	Name    string
	Soloed  bool
	Devices []DeviceFixture
}

// RackFixture describes a whole preset document.
type RackFixture struct {
	// Tag defaults to AudioEffectRack.
	Tag    string
	Macros []MacroFixture
	Chains []ChainFixture

	// NoBranchPresets omits the top-level BranchPresets element.
	NoBranchPresets bool
}

// Document builds the preset XML tree.
func (r RackFixture) Document() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("Ableton")
	root.CreateAttr("MajorVersion", "5")
	root.CreateAttr("Creator", "Ableton Live 12.0")

	tag := r.Tag
	if tag == "" {
		tag = AudioEffectRack
	}
	preset := root.CreateElement("GroupDevicePreset")
	device := preset.CreateElement("Device").CreateElement(tag)
	for _, macro := range r.Macros {
		setValue(device.CreateElement("MacroDisplayNames."+strconv.Itoa(macro.Index)), macro.Name)
		if macro.Value != "" {
			setValue(device.CreateElement("MacroControls."+strconv.Itoa(macro.Index)).CreateElement("Manual"), macro.Value)
		}
	}
	if !r.NoBranchPresets {
		writeBranches(preset, tag, r.Chains)
	}
	return doc
}

// XML renders the preset document as indented text.
func (r RackFixture) XML() []byte {
	doc := r.Document()
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		panic(err)
	}
	return out
}

// Gzip returns the compressed preset bytes.
func (r RackFixture) Gzip(t testing.TB) []byte {
	t.Helper()
	return Gzip(t, r.XML())
}

func writeBranches(preset *etree.Element, rackTag string, chains []ChainFixture) {
	collection := preset.CreateElement("BranchPresets")
	for _, chain := range chains {
		branch := collection.CreateElement(branchTags[rackTag])
		if chain.Name != "" {
			setValue(branch.CreateElement("Name"), chain.Name)
		}
		setValue(branch.CreateElement("IsSoloed"), strconv.FormatBool(chain.Soloed))
		presets := branch.CreateElement("DevicePresets")
		for _, device := range chain.Devices {
			writeDevice(presets, device)
		}
	}
}

func writeDevice(presets *etree.Element, device DeviceFixture) {
	_, isRack := branchTags[device.Tag]
	wrapperTag := "AbletonDevicePreset"
	if isRack {
		wrapperTag = "GroupDevicePreset"
	}
	wrapper := presets.CreateElement(wrapperTag)
	elem := wrapper.CreateElement("Device").CreateElement(device.Tag)
	if device.UserName != "" {
		setValue(elem.CreateElement("UserName"), device.UserName)
	}
	if !device.OmitOn {
		setValue(elem.CreateElement("On").CreateElement("Manual"), strconv.FormatBool(!device.Disabled))
	}
	if isRack {
		writeBranches(wrapper, device.Tag, device.Chains)
	}
}

func setValue(elem *etree.Element, value string) {
	elem.CreateAttr("Value", value)
}

// RackXML renders fixture as XML text.
func RackXML(fixture RackFixture) string {
	return string(fixture.XML())
}

// Gzip compresses data the way Live stores presets.
func Gzip(t testing.TB, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// NestedFixture returns an audio effect rack nested depth levels deep inside
// its first chain.
func NestedFixture(depth int) RackFixture {
	inner := []ChainFixture{{Name: "Leaf", Devices: []DeviceFixture{{Tag: "Reverb"}}}}
	for level := depth; level > 0; level-- {
		inner = []ChainFixture{{
			Name:    "Level " + strconv.Itoa(level),
			Devices: []DeviceFixture{{Tag: AudioEffectRack, Chains: inner}},
		}}
	}
	return RackFixture{Tag: AudioEffectRack, Chains: inner}
}
