package rack

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ExtractMacros returns the renamed macro controls of a rack device in index
// order. Macros still carrying their default "Macro N" label are skipped.
func ExtractMacros(device *etree.Element) []MacroControl {
	macros := make([]MacroControl, 0)
	if device == nil {
		return macros
	}
	for i := 0; i < MaxMacroControls; i++ {
		nameElem := device.SelectElement(fmt.Sprintf("MacroDisplayNames.%d", i))
		if nameElem == nil {
			continue
		}
		defaultName := DefaultMacroName(i)
		name := nameElem.SelectAttrValue("Value", defaultName)
		if name == defaultName {
			continue
		}
		macros = append(macros, MacroControl{
			Index:       i,
			DisplayName: name,
			Value:       macroValue(device, i),
		})
	}
	return macros
}

// DefaultMacroName is the label a macro carries until the user renames it.
func DefaultMacroName(index int) string {
	return fmt.Sprintf("Macro %d", index+1)
}

func macroValue(device *etree.Element, index int) float64 {
	control := device.SelectElement(fmt.Sprintf("MacroControls.%d", index))
	if control == nil {
		return 0
	}
	manual := control.SelectElement("Manual")
	if manual == nil {
		return 0
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(manual.SelectAttrValue("Value", "0")), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
