package export

import (
	"rackscope/internal/rack"
)

// ToMap renders doc as the nested report map used by every encoder. Keys
// follow the analysis report layout: rack_name, rack_type, macro_controls,
// chains, parsing_warnings, parsing_errors, and stats. The warning and error
// lists are only present when non-empty; rack_type is nil for an unknown
// category.
func ToMap(doc *rack.Document) map[string]any {
	if doc == nil {
		return map[string]any{}
	}
	stats := doc.Stats()

	var rackType any
	if doc.Category.Known() {
		rackType = doc.Category.Tag()
	}

	report := map[string]any{
		"rack_name":      doc.Name,
		"use_case":       doc.Name,
		"rack_type":      rackType,
		"macro_controls": macrosToList(doc.MacroControls),
		"chains":         chainsToList(doc.Chains),
		"stats": map[string]any{
			"total_chains":   stats.Chains,
			"total_devices":  stats.Devices,
			"nested_racks":   stats.NestedRacks,
			"macro_controls": stats.Macros,
			"max_depth":      stats.MaxDepth,
		},
	}
	if warnings := diagnosticMessages(doc.Warnings()); len(warnings) > 0 {
		report["parsing_warnings"] = warnings
	}
	if errs := diagnosticMessages(doc.Errors()); len(errs) > 0 {
		report["parsing_errors"] = errs
	}
	return report
}

func macrosToList(macros []rack.MacroControl) []any {
	out := make([]any, 0, len(macros))
	for _, macro := range macros {
		out = append(out, map[string]any{
			"name":  macro.DisplayName,
			"value": macro.Value,
			"index": macro.Index,
		})
	}
	return out
}

func chainsToList(chains []rack.Chain) []any {
	out := make([]any, 0, len(chains))
	for _, chain := range chains {
		devices := make([]any, 0, len(chain.Devices))
		for _, device := range chain.Devices {
			devices = append(devices, deviceToMap(device))
		}
		out = append(out, map[string]any{
			"name":      chain.Name,
			"is_soloed": chain.IsSoloed,
			"devices":   devices,
		})
	}
	return out
}

func deviceToMap(device rack.Device) map[string]any {
	m := map[string]any{
		"type":  device.TypeTag,
		"name":  device.DisplayName,
		"is_on": device.IsEnabled,
	}
	if device.PresetName != "" {
		m["preset_name"] = device.PresetName
	}
	if device.IsContainer() {
		m["chains"] = chainsToList(device.NestedChains)
	}
	return m
}

func diagnosticMessages(diags []rack.Diagnostic) []any {
	out := make([]any, 0, len(diags))
	for _, diag := range diags {
		msg := diag.Message
		if diag.Context != "" {
			msg += " (" + diag.Context + ")"
		}
		out = append(out, msg)
	}
	return out
}
