package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"rackscope/internal/rack"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorize(enabled bool, color text.Color, value string) string {
	if !enabled {
		return value
	}
	return color.Sprint(value)
}

// renderDocument writes the human-readable view used by show and analyze
// --verbose.
func renderDocument(out io.Writer, doc *rack.Document) {
	color := shouldColorize(out)
	stats := doc.Stats()

	var title string
	if doc.Category.Known() {
		title = fmt.Sprintf("%s (%s)", doc.Name, doc.Category.Label())
	} else {
		title = fmt.Sprintf("%s (%s)", doc.Name, colorize(color, text.FgRed, "unknown rack type"))
	}
	fmt.Fprintln(out, colorize(color, text.Bold, title))
	fmt.Fprintf(out, "Chains: %d  Devices: %d  Nested racks: %d  Max depth: %d\n",
		stats.Chains, stats.Devices, stats.NestedRacks, stats.MaxDepth)

	if len(doc.MacroControls) > 0 {
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(doc.MacroControls))
		for _, macro := range doc.MacroControls {
			rows = append(rows, []string{
				strconv.Itoa(macro.Index + 1),
				macro.DisplayName,
				strconv.FormatFloat(macro.Value, 'f', -1, 64),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"#", "Macro", "Value"}, rows, []columnAlignment{alignRight, alignLeft, alignRight}))
	}

	if len(doc.Chains) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderChainTree(doc.Chains, color))
	}

	if diags := doc.Diagnostics; len(diags) > 0 {
		fmt.Fprintln(out)
		for _, diag := range diags {
			label := colorize(color, text.FgYellow, "warning")
			if diag.Severity == rack.SeverityError {
				label = colorize(color, text.FgRed, "error")
			}
			message := diag.Message
			if diag.Context != "" {
				message += " (" + diag.Context + ")"
			}
			fmt.Fprintf(out, "%s: %s\n", label, message)
		}
	}
}

func renderChainTree(chains []rack.Chain, color bool) string {
	lw := list.NewWriter()
	if color {
		lw.SetStyle(list.StyleConnectedRounded)
	} else {
		lw.SetStyle(list.StyleConnectedLight)
	}
	appendChains(lw, chains, color)
	return lw.Render()
}

func appendChains(lw list.Writer, chains []rack.Chain, color bool) {
	for i, chain := range chains {
		name := chain.Name
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Chain %d", i+1)
		}
		if chain.IsSoloed {
			name += " " + colorize(color, text.FgYellow, "[solo]")
		}
		lw.AppendItem(name)
		if len(chain.Devices) == 0 {
			continue
		}
		lw.Indent()
		for _, device := range chain.Devices {
			lw.AppendItem(deviceLabel(device, color))
			if len(device.NestedChains) > 0 {
				lw.Indent()
				appendChains(lw, device.NestedChains, color)
				lw.UnIndent()
			}
		}
		lw.UnIndent()
	}
}

func deviceLabel(device rack.Device, color bool) string {
	label := device.DisplayName
	if device.PresetName != "" {
		label = fmt.Sprintf("%s (%s)", device.DisplayName, device.PresetName)
	}
	if !device.IsEnabled {
		label += " " + colorize(color, text.Faint, "[off]")
	}
	return label
}
