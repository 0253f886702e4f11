package rack_test

import (
	"reflect"
	"testing"

	"rackscope/internal/rack"
)

func TestExtractMacros(t *testing.T) {
	root := parseTree(t, `<AudioEffectGroupDevice>
  <MacroDisplayNames.0 Value="Macro 1"/>
  <MacroControls.0><Manual Value="12"/></MacroControls.0>
  <MacroDisplayNames.1 Value="Cutoff"/>
  <MacroControls.1><Manual Value="64.5"/></MacroControls.1>
  <MacroDisplayNames.2 Value="Macro 1"/>
  <MacroDisplayNames.3 Value="Drive"/>
  <MacroDisplayNames.4 Value="Broken"/>
  <MacroControls.4><Manual Value="NaN"/></MacroControls.4>
  <MacroDisplayNames.5 Value="Huge"/>
  <MacroControls.5><Manual Value="+Inf"/></MacroControls.5>
  <MacroDisplayNames.6 Value="Text"/>
  <MacroControls.6><Manual Value="loud"/></MacroControls.6>
  <MacroDisplayNames.15 Value="Last"/>
  <MacroControls.15><Manual Value="127"/></MacroControls.15>
  <MacroDisplayNames.16 Value="Out of range"/>
</AudioEffectGroupDevice>`)

	got := rack.ExtractMacros(root)
	want := []rack.MacroControl{
		{Index: 1, DisplayName: "Cutoff", Value: 64.5},
		{Index: 2, DisplayName: "Macro 1", Value: 0},
		{Index: 3, DisplayName: "Drive", Value: 0},
		{Index: 4, DisplayName: "Broken", Value: 0},
		{Index: 5, DisplayName: "Huge", Value: 0},
		{Index: 6, DisplayName: "Text", Value: 0},
		{Index: 15, DisplayName: "Last", Value: 127},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractMacros mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestExtractMacrosEmpty(t *testing.T) {
	got := rack.ExtractMacros(parseTree(t, `<InstrumentGroupDevice/>`))
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if got := rack.ExtractMacros(nil); got == nil {
		t.Fatal("expected empty slice for nil device")
	}
}

func TestDefaultMacroName(t *testing.T) {
	if got := rack.DefaultMacroName(0); got != "Macro 1" {
		t.Fatalf("DefaultMacroName(0) = %q", got)
	}
	if got := rack.DefaultMacroName(15); got != "Macro 16" {
		t.Fatalf("DefaultMacroName(15) = %q", got)
	}
}
