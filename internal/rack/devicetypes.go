package rack

// deviceTypeNames maps raw device tags to the names shown in the host
// application. Several tags are aliases left behind by engine renames.
// Read-only after init.
var deviceTypeNames = map[string]string{
	// Audio effects
	"AlignDelay":             "Align Delay",
	"Amp":                    "Amp",
	"AudioEffectGroupDevice": "Audio Effect Rack",
	"AutoFilter":             "Auto Filter",
	"AutoPan":                "Auto Pan",
	"AutoShift":              "Auto Shift",
	"BeatRepeat":             "Beat Repeat",
	"Cabinet":                "Cabinet",
	"ChannelEq":              "Channel EQ",
	"Chorus":                 "Chorus-Ensemble",
	"ChromaticChorus":        "Chorus-Ensemble",
	"ColorLimiter":           "Color Limiter",
	"Compressor2":            "Compressor",
	"ConvolutionReverb":      "Convolution Reverb",
	"ConvolutionReverbPro":   "Convolution Reverb Pro",
	"Corpus":                 "Corpus",
	"Delay":                  "Delay",
	"DrumBuss":               "Drum Buss",
	"DynamicTube":            "Dynamic Tube",
	"Tube":                   "Dynamic Tube",
	"Echo":                   "Echo",
	"EnvelopeFollower":       "Envelope Follower",
	"FilterEQ3":              "EQ Three",
	"Eq3":                    "EQ Three",
	"Eq8":                    "EQ Eight",
	"Erosion":                "Erosion",
	"ExternalAudioEffect":    "External Audio Effect",
	"FilterDelay":            "Filter Delay",
	"Flanger":                "Flanger",
	"Gate":                   "Gate",
	"GatedDelay":             "Gated Delay",
	"GlueCompressor":         "Glue Compressor",
	"GrainDelay":             "Grain Delay",
	"HybridReverb":           "Hybrid Reverb",
	"InMeasurementDevice":    "IR Measurement Device",
	"LFO":                    "LFO",
	"Limiter":                "Limiter",
	"Looper":                 "Looper",
	"MultibandDynamics":      "Multiband Dynamics",
	"Overdrive":              "Overdrive",
	"Pedal":                  "Pedal",
	"Phaser":                 "Phaser",
	"PhaserFlanger":          "Phaser-Flanger",
	"PitchHack":              "Pitch Hack",
	"ReEnveloper":            "Re-Enveloper",
	"Redux":                  "Redux",
	"Resonators":             "Resonators",
	"Reverb":                 "Reverb",
	"Roar":                   "Roar",
	"Saturator":              "Saturator",
	"Shaper":                 "Shaper",
	"Shifter":                "Shifter",
	"FrequencyShifter":       "Frequency Shifter",
	"Frequency":              "Frequency Shifter",
	"SpectralBlur":           "Spectral Blur",
	"SpectralResonator":      "Spectral Resonator",
	"SpectralTime":           "Spectral Time",
	"Spectrum":               "Spectrum",
	"SurroundPanner":         "Surround Panner",
	"Tuner":                  "Tuner",
	"Utility":                "Utility",
	"VectorDelay":            "Vector Delay",
	"VectorFade":             "Vector Fade",
	"VinylDistortion":        "Vinyl Distortion",
	"Vocoder":                "Vocoder",
	"ArrangementLooper":      "Arrangement Looper",
	"Performer":              "Performer",
	"Prearranger":            "Prearranger",

	// Instruments
	"AnalogDevice":          "Analog",
	"Bass":                  "Bass",
	"Collision":             "Collision",
	"Drift":                 "Drift",
	"DrumGroupDevice":       "Drum Rack",
	"DrumRack":              "Drum Rack",
	"DrumSampler":           "Drum Sampler",
	"DSClang":               "DS Clang",
	"DSClap":                "DS Clap",
	"DSCymbal":              "DS Cymbal",
	"DSFM":                  "DS FM",
	"DSHH":                  "DS HH",
	"DSKick":                "DS Kick",
	"DSSnare":               "DS Snare",
	"DSTom":                 "DS Tom",
	"Electric":              "Electric",
	"ExternalInstrument":    "External Instrument",
	"GranulatorIII":         "Granulator III",
	"InstrumentGroupDevice": "Instrument Rack",
	"InstrumentImpulse":     "Impulse",
	"InstrumentRack":        "Instrument Rack",
	"Meld":                  "Meld",
	"Operator":              "Operator",
	"Poli":                  "Poli",
	"Sampler":               "Sampler",
	"Simpler":               "Simpler",
	"Tension":               "Tension",
	"Treee":                 "Tree Tone",
	"VectorFM":              "Vector FM",
	"VectorGrain":           "Vector Grain",
	"Wavetable":             "Wavetable",

	// MIDI effects
	"Arpeggiator":           "Arpeggiator",
	"BouncyNotes":           "Bouncy Notes",
	"CCControl":             "CC Control",
	"Chord":                 "Chord",
	"EnvelopeMidi":          "Envelope MIDI",
	"ExpressionControl":     "Expression Control",
	"ExpressiveChords":      "Expressive Chords",
	"MelodicSteps":          "Melodic Steps",
	"Microtuner":            "Microtuner",
	"MidiEffectGroupDevice": "MIDI Effect Rack",
	"MidiEffectRack":        "MIDI Effect Rack",
	"MidiMonitor":           "MIDI Monitor",
	"MPEControl":            "MPE Control",
	"NoteEcho":              "Note Echo",
	"NoteLength":            "Note Length",
	"Pitch":                 "Pitch",
	"Random":                "Random",
	"RhythmicSteps":         "Rhythmic Steps",
	"Scale":                 "Scale",
	"ShaperMidi":            "Shaper MIDI",
	"StepArp":               "Step Arp",
	"StepSequencer":         "SQ Sequencer",
	"Velocity":              "Velocity",
}

// DeviceTypeName resolves a raw device tag to its display name. Unknown tags
// come back verbatim with ok set to false.
func DeviceTypeName(tag string) (name string, ok bool) {
	if name, ok := deviceTypeNames[tag]; ok {
		return name, true
	}
	return tag, false
}

// KnownDeviceTypes returns the number of entries in the type table.
func KnownDeviceTypes() int {
	return len(deviceTypeNames)
}
