package config

const (
	defaultDataDir         = "~/.local/share/rackscope"
	defaultExportDir       = "~/.local/share/rackscope/exports"
	defaultInboxDir        = "~/.local/share/rackscope/inbox"
	defaultLogDir          = "~/.local/share/rackscope/logs"
	defaultAPIBind         = "127.0.0.1:5001"
	defaultMaxDepth        = 32
	defaultWorkers         = 4
	defaultMaxFileMiB      = 16
	defaultExportIndent    = 2
	defaultWatchDebounceMS = 500
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

var (
	defaultExtensions    = []string{".adg", ".adv"}
	defaultExportFormats = []string{"json", "xml"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			ExportDir: defaultExportDir,
			InboxDir:  defaultInboxDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Analysis: Analysis{
			MaxDepth:   defaultMaxDepth,
			Workers:    defaultWorkers,
			Extensions: append([]string(nil), defaultExtensions...),
			MaxFileMiB: defaultMaxFileMiB,
		},
		Export: Export{
			Enabled: true,
			Formats: append([]string(nil), defaultExportFormats...),
			Indent:  defaultExportIndent,
		},
		Watch: Watch{
			DebounceMS: defaultWatchDebounceMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
