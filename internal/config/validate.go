package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

var supportedExportFormats = map[string]struct{}{
	"json": {},
	"yaml": {},
	"cbor": {},
	"xml":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Export.Enabled && strings.TrimSpace(c.Paths.ExportDir) == "" {
		return errors.New("paths.export_dir must be set when export.enabled is true")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind: %w", err)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.MaxDepth < 0 {
		return errors.New("analysis.max_depth must not be negative")
	}
	if c.Analysis.Workers <= 0 {
		return errors.New("analysis.workers must be positive")
	}
	if c.Analysis.MaxFileMiB <= 0 {
		return errors.New("analysis.max_file_mib must be positive")
	}
	if len(c.Analysis.Extensions) == 0 {
		return errors.New("analysis.extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateExport() error {
	if !c.Export.Enabled {
		return nil
	}
	if len(c.Export.Formats) == 0 {
		return errors.New("export.formats must include at least one format when export.enabled is true")
	}
	for _, format := range c.Export.Formats {
		if _, ok := supportedExportFormats[format]; !ok {
			return fmt.Errorf("export.formats: unsupported format %q (use json, yaml, cbor, or xml)", format)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
