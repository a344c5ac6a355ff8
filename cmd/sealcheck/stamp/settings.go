package stamp

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/flarebyte/sealcheck/internal/config"
)

var lookupEnv = os.LookupEnv

// resolveSettings layers explicitly set flags over defaults, environment
// and config file, then validates the result.
func resolveSettings(cmd *cobra.Command, o options, lookup func(string) (string, bool)) (config.Settings, error) {
	s, err := config.Resolve(o.cfgPath, lookup)
	if err != nil {
		return config.Settings{}, err
	}
	fl := cmd.Flags()
	if fl.Changed("root") {
		s.Root = o.root
	}
	if fl.Changed("version") {
		s.Version = o.version
	}
	if fl.Changed("project") {
		s.Project = o.project
	}
	if fl.Changed("manifest") {
		s.Manifest = o.manifest
	}
	if fl.Changed("check-only") {
		s.CheckOnly = o.checkOnly
	}
	if fl.Changed("workers") {
		s.Workers = o.workers
	}
	if fl.Changed("include-unmapped") {
		s.Discovery.IncludeUnmapped = o.includeUnmapped
	}
	if fl.Changed("exclude") {
		s.Discovery.Exclude = append(s.Discovery.Exclude, o.exclude...)
	}
	if fl.Changed("progress") {
		s.Progress = o.progress
	}
	if fl.Changed("log-level") {
		s.Log.Level = o.logLevel
	}
	if fl.Changed("log-format") {
		s.Log.Format = o.logFormat
	}
	if err := config.Validate(s); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}
