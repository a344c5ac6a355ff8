package stamp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flarebyte/sealcheck/internal/config"
	"github.com/flarebyte/sealcheck/internal/logger"
	"github.com/flarebyte/sealcheck/internal/stage"
)

// dateLayout is the header date, UTC.
const dateLayout = "2006-01-02"

type options struct {
	cfgPath         string
	envFile         string
	root            string
	version         string
	project         string
	manifest        string
	checkOnly       bool
	workers         int
	includeUnmapped bool
	exclude         []string
	progress        bool
	logLevel        string
	logFormat       string
}

// NewCmd returns `sealcheck stamp`.
func NewCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "stamp",
		Short: "Stamp the seal into eligible files and write the manifest",
		Long: "Walks --root, adds the seal header to every eligible file that lacks it " +
			"(or only reports with --check-only), writes the manifest and prints a run summary.\n" +
			"Exit code 2 means --check-only found files without the seal.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.cfgPath, "config", "c", "", "Path to config file (.cue)")
	f.StringVar(&o.envFile, "env-file", "", "Load environment variables from this file (default .env when present)")
	f.StringVar(&o.root, "root", ".", "Directory to scan")
	f.StringVar(&o.version, "version", "v1.0.0", "Version written into headers")
	f.StringVar(&o.project, "project", "Repo", "Project name written into headers and the manifest")
	f.StringVar(&o.manifest, "manifest", "gk_manifest.json", "Manifest destination: file path, - for stdout, or s3://bucket/key")
	f.BoolVar(&o.checkOnly, "check-only", false, "Do not modify files, only report")
	f.IntVar(&o.workers, "workers", 0, "Files processed concurrently (0 = number of CPUs)")
	f.BoolVar(&o.includeUnmapped, "include-unmapped", false, "Record files without a comment dialect in the manifest (never written)")
	f.StringArrayVar(&o.exclude, "exclude", nil, "Gitignore-style pattern of paths to leave out (repeatable)")
	f.BoolVar(&o.progress, "progress", false, "Print stage progress to stderr")
	f.StringVar(&o.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, off")
	f.StringVar(&o.logFormat, "log-format", "", "Log format: auto, console, json")
	return cmd
}

func run(cmd *cobra.Command, o options) error {
	s, err := loadSettings(cmd, o)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := logger.New(logger.Options{
		Level:  s.Log.Level,
		Format: s.Log.Format,
		Writer: cmd.ErrOrStderr(),
		RunID:  runID,
	})
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.Put(ctx, log)

	now := time.Now().UTC()
	in := stage.Envelope{
		Records: []stage.Record{},
		Meta: &stage.Meta{
			RunID:    runID,
			Settings: s,
			Date:     now.Format(dateLayout),
		},
	}
	deps := stage.Deps{
		Now:    func() time.Time { return now },
		Stdout: cmd.OutOrStdout(),
	}
	log.Info().Str("root", s.Root).Bool("check_only", s.CheckOnly).Str("manifest", s.Manifest).Msg("run started")

	reporter := newProgressReporter(s.Progress, cmd.ErrOrStderr())
	out, err := runStages(ctx, reporter, in, stage.Pipeline, deps)
	if err != nil {
		return err
	}
	if out.Meta == nil || out.Meta.Summary == nil {
		return evaluateRunExit(out)
	}
	sum := *out.Meta.Summary
	log.Info().
		Int("checked", sum.Checked).
		Int("changed", sum.Changed).
		Int("missing", sum.Missing).
		Int("skipped", sum.Skipped).
		Int("errors", sum.Errors).
		Msg("run finished")

	summaryOut := cmd.OutOrStdout()
	if s.Manifest == "-" {
		summaryOut = cmd.ErrOrStderr()
	}
	if err := writeSummary(summaryOut, sum); err != nil {
		return err
	}
	return evaluateRunExit(out)
}

func loadSettings(cmd *cobra.Command, o options) (config.Settings, error) {
	var err error
	if o.envFile != "" {
		err = config.LoadDotEnv(o.envFile)
	} else {
		err = config.LoadDotEnv()
	}
	if err != nil {
		return config.Settings{}, err
	}
	return resolveSettings(cmd, o, lookupEnv)
}
