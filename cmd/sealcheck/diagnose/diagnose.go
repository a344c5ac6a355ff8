package diagnose

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flarebyte/sealcheck/internal/config"
	"github.com/flarebyte/sealcheck/internal/dialect"
	"github.com/flarebyte/sealcheck/internal/seal"
)

// Report describes one file as the stamp command would see it.
type Report struct {
	Path          string `json:"path"`
	Ext           string `json:"ext"`
	Dialect       string `json:"dialect"`
	Eligible      bool   `json:"eligible"`
	Presence      string `json:"presence"`
	HeaderPresent bool   `json:"header_present"`
	SHA256        string `json:"sha256"`
	Size          int    `json:"size"`
	Error         string `json:"error,omitempty"`
}

// NewCmd returns `sealcheck diagnose FILE`.
func NewCmd() *cobra.Command {
	var root, cfgPath string
	cmd := &cobra.Command{
		Use:   "diagnose FILE",
		Short: "Show how a single file is classified and whether it carries the seal",
		Long: "Prints one JSON line describing FILE: dialect, marker presence and SHA-256. Nothing is written.\n" +
			"Eligible extensions: " + strings.Join(dialect.Extensions(), " "),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := seal.DefaultMarker
			if cfgPath != "" {
				s, err := config.Resolve(cfgPath, os.LookupEnv)
				if err != nil {
					return err
				}
				if err := config.Validate(s); err != nil {
					return err
				}
				m = s.SealMarker()
			}
			rep, err := Inspect(args[0], root, m)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().StringVar(&root, "root", ".", "Root the reported path is relative to")
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Config file supplying the marker (.cue)")
	return cmd
}

// relativize returns path relative to root with posix separators, or the
// cleaned path when it lies outside root.
func relativize(path, root string) string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return filepath.ToSlash(path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(rel)
}

func printReport(w io.Writer, r Report) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, string(b)); err != nil {
		return err
	}
	return nil
}
