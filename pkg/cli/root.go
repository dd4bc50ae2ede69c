package cli

import (
	"os"

	"github.com/spf13/cobra"

	"mdtool/pkg/mdlog"
)

// NewRootCmd builds the root cobra command and installs every subcommand.
// PersistentPreRunE only creates a production logger when the incoming
// context does not already carry one, mirroring the teacher's root.go so
// tests can inject a logger via cmd.SetContext before Execute.
func NewRootCmd(deps *Deps) *cobra.Command {
	var logFile string
	var logLevel string
	var logJSON bool

	cmd := &cobra.Command{
		Use:           "mdtool",
		Short:         "documentation-management toolkit for Markdown repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deps.LogLevel = logLevel
			if mdlog.LoggerFromContext(ctx) == mdlog.DefaultLogger {
				out := deps.Stderr
				if logFile != "" {
					f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
					if err != nil {
						return err
					}
					out = f
				}
				lg, _, err := mdlog.NewLogger(mdlog.LoggerConfig{
					Out:     out,
					Level:   mdlog.ParseLevel(logLevel),
					JSON:    logJSON,
					Version: Version,
				})
				if err != nil {
					return err
				}
				ctx = mdlog.WithLogger(ctx, lg)
			}

			ctx = withDeps(ctx, deps)
			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to file (default stderr)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "minimum log level")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "output logs as JSON")
	cmd.PersistentFlags().StringVar(&deps.ConfigPath, "config", deps.ConfigPath, "path to .markdown-doc.toml")

	cmd.AddCommand(
		newExtractCmd(deps),
		newEditCmd(deps),
		newCatalogCmd(deps),
		newLintCmd(deps),
		newValidateCmd(deps),
		newTOCCmd(deps),
		newMvCmd(deps),
	)

	return cmd
}
