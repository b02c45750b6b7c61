package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/angeloszaimis/oms-envcheck/config"
	"github.com/angeloszaimis/oms-envcheck/internal/environment"
	"github.com/angeloszaimis/oms-envcheck/internal/settings"
	"github.com/angeloszaimis/oms-envcheck/pkg/logger"
)

const redacted = "********"

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command. Configuration is read from fs and log
// files are written to it.
func newRootCmd(fs afero.Fs, opts ...config.Option) *cobra.Command {
	var (
		output  string
		workDir string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "envcheck",
		Short: "Resolve and display the server settings for the current environment",
		Long: `envcheck merges configuration/base.yaml with the overlay selected by
` + environment.Variable + ` (local when unset) and reports the resolved settings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "text" && output != "yaml" {
				return fmt.Errorf("unknown output format %q", output)
			}

			resolveOpts := append([]config.Option{config.WithFs(fs)}, opts...)
			if workDir != "" {
				resolveOpts = append(resolveOpts, config.WithWorkingDir(workDir))
			}
			if verbose {
				resolveOpts = append(resolveOpts, config.WithLogger(
					logger.New(cmd.ErrOrStderr(), "debug", false, environment.Local)))
			}

			res, err := config.Resolve(resolveOpts...)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Unable to parse settings: %s\n", err)
				return err
			}

			log, closer, err := logger.FromSettings(fs, res.Settings.Logging, res.Environment, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			defer closer.Close()

			log.Debug("settings resolved",
				slog.String("base", res.BasePath),
				slog.String("overlay", res.OverlayPath))

			if output == "yaml" {
				return renderYAML(cmd.OutOrStdout(), res.Settings)
			}
			return renderText(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, yaml)")
	cmd.Flags().StringVarP(&workDir, "dir", "C", "", "resolve configuration/ under this directory instead of the working directory")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each resolution step to stderr")

	return cmd
}

func renderText(w io.Writer, res *config.Resolution) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Environment:   %s\n", res.Environment)
	fmt.Fprintf(&b, "Base:          %s\n", res.BasePath)
	fmt.Fprintf(&b, "Overlay:       %s\n", res.OverlayPath)
	fmt.Fprintf(&b, "Server port:   %d\n", res.Settings.Server.Port)

	if s := res.Settings.Sync; s != nil {
		fmt.Fprintf(&b, "Sync URL:      %s\n", s.URL)
		fmt.Fprintf(&b, "Login:         %s\n", s.Username)
	} else {
		b.WriteString("Sync:          not configured\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderYAML(w io.Writer, s *settings.Settings) error {
	out := redact(s)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return enc.Close()
}

// redact returns a copy of s with credentials masked.
func redact(s *settings.Settings) settings.Settings {
	out := *s
	out.Database.Password = redacted
	if s.Sync != nil {
		syncCopy := *s.Sync
		syncCopy.PasswordSHA256 = redacted
		out.Sync = &syncCopy
	}
	return out
}
