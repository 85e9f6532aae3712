package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/kop-cichra/slsbench/internal/config"
	"github.com/kop-cichra/slsbench/internal/log"
	"github.com/kop-cichra/slsbench/internal/ux"
)

// CommandContext holds what every command needs: the resolved
// configuration, the logger and the output streams.
type CommandContext struct {
	Config  *config.Config
	Logger  *log.Logger
	NoColor bool
	Out     io.Writer
	Err     io.Writer
	Styles  *ux.Styles
}

// NewCommandContext loads the configuration named by the persistent flags,
// applies the logging flags on top of it and installs the logger as the
// process default.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	logFormat, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}
	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	required := path != ""
	if !required {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	logger := log.New(log.Config{
		Level:  log.ParseLevel(cfg.Logging.Level),
		Format: log.ParseFormat(cfg.Logging.Format),
		Output: cmd.ErrOrStderr(),
	})
	log.SetDefaultLogger(logger)

	return &CommandContext{
		Config:  cfg,
		Logger:  logger,
		NoColor: noColor,
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
		Styles:  ux.NewStyles(cmd.OutOrStdout(), noColor),
	}, nil
}
