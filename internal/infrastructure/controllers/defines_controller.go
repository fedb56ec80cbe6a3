package controllers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/vendorpatch/internal/domain/commands"
	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

const (
	formatPlain = "plain"
	formatFlags = "flags"
)

// DefinesController handles the "defines" subcommand.
type DefinesController struct {
	command commands.Defines
}

// NewDefinesController creates a new DefinesController.
func NewDefinesController(command commands.Defines) *DefinesController {
	return &DefinesController{command: command}
}

// GetBind returns the Cobra command metadata for the defines controller.
func (it *DefinesController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "defines",
		Short: "Print the compiler defines of the selected build profile",
		Long: `Resolve the page size and toggles from the enabled features and print one
define per line. Exactly one page-size feature must be enabled.`,
	}
}

// AddFlags adds the defines-specific flags to the given Cobra command.
func (it *DefinesController) AddFlags(cmd *cobra.Command) {
	addProfileFlags(cmd)
	cmd.Flags().String(flagFormat, formatPlain, "Output format: plain (NAME[=VALUE]) or flags (-DNAME[=VALUE])")
}

// Execute prints the defines.
func (it *DefinesController) Execute(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString(flagFormat)
	if format != formatPlain && format != formatFlags {
		return fmt.Errorf("unknown format %q, expected %s or %s", format, formatPlain, formatFlags)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	profile, err := it.command.Execute(cmd.Context(), settings)
	if err != nil {
		return describeFailure("defines", err)
	}

	out := cmd.OutOrStdout()
	for _, define := range profile.Defines {
		if format == formatFlags {
			define = "-D" + define
		}
		_, _ = fmt.Fprintln(out, define)
	}
	for _, source := range profile.ExtraSources {
		_, _ = color.New(color.Faint).Fprintf(cmd.ErrOrStderr(), "extra source: %s\n", source)
	}
	return nil
}
