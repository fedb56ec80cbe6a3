package controllers

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/vendorpatch/internal/domain/commands"
	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// VerifyController handles the "verify" subcommand.
type VerifyController struct {
	command commands.Verify
}

// NewVerifyController creates a new VerifyController.
func NewVerifyController(command commands.Verify) *VerifyController {
	return &VerifyController{command: command}
}

// GetBind returns the Cobra command metadata for the verify controller.
func (it *VerifyController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "verify",
		Short: "Check that every patch applies cleanly",
		Long: `Stage and patch into a temporary directory that is removed afterwards.
Nothing is written next to the source tree and no rerun-if-changed lines are
emitted. Use it in CI after bumping the vendored sources.`,
	}
}

// AddFlags adds the verify-specific flags to the given Cobra command.
func (it *VerifyController) AddFlags(cmd *cobra.Command) {
	addInputFlags(cmd)
}

// Execute runs the verification.
func (it *VerifyController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	result, err := it.command.Execute(cmd.Context(), settings, commands.VerifyOptions{Verbose: verbose(cmd)})
	if err != nil {
		_, _ = color.New(color.FgRed, color.Bold).Fprintln(cmd.OutOrStdout(), "FAIL")
		return describeFailure("verify", err)
	}

	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	_, _ = color.New().Fprintf(cmd.OutOrStdout(),
		"%s %d patches from %d files apply cleanly to %d staged files (page size %s)\n",
		ok("OK"), result.Patch.Patches, result.Patch.Files, result.Stage.Files, result.Profile.PageSize)
	return nil
}
