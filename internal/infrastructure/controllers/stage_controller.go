package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/vendorpatch/internal/domain/commands"
	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// StageController handles the "stage" subcommand.
type StageController struct {
	command commands.Stage
}

// NewStageController creates a new StageController.
func NewStageController(command commands.Stage) *StageController {
	return &StageController{command: command}
}

// GetBind returns the Cobra command metadata for the stage controller.
func (it *StageController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "stage",
		Short: "Stage the vendored sources and apply the local patches",
		Long: `Copy the upstream source tree into the output directory, apply every
unified diff found under the patches directory, and write a build manifest
with the resolved compiler defines and a digest of the patched tree.

Every staged source file and every patch file is reported on standard output
as "rerun-if-changed=<path>" (see --signals-file to redirect it).`,
	}
}

// AddFlags adds the stage-specific flags to the given Cobra command.
func (it *StageController) AddFlags(cmd *cobra.Command) {
	addInputFlags(cmd)
	cmd.Flags().String(flagOutput, "", "Directory receiving the patched tree")
	cmd.Flags().String(flagManifest, "", "Build manifest path (default: <output>.manifest.yaml)")
	cmd.Flags().Bool(flagClean, false, "Remove the output directory before staging")
	cmd.Flags().String(flagSignalsFile, "", "Write rerun-if-changed lines to this file instead of stdout")
}

// Execute runs the staging pipeline.
func (it *StageController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	clean, _ := cmd.Flags().GetBool(flagClean)

	result, err := it.command.Execute(cmd.Context(), settings, commands.StageOptions{
		Clean:   clean,
		Verbose: verbose(cmd),
	})
	if err != nil {
		return describeFailure("stage", err)
	}

	logger.Infof("Build manifest written to %s", result.ManifestPath)
	if result.Stage.Skipped > 0 {
		logger.Debugf("%d entries were skipped", result.Stage.Skipped)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "staged %d files, applied %d patches\n",
		result.Stage.Files, result.Patch.Patches)
	return nil
}
