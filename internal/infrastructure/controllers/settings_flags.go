package controllers

import (
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

const (
	flagConfig       = "config"
	flagVerbose      = "verbose"
	flagSource       = "source"
	flagPatches      = "patches"
	flagOutput       = "output"
	flagManifest     = "manifest"
	flagFeature      = "feature"
	flagDebug        = "debug"
	flagHiddenPrefix = "hidden-prefix"
	flagExclude      = "exclude"
	flagSignalsFile  = "signals-file"
	flagClean        = "clean"
	flagFormat       = "format"
)

// addInputFlags registers the flags that locate the source and patch trees.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagSource, "", "Upstream source tree to stage")
	cmd.Flags().String(flagPatches, "", "Directory tree of unified diff files")
	cmd.Flags().String(flagHiddenPrefix, entities.DefaultHiddenPrefix,
		"Entries whose names start with this prefix are skipped (empty disables)")
	cmd.Flags().StringSlice(flagExclude, nil, "Gitignore-style pattern of source entries to skip (repeatable)")
	addProfileFlags(cmd)
}

// addProfileFlags registers the flags that select the build profile.
func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice(flagFeature, nil,
		fmt.Sprintf("Enabled build feature (repeatable), one of %v", entities.KnownFeatures()))
	cmd.Flags().Bool(flagDebug, false, "Debug build (omits NDEBUG)")
}

// loadSettings reads the settings file (--config, or auto-detected) and applies every
// flag the user set on top of it.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	settings := &entities.Settings{}

	configPath, _ := cmd.Flags().GetString(flagConfig)
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err == nil {
			configPath = found
		} else {
			logger.Debugf("No config file: %v", err)
		}
	}
	if configPath != "" {
		logger.Infof("Using config file: %s", configPath)
		loaded, err := entities.NewSettings(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		settings = loaded
	}

	flags := cmd.Flags()
	overrideString(cmd, flagSource, &settings.Source)
	overrideString(cmd, flagPatches, &settings.Patches)
	overrideString(cmd, flagOutput, &settings.Output)
	overrideString(cmd, flagManifest, &settings.Manifest)
	overrideString(cmd, flagSignalsFile, &settings.Signals.File)
	if flags.Lookup(flagHiddenPrefix) != nil && flags.Changed(flagHiddenPrefix) {
		hidden, _ := flags.GetString(flagHiddenPrefix)
		settings.HiddenPrefix = &hidden
	}
	if flags.Lookup(flagExclude) != nil && flags.Changed(flagExclude) {
		settings.Exclude, _ = flags.GetStringSlice(flagExclude)
	}
	if flags.Lookup(flagFeature) != nil && flags.Changed(flagFeature) {
		settings.Features, _ = flags.GetStringSlice(flagFeature)
	}
	if flags.Lookup(flagDebug) != nil && flags.Changed(flagDebug) {
		settings.Debug, _ = flags.GetBool(flagDebug)
	}
	return settings, nil
}

func overrideString(cmd *cobra.Command, name string, target *string) {
	if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
		return
	}
	*target, _ = cmd.Flags().GetString(name)
}

func verbose(cmd *cobra.Command) bool {
	value, _ := cmd.Flags().GetBool(flagVerbose)
	return value
}

// describeFailure logs the details of a failed run and returns the error unchanged.
// Hunk mismatches also get a character diff of what the patch expected against the file.
func describeFailure(action string, err error) error {
	var mismatch *entities.PatchMismatchError
	if errors.As(err, &mismatch) && !mismatch.EOF {
		logger.Errorf("%s failed in %s, line %d:\n%s",
			action, mismatch.Path, mismatch.Offset+1, mismatchDiff(mismatch.Expected, mismatch.Actual))
	}
	return fmt.Errorf("%s failed: %w", action, err)
}
