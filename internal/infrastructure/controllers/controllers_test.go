//go:build unit

package controllers_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

// newCommand binds a controller to a standalone Cobra command carrying the root's
// persistent flags.
func newCommand(controller entities.Controller, args ...string) (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:           controller.GetBind().Use,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return controller.Execute(command, arguments)
		},
	}
	cmd.Flags().StringP("config", "c", "", "")
	cmd.Flags().BoolP("verbose", "v", false, "")
	controller.AddFlags(cmd)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	return cmd, out
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vendorpatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
