//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/vendorpatch/internal/domain/commands"
	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

func TestDefinesCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should resolve defines from the configured features", func(t *testing.T) {
		t.Parallel()
		// given
		command := commands.NewDefinesCommand()
		settings := &entities.Settings{
			Features: []string{entities.Feature256KPages, entities.FeatureDeprecatedPerThread},
			Defines:  []string{"NOMINMAX"},
			Debug:    true,
		}

		// when
		profile, err := command.Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			"NOMINMAX",
			"TCMALLOC_INTERNAL_256K_PAGES",
			"TCMALLOC_DEPRECATED_PERTHREAD",
		}, profile.Defines)
	})

	t.Run("should not need source or patch directories", func(t *testing.T) {
		t.Parallel()
		// given
		command := commands.NewDefinesCommand()
		settings := &entities.Settings{Features: []string{entities.FeatureSmallButSlow}}

		// when
		profile, err := command.Execute(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.PageSizeSmall, profile.PageSize)
	})

	t.Run("should fail without a page size", func(t *testing.T) {
		t.Parallel()
		// given
		command := commands.NewDefinesCommand()

		// when
		profile, err := command.Execute(context.Background(), &entities.Settings{})

		// then
		var profileErr *entities.ProfileError
		require.ErrorAs(t, err, &profileErr)
		assert.Nil(t, profile)
	})
}
