//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/vendorpatch/internal/domain/entities"
)

func TestNewBuildProfile(t *testing.T) {
	t.Parallel()

	t.Run("should define the selected page size after the base defines", func(t *testing.T) {
		t.Parallel()
		// given
		features := []string{entities.Feature8KPages}

		// when
		profile, err := entities.NewBuildProfile(features, entities.DefaultBaseDefines, false)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.PageSize8K, profile.PageSize)
		assert.Equal(t, []string{
			"NOMINMAX",
			"TCMALLOC_INTERNAL_METHODS_ONLY",
			"TCMALLOC_INTERNAL_8K_PAGES",
			"NDEBUG",
		}, profile.Defines)
		assert.Empty(t, profile.ExtraSources)
	})

	t.Run("should omit NDEBUG for debug builds", func(t *testing.T) {
		t.Parallel()
		// given
		features := []string{entities.FeatureSmallButSlow}

		// when
		profile, err := entities.NewBuildProfile(features, nil, true)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"TCMALLOC_INTERNAL_SMALL_BUT_SLOW"}, profile.Defines)
	})

	t.Run("should add toggle defines in feature name order", func(t *testing.T) {
		t.Parallel()
		// given
		features := []string{
			entities.FeatureNUMAAware,
			entities.Feature32KPages,
			entities.FeatureLegacyLocking,
			entities.FeatureNUMAAware,
		}

		// when
		profile, err := entities.NewBuildProfile(features, []string{"NOMINMAX"}, false)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			entities.Feature32KPages,
			entities.FeatureLegacyLocking,
			entities.FeatureNUMAAware,
		}, profile.Features)
		assert.Equal(t, []string{
			"NOMINMAX",
			"TCMALLOC_INTERNAL_32K_PAGES",
			"TCMALLOC_INTERNAL_LEGACY_LOCKING",
			"TCMALLOC_INTERNAL_NUMA_AWARE",
			"NDEBUG",
		}, profile.Defines)
	})

	t.Run("should compile the extension bridge when the extension is enabled", func(t *testing.T) {
		t.Parallel()
		// given
		features := []string{entities.Feature256KPages, entities.FeatureExtension}

		// when
		profile, err := entities.NewBuildProfile(features, nil, false)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{entities.ExtensionBridgeSource}, profile.ExtraSources)
		assert.Equal(t, entities.PageSize256K, profile.PageSize)
	})

	t.Run("should fail when no page size is enabled", func(t *testing.T) {
		t.Parallel()
		// given
		features := []string{entities.FeatureNUMAAware}

		// when
		profile, err := entities.NewBuildProfile(features, nil, false)

		// then
		var profileErr *entities.ProfileError
		require.ErrorAs(t, err, &profileErr)
		assert.Nil(t, profile)
		assert.Contains(t, err.Error(), "one page size must be enabled")
	})

	t.Run("should fail when more than one page size is enabled", func(t *testing.T) {
		t.Parallel()
		// given
		features := []string{entities.Feature8KPages, entities.Feature32KPages}

		// when
		_, err := entities.NewBuildProfile(features, nil, false)

		// then
		var profileErr *entities.ProfileError
		require.ErrorAs(t, err, &profileErr)
		assert.Contains(t, err.Error(), "8k_pages, 32k_pages")
	})

	t.Run("should fail on an unknown feature", func(t *testing.T) {
		t.Parallel()
		// given
		features := []string{entities.Feature8KPages, "huge_pages"}

		// when
		_, err := entities.NewBuildProfile(features, nil, false)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown feature "huge_pages"`)
	})
}

func TestKnownFeatures(t *testing.T) {
	t.Parallel()

	t.Run("should list page sizes first and the other features sorted", func(t *testing.T) {
		t.Parallel()
		// when
		known := entities.KnownFeatures()

		// then
		assert.Equal(t, []string{
			"8k_pages", "32k_pages", "256k_pages", "small_but_slow",
			"deprecated_perthread", "extension", "legacy_locking", "numa_aware",
		}, known)
	})
}
