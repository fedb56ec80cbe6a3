package entities

import (
	"fmt"
	"slices"
	"strings"
)

// PageSize is the allocator page-size variant. Exactly one is compiled in.
type PageSize int

const (
	PageSize8K PageSize = iota
	PageSize32K
	PageSize256K
	PageSizeSmall
)

// Feature names accepted in settings and on the command line.
const (
	Feature8KPages             = "8k_pages"
	Feature32KPages            = "32k_pages"
	Feature256KPages           = "256k_pages"
	FeatureSmallButSlow        = "small_but_slow"
	FeatureExtension           = "extension"
	FeatureDeprecatedPerThread = "deprecated_perthread"
	FeatureLegacyLocking       = "legacy_locking"
	FeatureNUMAAware           = "numa_aware"
)

// ExtensionBridgeSource is compiled only with the extension feature.
const ExtensionBridgeSource = "c_src/malloc_extension_bridge.cc"

// DefaultBaseDefines are always passed to the compiler.
//
//nolint:gochecknoglobals // read-only defaults
var DefaultBaseDefines = []string{"NOMINMAX", "TCMALLOC_INTERNAL_METHODS_ONLY"}

//nolint:gochecknoglobals // read-only lookup table
var pageSizes = []PageSize{PageSize8K, PageSize32K, PageSize256K, PageSizeSmall}

//nolint:gochecknoglobals // read-only lookup table
var toggleDefines = map[string]string{
	FeatureDeprecatedPerThread: "TCMALLOC_DEPRECATED_PERTHREAD",
	FeatureLegacyLocking:       "TCMALLOC_INTERNAL_LEGACY_LOCKING",
	FeatureNUMAAware:           "TCMALLOC_INTERNAL_NUMA_AWARE",
}

// Feature returns the feature name that selects the page size.
func (p PageSize) Feature() string {
	switch p {
	case PageSize8K:
		return Feature8KPages
	case PageSize32K:
		return Feature32KPages
	case PageSize256K:
		return Feature256KPages
	case PageSizeSmall:
		return FeatureSmallButSlow
	default:
		return ""
	}
}

// Define returns the preprocessor define for the page size.
func (p PageSize) Define() string {
	switch p {
	case PageSize8K:
		return "TCMALLOC_INTERNAL_8K_PAGES"
	case PageSize32K:
		return "TCMALLOC_INTERNAL_32K_PAGES"
	case PageSize256K:
		return "TCMALLOC_INTERNAL_256K_PAGES"
	case PageSizeSmall:
		return "TCMALLOC_INTERNAL_SMALL_BUT_SLOW"
	default:
		return ""
	}
}

func (p PageSize) String() string { return p.Feature() }

// KnownFeatures lists every accepted feature name.
func KnownFeatures() []string {
	known := make([]string, 0, len(pageSizes)+len(toggleDefines)+1)
	for _, pageSize := range pageSizes {
		known = append(known, pageSize.Feature())
	}
	known = append(known, FeatureExtension)
	for feature := range toggleDefines {
		known = append(known, feature)
	}
	slices.Sort(known[len(pageSizes):])
	return known
}

// SelectPageSize picks the single page size enabled in features.
// It fails when none or more than one is enabled, or when a feature is unknown.
func SelectPageSize(features []string) (PageSize, error) {
	if err := validateFeatures(features); err != nil {
		return 0, err
	}

	var selected []PageSize
	for _, pageSize := range pageSizes {
		if slices.Contains(features, pageSize.Feature()) {
			selected = append(selected, pageSize)
		}
	}

	switch len(selected) {
	case 0:
		return 0, &ProfileError{Msg: fmt.Sprintf(
			"one page size must be enabled (one of %s)", strings.Join(pageSizeFeatures(), ", "),
		)}
	case 1:
		return selected[0], nil
	default:
		names := make([]string, 0, len(selected))
		for _, pageSize := range selected {
			names = append(names, pageSize.Feature())
		}
		return 0, &ProfileError{Msg: fmt.Sprintf(
			"can not enable more than one page size, got %s", strings.Join(names, ", "),
		)}
	}
}

func pageSizeFeatures() []string {
	names := make([]string, 0, len(pageSizes))
	for _, pageSize := range pageSizes {
		names = append(names, pageSize.Feature())
	}
	return names
}

func validateFeatures(features []string) error {
	known := KnownFeatures()
	for _, feature := range features {
		if !slices.Contains(known, feature) {
			return &ProfileError{Msg: fmt.Sprintf("unknown feature %q", feature)}
		}
	}
	return nil
}

// BuildProfile is the compiler configuration derived from the enabled features.
type BuildProfile struct {
	PageSize     PageSize
	Features     []string
	Defines      []string
	ExtraSources []string
}

// NewBuildProfile resolves features into defines. Duplicated features are collapsed.
func NewBuildProfile(features, baseDefines []string, debug bool) (*BuildProfile, error) {
	enabled := slices.Clone(features)
	slices.Sort(enabled)
	enabled = slices.Compact(enabled)

	pageSize, err := SelectPageSize(enabled)
	if err != nil {
		return nil, err
	}

	defines := slices.Clone(baseDefines)
	defines = append(defines, pageSize.Define())
	for _, feature := range enabled {
		if define, ok := toggleDefines[feature]; ok {
			defines = append(defines, define)
		}
	}
	if !debug {
		defines = append(defines, "NDEBUG")
	}

	profile := &BuildProfile{
		PageSize: pageSize,
		Features: enabled,
		Defines:  defines,
	}
	if slices.Contains(enabled, FeatureExtension) {
		profile.ExtraSources = append(profile.ExtraSources, ExtensionBridgeSource)
	}
	return profile, nil
}
