package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// PackagingMode selects the resource packaging tool.
type PackagingMode string

const (
	// PackagingAapt1 packages resources in one step with the legacy tool.
	PackagingAapt1 PackagingMode = "aapt1"
	// PackagingAapt2 compiles each resource rule separately, then links them.
	PackagingAapt2 PackagingMode = "aapt2"
)

// CompressionMode controls how resources are compressed in the final artifact.
type CompressionMode string

const (
	CompressionDisabled                   CompressionMode = "disabled"
	CompressionEnabled                    CompressionMode = "enabled"
	CompressionEnabledStringsOnly         CompressionMode = "enabled_strings_only"
	CompressionEnabledWithStringsAsAssets CompressionMode = "enabled_with_strings_as_assets"
)

// StoreStringsAsAssets reports whether string resources are moved into an assets zip.
func (m CompressionMode) StoreStringsAsAssets() bool {
	return m == CompressionEnabledWithStringsAsAssets
}

// IsCompressed reports whether any resource compression is applied.
func (m CompressionMode) IsCompressed() bool {
	return m != CompressionDisabled && m != ""
}

// ResourceFilter selects the screen densities kept in the final artifact.
type ResourceFilter struct {
	Densities []string
	Downscale bool
}

// Enabled reports whether the filter removes anything.
func (f ResourceFilter) Enabled() bool {
	return len(f.Densities) > 0
}

// ManifestEntries override values of the application manifest.
type ManifestEntries struct {
	MinSdkVersion    *int
	TargetSdkVersion *int
	VersionCode      *int
	VersionName      string
	DebugMode        *bool
}

// IsEmpty reports whether no entry is overridden.
func (e ManifestEntries) IsEmpty() bool {
	return e.MinSdkVersion == nil && e.TargetSdkVersion == nil && e.VersionCode == nil &&
		e.VersionName == "" && e.DebugMode == nil
}

// EnhancementConfig is the frozen configuration of one android_binary.
type EnhancementConfig struct {
	PackagingMode                PackagingMode
	ResourceFilter               ResourceFilter
	CompressionMode              CompressionMode
	Locales                      []string
	Manifest                     SourcePath
	ManifestEntries              ManifestEntries
	ResourceUnionPackage         string
	IncludesVectorDrawables      bool
	SkipCrunchPngs               bool
	BannedDuplicateResourceTypes []string
	PostFilterResourcesCmd       string
	ShouldBuildStringSourceMap   bool
}

// Clone returns a deep copy of the config, so later mutation by the caller
// cannot leak into an enhancement.
func (c EnhancementConfig) Clone() EnhancementConfig {
	c.ResourceFilter.Densities = slices.Clone(c.ResourceFilter.Densities)
	c.Locales = slices.Clone(c.Locales)
	c.BannedDuplicateResourceTypes = slices.Clone(c.BannedDuplicateResourceTypes)
	c.ManifestEntries = ManifestEntries{
		MinSdkVersion:    clonePtr(c.ManifestEntries.MinSdkVersion),
		TargetSdkVersion: clonePtr(c.ManifestEntries.TargetSdkVersion),
		VersionCode:      clonePtr(c.ManifestEntries.VersionCode),
		VersionName:      c.ManifestEntries.VersionName,
		DebugMode:        clonePtr(c.ManifestEntries.DebugMode),
	}
	return c
}

// NeedsResourceFilter reports whether the filter stage must run.
func (c EnhancementConfig) NeedsResourceFilter() bool {
	return c.ResourceFilter.Enabled() || c.CompressionMode.StoreStringsAsAssets() || len(c.Locales) > 0
}

// Validate checks the enumerated options and rejects combinations the pipeline cannot build.
func (c EnhancementConfig) Validate() error {
	switch c.PackagingMode {
	case PackagingAapt1, PackagingAapt2:
	default:
		return zerr.With(ErrUnknownPackagingMode, "mode", string(c.PackagingMode))
	}

	switch c.CompressionMode {
	case CompressionDisabled, CompressionEnabled, CompressionEnabledStringsOnly, CompressionEnabledWithStringsAsAssets:
	default:
		return zerr.With(ErrUnknownCompressionMode, "mode", string(c.CompressionMode))
	}

	if c.ResourceFilter.Downscale && !c.ResourceFilter.Enabled() {
		return zerr.With(ErrConflictingOptions, "reason", "downscale requires at least one density")
	}

	if c.ShouldBuildStringSourceMap && c.PackagingMode != PackagingAapt1 {
		return zerr.With(ErrConflictingOptions, "reason", "string source map requires aapt1 packaging")
	}

	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
