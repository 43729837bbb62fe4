package domain

import "slices"

// PackageableResource is one resource rule reachable from an android_binary.
type PackageableResource struct {
	Target                BuildTarget
	ResDir                SourcePath
	AssetsDir             SourcePath
	HasWhitelistedStrings bool
}

// PackageableCollection holds the transitive packageable dependencies of a
// binary in discovery order.
type PackageableCollection struct {
	Resources []PackageableResource
}

// ResourceDetails is the partition of a PackageableCollection the resource
// pipeline consumes. Every list keeps discovery order and holds no duplicates.
type ResourceDetails struct {
	resourcesWithNonEmptyResDir  []BuildTarget
	resourceDirectories          []SourcePath
	whitelistedStringDirectories []SourcePath
	assetsDirectories            []SourcePath
}

// ResourceDetails partitions the collection.
// Resource rules without a res directory contribute only their assets.
func (c PackageableCollection) ResourceDetails() ResourceDetails {
	var d ResourceDetails
	seenTargets := make(map[BuildTarget]struct{})
	seenRes := make(map[SourcePath]struct{})
	seenStrings := make(map[SourcePath]struct{})
	seenAssets := make(map[SourcePath]struct{})

	for _, r := range c.Resources {
		if !r.ResDir.IsZero() {
			if _, ok := seenTargets[r.Target]; !ok {
				seenTargets[r.Target] = struct{}{}
				d.resourcesWithNonEmptyResDir = append(d.resourcesWithNonEmptyResDir, r.Target)
			}
			if _, ok := seenRes[r.ResDir]; !ok {
				seenRes[r.ResDir] = struct{}{}
				d.resourceDirectories = append(d.resourceDirectories, r.ResDir)
			}
			if r.HasWhitelistedStrings {
				if _, ok := seenStrings[r.ResDir]; !ok {
					seenStrings[r.ResDir] = struct{}{}
					d.whitelistedStringDirectories = append(d.whitelistedStringDirectories, r.ResDir)
				}
			}
		}
		if !r.AssetsDir.IsZero() {
			if _, ok := seenAssets[r.AssetsDir]; !ok {
				seenAssets[r.AssetsDir] = struct{}{}
				d.assetsDirectories = append(d.assetsDirectories, r.AssetsDir)
			}
		}
	}
	return d
}

// ResourcesWithNonEmptyResDir returns the resource targets that declare a res directory.
func (d ResourceDetails) ResourcesWithNonEmptyResDir() []BuildTarget {
	return slices.Clone(d.resourcesWithNonEmptyResDir)
}

// ResourceDirectories returns every res directory.
func (d ResourceDetails) ResourceDirectories() []SourcePath {
	return slices.Clone(d.resourceDirectories)
}

// WhitelistedStringDirectories returns the res directories whose strings are kept by the filter.
func (d ResourceDetails) WhitelistedStringDirectories() []SourcePath {
	return slices.Clone(d.whitelistedStringDirectories)
}

// AssetsDirectories returns every assets directory.
func (d ResourceDetails) AssetsDirectories() []SourcePath {
	return slices.Clone(d.assetsDirectories)
}
