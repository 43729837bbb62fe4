package domain

import "slices"

// PackageStringAssets pairs the string-assets action with the zip it produces.
type PackageStringAssets struct {
	Node            *ActionNode
	StringAssetsZip SourcePath
}

// EnhancementResultParams collects the fields of an EnhancementResult.
type EnhancementResultParams struct {
	RDotTxt                  SourcePath
	RDotJavaDir              SourcePath
	PrimaryResourcesApk      SourcePath
	AndroidManifestXML       SourcePath
	AaptGeneratedProguardCfg SourcePath
	PackageStringAssets      *PackageStringAssets
	EnhancedDeps             []*ActionNode
	PrimaryApkAssetZips      []SourcePath
}

// EnhancementResult is the output of one resource graph enhancement.
// It is immutable; slice accessors return copies.
type EnhancementResult struct {
	rDotTxt                  SourcePath
	rDotJavaDir              SourcePath
	primaryResourcesApk      SourcePath
	androidManifestXML       SourcePath
	aaptGeneratedProguardCfg SourcePath
	packageStringAssets      *PackageStringAssets
	enhancedDeps             []*ActionNode
	primaryApkAssetZips      []SourcePath
}

// NewEnhancementResult freezes p into an EnhancementResult.
func NewEnhancementResult(p EnhancementResultParams) *EnhancementResult {
	r := &EnhancementResult{
		rDotTxt:                  p.RDotTxt,
		rDotJavaDir:              p.RDotJavaDir,
		primaryResourcesApk:      p.PrimaryResourcesApk,
		androidManifestXML:       p.AndroidManifestXML,
		aaptGeneratedProguardCfg: p.AaptGeneratedProguardCfg,
		enhancedDeps:             slices.Clone(p.EnhancedDeps),
		primaryApkAssetZips:      slices.Clone(p.PrimaryApkAssetZips),
	}
	if p.PackageStringAssets != nil {
		psa := *p.PackageStringAssets
		r.packageStringAssets = &psa
	}
	return r
}

// RDotTxt returns the path of the generated R.txt symbol table.
func (r *EnhancementResult) RDotTxt() SourcePath {
	return r.rDotTxt
}

// RDotJavaDir returns the directory of generated R.java sources, if the packaging tool produced one.
func (r *EnhancementResult) RDotJavaDir() (SourcePath, bool) {
	return r.rDotJavaDir, !r.rDotJavaDir.IsZero()
}

// PrimaryResourcesApk returns the resources apk produced by the asset merge.
func (r *EnhancementResult) PrimaryResourcesApk() SourcePath {
	return r.primaryResourcesApk
}

// AndroidManifestXML returns the path of the processed manifest.
func (r *EnhancementResult) AndroidManifestXML() SourcePath {
	return r.androidManifestXML
}

// AaptGeneratedProguardConfig returns the proguard configuration emitted by the packaging tool.
func (r *EnhancementResult) AaptGeneratedProguardConfig() SourcePath {
	return r.aaptGeneratedProguardCfg
}

// PackageStringAssets returns the string-assets action, if strings are stored as assets.
func (r *EnhancementResult) PackageStringAssets() (PackageStringAssets, bool) {
	if r.packageStringAssets == nil {
		return PackageStringAssets{}, false
	}
	return *r.packageStringAssets, true
}

// EnhancedDeps returns every action created by the enhancement, in creation order.
func (r *EnhancementResult) EnhancedDeps() []*ActionNode {
	return slices.Clone(r.enhancedDeps)
}

// PrimaryApkAssetZips returns the asset zips to add to the primary apk.
func (r *EnhancementResult) PrimaryApkAssetZips() []SourcePath {
	return slices.Clone(r.primaryApkAssetZips)
}

// ExoResources returns the resources installed separately for exopackage builds.
// This engine never splits resources out, so the list is always empty.
func (r *EnhancementResult) ExoResources() []SourcePath {
	return []SourcePath{}
}
