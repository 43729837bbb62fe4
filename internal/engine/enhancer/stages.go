package enhancer

import (
	"context"
	"slices"
	"strconv"

	"go.trai.ch/resgraph/internal/core/domain"
	"go.trai.ch/zerr"
)

// aaptOutput describes what the packaging stage produced.
// rDotJavaDir is zero when the packaging tool generates no R.java sources.
type aaptOutput struct {
	node           *domain.ActionNode
	rDotTxt        domain.SourcePath
	rDotJavaDir    domain.SourcePath
	resourcesApk   domain.SourcePath
	manifest       domain.SourcePath
	proguardConfig domain.SourcePath
}

// filterResources creates the resources filter and collapses the resource rules onto it.
func (e *Enhancer) filterResources(_ context.Context, s *staging) error {
	target := e.flavored(ResourcesFilterFlavor)
	rawDirs := s.details.ResourceDirectories()

	outputs := make(map[domain.OutputName]string, len(rawDirs))
	for i := range rawDirs {
		outputs[domain.FilteredResDirOutput(i)] = domain.GenPath(target, "%s/res/"+strconv.Itoa(i))
	}

	args := make([]string, 0, 2*len(rawDirs))
	for _, density := range e.cfg.ResourceFilter.Densities {
		args = append(args, "--density", density)
	}
	if e.cfg.ResourceFilter.Downscale {
		args = append(args, "--downscale")
	}
	for _, locale := range e.cfg.Locales {
		args = append(args, "--locale", locale)
	}
	if e.cfg.CompressionMode.IsCompressed() {
		args = append(args, "--resource-compression", string(e.cfg.CompressionMode))
	}
	if e.cfg.CompressionMode.StoreStringsAsAssets() {
		args = append(args, "--store-strings-as-assets")
	}
	for _, dir := range s.details.WhitelistedStringDirectories() {
		args = append(args, "--whitelisted-strings", dir.Path())
	}
	if e.cfg.PostFilterResourcesCmd != "" {
		args = append(args, "--post-filter-cmd", e.cfg.PostFilterResourcesCmd)
	}
	for _, dir := range rawDirs {
		args = append(args, dir.Path())
	}

	node := domain.NewActionNode(domain.ActionSpec{
		Target:  target,
		Kind:    domain.KindResourcesFilter,
		Deps:    slices.Concat(s.resourceRules, s.dirOwners),
		Outputs: outputs,
		Policy:  domain.ExecutionPolicy{Tool: "resources_filter", Args: args},
	})
	if err := e.add(s, node); err != nil {
		return err
	}

	filtered := make([]domain.SourcePath, len(rawDirs))
	for i := range rawDirs {
		filtered[i], _ = node.Output(domain.FilteredResDirOutput(i))
	}
	s.provider = filteredProvider{node: node, dirs: filtered}
	s.resourceRules = []*domain.ActionNode{node}
	return nil
}

// packageResources creates the packaging action for the configured tool.
func (e *Enhancer) packageResources(ctx context.Context, s *staging) error {
	switch e.cfg.PackagingMode {
	case domain.PackagingAapt1:
		return e.aaptPackage(ctx, s)
	case domain.PackagingAapt2:
		return e.aapt2Link(ctx, s)
	default:
		return zerr.With(domain.ErrUnknownPackagingMode, "mode", string(e.cfg.PackagingMode))
	}
}

func (e *Enhancer) aaptPackage(ctx context.Context, s *staging) error {
	target := e.flavored(AaptPackageFlavor)

	manifestOwner, err := e.requireOwners(ctx, []domain.SourcePath{e.cfg.Manifest})
	if err != nil {
		return err
	}

	deps := slices.Concat(s.resourceRules, s.dirOwners, s.resourceDeps, manifestOwner)
	if owner, ok := s.provider.Owner(); ok {
		deps = append(deps, owner)
	}

	outputs := packagingOutputs(target)
	outputs[domain.OutputRDotJavaDir] = domain.GenPath(target, "%s/__rdotjava__")
	if e.cfg.ShouldBuildStringSourceMap {
		outputs[domain.OutputStringSourceMap] = domain.GenPath(target, "%s/string_source_map")
	}

	args := e.commonPackagingArgs("package")
	for _, dir := range s.provider.ResDirectories() {
		args = append(args, "-S", dir.Path())
	}
	if e.cfg.SkipCrunchPngs {
		args = append(args, "--no-crunch")
	}
	if e.cfg.ShouldBuildStringSourceMap {
		args = append(args, "--output-string-source-map")
	}

	node := domain.NewActionNode(domain.ActionSpec{
		Target:  target,
		Kind:    domain.KindAaptPackage,
		Deps:    deps,
		Outputs: outputs,
		Policy:  domain.ExecutionPolicy{Tool: "aapt", Args: args},
	})
	if err := e.add(s, node); err != nil {
		return err
	}

	s.packaging = newAaptOutput(node)
	return nil
}

func (e *Enhancer) aapt2Link(ctx context.Context, s *staging) error {
	target := e.flavored(Aapt2LinkFlavor)

	compiled := make([]*domain.ActionNode, 0, len(s.details.ResourcesWithNonEmptyResDir()))
	for _, res := range s.details.ResourcesWithNonEmptyResDir() {
		node, err := e.requireKind(ctx, res.WithFlavors(domain.Aapt2CompileFlavor), domain.KindAapt2Compile)
		if err != nil {
			return err
		}
		compiled = append(compiled, node)
	}

	manifestOwner, err := e.requireOwners(ctx, []domain.SourcePath{e.cfg.Manifest})
	if err != nil {
		return err
	}

	args := e.commonPackagingArgs("link")
	for _, node := range compiled {
		if flata, ok := node.Output(domain.OutputFlata); ok {
			args = append(args, "-R", flata.Path())
		}
	}

	node := domain.NewActionNode(domain.ActionSpec{
		Target:  target,
		Kind:    domain.KindAapt2Link,
		Deps:    slices.Concat(compiled, s.resourceRules, s.resourceDeps, manifestOwner),
		Outputs: packagingOutputs(target),
		Policy:  domain.ExecutionPolicy{Tool: "aapt2", Args: args},
	})
	if err := e.add(s, node); err != nil {
		return err
	}

	s.packaging = newAaptOutput(node)
	return nil
}

// packageStringAssets extracts string resources into an assets zip.
func (e *Enhancer) packageStringAssets(_ context.Context, s *staging) error {
	target := e.flavored(PackageStringAssetsFlavor)

	deps := slices.Concat([]*domain.ActionNode{s.packaging.node}, s.resourceRules, s.dirOwners)
	// The filter caches the presence of res directories.
	if owner, ok := s.provider.Owner(); ok {
		deps = append(deps, owner)
	}

	args := []string{"--r-txt", s.packaging.rDotTxt.Path()}
	for _, locale := range e.cfg.Locales {
		args = append(args, "--locale", locale)
	}
	for _, dir := range s.provider.ResDirectories() {
		args = append(args, dir.Path())
	}

	node := domain.NewActionNode(domain.ActionSpec{
		Target:  target,
		Kind:    domain.KindPackageStringAssets,
		Deps:    deps,
		Outputs: map[domain.OutputName]string{domain.OutputStringAssetsZip: domain.GenPath(target, "%s/string_assets.zip")},
		Policy:  domain.ExecutionPolicy{Tool: "package_string_assets", Args: args},
	})
	if err := e.add(s, node); err != nil {
		return err
	}

	zip, _ := node.Output(domain.OutputStringAssetsZip)
	s.stringAssets = &domain.PackageStringAssets{Node: node, StringAssetsZip: zip}
	s.assetZips = append(s.assetZips, zip)
	return nil
}

// mergeAssets merges every assets directory into the packaged resources apk.
func (e *Enhancer) mergeAssets(ctx context.Context, s *staging) error {
	target := e.flavored(MergeAssetsFlavor)

	assetDirs := s.details.AssetsDirectories()
	assetOwners, err := e.requireOwners(ctx, assetDirs)
	if err != nil {
		return err
	}

	args := []string{"--base-apk", s.packaging.resourcesApk.Path()}
	for _, dir := range assetDirs {
		args = append(args, dir.Path())
	}

	node := domain.NewActionNode(domain.ActionSpec{
		Target:  target,
		Kind:    domain.KindMergeAssets,
		Deps:    slices.Concat([]*domain.ActionNode{s.packaging.node}, assetOwners),
		Outputs: map[domain.OutputName]string{domain.OutputResourcesApk: domain.GenPath(target, "%s/merged.assets.ap_")},
		Policy:  domain.ExecutionPolicy{Tool: "merge_assets", Args: args},
	})
	if err := e.add(s, node); err != nil {
		return err
	}

	s.mergeAssets = node
	return nil
}

// commonPackagingArgs renders the options shared by both packaging tools.
func (e *Enhancer) commonPackagingArgs(command string) []string {
	args := []string{command}
	if !e.cfg.Manifest.IsZero() {
		args = append(args, "--manifest", e.cfg.Manifest.Path())
	}

	if entries := e.cfg.ManifestEntries; !entries.IsEmpty() {
		args = append(args, manifestEntryArgs(entries)...)
	}

	if e.cfg.ResourceUnionPackage != "" {
		args = append(args, "--extra-packages", e.cfg.ResourceUnionPackage)
	}
	if e.cfg.IncludesVectorDrawables {
		args = append(args, "--no-version-vectors")
	}
	for _, t := range e.cfg.BannedDuplicateResourceTypes {
		args = append(args, "--banned-duplicate-type", t)
	}
	return args
}

func packagingOutputs(target domain.BuildTarget) map[domain.OutputName]string {
	return map[domain.OutputName]string{
		domain.OutputRDotTxt:        domain.GenPath(target, "%s/R.txt"),
		domain.OutputResourcesApk:   domain.GenPath(target, "%s/resource-apk.ap_"),
		domain.OutputManifest:       domain.GenPath(target, "%s/AndroidManifest.xml"),
		domain.OutputProguardConfig: domain.GenPath(target, "%s/proguard.txt"),
	}
}

func newAaptOutput(node *domain.ActionNode) aaptOutput {
	out := aaptOutput{node: node}
	out.rDotTxt, _ = node.Output(domain.OutputRDotTxt)
	out.rDotJavaDir, _ = node.Output(domain.OutputRDotJavaDir)
	out.resourcesApk, _ = node.Output(domain.OutputResourcesApk)
	out.manifest, _ = node.Output(domain.OutputManifest)
	out.proguardConfig, _ = node.Output(domain.OutputProguardConfig)
	return out
}

// manifestEntryArgs renders the manifest values overridden by the binary.
func manifestEntryArgs(entries domain.ManifestEntries) []string {
	var args []string
	if entries.MinSdkVersion != nil {
		args = append(args, "--min-sdk-version", strconv.Itoa(*entries.MinSdkVersion))
	}
	if entries.TargetSdkVersion != nil {
		args = append(args, "--target-sdk-version", strconv.Itoa(*entries.TargetSdkVersion))
	}
	if entries.VersionCode != nil {
		args = append(args, "--version-code", strconv.Itoa(*entries.VersionCode))
	}
	if entries.VersionName != "" {
		args = append(args, "--version-name", entries.VersionName)
	}
	if entries.DebugMode != nil && *entries.DebugMode {
		args = append(args, "--debug-mode")
	}
	return args
}
