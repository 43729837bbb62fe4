// Package enhancer derives the resource sub-graph of an android_binary.
//
// Given the packageable collection of a binary, the enhancer creates the
// intermediate actions that filter, package and merge its resources, registers
// each of them into the shared action index, and returns the assembled result.
package enhancer

import (
	"context"
	"fmt"

	"go.trai.ch/resgraph/internal/core/domain"
	"go.trai.ch/resgraph/internal/core/ports"
	"go.trai.ch/zerr"
)

// Flavors of the actions created by the enhancer.
var (
	ResourcesFilterFlavor     = domain.MustFlavor("resources_filter")
	AaptPackageFlavor         = domain.MustFlavor("aapt_package")
	Aapt2LinkFlavor           = domain.MustFlavor("aapt2_link")
	PackageStringAssetsFlavor = domain.MustFlavor("package_string_assets")
	MergeAssetsFlavor         = domain.MustFlavor("merge_assets")
)

// Registry receives every action the enhancer creates.
type Registry interface {
	Register(node *domain.ActionNode) error
}

// Deps are the collaborators of an Enhancer.
type Deps struct {
	Registry Registry
	Resolver ports.RuleResolver
	Tracer   ports.Tracer
	Logger   ports.Logger
}

// Enhancer builds the resource sub-graph of one android_binary.
type Enhancer struct {
	target   domain.BuildTarget
	cfg      domain.EnhancementConfig
	registry Registry
	resolver ports.RuleResolver
	tracer   ports.Tracer
	logger   ports.Logger
}

// New creates an Enhancer for the binary target.
// The config is copied and validated; an invalid config is rejected before any action is created.
func New(target domain.BuildTarget, cfg domain.EnhancementConfig, deps Deps) (*Enhancer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, zerr.With(err, "target", target.String())
	}
	return &Enhancer{
		target:   target,
		cfg:      cfg.Clone(),
		registry: deps.Registry,
		resolver: deps.Resolver,
		tracer:   deps.Tracer,
		logger:   deps.Logger,
	}, nil
}

// Enhance runs the pipeline stages in order: resource filter, packaging,
// string assets, asset merge. Each action is registered as soon as it is built.
// Errors from the rule resolver are returned unchanged; on error the result is
// discarded, though actions registered by earlier stages stay in the index.
func (e *Enhancer) Enhance(ctx context.Context, collection domain.PackageableCollection) (*domain.EnhancementResult, error) {
	ctx, span := e.tracer.Start(ctx, "enhance_resources", ports.WithAttribute("target", e.target.String()))
	defer span.End()

	result, err := e.enhance(ctx, collection)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("enhanced_deps", len(result.EnhancedDeps()))
	return result, nil
}

// staging accumulates the state shared by the pipeline stages.
type staging struct {
	details domain.ResourceDetails
	// resourceRules collapses to the filter node once the filter stage ran.
	resourceRules []*domain.ActionNode
	resourceDeps  []*domain.ActionNode
	dirOwners     []*domain.ActionNode
	provider      resourcesProvider
	packaging     aaptOutput
	stringAssets  *domain.PackageStringAssets
	assetZips     []domain.SourcePath
	mergeAssets   *domain.ActionNode
	enhanced      []*domain.ActionNode
}

func (e *Enhancer) enhance(ctx context.Context, collection domain.PackageableCollection) (*domain.EnhancementResult, error) {
	s := &staging{details: collection.ResourceDetails()}

	if len(s.details.ResourceDirectories()) == 0 {
		e.logger.Warn(fmt.Sprintf("%s reaches no resource directory", e.target))
	}

	deps, err := e.requireResourceRules(ctx, s.details.ResourcesWithNonEmptyResDir())
	if err != nil {
		return nil, err
	}
	s.resourceRules = deps
	s.resourceDeps = deps

	if s.dirOwners, err = e.requireOwners(ctx, s.details.ResourceDirectories()); err != nil {
		return nil, err
	}

	s.provider = identityProvider{dirs: s.details.ResourceDirectories()}

	stages := []struct {
		name string
		run  func(context.Context, *staging) error
		skip bool
	}{
		{name: "resources_filter", run: e.filterResources, skip: !e.cfg.NeedsResourceFilter()},
		{name: "package_resources", run: e.packageResources},
		{name: "package_string_assets", run: e.packageStringAssets, skip: !e.cfg.CompressionMode.StoreStringsAsAssets()},
		{name: "merge_assets", run: e.mergeAssets},
	}
	for _, stage := range stages {
		if stage.skip {
			continue
		}
		if err := e.runStage(ctx, stage.name, func(ctx context.Context) error { return stage.run(ctx, s) }); err != nil {
			return nil, err
		}
	}

	merged, _ := s.mergeAssets.Output(domain.OutputResourcesApk)

	return domain.NewEnhancementResult(domain.EnhancementResultParams{
		RDotTxt:                  s.packaging.rDotTxt,
		RDotJavaDir:              s.packaging.rDotJavaDir,
		PrimaryResourcesApk:      merged,
		AndroidManifestXML:       s.packaging.manifest,
		AaptGeneratedProguardCfg: s.packaging.proguardConfig,
		PackageStringAssets:      s.stringAssets,
		EnhancedDeps:             s.enhanced,
		PrimaryApkAssetZips:      s.assetZips,
	}), nil
}

func (e *Enhancer) runStage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := e.tracer.Start(ctx, name)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// add registers node and records it as an enhanced dependency.
func (e *Enhancer) add(s *staging, node *domain.ActionNode) error {
	if err := e.registry.Register(node); err != nil {
		return err
	}
	s.enhanced = append(s.enhanced, node)
	return nil
}

// requireResourceRules resolves resource targets and checks they are resource rules.
func (e *Enhancer) requireResourceRules(ctx context.Context, targets []domain.BuildTarget) ([]*domain.ActionNode, error) {
	nodes := make([]*domain.ActionNode, 0, len(targets))
	for _, t := range targets {
		node, err := e.requireKind(ctx, t, domain.KindAndroidResource)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// requireOwners resolves the actions producing target-backed paths.
// Plain paths have no owner and are skipped.
func (e *Enhancer) requireOwners(ctx context.Context, paths []domain.SourcePath) ([]*domain.ActionNode, error) {
	var nodes []*domain.ActionNode
	for _, p := range paths {
		owner, ok := p.Owner()
		if !ok {
			continue
		}
		node, err := e.resolver.RequireRule(ctx, owner)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (e *Enhancer) requireKind(ctx context.Context, target domain.BuildTarget, kind domain.RuleKind) (*domain.ActionNode, error) {
	node, err := e.resolver.RequireRule(ctx, target)
	if err != nil {
		return nil, err
	}
	if node.Kind() != kind {
		err := zerr.With(domain.ErrWrongRuleKind, "target", target.String())
		err = zerr.With(err, "kind", string(node.Kind()))
		return nil, zerr.With(err, "expected_kind", string(kind))
	}
	return node, nil
}

func (e *Enhancer) flavored(f domain.Flavor) domain.BuildTarget {
	return e.target.WithFlavors(f)
}
