// Package resolver turns the rules of a project into action nodes.
package resolver

import (
	"context"
	"sync"

	"go.trai.ch/resgraph/internal/core/domain"
	"go.trai.ch/resgraph/internal/core/ports"
	"go.trai.ch/resgraph/internal/engine/enhancer"
	"go.trai.ch/resgraph/internal/engine/index"
	"go.trai.ch/zerr"
)

// Resolver creates the action of a target on first use and stores it in the
// shared index. Android binaries are enhanced with their resource sub-graph.
type Resolver struct {
	project *domain.Project
	index   *index.Index
	tracer  ports.Tracer
	logger  ports.Logger
	results sync.Map // domain.BuildTarget -> *domain.EnhancementResult
}

var _ ports.RuleResolver = (*Resolver)(nil)

// New creates a Resolver over a validated project.
func New(project *domain.Project, ix *index.Index, tracer ports.Tracer, logger ports.Logger) *Resolver {
	return &Resolver{
		project: project,
		index:   ix,
		tracer:  tracer,
		logger:  logger,
	}
}

// RequireRule returns the node for target, creating it and its dependencies on first use.
// Concurrent callers for the same target share one creation.
func (r *Resolver) RequireRule(ctx context.Context, target domain.BuildTarget) (*domain.ActionNode, error) {
	return r.index.LookupOrCreate(target, func() (*domain.ActionNode, error) {
		return r.create(ctx, target)
	})
}

// Result returns the enhancement result of an android_binary that was already required.
func (r *Resolver) Result(target domain.BuildTarget) (*domain.EnhancementResult, bool) {
	v, ok := r.results.Load(target)
	if !ok {
		return nil, false
	}
	return v.(*domain.EnhancementResult), true
}

func (r *Resolver) create(ctx context.Context, target domain.BuildTarget) (*domain.ActionNode, error) {
	rule, ok := r.project.Rule(target.WithoutFlavors())
	if !ok {
		return nil, zerr.With(domain.ErrNoSuchBuildTarget, "target", target.String())
	}

	if target.IsFlavored() {
		if len(target.Flavors()) != 1 || !target.HasFlavor(domain.Aapt2CompileFlavor) {
			return nil, zerr.With(domain.ErrNoSuchBuildTarget, "target", target.String())
		}
		return r.createCompile(ctx, target, rule)
	}

	switch rule.Kind {
	case domain.KindAndroidResource:
		return r.createResource(ctx, rule)
	case domain.KindGenrule:
		return r.createGenrule(ctx, rule)
	case domain.KindAndroidLibrary:
		return r.createLibrary(ctx, rule)
	case domain.KindAndroidBinary:
		return r.createBinary(ctx, rule)
	default:
		err := zerr.With(domain.ErrUnknownRuleType, "target", target.String())
		return nil, zerr.With(err, "kind", string(rule.Kind))
	}
}

func (r *Resolver) createResource(ctx context.Context, rule domain.RuleDescription) (*domain.ActionNode, error) {
	deps, err := r.requireAll(ctx, rule.AllDeps())
	if err != nil {
		return nil, err
	}

	outputs := map[domain.OutputName]string{
		domain.OutputRDotTxt: domain.GenPath(rule.Target, "%s/R.txt"),
	}
	if !rule.ResDir.IsZero() {
		outputs[domain.OutputResDir] = rule.ResDir.Path()
	}
	if !rule.AssetsDir.IsZero() {
		outputs[domain.OutputAssetsDir] = rule.AssetsDir.Path()
	}

	return domain.NewActionNode(domain.ActionSpec{
		Target:  rule.Target,
		Kind:    domain.KindAndroidResource,
		Deps:    deps,
		Outputs: outputs,
	}), nil
}

func (r *Resolver) createCompile(ctx context.Context, target domain.BuildTarget, rule domain.RuleDescription) (*domain.ActionNode, error) {
	if rule.Kind != domain.KindAndroidResource || rule.ResDir.IsZero() {
		err := zerr.With(domain.ErrWrongRuleKind, "target", target.String())
		return nil, zerr.With(err, "kind", string(rule.Kind))
	}

	base, err := r.RequireRule(ctx, rule.Target)
	if err != nil {
		return nil, err
	}

	return domain.NewActionNode(domain.ActionSpec{
		Target:  target,
		Kind:    domain.KindAapt2Compile,
		Deps:    []*domain.ActionNode{base},
		Outputs: map[domain.OutputName]string{domain.OutputFlata: domain.GenPath(target, "%s/resources.flata")},
		Policy: domain.ExecutionPolicy{
			Tool: "aapt2",
			Args: []string{"compile", "--dir", rule.ResDir.Path()},
		},
	}), nil
}

func (r *Resolver) createGenrule(ctx context.Context, rule domain.RuleDescription) (*domain.ActionNode, error) {
	deps, err := r.requireAll(ctx, rule.AllDeps())
	if err != nil {
		return nil, err
	}

	return domain.NewActionNode(domain.ActionSpec{
		Target:  rule.Target,
		Kind:    domain.KindGenrule,
		Deps:    deps,
		Outputs: map[domain.OutputName]string{domain.OutputDefault: domain.GenruleOutput(rule.Target, rule.Out)},
		Policy:  domain.ExecutionPolicy{Tool: "sh", Args: []string{"-c", rule.Cmd}},
	}), nil
}

func (r *Resolver) createLibrary(ctx context.Context, rule domain.RuleDescription) (*domain.ActionNode, error) {
	deps, err := r.requireAll(ctx, rule.AllDeps())
	if err != nil {
		return nil, err
	}
	return domain.NewActionNode(domain.ActionSpec{
		Target: rule.Target,
		Kind:   domain.KindAndroidLibrary,
		Deps:   deps,
	}), nil
}

func (r *Resolver) createBinary(ctx context.Context, rule domain.RuleDescription) (*domain.ActionNode, error) {
	ctx, span := r.tracer.Start(ctx, "require_binary", ports.WithAttribute("target", rule.Target.String()))
	defer span.End()

	node, err := r.assembleBinary(ctx, rule)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return node, nil
}

func (r *Resolver) assembleBinary(ctx context.Context, rule domain.RuleDescription) (*domain.ActionNode, error) {
	if rule.Binary == nil {
		err := zerr.With(domain.ErrWrongRuleKind, "target", rule.Target.String())
		return nil, zerr.With(err, "reason", "missing binary configuration")
	}

	declared, err := r.requireAll(ctx, rule.Deps)
	if err != nil {
		return nil, err
	}

	e, err := enhancer.New(rule.Target, *rule.Binary, enhancer.Deps{
		Registry: r.index,
		Resolver: r,
		Tracer:   r.tracer,
		Logger:   r.logger,
	})
	if err != nil {
		return nil, err
	}

	result, err := e.Enhance(ctx, r.collect(rule))
	if err != nil {
		return nil, err
	}

	args := []string{"--resources-apk", result.PrimaryResourcesApk().Path()}
	for _, zip := range result.PrimaryApkAssetZips() {
		args = append(args, "--zip", zip.Path())
	}

	node := domain.NewActionNode(domain.ActionSpec{
		Target:  rule.Target,
		Kind:    domain.KindAndroidBinary,
		Deps:    append(result.EnhancedDeps(), declared...),
		Outputs: map[domain.OutputName]string{domain.OutputApk: domain.GenPath(rule.Target, "%s.apk")},
		Policy:  domain.ExecutionPolicy{Tool: "apkbuilder", Args: args},
	})
	r.results.Store(rule.Target, result)
	return node, nil
}

// collect walks the declared dependencies of a binary depth-first, in
// declaration order, and gathers every resource rule it reaches once.
// Only libraries and resources are traversed.
func (r *Resolver) collect(binary domain.RuleDescription) domain.PackageableCollection {
	var collection domain.PackageableCollection
	visited := make(map[domain.BuildTarget]struct{})

	var visit func(target domain.BuildTarget)
	visit = func(target domain.BuildTarget) {
		if _, ok := visited[target]; ok {
			return
		}
		visited[target] = struct{}{}

		rule, ok := r.project.Rule(target)
		if !ok {
			return
		}
		switch rule.Kind {
		case domain.KindAndroidResource:
			collection.Resources = append(collection.Resources, domain.PackageableResource{
				Target:                rule.Target,
				ResDir:                rule.ResDir,
				AssetsDir:             rule.AssetsDir,
				HasWhitelistedStrings: rule.HasWhitelistedStrings,
			})
		case domain.KindAndroidLibrary:
		default:
			return
		}
		for _, dep := range rule.Deps {
			visit(dep)
		}
	}

	for _, dep := range binary.Deps {
		visit(dep)
	}
	return collection
}

func (r *Resolver) requireAll(ctx context.Context, targets []domain.BuildTarget) ([]*domain.ActionNode, error) {
	nodes := make([]*domain.ActionNode, 0, len(targets))
	for _, t := range targets {
		node, err := r.RequireRule(ctx, t)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
