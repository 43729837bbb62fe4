// Package app implements the application layer for resgraph.
package app

import (
	"context"
	"fmt"
	"runtime"

	"go.trai.ch/resgraph/internal/core/domain"
	"go.trai.ch/resgraph/internal/core/ports"
	"go.trai.ch/resgraph/internal/engine/index"
	"go.trai.ch/resgraph/internal/engine/resolver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	loader   ports.ProjectLoader
	archiver ports.GraphArchiver
	logger   ports.Logger
	tracer   ports.Tracer
	workers  int
}

// New creates a new App instance.
func New(loader ports.ProjectLoader, archiver ports.GraphArchiver, log ports.Logger, tracer ports.Tracer) *App {
	return &App{
		loader:   loader,
		archiver: archiver,
		logger:   log,
		tracer:   tracer,
		workers:  runtime.NumCPU(),
	}
}

// WithWorkers bounds the number of binaries enhanced at the same time.
func (a *App) WithWorkers(n int) *App {
	a.workers = max(n, 1)
	return a
}

// EnhanceOptions configuration for the Enhance method.
type EnhanceOptions struct {
	// Path is the project file, or the directory the search for it starts from.
	Path string
	// Targets are the android_binary rules to enhance. Empty means every binary of the project.
	Targets []string
	// ArchivePath, when set, receives the resulting action graph.
	ArchivePath string
}

// Enhance loads the project and builds the resource graph of every requested binary.
func (a *App) Enhance(ctx context.Context, opts EnhanceOptions) (*Report, error) {
	path := opts.Path
	if path == "" {
		path = "."
	}

	project, err := a.loader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load project")
	}

	targets, err := selectBinaries(project, opts.Targets)
	if err != nil {
		return nil, err
	}

	ctx, span := a.tracer.Start(ctx, "enhance", ports.WithAttribute("binaries", len(targets)))
	defer span.End()

	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.String()
	}
	a.tracer.EmitPlan(ctx, names)

	ix := index.New()
	res := resolver.New(project, ix, a.tracer, a.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for _, t := range targets {
		g.Go(func() error {
			_, err := res.RequireRule(gctx, t)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	report := &Report{
		Binaries:    make([]BinaryReport, 0, len(targets)),
		Nodes:       ix.Len(),
		Fingerprint: ix.Fingerprint(),
	}
	for _, t := range targets {
		result, ok := res.Result(t)
		if !ok {
			return nil, zerr.With(domain.ErrNoSuchBuildTarget, "target", t.String())
		}
		rule, _ := project.Rule(t)
		report.Binaries = append(report.Binaries, newBinaryReport(t, rule.Binary.PackagingMode, result))
	}

	if opts.ArchivePath != "" {
		if err := a.archiver.Write(ctx, opts.ArchivePath, ix.Nodes()); err != nil {
			span.RecordError(err)
			return nil, err
		}
		report.Archive = opts.ArchivePath
		a.logger.Info(fmt.Sprintf("wrote %d actions to %s", report.Nodes, opts.ArchivePath))
	}

	span.SetAttribute("nodes", report.Nodes)
	return report, nil
}

// Inspect returns the node descriptions of a graph archive written by Enhance.
func (a *App) Inspect(_ context.Context, path string) ([]domain.ActionDescription, error) {
	return a.archiver.Read(path)
}

// selectBinaries parses the requested targets. Without any, every binary of the project is selected.
func selectBinaries(project *domain.Project, requested []string) ([]domain.BuildTarget, error) {
	if len(requested) == 0 {
		all := project.Targets(domain.KindAndroidBinary)
		if len(all) == 0 {
			return nil, zerr.With(domain.ErrNoTargetsSpecified, "reason", "the project declares no android_binary rule")
		}
		return all, nil
	}

	seen := make(map[domain.BuildTarget]struct{}, len(requested))
	targets := make([]domain.BuildTarget, 0, len(requested))
	for _, name := range requested {
		t, err := domain.ParseBuildTarget(name)
		if err != nil {
			return nil, err
		}
		rule, ok := project.Rule(t)
		if !ok {
			return nil, zerr.With(domain.ErrNoSuchBuildTarget, "target", t.String())
		}
		if rule.Kind != domain.KindAndroidBinary {
			err := zerr.With(domain.ErrWrongRuleKind, "target", t.String())
			err = zerr.With(err, "kind", string(rule.Kind))
			return nil, zerr.With(err, "expected_kind", string(domain.KindAndroidBinary))
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		targets = append(targets, t)
	}
	return targets, nil
}
