package enhancer_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/resgraph/internal/core/domain"
	"go.trai.ch/resgraph/internal/core/ports"
	"go.trai.ch/resgraph/internal/core/ports/mocks"
	"go.trai.ch/resgraph/internal/engine/enhancer"
	"go.trai.ch/resgraph/internal/engine/index"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var binary = domain.MustParseBuildTarget("//apps:app")

// fixture serves pre-built resource actions through a mocked resolver.
type fixture struct {
	ctrl     *gomock.Controller
	index    *index.Index
	resolver *mocks.MockRuleResolver
	tracer   *mocks.MockTracer
	logger   *mocks.MockLogger
	nodes    map[domain.BuildTarget]*domain.ActionNode
	failures map[domain.BuildTarget]error
	requests []domain.BuildTarget
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		ctrl:     ctrl,
		index:    index.New(),
		resolver: mocks.NewMockRuleResolver(ctrl),
		tracer:   mocks.NewMockTracer(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		nodes:    make(map[domain.BuildTarget]*domain.ActionNode),
		failures: make(map[domain.BuildTarget]error),
	}

	f.resolver.EXPECT().RequireRule(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, target domain.BuildTarget) (*domain.ActionNode, error) {
			f.requests = append(f.requests, target)
			if err, ok := f.failures[target]; ok {
				return nil, err
			}
			if node, ok := f.nodes[target]; ok {
				return node, nil
			}
			return nil, zerr.With(domain.ErrNoSuchBuildTarget, "target", target.String())
		}).AnyTimes()

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	f.tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		}).AnyTimes()

	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return f
}

// resource registers an android_resource rule and its compile action.
func (f *fixture) resource(name string, hasRes, hasAssets, whitelisted bool) domain.PackageableResource {
	target := domain.MustParseBuildTarget("//res:" + name)
	outputs := map[domain.OutputName]string{domain.OutputRDotTxt: domain.GenPath(target, "%s/R.txt")}
	if hasRes {
		outputs[domain.OutputResDir] = domain.GenPath(target, "%s/res")
	}
	if hasAssets {
		outputs[domain.OutputAssetsDir] = domain.GenPath(target, "%s/assets")
	}
	node := domain.NewActionNode(domain.ActionSpec{
		Target:  target,
		Kind:    domain.KindAndroidResource,
		Outputs: outputs,
	})
	f.nodes[target] = node

	res := domain.PackageableResource{Target: target, HasWhitelistedStrings: whitelisted}
	if hasRes {
		res.ResDir = domain.NewPathSourcePath("res/" + name + "/res")

		compileTarget := target.WithFlavors(domain.Aapt2CompileFlavor)
		f.nodes[compileTarget] = domain.NewActionNode(domain.ActionSpec{
			Target:  compileTarget,
			Kind:    domain.KindAapt2Compile,
			Deps:    []*domain.ActionNode{node},
			Outputs: map[domain.OutputName]string{domain.OutputFlata: domain.GenPath(compileTarget, "%s.flata")},
		})
	}
	if hasAssets {
		res.AssetsDir = domain.NewPathSourcePath("res/" + name + "/assets")
	}
	return res
}

// genrule registers a genrule whose output is used as a source path.
func (f *fixture) genrule(name string) domain.SourcePath {
	target := domain.MustParseBuildTarget("//gen:" + name)
	node := domain.NewActionNode(domain.ActionSpec{
		Target:  target,
		Kind:    domain.KindGenrule,
		Outputs: map[domain.OutputName]string{domain.OutputDefault: domain.GenPath(target, "%s/out")},
	})
	f.nodes[target] = node
	out, _ := node.Output(domain.OutputDefault)
	return out
}

func (f *fixture) node(target domain.BuildTarget) *domain.ActionNode {
	return f.nodes[target]
}

func (f *fixture) enhancer(t *testing.T, cfg domain.EnhancementConfig) *enhancer.Enhancer {
	t.Helper()
	e, err := enhancer.New(binary, cfg, enhancer.Deps{
		Registry: f.index,
		Resolver: f.resolver,
		Tracer:   f.tracer,
		Logger:   f.logger,
	})
	require.NoError(t, err)
	return e
}

func baseConfig(mode domain.PackagingMode) domain.EnhancementConfig {
	return domain.EnhancementConfig{
		PackagingMode:   mode,
		CompressionMode: domain.CompressionDisabled,
		Manifest:        domain.NewPathSourcePath("apps/AndroidManifest.xml"),
	}
}

func kinds(nodes []*domain.ActionNode) []domain.RuleKind {
	out := make([]domain.RuleKind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind()
	}
	return out
}

func TestEnhance_Aapt1Minimal(t *testing.T) {
	f := newFixture(t)
	collection := domain.PackageableCollection{Resources: []domain.PackageableResource{
		f.resource("a", true, false, false),
		f.resource("b", true, true, false),
	}}

	result, err := f.enhancer(t, baseConfig(domain.PackagingAapt1)).Enhance(context.Background(), collection)
	require.NoError(t, err)

	deps := result.EnhancedDeps()
	assert.Equal(t, []domain.RuleKind{domain.KindAaptPackage, domain.KindMergeAssets}, kinds(deps))

	aapt := deps[0]
	assert.Equal(t, "//apps:app#aapt_package", aapt.Target().String())
	assert.True(t, aapt.DependsOn(domain.MustParseBuildTarget("//res:a")))
	assert.True(t, aapt.DependsOn(domain.MustParseBuildTarget("//res:b")))

	rDotJava, ok := result.RDotJavaDir()
	require.True(t, ok)
	owner, _ := rDotJava.Owner()
	assert.Equal(t, aapt.Target(), owner)

	rDotTxt, _ := aapt.Output(domain.OutputRDotTxt)
	assert.Equal(t, rDotTxt, result.RDotTxt())
	assert.Equal(t, "buck-out/gen/apps/app#aapt_package/R.txt", result.RDotTxt().Path())

	_, ok = result.PackageStringAssets()
	assert.False(t, ok)
	assert.Empty(t, result.PrimaryApkAssetZips())
	assert.Empty(t, result.ExoResources())

	assert.Equal(t, 2, f.index.Len())
	for _, n := range deps {
		got, ok := f.index.Get(n.Target())
		require.True(t, ok)
		assert.Same(t, n, got)
	}
}

func TestEnhance_Aapt2WithLocalesAndStringAssets(t *testing.T) {
	f := newFixture(t)
	collection := domain.PackageableCollection{Resources: []domain.PackageableResource{
		f.resource("a", true, true, true),
		f.resource("b", true, false, false),
	}}
	cfg := baseConfig(domain.PackagingAapt2)
	cfg.Locales = []string{"en", "fr"}
	cfg.CompressionMode = domain.CompressionEnabledWithStringsAsAssets

	result, err := f.enhancer(t, cfg).Enhance(context.Background(), collection)
	require.NoError(t, err)

	deps := result.EnhancedDeps()
	require.Equal(t, []domain.RuleKind{
		domain.KindResourcesFilter,
		domain.KindAapt2Link,
		domain.KindPackageStringAssets,
		domain.KindMergeAssets,
	}, kinds(deps))
	filter, link, strings, merge := deps[0], deps[1], deps[2], deps[3]

	assert.True(t, filter.DependsOn(domain.MustParseBuildTarget("//res:a")))
	assert.True(t, filter.DependsOn(domain.MustParseBuildTarget("//res:b")))
	assert.Contains(t, filter.Policy().Args, "--store-strings-as-assets")
	assert.Contains(t, filter.Policy().Args, "--whitelisted-strings")

	assert.True(t, link.DependsOn(filter.Target()))
	assert.True(t, link.DependsOn(domain.MustParseBuildTarget("//res:a#aapt2_compile")))
	assert.True(t, link.DependsOn(domain.MustParseBuildTarget("//res:b#aapt2_compile")))

	assert.True(t, strings.DependsOn(link.Target()))
	assert.True(t, strings.DependsOn(filter.Target()))
	assert.True(t, merge.DependsOn(link.Target()))

	_, ok := result.RDotJavaDir()
	assert.False(t, ok, "aapt2 generates no R.java sources")

	psa, ok := result.PackageStringAssets()
	require.True(t, ok)
	assert.Same(t, strings, psa.Node)
	assert.Equal(t, []domain.SourcePath{psa.StringAssetsZip}, result.PrimaryApkAssetZips())
}

func TestEnhance_ResourceFilterGating(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*domain.EnhancementConfig)
		wantFilter bool
	}{
		{name: "no filtering", mutate: func(*domain.EnhancementConfig) {}},
		{
			name:       "densities",
			mutate:     func(c *domain.EnhancementConfig) { c.ResourceFilter.Densities = []string{"xhdpi"} },
			wantFilter: true,
		},
		{
			name:       "locales",
			mutate:     func(c *domain.EnhancementConfig) { c.Locales = []string{"de"} },
			wantFilter: true,
		},
		{
			name:       "strings as assets",
			mutate:     func(c *domain.EnhancementConfig) { c.CompressionMode = domain.CompressionEnabledWithStringsAsAssets },
			wantFilter: true,
		},
		{
			name:   "compression without strings",
			mutate: func(c *domain.EnhancementConfig) { c.CompressionMode = domain.CompressionEnabledStringsOnly },
		},
	}

	for _, tt := range tests {
		for _, mode := range []domain.PackagingMode{domain.PackagingAapt1, domain.PackagingAapt2} {
			t.Run(tt.name+"/"+string(mode), func(t *testing.T) {
				f := newFixture(t)
				collection := domain.PackageableCollection{Resources: []domain.PackageableResource{
					f.resource("a", true, false, false),
				}}
				cfg := baseConfig(mode)
				tt.mutate(&cfg)

				result, err := f.enhancer(t, cfg).Enhance(context.Background(), collection)
				require.NoError(t, err)

				filterTarget := binary.WithFlavors(enhancer.ResourcesFilterFlavor)
				_, registered := f.index.Get(filterTarget)
				assert.Equal(t, tt.wantFilter, registered)

				packaging := result.EnhancedDeps()[0]
				if tt.wantFilter {
					packaging = result.EnhancedDeps()[1]
				}
				assert.Equal(t, tt.wantFilter, packaging.DependsOn(filterTarget))
			})
		}
	}
}

func TestEnhance_FilterCompressionArgs(t *testing.T) {
	tests := []struct {
		mode domain.CompressionMode
		want []string
	}{
		{mode: domain.CompressionDisabled},
		{mode: domain.CompressionEnabled, want: []string{"--resource-compression", "enabled"}},
		{mode: domain.CompressionEnabledStringsOnly, want: []string{"--resource-compression", "enabled_strings_only"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			f := newFixture(t)
			collection := domain.PackageableCollection{Resources: []domain.PackageableResource{
				f.resource("a", true, false, false),
			}}
			cfg := baseConfig(domain.PackagingAapt1)
			cfg.ResourceFilter.Densities = []string{"xhdpi"}
			cfg.CompressionMode = tt.mode

			result, err := f.enhancer(t, cfg).Enhance(context.Background(), collection)
			require.NoError(t, err)

			args := result.EnhancedDeps()[0].Policy().Args
			i := slices.Index(args, "--resource-compression")
			if tt.want == nil {
				assert.Equal(t, -1, i)
				return
			}
			require.GreaterOrEqual(t, i, 0)
			assert.Equal(t, tt.want, args[i:i+2])
		})
	}
}

func TestEnhance_PackagingExclusivity(t *testing.T) {
	for _, mode := range []domain.PackagingMode{domain.PackagingAapt1, domain.PackagingAapt2} {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t)
			collection := domain.PackageableCollection{Resources: []domain.PackageableResource{
				f.resource("a", true, false, false),
				f.resource("assets_only", false, true, false),
			}}

			_, err := f.enhancer(t, baseConfig(mode)).Enhance(context.Background(), collection)
			require.NoError(t, err)

			_, hasAapt := f.index.Get(binary.WithFlavors(enhancer.AaptPackageFlavor))
			_, hasLink := f.index.Get(binary.WithFlavors(enhancer.Aapt2LinkFlavor))
			assert.Equal(t, mode == domain.PackagingAapt1, hasAapt)
			assert.Equal(t, mode == domain.PackagingAapt2, hasLink)

			compileA := domain.MustParseBuildTarget("//res:a#aapt2_compile")
			compileAssets := domain.MustParseBuildTarget("//res:assets_only#aapt2_compile")
			assert.Equal(t, mode == domain.PackagingAapt2, containsTarget(f.requests, compileA))
			assert.False(t, containsTarget(f.requests, compileAssets), "resources without res dir are not compiled")
		})
	}
}

func TestEnhance_Aapt2LinkArgs(t *testing.T) {
	f := newFixture(t)
	collection := domain.PackageableCollection{Resources: []domain.PackageableResource{
		f.resource("a", true, false, false),
	}}
	cfg := baseConfig(domain.PackagingAapt2)
	minSdk := 21
	cfg.ManifestEntries.MinSdkVersion = &minSdk
	cfg.ResourceUnionPackage = "com.example.union"

	result, err := f.enhancer(t, cfg).Enhance(context.Background(), collection)
	require.NoError(t, err)

	link := result.EnhancedDeps()[0]
	compiled := f.node(domain.MustParseBuildTarget("//res:a#aapt2_compile"))
	flata, _ := compiled.Output(domain.OutputFlata)

	assert.Equal(t, []string{
		"link",
		"--manifest", "apps/AndroidManifest.xml",
		"--min-sdk-version", "21",
		"--extra-packages", "com.example.union",
		"-R", flata.Path(),
	}, link.Policy().Args)
	assert.Equal(t, "aapt2", link.Policy().Tool)
}

func TestEnhance_StringSourceMap(t *testing.T) {
	f := newFixture(t)
	collection := domain.PackageableCollection{Resources: []domain.PackageableResource{
		f.resource("a", true, false, false),
	}}
	cfg := baseConfig(domain.PackagingAapt1)
	cfg.ShouldBuildStringSourceMap = true

	result, err := f.enhancer(t, cfg).Enhance(context.Background(), collection)
	require.NoError(t, err)

	aapt := result.EnhancedDeps()[0]
	_, ok := aapt.Output(domain.OutputStringSourceMap)
	assert.True(t, ok)
	assert.Contains(t, aapt.Policy().Args, "--output-string-source-map")
}

func TestEnhance_MergeAssetsIsTerminal(t *testing.T) {
	f := newFixture(t)
	generated := f.genrule("assets")
	collection := domain.PackageableCollection{Resources: []domain.PackageableResource{
		f.resource("a", true, true, false),
		{Target: domain.MustParseBuildTarget("//res:gen"), AssetsDir: generated},
	}}

	result, err := f.enhancer(t, baseConfig(domain.PackagingAapt1)).Enhance(context.Background(), collection)
	require.NoError(t, err)

	deps := result.EnhancedDeps()
	merge := deps[len(deps)-1]
	assert.Equal(t, domain.KindMergeAssets, merge.Kind())
	assert.True(t, merge.DependsOn(deps[0].Target()))
	assert.True(t, merge.DependsOn(domain.MustParseBuildTarget("//gen:assets")), "generated assets directories are dependencies")

	merged, ok := merge.Output(domain.OutputResourcesApk)
	require.True(t, ok)
	assert.Equal(t, merged, result.PrimaryResourcesApk())

	owner, ok := result.PrimaryResourcesApk().Owner()
	require.True(t, ok)
	assert.Equal(t, merge.Target(), owner)

	packaged, _ := deps[0].Output(domain.OutputResourcesApk)
	assert.NotEqual(t, packaged, result.PrimaryResourcesApk())
}

func TestEnhance_GeneratedResourceDirectory(t *testing.T) {
	f := newFixture(t)
	generated := f.genrule("res")
	res := f.resource("a", true, false, false)
	res.ResDir = generated
	cfg := baseConfig(domain.PackagingAapt1)
	cfg.Locales = []string{"en"}

	result, err := f.enhancer(t, cfg).Enhance(context.Background(), domain.PackageableCollection{
		Resources: []domain.PackageableResource{res},
	})
	require.NoError(t, err)

	filter, aapt := result.EnhancedDeps()[0], result.EnhancedDeps()[1]
	assert.True(t, filter.DependsOn(domain.MustParseBuildTarget("//gen:res")))
	assert.True(t, aapt.DependsOn(domain.MustParseBuildTarget("//gen:res")))
	assert.Contains(t, aapt.Policy().Args, "buck-out/gen/apps/app#resources_filter/res/0")
}

func TestEnhance_GeneratedManifest(t *testing.T) {
	f := newFixture(t)
	cfg := baseConfig(domain.PackagingAapt2)
	cfg.Manifest = f.genrule("manifest")

	result, err := f.enhancer(t, cfg).Enhance(context.Background(), domain.PackageableCollection{
		Resources: []domain.PackageableResource{f.resource("a", true, false, false)},
	})
	require.NoError(t, err)
	assert.True(t, result.EnhancedDeps()[0].DependsOn(domain.MustParseBuildTarget("//gen:manifest")))
}

func TestEnhance_Idempotent(t *testing.T) {
	f := newFixture(t)
	collection := domain.PackageableCollection{Resources: []domain.PackageableResource{
		f.resource("a", true, true, true),
		f.resource("b", true, false, false),
	}}
	cfg := baseConfig(domain.PackagingAapt2)
	cfg.Locales = []string{"en"}
	cfg.CompressionMode = domain.CompressionEnabledWithStringsAsAssets

	_, err := f.enhancer(t, cfg).Enhance(context.Background(), collection)
	require.NoError(t, err)
	first := f.index.Fingerprint()

	f.index = index.New()
	_, err = f.enhancer(t, cfg).Enhance(context.Background(), collection)
	require.NoError(t, err)

	assert.Equal(t, first, f.index.Fingerprint())
}

func TestEnhance_ConfigIsCopied(t *testing.T) {
	f := newFixture(t)
	cfg := baseConfig(domain.PackagingAapt1)
	cfg.Locales = []string{"en"}
	e := f.enhancer(t, cfg)

	cfg.Locales[0] = "xx"

	result, err := e.Enhance(context.Background(), domain.PackageableCollection{
		Resources: []domain.PackageableResource{f.resource("a", true, false, false)},
	})
	require.NoError(t, err)

	args := result.EnhancedDeps()[0].Policy().Args
	assert.Contains(t, args, "en")
	assert.NotContains(t, args, "xx")
}

func TestEnhance_NoResources(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newFixture(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn("//apps:app reaches no resource directory").Times(1)
	f.logger = logger

	result, err := f.enhancer(t, baseConfig(domain.PackagingAapt2)).Enhance(context.Background(), domain.PackageableCollection{})
	require.NoError(t, err)
	assert.Equal(t, []domain.RuleKind{domain.KindAapt2Link, domain.KindMergeAssets}, kinds(result.EnhancedDeps()))
}

func TestEnhance_ResolverErrorIsPropagated(t *testing.T) {
	for _, mode := range []domain.PackagingMode{domain.PackagingAapt1, domain.PackagingAapt2} {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t)
			res := f.resource("a", true, false, false)
			resolveErr := errors.New("resolution failed")
			f.failures[res.Target] = resolveErr

			_, err := f.enhancer(t, baseConfig(mode)).Enhance(context.Background(), domain.PackageableCollection{
				Resources: []domain.PackageableResource{res},
			})
			require.ErrorIs(t, err, resolveErr)
			assert.Equal(t, 0, f.index.Len())
		})
	}
}

func TestEnhance_CompileErrorKeepsEarlierStages(t *testing.T) {
	f := newFixture(t)
	res := f.resource("a", true, false, false)
	resolveErr := errors.New("compile failed")
	f.failures[res.Target.WithFlavors(domain.Aapt2CompileFlavor)] = resolveErr
	cfg := baseConfig(domain.PackagingAapt2)
	cfg.Locales = []string{"en"}

	_, err := f.enhancer(t, cfg).Enhance(context.Background(), domain.PackageableCollection{
		Resources: []domain.PackageableResource{res},
	})
	require.ErrorIs(t, err, resolveErr)

	_, ok := f.index.Get(binary.WithFlavors(enhancer.ResourcesFilterFlavor))
	assert.True(t, ok, "the filter registered before the failure stays in the index")
}

func TestEnhance_WrongRuleKind(t *testing.T) {
	t.Run("resource dependency", func(t *testing.T) {
		f := newFixture(t)
		res := f.resource("a", true, false, false)
		f.nodes[res.Target] = domain.NewActionNode(domain.ActionSpec{Target: res.Target, Kind: domain.KindGenrule})

		_, err := f.enhancer(t, baseConfig(domain.PackagingAapt1)).Enhance(context.Background(), domain.PackageableCollection{
			Resources: []domain.PackageableResource{res},
		})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrWrongRuleKind.Error())

		zErr, ok := err.(*zerr.Error)
		require.True(t, ok)
		assert.Equal(t, "//res:a", zErr.Metadata()["target"])
		assert.Equal(t, string(domain.KindGenrule), zErr.Metadata()["kind"])
		assert.Equal(t, string(domain.KindAndroidResource), zErr.Metadata()["expected_kind"])
	})

	t.Run("compile action", func(t *testing.T) {
		f := newFixture(t)
		res := f.resource("a", true, false, false)
		compileTarget := res.Target.WithFlavors(domain.Aapt2CompileFlavor)
		f.nodes[compileTarget] = domain.NewActionNode(domain.ActionSpec{Target: compileTarget, Kind: domain.KindGenrule})

		_, err := f.enhancer(t, baseConfig(domain.PackagingAapt2)).Enhance(context.Background(), domain.PackageableCollection{
			Resources: []domain.PackageableResource{res},
		})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrWrongRuleKind.Error())
		assert.Equal(t, 0, f.index.Len())
	})
}

func TestEnhance_RegistryCollision(t *testing.T) {
	f := newFixture(t)
	merge := binary.WithFlavors(enhancer.MergeAssetsFlavor)
	require.NoError(t, f.index.Register(domain.NewActionNode(domain.ActionSpec{Target: merge, Kind: domain.KindMergeAssets})))

	_, err := f.enhancer(t, baseConfig(domain.PackagingAapt1)).Enhance(context.Background(), domain.PackageableCollection{
		Resources: []domain.PackageableResource{f.resource("a", true, false, false)},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrIndexConsistency.Error())
}

func TestEnhance_StageSpans(t *testing.T) {
	f := newFixture(t)
	tracer := mocks.NewMockTracer(f.ctrl)
	span := mocks.NewMockSpan(f.ctrl)
	span.EXPECT().End().Times(5)
	span.EXPECT().SetAttribute("enhanced_deps", 4)

	var names []string
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, name string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			names = append(names, name)
			return ctx, span
		}).Times(5)
	f.tracer = tracer

	cfg := baseConfig(domain.PackagingAapt2)
	cfg.CompressionMode = domain.CompressionEnabledWithStringsAsAssets

	_, err := f.enhancer(t, cfg).Enhance(context.Background(), domain.PackageableCollection{
		Resources: []domain.PackageableResource{f.resource("a", true, false, false)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"enhance_resources",
		"resources_filter",
		"package_resources",
		"package_string_assets",
		"merge_assets",
	}, names)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		cfg     domain.EnhancementConfig
		wantErr error
	}{
		{
			name:    "unknown packaging mode",
			cfg:     domain.EnhancementConfig{PackagingMode: "aapt3", CompressionMode: domain.CompressionDisabled},
			wantErr: domain.ErrUnknownPackagingMode,
		},
		{
			name:    "unknown compression mode",
			cfg:     domain.EnhancementConfig{PackagingMode: domain.PackagingAapt1, CompressionMode: "zstd"},
			wantErr: domain.ErrUnknownCompressionMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := enhancer.New(binary, tt.cfg, enhancer.Deps{
				Registry: f.index,
				Resolver: f.resolver,
				Tracer:   f.tracer,
				Logger:   f.logger,
			})
			require.Error(t, err)
			assert.Nil(t, e)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
	assert.Equal(t, 0, f.index.Len())
}

func containsTarget(targets []domain.BuildTarget, want domain.BuildTarget) bool {
	for _, t := range targets {
		if t == want {
			return true
		}
	}
	return false
}
