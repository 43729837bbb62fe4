// Package config provides the project loader for resgraph.
package config

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/resgraph/internal/core/domain"
	"go.trai.ch/resgraph/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// packageCacheSize bounds the number of decoded package files kept by a Loader.
const packageCacheSize = 1024

// Loader implements ports.ProjectLoader using YAML files.
// Decoded package files are reused across loads while their content is unchanged.
type Loader struct {
	Logger   ports.Logger
	FS       FileSystem
	packages *lru.Cache[string, parsedPackage]
}

type parsedPackage struct {
	digest uint64
	file   Packagefile
}

var _ ports.ProjectLoader = (*Loader)(nil)

// NewLoader creates a new Loader reading from the host filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a new Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, parsedPackage](packageCacheSize)
	return &Loader{Logger: logger, FS: fsys, packages: cache}
}

// declaration is a rule read from a file, before its references are resolved.
type declaration struct {
	pkg    string
	target domain.BuildTarget
	kind   domain.RuleKind
	dto    *RuleDTO
}

var ruleKinds = map[string]domain.RuleKind{
	string(domain.KindAndroidBinary):   domain.KindAndroidBinary,
	string(domain.KindAndroidResource): domain.KindAndroidResource,
	string(domain.KindAndroidLibrary):  domain.KindAndroidLibrary,
	string(domain.KindGenrule):         domain.KindGenrule,
}

// Load returns the validated project. A file path is read as the project file;
// from a directory, resgraph.yaml is searched upwards.
func (l *Loader) Load(location string) (*domain.Project, error) {
	configPath, err := l.findConfiguration(location)
	if err != nil {
		return nil, err
	}

	var projectfile Projectfile
	if err := readAndUnmarshalYAML(l.FS, configPath, &projectfile); err != nil {
		return nil, zerr.With(err, "file", configPath)
	}

	root := resolveRoot(configPath, projectfile.Root)

	decls, err := l.declare(nil, "", projectfile.Rules)
	if err != nil {
		return nil, err
	}

	packageDirs, err := l.resolvePackagePaths(root, projectfile.Packages)
	if err != nil {
		return nil, err
	}
	for _, dir := range packageDirs {
		if decls, err = l.loadPackage(decls, root, dir); err != nil {
			return nil, err
		}
	}

	project := domain.NewProject()
	project.SetRoot(root)

	byTarget := make(map[domain.BuildTarget]*declaration, len(decls))
	for _, d := range decls {
		byTarget[d.target] = d
	}

	for _, d := range decls {
		rule, err := l.buildRule(d, byTarget)
		if err != nil {
			return nil, err
		}
		if err := project.AddRule(rule); err != nil {
			return nil, err
		}
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}
	return project, nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	info, err := l.FS.Stat(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigNotFound.Error()), "path", cwd)
	}
	if !info.IsDir() {
		return filepath.Clean(cwd), nil
	}

	currentDir := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(currentDir, domain.ProjectFileName)
		if _, err := l.FS.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}
	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) resolvePackagePaths(root string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		matches, err := l.FS.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "glob pattern failed"), "pattern", pattern)
		}
		for _, m := range matches {
			seen[m] = struct{}{}
		}
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		info, err := l.FS.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)
	return dirs, nil
}

func (l *Loader) loadPackage(decls []*declaration, root, dir string) ([]*declaration, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve package path")
	}
	pkg := filepath.ToSlash(rel)

	packagePath := filepath.Join(dir, domain.PackageFileName)
	if _, err := l.FS.Stat(packagePath); err != nil {
		l.Logger.Warn(fmt.Sprintf("%s missing in package %s, skipping", domain.PackageFileName, pkg))
		return decls, nil
	}

	packagefile, err := l.readPackage(packagePath)
	if err != nil {
		return nil, zerr.With(err, "package", pkg)
	}
	return l.declare(decls, pkg, packagefile.Rules)
}

// readPackage decodes a package file, reusing the previous result when the content is unchanged.
func (l *Loader) readPackage(packagePath string) (Packagefile, error) {
	data, err := l.FS.ReadFile(packagePath)
	if err != nil {
		return Packagefile{}, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	digest := xxhash.Sum64(data)
	if cached, ok := l.packages.Get(packagePath); ok && cached.digest == digest {
		return cached.file, nil
	}

	var packagefile Packagefile
	if err := yaml.Unmarshal(data, &packagefile); err != nil {
		return Packagefile{}, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	l.packages.Add(packagePath, parsedPackage{digest: digest, file: packagefile})
	return packagefile, nil
}

func (l *Loader) declare(decls []*declaration, pkg string, rules []*RuleDTO) ([]*declaration, error) {
	for _, dto := range rules {
		if dto == nil {
			continue
		}

		kind, ok := ruleKinds[dto.Type]
		if !ok {
			err := zerr.With(domain.ErrUnknownRuleType, "rule", dto.Name)
			return nil, zerr.With(err, "type", dto.Type)
		}

		target, err := l.parseTarget(pkg, dto.Name)
		if err != nil {
			return nil, err
		}
		if target.IsFlavored() {
			err := zerr.With(domain.ErrInvalidBuildTarget, "target", target.String())
			return nil, zerr.With(err, "reason", "rule names cannot carry flavors")
		}

		decls = append(decls, &declaration{pkg: pkg, target: target, kind: kind, dto: dto})
	}
	return decls, nil
}

func (l *Loader) buildRule(d *declaration, byTarget map[domain.BuildTarget]*declaration) (*domain.RuleDescription, error) {
	rule := &domain.RuleDescription{
		Target:                d.target,
		Kind:                  d.kind,
		HasWhitelistedStrings: d.dto.HasWhitelistedStrings,
		Cmd:                   d.dto.Cmd,
		Out:                   d.dto.Out,
	}

	for _, ref := range d.dto.Deps {
		dep, err := l.parseTarget(d.pkg, ref)
		if err != nil {
			return nil, zerr.With(err, "rule", d.target.String())
		}
		rule.Deps = append(rule.Deps, dep)
	}

	var err error
	if rule.ResDir, err = l.sourcePath(d, d.dto.Res, byTarget); err != nil {
		return nil, err
	}
	if rule.AssetsDir, err = l.sourcePath(d, d.dto.Assets, byTarget); err != nil {
		return nil, err
	}

	if d.kind != domain.KindAndroidBinary {
		return rule, nil
	}

	manifest, err := l.sourcePath(d, d.dto.Manifest, byTarget)
	if err != nil {
		return nil, err
	}
	cfg := binaryConfig(d.dto, manifest)
	if err := cfg.Validate(); err != nil {
		return nil, zerr.With(err, "rule", d.target.String())
	}
	rule.Binary = cfg

	if len(rule.Deps) == 0 {
		l.Logger.Warn(fmt.Sprintf("%s %s declares no dependencies, only its manifest will be packaged", d.kind, d.target))
	}
	return rule, nil
}

// parseTarget resolves a possibly package-relative reference ("name", ":name" or "//base:name").
func (l *Loader) parseTarget(pkg, ref string) (domain.BuildTarget, error) {
	full := ref
	switch {
	case strings.HasPrefix(ref, "//"):
	case strings.HasPrefix(ref, ":"):
		full = "//" + pkg + ref
	default:
		full = "//" + pkg + ":" + ref
	}
	return domain.ParseBuildTarget(full)
}

// sourcePath resolves a path field of a rule. Plain paths are rebased onto the
// project root; references resolve to the output of a genrule.
func (l *Loader) sourcePath(d *declaration, value string, byTarget map[domain.BuildTarget]*declaration) (domain.SourcePath, error) {
	if value == "" {
		return domain.SourcePath{}, nil
	}
	if !strings.HasPrefix(value, "//") && !strings.HasPrefix(value, ":") {
		return domain.NewPathSourcePath(path.Join(d.pkg, filepath.ToSlash(value))), nil
	}

	owner, err := l.parseTarget(d.pkg, value)
	if err != nil {
		return domain.SourcePath{}, zerr.With(err, "rule", d.target.String())
	}
	decl, ok := byTarget[owner]
	if !ok {
		err := zerr.With(domain.ErrMissingDependency, "rule", d.target.String())
		return domain.SourcePath{}, zerr.With(err, "dependency", owner.String())
	}
	if decl.kind != domain.KindGenrule {
		err := zerr.With(domain.ErrWrongRuleKind, "target", owner.String())
		err = zerr.With(err, "kind", string(decl.kind))
		return domain.SourcePath{}, zerr.With(err, "expected_kind", string(domain.KindGenrule))
	}
	return domain.NewTargetSourcePath(owner, domain.GenruleOutput(owner, decl.dto.Out)), nil
}

func binaryConfig(dto *RuleDTO, manifest domain.SourcePath) *domain.EnhancementConfig {
	packaging := domain.PackagingMode(dto.Packaging)
	if packaging == "" {
		packaging = domain.PackagingAapt1
	}
	compression := domain.CompressionMode(dto.ResourceCompression)
	if compression == "" {
		compression = domain.CompressionDisabled
	}

	cfg := &domain.EnhancementConfig{
		PackagingMode: packaging,
		ResourceFilter: domain.ResourceFilter{
			Densities: dto.ResourceFilter,
			Downscale: dto.Downscale,
		},
		CompressionMode:              compression,
		Locales:                      dto.Locales,
		Manifest:                     manifest,
		ResourceUnionPackage:         dto.ResourceUnionPackage,
		IncludesVectorDrawables:      dto.IncludesVectorDrawables,
		SkipCrunchPngs:               dto.SkipCrunchPngs,
		BannedDuplicateResourceTypes: dto.BannedDuplicateResourceTypes,
		PostFilterResourcesCmd:       dto.PostFilterResourcesCmd,
		ShouldBuildStringSourceMap:   dto.BuildStringSourceMap,
	}
	if e := dto.ManifestEntries; e != nil {
		cfg.ManifestEntries = domain.ManifestEntries{
			MinSdkVersion:    e.MinSdkVersion,
			TargetSdkVersion: e.TargetSdkVersion,
			VersionCode:      e.VersionCode,
			VersionName:      e.VersionName,
			DebugMode:        e.DebugMode,
		}
	}
	return cfg
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](fsys FileSystem, configPath string, target *T) error {
	data, err := fsys.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
