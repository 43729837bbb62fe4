// Package domain contains the core domain models of the resource rule graph.
package domain

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// RuleDescription is a rule as declared in a project file.
type RuleDescription struct {
	Target                BuildTarget
	Kind                  RuleKind
	Deps                  []BuildTarget
	ResDir                SourcePath
	AssetsDir             SourcePath
	HasWhitelistedStrings bool
	Cmd                   string
	Out                   string
	// Binary is set for android_binary rules only.
	Binary *EnhancementConfig
}

// AllDeps returns the declared dependencies followed by the owners of every
// target-backed path the rule reads, without duplicates.
func (r *RuleDescription) AllDeps() []BuildTarget {
	deps := slices.Clone(r.Deps)
	paths := []SourcePath{r.ResDir, r.AssetsDir}
	if r.Binary != nil {
		paths = append(paths, r.Binary.Manifest)
	}
	for _, p := range paths {
		if owner, ok := p.Owner(); ok {
			deps = append(deps, owner)
		}
	}

	seen := make(map[BuildTarget]struct{}, len(deps))
	return slices.DeleteFunc(deps, func(t BuildTarget) bool {
		if _, ok := seen[t]; ok {
			return true
		}
		seen[t] = struct{}{}
		return false
	})
}

// Project holds every rule declared in a workspace.
type Project struct {
	root  string
	rules map[BuildTarget]RuleDescription
	order []BuildTarget
}

// NewProject creates a new empty Project.
func NewProject() *Project {
	return &Project{
		rules: make(map[BuildTarget]RuleDescription),
	}
}

// SetRoot sets the root directory of the project.
func (p *Project) SetRoot(root string) {
	p.root = root
}

// Root returns the root directory of the project.
func (p *Project) Root() string {
	return p.root
}

// AddRule adds a rule to the project.
// It returns an error if a rule with the same target already exists.
func (p *Project) AddRule(r *RuleDescription) error {
	if _, exists := p.rules[r.Target]; exists {
		return zerr.With(ErrRuleAlreadyExists, "target", r.Target.String())
	}
	p.rules[r.Target] = *r
	return nil
}

// Rule returns the rule declared for target.
func (p *Project) Rule(target BuildTarget) (RuleDescription, bool) {
	r, ok := p.rules[target]
	return r, ok
}

// Len returns the number of rules.
func (p *Project) Len() int {
	return len(p.rules)
}

// Targets returns the targets of every rule of the given kind, sorted.
// It assumes Validate() has been called and returned nil.
func (p *Project) Targets(kind RuleKind) []BuildTarget {
	var targets []BuildTarget
	for r := range p.Walk() {
		if r.Kind == kind {
			targets = append(targets, r.Target)
		}
	}
	slices.SortFunc(targets, BuildTarget.Compare)
	return targets
}

// Validate checks for missing dependencies and cycles using a topological sort.
// It populates the order Walk yields rules in.
func (p *Project) Validate() error {
	p.order = make([]BuildTarget, 0, len(p.rules))
	visited := make(map[BuildTarget]int) // 0: unvisited, 1: visiting, 2: visited
	var path []BuildTarget

	var visit func(u BuildTarget) error
	visit = func(u BuildTarget) error {
		visited[u] = 1
		path = append(path, u)

		rule := p.rules[u]
		for _, dep := range rule.AllDeps() {
			if _, exists := p.rules[dep]; !exists {
				err := zerr.With(ErrMissingDependency, "rule", u.String())
				return zerr.With(err, "dependency", dep.String())
			}
			if visited[dep] == 1 {
				return buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		p.order = append(p.order, u)
		return nil
	}

	for _, target := range slices.SortedFunc(maps.Keys(p.rules), BuildTarget.Compare) {
		if visited[target] == 0 {
			if err := visit(target); err != nil {
				return err
			}
		}
	}

	return nil
}

func buildCycleError(path []BuildTarget, dep BuildTarget) error {
	startIdx := slices.Index(path, dep)
	parts := make([]string, 0, len(path)-startIdx+1)
	for _, t := range path[startIdx:] {
		parts = append(parts, t.String())
	}
	parts = append(parts, dep.String())
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}

// Walk returns an iterator that yields rules in dependency order.
// It assumes Validate() has been called and returned nil.
func (p *Project) Walk() iter.Seq[RuleDescription] {
	return func(yield func(RuleDescription) bool) {
		for _, target := range p.order {
			if !yield(p.rules[target]) {
				return
			}
		}
	}
}
