package domain

import (
	"fmt"
	"maps"
	"slices"
)

// RuleKind describes what an action does.
// Callers use it as a capability check before treating a node as, for example, a resource rule.
type RuleKind string

const (
	// KindAndroidBinary assembles the final application artifact.
	KindAndroidBinary RuleKind = "android_binary"
	// KindAndroidResource declares a resource and/or assets directory.
	KindAndroidResource RuleKind = "android_resource"
	// KindAndroidLibrary groups other rules without producing resources itself.
	KindAndroidLibrary RuleKind = "android_library"
	// KindGenrule produces an arbitrary output, possibly a resource or assets directory.
	KindGenrule RuleKind = "genrule"
	// KindAapt2Compile compiles one resource directory into a flat archive.
	KindAapt2Compile RuleKind = "aapt2_compile"
	// KindResourcesFilter filters resource directories by density and locale.
	KindResourcesFilter RuleKind = "resources_filter"
	// KindAaptPackage packages resources with the legacy tool.
	KindAaptPackage RuleKind = "aapt_package"
	// KindAapt2Link links compiled resources into a resources apk.
	KindAapt2Link RuleKind = "aapt2_link"
	// KindPackageStringAssets extracts string resources into an assets zip.
	KindPackageStringAssets RuleKind = "package_string_assets"
	// KindMergeAssets merges asset directories into the resources apk.
	KindMergeAssets RuleKind = "merge_assets"
)

// OutputName names one output of an action.
type OutputName string

const (
	OutputDefault         OutputName = "out"
	OutputRDotTxt         OutputName = "r_txt"
	OutputRDotJavaDir     OutputName = "r_java"
	OutputResourcesApk    OutputName = "resources_apk"
	OutputManifest        OutputName = "manifest"
	OutputProguardConfig  OutputName = "proguard"
	OutputStringAssetsZip OutputName = "string_assets"
	OutputStringSourceMap OutputName = "string_source_map"
	OutputResDir          OutputName = "res"
	OutputAssetsDir       OutputName = "assets"
	OutputFlata           OutputName = "flata"
	OutputApk             OutputName = "apk"
)

// FilteredResDirOutput names the i-th filtered resource directory of a resources filter.
func FilteredResDirOutput(i int) OutputName {
	return OutputName(fmt.Sprintf("%s/%d", OutputResDir, i))
}

// ExecutionPolicy is an opaque description of how the scheduler runs an action.
type ExecutionPolicy struct {
	Tool string
	Args []string
}

// ActionSpec collects the parts of an action before it is frozen into an ActionNode.
type ActionSpec struct {
	Target  BuildTarget
	Kind    RuleKind
	Deps    []*ActionNode
	Outputs map[OutputName]string
	Policy  ExecutionPolicy
}

// ActionNode is a unit of work in the action graph.
// Nodes are immutable once constructed.
type ActionNode struct {
	target  BuildTarget
	kind    RuleKind
	deps    []*ActionNode
	outputs map[OutputName]SourcePath
	policy  ExecutionPolicy
}

// NewActionNode freezes spec into a node.
// Dependencies are de-duplicated by target and sorted, and every output
// becomes a SourcePath owned by the new node.
func NewActionNode(spec ActionSpec) *ActionNode {
	deps := make([]*ActionNode, 0, len(spec.Deps))
	seen := make(map[BuildTarget]struct{}, len(spec.Deps))
	for _, dep := range spec.Deps {
		if dep == nil {
			continue
		}
		if _, ok := seen[dep.target]; ok {
			continue
		}
		seen[dep.target] = struct{}{}
		deps = append(deps, dep)
	}
	slices.SortFunc(deps, func(a, b *ActionNode) int {
		return a.target.Compare(b.target)
	})

	outputs := make(map[OutputName]SourcePath, len(spec.Outputs))
	for name, p := range spec.Outputs {
		outputs[name] = NewTargetSourcePath(spec.Target, p)
	}

	return &ActionNode{
		target:  spec.Target,
		kind:    spec.Kind,
		deps:    deps,
		outputs: outputs,
		policy: ExecutionPolicy{
			Tool: spec.Policy.Tool,
			Args: slices.Clone(spec.Policy.Args),
		},
	}
}

// Target returns the identifier of the node.
func (n *ActionNode) Target() BuildTarget {
	return n.target
}

// Kind returns the kind of the node.
func (n *ActionNode) Kind() RuleKind {
	return n.kind
}

// Deps returns the direct dependencies of the node, sorted by target.
func (n *ActionNode) Deps() []*ActionNode {
	return slices.Clone(n.deps)
}

// DepTargets returns the targets of the direct dependencies, sorted.
func (n *ActionNode) DepTargets() []BuildTarget {
	targets := make([]BuildTarget, len(n.deps))
	for i, dep := range n.deps {
		targets[i] = dep.target
	}
	return targets
}

// DependsOn reports whether target is a direct dependency of the node.
func (n *ActionNode) DependsOn(target BuildTarget) bool {
	_, found := slices.BinarySearchFunc(n.deps, target, func(dep *ActionNode, t BuildTarget) int {
		return dep.target.Compare(t)
	})
	return found
}

// Output returns the named output of the node.
func (n *ActionNode) Output(name OutputName) (SourcePath, bool) {
	p, ok := n.outputs[name]
	return p, ok
}

// OutputNames returns the names of every output, sorted.
func (n *ActionNode) OutputNames() []OutputName {
	return slices.Sorted(maps.Keys(n.outputs))
}

// Policy returns the execution policy of the node.
func (n *ActionNode) Policy() ExecutionPolicy {
	return ExecutionPolicy{
		Tool: n.policy.Tool,
		Args: slices.Clone(n.policy.Args),
	}
}

// ActionDescription is the serializable view of an ActionNode.
type ActionDescription struct {
	Target  string            `json:"target"`
	Kind    RuleKind          `json:"kind"`
	Deps    []string          `json:"deps"`
	Outputs map[string]string `json:"outputs"`
	Tool    string            `json:"tool,omitempty"`
	Args    []string          `json:"args,omitempty"`
}

// Describe returns the serializable view of the node.
func (n *ActionNode) Describe() ActionDescription {
	deps := make([]string, len(n.deps))
	for i, dep := range n.deps {
		deps[i] = dep.target.String()
	}
	outputs := make(map[string]string, len(n.outputs))
	for name, p := range n.outputs {
		outputs[string(name)] = p.Path()
	}
	return ActionDescription{
		Target:  n.target.String(),
		Kind:    n.kind,
		Deps:    deps,
		Outputs: outputs,
		Tool:    n.policy.Tool,
		Args:    slices.Clone(n.policy.Args),
	}
}
