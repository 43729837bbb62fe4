package domain

import (
	"path"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

const (
	targetPrefix        = "//"
	shortNameSeparator  = ":"
	flavorSeparator     = "#"
	flavorListSeparator = ","
)

var validFlavorRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Aapt2CompileFlavor selects the per-resource compile sub-target of an android_resource rule.
var Aapt2CompileFlavor = MustFlavor("aapt2_compile")

// Flavor is a named tag that selects a derived variant of a build target.
type Flavor struct {
	name InternedString
}

// NewFlavor validates name and returns the corresponding Flavor.
func NewFlavor(name string) (Flavor, error) {
	if !validFlavorRegex.MatchString(name) {
		return Flavor{}, zerr.With(ErrInvalidFlavor, "flavor", name)
	}
	return Flavor{name: NewInternedString(name)}, nil
}

// MustFlavor is like NewFlavor but panics on an invalid name.
// It is meant for package-level flavor declarations.
func MustFlavor(name string) Flavor {
	f, err := NewFlavor(name)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the flavor name.
func (f Flavor) String() string {
	return f.name.String()
}

// BuildTarget identifies a rule, optionally narrowed by a set of flavors.
// Its textual form is "//base/path:short#flavor1,flavor2".
//
// BuildTarget is comparable. Flavors are stored as a sorted, de-duplicated set,
// so two targets naming the same flavors in a different order are equal.
type BuildTarget struct {
	basePath  InternedString
	shortName InternedString
	flavors   InternedString
}

// ParseBuildTarget parses the textual form of a build target.
// A target without an explicit short name ("//a/b") takes the last path element as its short name.
func ParseBuildTarget(s string) (BuildTarget, error) {
	invalid := func(reason string) error {
		return zerr.With(zerr.With(ErrInvalidBuildTarget, "target", s), "reason", reason)
	}

	if !strings.HasPrefix(s, targetPrefix) {
		return BuildTarget{}, invalid("must start with " + targetPrefix)
	}
	rest := strings.TrimPrefix(s, targetPrefix)

	var flavorPart string
	hasFlavors := false
	if idx := strings.Index(rest, flavorSeparator); idx >= 0 {
		rest, flavorPart = rest[:idx], rest[idx+1:]
		hasFlavors = true
	}

	basePath, shortName, found := strings.Cut(rest, shortNameSeparator)
	if !found {
		if basePath == "" {
			return BuildTarget{}, invalid("missing short name")
		}
		shortName = path.Base(basePath)
	}

	if strings.HasSuffix(basePath, "/") || strings.Contains(basePath, "//") {
		return BuildTarget{}, invalid("malformed base path")
	}
	if shortName == "" || strings.ContainsAny(shortName, "/:") {
		return BuildTarget{}, invalid("malformed short name")
	}

	t := BuildTarget{
		basePath:  NewInternedString(basePath),
		shortName: NewInternedString(shortName),
	}

	if !hasFlavors {
		return t, nil
	}
	if flavorPart == "" {
		return BuildTarget{}, invalid("empty flavor list")
	}

	names := strings.Split(flavorPart, flavorListSeparator)
	flavors := make([]Flavor, 0, len(names))
	for _, name := range names {
		f, err := NewFlavor(name)
		if err != nil {
			return BuildTarget{}, zerr.With(err, "target", s)
		}
		flavors = append(flavors, f)
	}
	return t.WithFlavors(flavors...), nil
}

// MustParseBuildTarget is like ParseBuildTarget but panics on malformed input.
func MustParseBuildTarget(s string) BuildTarget {
	t, err := ParseBuildTarget(s)
	if err != nil {
		panic(err)
	}
	return t
}

// WithFlavors returns a copy of the target whose flavor set is extended by fs.
// It is idempotent and insensitive to flavor order.
func (t BuildTarget) WithFlavors(fs ...Flavor) BuildTarget {
	if len(fs) == 0 {
		return t
	}
	names := t.flavorNames()
	for _, f := range fs {
		names = append(names, f.String())
	}
	t.flavors = canonicalFlavors(names)
	return t
}

// WithoutFlavors returns a copy of the target with fs removed from its flavor set.
// Without arguments, every flavor is removed.
func (t BuildTarget) WithoutFlavors(fs ...Flavor) BuildTarget {
	if len(fs) == 0 {
		t.flavors = InternedString{}
		return t
	}
	names := slices.DeleteFunc(t.flavorNames(), func(name string) bool {
		return slices.ContainsFunc(fs, func(f Flavor) bool { return f.String() == name })
	})
	t.flavors = canonicalFlavors(names)
	return t
}

// Flavors returns the flavor set in canonical order.
func (t BuildTarget) Flavors() []Flavor {
	names := t.flavorNames()
	fs := make([]Flavor, len(names))
	for i, name := range names {
		fs[i] = Flavor{name: NewInternedString(name)}
	}
	return fs
}

// HasFlavor reports whether f is part of the target's flavor set.
func (t BuildTarget) HasFlavor(f Flavor) bool {
	return slices.Contains(t.flavorNames(), f.String())
}

// IsFlavored reports whether the target carries any flavor.
func (t BuildTarget) IsFlavored() bool {
	return !t.flavors.IsZero()
}

// BasePath returns the package path of the target without the leading "//".
func (t BuildTarget) BasePath() string {
	return t.basePath.String()
}

// ShortName returns the name of the target inside its package.
func (t BuildTarget) ShortName() string {
	return t.shortName.String()
}

// IsZero reports whether the target is the zero value.
func (t BuildTarget) IsZero() bool {
	return t == BuildTarget{}
}

// String returns the canonical textual form of the target.
func (t BuildTarget) String() string {
	if t.IsZero() {
		return ""
	}
	s := targetPrefix + t.basePath.String() + shortNameSeparator + t.shortName.String()
	if t.IsFlavored() {
		s += flavorSeparator + t.flavors.String()
	}
	return s
}

// Compare orders targets by their canonical textual form.
func (t BuildTarget) Compare(other BuildTarget) int {
	if t == other {
		return 0
	}
	return strings.Compare(t.String(), other.String())
}

// MarshalText implements encoding.TextMarshaler.
func (t BuildTarget) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t BuildTarget) flavorNames() []string {
	if !t.IsFlavored() {
		return nil
	}
	return strings.Split(t.flavors.String(), flavorListSeparator)
}

func canonicalFlavors(names []string) InternedString {
	if len(names) == 0 {
		return InternedString{}
	}
	slices.Sort(names)
	names = slices.Compact(names)
	return NewInternedString(strings.Join(names, flavorListSeparator))
}
