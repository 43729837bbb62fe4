package domain

// SourcePath names a file or directory consumed by an action.
// It is either a plain path or an output of another build target, in which
// case the owning target is a dependency of every action that reads it.
type SourcePath struct {
	owner BuildTarget
	path  InternedString
}

// NewPathSourcePath returns a SourcePath for a plain, checked-in path.
func NewPathSourcePath(p string) SourcePath {
	return SourcePath{path: NewInternedString(p)}
}

// NewTargetSourcePath returns a SourcePath for a path produced by owner.
func NewTargetSourcePath(owner BuildTarget, p string) SourcePath {
	return SourcePath{owner: owner, path: NewInternedString(p)}
}

// Owner returns the build target producing the path, if any.
func (p SourcePath) Owner() (BuildTarget, bool) {
	return p.owner, !p.owner.IsZero()
}

// Path returns the path relative to the project root.
func (p SourcePath) Path() string {
	return p.path.String()
}

// IsZero reports whether the SourcePath is unset.
func (p SourcePath) IsZero() bool {
	return p == SourcePath{}
}

// String returns the path, prefixed by its owning target for target-backed paths.
func (p SourcePath) String() string {
	if p.owner.IsZero() {
		return p.Path()
	}
	return p.owner.String() + "[" + p.Path() + "]"
}

// MarshalText implements encoding.TextMarshaler.
func (p SourcePath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
