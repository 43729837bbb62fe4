package domain

import (
	"fmt"
	"path"
	"path/filepath"
)

const (
	// ProjectFileName is the name of the project description file.
	ProjectFileName = "resgraph.yaml"

	// PackageFileName is the name of the file declaring the rules of one package.
	PackageFileName = "BUILD.yaml"

	// BuckOutDirName is the name of the directory holding every generated file.
	BuckOutDirName = "buck-out"

	// GenDirName is the name of the directory holding action outputs.
	GenDirName = "gen"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultGenPath returns the root of generated action outputs.
// It joins buck-out and gen.
func DefaultGenPath() string {
	return filepath.Join(BuckOutDirName, GenDirName)
}

// GenPath returns the output location of a file produced by target.
// format must contain one %s verb, which is replaced by the target's short
// name and flavor list ("res#aapt2_compile,filtered"). Neither separator can
// occur in a short name or a flavor, so distinct targets get distinct paths.
func GenPath(target BuildTarget, format string) string {
	name := target.ShortName()
	if target.IsFlavored() {
		name += flavorSeparator + target.flavors.String()
	}
	return filepath.ToSlash(filepath.Join(DefaultGenPath(), target.BasePath(), fmt.Sprintf(format, name)))
}

// GenruleOutput returns the location of the declared output of a genrule.
// A genrule without a declared output writes a file named after the rule.
func GenruleOutput(target BuildTarget, out string) string {
	if out == "" {
		out = target.ShortName()
	}
	return path.Join(GenPath(target, "%s"), out)
}
