package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidBuildTarget is returned when a build target string cannot be parsed.
	ErrInvalidBuildTarget = zerr.New("invalid build target")

	// ErrInvalidFlavor is returned when a flavor name contains invalid characters.
	ErrInvalidFlavor = zerr.New("invalid flavor, expected alphanumeric characters, '_', '-' or '.'")

	// ErrUnknownPackagingMode is returned when the enhancement config names a packaging mode the engine does not know.
	ErrUnknownPackagingMode = zerr.New("unknown packaging mode, expected 'aapt1' or 'aapt2'")

	// ErrUnknownCompressionMode is returned when the enhancement config names an unknown resource compression mode.
	ErrUnknownCompressionMode = zerr.New("unknown resource compression mode")

	// ErrConflictingOptions is returned when two enhancement options cannot be combined.
	ErrConflictingOptions = zerr.New("conflicting enhancement options")

	// ErrNoSuchBuildTarget is returned when a required rule is not declared in the project.
	ErrNoSuchBuildTarget = zerr.New("no such build target")

	// ErrWrongRuleKind is returned when a rule exists but lacks the capability the caller needs.
	ErrWrongRuleKind = zerr.New("rule has the wrong kind")

	// ErrIndexConsistency is returned when two different actions claim the same identifier in the action index.
	ErrIndexConsistency = zerr.New("action index consistency violation")

	// ErrRuleAlreadyExists is returned when attempting to add a rule with a target that already exists.
	ErrRuleAlreadyExists = zerr.New("rule already exists")

	// ErrMissingDependency is returned when a rule references a dependency that doesn't exist in the project.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the rule dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrNoTargetsSpecified is returned when no targets are specified for the enhance command.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrConfigNotFound is returned when no project file is found.
	ErrConfigNotFound = zerr.New("could not find " + ProjectFileName)

	// ErrConfigReadFailed is returned when the project file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read project file")

	// ErrConfigParseFailed is returned when the project file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse project file")

	// ErrUnknownRuleType is returned when a project file declares a rule type the engine does not model.
	ErrUnknownRuleType = zerr.New("unknown rule type")

	// ErrAlreadyOpened is returned when an artifact entry is opened for writing twice.
	ErrAlreadyOpened = zerr.New("artifact entry already opened for writing")

	// ErrEntryNotFinalized is returned when an artifact entry is read before its writer was closed.
	ErrEntryNotFinalized = zerr.New("artifact entry not finalized")

	// ErrDuplicateEntry is returned when two artifact entries share the same name in one container.
	ErrDuplicateEntry = zerr.New("duplicate artifact entry")

	// ErrSinkClosed is returned when an artifact container is used after it was closed.
	ErrSinkClosed = zerr.New("artifact container is closed")

	// ErrSinkWriteFailed is returned when an artifact entry cannot be written to its container.
	ErrSinkWriteFailed = zerr.New("failed to write artifact entry")

	// ErrArchiveCreateFailed is returned when the graph archive file cannot be created.
	ErrArchiveCreateFailed = zerr.New("failed to create graph archive")

	// ErrArchiveReadFailed is returned when a graph archive cannot be opened or decoded.
	ErrArchiveReadFailed = zerr.New("failed to read graph archive")
)
