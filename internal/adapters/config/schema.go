package config

// Projectfile represents the structure of the resgraph.yaml file at the project root.
type Projectfile struct {
	Version  string     `yaml:"version"`
	Root     string     `yaml:"root"`
	Packages []string   `yaml:"packages"`
	Rules    []*RuleDTO `yaml:"rules"`
}

// Packagefile represents the structure of a BUILD.yaml file.
type Packagefile struct {
	Rules []*RuleDTO `yaml:"rules"`
}

// RuleDTO represents a rule declaration in the configuration.
// Paths are relative to the declaring package; a path starting with "//" or
// ":" names a genrule whose output is used instead.
type RuleDTO struct {
	Name                  string   `yaml:"name"`
	Type                  string   `yaml:"type"`
	Deps                  []string `yaml:"deps"`
	Res                   string   `yaml:"res"`
	Assets                string   `yaml:"assets"`
	HasWhitelistedStrings bool     `yaml:"has_whitelisted_strings"`
	Cmd                   string   `yaml:"cmd"`
	Out                   string   `yaml:"out"`

	// android_binary options.
	Manifest                     string              `yaml:"manifest"`
	Packaging                    string              `yaml:"packaging"`
	ResourceFilter               []string            `yaml:"resource_filter"`
	Downscale                    bool                `yaml:"downscale"`
	ResourceCompression          string              `yaml:"resource_compression"`
	Locales                      []string            `yaml:"locales"`
	ManifestEntries              *ManifestEntriesDTO `yaml:"manifest_entries"`
	ResourceUnionPackage         string              `yaml:"resource_union_package"`
	IncludesVectorDrawables      bool                `yaml:"includes_vector_drawables"`
	SkipCrunchPngs               bool                `yaml:"skip_crunch_pngs"`
	BannedDuplicateResourceTypes []string            `yaml:"banned_duplicate_resource_types"`
	PostFilterResourcesCmd       string              `yaml:"post_filter_resources_cmd"`
	BuildStringSourceMap         bool                `yaml:"build_string_source_map"`
}

// ManifestEntriesDTO overrides values of the application manifest.
type ManifestEntriesDTO struct {
	MinSdkVersion    *int   `yaml:"min_sdk_version"`
	TargetSdkVersion *int   `yaml:"target_sdk_version"`
	VersionCode      *int   `yaml:"version_code"`
	VersionName      string `yaml:"version_name"`
	DebugMode        *bool  `yaml:"debug_mode"`
}
