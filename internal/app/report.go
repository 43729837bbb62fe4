package app

import "go.trai.ch/resgraph/internal/core/domain"

// Report summarizes one Enhance run.
type Report struct {
	Binaries []BinaryReport `json:"binaries"`
	// Nodes is the number of actions in the graph, shared ones counted once.
	Nodes       int    `json:"nodes"`
	Fingerprint string `json:"fingerprint"`
	Archive     string `json:"archive,omitempty"`
}

// BinaryReport describes the resource graph of one android_binary.
type BinaryReport struct {
	Target              string               `json:"target"`
	Packaging           domain.PackagingMode `json:"packaging"`
	ResourcesApk        string               `json:"resources_apk"`
	RDotTxt             string               `json:"r_txt"`
	RDotJavaDir         string               `json:"r_java,omitempty"`
	Manifest            string               `json:"manifest"`
	ProguardConfig      string               `json:"proguard_config"`
	StringAssetsZip     string               `json:"string_assets_zip,omitempty"`
	PrimaryApkAssetZips []string             `json:"primary_apk_asset_zips"`
	EnhancedDeps        []Action             `json:"enhanced_deps"`
}

// Action names one node created by the enhancement.
type Action struct {
	Target string          `json:"target"`
	Kind   domain.RuleKind `json:"kind"`
}

func newBinaryReport(target domain.BuildTarget, mode domain.PackagingMode, result *domain.EnhancementResult) BinaryReport {
	r := BinaryReport{
		Target:         target.String(),
		Packaging:      mode,
		ResourcesApk:   result.PrimaryResourcesApk().Path(),
		RDotTxt:        result.RDotTxt().Path(),
		Manifest:       result.AndroidManifestXML().Path(),
		ProguardConfig: result.AaptGeneratedProguardConfig().Path(),
	}
	if dir, ok := result.RDotJavaDir(); ok {
		r.RDotJavaDir = dir.Path()
	}
	if psa, ok := result.PackageStringAssets(); ok {
		r.StringAssetsZip = psa.StringAssetsZip.Path()
	}

	zips := result.PrimaryApkAssetZips()
	r.PrimaryApkAssetZips = make([]string, len(zips))
	for i, z := range zips {
		r.PrimaryApkAssetZips[i] = z.Path()
	}

	deps := result.EnhancedDeps()
	r.EnhancedDeps = make([]Action, len(deps))
	for i, d := range deps {
		r.EnhancedDeps[i] = Action{Target: d.Target().String(), Kind: d.Kind()}
	}
	return r
}
