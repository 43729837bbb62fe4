package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/resgraph/internal/app"
	"go.trai.ch/resgraph/internal/core/domain"
	"go.trai.ch/resgraph/internal/ui/style"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func colored(out *termenv.Output, s string, color lipgloss.Color) termenv.Style {
	return out.String(s).Foreground(out.Color(string(color)))
}

func row(out *termenv.Output, label, value string) {
	_, _ = fmt.Fprintf(out, "  %-14s %s %s\n", label, colored(out, style.Arrow, style.Muted), value)
}

func renderReport(out *termenv.Output, r *app.Report) {
	for _, b := range r.Binaries {
		_, _ = fmt.Fprintf(out, "%s %s %s\n",
			colored(out, style.Dot, style.Accent),
			colored(out, b.Target, style.Accent).Bold(),
			colored(out, "("+string(b.Packaging)+")", style.Muted),
		)
		row(out, "resources apk", b.ResourcesApk)
		row(out, "R.txt", b.RDotTxt)
		if b.RDotJavaDir != "" {
			row(out, "R.java", b.RDotJavaDir)
		}
		row(out, "manifest", b.Manifest)
		row(out, "proguard", b.ProguardConfig)
		if b.StringAssetsZip != "" {
			row(out, "string assets", b.StringAssetsZip)
		}
		for _, zip := range b.PrimaryApkAssetZips {
			row(out, "asset zip", zip)
		}

		kinds := make([]string, len(b.EnhancedDeps))
		for i, d := range b.EnhancedDeps {
			kinds[i] = string(d.Kind)
		}
		row(out, "actions", strings.Join(kinds, ", "))
	}

	_, _ = fmt.Fprintf(out, "%s enhanced %d %s into %d actions (fingerprint %s)\n",
		colored(out, style.Check, style.Green),
		len(r.Binaries), plural(len(r.Binaries), "binary", "binaries"),
		r.Nodes, r.Fingerprint,
	)
	if r.Archive != "" {
		row(out, "archive", r.Archive)
	}
}

func renderActions(out *termenv.Output, nodes []domain.ActionDescription) {
	for _, n := range nodes {
		_, _ = fmt.Fprintf(out, "%s %s\n",
			colored(out, n.Target, style.Accent).Bold(),
			colored(out, "("+string(n.Kind)+")", style.Muted),
		)
		for _, dep := range n.Deps {
			_, _ = fmt.Fprintf(out, "  %s %s\n", colored(out, style.Arrow, style.Muted), dep)
		}
	}
	_, _ = fmt.Fprintf(out, "%s %d %s\n",
		colored(out, style.Check, style.Green),
		len(nodes), plural(len(nodes), "action", "actions"),
	)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
