// SPDX-License-Identifier: MPL-2.0

package benchfile

import (
	"fmt"
	"strings"
)

// GenerateCUE generates CUE text from a Benchfile struct.
// This is useful for creating benchfile.cue files programmatically
// ('neargrid init' templates go through here).
func GenerateCUE(bf *Benchfile) string {
	var sb strings.Builder

	sb.WriteString("// Benchfile - benchmark scenario definitions for neargrid\n")
	sb.WriteString("// Run 'neargrid bench list' to see the scenarios defined here.\n\n")

	if bf.Version != "" {
		fmt.Fprintf(&sb, "version: %q\n\n", bf.Version)
	}

	sb.WriteString("scenarios: {\n")
	for _, name := range bf.List() {
		sc := bf.Scenarios[name]
		generateScenario(&sb, name, &sc)
	}
	sb.WriteString("}\n")

	return sb.String()
}

// generateScenario emits one scenario block. Fields still at their schema
// defaults are omitted so generated files stay small.
func generateScenario(sb *strings.Builder, name string, sc *Scenario) {
	fmt.Fprintf(sb, "\t%s: {\n", cueLabel(name))

	if sc.Description != "" {
		fmt.Fprintf(sb, "\t\tdescription: %q\n", sc.Description)
	}
	if sc.Dataset != "" {
		fmt.Fprintf(sb, "\t\tdataset: %q\n", sc.Dataset)
	}
	if sc.DatasetPath != "" {
		fmt.Fprintf(sb, "\t\tdataset_path: %q\n", sc.DatasetPath)
	}
	if sc.Scale != 0 {
		fmt.Fprintf(sb, "\t\tscale: %v\n", sc.Scale)
	}

	generateQueries(sb, sc.Queries)

	if sc.Warmup != DefaultWarmup {
		fmt.Fprintf(sb, "\t\twarmup: %d\n", sc.Warmup)
	}
	if sc.Iterations != 0 {
		fmt.Fprintf(sb, "\t\titerations: %d\n", sc.Iterations)
	}
	if sc.SpiralShells != 0 && sc.SpiralShells != DefaultSpiralShells {
		fmt.Fprintf(sb, "\t\tspiral_shells: %d\n", sc.SpiralShells)
	}
	if sc.Workers != 0 {
		fmt.Fprintf(sb, "\t\tworkers: %d\n", sc.Workers)
	}

	generateHooks(sb, sc.Hooks)
	generateWatch(sb, sc.Watch)

	sb.WriteString("\t}\n")
}

// generateQueries emits a queries block when any field differs from the
// schema defaults. No-op otherwise.
func generateQueries(sb *strings.Builder, q QuerySpec) {
	type line struct {
		key   string
		value string
	}
	var lines []line

	if q.Count != 0 && q.Count != DefaultQueryCount {
		lines = append(lines, line{"count", fmt.Sprintf("%d", q.Count)})
	}
	if q.Seed != 0 && q.Seed != DefaultQuerySeed {
		lines = append(lines, line{"seed", fmt.Sprintf("%d", q.Seed)})
	}
	if !q.Removed {
		lines = append(lines, line{"removed", "false"})
	}
	if q.OffsetX != DefaultOffset {
		lines = append(lines, line{"offset_x", fmt.Sprintf("%v", q.OffsetX)})
	}
	if q.OffsetZ != DefaultOffset {
		lines = append(lines, line{"offset_z", fmt.Sprintf("%v", q.OffsetZ)})
	}

	if len(lines) == 0 {
		return
	}
	sb.WriteString("\t\tqueries: {\n")
	for _, l := range lines {
		fmt.Fprintf(sb, "\t\t\t%s: %s\n", l.key, l.value)
	}
	sb.WriteString("\t\t}\n")
}

// generateHooks emits a hooks block. No-op when hooks is nil or empty.
func generateHooks(sb *strings.Builder, h *Hooks) {
	if h == nil || (h.Setup == "" && h.Teardown == "") {
		return
	}
	sb.WriteString("\t\thooks: {\n")
	if h.Setup != "" {
		writeScript(sb, "setup", h.Setup)
	}
	if h.Teardown != "" {
		writeScript(sb, "teardown", h.Teardown)
	}
	sb.WriteString("\t\t}\n")
}

// writeScript emits a hook script, using a CUE multiline literal for
// scripts that span lines.
func writeScript(sb *strings.Builder, key, script string) {
	if !strings.Contains(script, "\n") {
		fmt.Fprintf(sb, "\t\t\t%s: %q\n", key, script)
		return
	}
	fmt.Fprintf(sb, "\t\t\t%s: \"\"\"\n", key)
	for _, ln := range strings.Split(strings.TrimRight(script, "\n"), "\n") {
		fmt.Fprintf(sb, "\t\t\t\t%s\n", ln)
	}
	sb.WriteString("\t\t\t\t\"\"\"\n")
}

// generateWatch emits a watch block. No-op when watch is nil.
func generateWatch(sb *strings.Builder, w *WatchConfig) {
	if w == nil {
		return
	}
	sb.WriteString("\t\twatch: {\n")
	sb.WriteString("\t\t\tpatterns: [")
	for i, p := range w.Patterns {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%q", p)
	}
	sb.WriteString("]\n")
	if w.Debounce != "" {
		fmt.Fprintf(sb, "\t\t\tdebounce: %q\n", w.Debounce)
	}
	if w.ClearScreen {
		sb.WriteString("\t\t\tclear_screen: true\n")
	}
	if len(w.Ignore) > 0 {
		sb.WriteString("\t\t\tignore: [")
		for i, p := range w.Ignore {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%q", p)
		}
		sb.WriteString("]\n")
	}
	sb.WriteString("\t\t}\n")
}

// cueLabel quotes a scenario name when it is not a bare CUE identifier.
// Names with dots or hyphens parse as expressions unless quoted, and bare
// labels cannot start with a digit.
func cueLabel(name string) string {
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return fmt.Sprintf("%q", name)
			}
		default:
			return fmt.Sprintf("%q", name)
		}
	}
	return name
}
