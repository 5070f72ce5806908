// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed docs/benchmarking.md
var benchmarkingGuide string

var (
	// docsRaw prints plain markdown instead of rendering for the terminal
	docsRaw bool

	// docsCmd renders the built-in benchmarking guide
	docsCmd = &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show the built-in benchmarking guide",
		Long: `Show the built-in benchmarking guide.

The guide covers the full workflow: writing scenarios, declaring datasets,
reading report directories, comparing runs, and the profiling commands with
the external tools they need. Pass a topic to show a single section; topics
match guide headings by prefix, so 'docs profile' works.

Examples:
  neargrid docs                      Show the full guide
  neargrid docs profiling            In-process CPU and heap profiles
  neargrid docs "system samplers"    perf and sample(1) setup
  neargrid docs reports --raw        Plain markdown, pager-friendly`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDocs,
	}
)

func init() {
	docsCmd.Flags().BoolVar(&docsRaw, "raw", false, "print plain markdown without terminal rendering")
}

func runDocs(cmd *cobra.Command, args []string) error {
	content := benchmarkingGuide
	if len(args) == 1 {
		section, ok := guideSection(benchmarkingGuide, args[0])
		if !ok {
			return fmt.Errorf("no guide topic matches '%s' (topics: %s)",
				args[0], strings.Join(guideTopics(benchmarkingGuide), ", "))
		}
		content = section
	}

	if docsRaw {
		fmt.Print(content)
		return nil
	}

	rendered, err := renderGuide(content)
	if err != nil {
		// Rendering is cosmetic; the guide itself still prints.
		fmt.Print(content)
		return nil
	}
	fmt.Print(rendered)
	return nil
}

// renderGuide renders markdown for the terminal, adapting to the detected
// background color and wrapping for readability.
func renderGuide(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}

// guideSection extracts a single '## ' section of the guide. The topic
// matches headings case-insensitively by prefix and the returned section
// runs up to the next heading.
func guideSection(guide, topic string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(topic))
	if want == "" {
		return "", false
	}

	var section []string
	found := false
	for _, line := range strings.Split(guide, "\n") {
		if strings.HasPrefix(line, "## ") {
			if found {
				break
			}
			heading := strings.ToLower(strings.TrimPrefix(line, "## "))
			if strings.HasPrefix(heading, want) {
				found = true
			}
		}
		if found {
			section = append(section, line)
		}
	}
	if !found {
		return "", false
	}
	return strings.TrimRight(strings.Join(section, "\n"), "\n") + "\n", true
}

// guideTopics lists the guide's '## ' headings, lowercased.
func guideTopics(guide string) []string {
	var topics []string
	for _, line := range strings.Split(guide, "\n") {
		if strings.HasPrefix(line, "## ") {
			topics = append(topics, strings.ToLower(strings.TrimPrefix(line, "## ")))
		}
	}
	return topics
}
