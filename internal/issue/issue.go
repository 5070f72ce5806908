// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	BenchfileNotFoundId Id = iota + 1
	BenchfileParseErrorId
	ScenarioNotFoundId
	DatasetNotFoundId
	DatasetVerifyFailedId
	PlyParseErrorId
	SpiralCacheCorruptId
	HookExecutionFailedId
	ProfileToolNotFoundId
	SamplerPrivilegesId
	SamplerNotSupportedId
	ConfigLoadFailedId
	PermissionDeniedId
	ReportWriteFailedId
	CompareInputInvalidId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	benchfileNotFoundIssue = &Issue{
		id: BenchfileNotFoundId,
		mdMsg: `
# No benchfile found!

We searched for a benchfile but couldn't find one in the expected locations.

## Search locations (in order of precedence):
1. Current directory
2. Your neargrid config directory
3. Paths configured in your config file

## Things you can try:
- Create a starter benchfile in your current directory:
~~~
$ neargrid init
~~~

- Or point at one explicitly:
~~~
$ neargrid bench run smoke --benchfile /path/to/benchfile.cue
~~~

## Example benchfile structure:
~~~cue
version: "1.0"

scenarios: {
	smoke: {
		description: "Small cloud sanity run"
		dataset:     "bunny"
		iterations:  5
	}
}
~~~`,
	}

	benchfileParseErrorIssue = &Issue{
		id: BenchfileParseErrorId,
		mdMsg: `
# Failed to parse benchfile!

Your benchfile contains syntax errors or invalid configuration.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- Invalid values for known fields
- A scenario naming both 'dataset' and 'dataset_path' (they are mutually exclusive)

## Things you can try:
- Check the error message above for the specific field path
- Validate your CUE syntax using the cue command-line tool
- Run with verbose mode for more details:
~~~
$ neargrid --verbose bench list
~~~

## Example of a valid scenario:
~~~cue
scenarios: {
	build_heavy: {
		description: "Index construction on the full scan"
		dataset:     "blade"
		scale:       1.19
		iterations:  10
		queries: {
			count: 10000
			seed:  42
		}
	}
}
~~~`,
	}

	scenarioNotFoundIssue = &Issue{
		id: ScenarioNotFoundId,
		mdMsg: `
# Scenario not found!

The scenario you specified does not exist in the loaded benchfile.

## Things you can try:
- List all available scenarios:
~~~
$ neargrid bench list
~~~

- Check for typos in the scenario name
- Verify you are loading the benchfile you think you are:
~~~
$ neargrid bench list --benchfile ./benchfile.cue
~~~`,
	}

	datasetNotFoundIssue = &Issue{
		id: DatasetNotFoundId,
		mdMsg: `
# Dataset not found!

The named dataset is not declared in any discovered dataset manifest.

## Search locations (in order of precedence):
1. datasets.toml in the current directory
2. datasets.toml in your neargrid config directory
3. Manifests in your configured dataset search paths

## Things you can try:
- List every dataset the manifests declare:
~~~
$ neargrid dataset list
~~~

- Generate a synthetic dataset to get started:
~~~
$ neargrid dataset gen --points 100000 --out clouds/uniform.ply
~~~

## Example manifest entry:
~~~toml
[[dataset]]
name = "bunny"
path = "clouds/bunny.ply"
format = "ply"
expected_points = 35947
~~~`,
	}

	datasetVerifyFailedIssue = &Issue{
		id: DatasetVerifyFailedId,
		mdMsg: `
# Dataset verification failed!

A dataset on disk does not match what its manifest declares.

## Common causes:
- The file was re-exported with a different point count
- The path glob matches a different file than intended
- The file is truncated or was only partially downloaded

## Things you can try:
- Re-run verification to see every mismatch:
~~~
$ neargrid dataset verify
~~~

- Update expected_points in the manifest if the new count is correct
- Re-fetch or regenerate the dataset file`,
	}

	plyParseErrorIssue = &Issue{
		id: PlyParseErrorId,
		mdMsg: `
# Failed to read PLY file!

The point cloud file could not be parsed.

## Common causes:
- The file is not a PLY file at all (wrong extension or magic)
- An unsupported PLY flavor (only ascii and binary_little_endian are supported)
- The header declares more vertices than the body contains

## Things you can try:
- Check that the first line of the file reads 'ply'
- Convert big-endian or compressed files to binary_little_endian
- Regenerate a synthetic cloud instead:
~~~
$ neargrid dataset gen --points 100000 --out cloud.ply
~~~`,
	}

	spiralCacheCorruptIssue = &Issue{
		id: SpiralCacheCorruptId,
		mdMsg: `
# Spiral table cache is corrupt!

A cached spiral walk table could not be decoded.

## Cache locations:
- Linux: ~/.cache/neargrid/
- macOS: ~/Library/Caches/neargrid/
- Windows: %LocalAppData%\neargrid\

## Things you can try:
- Remove the cached tables; the next run regenerates them:
~~~
$ rm ~/.cache/neargrid/spiral_*.json.gz
~~~

- Regenerate one explicitly:
~~~
$ neargrid spiral gen --shells 100
~~~

Cached tables are versioned, so tables written by old releases are
regenerated automatically rather than reported as corrupt.`,
	}

	hookExecutionFailedIssue = &Issue{
		id: HookExecutionFailedId,
		mdMsg: `
# Scenario hook failed!

A setup or teardown hook exited with a non-zero status.

## Common causes:
- Command not found in PATH
- Syntax error in the hook script
- The hook assumes files the working directory doesn't have

## Things you can try:
- Run with verbose mode to see the hook's output:
~~~
$ neargrid --verbose bench run <scenario>
~~~

- Test the hook script manually in your shell
- Hooks run with NEARGRID_SCENARIO, NEARGRID_DATASET and
  NEARGRID_RUN_ID exported; check your script's use of them`,
	}

	profileToolNotFoundIssue = &Issue{
		id: ProfileToolNotFoundId,
		mdMsg: `
# Profiling tool not found!

An external tool needed for this profiling mode is not on your PATH.

## Tools by mode:
- **flame**: go (runs 'go tool pprof')
- **sample**: perf on Linux, sample on macOS
- **plot**: gnuplot (optional; the data and script files are always written)

## Things you can try:
- Install the missing tool:
  - Linux: ` + "`sudo apt install linux-perf gnuplot`" + ` or ` + "`sudo dnf install perf gnuplot`" + `
  - macOS: sample ships with the OS; ` + "`brew install gnuplot`" + `

- Use the built-in pprof capture instead, which needs no external tools:
~~~
$ neargrid profile cpu <scenario>
~~~`,
	}

	samplerPrivilegesIssue = &Issue{
		id: SamplerPrivilegesId,
		mdMsg: `
# Sampler needs elevated privileges!

The system sampler cannot attach to the process as the current user.

## Platform notes:
- **macOS**: 'sample' requires root
- **Linux**: 'perf' respects kernel.perf_event_paranoid

## Things you can try:
- Rerun under sudo:
~~~
$ sudo neargrid profile sample <scenario>
~~~

- On Linux, relax the paranoid level for this session:
~~~
$ sudo sysctl kernel.perf_event_paranoid=1
~~~

- Or use the built-in pprof capture, which needs no privileges:
~~~
$ neargrid profile cpu <scenario>
~~~`,
	}

	samplerNotSupportedIssue = &Issue{
		id: SamplerNotSupportedId,
		mdMsg: `
# Sampler not supported on this platform!

System-level sampling is only wired up for Linux (perf) and macOS (sample).

## Things you can try:
- Use the built-in pprof capture, which works everywhere:
~~~
$ neargrid profile cpu <scenario>
$ neargrid profile heap <scenario>
~~~

- Generate a flamegraph from the pprof capture:
~~~
$ neargrid profile flame <scenario>
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the neargrid configuration file.

## Configuration file locations:
- Linux: ~/.config/neargrid/config.cue
- macOS: ~/Library/Application Support/neargrid/config.cue
- Windows: %APPDATA%\neargrid\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ neargrid config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/neargrid/config.cue
~~~

## Example configuration:
~~~cue
reports_dir: "~/bench-reports"
dataset_search_paths: [
	"/data/pointclouds"
]

profile: {
	sampler: "auto"
}

ui: {
	color_scheme: "auto"
	verbose: false
}
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- Trying to write reports to a protected directory
- The cache directory is owned by another user (e.g. after a sudo run)
- The system sampler requires elevated permissions

## Things you can try:
- Check file/directory permissions
- Point reports_dir at a directory you own:
~~~
$ neargrid config init   # then edit reports_dir
~~~

- Reclaim cache files created under sudo:
~~~
$ sudo chown -R $USER ~/.cache/neargrid
~~~`,
	}

	reportWriteFailedIssue = &Issue{
		id: ReportWriteFailedId,
		mdMsg: `
# Failed to write report!

The benchmark finished but its report directory could not be written.

## Common causes:
- The reports directory does not exist and could not be created
- No space left on device
- Read-only filesystem (containers, CI workspaces)

## Things you can try:
- Point reports_dir at a writable location in your config
- Check free space:
~~~
$ df -h
~~~

- Re-run the scenario once the location is writable; results are not
  cached between runs`,
	}

	compareInputInvalidIssue = &Issue{
		id: CompareInputInvalidId,
		mdMsg: `
# Cannot compare these result files!

The inputs to 'bench compare' could not be read as Go benchmark files.

## Common causes:
- The path points at run.json instead of results.txt
- The file was edited and no longer parses
- The two runs share no scenario/phase pairs

## Things you can try:
- Pass the results.txt from each report directory:
~~~
$ neargrid bench compare reports/<old>/results.txt reports/<new>/results.txt
~~~

- Check where reports live (reports_dir in the effective config):
~~~
$ neargrid config show
~~~`,
	}

	issues = map[Id]*Issue{
		benchfileNotFoundIssue.Id():   benchfileNotFoundIssue,
		benchfileParseErrorIssue.Id(): benchfileParseErrorIssue,
		scenarioNotFoundIssue.Id():    scenarioNotFoundIssue,
		datasetNotFoundIssue.Id():     datasetNotFoundIssue,
		datasetVerifyFailedIssue.Id(): datasetVerifyFailedIssue,
		plyParseErrorIssue.Id():       plyParseErrorIssue,
		spiralCacheCorruptIssue.Id():  spiralCacheCorruptIssue,
		hookExecutionFailedIssue.Id(): hookExecutionFailedIssue,
		profileToolNotFoundIssue.Id(): profileToolNotFoundIssue,
		samplerPrivilegesIssue.Id():   samplerPrivilegesIssue,
		samplerNotSupportedIssue.Id(): samplerNotSupportedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
		reportWriteFailedIssue.Id():   reportWriteFailedIssue,
		compareInputInvalidIssue.Id(): compareInputInvalidIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
