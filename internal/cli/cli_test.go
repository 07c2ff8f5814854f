package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const projectDirectoryName = "project"

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.err
}

type commandHarness struct {
	copier   *recordingCopier
	logs     *observer.ObservedLogs
	project  string
	stdout   *bytes.Buffer
	terminal bool
}

// newHarness creates a project directory, makes it the working directory and
// isolates the home directory so no global configuration is read.
func newHarness(testingHandle *testing.T, relativePaths ...string) *commandHarness {
	testingHandle.Helper()
	baseDirectory := testingHandle.TempDir()
	testingHandle.Setenv("HOME", baseDirectory)
	project := filepath.Join(baseDirectory, projectDirectoryName)
	for _, relativePath := range relativePaths {
		writeProjectFile(testingHandle, filepath.Join(project, filepath.FromSlash(relativePath)), "x")
	}
	if mkdirError := os.MkdirAll(project, 0o755); mkdirError != nil {
		testingHandle.Fatalf("creating project: %v", mkdirError)
	}
	testingHandle.Chdir(project)
	return &commandHarness{copier: &recordingCopier{}, project: project, stdout: &bytes.Buffer{}}
}

func writeProjectFile(testingHandle *testing.T, path string, content string) {
	testingHandle.Helper()
	if mkdirError := os.MkdirAll(filepath.Dir(path), 0o755); mkdirError != nil {
		testingHandle.Fatalf("creating directory for %s: %v", path, mkdirError)
	}
	if writeError := os.WriteFile(path, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("writing %s: %v", path, writeError)
	}
}

func (harness *commandHarness) run(arguments ...string) error {
	core, logs := observer.New(zap.DebugLevel)
	harness.logs = logs
	rootCommand := NewRootCommand(Dependencies{
		Clipboard:     harness.copier,
		Interactive:   func(io.Writer) bool { return harness.terminal },
		LoggerFactory: func(bool) (*zap.Logger, error) { return zap.New(core), nil },
	})
	rootCommand.SetOut(harness.stdout)
	rootCommand.SetErr(io.Discard)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	return rootCommand.Execute()
}

func TestRootCommandRendersTree(testingHandle *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		terminal  bool
		expected  string
	}{
		{
			name:     "defaults",
			expected: "project/\n├─ .gitignore\n├─ a.go\n└─ sub/\n   └─ deep/\n      └─ c.go\n",
		},
		{
			name:      "depth one",
			arguments: []string{"--depth", "1"},
			expected:  "project/\n├─ .gitignore\n├─ a.go\n└─ sub/\n   └─ ... (max depth reached)\n",
		},
		{
			name:      "limit one",
			arguments: []string{"--limit", "1"},
			expected:  "project/\n├─ .gitignore\n└─ ... (1 file and 1 directory skipped)\n",
		},
		{
			name:      "limit without details",
			arguments: []string{"--limit", "1", "--details", "no"},
			expected:  "project/\n├─ .gitignore\n└─ ...\n",
		},
		{
			name:      "compact ascii",
			arguments: []string{"--compact", "--glyphs", "ascii"},
			expected:  "project/\n|-- .gitignore\n|-- a.go\n`-- sub/deep/\n    `-- c.go\n",
		},
		{
			name:      "gitignore disabled",
			arguments: []string{"--no-gitignore", "--sort", "directories_first"},
			expected:  "project/\n├─ sub/\n│  └─ deep/\n│     └─ c.go\n├─ .gitignore\n├─ a.go\n└─ b.log\n",
		},
		{
			name:      "exclusion pattern",
			arguments: []string{"-e", "sub", "--reverse"},
			expected:  "project/\n├─ a.go\n└─ .gitignore\n",
		},
		{
			name:      "emojis never on terminal",
			arguments: []string{"--emojis", "never", "--depth", "0"},
			terminal:  true,
			expected:  "project/\n└─ ... (max depth reached)\n",
		},
		{
			name:      "emojis auto on terminal",
			arguments: []string{"--depth", "0"},
			terminal:  true,
			expected:  "📂 project/\n└─ ... (max depth reached)\n",
		},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			harness := newHarness(testingHandle, "a.go", "b.log", "sub/deep/c.go")
			writeProjectFile(testingHandle, filepath.Join(harness.project, ".gitignore"), "*.log\n")
			harness.terminal = testCase.terminal
			if runError := harness.run(testCase.arguments...); runError != nil {
				testingHandle.Fatalf("run failed: %v", runError)
			}
			if harness.stdout.String() != testCase.expected {
				testingHandle.Fatalf("unexpected output:\n%s\nexpected:\n%s", harness.stdout.String(), testCase.expected)
			}
		})
	}
}

func TestRootCommandSeparatesMultipleRoots(testingHandle *testing.T) {
	harness := newHarness(testingHandle, "left/one.txt", "right/two.txt")
	if runError := harness.run("right", "left", "right"); runError != nil {
		testingHandle.Fatalf("run failed: %v", runError)
	}
	expected := "right/\n└─ two.txt\n\nleft/\n└─ one.txt\n"
	if harness.stdout.String() != expected {
		testingHandle.Fatalf("unexpected output:\n%s", harness.stdout.String())
	}
}

func TestRootCommandAppliesLocalConfiguration(testingHandle *testing.T) {
	harness := newHarness(testingHandle, "main.go", "notes.txt", "vendor/lib.go")
	writeProjectFile(testingHandle, filepath.Join(harness.project, ".ptree.yaml"), `tree:
  child_limit_rules:
    - matcher:
        name: vendor
      limit: 0
  line_extensions:
    - matcher:
        extension: go
      text: "  # go"
`)
	if runError := harness.run(); runError != nil {
		testingHandle.Fatalf("run failed: %v", runError)
	}
	expected := "project/\n├─ .ptree.yaml\n├─ main.go  # go\n├─ notes.txt\n└─ vendor/\n   └─ ... (1 file skipped)\n"
	if harness.stdout.String() != expected {
		testingHandle.Fatalf("unexpected output:\n%s", harness.stdout.String())
	}

	harness.stdout.Reset()
	if runError := harness.run("--limit", "1"); runError != nil {
		testingHandle.Fatalf("run with flag override failed: %v", runError)
	}
	if !strings.HasSuffix(harness.stdout.String(), "└─ ... (2 files and 1 directory skipped)\n") {
		testingHandle.Fatalf("flag did not override configuration:\n%s", harness.stdout.String())
	}
}

func TestRootCommandCopiesAndCountsTokens(testingHandle *testing.T) {
	harness := newHarness(testingHandle, "main.go")
	if runError := harness.run("--copy", "--tokens"); runError != nil {
		testingHandle.Fatalf("run failed: %v", runError)
	}
	expectedTree := "project/\n└─ main.go"
	if len(harness.copier.copied) != 1 || harness.copier.copied[0] != expectedTree {
		testingHandle.Fatalf("unexpected clipboard content: %q", harness.copier.copied)
	}
	tokenEntries := harness.logs.FilterMessage(tokenCountMessage).All()
	if len(tokenEntries) != 1 {
		testingHandle.Fatalf("expected one token log entry, got %d", len(tokenEntries))
	}
	fields := tokenEntries[0].ContextMap()
	if tokens, ok := fields["tokens"].(int64); !ok || tokens <= 0 {
		testingHandle.Fatalf("unexpected token field: %v", fields["tokens"])
	}
}

func TestRootCommandErrors(testingHandle *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		configuration string
		copyError     error
		expectedText  string
	}{
		{name: "missing path", arguments: []string{"absent"}, expectedText: "path 'absent' does not exist"},
		{name: "unknown sort key", arguments: []string{"--sort", "size"}, expectedText: "unknown sort key"},
		{name: "unknown glyph set", arguments: []string{"--glyphs", "boxes"}, expectedText: "unknown glyph set"},
		{name: "invalid emoji mode", arguments: []string{"--emojis", "sometimes"}, expectedText: "emojis must be one of"},
		{name: "missing explicit configuration", arguments: []string{"--config", "absent.yaml"}, expectedText: "absent.yaml"},
		{name: "invalid boolean", arguments: []string{"--copy=maybe"}, expectedText: "invalid boolean value"},
		{name: "clipboard failure", arguments: []string{"--copy"}, copyError: errors.New("no display"), expectedText: "no display"},
		{
			name:          "invalid matcher document",
			configuration: "tree:\n  filter:\n    unknown_key: x\n",
			expectedText:  "unknown_key",
		},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			harness := newHarness(testingHandle, "main.go")
			harness.copier.err = testCase.copyError
			if testCase.configuration != "" {
				writeProjectFile(testingHandle, filepath.Join(harness.project, ".ptree.yaml"), testCase.configuration)
			}
			runError := harness.run(testCase.arguments...)
			if runError == nil {
				testingHandle.Fatalf("expected error")
			}
			if !strings.Contains(runError.Error(), testCase.expectedText) {
				testingHandle.Fatalf("expected error containing %q, got %v", testCase.expectedText, runError)
			}
		})
	}
}

func TestVersionFlagPrintsVersion(testingHandle *testing.T) {
	harness := newHarness(testingHandle)
	if runError := harness.run("--version"); runError != nil {
		testingHandle.Fatalf("run failed: %v", runError)
	}
	if !strings.HasPrefix(harness.stdout.String(), "ptree version: ") {
		testingHandle.Fatalf("unexpected version output: %q", harness.stdout.String())
	}
}

func TestInitCommandWritesLocalConfiguration(testingHandle *testing.T) {
	harness := newHarness(testingHandle)
	if runError := harness.run("init"); runError != nil {
		testingHandle.Fatalf("init failed: %v", runError)
	}
	configurationPath := filepath.Join(harness.project, ".ptree.yaml")
	if _, statError := os.Stat(configurationPath); statError != nil {
		testingHandle.Fatalf("expected configuration at %s: %v", configurationPath, statError)
	}
	if harness.logs.FilterMessage(configurationWrittenMessage).Len() != 1 {
		testingHandle.Fatalf("expected configuration log entry")
	}
	if runError := harness.run("init"); runError == nil {
		testingHandle.Fatalf("expected init to refuse overwriting")
	}
	if runError := harness.run("init", "--force"); runError != nil {
		testingHandle.Fatalf("forced init failed: %v", runError)
	}
}

func TestResolveAndValidatePathsDeduplicates(testingHandle *testing.T) {
	harness := newHarness(testingHandle, "a/file.txt")
	resolved, resolveError := resolveAndValidatePaths([]string{"a", "./a", "."})
	if resolveError != nil {
		testingHandle.Fatalf("resolve failed: %v", resolveError)
	}
	expected := []string{filepath.Join(harness.project, "a"), harness.project}
	if len(resolved) != len(expected) || resolved[0] != expected[0] || resolved[1] != expected[1] {
		testingHandle.Fatalf("unexpected paths %v, expected %v", resolved, expected)
	}
}
