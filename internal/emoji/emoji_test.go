package emoji_test

import (
	"errors"
	"testing"

	"github.com/temirov/prettytree/internal/emoji"
	"github.com/temirov/prettytree/internal/matcher"
)

func TestTablePrecedence(t *testing.T) {
	table, err := emoji.NewBuilder().
		AddRule(matcher.HasName("special.go"), "R").
		SetName("README.md", "N").
		SetExtension("md", "E1").
		SetExtension(".tar.gz", "E2").
		SetExtension("gz", "E3").
		SetDirectoryDefault("D").
		SetFileDefault("F").
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	testCases := []struct {
		name        string
		path        string
		isDirectory bool
		expected    string
	}{
		{name: "matcher rule beats extension", path: "/p/special.go", expected: "R"},
		{name: "name is case-insensitive", path: "/p/readme.MD", expected: "N"},
		{name: "name beats extension", path: "/p/README.md", expected: "N"},
		{name: "extension", path: "/p/notes.md", expected: "E1"},
		{name: "extension is case-insensitive", path: "/p/NOTES.MD", expected: "E1"},
		{name: "longest extension first", path: "/p/archive.tar.gz", expected: "E2"},
		{name: "short extension", path: "/p/archive.gz", expected: "E3"},
		{name: "file default", path: "/p/main.go", expected: "F"},
		{name: "directory default", path: "/p/src", isDirectory: true, expected: "D"},
		{name: "directory named like an extension", path: "/p/site.md", isDirectory: true, expected: "D"},
		{name: "root uses default", path: "/", isDirectory: true, expected: "D"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			value, found, lookupError := table.Emoji(testCase.path, testCase.isDirectory)
			if lookupError != nil {
				t.Fatalf("Emoji error: %v", lookupError)
			}
			if !found || value != testCase.expected {
				t.Fatalf("expected %q, got %q (found=%t)", testCase.expected, value, found)
			}
		})
	}
}

func TestTableWithoutDefaults(t *testing.T) {
	table, err := emoji.NewBuilder().SetExtension("go", "G").Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if _, found, _ := table.Emoji("/p/a.txt", false); found {
		t.Fatalf("expected no emoji without defaults")
	}
	if _, found, _ := emoji.None.Emoji("/p/a.go", false); found {
		t.Fatalf("expected None to decorate nothing")
	}
}

func TestBuilderErrors(t *testing.T) {
	if _, err := emoji.NewBuilder().SetName("", "x").Build(); !errors.Is(err, emoji.ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
	if _, err := emoji.NewBuilder().AddRule(nil, "x").Build(); !errors.Is(err, matcher.ErrNilMatcher) {
		t.Fatalf("expected ErrNilMatcher, got %v", err)
	}
}

func TestDefaultTable(t *testing.T) {
	table := emoji.Default()
	value, found, _ := table.Emoji("/p/main.go", false)
	if !found || value != "🐹" {
		t.Fatalf("unexpected default emoji for go file: %q", value)
	}
	value, found, _ = table.Emoji("/p/docs", true)
	if !found || value != "📂" {
		t.Fatalf("unexpected default emoji for directory: %q", value)
	}
}

func TestDefaultBuilderRulesOverrideSeededEntries(t *testing.T) {
	table, err := emoji.DefaultBuilder().AddRule(matcher.HasName("main.go"), "🚀").Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if value, _, _ := table.Emoji("/p/main.go", false); value != "🚀" {
		t.Fatalf("expected rule emoji, got %q", value)
	}
	if value, _, _ := table.Emoji("/p/other.go", false); value != "🐹" {
		t.Fatalf("expected seeded extension emoji, got %q", value)
	}
}
