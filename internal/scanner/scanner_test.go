package scanner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/prettytree/internal/matcher"
	"github.com/temirov/prettytree/internal/scanner"
	"github.com/temirov/prettytree/internal/sorting"
	"github.com/temirov/prettytree/internal/types"
)

// createFiles creates every relative path below root; paths ending in "/" become directories.
func createFiles(testingHandle *testing.T, root string, relativePaths ...string) {
	testingHandle.Helper()
	for _, relativePath := range relativePaths {
		fullPath := filepath.Join(root, filepath.FromSlash(relativePath))
		if relativePath[len(relativePath)-1] == '/' {
			if err := os.MkdirAll(fullPath, 0o755); err != nil {
				testingHandle.Fatalf("mkdir %s: %v", fullPath, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			testingHandle.Fatalf("mkdir %s: %v", filepath.Dir(fullPath), err)
		}
		if err := os.WriteFile(fullPath, []byte("x"), 0o644); err != nil {
			testingHandle.Fatalf("write %s: %v", fullPath, err)
		}
	}
}

func mustBuild(testingHandle *testing.T, builder *scanner.PolicyBuilder) scanner.Policy {
	testingHandle.Helper()
	policy, err := builder.Build()
	if err != nil {
		testingHandle.Fatalf("Build error: %v", err)
	}
	return policy
}

func scanRoot(testingHandle *testing.T, policy scanner.Policy, root string) *types.DirectoryNode {
	testingHandle.Helper()
	node, err := scanner.New(policy).Scan(context.Background(), root)
	if err != nil {
		testingHandle.Fatalf("Scan error: %v", err)
	}
	directory, isDirectory := node.(*types.DirectoryNode)
	if !isDirectory {
		testingHandle.Fatalf("expected directory node, got %T", node)
	}
	return directory
}

func childNames(testingHandle *testing.T, directory *types.DirectoryNode) []string {
	testingHandle.Helper()
	var names []string
	for _, child := range directory.Children {
		switch typed := child.(type) {
		case *types.DirectoryNode:
			names = append(names, filepath.Base(typed.Path)+"/")
		case *types.FileNode:
			names = append(names, filepath.Base(typed.Path))
		case *types.ChildrenTruncatedNode:
			names = append(names, "...")
		case *types.DepthLimitReachedNode:
			names = append(names, "depth")
		}
	}
	return names
}

func assertNames(testingHandle *testing.T, actual []string, expected ...string) {
	testingHandle.Helper()
	if len(actual) != len(expected) {
		testingHandle.Fatalf("expected %v, got %v", expected, actual)
	}
	for index := range expected {
		if actual[index] != expected[index] {
			testingHandle.Fatalf("expected %v, got %v", expected, actual)
		}
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	root := t.TempDir()
	directory := scanRoot(t, scanner.DefaultPolicy(), root)
	if len(directory.Children) != 0 {
		t.Fatalf("expected no children, got %d", len(directory.Children))
	}
}

func TestScanNormalizesRootPath(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "sub/")
	t.Chdir(filepath.Join(root, "sub"))
	directory := scanRoot(t, scanner.DefaultPolicy(), "./../sub/.")
	expectedPath, _ := filepath.EvalSymlinks(filepath.Join(root, "sub"))
	actualPath, _ := filepath.EvalSymlinks(directory.Path)
	if !filepath.IsAbs(directory.Path) || actualPath != expectedPath {
		t.Fatalf("expected normalized absolute path %s, got %s", expectedPath, directory.Path)
	}
}

func TestScanSortsAndFilters(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "b.java", "c.php", "a.java", "d.java", "e.php")
	javaFilter, err := matcher.HasExtension("java")
	if err != nil {
		t.Fatalf("HasExtension: %v", err)
	}
	policy := mustBuild(t, scanner.NewPolicyBuilder().Filter(javaFilter))
	assertNames(t, childNames(t, scanRoot(t, policy, root)), "a.java", "b.java", "d.java")
}

func TestScanFilteredDirectoryExcludesSubtree(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "keep/inner.txt", "skip/inner.txt")
	notSkip, err := matcher.Not(matcher.HasName("skip"))
	if err != nil {
		t.Fatalf("Not: %v", err)
	}
	policy := mustBuild(t, scanner.NewPolicyBuilder().Filter(notSkip))
	assertNames(t, childNames(t, scanRoot(t, policy, root)), "keep/")
}

func TestScanChildLimit(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "file1", "file2", "file3", "dir1/")
	testCases := []struct {
		name          string
		limit         int
		expectedNames []string
		expectedSkip  int
	}{
		{name: "unlimited", limit: scanner.Unlimited, expectedNames: []string{"dir1/", "file1", "file2", "file3"}},
		{name: "limit equals size", limit: 4, expectedNames: []string{"dir1/", "file1", "file2", "file3"}},
		{name: "limit one", limit: 1, expectedNames: []string{"dir1/", "..."}, expectedSkip: 3},
		{name: "limit zero", limit: 0, expectedNames: []string{"..."}, expectedSkip: 4},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			policy := mustBuild(t, scanner.NewPolicyBuilder().ChildLimit(scanner.FixedChildLimit(testCase.limit)))
			directory := scanRoot(t, policy, root)
			assertNames(t, childNames(t, directory), testCase.expectedNames...)
			if testCase.expectedSkip == 0 {
				return
			}
			marker, isMarker := directory.Children[len(directory.Children)-1].(*types.ChildrenTruncatedNode)
			if !isMarker {
				t.Fatalf("expected truncation marker as last child")
			}
			if marker.Count() != testCase.expectedSkip {
				t.Fatalf("expected %d skipped, got %d", testCase.expectedSkip, marker.Count())
			}
		})
	}
}

func TestScanTruncationIgnoresFilteredEntries(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "a.java", "b.php", "c.java", "d.php", "e.java")
	javaFilter, _ := matcher.HasExtension("java")
	policy := mustBuild(t, scanner.NewPolicyBuilder().Filter(javaFilter).ChildLimit(scanner.FixedChildLimit(1)))
	directory := scanRoot(t, policy, root)
	assertNames(t, childNames(t, directory), "a.java", "...")
	marker := directory.Children[1].(*types.ChildrenTruncatedNode)
	if marker.Count() != 2 || marker.SkippedFiles() != 2 {
		t.Fatalf("expected two skipped java files, got %v", marker.SkippedPaths())
	}
}

func TestScanChildLimitRules(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "node_modules/a", "node_modules/b", "src/a", "src/b")
	childLimit, err := scanner.ChildLimitFromRules(scanner.Unlimited, scanner.ChildLimitRule{Matcher: matcher.HasName("node_modules"), Limit: 0})
	if err != nil {
		t.Fatalf("ChildLimitFromRules: %v", err)
	}
	policy := mustBuild(t, scanner.NewPolicyBuilder().ChildLimit(childLimit))
	directory := scanRoot(t, policy, root)
	assertNames(t, childNames(t, directory.Children[0].(*types.DirectoryNode)), "...")
	assertNames(t, childNames(t, directory.Children[1].(*types.DirectoryNode)), "a", "b")
}

func TestScanMaxDepth(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "level1/level2/file", "top")
	policy := mustBuild(t, scanner.NewPolicyBuilder().MaxDepth(1))
	directory := scanRoot(t, policy, root)
	assertNames(t, childNames(t, directory), "level1/", "top")
	levelOne := directory.Children[0].(*types.DirectoryNode)
	if len(levelOne.Children) != 1 {
		t.Fatalf("expected only the depth marker, got %v", childNames(t, levelOne))
	}
	marker, isMarker := levelOne.Children[0].(*types.DepthLimitReachedNode)
	if !isMarker || marker.DepthAtLimit != 1 {
		t.Fatalf("expected depth marker at depth 1, got %#v", levelOne.Children[0])
	}
}

func TestScanMaxDepthZeroMarksRoot(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "file")
	policy := mustBuild(t, scanner.NewPolicyBuilder().MaxDepth(0))
	assertNames(t, childNames(t, scanRoot(t, policy, root)), "depth")
}

func TestScanSymbolicLinks(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "target/inner", "plain")
	if err := os.Symlink(filepath.Join(root, "target"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	directory := scanRoot(t, scanner.DefaultPolicy(), root)
	assertNames(t, childNames(t, directory), "link", "plain", "target/")
	linkNode := directory.Children[0].(*types.FileNode)
	if !linkNode.Attributes.IsSymbolicLink || linkNode.Attributes.IsRegular || linkNode.Attributes.IsOther {
		t.Fatalf("unexpected link attributes %+v", linkNode.Attributes)
	}
	plainNode := directory.Children[1].(*types.FileNode)
	if !plainNode.Attributes.IsRegular || plainNode.Attributes.IsSymbolicLink {
		t.Fatalf("unexpected file attributes %+v", plainNode.Attributes)
	}
}

func TestScanComparator(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "b", "a/", "c")
	policy := mustBuild(t, scanner.NewPolicyBuilder().Comparator(sorting.Then(sorting.FilesFirst, sorting.ByName)))
	assertNames(t, childNames(t, scanRoot(t, policy, root)), "b", "c", "a/")
}

func TestScanFileRoot(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "single.txt")
	node, err := scanner.New(scanner.DefaultPolicy()).Scan(context.Background(), filepath.Join(root, "single.txt"))
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if _, isFile := node.(*types.FileNode); !isFile {
		t.Fatalf("expected file node, got %T", node)
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := scanner.New(scanner.DefaultPolicy()).Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, scanner.ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
}

func TestScanPropagatesFilterErrors(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "file")
	failure := errors.New("boom")
	failing := matcher.MatcherFunc(func(string) (bool, error) { return false, failure })
	policy := mustBuild(t, scanner.NewPolicyBuilder().Filter(failing))
	node, err := scanner.New(policy).Scan(context.Background(), root)
	if !errors.Is(err, failure) || node != nil {
		t.Fatalf("expected filter failure without a tree, got %v, %v", node, err)
	}
}

func TestScanHonorsCancelledContext(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := scanner.New(scanner.DefaultPolicy()).Scan(ctx, root); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPolicyBuilderErrors(t *testing.T) {
	if _, err := scanner.NewPolicyBuilder().MaxDepth(-1).Build(); !errors.Is(err, scanner.ErrNegativeMaxDepth) {
		t.Fatalf("expected ErrNegativeMaxDepth, got %v", err)
	}
	if _, err := scanner.NewPolicyBuilder().Filter(nil).Build(); !errors.Is(err, scanner.ErrNilPolicyComponent) {
		t.Fatalf("expected ErrNilPolicyComponent, got %v", err)
	}
	if _, err := scanner.ChildLimitFromRules(1, scanner.ChildLimitRule{}); !errors.Is(err, matcher.ErrNilMatcher) {
		t.Fatalf("expected ErrNilMatcher, got %v", err)
	}
}
