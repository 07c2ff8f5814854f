// Package scanner walks the filesystem into an immutable tree of typed nodes.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/prettytree/internal/sorting"
	"github.com/temirov/prettytree/internal/types"
)

const (
	errorAbsolutePathFormat  = "getting absolute path for %s: %w"
	errorStatPathFormat      = "reading attributes of %s: %w"
	errorReadDirectoryFormat = "reading directory %s: %w"
	errorFilterPathFormat    = "filtering %s: %w"
	errorChildLimitFormat    = "resolving child limit for %s: %w"
	errorScanCancelledFormat = "scanning %s: %w"
	debugDirectoryListed     = "directory listed"
	debugChildrenTruncated   = "children truncated"
	debugDepthLimitReached   = "depth limit reached"
	logFieldPath             = "path"
	logFieldDepth            = "depth"
	logFieldListed           = "listed"
	logFieldRetained         = "retained"
	logFieldSkipped          = "skipped"
)

// ErrPathNotFound is returned when the scanned root does not exist.
var ErrPathNotFound = errors.New("path does not exist")

// Option customizes a Scanner.
type Option func(*Scanner)

// WithLogger routes debug traces of the walk to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(scanner *Scanner) {
		if logger != nil {
			scanner.logger = logger
		}
	}
}

// Scanner walks paths under an immutable Policy. A Scanner holds no per-scan
// state and may be used from several goroutines.
type Scanner struct {
	policy Policy
	logger *zap.Logger
}

// New constructs a Scanner. Components missing from policy are taken from DefaultPolicy.
func New(policy Policy, options ...Option) *Scanner {
	scanner := &Scanner{policy: policy.withDefaults(), logger: zap.NewNop()}
	for _, option := range options {
		option(scanner)
	}
	return scanner
}

// Scan walks rootPath depth-first and returns its tree. Any I/O or matcher
// failure aborts the scan and no partial tree is returned.
func (scanner *Scanner) Scan(ctx context.Context, rootPath string) (types.Node, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	absoluteRootPath = filepath.Clean(absoluteRootPath)

	rootInformation, rootStatError := os.Lstat(absoluteRootPath)
	if rootStatError != nil {
		if errors.Is(rootStatError, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, absoluteRootPath)
		}
		return nil, fmt.Errorf(errorStatPathFormat, absoluteRootPath, rootStatError)
	}
	if !rootInformation.IsDir() {
		return fileNode(absoluteRootPath, rootInformation.Mode()), nil
	}
	return scanner.scanDirectory(ctx, absoluteRootPath, 0)
}

// scanPath dispatches on the directory-ness captured when the parent was listed.
func (scanner *Scanner) scanPath(ctx context.Context, entry types.PathEntry, depth int) (types.Node, error) {
	if entry.IsDirectory {
		return scanner.scanDirectory(ctx, entry.Path, depth)
	}
	fileInformation, statError := os.Lstat(entry.Path)
	if statError != nil {
		return nil, fmt.Errorf(errorStatPathFormat, entry.Path, statError)
	}
	return fileNode(entry.Path, fileInformation.Mode()), nil
}

func (scanner *Scanner) scanDirectory(ctx context.Context, directoryPath string, depth int) (types.Node, error) {
	if contextError := ctx.Err(); contextError != nil {
		return nil, fmt.Errorf(errorScanCancelledFormat, directoryPath, contextError)
	}

	if depth >= scanner.policy.maxDepth {
		depthMarker, markerError := types.NewDepthLimitReached(depth)
		if markerError != nil {
			return nil, markerError
		}
		scanner.logger.Debug(debugDepthLimitReached, zap.String(logFieldPath, directoryPath), zap.Int(logFieldDepth, depth))
		return &types.DirectoryNode{Path: directoryPath, Children: []types.Node{depthMarker}}, nil
	}

	survivors, listError := scanner.listFilteredChildren(directoryPath)
	if listError != nil {
		return nil, listError
	}
	sorting.Sort(survivors, scanner.policy.comparator)

	childLimit, childLimitError := scanner.policy.childLimit(directoryPath)
	if childLimitError != nil {
		return nil, fmt.Errorf(errorChildLimitFormat, directoryPath, childLimitError)
	}
	retained := survivors
	var skipped []types.PathEntry
	if childLimit >= 0 && len(survivors) > childLimit {
		retained = survivors[:childLimit]
		skipped = append([]types.PathEntry(nil), survivors[childLimit:]...)
	}
	scanner.logger.Debug(debugDirectoryListed,
		zap.String(logFieldPath, directoryPath),
		zap.Int(logFieldDepth, depth),
		zap.Int(logFieldListed, len(survivors)),
		zap.Int(logFieldRetained, len(retained)),
	)

	children := make([]types.Node, 0, len(retained)+1)
	for _, entry := range retained {
		childNode, childError := scanner.scanPath(ctx, entry, depth+1)
		if childError != nil {
			return nil, childError
		}
		children = append(children, childNode)
	}
	if len(skipped) > 0 {
		scanner.logger.Debug(debugChildrenTruncated, zap.String(logFieldPath, directoryPath), zap.Int(logFieldSkipped, len(skipped)))
		children = append(children, &types.ChildrenTruncatedNode{Skipped: skipped})
	}
	return &types.DirectoryNode{Path: directoryPath, Children: children}, nil
}

// listFilteredChildren lists the directory and drops every child rejected by the filter.
// Rejected children are treated as nonexistent.
func (scanner *Scanner) listFilteredChildren(directoryPath string) ([]types.PathEntry, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}
	survivors := make([]types.PathEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		isAccepted, filterError := scanner.policy.filter.Matches(childPath)
		if filterError != nil {
			return nil, fmt.Errorf(errorFilterPathFormat, childPath, filterError)
		}
		if !isAccepted {
			continue
		}
		survivors = append(survivors, types.PathEntry{Path: childPath, IsDirectory: directoryEntry.IsDir()})
	}
	return survivors, nil
}

func fileNode(path string, mode fs.FileMode) *types.FileNode {
	isSymbolicLink := mode&fs.ModeSymlink != 0
	isRegular := mode.IsRegular()
	return &types.FileNode{
		Path: path,
		Attributes: types.FileAttributes{
			IsSymbolicLink: isSymbolicLink,
			IsRegular:      isRegular,
			IsOther:        !isRegular && !isSymbolicLink && !mode.IsDir(),
		},
	}
}
