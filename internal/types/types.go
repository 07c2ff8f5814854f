// Package types defines every cross‑package data structure used by the ptree CLI.
package types

import (
	"errors"
	"fmt"
)

const (
	NodeTypeFile              = "file"
	NodeTypeDirectory         = "directory"
	NodeTypeChildrenTruncated = "children_truncated"
	NodeTypeDepthLimitReached = "depth_limit_reached"

	EmojiModeAuto   = "auto"
	EmojiModeAlways = "always"
	EmojiModeNever  = "never"
)

// ErrNegativeDepth is returned when a depth marker is constructed with a negative depth.
var ErrNegativeDepth = errors.New("depth at limit must not be negative")

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// PathEntry is a path whose directory-ness was determined without following symbolic links.
type PathEntry struct {
	Path        string
	IsDirectory bool
}

// FileAttributes describes the basic attributes of a non-directory node.
type FileAttributes struct {
	IsDirectory    bool
	IsSymbolicLink bool
	IsRegular      bool
	IsOther        bool
}

// Node is one element of a scanned tree. The set of implementations is closed:
// *DirectoryNode, *FileNode, *ChildrenTruncatedNode and *DepthLimitReachedNode.
type Node interface {
	// Kind returns one of the NodeType constants.
	Kind() string
	sealedNode()
}

// DirectoryNode is a listed directory. Children are ordered filter, then sort, then truncation.
type DirectoryNode struct {
	Path     string
	Children []Node
}

// FileNode is any non-directory entry, including symbolic links to directories.
type FileNode struct {
	Path       string
	Attributes FileAttributes
}

// ChildrenTruncatedNode stands for the siblings hidden by a child limit.
// It is always the last child of its directory.
type ChildrenTruncatedNode struct {
	Skipped []PathEntry
}

// DepthLimitReachedNode is the sole child of a directory that was not descended into.
type DepthLimitReachedNode struct {
	DepthAtLimit int
}

// NewDepthLimitReached constructs a depth marker, rejecting negative depths.
func NewDepthLimitReached(depthAtLimit int) (*DepthLimitReachedNode, error) {
	if depthAtLimit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeDepth, depthAtLimit)
	}
	return &DepthLimitReachedNode{DepthAtLimit: depthAtLimit}, nil
}

func (node *DirectoryNode) Kind() string         { return NodeTypeDirectory }
func (node *FileNode) Kind() string              { return NodeTypeFile }
func (node *ChildrenTruncatedNode) Kind() string { return NodeTypeChildrenTruncated }
func (node *DepthLimitReachedNode) Kind() string { return NodeTypeDepthLimitReached }

func (node *DirectoryNode) sealedNode()         {}
func (node *FileNode) sealedNode()              {}
func (node *ChildrenTruncatedNode) sealedNode() {}
func (node *DepthLimitReachedNode) sealedNode() {}

// Count returns the number of skipped siblings.
func (node *ChildrenTruncatedNode) Count() int {
	return len(node.Skipped)
}

// SkippedDirectories returns how many skipped siblings are directories.
func (node *ChildrenTruncatedNode) SkippedDirectories() int {
	directoryCount := 0
	for _, entry := range node.Skipped {
		if entry.IsDirectory {
			directoryCount++
		}
	}
	return directoryCount
}

// SkippedFiles returns how many skipped siblings are not directories.
func (node *ChildrenTruncatedNode) SkippedFiles() int {
	return len(node.Skipped) - node.SkippedDirectories()
}

// SkippedPaths returns the skipped sibling paths in scan order.
func (node *ChildrenTruncatedNode) SkippedPaths() []string {
	paths := make([]string, 0, len(node.Skipped))
	for _, entry := range node.Skipped {
		paths = append(paths, entry.Path)
	}
	return paths
}
