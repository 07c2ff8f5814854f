// Package render turns a scanned tree into tree-art text.
package render

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/temirov/prettytree/internal/glyphs"
	"github.com/temirov/prettytree/internal/types"
)

const (
	directorySuffix       = "/"
	symbolicLinkSuffix    = "*"
	otherFileSuffix       = "?"
	emojiSeparator        = " "
	lineSeparator         = "\n"
	truncationMarker      = "..."
	depthLimitMarker      = "... (max depth reached)"
	truncationDetailsForm = "%s (%s skipped)"
	countJoiner           = " and "

	errorEmojiFormat         = "resolving emoji for %s: %w"
	errorLineExtensionFormat = "resolving line extension for %s: %w"
	errorUnknownNodeFormat   = "unknown node kind %T"
)

// Render draws tree with policy. Lines are joined by "\n" without a trailing newline.
// The only errors come from the emoji mapping or line extension of the policy.
// Components missing from policy are taken from DefaultPolicy.
func Render(tree types.Node, policy Policy) (string, error) {
	treeRenderer := &renderer{policy: policy.withDefaults()}
	if renderError := treeRenderer.renderNode(tree, true); renderError != nil {
		return "", renderError
	}
	return strings.Join(treeRenderer.lines, lineSeparator), nil
}

// renderer carries the state of a single Render call.
type renderer struct {
	policy  Policy
	lines   []string
	symbols []glyphs.Symbol
}

func (treeRenderer *renderer) renderNode(node types.Node, isRoot bool) error {
	switch typedNode := node.(type) {
	case *types.DirectoryNode:
		return treeRenderer.renderDirectory(typedNode, isRoot)
	case *types.FileNode:
		return treeRenderer.renderFile(typedNode)
	case *types.ChildrenTruncatedNode:
		treeRenderer.emit(treeRenderer.truncationLabel(typedNode))
		return nil
	case *types.DepthLimitReachedNode:
		treeRenderer.emit(depthLimitMarker)
		return nil
	default:
		return fmt.Errorf(errorUnknownNodeFormat, node)
	}
}

// renderDirectory emits the directory line, folding single-directory chains when
// compaction is enabled, then renders the children of the last folded directory.
func (treeRenderer *renderer) renderDirectory(directory *types.DirectoryNode, isRoot bool) error {
	segments := []string{directorySegment(directory.Path, isRoot)}
	current := directory
	extensionText, hasExtension, extensionError := treeRenderer.lineExtension(current.Path)
	if extensionError != nil {
		return extensionError
	}
	if treeRenderer.policy.compactDirectories && !isRoot {
		for !hasExtension && len(current.Children) == 1 {
			childDirectory, isDirectory := current.Children[0].(*types.DirectoryNode)
			if !isDirectory {
				break
			}
			current = childDirectory
			segments = append(segments, directorySegment(current.Path, false))
			extensionText, hasExtension, extensionError = treeRenderer.lineExtension(current.Path)
			if extensionError != nil {
				return extensionError
			}
		}
	}

	label, labelError := treeRenderer.withEmoji(current.Path, true, strings.Join(segments, ""))
	if labelError != nil {
		return labelError
	}
	treeRenderer.emit(label + extensionText)

	lastIndex := len(current.Children) - 1
	for childIndex, child := range current.Children {
		symbol := glyphs.NonLast
		if childIndex == lastIndex {
			symbol = glyphs.Last
		}
		treeRenderer.symbols = append(treeRenderer.symbols, symbol)
		childError := treeRenderer.renderNode(child, false)
		treeRenderer.symbols = treeRenderer.symbols[:len(treeRenderer.symbols)-1]
		if childError != nil {
			return childError
		}
	}
	return nil
}

func (treeRenderer *renderer) renderFile(file *types.FileNode) error {
	name := filepath.Base(file.Path)
	switch {
	case file.Attributes.IsSymbolicLink:
		name += symbolicLinkSuffix
	case file.Attributes.IsOther:
		name += otherFileSuffix
	}
	label, labelError := treeRenderer.withEmoji(file.Path, false, name)
	if labelError != nil {
		return labelError
	}
	extensionText, _, extensionError := treeRenderer.lineExtension(file.Path)
	if extensionError != nil {
		return extensionError
	}
	treeRenderer.emit(label + extensionText)
	return nil
}

// emit appends a line prefixed by the glyph columns of the current symbol stack.
// Every level but the innermost is demoted to a continuation or blank column.
func (treeRenderer *renderer) emit(label string) {
	var lineBuilder strings.Builder
	innermostIndex := len(treeRenderer.symbols) - 1
	for level, symbol := range treeRenderer.symbols {
		if level < innermostIndex {
			symbol = demote(symbol)
		}
		lineBuilder.WriteString(treeRenderer.policy.glyphSet.Glyph(symbol))
	}
	lineBuilder.WriteString(label)
	treeRenderer.lines = append(treeRenderer.lines, lineBuilder.String())
}

func demote(symbol glyphs.Symbol) glyphs.Symbol {
	switch symbol {
	case glyphs.NonLast:
		return glyphs.Continuation
	case glyphs.Last:
		return glyphs.Blank
	default:
		return symbol
	}
}

func (treeRenderer *renderer) lineExtension(path string) (string, bool, error) {
	text, hasExtension, extensionError := treeRenderer.policy.lineExtension(path)
	if extensionError != nil {
		return "", false, fmt.Errorf(errorLineExtensionFormat, path, extensionError)
	}
	if !hasExtension {
		return "", false, nil
	}
	return text, true, nil
}

func (treeRenderer *renderer) withEmoji(path string, isDirectory bool, label string) (string, error) {
	emojiText, hasEmoji, emojiError := treeRenderer.policy.emojis.Emoji(path, isDirectory)
	if emojiError != nil {
		return "", fmt.Errorf(errorEmojiFormat, path, emojiError)
	}
	if !hasEmoji || emojiText == "" {
		return label, nil
	}
	return emojiText + emojiSeparator + label, nil
}

func (treeRenderer *renderer) truncationLabel(truncated *types.ChildrenTruncatedNode) string {
	if !treeRenderer.policy.truncationDetails {
		return truncationMarker
	}
	var countParts []string
	if fileCount := truncated.SkippedFiles(); fileCount > 0 {
		countParts = append(countParts, pluralize(fileCount, "file", "files"))
	}
	if directoryCount := truncated.SkippedDirectories(); directoryCount > 0 {
		countParts = append(countParts, pluralize(directoryCount, "directory", "directories"))
	}
	if len(countParts) == 0 {
		return truncationMarker
	}
	return fmt.Sprintf(truncationDetailsForm, truncationMarker, strings.Join(countParts, countJoiner))
}

func pluralize(count int, singular string, plural string) string {
	if count == 1 {
		return strconv.Itoa(count) + " " + singular
	}
	return strconv.Itoa(count) + " " + plural
}

// directorySegment returns the label segment of a directory including its trailing slash.
// The root shows its final name, or its full path when it is a filesystem root.
func directorySegment(path string, isRoot bool) string {
	cleanPath := filepath.Clean(path)
	segment := filepath.Base(cleanPath)
	if isRoot && filepath.Dir(cleanPath) == cleanPath {
		segment = cleanPath
	}
	if strings.HasSuffix(segment, directorySuffix) || strings.HasSuffix(segment, string(filepath.Separator)) {
		return segment
	}
	return segment + directorySuffix
}
