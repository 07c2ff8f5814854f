// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/prettytree/internal/commands"
	"github.com/temirov/prettytree/internal/config"
	"github.com/temirov/prettytree/internal/render"
	"github.com/temirov/prettytree/internal/scanner"
	"github.com/temirov/prettytree/internal/services/clipboard"
	"github.com/temirov/prettytree/internal/tokenizer"
	"github.com/temirov/prettytree/internal/utils"
)

const (
	depthFlagName         = "depth"
	limitFlagName         = "limit"
	compactFlagName       = "compact"
	emojisFlagName        = "emojis"
	glyphsFlagName        = "glyphs"
	detailsFlagName       = "details"
	sortFlagName          = "sort"
	reverseFlagName       = "reverse"
	exclusionFlagName     = "e"
	noGitignoreFlagName   = "no-gitignore"
	noIgnoreFlagName      = "no-ignore"
	includeGitFlagName    = "git"
	configFlagName        = "config"
	copyFlagName          = "copy"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	debugFlagName         = "debug"
	versionFlagName       = "version"
	initGlobalFlagName    = "global"
	initForceFlagName     = "force"
	versionTemplate       = "ptree version: %s\n"
	defaultPath           = "."
	rootOutputSeparator   = "\n\n"
	rootUse               = "ptree [paths...]"
	rootShortDescription  = "print directory trees"
	initUse               = "init"
	initShortDescription  = "write a default configuration file"
	rootLongDescription   = `ptree prints the directory tree of one or more paths.
Entries are filtered, sorted and limited per directory, and lines can be
decorated with emojis and annotations. Defaults come from ~/.ptree/config.yaml
and ./.ptree.yaml; flags override both.`
	rootUsageExample = `  # Print the current directory two levels deep
  ptree --depth 2

  # Show at most five entries per directory using ASCII glyphs
  ptree --limit 5 --glyphs ascii ./cmd ./internal

  # Collapse single-directory chains and copy the result
  ptree --compact --copy .`
	initLongDescription = `Write the default configuration to ./.ptree.yaml,
or to ~/.ptree/config.yaml with --global. Existing files are kept unless --force is set.`

	depthFlagDescription       = "maximum traversal depth"
	limitFlagDescription       = "maximum entries shown per directory (-1 for unlimited)"
	compactFlagDescription     = "join chains of single-directory parents on one line"
	emojisFlagDescription      = "emoji decoration: auto, always or never"
	glyphsFlagDescription      = "glyph set: unicode or ascii"
	detailsFlagDescription     = "count skipped files and directories on truncation lines"
	sortFlagDescription        = "sibling order: name, name_ignore_case, directories_first, files_first, extension"
	reverseFlagDescription     = "reverse the sibling order"
	exclusionFlagDescription   = "exclude path pattern"
	noGitignoreFlagDescription = "do not use .gitignore"
	noIgnoreFlagDescription    = "do not use .ignore"
	includeGitFlagDescription  = "include git directory"
	configFlagDescription      = "path to a configuration file (YAML or JSON)"
	copyFlagDescription        = "copy the rendered tree to the clipboard"
	tokensFlagDescription      = "log the token estimate of the rendered tree"
	modelFlagDescription       = "tokenizer model used for the token estimate"
	debugFlagDescription       = "enable debug logging"
	versionFlagDescription     = "display application version"
	initGlobalFlagDescription  = "write the global configuration under the home directory"
	initForceFlagDescription   = "overwrite an existing configuration file"

	tokenCountMessage           = "token estimate"
	configurationWrittenMessage = "configuration written"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNoValidPaths indicates that all paths are invalid.
	errorNoValidPaths = "no valid paths"
)

// Dependencies holds the collaborators of the command tree. Zero fields fall back to
// the system clipboard, terminal detection on the output writer and the application logger.
type Dependencies struct {
	Clipboard     clipboard.Copier
	Interactive   func(output io.Writer) bool
	LoggerFactory func(debug bool) (*zap.Logger, error)
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	if dependencies.Interactive == nil {
		dependencies.Interactive = isTerminal
	}
	if dependencies.LoggerFactory == nil {
		dependencies.LoggerFactory = utils.NewApplicationLogger
	}
	return dependencies
}

// Execute runs the ptree application.
func Execute(ctx context.Context) error {
	rootCommand := NewRootCommand(Dependencies{})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// treeOptions stores the flag values of the root command.
type treeOptions struct {
	maxDepth           int
	childLimit         int
	compactDirectories bool
	emojis             string
	glyphs             string
	truncationDetails  bool
	sortKey            string
	reverseSort        bool
	exclusionPatterns  []string
	disableGitignore   bool
	disableIgnoreFile  bool
	includeGit         bool
	configPath         string
	copyEnabled        bool
	tokensEnabled      bool
	model              string
	debug              bool
	showVersion        bool
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	var options treeOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, writeError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return writeError
			}
			logger, loggerError := dependencies.LoggerFactory(options.debug)
			if loggerError != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
			}
			defer func() { _ = logger.Sync() }()
			return runTree(command, arguments, options, dependencies, logger)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.IntVar(&options.maxDepth, depthFlagName, scanner.DefaultMaxDepth, depthFlagDescription)
	flagSet.IntVar(&options.childLimit, limitFlagName, -1, limitFlagDescription)
	registerBooleanFlag(flagSet, &options.compactDirectories, compactFlagName, false, compactFlagDescription)
	flagSet.StringVar(&options.emojis, emojisFlagName, "auto", emojisFlagDescription)
	flagSet.StringVar(&options.glyphs, glyphsFlagName, "unicode", glyphsFlagDescription)
	registerBooleanFlag(flagSet, &options.truncationDetails, detailsFlagName, true, detailsFlagDescription)
	flagSet.StringVar(&options.sortKey, sortFlagName, "name", sortFlagDescription)
	registerBooleanFlag(flagSet, &options.reverseSort, reverseFlagName, false, reverseFlagDescription)
	flagSet.StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	registerBooleanFlag(flagSet, &options.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	registerBooleanFlag(flagSet, &options.disableIgnoreFile, noIgnoreFlagName, false, noIgnoreFlagDescription)
	registerBooleanFlag(flagSet, &options.includeGit, includeGitFlagName, false, includeGitFlagDescription)
	registerBooleanFlag(flagSet, &options.copyEnabled, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flagSet, &options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	rootCommand.PersistentFlags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &options.debug, debugFlagName, false, debugFlagDescription)
	registerBooleanFlag(flagSet, &options.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand(dependencies, &options))
	return rootCommand
}

func runTree(command *cobra.Command, arguments []string, options treeOptions, dependencies Dependencies, logger *zap.Logger) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configPath,
	})
	if configurationError != nil {
		return configurationError
	}
	treeConfiguration := applicationConfiguration.Tree.Merge(flagOverrides(command, options))

	paths := arguments
	if len(paths) == 0 {
		paths = []string{defaultPath}
	}
	roots, pathValidationError := resolveAndValidatePaths(paths)
	if pathValidationError != nil {
		return pathValidationError
	}

	policyOptions := config.PolicyOptions{Interactive: dependencies.Interactive(command.OutOrStdout())}
	factory := func(root string) (scanner.Policy, render.Policy, error) {
		return config.BuildPolicies(treeConfiguration, root, policyOptions)
	}
	outputs, renderError := commands.PrettyPrintAll(command.Context(), roots, factory, commands.WithLogger(logger))
	if renderError != nil {
		return renderError
	}
	rendered := strings.Join(outputs, rootOutputSeparator)

	if _, writeError := fmt.Fprintln(command.OutOrStdout(), rendered); writeError != nil {
		return writeError
	}

	if treeConfiguration.Tokens.Enabled != nil && *treeConfiguration.Tokens.Enabled {
		counter, modelName, counterError := tokenizer.NewCounter(tokenizer.Config{Model: treeConfiguration.Tokens.Model})
		if counterError != nil {
			return counterError
		}
		tokenCount, countError := counter.CountString(rendered)
		if countError != nil {
			return fmt.Errorf("count tokens: %w", countError)
		}
		logger.Info(tokenCountMessage, zap.Int("tokens", tokenCount), zap.String("model", modelName))
	}

	if treeConfiguration.Copy != nil && *treeConfiguration.Copy {
		if copyError := dependencies.Clipboard.Copy(rendered); copyError != nil {
			return fmt.Errorf("copy to clipboard: %w", copyError)
		}
	}
	return nil
}

// flagOverrides returns a configuration holding only the flags set on the command line.
func flagOverrides(command *cobra.Command, options treeOptions) config.TreeConfiguration {
	var overrides config.TreeConfiguration
	flagSet := command.Flags()
	if flagSet.Changed(depthFlagName) {
		overrides.MaxDepth = &options.maxDepth
	}
	if flagSet.Changed(limitFlagName) {
		overrides.ChildLimit = &options.childLimit
	}
	if flagSet.Changed(compactFlagName) {
		overrides.CompactDirectories = &options.compactDirectories
	}
	if flagSet.Changed(emojisFlagName) {
		overrides.Emojis = options.emojis
	}
	if flagSet.Changed(glyphsFlagName) {
		overrides.Glyphs = options.glyphs
	}
	if flagSet.Changed(detailsFlagName) {
		overrides.TruncationDetails = &options.truncationDetails
	}
	if flagSet.Changed(sortFlagName) {
		overrides.Sort = options.sortKey
	}
	if flagSet.Changed(reverseFlagName) {
		overrides.ReverseSort = &options.reverseSort
	}
	if flagSet.Changed(exclusionFlagName) {
		overrides.Paths.Exclude = options.exclusionPatterns
	}
	if flagSet.Changed(noGitignoreFlagName) {
		useGitignore := !options.disableGitignore
		overrides.Paths.UseGitignore = &useGitignore
	}
	if flagSet.Changed(noIgnoreFlagName) {
		useIgnoreFile := !options.disableIgnoreFile
		overrides.Paths.UseIgnoreFile = &useIgnoreFile
	}
	if flagSet.Changed(includeGitFlagName) {
		overrides.Paths.IncludeGit = &options.includeGit
	}
	if flagSet.Changed(copyFlagName) {
		overrides.Copy = &options.copyEnabled
	}
	if flagSet.Changed(tokensFlagName) {
		overrides.Tokens.Enabled = &options.tokensEnabled
	}
	if flagSet.Changed(modelFlagName) {
		overrides.Tokens.Model = options.model
	}
	return overrides
}

func createInitCommand(dependencies Dependencies, rootOptions *treeOptions) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			logger, loggerError := dependencies.LoggerFactory(rootOptions.debug)
			if loggerError != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
			}
			defer func() { _ = logger.Sync() }()
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  force,
			})
			if initError != nil {
				return initError
			}
			logger.Info(configurationWrittenMessage, zap.String("path", destinationPath))
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, initGlobalFlagName, false, initGlobalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, initForceFlagName, false, initForceFlagDescription)
	return initCommand
}

func isTerminal(output io.Writer) bool {
	file, isFile := output.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// resolveAndValidatePaths converts input paths to absolute form and validates their existence.
// Duplicates are reported once, in first-seen order.
func resolveAndValidatePaths(inputs []string) ([]string, error) {
	seen := make(map[string]struct{})
	var result []string
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		if _, fileStatusError := os.Lstat(cleanPath); fileStatusError != nil {
			if errors.Is(fileStatusError, os.ErrNotExist) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, cleanPath)
	}
	if len(result) == 0 {
		return nil, errors.New(errorNoValidPaths)
	}
	return result, nil
}
