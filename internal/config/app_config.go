package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/prettytree/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration is the options document.
type ApplicationConfiguration struct {
	Tree TreeConfiguration `mapstructure:"tree"`
}

// TreeConfiguration holds the traversal and presentation defaults of ptree.
// Pointer fields distinguish an unset value from its zero value.
type TreeConfiguration struct {
	MaxDepth           *int                          `mapstructure:"max_depth"`
	ChildLimit         *int                          `mapstructure:"child_limit"`
	ChildLimitRules    []ChildLimitRuleConfiguration `mapstructure:"child_limit_rules"`
	Filter             MatcherDocument               `mapstructure:"filter"`
	Sort               string                        `mapstructure:"sort"`
	ReverseSort        *bool                         `mapstructure:"reverse_sort"`
	LineExtensions     []LineExtensionConfiguration  `mapstructure:"line_extensions"`
	Emojis             string                        `mapstructure:"emojis"`
	EmojiRules         []EmojiRuleConfiguration      `mapstructure:"emoji_rules"`
	CompactDirectories *bool                         `mapstructure:"compact_directories"`
	TruncationDetails  *bool                         `mapstructure:"truncation_details"`
	Glyphs             string                        `mapstructure:"glyphs"`
	CustomGlyphs       CustomGlyphConfiguration      `mapstructure:"custom_glyphs"`
	Tokens             TokenConfiguration            `mapstructure:"tokens"`
	Paths              PathConfiguration             `mapstructure:"paths"`
	Copy               *bool                         `mapstructure:"copy"`
}

// ChildLimitRuleConfiguration limits the children of directories matching Matcher.
type ChildLimitRuleConfiguration struct {
	Matcher MatcherDocument `mapstructure:"matcher"`
	Limit   int             `mapstructure:"limit"`
}

// LineExtensionConfiguration appends Text to the lines of paths matching Matcher.
type LineExtensionConfiguration struct {
	Matcher MatcherDocument `mapstructure:"matcher"`
	Text    string          `mapstructure:"text"`
}

// EmojiRuleConfiguration decorates paths matching Matcher with Emoji.
type EmojiRuleConfiguration struct {
	Matcher MatcherDocument `mapstructure:"matcher"`
	Emoji   string          `mapstructure:"emoji"`
}

// CustomGlyphConfiguration defines the four glyphs of the custom glyph set.
type CustomGlyphConfiguration struct {
	NonLast      string `mapstructure:"non_last"`
	Last         string `mapstructure:"last"`
	Continuation string `mapstructure:"continuation"`
	Blank        string `mapstructure:"blank"`
}

// TokenConfiguration controls the token estimate of the rendered output.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// PathConfiguration configures ignore-file driven exclusion.
type PathConfiguration struct {
	Exclude       []string `mapstructure:"exclude"`
	UseGitignore  *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore"`
	IncludeGit    *bool    `mapstructure:"include_git"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Tree.Paths.Exclude = utils.DeduplicatePatterns(merged.Tree.Paths.Exclude)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		reader.SetConfigType("yaml")
	}
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Tree = result.Tree.Merge(override.Tree)
	return result
}

// Merge overlays every field set in override onto the receiver. Rule lists and the
// filter are replaced as a whole.
func (config TreeConfiguration) Merge(override TreeConfiguration) TreeConfiguration {
	result := config
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.ChildLimit != nil {
		result.ChildLimit = cloneInt(override.ChildLimit)
	}
	if override.ChildLimitRules != nil {
		result.ChildLimitRules = append([]ChildLimitRuleConfiguration{}, override.ChildLimitRules...)
	}
	if override.Filter != nil {
		result.Filter = override.Filter
	}
	if override.Sort != "" {
		result.Sort = override.Sort
	}
	if override.ReverseSort != nil {
		result.ReverseSort = cloneBool(override.ReverseSort)
	}
	if override.LineExtensions != nil {
		result.LineExtensions = append([]LineExtensionConfiguration{}, override.LineExtensions...)
	}
	if override.Emojis != "" {
		result.Emojis = override.Emojis
	}
	if override.EmojiRules != nil {
		result.EmojiRules = append([]EmojiRuleConfiguration{}, override.EmojiRules...)
	}
	if override.CompactDirectories != nil {
		result.CompactDirectories = cloneBool(override.CompactDirectories)
	}
	if override.TruncationDetails != nil {
		result.TruncationDetails = cloneBool(override.TruncationDetails)
	}
	if override.Glyphs != "" {
		result.Glyphs = override.Glyphs
	}
	if override.CustomGlyphs != (CustomGlyphConfiguration{}) {
		result.CustomGlyphs = override.CustomGlyphs
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Paths = result.Paths.merge(override.Paths)
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	if override.IncludeGit != nil {
		result.IncludeGit = cloneBool(override.IncludeGit)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
