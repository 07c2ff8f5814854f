package emoji

const (
	directoryEmoji = "📂"
	fileEmoji      = "📄"
)

var defaultNames = map[string]string{
	".git":         "🌱",
	".github":      "🐙",
	".gitignore":   "🙈",
	".idea":        "💡",
	".vscode":      "🧰",
	"dockerfile":   "🐳",
	"go.mod":       "🐹",
	"go.sum":       "🔒",
	"license":      "⚖️",
	"makefile":     "🛠️",
	"node_modules": "📦",
	"package.json": "📦",
	"readme.md":    "📘",
	"src":          "🧩",
	"test":         "🧪",
	"tests":        "🧪",
}

var defaultExtensions = map[string]string{
	"7z":      "🗜️",
	"bat":     "🐚",
	"c":       "🇨",
	"cpp":     "➕",
	"css":     "🎨",
	"csv":     "📊",
	"gif":     "🖼️",
	"go":      "🐹",
	"gz":      "🗜️",
	"html":    "🌐",
	"jar":     "☕",
	"java":    "☕",
	"jpeg":    "🖼️",
	"jpg":     "🖼️",
	"js":      "🟨",
	"json":    "🔧",
	"kt":      "🟣",
	"log":     "📜",
	"md":      "📝",
	"pdf":     "📕",
	"php":     "🐘",
	"png":     "🖼️",
	"py":      "🐍",
	"rb":      "💎",
	"rs":      "🦀",
	"sh":      "🐚",
	"sql":     "🗄️",
	"svg":     "🖌️",
	"tar":     "📦",
	"tar.gz":  "📦",
	"toml":    "🔧",
	"ts":      "🟦",
	"txt":     "📄",
	"xml":     "🔖",
	"yaml":    "🔧",
	"yml":     "🔧",
	"zip":     "🗜️",
	"lock":    "🔒",
	"mp3":     "🎵",
	"mp4":     "🎬",
	"wav":     "🎵",
	"exe":     "⚙️",
	"dll":     "⚙️",
	"so":      "⚙️",
	"bin":     "⚙️",
	"tar.bz2": "📦",
}

// DefaultBuilder returns a builder seeded with the built-in names, extensions and
// folder/page defaults. Rules added to it take precedence over the seeded entries.
func DefaultBuilder() *Builder {
	builder := NewBuilder().
		SetDirectoryDefault(directoryEmoji).
		SetFileDefault(fileEmoji)
	for name, value := range defaultNames {
		builder.SetName(name, value)
	}
	for extension, value := range defaultExtensions {
		builder.SetExtension(extension, value)
	}
	return builder
}

// Default returns the built-in table.
func Default() *Table {
	table, err := DefaultBuilder().Build()
	if err != nil {
		panic(err)
	}
	return table
}
