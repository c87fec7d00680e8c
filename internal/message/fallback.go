package message

import (
	"path"
	"strings"
)

// fallbackPhrases maps a lower-case extension to a description format; %s is
// the file's base name without extension.
var fallbackPhrases = map[string]string{
	".md":   "更新 %s 文档",
	".txt":  "更新 %s 文档",
	".rst":  "更新 %s 文档",
	".json": "调整 %s 配置",
	".yaml": "调整 %s 配置",
	".yml":  "调整 %s 配置",
	".toml": "调整 %s 配置",
	".ini":  "调整 %s 配置",
	".env":  "调整 %s 配置",
	".css":  "调整 %s 样式",
	".scss": "调整 %s 样式",
	".less": "调整 %s 样式",
	".vue":  "更新 %s 组件",
	".tsx":  "更新 %s 组件",
	".jsx":  "更新 %s 组件",
	".html": "更新 %s 页面",
	".ts":   "更新 %s 逻辑",
	".js":   "更新 %s 逻辑",
	".go":   "更新 %s 逻辑",
	".py":   "更新 %s 逻辑",
	".java": "更新 %s 逻辑",
	".rs":   "更新 %s 逻辑",
	".sh":   "更新 %s 脚本",
	".sql":  "更新 %s 数据脚本",
}

// genericFallbackPhrase is used for unknown extensions.
const genericFallbackPhrase = "更新 %s"

// FallbackDescription synthesizes a description from the file's base name
// and extension. It is a fixed lookup, not an analysis of the change.
func FallbackDescription(file string) string {
	base := path.Base(strings.ReplaceAll(file, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	name := strings.TrimSuffix(base, path.Ext(base))
	if name == "" {
		// dotfiles such as .gitignore
		name = base
		ext = ""
	}

	phrase, ok := fallbackPhrases[ext]
	if !ok {
		phrase = genericFallbackPhrase
	}
	return strings.Replace(phrase, "%s", name, 1)
}
