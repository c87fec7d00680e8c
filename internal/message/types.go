// Package message builds the prompt sent to the model and turns the model's
// free-form reply into a commit message that follows the output template.
package message

import "strings"

// CommitType pairs a commit category with its emoji and a short meaning.
type CommitType struct {
	Name        string
	Emoji       string
	Description string
}

// String returns the emoji and name, e.g. "✨ feat".
func (c CommitType) String() string {
	return c.Emoji + " " + c.Name
}

// CommitTypes is the fixed emoji/type table, in display order.
var CommitTypes = []CommitType{
	{Name: "init", Emoji: "🎉", Description: "项目初始化"},
	{Name: "feat", Emoji: "✨", Description: "新功能"},
	{Name: "fix", Emoji: "🐞", Description: "Bug 修复"},
	{Name: "docs", Emoji: "📃", Description: "文档变更"},
	{Name: "style", Emoji: "🌈", Description: "代码格式（不影响功能）"},
	{Name: "refactor", Emoji: "🦄", Description: "代码重构（既不是新功能也不是修复）"},
	{Name: "perf", Emoji: "🎈", Description: "性能优化"},
	{Name: "test", Emoji: "🧪", Description: "测试相关"},
	{Name: "build", Emoji: "🔧", Description: "构建系统或外部依赖变更"},
	{Name: "ci", Emoji: "🐎", Description: "持续集成配置"},
	{Name: "chore", Emoji: "🐳", Description: "其他不修改源代码的变更"},
	{Name: "revert", Emoji: "↩", Description: "回滚提交"},
}

// LookupCommitType finds a commit type by name, ignoring case.
func LookupCommitType(name string) (CommitType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, ct := range CommitTypes {
		if ct.Name == name {
			return ct, true
		}
	}
	return CommitType{}, false
}

// FallbackSubject is the subject used when the model gave no usable title.
const FallbackSubject = "更新代码"

// FallbackTitle is used when the reply has no usable title line.
func FallbackTitle() string {
	chore, _ := LookupCommitType("chore")
	return chore.Emoji + " " + chore.Name + ": " + FallbackSubject
}
