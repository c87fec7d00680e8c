package message

import (
	"bytes"
	"strings"
	"text/template"
)

// defaultInstructionsTemplate is the instruction document sent when the user
// has not configured their own.
const defaultInstructionsTemplate = `你是一个专业的 Git 提交消息生成器。请根据提供的 Git diff 内容，生成一条符合规范的中文提交消息。

## 提交消息格式

` + "```" + `
<emoji> <type>(<scope>): <主题>

- <路径>：<变更描述>
- <路径>：<变更描述>
` + "```" + `

## 规则

1. **第一行（标题行）**：
   - 格式：` + "`<emoji> <type>(<scope>): <主题>`" + `
   - emoji 和 type 必须配对使用（见下方对照表）
   - scope 是可选的，表示影响范围（如组件名、模块名）
   - 主题使用中文，简洁描述变更内容，不超过 50 个字符
   - 不要以句号结尾

2. **文件变更清单**（必填）：
   - 与标题行之间空一行
   - 使用列表逐行输出，每行格式：` + "`- <路径>：<变更描述>`" + `
   - 路径必须与变更文件清单中的路径完全一致，不要添加 a/ 或 b/ 前缀
   - 每个变更文件恰好 1 行，按变更文件清单的顺序输出
   - 每行不超过 72 个字符

3. **Emoji 与 Type 对照表**：
   | Emoji | Type | 说明 |
   |-------|------|------|
{{- range .Types}}
   | {{.Emoji}} | {{.Name}} | {{.Description}} |
{{- end}}

## 示例

输入 diff：
` + "```diff" + `
diff --git a/src/components/Button.vue b/src/components/Button.vue
index 1234567..abcdefg 100644
--- a/src/components/Button.vue
+++ b/src/components/Button.vue
@@ -10,6 +10,10 @@ export default {
   props: {
     label: String,
+    disabled: {
+      type: Boolean,
+      default: false
+    }
   }
 }
diff --git a/src/components/Input.vue b/src/components/Input.vue
index 2222222..3333333 100644
--- a/src/components/Input.vue
+++ b/src/components/Input.vue
@@ -12,7 +12,7 @@ export default {
   props: {
     value: String,
-    clearable: false
+    clearable: true
   }
 }
` + "```" + `

输出：
` + "```" + `
✨ feat(components): 增强表单交互

- src/components/Button.vue：为 Button 组件添加禁用状态 props
- src/components/Input.vue：调整 clearable 默认值
` + "```" + `

## 要求

1. 仔细分析 diff 内容，理解变更的本质
2. 选择最合适的 type 和 emoji
3. 主题要简洁明了，突出核心变更
4. 如果变更涉及多个方面，关注最主要的变更
5. 只输出提交消息，不要有其他说明文字`

var defaultInstructions = renderDefaultInstructions()

func renderDefaultInstructions() string {
	tmpl := template.Must(template.New("instructions").Parse(defaultInstructionsTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Types []CommitType }{Types: CommitTypes}); err != nil {
		panic(err)
	}
	return buf.String()
}

// DefaultInstructions returns the built-in instruction document.
func DefaultInstructions() string {
	return defaultInstructions
}

// PromptOptions carries everything besides the diff that shapes the prompt.
type PromptOptions struct {
	// CustomInstructions replaces the built-in instruction document when non-empty.
	CustomInstructions string
	// Files is the ordered list of changed paths.
	Files []string
	// OutputTemplate must already be resolved; an empty value means the default.
	OutputTemplate string
}

// Prompt section headings.
const (
	changedFilesHeading  = "## 变更文件清单（按 diff 顺序）"
	outputFormatHeading  = "## 输出格式（严格按照以下模板输出）"
	diffHeading          = "## Git Diff 内容"
	finalInstructionLine = "请根据上述 diff 内容生成提交消息："
)

// BuildPrompt composes the single user message sent to the model:
// instructions, the changed file list with a template preview, the fenced
// diff, and a closing request.
func BuildPrompt(diffBody string, opts PromptOptions) string {
	instructions := opts.CustomInstructions
	if strings.TrimSpace(instructions) == "" {
		instructions = DefaultInstructions()
	}

	tmpl := opts.OutputTemplate
	if tmpl == "" {
		tmpl = DefaultOutputTemplate
	}

	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\n")

	if len(opts.Files) > 0 {
		b.WriteString(changedFilesHeading)
		b.WriteString("\n\n")
		for _, file := range opts.Files {
			b.WriteString("- ")
			b.WriteString(file)
			b.WriteString("\n")
		}
		b.WriteString("\n")

		b.WriteString(outputFormatHeading)
		b.WriteString("\n\n```\n")
		b.WriteString(BuildTemplatePreview(tmpl, opts.Files))
		b.WriteString("\n```\n\n")
	}

	b.WriteString(diffHeading)
	b.WriteString("\n\n```diff\n")
	b.WriteString(diffBody)
	b.WriteString("\n```\n\n")
	b.WriteString(finalInstructionLine)

	return b.String()
}
