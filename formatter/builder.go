package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"

	"github.com/gnolang/mylang/internal"
	tt "github.com/gnolang/mylang/internal/types"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
)

// issueFormatter is the interface that wraps the issueTemplate method.
// Implementations of this interface are responsible for formatting specific kinds of problems.
type issueFormatter interface {
	IssueTemplate() string
}

// getIssueFormatter returns the formatter for the given rule.
func getIssueFormatter(rule string) issueFormatter {
	switch rule {
	case tt.RuleInvalidInput:
		return &InvalidInputFormatter{}
	default:
		return &GeneralIssueFormatter{}
	}
}

// GenerateFormattedIssue formats a slice of issues into a human-readable string.
// The offending line is taken from the issue itself, or from snippet when the
// issue does not carry it.
func GenerateFormattedIssue(issues []tt.Issue, snippet *internal.SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		formatter := getIssueFormatter(issue.Rule)
		builder.WriteString(buildIssue(issue, snippet, formatter))
	}
	return builder.String()
}

/***** Issue Formatter Builder *****/

type IssueData struct {
	Rule            string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	MaxLineNumWidth int
	Message         string
	Line            string
	HasLine         bool
	CommonIndent    string
}

func buildIssue(issue tt.Issue, snippet *internal.SourceCode, formatter issueFormatter) string {
	maxLineNumWidth := calculateMaxLineNumWidth(issue.Start.Line)
	line, hasLine := sourceLine(issue, snippet)

	data := IssueData{
		Rule:            issue.Rule,
		Filename:        issue.Filename,
		StartLine:       issue.Start.Line,
		StartColumn:     issue.Start.Column,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		Message:         issue.Message,
		Line:            line,
		HasLine:         hasLine,
		CommonIndent:    leadingIndent(line),
	}

	funcMap := template.FuncMap{
		"header":  header,
		"snippet": codeSnippet,
		"caret":   caret,
		"message": message,
	}

	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(formatter.IssueTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

func sourceLine(issue tt.Issue, snippet *internal.SourceCode) (string, bool) {
	if issue.SourceLine != "" {
		return issue.SourceLine, true
	}
	if snippet == nil || issue.Start.Line < 1 || issue.Start.Line > len(snippet.Lines) {
		return "", false
	}
	return strings.TrimSuffix(snippet.Lines[issue.Start.Line-1], "\r"), true
}

// utils functions used in the text templates

func header(rule string, maxLineNumWidth int, filename string, startLine int, startColumn int) string {
	endString := errorStyle.Sprint("error: ")
	endString += ruleStyle.Sprintf("%s\n", rule)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	endString += fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn)

	return endString
}

func codeSnippet(line string, startLine int, maxLineNumWidth int, commonIndent string, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	lineNum := fmt.Sprintf("%*d", maxLineNumWidth, startLine)
	endString += lineStyle.Sprintf("%s | ", lineNum)
	endString += expandTabs(strings.TrimPrefix(line, commonIndent))
	return endString
}

// caret renders the `^~~~ here` marker under the column, or nothing when
// the column does not lie on the line.
func caret(line string, startColumn int, commonIndent string, padding string) string {
	if startColumn < 1 || startColumn > len(line) {
		return ""
	}

	start := calculateVisualColumn(line, startColumn) - calculateVisualColumn(commonIndent, len(commonIndent)+1)
	if start < 0 {
		start = 0
	}

	endString := lineStyle.Sprintf("%s| ", padding)
	endString += strings.Repeat(" ", start)
	endString += messageStyle.Sprint("^~~~ here")
	return endString + "\n"
}

func message(msg string, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprintf("%s\n", msg)
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}

// calculateVisualColumn calculates the visual column position
// in a string. taking into account tab characters.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}

func expandTabs(line string) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}
	var b strings.Builder
	col := 0
	for _, ch := range line {
		if ch == '\t' {
			n := tabWidth - (col % tabWidth)
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(ch)
		col++
	}
	return b.String()
}

func leadingIndent(line string) string {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if trimmed == "" {
		return ""
	}
	return line[:len(line)-len(trimmed)]
}
