package formatter

// GeneralIssueFormatter renders a problem with its source line and caret.
type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{if .HasLine -}}
{{snippet .Line .StartLine .MaxLineNumWidth .CommonIndent .Padding}}
{{caret .Line .StartColumn .CommonIndent .Padding -}}
{{end -}}
{{message .Message .Padding}}
`
}

// InvalidInputFormatter renders a source that holds no text at all.
type InvalidInputFormatter struct{}

func (f *InvalidInputFormatter) IssueTemplate() string {
	return `{{header .Rule .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{message .Message .Padding}}
`
}
