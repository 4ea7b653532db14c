package formatter

import (
	"go/token"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/gnolang/mylang/internal"
	tt "github.com/gnolang/mylang/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestGenerateFormattedIssue(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"if value == 10 {",
			"  val == 10",
			"if blah = 10{}",
			"\tval = 20",
			"}",
		},
	}

	issues := []tt.Issue{
		{
			Rule:     "syntax-error",
			Filename: "main.my",
			Start:    token.Position{Line: 2, Column: 7},
			Message:  "Expected token of type `NAME`",
		},
		{
			Rule:       "syntax-error",
			Filename:   "main.my",
			Start:      token.Position{Line: 3, Column: 9},
			Message:    "Unexpected operator `=`",
			SourceLine: "if blah = 10{}",
		},
		{
			Rule:     "syntax-error",
			Filename: "main.my",
			Start:    token.Position{Line: 4, Column: 6},
			Message:  "Expected token of type `NAME`",
		},
	}

	expected := `error: syntax-error
 --> main.my:2:7
  |
2 | val == 10
  |     ^~~~ here
  = Expected token of type ` + "`NAME`" + `

error: syntax-error
 --> main.my:3:9
  |
3 | if blah = 10{}
  |         ^~~~ here
  = Unexpected operator ` + "`=`" + `

error: syntax-error
 --> main.my:4:6
  |
4 | val = 20
  |     ^~~~ here
  = Expected token of type ` + "`NAME`" + `

`

	assert.Equal(t, expected, GenerateFormattedIssue(issues, code))
}

func TestGenerateFormattedIssue_ColumnPastLine(t *testing.T) {
	t.Parallel()
	issues := []tt.Issue{{
		Rule:       "fatal-error",
		Filename:   "fun.my",
		Start:      token.Position{Line: 12, Column: 7},
		Message:    "Premature end-of-file",
		SourceLine: "fun(10",
	}}

	expected := "error: fatal-error\n" +
		"  --> fun.my:12:7\n" +
		"   |\n" +
		"12 | fun(10\n" +
		"   = Premature end-of-file\n" +
		"\n"
	assert.Equal(t, expected, GenerateFormattedIssue(issues, nil))
}

func TestGenerateFormattedIssue_NoSourceLine(t *testing.T) {
	t.Parallel()
	issues := []tt.Issue{
		{
			Rule:     tt.RuleInvalidInput,
			Filename: "empty.my",
			Start:    token.Position{Line: 1, Column: 1},
			Message:  "Invalid input",
		},
		{
			Rule:     "syntax-error",
			Filename: "gone.my",
			Start:    token.Position{Line: 40, Column: 1},
			Message:  "Unexpected token `5`",
		},
	}

	expected := "error: invalid-input\n" +
		" --> empty.my:1:1\n" +
		"  = Invalid input\n" +
		"\n" +
		"error: syntax-error\n" +
		"  --> gone.my:40:1\n" +
		"   = Unexpected token `5`\n" +
		"\n"
	assert.Equal(t, expected, GenerateFormattedIssue(issues, &internal.SourceCode{Lines: []string{"x"}}))
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line   string
		column int
		want   int
	}{
		{"abc", 1, 0},
		{"abc", 3, 2},
		{"\tabc", 2, 8},
		{"a\tb", 3, 8},
		{"abc", -1, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, calculateVisualColumn(tc.line, tc.column), "%q:%d", tc.line, tc.column)
	}
}

func TestExpandTabs(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "no tabs", expandTabs("no tabs"))
	assert.Equal(t, "        x", expandTabs("\tx"))
	assert.Equal(t, "ab      c", expandTabs("ab\tc"))
}
