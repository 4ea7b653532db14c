package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProblem_String(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		problem Problem
		want    string
	}{
		{
			name: "caret under the column",
			problem: Problem{
				Line:        1,
				Column:      9,
				Description: "Unexpected operator `=`",
				SourceLine:  "if name = 10 {}",
			},
			want: "Unexpected operator `=` @(Line=1, Column=9)\n" +
				"\tif name = 10 {}\n" +
				"\t        ^~~~ here",
		},
		{
			name: "first column",
			problem: Problem{
				Line:        4,
				Column:      1,
				Description: "Unexpected token `5`",
				SourceLine:  "5",
			},
			want: "Unexpected token `5` @(Line=4, Column=1)\n" +
				"\t5\n" +
				"\t^~~~ here",
		},
		{
			name: "column past the end of the line",
			problem: Problem{
				Line:        1,
				Column:      7,
				Description: "Premature end-of-file",
				SourceLine:  "fun(10",
			},
			want: "Premature end-of-file @(Line=1, Column=7)\n" +
				"\tfun(10",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.problem.String())
		})
	}
}
