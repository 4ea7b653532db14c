package types

import "go/token"

// RuleInvalidInput marks a source that could not be parsed at all because
// it holds no text.
const RuleInvalidInput = "invalid-input"

// Issue represents a problem found in a mylang source.
type Issue struct {
	// Rule is the failure kind: lexical-error, syntax-error, fatal-error
	// or invalid-input.
	Rule       string
	Filename   string
	Message    string
	SourceLine string
	Start      token.Position
}

// Report is the outcome of parsing one unit of a file. A plain source file
// is a single unit; a markdown document has one unit per mylang block.
type Report struct {
	Filename string
	// Unit is the 1-indexed block number inside a markdown document, or 0
	// for a whole file.
	Unit int
	// Line is the file line the unit starts on.
	Line   int
	Failed bool
	Issues []Issue
	// AST is the indented dump of the parsed statement, empty on failure.
	AST string
}

// Issues flattens the issues of reports in order.
func Issues(reports []Report) []Issue {
	var issues []Issue
	for _, r := range reports {
		issues = append(issues, r.Issues...)
	}
	return issues
}

// AnyFailed reports whether at least one report failed to parse.
func AnyFailed(reports []Report) bool {
	for _, r := range reports {
		if r.Failed {
			return true
		}
	}
	return false
}
