package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseError_Error(t *testing.T) {
	err := NewParseError(CategoryUnknownKeyword, "/tsak", 1, "unknown node name %q", "tsak").
		WithSuggestion("Did you mean 'task'?")

	want := "[UnknownKeyword] unknown node name \"tsak\"\n" +
		"  | /tsak\n" +
		"  |  ^\n" +
		"  = suggestion: Did you mean 'task'?"
	if got := err.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}
}

func TestParseError_EmptyExpression(t *testing.T) {
	err := NewParseError(CategoryEmptyExpression, "", 0, "query expression is empty")
	if got := err.Error(); got != "[EmptyExpression] query expression is empty" {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewParseError(CategoryWildcardOnNonLeaf, "//task", 0, "bad"))

	if !stderrors.Is(err, &ParseError{Category: CategoryWildcardOnNonLeaf}) {
		t.Error("errors.Is should match on category")
	}
	if stderrors.Is(err, &ParseError{Category: CategoryUnknownKeyword}) {
		t.Error("errors.Is should not match a different category")
	}
	if got := CategoryOf(err); got != CategoryWildcardOnNonLeaf {
		t.Errorf("CategoryOf() = %q, want %q", got, CategoryWildcardOnNonLeaf)
	}
	if got := CategoryOf(stderrors.New("other")); got != "" {
		t.Errorf("CategoryOf(non-parse error) = %q, want empty", got)
	}
	if !IsCategory(err, CategoryWildcardOnNonLeaf) {
		t.Error("IsCategory() = false, want true")
	}
}

func TestCaret(t *testing.T) {
	tests := []struct {
		expr   string
		offset int
		want   string
	}{
		{"/task/task", 6, "  | /task/task\n  |       ^"},
		{"/x", -3, "  | /x\n  | ^"},
		{"/x", 10, "  | /x\n  |   ^"},
	}
	for _, tt := range tests {
		if got := Caret(tt.expr, tt.offset); got != tt.want {
			t.Errorf("Caret(%q, %d) =\n%s\nwant\n%s", tt.expr, tt.offset, got, tt.want)
		}
	}
}

func TestSuggestKeyword(t *testing.T) {
	valid := []string{"project", "target", "task", "message", "warning", "error"}

	tests := []struct {
		unknown string
		want    string
	}{
		{"tsak", "Did you mean 'task'?"},
		{"Projet", "Did you mean 'project'?"},
		{"eror", "Did you mean 'error'?"},
		{"WARNINGS", "Did you mean 'warning'?"},
		{"xyzzyplugh", "Valid node names: project, target, task, message, warning, error"},
		{"", "Valid node names: project, target, task, message, warning, error"},
	}
	for _, tt := range tests {
		if got := SuggestKeyword(tt.unknown, valid); got != tt.want {
			t.Errorf("SuggestKeyword(%q) = %q, want %q", tt.unknown, got, tt.want)
		}
	}

	if got := SuggestKeyword("x", nil); got != "" {
		t.Errorf("SuggestKeyword with no vocabulary = %q, want empty", got)
	}
}

func TestSuggestConstraintKey(t *testing.T) {
	if got := SuggestConstraintKey(""); !strings.Contains(got, "Id=<number>") {
		t.Errorf("SuggestConstraintKey(\"\") = %q", got)
	}
	if got := SuggestConstraintKey("Name"); !strings.Contains(got, "'Name'") {
		t.Errorf("SuggestConstraintKey(Name) = %q", got)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"task", "task", 0},
		{"", "abc", 3},
		{"tsak", "task", 2},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		loc   Location
		str   string
		valid bool
	}{
		{Location{}, "<unknown>", false},
		{Location{File: "q.yaml"}, "q.yaml", false},
		{Location{File: "q.yaml", Line: 3, Column: 14}, "q.yaml:3:14", true},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		if got := tt.loc.IsValid(); got != tt.valid {
			t.Errorf("IsValid() = %v, want %v", got, tt.valid)
		}
	}
}

func TestErrorList(t *testing.T) {
	el := NewErrorList()
	if el.HasErrors() || el.ToError() != nil {
		t.Fatal("new list should be empty")
	}

	el.AddError(ErrorTypeStructural, "missing field 'name'", Location{File: "q.yaml", Line: 2, Column: 3})
	el.AddErrorWithSuggestion(ErrorTypeSyntax, "bad indent", Location{File: "q.yaml", Line: 5, Column: 1}, "Use spaces")

	pe := NewParseError(CategoryOutOfOrderOrDuplicateNode, "/task/task", 6, "duplicate %q segment", "task")
	el.AddQueryError("dupes", pe, Location{File: "q.yaml", Line: 7, Column: 17})

	if el.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", el.Count())
	}
	if !el.HasErrorType(ErrorTypeQuery) || el.HasErrorType(ErrorTypeIO) {
		t.Error("HasErrorType() mismatch")
	}

	queryErrs := el.ByType(ErrorTypeQuery)
	if len(queryErrs) != 1 {
		t.Fatalf("ByType(query) = %d errors, want 1", len(queryErrs))
	}
	qe := queryErrs[0]
	if qe.Location.Column != 23 {
		t.Errorf("query error column = %d, want 23", qe.Location.Column)
	}
	if qe.Category() != CategoryOutOfOrderOrDuplicateNode {
		t.Errorf("Category() = %q", qe.Category())
	}
	if !stderrors.Is(el.ToError(), el) {
		t.Error("ToError() should return the list itself")
	}

	var target *ParseError
	if !stderrors.As(qe, &target) || target != pe {
		t.Error("query error should unwrap to its ParseError")
	}

	msg := el.Error()
	for _, want := range []string{"Found 3 error(s)", "[query] dupes:", "q.yaml:7:23", "= suggestion: Use spaces"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() missing %q:\n%s", want, msg)
		}
	}
}

func TestAddQueryError_UnknownColumn(t *testing.T) {
	el := NewErrorList()
	pe := NewParseError(CategoryUnknownKeyword, "/x", 1, "unknown")
	el.AddQueryError("q", pe, Location{File: "q.yaml", Line: 4})
	if got := el.Errors[0].Location.Column; got != 0 {
		t.Errorf("Column = %d, want 0 when the column is unknown", got)
	}
}

func TestExtractContext(t *testing.T) {
	content := "version: \"1\"\nname: demo\nqueries:\n  - name: bad\n    expression: /task/task\n"
	path := filepath.Join(t.TempDir(), "queries.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	loc := Location{File: path, Line: 5, Column: 23}
	got := ExtractContext(loc, 1)
	if !strings.Contains(got, "-> 5 |     expression: /task/task") {
		t.Errorf("ExtractContext() missing marked line:\n%s", got)
	}
	if !strings.Contains(got, "  4 |   - name: bad") {
		t.Errorf("ExtractContext() missing previous line:\n%s", got)
	}
	if !strings.Contains(got, strings.Repeat(" ", 22)+"^") {
		t.Errorf("ExtractContext() missing caret:\n%s", got)
	}

	if fromBytes := ExtractContextFromBytes([]byte(content), Location{Line: 5, Column: 23}, 1); fromBytes != got {
		t.Errorf("ExtractContextFromBytes() =\n%s\nwant\n%s", fromBytes, got)
	}

	if ExtractContext(Location{File: filepath.Join(t.TempDir(), "missing.yaml"), Line: 1}, 1) != "" {
		t.Error("ExtractContext() of a missing file should be empty")
	}
	if ExtractContext(Location{File: path, Line: 99}, 1) != "" {
		t.Error("ExtractContext() past the end should be empty")
	}

	e := AddContextToError(&Error{Type: ErrorTypeQuery, Location: loc})
	if e.Context == "" {
		t.Error("AddContextToError() left Context empty")
	}
}
