package parser

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/binlog-hq/logq/pkg/query/ast"
	queryErrors "github.com/binlog-hq/logq/pkg/query/errors"
)

func TestParse_ValidExpressions(t *testing.T) {
	direct, all := ast.AxisDirect, ast.AxisAll

	tests := []struct {
		expr string
		want ast.Node
	}{
		{"/message", ast.NewMessage(direct)},
		{"/warning", ast.NewWarning(direct)},
		{"/error", ast.NewError(direct)},
		{"/task", ast.NewTask(nil)},
		{"/target", ast.NewTarget(nil)},
		{"/project", ast.NewProject(nil)},
		{"/task/message", ast.NewTask(ast.NewMessage(direct))},
		{"/target/warning", ast.NewTarget(ast.NewWarning(direct))},
		{"/project/error", ast.NewProject(ast.NewError(direct))},
		{"/target/task/message", ast.NewTarget(ast.NewTask(ast.NewMessage(direct)))},
		{"/project/task/warning", ast.NewProject(ast.NewTask(ast.NewWarning(direct)))},
		{"/project/target/task/error", ast.NewProject(ast.NewTarget(ast.NewTask(ast.NewError(direct))))},
		{"//message", ast.NewMessage(all)},
		{"/project//warning", ast.NewProject(ast.NewWarning(all))},
		{"/target/task//error", ast.NewTarget(ast.NewTask(ast.NewError(all)))},
		{"/project/task//message", ast.NewProject(ast.NewTask(ast.NewMessage(all)))},
		{"/Task[]", ast.NewTask(nil)},
		{"/Task[ID=341]/Message", ast.NewTask(ast.NewMessage(direct), ast.ID(341))},
		{
			"/Project/Task[id=1, Id=2, ID=3]//Warning",
			ast.NewProject(ast.NewTask(ast.NewWarning(all), ast.ID(1), ast.ID(2), ast.ID(3))),
		},
		{
			"/Project/Task[id=1,Id=2,ID=3]//Warning",
			ast.NewProject(ast.NewTask(ast.NewWarning(all), ast.ID(1), ast.ID(2), ast.ID(3))),
		},
		{"/Target[]", ast.NewTarget(nil)},
		{"/Target[Id=153]", ast.NewTarget(nil, ast.ID(153))},
		{"/Project/Target[Id=980321]//Error", ast.NewProject(ast.NewTarget(ast.NewError(all), ast.ID(980321)))},
		{
			"/Target[Id=9]/Task[ID=81]/Warning",
			ast.NewTarget(ast.NewTask(ast.NewWarning(direct), ast.ID(81)), ast.ID(9)),
		},
		{"/Project[]", ast.NewProject(nil)},
		{"/Project[Id=536]", ast.NewProject(nil, ast.ID(536))},
		{"/Project[ID=448]/Error", ast.NewProject(ast.NewError(direct), ast.ID(448))},
		{"/Project[Id=121]/Task[Id=421]", ast.NewProject(ast.NewTask(nil, ast.ID(421)), ast.ID(121))},
		{
			"/Project[Id=1]/Target[Id=2]/Task[Id=3]//Message",
			ast.NewProject(ast.NewTarget(ast.NewTask(ast.NewMessage(all), ast.ID(3)), ast.ID(2)), ast.ID(1)),
		},
		{"/MESSAGE", ast.NewMessage(direct)},
		{"/pRoJeCt/TaRgEt", ast.NewProject(ast.NewTarget(nil))},
		{"/Task[Id=1,Id=1]", ast.NewTask(nil, ast.ID(1), ast.ID(1))},
		{"/Task[Id=0]", ast.NewTask(nil, ast.ID(0))},
		{"/Task[Id=18446744073709551615]", ast.NewTask(nil, ast.ID(18446744073709551615))},
		{"/Task[ Id = 7 ]", ast.NewTask(nil, ast.ID(7))},
		{"/Task[\tId=7\t]", ast.NewTask(nil, ast.ID(7))},
		{"/Task[Id=007]", ast.NewTask(nil, ast.ID(7))},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.expr, err)
			}
			if !ast.Equal(got, tt.want) {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.expr,
					cmp.Diff(tt.want, got, cmpopts.EquateEmpty()))
			}
		})
	}
}

func TestParse_InvalidExpressions(t *testing.T) {
	tests := []struct {
		expr     string
		category queryErrors.Category
	}{
		{"", queryErrors.CategoryEmptyExpression},
		{"/", queryErrors.CategoryUnknownKeyword},
		{"//", queryErrors.CategoryUnknownKeyword},
		{"message", queryErrors.CategoryMissingLeadingSeparator},
		{"project/message", queryErrors.CategoryMissingLeadingSeparator},
		{" /message", queryErrors.CategoryMissingLeadingSeparator},
		{"[Id=1]/task", queryErrors.CategoryMissingLeadingSeparator},
		{"/warning/", queryErrors.CategoryTrailingContentAfterLeaf},
		{"/message/project", queryErrors.CategoryTrailingContentAfterLeaf},
		{"/task/task", queryErrors.CategoryOutOfOrderOrDuplicateNode},
		{"/project/target/target/task/error", queryErrors.CategoryOutOfOrderOrDuplicateNode},
		{"/task/project", queryErrors.CategoryOutOfOrderOrDuplicateNode},
		{"/target/project/error", queryErrors.CategoryOutOfOrderOrDuplicateNode},
		{"/project//target", queryErrors.CategoryWildcardOnNonLeaf},
		{"//project", queryErrors.CategoryWildcardOnNonLeaf},
		{"//task/message", queryErrors.CategoryWildcardOnNonLeaf},
		{"//message/target", queryErrors.CategoryTrailingContentAfterLeaf},
		{"/project/target/task//warning/task", queryErrors.CategoryTrailingContentAfterLeaf},
		{"/message/message", queryErrors.CategoryTrailingContentAfterLeaf},
		{"/warning//error", queryErrors.CategoryTrailingContentAfterLeaf},
		{"//error/message", queryErrors.CategoryTrailingContentAfterLeaf},
		{"//warning//message", queryErrors.CategoryTrailingContentAfterLeaf},
		{"/message[Id=1]", queryErrors.CategoryTrailingContentAfterLeaf},
		{"/error[]", queryErrors.CategoryTrailingContentAfterLeaf},
		{"/message ", queryErrors.CategoryTrailingContentAfterLeaf},
		{"/tsak", queryErrors.CategoryUnknownKeyword},
		{"/task1", queryErrors.CategoryUnknownKeyword},
		{"/task/", queryErrors.CategoryUnknownKeyword},
		{"/project/*", queryErrors.CategoryUnknownKeyword},
		{"/42", queryErrors.CategoryUnknownKeyword},
		{"/task!", queryErrors.CategoryMissingLeadingSeparator},
		{"/task message", queryErrors.CategoryMissingLeadingSeparator},
		{"/task]", queryErrors.CategoryMalformedConstraintList},
		{"/Task[ID=\"123\"]", queryErrors.CategoryInvalidConstraintValue},
		{"/Task[ID==123]", queryErrors.CategoryInvalidConstraintValue},
		{"/Task[ID]", queryErrors.CategoryMalformedConstraintList},
		{"/Task[ID=123", queryErrors.CategoryMalformedConstraintList},
		{"/Target[Id=\"999\"]/Task", queryErrors.CategoryInvalidConstraintValue},
		{"/Target[Id,Id=123]", queryErrors.CategoryMalformedConstraintList},
		{"/Project[[Id=1]]", queryErrors.CategoryMalformedConstraintList},
		{"/Project[Id=1[Id=2]]", queryErrors.CategoryMalformedConstraintList},
		{"/Task[Id=1,]", queryErrors.CategoryMalformedConstraintList},
		{"/Task[,Id=1]", queryErrors.CategoryMalformedConstraintList},
		{"/Task[Id=1,,Id=2]", queryErrors.CategoryMalformedConstraintList},
		{"/Task[Id=1 Id=2]", queryErrors.CategoryMalformedConstraintList},
		{"/Task[", queryErrors.CategoryMalformedConstraintList},
		{"/Task[Id", queryErrors.CategoryMalformedConstraintList},
		{"/Task[Id=", queryErrors.CategoryMalformedConstraintList},
		{"/Task[Id=1/message", queryErrors.CategoryMalformedConstraintList},
		{"/Task[Name=1]", queryErrors.CategoryInvalidConstraintKey},
		{"/Task[Ident=1]", queryErrors.CategoryInvalidConstraintKey},
		{"/Task[=1]", queryErrors.CategoryInvalidConstraintKey},
		{"/Task[1=1]", queryErrors.CategoryInvalidConstraintKey},
		{"/Task[Id2=1]", queryErrors.CategoryInvalidConstraintKey},
		{"/Task['Id'=1]", queryErrors.CategoryInvalidConstraintKey},
		{"/Task[Id='1']", queryErrors.CategoryInvalidConstraintValue},
		{"/Task[Id=-1]", queryErrors.CategoryInvalidConstraintValue},
		{"/Task[Id=1.5]", queryErrors.CategoryInvalidConstraintValue},
		{"/Task[Id=12a]", queryErrors.CategoryInvalidConstraintValue},
		{"/Task[Id=abc]", queryErrors.CategoryInvalidConstraintValue},
		{"/Task[Id=]", queryErrors.CategoryInvalidConstraintValue},
		{"/Task[Id=,Id=1]", queryErrors.CategoryInvalidConstraintValue},
		{"/Task[Id=18446744073709551616]", queryErrors.CategoryInvalidConstraintValue},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Parse(tt.expr)
			if err == nil {
				t.Fatalf("Parse(%q) = %#v, want error", tt.expr, got)
			}
			if got != nil {
				t.Errorf("Parse(%q) returned a partial tree %#v", tt.expr, got)
			}

			var pe *queryErrors.ParseError
			if !stderrors.As(err, &pe) {
				t.Fatalf("Parse(%q) error type = %T, want *errors.ParseError", tt.expr, err)
			}
			if pe.Category != tt.category {
				t.Errorf("Parse(%q) category = %s, want %s (%s)", tt.expr, pe.Category, tt.category, pe.Message)
			}
			if pe.Expression != tt.expr {
				t.Errorf("ParseError.Expression = %q, want %q", pe.Expression, tt.expr)
			}
			if pe.Offset < 0 || pe.Offset > len(tt.expr) {
				t.Errorf("ParseError.Offset = %d, out of range for %q", pe.Offset, tt.expr)
			}
		})
	}
}

func TestParse_Scenarios(t *testing.T) {
	t.Run("direct message", func(t *testing.T) {
		got, err := Parse("/message")
		if err != nil {
			t.Fatal(err)
		}
		msg, ok := got.(*ast.MessageNode)
		if !ok {
			t.Fatalf("Parse() = %T, want *ast.MessageNode", got)
		}
		if msg.Axis != ast.AxisDirect {
			t.Errorf("Axis = %v, want %v", msg.Axis, ast.AxisDirect)
		}
	})

	t.Run("wildcard message", func(t *testing.T) {
		got, err := Parse("//message")
		if err != nil {
			t.Fatal(err)
		}
		if ast.AxisOf(got) != ast.AxisAll {
			t.Errorf("Axis = %v, want %v", ast.AxisOf(got), ast.AxisAll)
		}
	})

	t.Run("task with id and message", func(t *testing.T) {
		got, err := Parse("/Task[ID=341]/Message")
		if err != nil {
			t.Fatal(err)
		}
		task, ok := got.(*ast.TaskNode)
		if !ok {
			t.Fatalf("Parse() = %T, want *ast.TaskNode", got)
		}
		if ids := ast.IDs(task.Constraints); len(ids) != 1 || ids[0] != 341 {
			t.Errorf("IDs = %v, want [341]", ids)
		}
		if _, ok := task.Child.(*ast.MessageNode); !ok {
			t.Errorf("Child = %T, want *ast.MessageNode", task.Child)
		}
	})

	t.Run("wildcard keeps leaf kind", func(t *testing.T) {
		got, err := Parse("/Project/Task[id=1,Id=2,ID=3]//Warning")
		if err != nil {
			t.Fatal(err)
		}
		leaf := ast.Leaf(got)
		if _, ok := leaf.(*ast.WarningNode); !ok {
			t.Errorf("leaf = %T, want *ast.WarningNode", leaf)
		}
	})

	t.Run("empty expression", func(t *testing.T) {
		_, err := Parse("")
		if !queryErrors.IsCategory(err, queryErrors.CategoryEmptyExpression) {
			t.Errorf("Parse(\"\") error = %v, want EmptyExpression", err)
		}
	})

	t.Run("duplicate task", func(t *testing.T) {
		_, err := Parse("/task/task")
		if !queryErrors.IsCategory(err, queryErrors.CategoryOutOfOrderOrDuplicateNode) {
			t.Errorf("error = %v, want OutOfOrderOrDuplicateNode", err)
		}
	})

	t.Run("quoted id", func(t *testing.T) {
		_, err := Parse(`/Target[Id="999"]/Task`)
		if !queryErrors.IsCategory(err, queryErrors.CategoryInvalidConstraintValue) {
			t.Errorf("error = %v, want InvalidConstraintValue", err)
		}
	})
}

func TestParse_EmptyBracketsEqualNoBrackets(t *testing.T) {
	for _, kw := range []string{"Project", "Target", "Task"} {
		withBrackets, err := Parse("/" + kw + "[]")
		if err != nil {
			t.Fatalf("Parse(/%s[]) failed: %v", kw, err)
		}
		without, err := Parse("/" + kw)
		if err != nil {
			t.Fatalf("Parse(/%s) failed: %v", kw, err)
		}
		if !ast.Equal(withBrackets, without) {
			t.Errorf("/%s[] and /%s parse to different trees", kw, kw)
		}
		if n := len(ast.ConstraintsOf(withBrackets)); n != 0 {
			t.Errorf("/%s[] has %d constraints, want 0", kw, n)
		}
	}
}

func TestParse_ErrorOffsets(t *testing.T) {
	tests := []struct {
		expr   string
		offset int
	}{
		{"message", 0},
		{"/tsak", 1},
		{"/task/task", 6},
		{"/project//target", 8},
		{"/message/project", 8},
		{"/Task[ID=123", 5},
		{"/Task[Name=1]", 6},
		{`/Task[Id="1"]`, 9},
		{"/Task[Id=1,]", 10},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Parse(tt.expr)
			var pe *queryErrors.ParseError
			if !stderrors.As(err, &pe) {
				t.Fatalf("Parse(%q) error = %v, want *errors.ParseError", tt.expr, err)
			}
			if pe.Offset != tt.offset {
				t.Errorf("Parse(%q) offset = %d, want %d", tt.expr, pe.Offset, tt.offset)
			}
		})
	}
}

func TestParse_Suggestions(t *testing.T) {
	_, err := Parse("/Project/tsak//Error")
	var pe *queryErrors.ParseError
	if !stderrors.As(err, &pe) {
		t.Fatalf("error = %v, want *errors.ParseError", err)
	}
	if pe.Suggestion != "Did you mean 'task'?" {
		t.Errorf("Suggestion = %q, want %q", pe.Suggestion, "Did you mean 'task'?")
	}
	if !strings.Contains(pe.Error(), "^") {
		t.Errorf("Error() should point at the offending token:\n%s", pe.Error())
	}
}

func TestParser_WithMaxConstraints(t *testing.T) {
	p := NewParser().WithMaxConstraints(2)

	if _, err := p.Parse("/Task[Id=1,Id=2]"); err != nil {
		t.Errorf("Parse() with 2 constraints failed: %v", err)
	}

	_, err := p.Parse("/Task[Id=1,Id=2,Id=3]")
	if !queryErrors.IsCategory(err, queryErrors.CategoryMalformedConstraintList) {
		t.Errorf("Parse() with 3 constraints error = %v, want MalformedConstraintList", err)
	}

	if got := NewParser().WithMaxConstraints(-1).MaxConstraints(); got != 0 {
		t.Errorf("MaxConstraints() = %d, want 0", got)
	}
}

func TestParse_LongConstraintList(t *testing.T) {
	const n = 100000

	var sb strings.Builder
	sb.WriteString("/Task[")
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("Id=7")
	}
	sb.WriteString("]")

	got, err := Parse(sb.String())
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(ast.ConstraintsOf(got)) != n {
		t.Errorf("len(Constraints) = %d, want %d", len(ast.ConstraintsOf(got)), n)
	}
}

func TestParse_Deterministic(t *testing.T) {
	exprs := []string{
		"/Project[Id=1]/Target[Id=2]/Task[Id=3]//Message",
		"/project/task/warning",
		"//error",
	}
	for _, expr := range exprs {
		a, err := Parse(expr)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Parse(expr)
		if err != nil {
			t.Fatal(err)
		}
		if !ast.Equal(a, b) {
			t.Errorf("Parse(%q) is not deterministic", expr)
		}
		if a == b {
			t.Errorf("Parse(%q) returned a shared tree", expr)
		}
	}
}

// BenchmarkParse benchmarks parsing a full four-segment query
func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Parse("/Project[Id=1]/Target[Id=2]/Task[Id=3, Id=4]//Message"); err != nil {
			b.Fatal(err)
		}
	}
}
