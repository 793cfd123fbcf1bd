// Package parser turns logq path query expressions into ASTs.
//
// # Grammar
//
//	Path        := Step+
//	Step        := Axis Keyword Constraints?
//	Axis        := "/" | "//"
//	Keyword     := project | target | task | message | warning | error   (any case)
//	Constraints := "[" (Constraint ("," Constraint)*)? "]"
//	Constraint  := Key "=" Integer
//	Key         := id                                                    (any case)
//
// On top of the grammar the parser enforces:
//   - segments nest project, target, task, then one leaf (message, warning
//     or error); skipping a level is fine, repeating or reversing is not
//   - the leaf, if any, is the last segment and takes no constraints
//   - "//" may only precede a leaf keyword
//
// Spaces and tabs are allowed inside brackets only.
//
// # Basic Usage
//
//	root, err := parser.Parse("/Project/Task[Id=1, Id=2]//Warning")
//	if err != nil {
//	    var pe *errors.ParseError
//	    if stderrors.As(err, &pe) {
//	        fmt.Println(pe.Category)
//	    }
//	    return err
//	}
//
// Limit constraint lists for untrusted input:
//
//	p := parser.NewParser().WithMaxConstraints(64)
//	root, err := p.Parse(expr)
//
// # Implementation
//
// The Lexer produces the whole token stream up front; it never fails and
// reports unexpected input as TokenInvalid or TokenString tokens so the
// parser can classify the error by grammar position. Segments are parsed
// recursively (at most four deep); constraint lists are parsed in a loop.
package parser
