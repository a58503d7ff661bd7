// Package errwrap detects errors formatted into fmt.Errorf without %w.
package errwrap

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports error operands of fmt.Errorf formatted with %v or %s.
// Such errors lose their chain, so errors.Is no longer finds sentinels like entities.ErrInput.
var Analyzer = &analysis.Analyzer{
	Name:     "errwrap",
	Doc:      "detects fmt.Errorf calls that format an error with %v or %s instead of wrapping it with %w",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var errorType = types.Universe.Lookup("error").Type().Underlying().(*types.Interface)

func run(pass *analysis.Pass) (any, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		if len(call.Args) < 2 || !isErrorf(pass, call) {
			return
		}

		lit, ok := call.Args[0].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return
		}
		format, err := strconv.Unquote(lit.Value)
		if err != nil {
			return
		}

		for i, verb := range formatVerbs(format) {
			if i+1 >= len(call.Args) {
				break
			}
			if verb != 'v' && verb != 's' {
				continue
			}
			arg := call.Args[i+1]
			t := pass.TypesInfo.TypeOf(arg)
			if t == nil || !types.Implements(t, errorType) {
				continue
			}
			pass.Reportf(arg.Pos(), "error formatted with %%%c - use %%w to keep it matchable with errors.Is", verb)
		}
	})

	return nil, nil
}

func isErrorf(pass *analysis.Pass, call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Errorf" {
		return false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	return ok && fn.Pkg() != nil && fn.Pkg().Path() == "fmt"
}

// formatVerbs returns the verb of each operand in format.
// Formats using explicit argument indexes or * widths return nil.
func formatVerbs(format string) []byte {
	var verbs []byte
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		for i < len(format) && strings.IndexByte("+-# 0123456789.", format[i]) >= 0 {
			i++
		}
		if i >= len(format) {
			break
		}
		switch format[i] {
		case '%':
			continue
		case '[', '*':
			return nil
		}
		verbs = append(verbs, format[i])
	}
	return verbs
}
