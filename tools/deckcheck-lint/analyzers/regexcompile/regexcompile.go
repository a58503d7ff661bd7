// Package regexcompile detects constant regular expressions compiled inside functions.
package regexcompile

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports regexp compilation of constant patterns inside function bodies.
// Patterns built at runtime, e.g. from configured keywords, are allowed.
var Analyzer = &analysis.Analyzer{
	Name:     "regexcompile",
	Doc:      "detects constant regexp patterns compiled inside functions instead of at package level",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var regexpFuncs = map[string]bool{
	"Compile":          true,
	"MustCompile":      true,
	"CompilePOSIX":     true,
	"MustCompilePOSIX": true,
}

func run(pass *analysis.Pass) (any, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.FuncDecl)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		fn := n.(*ast.FuncDecl)
		if fn.Body == nil {
			return
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || len(call.Args) != 1 {
				return true
			}
			name, ok := regexpFunc(pass, call)
			if !ok {
				return true
			}
			if tv, ok := pass.TypesInfo.Types[call.Args[0]]; ok && tv.Value != nil {
				pass.Reportf(call.Pos(),
					"regexp.%s with a constant pattern in %s - compile once at package level", name, fn.Name.Name)
			}
			return true
		})
	})

	return nil, nil
}

func regexpFunc(pass *analysis.Pass, call *ast.CallExpr) (string, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || !regexpFuncs[sel.Sel.Name] {
		return "", false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil || fn.Pkg().Path() != "regexp" {
		return "", false
	}
	return sel.Sel.Name, true
}
