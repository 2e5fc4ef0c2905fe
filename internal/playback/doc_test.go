package playback

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
)

// Both player builds share one exported surface and each of them is documented.
func TestPlayerMethodsDocumented(t *testing.T) {
	for _, name := range []string{"player.go", "player_headless.go"} {
		file, err := parser.ParseFile(token.NewFileSet(), name, nil, parser.ParseComments)
		if err != nil {
			t.Fatal(err)
		}
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || !fn.Name.IsExported() {
				continue
			}
			if fn.Doc == nil {
				t.Errorf("%s: %s has no doc comment", name, fn.Name.Name)
			}
		}
	}
}
