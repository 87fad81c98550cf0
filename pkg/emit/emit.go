// Package emit renders a CompilationUnit/TypeDecl tree back to Java source
// text for writing under gen/. There is no go/printer equivalent for a
// Java-shaped tree, so this is a direct textual renderer over a
// strings.Builder — the one piece of the pipeline with no ecosystem
// printer to delegate to (see the module's design notes for why this is
// the exception rather than the rule).
package emit

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/jesslang/jess/pkg/ast"
)

// Mapping pairs a declaration's original source position with the line it
// landed on in the emitted text, for the Slicer/Stubber provenance that
// pkg/srcmap turns into a Source Map v3 document. OrigPos is
// token.NoPos for a purely synthetic declaration (nothing to map back to).
type Mapping struct {
	OrigPos token.Pos
	GenLine int
	Name    string
}

// CompilationUnit renders cu (already sliced/stubbed) to Java source text,
// along with the position mapping for every member that survived slicing.
func CompilationUnit(cu *ast.CompilationUnit) (string, []Mapping) {
	var b strings.Builder
	var mappings []Mapping
	if cu.Package != "" {
		fmt.Fprintf(&b, "package %s;\n\n", cu.Package)
	}
	for _, imp := range cu.Imports {
		path := imp.Path
		if imp.Asterisk {
			path += ".*"
		}
		fmt.Fprintf(&b, "import %s;\n", path)
	}
	if len(cu.Imports) > 0 {
		b.WriteString("\n")
	}
	for i, t := range cu.Types {
		if i > 0 {
			b.WriteString("\n")
		}
		writeType(&b, t, 0, &mappings)
	}
	return b.String(), mappings
}

// Type renders a single synthetic top-level type, for Stubber output where
// there is no owning CompilationUnit. It returns one mapping per rendered
// declaration, as CompilationUnit does; stubbed declarations carry no
// original position, so their mappings have OrigPos token.NoPos.
func Type(t *ast.TypeDecl) (string, []Mapping) {
	var b strings.Builder
	var mappings []Mapping
	pkg := ast.PackageOf(t.FQN)
	if pkg != "" {
		fmt.Fprintf(&b, "package %s;\n\n", pkg)
	}
	writeType(&b, t, 0, &mappings)
	return b.String(), mappings
}

func indent(n int) string { return strings.Repeat("    ", n) }

// genLine reports the 1-based line the next write to b will start on.
func genLine(b *strings.Builder) int {
	return strings.Count(b.String(), "\n") + 1
}

func writeType(b *strings.Builder, t *ast.TypeDecl, depth int, mappings *[]Mapping) {
	*mappings = append(*mappings, Mapping{OrigPos: t.StartPos, GenLine: genLine(b), Name: t.Name})
	for _, a := range t.Annotations {
		fmt.Fprintf(b, "%s@%s%s\n", indent(depth), simpleTypeName(a.Type), argList(a.Args))
	}
	fmt.Fprintf(b, "%spublic %s%s %s%s", indent(depth), staticPrefix(t), kindKeyword(t.Kind), t.Name, typeParamList(t.TypeParams))
	if t.Superclass != nil {
		fmt.Fprintf(b, " extends %s", typeRefString(t.Superclass))
	}
	if len(t.Interfaces) > 0 {
		verb := "implements"
		if t.Kind == ast.Interface {
			verb = "extends"
		}
		names := make([]string, len(t.Interfaces))
		for i, iface := range t.Interfaces {
			names[i] = typeRefString(iface)
		}
		fmt.Fprintf(b, " %s %s", verb, strings.Join(names, ", "))
	}
	b.WriteString(" {\n")

	if t.Kind == ast.Enum {
		fmt.Fprintf(b, "%s%s;\n\n", indent(depth+1), strings.Join(t.EnumConstants, ", "))
	}

	for _, f := range t.Fields {
		*mappings = append(*mappings, Mapping{OrigPos: f.StartPos, GenLine: genLine(b), Name: f.Name})
		writeField(b, f, depth+1)
	}
	if len(t.Fields) > 0 {
		b.WriteString("\n")
	}
	for _, c := range t.Constructors {
		*mappings = append(*mappings, Mapping{OrigPos: c.StartPos, GenLine: genLine(b), Name: t.Name})
		writeConstructor(b, t.Name, c, depth+1)
	}
	for _, m := range t.Methods {
		*mappings = append(*mappings, Mapping{OrigPos: m.StartPos, GenLine: genLine(b), Name: m.Name})
		writeMethod(b, m, depth+1, t.Kind)
	}
	for _, n := range t.Nested {
		writeType(b, n, depth+1, mappings)
	}

	fmt.Fprintf(b, "%s}\n", indent(depth))
}

func staticPrefix(t *ast.TypeDecl) string {
	if t.IsNonStaticInner {
		return ""
	}
	return ""
}

func kindKeyword(k ast.TypeKind) string {
	switch k {
	case ast.Interface:
		return "interface"
	case ast.Annotation:
		return "@interface"
	case ast.Enum:
		return "enum"
	default:
		return "class"
	}
}

func typeParamList(tps []*ast.TypeParam) string {
	if len(tps) == 0 {
		return ""
	}
	names := make([]string, len(tps))
	for i, tp := range tps {
		if tp.Bound != nil {
			names[i] = tp.Name + " extends " + typeRefString(tp.Bound)
		} else {
			names[i] = tp.Name
		}
	}
	return "<" + strings.Join(names, ", ") + ">"
}

func writeField(b *strings.Builder, f *ast.FieldDecl, depth int) {
	static := ""
	if f.Static {
		static = "static "
	}
	fmt.Fprintf(b, "%spublic %s%s %s", indent(depth), static, typeRefString(f.Type), f.Name)
	if f.Initializer != nil {
		fmt.Fprintf(b, " = %s", exprString(f.Initializer))
	}
	b.WriteString(";\n")
}

func writeConstructor(b *strings.Builder, ownerName string, c *ast.ConstructorDecl, depth int) {
	fmt.Fprintf(b, "%spublic %s(%s)%s {\n", indent(depth), ownerName, paramList(c.Params), throwsClause(c.Thrown))
	writeBlockStmts(b, c.Body, depth+1)
	fmt.Fprintf(b, "%s}\n", indent(depth))
}

func writeMethod(b *strings.Builder, m *ast.MethodDecl, depth int, ownerKind ast.TypeKind) {
	mods := ""
	if m.Static {
		mods += "static "
	}
	if m.Abstract {
		mods += "abstract "
	} else if m.DefaultOnInterface {
		mods += "default "
	}
	fmt.Fprintf(b, "%spublic %s%s %s(%s)%s", indent(depth), mods, typeRefString(m.ReturnType), m.Name, paramList(m.Params), throwsClause(m.Thrown))
	if m.Abstract || (ownerKind == ast.Annotation) {
		b.WriteString(";\n")
		return
	}
	b.WriteString(" {\n")
	writeBlockStmts(b, m.Body, depth+1)
	fmt.Fprintf(b, "%s}\n", indent(depth))
}

func throwsClause(thrown []*ast.TypeRef) string {
	if len(thrown) == 0 {
		return ""
	}
	names := make([]string, len(thrown))
	for i, t := range thrown {
		names[i] = typeRefString(t)
	}
	return " throws " + strings.Join(names, ", ")
}

func paramList(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		t := typeRefString(p.Type)
		if p.Varargs {
			t = strings.TrimSuffix(t, "[]") + "..."
		}
		parts[i] = t + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

func writeBlockStmts(b *strings.Builder, body *ast.Block, depth int) {
	if body == nil {
		return
	}
	for _, s := range body.Stmts {
		writeStmt(b, s, depth)
	}
}

func writeStmt(b *strings.Builder, s ast.Stmt, depth int) {
	switch x := s.(type) {
	case *ast.ReturnStmt:
		if x.Value == nil {
			fmt.Fprintf(b, "%sreturn;\n", indent(depth))
		} else {
			fmt.Fprintf(b, "%sreturn %s;\n", indent(depth), exprString(x.Value))
		}
	case *ast.ExprStmt:
		fmt.Fprintf(b, "%s%s;\n", indent(depth), exprString(x.X))
	case *ast.ThrowStmt:
		fmt.Fprintf(b, "%sthrow %s;\n", indent(depth), exprString(x.X))
	case *ast.VarDeclStmt:
		if x.Init != nil {
			fmt.Fprintf(b, "%s%s %s = %s;\n", indent(depth), typeRefString(x.Type), x.Name, exprString(x.Init))
		} else {
			fmt.Fprintf(b, "%s%s %s;\n", indent(depth), typeRefString(x.Type), x.Name)
		}
	case *ast.IfStmt:
		fmt.Fprintf(b, "%sif (%s) {\n", indent(depth), exprString(x.Cond))
		writeBlockStmts(b, x.Then, depth+1)
		if x.Else != nil {
			fmt.Fprintf(b, "%s} else {\n", indent(depth))
			writeBlockStmts(b, x.Else, depth+1)
		}
		fmt.Fprintf(b, "%s}\n", indent(depth))
	case *ast.LoopStmt:
		fmt.Fprintf(b, "%swhile (%s) {\n", indent(depth), condString(x.Cond))
		writeBlockStmts(b, x.Body, depth+1)
		fmt.Fprintf(b, "%s}\n", indent(depth))
	}
}

func condString(e ast.Expr) string {
	if e == nil {
		return "true"
	}
	return exprString(e)
}

func exprString(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.Literal:
		return x.Value
	case *ast.Ident:
		return x.Name
	case *ast.FieldAccessExpr:
		if x.Receiver == nil {
			return x.Name
		}
		return exprString(x.Receiver) + "." + x.Name
	case *ast.CallExpr:
		recv := ""
		if x.Receiver != nil {
			recv = exprString(x.Receiver) + "."
		}
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = exprString(a)
		}
		return fmt.Sprintf("%s%s(%s)", recv, x.Name, strings.Join(args, ", "))
	case *ast.NewExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = exprString(a)
		}
		return fmt.Sprintf("new %s(%s)", typeRefString(x.Type), strings.Join(args, ", "))
	case *ast.CastExpr:
		return fmt.Sprintf("((%s) %s)", typeRefString(x.Type), exprString(x.X))
	case *ast.InstanceOfExpr:
		return fmt.Sprintf("%s instanceof %s", exprString(x.X), typeRefString(x.Type))
	case *ast.AssignExpr:
		return fmt.Sprintf("%s = %s", exprString(x.LHS), exprString(x.RHS))
	case *ast.LambdaExpr:
		names := make([]string, len(x.Params))
		for i, p := range x.Params {
			names[i] = p.Name
		}
		body := "{}"
		if blk, ok := x.Body.(*ast.Block); ok {
			var bb strings.Builder
			writeBlockStmts(&bb, blk, 0)
			body = "{ " + bb.String() + " }"
		} else if be, ok := x.Body.(ast.Expr); ok {
			body = exprString(be)
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(names, ", "), body)
	case *ast.MethodRefExpr:
		if x.Qualifier != nil {
			return typeRefString(x.Qualifier) + "::" + x.Name
		}
		return exprString(x.Receiver) + "::" + x.Name
	default:
		return ""
	}
}

func simpleTypeName(t *ast.TypeRef) string {
	return ast.SimpleName(t.FQN())
}

func argList(args []ast.Expr) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = exprString(a)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func typeRefString(t *ast.TypeRef) string {
	if t == nil {
		return "void"
	}
	name := t.FQN()
	if len(t.TypeArgs) > 0 {
		args := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = typeRefString(a)
		}
		name += "<" + strings.Join(args, ", ") + ">"
	}
	return name + strings.Repeat("[]", t.ArrayDims)
}
