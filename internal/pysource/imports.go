package pysource

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Import is a name imported by an `import` or a `from ... import` statement.
type Import struct {
	// Module is the module imported from, without its relative prefix.
	// For `import a.b`, Module is "a.b" and Name is empty.
	Module string
	// Level is the number of leading dots of a relative import.
	Level int
	Name  string
	Alias string
	Line  int
}

// BoundName returns the name this import binds in the importing module.
func (imported Import) BoundName() string {
	if imported.Alias != "" {
		return imported.Alias
	}

	if imported.Name != "" {
		return imported.Name
	}

	// `import a.b` binds `a`
	first, _, _ := strings.Cut(imported.Module, ".")

	return first
}

// FromImports returns the names imported at module level by `from ... import` statements.
func (module *Module) FromImports() []Import {
	var imports []Import

	for _, statement := range module.topLevelStatements() {
		if statement.Type() == "import_from_statement" {
			imports = append(imports, module.fromImports(statement)...)
		}
	}

	return imports
}

func (module *Module) fromImports(statement *sitter.Node) []Import {
	moduleName := statement.ChildByFieldName("module_name")
	if moduleName == nil {
		return nil
	}

	base := Import{Line: line(statement)}

	if moduleName.Type() == "relative_import" {
		for _, part := range namedChildren(moduleName) {
			switch part.Type() {
			case "import_prefix":
				base.Level = len(strings.TrimSpace(module.text(part)))
			case "dotted_name":
				base.Module = module.text(part)
			}
		}
	} else {
		base.Module = module.text(moduleName)
	}

	var imports []Import

	for _, child := range namedChildren(statement) {
		if child.StartByte() == moduleName.StartByte() {
			continue
		}

		imported := base

		switch child.Type() {
		case "dotted_name":
			imported.Name = module.text(child)
		case "aliased_import":
			imported.Name = module.text(child.ChildByFieldName("name"))
			imported.Alias = module.text(child.ChildByFieldName("alias"))
		default:
			continue
		}

		imports = append(imports, imported)
	}

	return imports
}

func (module *Module) imports(statement *sitter.Node) []Import {
	var imports []Import

	for _, child := range namedChildren(statement) {
		imported := Import{Line: line(statement)}

		switch child.Type() {
		case "dotted_name":
			imported.Module = module.text(child)
		case "aliased_import":
			imported.Module = module.text(child.ChildByFieldName("name"))
			imported.Alias = module.text(child.ChildByFieldName("alias"))
		default:
			continue
		}

		imports = append(imports, imported)
	}

	return imports
}
