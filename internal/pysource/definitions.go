package pysource

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Function is a function or method definition, at any nesting depth.
type Function struct {
	Name       string
	Line       int
	Async      bool
	Decorators []string
	// HasReturnAnnotation is true when the definition declares a return type (`def f() -> int`).
	HasReturnAnnotation bool
}

// HasDecorator reports whether the function is decorated with exactly the
// given expression (ie: "property", "functools.cache").
func (function Function) HasDecorator(expression string) bool {
	for _, decorator := range function.Decorators {
		if decorator == expression {
			return true
		}
	}

	return false
}

// Class is a top-level class definition.
type Class struct {
	Name string
	Line int
	// Bases holds the positional superclass expressions, as written (ie: "QtWidgets.QMainWindow").
	Bases []string
	// Methods holds the names of the functions defined directly in the class body.
	Methods []string
	// Attributes holds the names assigned directly in the class body.
	Attributes []string
}

// Defines reports whether the class body itself binds the given name.
func (class Class) Defines(name string) bool {
	for _, method := range class.Methods {
		if method == name {
			return true
		}
	}

	for _, attribute := range class.Attributes {
		if attribute == name {
			return true
		}
	}

	return false
}

// Functions returns every function definition of the module, sync or async,
// whatever its depth, in source order.
func (module *Module) Functions() []Function {
	var functions []Function

	walk(module.root, func(node *sitter.Node) bool {
		if node.Type() == "function_definition" {
			functions = append(functions, module.function(node))
		}

		return true
	})

	return functions
}

func (module *Module) function(node *sitter.Node) Function {
	function := Function{
		Name:                module.text(node.ChildByFieldName("name")),
		Line:                line(node),
		HasReturnAnnotation: node.ChildByFieldName("return_type") != nil,
	}

	if first := node.Child(0); first != nil && first.Type() == "async" {
		function.Async = true
	}

	if parent := node.Parent(); parent != nil && parent.Type() == "decorated_definition" {
		for _, child := range namedChildren(parent) {
			if child.Type() != "decorator" {
				continue
			}

			expression := strings.TrimSpace(strings.TrimPrefix(module.text(child), "@"))
			function.Decorators = append(function.Decorators, expression)
		}
	}

	return function
}

// Classes returns the top-level class definitions of the module.
func (module *Module) Classes() []Class {
	var classes []Class

	for _, statement := range module.topLevelStatements() {
		if definition := unwrapDecorated(statement); definition.Type() == "class_definition" {
			classes = append(classes, module.class(definition))
		}
	}

	return classes
}

// Class returns the top-level class with the given name.
func (module *Module) Class(name string) (Class, bool) {
	for _, class := range module.Classes() {
		if class.Name == name {
			return class, true
		}
	}

	return Class{}, false
}

func (module *Module) class(node *sitter.Node) Class {
	class := Class{
		Name: module.text(node.ChildByFieldName("name")),
		Line: line(node),
	}

	for _, argument := range namedChildren(node.ChildByFieldName("superclasses")) {
		switch argument.Type() {
		case "identifier", "attribute":
			class.Bases = append(class.Bases, module.text(argument))
		}
	}

	for _, statement := range namedChildren(node.ChildByFieldName("body")) {
		definition := unwrapDecorated(statement)

		switch definition.Type() {
		case "function_definition":
			class.Methods = append(class.Methods, module.text(definition.ChildByFieldName("name")))
		case "class_definition":
			class.Attributes = append(class.Attributes, module.text(definition.ChildByFieldName("name")))
		case "expression_statement":
			class.Attributes = append(class.Attributes, module.assignedNames(definition)...)
		}
	}

	return class
}

// TopLevelNames returns the names bound at module level: classes, functions,
// assignments and imports. Bindings nested in top-level if/try/with blocks are
// included since they bind module-level names as well.
func (module *Module) TopLevelNames() []string {
	var names []string

	for _, statement := range module.topLevelStatements() {
		definition := unwrapDecorated(statement)

		switch definition.Type() {
		case "function_definition", "class_definition":
			names = append(names, module.text(definition.ChildByFieldName("name")))
		case "expression_statement":
			names = append(names, module.assignedNames(definition)...)
		case "import_statement":
			for _, imported := range module.imports(definition) {
				names = append(names, imported.BoundName())
			}
		case "import_from_statement":
			for _, imported := range module.fromImports(definition) {
				names = append(names, imported.BoundName())
			}
		}
	}

	return names
}

// Binds reports whether the given name is bound at module level.
func (module *Module) Binds(name string) bool {
	for _, bound := range module.TopLevelNames() {
		if bound == name {
			return true
		}
	}

	return false
}

// topLevelStatements returns the statements of the module body, flattening
// compound statements (if/try/with) that do not introduce a new scope.
func (module *Module) topLevelStatements() []*sitter.Node {
	var statements []*sitter.Node

	var collect func(node *sitter.Node)
	collect = func(node *sitter.Node) {
		for _, child := range namedChildren(node) {
			switch child.Type() {
			case "if_statement", "try_statement", "with_statement",
				"else_clause", "elif_clause", "except_clause", "finally_clause", "block":
				collect(child)
			default:
				statements = append(statements, child)
			}
		}
	}

	collect(module.root)

	return statements
}

func (module *Module) assignedNames(statement *sitter.Node) []string {
	var names []string

	for _, expression := range namedChildren(statement) {
		for expression != nil && expression.Type() == "assignment" {
			left := expression.ChildByFieldName("left")
			if left == nil {
				break
			}

			switch left.Type() {
			case "identifier":
				names = append(names, module.text(left))
			case "pattern_list", "tuple_pattern":
				for _, target := range namedChildren(left) {
					if target.Type() == "identifier" {
						names = append(names, module.text(target))
					}
				}
			}

			// chained assignments: a = b = 1
			expression = expression.ChildByFieldName("right")
		}
	}

	return names
}

func unwrapDecorated(node *sitter.Node) *sitter.Node {
	if node.Type() == "decorated_definition" {
		if definition := node.ChildByFieldName("definition"); definition != nil {
			return definition
		}
	}

	return node
}
