package compliance

import (
	"slices"
)

type Rule struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Severity is the most severe outcome the rule can produce.
	Severity Severity `json:"severity"`

	check checkFunc
}

// ID returns the identifier of the rule, as used in reports and configuration.
func (rule Rule) ID() string {
	return rule.Category + "/" + rule.Name
}

// rules lists every rule, in the order they are applied to a file.
//
//nolint:gochecknoglobals
var rules = []Rule{
	{
		Category:    "io",
		Name:        "readable",
		Description: "Files must be readable UTF-8 text",
		Severity:    SeverityError,
	},
	{
		Category:    "typing",
		Name:        "deprecated-imports",
		Description: "Built-in generics must be used instead of typing.List, Dict, Set, Tuple, Optional and Union",
		Severity:    SeverityError,
		check:       checkDeprecatedTyping,
	},
	{
		Category:    "typing",
		Name:        "union-operator",
		Description: "Union types should be written with the | operator",
		Severity:    SeverityPass,
		check:       checkUnionOperator,
	},
	{
		Category:    "errors",
		Name:        "bare-except",
		Description: "Exception handlers must name the exceptions they catch",
		Severity:    SeverityError,
		check:       checkBareExcept,
	},
	{
		Category:    "typing",
		Name:        "return-hints",
		Description: "Files must parse and public functions should declare their return type",
		Severity:    SeverityError,
		check:       checkReturnHints,
	},
	{
		Category:    "naming",
		Name:        "pascal-case-classes",
		Description: "Classes are named in PascalCase",
		Severity:    SeverityPass,
		check:       checkPascalCaseClasses,
	},
	{
		Category:    "naming",
		Name:        "snake-case-functions",
		Description: "Functions are named in snake_case",
		Severity:    SeverityPass,
		check:       checkSnakeCaseFunctions,
	},
	{
		Category:    "docs",
		Name:        "docstrings",
		Description: "Modules, classes and functions should be documented with docstrings",
		Severity:    SeverityWarning,
		check:       checkDocstrings,
	},
	{
		Category:    "style",
		Name:        "line-length",
		Description: "Code lines should not exceed the maximum line length",
		Severity:    SeverityWarning,
		check:       checkLineLength,
	},
	{
		Category:    "style",
		Name:        "import-order",
		Description: "Standard library imports come before third-party imports (isort)",
		Severity:    SeverityWarning,
		check:       checkImportOrder,
	},
	{
		Category:    "concurrency",
		Name:        "thread-safety",
		Description: "Shared state is protected by locks and concurrency goes through executors",
		Severity:    SeverityPass,
		check:       checkThreadSafety,
	},
	{
		Category:    "logging",
		Name:        "project-logger",
		Description: "Modules log through the project logger",
		Severity:    SeverityPass,
		check:       checkProjectLogger,
	},
}

const readableRuleID = "io/readable"

// Rules returns the catalogue of rules, in the order they are applied.
func Rules() []Rule {
	return slices.Clone(rules)
}

// IsKnownRule reports whether the given identifier names a rule.
func IsKnownRule(id string) bool {
	return slices.ContainsFunc(rules, func(rule Rule) bool {
		return rule.ID() == id
	})
}

func ruleByID(id string) Rule {
	for _, rule := range rules {
		if rule.ID() == id {
			return rule
		}
	}

	return Rule{}
}
