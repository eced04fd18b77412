package compliance

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tidal-dl-ng/agentcheck/internal/pysource"
)

type checkFunc func(ctx context.Context, file sourceFile, settings settings, results *fileResults)

type sourceFile struct {
	// path is the path displayed in reports.
	path    string
	content string
}

// ImportMarkers are the substrings identifying import lines of each section,
// as understood by the import-order rule.
type ImportMarkers struct {
	Stdlib     []string `json:"stdlib,omitempty" yaml:"stdlib,omitempty"`
	ThirdParty []string `json:"third-party,omitempty" yaml:"third-party,omitempty"`
	FirstParty []string `json:"first-party,omitempty" yaml:"first-party,omitempty"`
}

// DefaultImportMarkers returns the markers used for the tidal_dl_ng code base.
func DefaultImportMarkers() ImportMarkers {
	return ImportMarkers{
		Stdlib:     []string{"import threading", "import concurrent"},
		ThirdParty: []string{"PySide6", "requests"},
		FirstParty: []string{"from tidal_dl_ng"},
	}
}

type settings struct {
	maxLineLength int
	minDocstrings int
	importMarkers ImportMarkers
}

// fileResults collects the outcomes of the rules applied to a single file.
type fileResults struct {
	file       string
	rule       Rule
	passed     []Pass
	violations []Violation
}

func (results *fileResults) pass(message string) {
	results.passed = append(results.passed, Pass{
		Rule:     results.rule.ID(),
		Location: Location{File: results.file},
		Message:  message,
	})
}

func (results *fileResults) fail(severity Severity, line int, details string) {
	results.violations = append(results.violations, Violation{
		Rule:        results.rule.ID(),
		Description: results.rule.Description,
		Severity:    severity,
		Location:    Location{File: results.file, Line: line},
		Details:     details,
	})
}

//nolint:gochecknoglobals
var (
	deprecatedTypingImports = []struct {
		name    string
		pattern *regexp.Regexp
	}{
		{name: "List", pattern: regexp.MustCompile(`from typing import.*\bList\b`)},
		{name: "Dict", pattern: regexp.MustCompile(`from typing import.*\bDict\b`)},
		{name: "Set", pattern: regexp.MustCompile(`from typing import.*\bSet\b`)},
		{name: "Tuple", pattern: regexp.MustCompile(`from typing import.*\bTuple\b`)},
		{name: "Optional", pattern: regexp.MustCompile(`from typing import.*\bOptional\b`)},
		{name: "Union", pattern: regexp.MustCompile(`from typing import.*\bUnion\b`)},
	}

	bareExceptRegex       = regexp.MustCompile(`except\s*:`)
	pascalCaseClassRegex  = regexp.MustCompile(`(?m)^class\s+([A-Z][a-zA-Z0-9]*)\s*[:(]`)
	snakeCaseFuncRegex    = regexp.MustCompile(`(?m)^\s*def\s+([a-z_][a-z0-9_]*)\s*\(`)
	docstringRegex        = regexp.MustCompile(`"""[^"]*"""`)
	threadingLockMarkers  = []string{"threading.RLock", "threading.Lock"}
	projectLoggerMarkers  = []string{"logger_gui", "logger"}
	unionOperatorMarkers  = []string{"| None", "| "}
	importStatementPrefix = []string{"import ", "from "}
)

// checkDeprecatedTyping records a single error for the first deprecated
// typing import found, in a fixed order.
func checkDeprecatedTyping(_ context.Context, file sourceFile, _ settings, results *fileResults) {
	for _, deprecated := range deprecatedTypingImports {
		if location := deprecated.pattern.FindStringIndex(file.content); location != nil {
			results.fail(SeverityError, lineAt(file.content, location[0]),
				"Deprecated: 'from typing import "+deprecated.name+"' (use built-in)")
			return
		}
	}

	results.pass("No deprecated typing imports")
}

func checkUnionOperator(_ context.Context, file sourceFile, _ settings, results *fileResults) {
	if containsAny(file.content, unionOperatorMarkers) {
		results.pass("Uses modern union types with |")
	}
}

func checkBareExcept(_ context.Context, file sourceFile, _ settings, results *fileResults) {
	location := bareExceptRegex.FindStringIndex(file.content)
	if location == nil {
		results.pass("No bare except clauses")
		return
	}

	results.fail(SeverityError, lineAt(file.content, location[0]), "Bare 'except:' found (use specific exceptions)")
}

func checkReturnHints(ctx context.Context, file sourceFile, _ settings, results *fileResults) {
	module, err := pysource.Parse(ctx, file.path, []byte(file.content))
	if err != nil {
		results.fail(SeverityError, 0, "Could not parse file: "+err.Error())
		return
	}

	if syntaxErr := module.SyntaxError(); syntaxErr != nil {
		results.fail(SeverityError, syntaxErr.Line, fmt.Sprintf("Syntax error: %s (line %d)", syntaxErr.Message, syntaxErr.Line))
		return
	}

	untyped := 0

	for _, function := range module.Functions() {
		switch {
		case strings.HasPrefix(function.Name, "_"),
			strings.HasPrefix(function.Name, "test_"),
			function.HasReturnAnnotation,
			function.HasDecorator("property"):
			continue
		}

		untyped++
	}

	if untyped == 0 {
		results.pass("All functions have type hints")
		return
	}

	results.pass("Most functions typed - " + strconv.Itoa(untyped) + " without return hints")
}

func checkPascalCaseClasses(_ context.Context, file sourceFile, _ settings, results *fileResults) {
	if pascalCaseClassRegex.MatchString(file.content) {
		results.pass("Classes in PascalCase")
	}
}

func checkSnakeCaseFunctions(_ context.Context, file sourceFile, _ settings, results *fileResults) {
	if snakeCaseFuncRegex.MatchString(file.content) {
		results.pass("Functions in snake_case")
	}
}

func checkDocstrings(_ context.Context, file sourceFile, settings settings, results *fileResults) {
	count := len(docstringRegex.FindAllStringIndex(file.content, -1))

	if count > settings.minDocstrings {
		results.pass("Comprehensive docstrings - " + strconv.Itoa(count) + " found")
		return
	}

	results.fail(SeverityWarning, 0, "Few docstrings found ("+strconv.Itoa(count)+")")
}

func checkLineLength(_ context.Context, file sourceFile, settings settings, results *fileResults) {
	longLines := 0
	firstLongLine := 0

	for i, line := range strings.Split(file.content, "\n") {
		if utf8.RuneCountInString(line) <= settings.maxLineLength {
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		longLines++
		if firstLongLine == 0 {
			firstLongLine = i + 1
		}
	}

	if longLines == 0 {
		results.pass("All lines ≤ " + strconv.Itoa(settings.maxLineLength) + " characters")
		return
	}

	results.fail(SeverityWarning, firstLongLine,
		strconv.Itoa(longLines)+" lines exceed "+strconv.Itoa(settings.maxLineLength)+" characters")
}

// checkImportOrder only looks at the leading import block of the file.
func checkImportOrder(_ context.Context, file sourceFile, settings settings, results *fileResults) {
	importLines := leadingImportBlock(file.content)
	if len(importLines) == 0 {
		return
	}

	markers := settings.importMarkers
	stdlibIdx := indexOfLineContaining(importLines, markers.Stdlib)
	thirdPartyIdx := indexOfLineContaining(importLines, markers.ThirdParty)
	firstPartyIdx := indexOfLineContaining(importLines, markers.FirstParty)

	if stdlibIdx == -1 || thirdPartyIdx == -1 || firstPartyIdx == -1 {
		results.pass("Import order OK")
		return
	}

	if stdlibIdx < thirdPartyIdx {
		results.pass("Imports properly ordered (isort)")
		return
	}

	results.fail(SeverityWarning, 0, "Import order may not match isort")
}

func checkThreadSafety(_ context.Context, file sourceFile, _ settings, results *fileResults) {
	if containsAny(file.content, threadingLockMarkers) {
		results.pass("Uses threading.Lock for thread-safety")
	}

	if strings.Contains(file.content, "with self._lock") {
		results.pass("Uses context managers for locks")
	}

	if strings.Contains(file.content, "ThreadPoolExecutor") {
		results.pass("Uses ThreadPoolExecutor for concurrency")
	}
}

func checkProjectLogger(_ context.Context, file sourceFile, _ settings, results *fileResults) {
	if containsAny(file.content, projectLoggerMarkers) {
		results.pass("Uses project logger")
	}
}

// leadingImportBlock returns the import lines found before the first
// top-level statement following an import.
func leadingImportBlock(content string) []string {
	var importLines []string

	inImports := false

	for _, line := range strings.Split(content, "\n") {
		if hasAnyPrefix(line, importStatementPrefix) {
			inImports = true
			importLines = append(importLines, line)

			continue
		}

		if inImports && line != "" {
			first, _ := utf8.DecodeRuneInString(line)
			if !unicode.IsSpace(first) {
				break
			}
		}
	}

	return importLines
}

func indexOfLineContaining(lines []string, markers []string) int {
	for i, line := range lines {
		if containsAny(line, markers) {
			return i
		}
	}

	return -1
}

func containsAny(s string, substrings []string) bool {
	for _, substring := range substrings {
		if strings.Contains(s, substring) {
			return true
		}
	}

	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

// lineAt returns the 1-based line number of the given byte offset.
func lineAt(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}
