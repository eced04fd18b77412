package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidal-dl-ng/agentcheck/internal/pysource"
)

// ModuleNotFoundError is returned when a dotted module name does not resolve
// to a file of the project.
type ModuleNotFoundError struct {
	Module string
}

func (err ModuleNotFoundError) Error() string {
	return fmt.Sprintf("no module named '%s'", err.Module)
}

// ImportNameError is returned when a module does not bind the imported name.
type ImportNameError struct {
	Name   string
	Module string
	File   string
}

func (err ImportNameError) Error() string {
	return fmt.Sprintf("cannot import name '%s' from '%s' (%s)", err.Name, err.Module, err.File)
}

type loadedModule struct {
	name string
	// isPackage is true for `__init__.py` files.
	isPackage bool
	file      string
	source    *pysource.Module
}

// project resolves and parses the modules of a Python project.
// Parsed modules are cached for the lifetime of the project.
type project struct {
	root    string
	modules map[string]*loadedModule
	errs    map[string]error
}

func newProject(root string) *project {
	return &project{
		root:    root,
		modules: map[string]*loadedModule{},
		errs:    map[string]error{},
	}
}

// resolve returns the file defining the given dotted module name.
func (p *project) resolve(name string) (string, bool, error) {
	if name == "" || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return "", false, ModuleNotFoundError{Module: name}
	}

	base := filepath.Join(append([]string{p.root}, strings.Split(name, ".")...)...)

	if isFile(base + ".py") {
		return base + ".py", false, nil
	}

	if init := filepath.Join(base, "__init__.py"); isFile(init) {
		return init, true, nil
	}

	return "", false, ModuleNotFoundError{Module: name}
}

// load parses a module, along with the packages containing it.
// A module that does not parse can not be imported.
func (p *project) load(ctx context.Context, name string) (*loadedModule, error) {
	if module, ok := p.modules[name]; ok {
		return module, nil
	}

	if err, ok := p.errs[name]; ok {
		return nil, err
	}

	module, err := p.parse(ctx, name)
	if err != nil {
		p.errs[name] = err
		return nil, err
	}

	p.modules[name] = module

	return module, nil
}

func (p *project) parse(ctx context.Context, name string) (*loadedModule, error) {
	// importing a.b.c runs a/__init__.py and a/b/__init__.py first
	if parent, _, found := cutLast(name, "."); found {
		if _, isPackage, err := p.resolve(parent); err == nil && isPackage {
			if _, err := p.load(ctx, parent); err != nil {
				return nil, err
			}
		}
	}

	file, isPackage, err := p.resolve(name)
	if err != nil {
		return nil, err
	}

	source, err := pysource.ParseFile(ctx, file)
	if err != nil {
		return nil, err
	}

	if syntaxErr := source.SyntaxError(); syntaxErr != nil {
		return nil, *syntaxErr
	}

	return &loadedModule{
		name:      name,
		isPackage: isPackage,
		file:      file,
		source:    source,
	}, nil
}

// importName checks that `from <module> import <name>` would succeed.
func (p *project) importName(ctx context.Context, moduleName string, name string) error {
	module, err := p.load(ctx, moduleName)
	if err != nil {
		return err
	}

	if module.source.Binds(name) {
		return nil
	}

	// from a package, submodules can be imported too
	if module.isPackage {
		if _, err := p.load(ctx, moduleName+"."+name); err == nil {
			return nil
		}
	}

	return ImportNameError{Name: name, Module: moduleName, File: module.file}
}

// classRef identifies a class by the module defining it.
type classRef struct {
	module string
	name   string
}

func (ref classRef) String() string {
	return ref.module + "." + ref.name
}

// findClass looks up the class bound to a name in a module, following
// `from ... import` statements to the module actually defining it.
func (p *project) findClass(ctx context.Context, moduleName string, name string) (resolvedClass, error) {
	seen := map[classRef]bool{}

	for {
		ref := classRef{module: moduleName, name: name}
		if seen[ref] {
			return resolvedClass{}, fmt.Errorf("circular import of '%s'", ref)
		}

		seen[ref] = true

		module, err := p.load(ctx, moduleName)
		if err != nil {
			return resolvedClass{}, err
		}

		if class, ok := module.source.Class(name); ok {
			return resolvedClass{ref: ref, class: class}, nil
		}

		imported, ok := module.importedAs(name)
		if !ok {
			return resolvedClass{}, fmt.Errorf("class '%s' not found in '%s' (%s)", name, moduleName, module.file)
		}

		moduleName = module.absoluteModule(imported)
		name = imported.Name
	}
}

// resolvedClass is a class found in the project sources.
type resolvedClass struct {
	ref   classRef
	class pysource.Class
}

// bases returns every resolvable base of a class, depth first. Bases that
// can not be resolved within the project (ie: third-party classes) are ignored.
func (p *project) bases(ctx context.Context, class resolvedClass) []resolvedClass {
	var resolved []resolvedClass

	visited := map[classRef]bool{class.ref: true}

	var visit func(class resolvedClass)
	visit = func(class resolvedClass) {
		for _, base := range class.class.Bases {
			if strings.ContainsAny(base, ".([") {
				continue
			}

			found, err := p.findClass(ctx, class.ref.module, base)
			if err != nil || visited[found.ref] {
				continue
			}

			visited[found.ref] = true
			resolved = append(resolved, found)

			visit(found)
		}
	}

	visit(class)

	return resolved
}

// hasAttribute reports whether the class or one of its resolvable bases defines the attribute.
func (p *project) hasAttribute(ctx context.Context, class resolvedClass, attribute string) bool {
	if class.class.Defines(attribute) {
		return true
	}

	for _, base := range p.bases(ctx, class) {
		if base.class.Defines(attribute) {
			return true
		}
	}

	return false
}

func (p *project) readFile(file string) (string, error) {
	content, err := os.ReadFile(filepath.Join(p.root, file))
	if err != nil {
		return "", err
	}

	return string(content), nil
}

// importedAs returns the `from ... import` statement binding the given name.
func (module *loadedModule) importedAs(name string) (pysource.Import, bool) {
	for _, imported := range module.source.FromImports() {
		if imported.Name != "" && imported.Name != "*" && imported.BoundName() == name {
			return imported, true
		}
	}

	return pysource.Import{}, false
}

// absoluteModule returns the absolute name of the module a `from` import reads from.
func (module *loadedModule) absoluteModule(imported pysource.Import) string {
	if imported.Level == 0 {
		return imported.Module
	}

	pkg := module.name
	if !module.isPackage {
		pkg, _, _ = cutLast(pkg, ".")
	}

	for range imported.Level - 1 {
		pkg, _, _ = cutLast(pkg, ".")
	}

	if imported.Module == "" {
		return pkg
	}

	if pkg == "" {
		return imported.Module
	}

	return pkg + "." + imported.Module
}

func cutLast(s string, sep string) (string, string, bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return "", s, false
	}

	return s[:i], s[i+len(sep):], true
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}
