// Package codegen generates forwarding proxy implementations: for a
// service interface, a type whose methods route through a dispatcher's
// interceptor chain instead of calling the implementation directly.
// It is the compile-time substitute for runtime proxy generation.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/types"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/tools/go/packages"
)

// Param is one method parameter after the leading context.Context.
type Param struct {
	Name string
	Type string
}

// Method is one forwarded method. Every method must take a
// context.Context first and return either error or (T, error).
type Method struct {
	Name       string
	Params     []Param
	ResultType string // empty when the method returns only error
}

// File is the render model for one generated proxy file.
type File struct {
	Package string
	Imports []string
	Service string
	Iface   string
	Proxy   string
	Methods []Method
}

const loadMode = packages.NeedName |
	packages.NeedTypes |
	packages.NeedImports |
	packages.NeedDeps

// LoadInterface loads the named interface from the package matched by
// pattern and builds the render model. outputPackage is the package the
// generated file will live in; types from the interface's own package
// are qualified only when generating into a different package.
func LoadInterface(pattern, ifaceName, outputPackage, proxyName string) (*File, error) {
	cfg := &packages.Config{Mode: loadMode}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("loading package %s: %w", pattern, err)
	}
	if packages.PrintErrors(pkgs) > 0 || len(pkgs) == 0 {
		return nil, fmt.Errorf("package %s did not load cleanly", pattern)
	}
	pkg := pkgs[0]

	obj := pkg.Types.Scope().Lookup(ifaceName)
	if obj == nil {
		return nil, fmt.Errorf("package %s has no type %s", pkg.PkgPath, ifaceName)
	}
	iface, ok := obj.Type().Underlying().(*types.Interface)
	if !ok {
		return nil, fmt.Errorf("%s.%s is not an interface", pkg.PkgPath, ifaceName)
	}

	if outputPackage == "" {
		outputPackage = pkg.Types.Name()
	}
	if proxyName == "" {
		proxyName = ifaceName + "Proxy"
	}
	samePackage := outputPackage == pkg.Types.Name()

	imports := map[string]bool{}
	qualifier := func(p *types.Package) string {
		if samePackage && p == pkg.Types {
			return ""
		}
		imports[p.Path()] = true
		return p.Name()
	}

	file := &File{
		Package: outputPackage,
		Service: ifaceName,
		Proxy:   proxyName,
	}
	if samePackage {
		file.Iface = ifaceName
	} else {
		imports[pkg.PkgPath] = true
		file.Iface = pkg.Types.Name() + "." + ifaceName
	}

	for i := 0; i < iface.NumMethods(); i++ {
		m := iface.Method(i)
		method, err := buildMethod(m, qualifier)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", ifaceName, m.Name(), err)
		}
		file.Methods = append(file.Methods, method)
	}

	for path := range imports {
		file.Imports = append(file.Imports, path)
	}
	sort.Strings(file.Imports)
	return file, nil
}

func buildMethod(m *types.Func, qualifier types.Qualifier) (Method, error) {
	sig, ok := m.Type().(*types.Signature)
	if !ok {
		return Method{}, fmt.Errorf("unexpected method type %T", m.Type())
	}
	if sig.Variadic() {
		return Method{}, fmt.Errorf("variadic methods are not supported")
	}

	params := sig.Params()
	if params.Len() == 0 || params.At(0).Type().String() != "context.Context" {
		return Method{}, fmt.Errorf("first parameter must be context.Context")
	}

	method := Method{Name: m.Name()}
	for i := 1; i < params.Len(); i++ {
		p := params.At(i)
		name := p.Name()
		if name == "" || name == "_" {
			name = fmt.Sprintf("arg%d", i-1)
		}
		method.Params = append(method.Params, Param{
			Name: name,
			Type: types.TypeString(p.Type(), qualifier),
		})
	}

	results := sig.Results()
	switch results.Len() {
	case 1:
		if !isErrorType(results.At(0).Type()) {
			return Method{}, fmt.Errorf("single result must be error")
		}
	case 2:
		if !isErrorType(results.At(1).Type()) {
			return Method{}, fmt.Errorf("second result must be error")
		}
		method.ResultType = types.TypeString(results.At(0).Type(), qualifier)
	default:
		return Method{}, fmt.Errorf("methods must return error or (T, error)")
	}
	return method, nil
}

func isErrorType(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

var proxyTemplate = template.Must(template.New("proxy").Parse(`// Code generated by interceptgen. DO NOT EDIT.

package {{.Package}}

import (
	"context"
{{range .Imports}}
	"{{.}}"
{{- end}}

	"github.com/bergvall/intercept-go/contracts"
	"github.com/bergvall/intercept-go/dispatch"
)

// {{.Proxy}} forwards {{.Service}} calls through an interceptor
// dispatcher.
type {{.Proxy}} struct {
	dispatcher *dispatch.Dispatcher
	target     {{.Iface}}
}

// New{{.Proxy}} wraps target so every call runs its interceptor chain.
func New{{.Proxy}}(dispatcher *dispatch.Dispatcher, target {{.Iface}}) *{{.Proxy}} {
	return &{{.Proxy}}{dispatcher: dispatcher, target: target}
}
{{range .Methods}}
func (p *{{$.Proxy}}) {{.Name}}(ctx context.Context{{range .Params}}, {{.Name}} {{.Type}}{{end}}) {{if .ResultType}}({{.ResultType}}, error){{else}}error{{end}} {
	{{if .ResultType}}res, err{{else}}_, err{{end}} := p.dispatcher.Invoke(ctx, contracts.NewMethodKey("{{$.Service}}", "{{.Name}}"), p.target, []any{ {{- range $i, $p := .Params}}{{if $i}}, {{end}}{{$p.Name}}{{end -}} },
		func(ctx context.Context, target any, args []any) (any, error) {
			{{if .ResultType}}return target.({{$.Iface}}).{{.Name}}(ctx{{range $i, $p := .Params}}, args[{{$i}}].({{$p.Type}}){{end}}){{else}}return nil, target.({{$.Iface}}).{{.Name}}(ctx{{range $i, $p := .Params}}, args[{{$i}}].({{$p.Type}}){{end}}){{end}}
		})
{{- if .ResultType}}
	if err != nil || res == nil {
		var zero {{.ResultType}}
		return zero, err
	}
	return res.({{.ResultType}}), nil
{{- else}}
	return err
{{- end}}
}
{{end}}`))

// Render produces gofmt-formatted source for the proxy file.
func Render(file *File) ([]byte, error) {
	var buf bytes.Buffer
	if err := proxyTemplate.Execute(&buf, file); err != nil {
		return nil, fmt.Errorf("rendering proxy: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated proxy: %w\n%s", err, buf.String())
	}
	return src, nil
}

// Generate loads the interface and renders its proxy in one step.
func Generate(pattern, ifaceName, outputPackage, proxyName string) ([]byte, error) {
	file, err := LoadInterface(pattern, ifaceName, outputPackage, proxyName)
	if err != nil {
		return nil, err
	}
	return Render(file)
}

// SplitInterfacePath splits "pkg/path.Iface" into its package pattern
// and interface name.
func SplitInterfacePath(path string) (string, string, error) {
	idx := strings.LastIndex(path, ".")
	if idx <= 0 || idx == len(path)-1 {
		return "", "", fmt.Errorf("interface path %q is not of the form package/path.Interface", path)
	}
	return path[:idx], path[idx+1:], nil
}
