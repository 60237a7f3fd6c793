package helpers

import (
	"bytes"
	"text/template"

	"bennypowers.dev/cssvls/internal/color"
	"bennypowers.dev/cssvls/internal/uriutil"
	"bennypowers.dev/cssvls/internal/variables"
)

var variableTemplate = template.Must(template.New("variable").Parse("```css\n" +
	`{{.Name}}: {{.Value}};` + "\n```\n" +
	`{{if .Hex}}
**Color**: ` + "`{{.Hex}}`" + `
{{end}}{{if .Source}}
*Defined in: {{.Source}}*
{{end}}`))

var customMediaTemplate = template.Must(template.New("customMedia").Parse("```css\n" +
	`@custom-media {{.Name}} {{.Value}};` + "\n```\n" +
	`{{if .Source}}
*Defined in: {{.Source}}*
{{end}}`))

type docData struct {
	Name   string
	Value  string
	Hex    string
	Source string
}

// VariableHex returns the display hex of a colored variable, or ""
func VariableHex(v *variables.Variable) string {
	if v == nil || v.Color == nil {
		return ""
	}
	return color.ToDisplay(*v.Color)
}

// RenderVariable renders markdown documentation for a variable
func RenderVariable(v *variables.Variable) (string, error) {
	return render(variableTemplate, docData{
		Name:   v.Name(),
		Value:  v.Value(),
		Hex:    VariableHex(v),
		Source: sourceOf(v.Definition.URI),
	})
}

// RenderCustomMedia renders markdown documentation for a custom media query
func RenderCustomMedia(m *variables.CustomMedia) (string, error) {
	return render(customMediaTemplate, docData{
		Name:   m.Name,
		Value:  m.Params,
		Source: sourceOf(m.Definition.URI),
	})
}

func render(tmpl *template.Template, data docData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sourceOf(uri string) string {
	if uri == "" || uriutil.IsRemote(uri) {
		return uri
	}
	return uriutil.URIToPath(uri)
}
