package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

var subjects = map[string]string{
	"welcome":            "Welcome to PrintForge",
	"order_confirmation": "Your print order is confirmed",
}

// Render renders a named template into subject, text and html bodies.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	ht, err := htmpl.ParseFS(FS, name+".html.tmpl")
	if err != nil {
		return "", "", "", err
	}
	var hb bytes.Buffer
	if err := ht.Execute(&hb, data); err != nil {
		return "", "", "", err
	}

	tt, err := texttpl.ParseFS(FS, name+".txt.tmpl")
	if err != nil {
		return "", "", "", err
	}
	var tb bytes.Buffer
	if err := tt.Execute(&tb, data); err != nil {
		return "", "", "", err
	}

	return subject, tb.String(), hb.String(), nil
}
