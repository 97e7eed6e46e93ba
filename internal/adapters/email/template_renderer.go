package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"partnershipintake/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// Each message is three files under templates/: {name}_subject.txt, {name}.html and {name}.txt.
var (
	textTemplates = template.Must(template.New("").ParseFS(templateFS, "templates/*.txt"))
	htmlTemplates = htmltemplate.Must(htmltemplate.New("").ParseFS(templateFS, "templates/*.html"))
)

type templateRenderer struct {
	text *template.Template
	html *htmltemplate.Template
}

// NewTemplateRenderer returns a renderer over the embedded notification templates.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{text: textTemplates, html: htmlTemplates}
}

func (r *templateRenderer) Render(name string, data any) (subject, htmlBody, textBody string, err error) {
	subjectTmpl := r.text.Lookup(name + "_subject.txt")
	htmlTmpl := r.html.Lookup(name + ".html")
	textTmpl := r.text.Lookup(name + ".txt")
	if subjectTmpl == nil || htmlTmpl == nil || textTmpl == nil {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	var buf bytes.Buffer
	if err := subjectTmpl.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	htmlBody = buf.String()

	buf.Reset()
	if err := textTmpl.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	return subject, htmlBody, buf.String(), nil
}
