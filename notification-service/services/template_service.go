package services

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"sync"
)

// Known template IDs and the files backing them.
var templateFiles = map[string]string{
	"welcome_verification": "welcome_verification.html",
	"suggestion_resolved":  "suggestion_resolved.html",
}

// TemplateService renders email bodies from HTML templates on disk,
// parsing each file once.
type TemplateService struct {
	dir   string
	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewTemplateService creates a template service reading from the shared template directory
func NewTemplateService() *TemplateService {
	return &TemplateService{
		dir:   "./shared/mail_templates",
		cache: make(map[string]*template.Template),
	}
}

func (ts *TemplateService) load(templateID string) (*template.Template, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if tmpl, ok := ts.cache[templateID]; ok {
		return tmpl, nil
	}

	filename, ok := templateFiles[templateID]
	if !ok {
		return nil, fmt.Errorf("unknown email template: %s", templateID)
	}

	tmpl, err := template.ParseFiles(filepath.Join(ts.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %v", templateID, err)
	}

	ts.cache[templateID] = tmpl
	return tmpl, nil
}

// RenderTemplate renders the template identified by templateID with the given data
func (ts *TemplateService) RenderTemplate(templateID string, data map[string]interface{}) (string, error) {
	tmpl, err := ts.load(templateID)
	if err != nil {
		return "", err
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %v", templateID, err)
	}

	return rendered.String(), nil
}
