// Package catalog holds the static industry/template catalog and validates
// filled field values against a template's field definitions. The catalog is
// read-only: the workflow engine treats template ids as opaque references
// into it.
package catalog

import (
	"fmt"
	"net/mail"

	"github.com/rafifeedloop/esignature/pkg/models"
)

// FieldError reports a field value that violates its template definition.
type FieldError struct {
	FieldID string
	Reason  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.FieldID, e.Reason)
}

// ErrTemplateNotFound is returned by Find for an unknown template id.
var ErrTemplateNotFound = fmt.Errorf("template not found")

// Catalog is the in-memory template catalog.
type Catalog struct {
	industries []models.Industry
	byTemplate map[string]*models.Template
}

// New builds the catalog from the built-in industry data.
func New() *Catalog {
	c := &Catalog{
		industries: industries,
		byTemplate: make(map[string]*models.Template),
	}
	for i := range c.industries {
		for j := range c.industries[i].UseCases {
			uc := &c.industries[i].UseCases[j]
			for k := range uc.Templates {
				tpl := &uc.Templates[k]
				c.byTemplate[tpl.ID] = tpl
			}
		}
	}
	return c
}

// Industries returns all industries with their use cases and templates.
func (c *Catalog) Industries() []models.Industry {
	return c.industries
}

// Templates returns the templates for an industry, optionally narrowed to a
// single use case.
func (c *Catalog) Templates(industryID, useCaseID string) ([]models.Template, error) {
	for _, ind := range c.industries {
		if ind.ID != industryID {
			continue
		}
		if useCaseID == "" {
			var all []models.Template
			for _, uc := range ind.UseCases {
				all = append(all, uc.Templates...)
			}
			return all, nil
		}
		for _, uc := range ind.UseCases {
			if uc.ID == useCaseID {
				return uc.Templates, nil
			}
		}
		return nil, fmt.Errorf("use case %q not found in industry %q", useCaseID, industryID)
	}
	return nil, fmt.Errorf("industry %q not found", industryID)
}

// Find returns the template with the given id.
func (c *Catalog) Find(templateID string) (*models.Template, error) {
	tpl, ok := c.byTemplate[templateID]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return tpl, nil
}

// ValidateFields checks filled values against the template's field
// definitions: required fields must be present and every provided value must
// match its declared type.
func (c *Catalog) ValidateFields(tpl *models.Template, values map[string]any) error {
	for _, f := range tpl.Fields {
		v, ok := values[f.ID]
		if !ok || v == nil || v == "" {
			if f.Required {
				return &FieldError{FieldID: f.ID, Reason: "required field missing"}
			}
			continue
		}
		if err := checkShape(f, v); err != nil {
			return err
		}
	}
	return nil
}

func checkShape(f models.TemplateField, v any) error {
	switch f.Type {
	case models.FieldTypeNumber:
		switch v.(type) {
		case int, int64, float64:
		default:
			return &FieldError{FieldID: f.ID, Reason: "expected a number"}
		}
	case models.FieldTypeCheckbox:
		if _, ok := v.(bool); !ok {
			return &FieldError{FieldID: f.ID, Reason: "expected a boolean"}
		}
	case models.FieldTypeEmail:
		s, ok := v.(string)
		if !ok {
			return &FieldError{FieldID: f.ID, Reason: "expected an email address"}
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return &FieldError{FieldID: f.ID, Reason: fmt.Sprintf("%q is not a valid email address", s)}
		}
	case models.FieldTypeSelect:
		s, ok := v.(string)
		if !ok {
			return &FieldError{FieldID: f.ID, Reason: "expected one of the listed options"}
		}
		for _, opt := range f.Options {
			if s == opt {
				return nil
			}
		}
		return &FieldError{FieldID: f.ID, Reason: fmt.Sprintf("%q is not one of the listed options", s)}
	case models.FieldTypeText, models.FieldTypeDate, models.FieldTypeSignature:
		if _, ok := v.(string); !ok {
			return &FieldError{FieldID: f.ID, Reason: "expected a string"}
		}
	}
	return nil
}
