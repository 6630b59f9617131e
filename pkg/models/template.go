package models

// FieldType enumerates the input types a template field can declare.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeNumber    FieldType = "number"
	FieldTypeDate      FieldType = "date"
	FieldTypeEmail     FieldType = "email"
	FieldTypeSignature FieldType = "signature"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeSelect    FieldType = "select"
)

// TemplateField describes one fillable field of a template.
type TemplateField struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
}

// Template is an industry document template with its field definitions and
// applicable compliance tags.
type Template struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Fields      []TemplateField `json:"fields"`
	Compliance  []string        `json:"compliance"`
}

// UseCase groups the templates for one workflow within an industry.
type UseCase struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Templates   []Template `json:"templates"`
}

// Industry is a vertical with its signing use cases.
type Industry struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	UseCases []UseCase `json:"use_cases"`
}
