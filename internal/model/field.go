package model

import "strings"

// FieldType is the closed set of form field kinds an organizer can author.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldNumber      FieldType = "number"
	FieldEmail       FieldType = "email"
	FieldTel         FieldType = "tel"
	FieldSelect      FieldType = "select"
	FieldRadio       FieldType = "radio"
	FieldCheckbox    FieldType = "checkbox"
	FieldFile        FieldType = "file"
	FieldImage       FieldType = "image"
	FieldConditional FieldType = "conditional"
)

// Condition ties a field's visibility to another field's answer.
type Condition struct {
	FieldID string `json:"field_id"`
	Value   string `json:"value"`
}

// FieldDef is one schema entry in an event's contribution form.
type FieldDef struct {
	ID           string     `json:"id"`
	EventID      string     `json:"event_id,omitempty"`
	Label        string     `json:"label"`
	Type         FieldType  `json:"type"`
	Required     bool       `json:"required"`
	ReadOnly     bool       `json:"read_only"`
	Options      []string   `json:"options,omitempty"`
	Min          *float64   `json:"min,omitempty"`
	Max          *float64   `json:"max,omitempty"`
	DefaultValue string     `json:"default_value,omitempty"`
	Condition    *Condition `json:"condition,omitempty"`
	SortOrder    int        `json:"sort_order"`
}

// System-managed field ids derived from the event's payment methods.
const (
	FieldIDPaymentAmount = "payment_amount"
	FieldIDPhoneMomo     = "phone_momo"
	FieldIDPhoneOM       = "phone_om"
)

// IsSystemManaged reports whether the field is payment-derived and therefore
// regenerated whenever the event's payment-method set changes. Such fields are
// never user-deletable.
func (f *FieldDef) IsSystemManaged() bool {
	return strings.HasPrefix(f.ID, "payment_") || strings.HasPrefix(f.ID, "phone_")
}

// HasOption reports whether v is one of the field's enumerable options.
func (f *FieldDef) HasOption(v string) bool {
	for _, o := range f.Options {
		if o == v {
			return true
		}
	}
	return false
}

// AnswerSet maps FieldDef.ID to the contributor's raw answer. File and image
// answers carry the blob URL. Request-scoped; stored verbatim on a Payment.
type AnswerSet map[string]string
