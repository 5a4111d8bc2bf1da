package model

import "time"

// RenderedField is one label/value line on a receipt, in display order.
type RenderedField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ReceiptSchool is the static school block merged verbatim onto receipts.
type ReceiptSchool struct {
	Name    string `json:"name"`
	Link    string `json:"link,omitempty"`
	Contact string `json:"contact,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}

// ReceiptConfig is purely presentational: it selects and arranges which
// answers appear on a receipt and must never affect payment validity.
type ReceiptConfig struct {
	IncludeFields []string       `json:"include_fields"`
	IncludeQR     bool           `json:"include_qr"`
	Layout        string         `json:"layout"` // "one" or "two"
	Align         string         `json:"align"`  // "left", "center", "right"
	AccentColor   string         `json:"accent_color,omitempty"`
	School        *ReceiptSchool `json:"school,omitempty"`
}

// Receipt is a derived, regenerable projection of a payment. It is lazily
// materialized and never independently authoritative.
type Receipt struct {
	ID             string          `json:"id"`
	PaymentID      string          `json:"payment_id"`
	ContributorID  string          `json:"contributor_id,omitempty"`
	RenderedFields []RenderedField `json:"rendered_fields"`
	IncludeQR      bool            `json:"include_qr"`
	QRPayload      string          `json:"qr_payload,omitempty"`
	Layout         string          `json:"layout"`
	Align          string          `json:"align"`
	AccentColor    string          `json:"accent_color,omitempty"`
	School         *ReceiptSchool  `json:"school,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
