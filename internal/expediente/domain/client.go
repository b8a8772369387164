package domain

import "time"

// ClientStatus is the durable lifecycle state of a case file. Intermediate
// portal progress is never stored; it is derived from the side tables.
type ClientStatus string

const (
	StatusPending   ClientStatus = "pending"
	StatusCompleted ClientStatus = "completed"
)

// DocumentType enumerates the document kinds a firm can require from a client.
type DocumentType string

const (
	DocumentINE                  DocumentType = "ine"
	DocumentRFC                  DocumentType = "rfc"
	DocumentActaMatrimonio       DocumentType = "acta_matrimonio"
	DocumentComprobanteDomicilio DocumentType = "comprobante_domicilio"
)

// KnownDocumentTypes lists every recognized document type, in display order.
var KnownDocumentTypes = []DocumentType{
	DocumentINE,
	DocumentRFC,
	DocumentActaMatrimonio,
	DocumentComprobanteDomicilio,
}

// ValidDocumentType reports whether t is a recognized enumerated value.
func ValidDocumentType(t DocumentType) bool {
	for _, known := range KnownDocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Client is one onboarding case file (expediente). The magic-link token is
// the sole bearer credential for the portal flow; once LinkUsed is set the
// token must never authorize another portal action.
//
// Invariant: Status == completed implies LinkUsed and a non-nil CompletedAt.
type Client struct {
	ID                      string
	UserID                  string // owning firm user
	ClientName              string
	CaseName                string
	Status                  ClientStatus
	MagicLinkToken          string
	LinkUsed                bool
	ContractTemplateID      string
	QuestionnaireTemplateID string
	RequiredDocuments       []DocumentType

	// Signature evidence, set by the sign-contract step.
	SignatureData      string
	SignatureTimestamp string // RFC 3339, captured at the instant of signing
	SignatureIP        string
	SignatureHash      string

	CompletedAt *time.Time
	CreatedAt   time.Time
}

// Signed reports whether signature evidence has been recorded.
func (c Client) Signed() bool {
	return c.SignatureData != "" && c.SignatureHash != ""
}
