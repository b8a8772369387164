package domain

import "time"

// ClientDocument records one uploaded file for a (client, document type)
// pair. Duplicate uploads for the same type are allowed; display logic picks
// the most recent by UploadedAt.
type ClientDocument struct {
	ID           string
	ClientID     string
	DocumentType DocumentType
	FileKey      string // blob store key
	FileName     string // original filename, for display
	UploadedAt   time.Time
}

// LatestByType reduces docs to at most one document per type, keeping the
// most recently uploaded. Input order does not matter.
func LatestByType(docs []ClientDocument) map[DocumentType]ClientDocument {
	latest := make(map[DocumentType]ClientDocument, len(docs))
	for _, d := range docs {
		if cur, ok := latest[d.DocumentType]; !ok || d.UploadedAt.After(cur.UploadedAt) {
			latest[d.DocumentType] = d
		}
	}
	return latest
}
