package models

import "time"

// UploadTicket is a signed, single-use authorization for uploading an
// image directly to the third-party asset host. The service only
// issues tickets; no file bytes pass through it. A failed upload is
// the client's to report, the ticket simply expires.
type UploadTicket struct {
	Token     string    `json:"token"`
	UploadURL string    `json:"upload_url"`
	Signature string    `json:"signature"`
	ExpiresAt time.Time `json:"expires_at"`
}
