package model

// Citation links part of an answer back to a source chunk. Citations are
// derived fresh on every answer and stored only as part of the owning message.
type Citation struct {
	Document string `json:"document"`
	Page     int    `json:"page,omitempty"`
	Preview  string `json:"preview"`
}
