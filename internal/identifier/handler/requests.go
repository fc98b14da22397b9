package handler

// AddIDRequest is the HTTP request body for POST /addid.
// ID is left untyped so a non-string value is a format error, not a decode error.
type AddIDRequest struct {
	ID any `json:"id"`
}

// Candidate returns the submitted id, or "" when it was absent or not a string.
func (r *AddIDRequest) Candidate() string {
	if r == nil {
		return ""
	}
	s, _ := r.ID.(string)
	return s
}
