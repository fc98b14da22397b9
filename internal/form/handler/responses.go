package handler

// FormStatusResponse is the HTTP response for GET /form-status/{id}.
type FormStatusResponse struct {
	FormExists bool `json:"formExists"`
}
