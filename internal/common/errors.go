package common

// ErrorResponse is the JSON body the API sends with non-2xx statuses.
type ErrorResponse struct {
	Message string `json:"message"`
}
