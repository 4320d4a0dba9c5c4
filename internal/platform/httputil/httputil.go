package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "wellspring/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// Untrusted-input rejections collapse into a generic unauthorized envelope so
// callers cannot distinguish why a credential was rejected.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		status := StatusForCode(domainErr.Code)
		response := map[string]string{
			"error": publicCode(domainErr.Code),
		}
		if status != http.StatusUnauthorized && domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		WriteJSON(w, status, response)
		return
	}

	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": string(dErrors.CodeInternal),
	})
}

// StatusForCode translates domain error codes to HTTP status codes.
func StatusForCode(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized,
		dErrors.CodeInvalidAssertion, dErrors.CodeInvalidSignature,
		dErrors.CodeExpiredAssertion, dErrors.CodeAudienceMismatch,
		dErrors.CodeMissingEmail,
		dErrors.CodeMalformedToken, dErrors.CodeExpired:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// publicCode maps rejection codes to the generic envelope the caller sees.
// The precise rejection reason stays in server logs only.
func publicCode(code dErrors.Code) string {
	if StatusForCode(code) == http.StatusUnauthorized {
		return string(dErrors.CodeUnauthorized)
	}
	return string(code)
}
