package upstream

import (
	"encoding/json"
	"net/http"
	"strings"

	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// mapError turns a non-2xx backend response into a typed error. The payload
// code wins; the message substrings below only cover backends that send no code.
func mapError(status int, payload []byte) *appErrors.Error {
	var parsed errorPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		parsed.Message = strings.TrimSpace(string(payload))
		if len(parsed.Message) > 256 || strings.HasPrefix(parsed.Message, "<") {
			parsed.Message = ""
		}
	}
	message := parsed.Message
	if message == "" {
		message = parsed.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}

	switch strings.ToUpper(parsed.Code) {
	case appErrors.ErrAlreadyApplied.Code:
		return appErrors.Clone(appErrors.ErrAlreadyApplied, message)
	case appErrors.ErrMinTrainingPeriod.Code:
		return appErrors.Clone(appErrors.ErrMinTrainingPeriod, message)
	case appErrors.ErrSelectionExclusive.Code:
		return appErrors.Clone(appErrors.ErrSelectionExclusive, message)
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "already applied"):
		return appErrors.Clone(appErrors.ErrAlreadyApplied, message)
	case strings.Contains(lower, "8 weeks"):
		return appErrors.Clone(appErrors.ErrMinTrainingPeriod, message)
	case strings.Contains(lower, "one selected position"):
		return appErrors.Clone(appErrors.ErrSelectionExclusive, message)
	}

	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return appErrors.Clone(appErrors.ErrValidation, message)
	case status == http.StatusUnauthorized:
		return appErrors.Clone(appErrors.ErrUnauthorized, message)
	case status == http.StatusForbidden:
		return appErrors.Clone(appErrors.ErrForbidden, message)
	case status == http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, message)
	case status == http.StatusConflict:
		return appErrors.Clone(appErrors.ErrConflict, message)
	case status == http.StatusTooManyRequests:
		return appErrors.Clone(appErrors.ErrTooManyRequests, message)
	case status >= http.StatusInternalServerError:
		return appErrors.Clone(appErrors.ErrUpstream, message)
	default:
		return appErrors.New(appErrors.ErrUpstream.Code, status, message)
	}
}
