package strava

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	go_json "github.com/goccy/go-json"
)

type APIError struct {
	StatusCode int
	Message    string
	Errors     []FieldError
}

type FieldError struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("strava api: %d %s", e.StatusCode, e.Message)
	}

	details := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		details = append(details, fmt.Sprintf("%s.%s %s", fe.Resource, fe.Field, fe.Code))
	}
	return fmt.Sprintf("strava api: %d %s (%s)", e.StatusCode, e.Message, strings.Join(details, "; "))
}

func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func parseAPIError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	var errResp struct {
		Message string       `json:"message"`
		Errors  []FieldError `json:"errors"`
	}

	if err := go_json.Unmarshal(body, &errResp); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	msg := errResp.Message
	if msg == "" {
		msg = resp.Status
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		Errors:     errResp.Errors,
	}
}
