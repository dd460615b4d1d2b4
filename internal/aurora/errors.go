package aurora

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"
)

// APIError is a failed backend call.  Message is the text meant for the
// user, extracted from whatever error payload shape the endpoint produced.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("aurora api: %d (code %d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("aurora api: %d: %s", e.Status, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Message: ExtractMessage(body)}
	var env struct {
		Code int `json:"code"`
	}
	if json.Unmarshal(body, &env) == nil {
		e.Code = env.Code
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// StatusOf returns the HTTP status of an *APIError in err's chain, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// MessageOf returns the user-facing message of err: the backend's message
// for an *APIError, err.Error() otherwise.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// ExtractMessage pulls a readable message out of an error body.  Known
// shapes, in order of preference: a JSON string, {"message": ...},
// {"error": "..."} or {"error": {"message": ...}}, {"errors": [...]} whose
// items are strings or objects with a message, and {"errors": {field: msg}}.
// Anything else that is not JSON is returned as trimmed text.
func ExtractMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return truncate(text, maxMessageBytes)
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if s := stringField(t, "message"); s != "" {
			return s
		}
		if s := nestedMessage(t["error"]); s != "" {
			return s
		}
		if s := errorsField(t["errors"]); s != "" {
			return s
		}
		return stringField(t, "detail")
	case []any:
		return errorsField(t)
	}
	return ""
}

// maxMessageBytes bounds a plain-text message taken from an error body.
const maxMessageBytes = 300

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func nestedMessage(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if s := stringField(t, "message"); s != "" {
			return s
		}
		return stringField(t, "defaultMessage")
	}
	return ""
}

func errorsField(v any) string {
	var msgs []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := nestedMessage(item); s != "" {
				msgs = append(msgs, s)
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch fv := t[k].(type) {
			case []any:
				for _, item := range fv {
					if s := nestedMessage(item); s != "" {
						msgs = append(msgs, k+": "+s)
					}
				}
			default:
				if s := nestedMessage(fv); s != "" {
					msgs = append(msgs, k+": "+s)
				}
			}
		}
	}
	return strings.Join(Dedupe(msgs), "; ")
}

// Dedupe removes repeated strings, keeping first occurrences in order.
func Dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
