package megaverse

import (
	"encoding/json"
	"net/http"

	"megaverse-client/shared/errors"
)

// Error bodies are quoted in full up to this many bytes.
const maxBodyExcerpt = 512

// validateResponse maps one upstream exchange onto a parsed payload or a
// typed error. Transient statuses only arrive here once the transport has
// spent its retries, so 429 and 5xx are final verdicts.
func validateResponse(resp *response) (map[string]interface{}, error) {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if len(resp.Body) == 0 {
			return map[string]interface{}{}, nil
		}
		var payload map[string]interface{}
		if err := json.Unmarshal(resp.Body, &payload); err != nil {
			return nil, &errors.AppError{
				Type:       errors.ErrorTypeUnexpectedResponse,
				Message:    "could not parse success body",
				StatusCode: resp.StatusCode,
				Body:       excerpt(resp.Body),
				Attempts:   resp.Attempts,
				Err:        err,
			}
		}
		return payload, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.RateLimited(resp.StatusCode, excerpt(resp.Body), resp.Attempts)

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		if msg := serverMessage(resp.Body); msg != "" {
			return nil, &errors.AppError{
				Type:       errors.ErrorTypeValidation,
				Message:    msg,
				StatusCode: resp.StatusCode,
				Body:       excerpt(resp.Body),
				Attempts:   resp.Attempts,
			}
		}
		return nil, errors.Unexpected(resp.StatusCode, excerpt(resp.Body), resp.Attempts)

	default:
		return nil, errors.Unexpected(resp.StatusCode, excerpt(resp.Body), resp.Attempts)
	}
}

// serverMessage extracts the upstream's error message, when it sent one.
func serverMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	return parsed.Error
}

func excerpt(body []byte) string {
	if len(body) > maxBodyExcerpt {
		return string(body[:maxBodyExcerpt])
	}
	return string(body)
}
