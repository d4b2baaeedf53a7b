package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessageCarriesContext(t *testing.T) {
	err := Unexpected(503, `{"message":"boom"}`, 4)
	require.Contains(t, err.Error(), "status 503")
	require.Contains(t, err.Error(), "after 4 attempts")

	appErr := Get(err)
	require.NotNil(t, appErr)
	require.Equal(t, 503, appErr.StatusCode)
	require.Equal(t, `{"message":"boom"}`, appErr.Body)
	require.Equal(t, 4, appErr.Attempts)
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := WrapTransport("request failed", 1, cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "connection refused")
}

func TestGetTypeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("painting row 3: %w", Validation("bad coordinates"))
	require.Equal(t, ErrorTypeValidation, GetType(err))
}

func TestGetTypeDefaultsToUnexpected(t *testing.T) {
	require.Equal(t, ErrorTypeUnexpectedResponse, GetType(stderrors.New("mystery")))
	require.Nil(t, Get(stderrors.New("mystery")))
}

func TestConstructorsTagTheRightType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"validation", Validationf("row %d", -1), ErrorTypeValidation},
		{"wrapped validation", WrapValidation("bad body", stderrors.New("x")), ErrorTypeValidation},
		{"transport", WrapTransport("down", 1, stderrors.New("x")), ErrorTypeTransport},
		{"timeout", WrapTimeout("slow", 2, stderrors.New("x")), ErrorTypeTimeout},
		{"rate limited", RateLimited(429, "", 4), ErrorTypeRateLimited},
		{"unexpected", Unexpected(418, "teapot", 1), ErrorTypeUnexpectedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GetType(tt.err))
		})
	}
}
