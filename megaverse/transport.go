package megaverse

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"time"

	"megaverse-client/shared/config"
	"megaverse-client/shared/errors"
)

// Responses are read fully but never trusted to be small.
const maxResponseBody = 64 << 10

// response is the ephemeral result of one exchange, including how many
// attempts it took to obtain.
type response struct {
	StatusCode int
	Body       []byte
	Attempts   int
}

// transport sends request descriptors and owns the retry loop. Transient
// failures (timeouts, 5xx, 429) are retried with capped exponential
// backoff; everything else surfaces immediately.
type transport struct {
	http   *http.Client
	retry  config.RetryConfig
	logger *slog.Logger
}

func newTransport(timeout time.Duration, retry config.RetryConfig, logger *slog.Logger) *transport {
	return &transport{
		http:   &http.Client{Timeout: timeout},
		retry:  retry,
		logger: logger,
	}
}

func (t *transport) do(ctx context.Context, req *request) (*response, error) {
	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, errors.WrapValidation("could not encode request body", err)
		}
	}

	logger := t.logger.With("component", "transport", "method", req.Method, "url", req.URL)

	attempts := 0
	for {
		attempts++

		resp, err := t.send(ctx, req, payload)
		if err != nil {
			if ctx.Err() != nil {
				// The caller's deadline ends the loop regardless of what
				// the attempt was doing.
				return nil, errors.WrapTimeout("request aborted", attempts, err)
			}
			if !isTimeout(err) {
				return nil, errors.WrapTransport("request failed", attempts, err)
			}
		} else if !isTransientStatus(resp.StatusCode) {
			resp.Attempts = attempts
			return resp, nil
		}

		if attempts > t.retry.MaxRetries {
			if err != nil {
				return nil, errors.WrapTimeout("request timed out", attempts, err)
			}
			resp.Attempts = attempts
			return resp, nil
		}

		delay := t.backoff(attempts)
		if err != nil {
			logger.Debug("Retrying after timeout", "attempt", attempts, "delay", delay, "error", err)
		} else {
			logger.Debug("Retrying transient status", "attempt", attempts, "delay", delay, "status", resp.StatusCode)
		}

		select {
		case <-ctx.Done():
			return nil, errors.WrapTimeout("request aborted during backoff", attempts, ctx.Err())
		case <-time.After(delay):
		}
	}
}

func (t *transport) send(ctx context.Context, req *request, payload []byte) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := t.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, err
	}

	return &response{StatusCode: httpResp.StatusCode, Body: data}, nil
}

// backoff doubles the base delay per attempt up to the cap, with jitter so
// synchronized callers do not stampede the upstream.
func (t *transport) backoff(attempt int) time.Duration {
	delay := t.retry.BackoffBase << (attempt - 1)
	if delay <= 0 || delay > t.retry.BackoffCap {
		delay = t.retry.BackoffCap
	}

	half := delay / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

func isTransientStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func isTimeout(err error) bool {
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
