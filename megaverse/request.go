package megaverse

import (
	"fmt"
	"net/http"
	"strings"

	"megaverse-client/shared/errors"
)

type operation string

const (
	opCreate operation = "create"
	opDelete operation = "delete"
)

// request is the descriptor handed to the transport. It is built once per
// call and discarded after dispatch.
type request struct {
	Method string
	URL    string
	Body   map[string]interface{}
}

// requestBuilder turns logical operations into request descriptors. It is
// pure: validation failures surface before anything reaches the network.
type requestBuilder struct {
	baseURL     string
	candidateID string
}

func newRequestBuilder(baseURL, candidateID string) *requestBuilder {
	return &requestBuilder{
		baseURL:     strings.TrimRight(baseURL, "/"),
		candidateID: candidateID,
	}
}

func (b *requestBuilder) objectRequest(op operation, obj AstralObject, bounds GridBounds) (*request, error) {
	// Deletes address the object by position alone; creates must also
	// carry well-formed kind attributes.
	if op == opDelete {
		if err := obj.validateIdentity(); err != nil {
			return nil, err
		}
	} else if err := obj.Validate(); err != nil {
		return nil, err
	}

	if !bounds.Contains(obj.Row, obj.Column) {
		return nil, errors.Validationf("position (%d, %d) is outside the %dx%d grid",
			obj.Row, obj.Column, bounds.Rows, bounds.Columns)
	}

	body := map[string]interface{}{
		"candidateId": b.candidateID,
		"row":         obj.Row,
		"column":      obj.Column,
	}
	if op == opCreate {
		switch obj.Kind {
		case KindSoloon:
			body["color"] = string(obj.Color)
		case KindCometh:
			body["direction"] = string(obj.Direction)
		}
	}

	method := http.MethodPost
	if op == opDelete {
		method = http.MethodDelete
	}

	return &request{
		Method: method,
		URL:    fmt.Sprintf("%s/%s", b.baseURL, obj.Kind),
		Body:   body,
	}, nil
}

func (b *requestBuilder) goalMapRequest() *request {
	return &request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/map/%s/goal", b.baseURL, b.candidateID),
	}
}
