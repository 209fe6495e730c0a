package chms

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/kundihq/kundi/core/editing"
)

type (
	resourcePatch struct {
		Type       string             `json:"type"`
		ID         string             `json:"id"`
		Attributes editing.Attributes `json:"attributes"`
	}

	updateRequest struct {
		Data resourcePatch `json:"data"`
	}
)

// UpdatePerson PATCHes the changed attributes of one person. The retry
// contract and sandbox marker live in do(); a still-failing response comes
// back as the underlying *APIError, unwrapped beyond the context message.
func (c *Client) UpdatePerson(ctx context.Context, id string, attrs editing.Attributes) error {
	body, err := json.Marshal(updateRequest{
		Data: resourcePatch{Type: "Person", ID: id, Attributes: attrs},
	})
	if err != nil {
		return errors.Wrap(err, "encoding person patch")
	}

	resp, err := c.do(ctx, http.MethodPatch, c.baseURL+peopleEndpoint+"/"+id, body)
	if err != nil {
		return errors.Wrap(err, "patching person "+id)
	}
	defer func() { _ = resp.Body.Close() }()
	return checkStatus(resp)
}
