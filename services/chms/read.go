package chms

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kundihq/kundi/core/roster"
)

type (
	personResource struct {
		ID         string        `json:"id"`
		Type       string        `json:"type"`
		Attributes roster.Person `json:"attributes"`
	}

	listResponse struct {
		Data  []personResource `json:"data"`
		Links struct {
			Next null.String `json:"next"`
		} `json:"links"`
		Meta struct {
			TotalCount int `json:"total_count"`
			Count      int `json:"count"`
		} `json:"meta"`
	}
)

// ListPeople pulls the whole people listing, following links.next until the
// API stops handing one out.
func (c *Client) ListPeople(ctx context.Context) ([]roster.Person, error) {
	people := make([]roster.Person, 0)
	next := c.baseURL + peopleEndpoint + "?per_page=" + strconv.Itoa(c.pageSize)

	for next != "" {
		resp, err := c.do(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, errors.Wrap(err, "listing people")
		}
		var page listResponse
		if err = decodeInto(resp, &page); err != nil {
			return nil, errors.Wrap(err, "listing people")
		}
		for _, res := range page.Data {
			p := res.Attributes
			p.ID = res.ID
			people = append(people, p)
		}
		next = page.Links.Next.String
	}
	return people, nil
}
