package bizcore

import (
	"context"
	"fmt"
	"net/http"
)

// ListContacts returns CRM contacts matching the filter.
func (c *Client) ListContacts(ctx context.Context, filter ContactFilter) ([]Contact, error) {
	return Request[[]Contact](ctx, c, http.MethodGet, "/contacts", WithQuery(filter.query()))
}

// GetContact returns a single contact by ID.
func (c *Client) GetContact(ctx context.Context, id int64) (*Contact, error) {
	contact, err := Request[Contact](ctx, c, http.MethodGet, fmt.Sprintf("/contacts/%d", id))
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// CreateContact creates a contact.
func (c *Client) CreateContact(ctx context.Context, params CreateContactParams) (*Contact, error) {
	contact, err := Request[Contact](ctx, c, http.MethodPost, "/contacts", WithBody(params))
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// DeleteContact deletes a contact by ID.
func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	_, err := c.Delete(ctx, fmt.Sprintf("/contacts/%d", id))
	return err
}
