package bizcore

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// The finance wrappers are thin typed callers of the request core, in the
// same shape the rest of the application's domain modules follow.

// ListInvoices returns invoices matching the filter.
func (c *Client) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]Invoice, error) {
	return Request[[]Invoice](ctx, c, http.MethodGet, "/invoices", WithQuery(filter.query()))
}

// GetInvoice returns a single invoice by ID.
func (c *Client) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := Request[Invoice](ctx, c, http.MethodGet, fmt.Sprintf("/invoices/%d", id))
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvoice creates an invoice. As a mutation it is not retried unless
// the caller opts in.
func (c *Client) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*Invoice, error) {
	inv, err := Request[Invoice](ctx, c, http.MethodPost, "/invoices", WithBody(params))
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// AttachInvoiceDocument uploads a file attachment to an invoice.
func (c *Client) AttachInvoiceDocument(ctx context.Context, invoiceID int64, fileName string, content io.Reader) (*Document, error) {
	res, err := c.Upload(ctx, fmt.Sprintf("/invoices/%d/documents", invoiceID), "file", fileName, content, nil)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := decodeResponse(res, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
