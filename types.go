package bizcore

// Invoice mirrors the backend's invoice payload.
type Invoice struct {
	ID         int64  `json:"id"`
	Number     string `json:"number"`
	CustomerID int64  `json:"customer_id"`
	Status     string `json:"status"`
	Currency   string `json:"currency"`
	TotalCents int64  `json:"total_cents"`
	IssuedOn   string `json:"issued_on"`
	DueOn      string `json:"due_on"`
}

// CreateInvoiceParams is the payload for creating an invoice.
type CreateInvoiceParams struct {
	CustomerID int64  `json:"customer_id"`
	Currency   string `json:"currency"`
	TotalCents int64  `json:"total_cents"`
	IssuedOn   string `json:"issued_on"`
	DueOn      string `json:"due_on,omitempty"`
}

// InvoiceFilter narrows ListInvoices results. Zero-valued fields are omitted
// from the query string.
type InvoiceFilter struct {
	Status     string
	CustomerID string
	Page       string
}

func (f InvoiceFilter) query() map[string]string {
	return map[string]string{
		"status":      f.Status,
		"customer_id": f.CustomerID,
		"page":        f.Page,
	}
}

// Document describes an uploaded attachment.
type Document struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

// Contact mirrors the backend's CRM contact payload.
type Contact struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// CreateContactParams is the payload for creating a contact.
type CreateContactParams struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

// ContactFilter narrows ListContacts results.
type ContactFilter struct {
	Search string
	Page   string
}

func (f ContactFilter) query() map[string]string {
	return map[string]string{
		"search": f.Search,
		"page":   f.Page,
	}
}
