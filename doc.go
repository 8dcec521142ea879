// Package bizcore provides the resilient API client core for the BizCore
// business-management backend. Every domain wrapper (finance, CRM, HR,
// inventory, support, purchasing) funnels through this one request layer,
// which owns URL construction, timeout enforcement, retry/backoff policy,
// error classification, redacted structured logging and authentication-
// failure broadcasting.
//
// Basic usage:
//
//	client, err := bizcore.New("https://erp.example.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := client.SignIn(ctx, token); err != nil {
//	    log.Fatal(err)
//	}
//
//	invoices, err := client.ListInvoices(ctx, bizcore.InvoiceFilter{Status: "open"})
//	if errors.Is(err, bizcore.ErrUnauthorized) {
//	    // credential was cleared; redirect to sign-in
//	}
//
// Idempotent requests (GET, HEAD, OPTIONS) retry transparently with
// deterministic exponential backoff; mutations are never retried unless the
// caller opts in with WithRetry(RetryForced()) or a custom RetryConfig, so
// the client never silently double-submits a write.
package bizcore
