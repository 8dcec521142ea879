package bizcore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Upload sends content as a multipart file upload, with fields as additional
// plain form fields. It shares the timeout, retry, classification and
// logging machinery of Do, with two differences: the Content-Type carries
// the multipart boundary, and the default retry policy is a single attempt,
// because uploads are POSTs and not assumed idempotent. Pass
// WithRetry(RetryForced()) to opt in.
func (c *Client) Upload(ctx context.Context, endpoint, fieldName, fileName string, content io.Reader, fields map[string]string, opts ...RequestOption) (*Response, error) {
	body, contentType, err := encodeMultipart(fieldName, fileName, content, fields)
	if err != nil {
		return nil, &APIError{
			RawMessage:  fmt.Sprintf("encode multipart body: %v", err),
			URL:         buildURL(c.baseURL, c.namespace, endpoint, nil),
			Category:    CategoryUnknown,
			UserMessage: "Something went wrong. Please try again.",
		}
	}

	opts = append(opts, func(cfg *requestConfig) {
		cfg.rawBody = body
		cfg.contentType = contentType
	})
	return c.Do(ctx, http.MethodPost, endpoint, opts...)
}

// encodeMultipart buffers the whole multipart body up front so a forced
// retry can replay it from the start.
func encodeMultipart(fieldName, fileName string, content io.Reader, fields map[string]string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
