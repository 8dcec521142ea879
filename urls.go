package bizcore

import (
	"net/url"
	"strings"
)

// defaultNamespace is the fixed API prefix inserted between the base URL and
// relative endpoint paths.
const defaultNamespace = "/api"

// buildURL produces the fully-qualified request URL. Absolute endpoints pass
// through untouched; relative ones are prefixed with the base address and the
// namespace unless already namespaced. Query parameters with empty values are
// omitted entirely. buildURL never fails: a malformed base degrades to plain
// concatenation, because URL assembly must not be the reason a request dies
// before it starts.
func buildURL(base, namespace, endpoint string, query map[string]string) string {
	full := endpoint
	if !isAbsoluteURL(endpoint) {
		p := endpoint
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		if namespace != "" && p != namespace && !strings.HasPrefix(p, namespace+"/") {
			p = namespace + p
		}
		full = strings.TrimSuffix(base, "/") + p
	}

	qs := encodeQuery(query)
	if qs == "" {
		return full
	}
	sep := "?"
	if strings.Contains(full, "?") {
		sep = "&"
	}
	return full + sep + qs
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// encodeQuery serializes the parameter map, dropping empty keys and values so
// they are never sent as bare "k=".
func encodeQuery(query map[string]string) string {
	if len(query) == 0 {
		return ""
	}
	values := url.Values{}
	for k, v := range query {
		if k == "" || v == "" {
			continue
		}
		values.Set(k, v)
	}
	return values.Encode()
}
