package provider

import (
	"net/url"
	"strings"
)

// BearerToken extracts the Authorization bearer token, empty if absent.
func BearerToken(req *Request) string {
	if token, ok := strings.CutPrefix(req.Header("Authorization"), "Bearer "); ok {
		return token
	}

	return ""
}

// CookieValue extracts a cookie value from the flattened Cookie header.
func CookieValue(req *Request, name string) string {
	for _, part := range strings.Split(req.Header("Cookie"), ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && k == name {
			return v
		}
	}

	return ""
}

// RoutePath returns the request URL's path relative to basePath.
func RoutePath(req *Request, basePath string) (string, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return "", err
	}

	path := u.Path
	if basePath != "" {
		path = strings.TrimPrefix(path, basePath)
	}

	if path == "" {
		path = "/"
	}

	return path, nil
}
