// Utilities for parsing cURL commands copied from browser devtools.
package shared

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRegex = regexp.MustCompile(`(?:-H|--header)\s+(?:'([^']+)'|"([^"]+)")`)
	curlURLRegex    = regexp.MustCompile(`(?:'|"|\s|^)(https?://[^\s'"]+)`)
)

// CurlRequest is the subset of a cURL command needed to recover API credentials.
type CurlRequest struct {
	URL     string
	Headers map[string]string
}

// CurlCredentials are the values recovered from a watchlist request.
type CurlCredentials struct {
	Token   string
	UserID  string
	BaseURL string
}

// ParseCurlFile reads a .sh file containing a cURL command.
func ParseCurlFile(filepath string) (*CurlRequest, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand extracts the request URL and headers from a cURL command.
//
// Header names are canonicalized to lower case.
func ParseCurlCommand(data []byte) (*CurlRequest, error) {
	cmd := strings.ReplaceAll(string(data), "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\", "")

	headers := make(map[string]string)
	for _, match := range curlHeaderRegex.FindAllStringSubmatch(cmd, -1) {
		line := match[1]
		if line == "" {
			line = match[2]
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	var rawURL string
	if m := curlURLRegex.FindStringSubmatch(cmd); m != nil {
		rawURL = m[1]
	}

	if rawURL == "" && len(headers) == 0 {
		return nil, fmt.Errorf("%w: no URL or headers found in curl command", ErrInvalidInput)
	}

	return &CurlRequest{URL: rawURL, Headers: headers}, nil
}

// Credentials recovers the bearer token, user id and API base URL.
//
// The URL must address a watchlist route: /watchlist/{userId} or /watchlist/{movieId}/{userId}.
func (c *CurlRequest) Credentials() (*CurlCredentials, error) {
	auth := c.Headers["authorization"]
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: no bearer authorization header", ErrInvalidCredentials)
	}

	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid request URL %q", ErrInvalidInput, c.URL)
	}

	base, rest, ok := strings.Cut(u.Path, "/watchlist/")
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a watchlist request", ErrInvalidInput, u.Path)
	}

	segments := strings.Split(strings.Trim(rest, "/"), "/")
	userID := segments[len(segments)-1]
	if userID == "" || len(segments) > 2 {
		return nil, fmt.Errorf("%w: no user id in %q", ErrInvalidInput, u.Path)
	}

	return &CurlCredentials{
		Token:   strings.TrimSpace(token),
		UserID:  userID,
		BaseURL: u.Scheme + "://" + u.Host + base,
	}, nil
}
