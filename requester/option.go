package requester

import (
	"net/http"
	"time"

	"github.com/ln-history/lnhistory/parser"
)

// Option configures the requester.
type Option func(s *Service)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) { s.baseURL = baseURL }
}

// WithAPIKey sets the API key directly.
func WithAPIKey(apiKey string) Option {
	return func(s *Service) { s.apiKey = apiKey }
}

// WithAPIKeySecret loads the API key from a scy secret resource, e.g.
// "file:///etc/lnhistory/apikey.enc" with key "blowfish://default".
func WithAPIKeySecret(sourceURL, key string) Option {
	return func(s *Service) {
		s.secretURL = sourceURL
		s.secretKey = key
	}
}

// WithHTTPClient supplies a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout sets the request timeout on the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) { s.client.Timeout = timeout }
}

// WithRegistry sets the parser registry used for snapshot payloads.
func WithRegistry(registry *parser.Registry) Option {
	return func(s *Service) { s.registry = registry }
}
