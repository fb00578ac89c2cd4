package bridge

import (
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
)

// Kind tags the origin of a request handed to Extract.
type Kind int

const (
	// KindFiber is a request handled by the fiber app.
	KindFiber Kind = iota

	// KindHTTP is a plain net/http request, e.g. when the guard runs
	// behind a net/http adaptor.
	KindHTTP
)

// Source is a tagged union over the supported request representations.
// Exactly the field matching Kind is set.
type Source struct {
	Kind  Kind
	Fiber *fiber.Ctx
	HTTP  *http.Request
}

// Extract converts a source into a provider request using the extraction
// function for its kind.
func Extract(src Source) (*provider.Request, error) {
	switch src.Kind {
	case KindFiber:
		if src.Fiber == nil {
			return nil, ErrNilSource
		}

		return FromFiber(src.Fiber), nil
	case KindHTTP:
		if src.HTTP == nil {
			return nil, ErrNilSource
		}

		return FromHTTP(src.HTTP)
	default:
		return nil, ErrUnknownKind
	}
}

// FromFiber builds a provider request from a fiber context. The URL is
// reconstructed from protocol, host and the original URL; multi-value
// headers are flattened into comma separated strings.
func FromFiber(c *fiber.Ctx) *provider.Request {
	headers := make(map[string]string)

	c.Request().Header.VisitAll(func(key, value []byte) {
		k := string(key)
		v := string(value)

		if prev, ok := headers[k]; ok {
			headers[k] = prev + ", " + v
			return
		}

		headers[k] = v
	})

	req := &provider.Request{
		Method:  c.Method(),
		URL:     c.Protocol() + "://" + c.Hostname() + c.OriginalURL(),
		Headers: headers,
	}

	if body := c.Body(); len(body) > 0 {
		req.Body = string(body)
	}

	return req
}

// FromHTTP builds a provider request from a net/http request.
func FromHTTP(r *http.Request) (*provider.Request, error) {
	headers := make(map[string]string, len(r.Header))
	for k, vals := range r.Header {
		headers[k] = strings.Join(vals, ", ")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	req := &provider.Request{
		Method:  r.Method,
		URL:     scheme + "://" + r.Host + r.URL.RequestURI(),
		Headers: headers,
	}

	if r.Body != nil {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}

		req.Body = string(body)
	}

	return req, nil
}

// WriteResponse mirrors a provider response onto a fiber context: status,
// headers and body pass through untouched.
func WriteResponse(c *fiber.Ctx, resp *provider.Response) error {
	if resp == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	for k, v := range resp.Headers {
		c.Set(k, v)
	}

	status := resp.Status
	if status == 0 {
		status = fiber.StatusOK
	}

	if len(resp.Body) == 0 {
		return c.SendStatus(status)
	}

	return c.Status(status).Send(resp.Body)
}
