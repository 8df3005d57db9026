package membuf

import (
	"fmt"

	"github.com/valyala/fasthttp"
)

const (
	ErrNotFound   Error = "not_found"
	ErrOutOfLimit Error = "out_of_the_limit"
)

type Error string

func (o Error) Error() string {
	return string(o)
}

// Client talks to a membuf server. Adding to an existing key appends to the
// stored value.
type Client interface {
	Add(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
}

type defaultClient struct {
	host   string
	client fasthttp.Client
}

func NewClient(host string) Client {
	return &defaultClient{
		host: host,
	}
}

func (o *defaultClient) Add(key, value []byte) error {
	_, err := o.do(fasthttp.MethodPost, key, value)

	return err
}

func (o *defaultClient) Get(key []byte) ([]byte, error) {
	return o.do(fasthttp.MethodGet, key, nil)
}

func (o *defaultClient) Delete(key []byte) error {
	_, err := o.do(fasthttp.MethodDelete, key, nil)

	return err
}

func (o *defaultClient) do(method string, key, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.Header.SetRequestURI(o.host + "/" + string(key))
	req.Header.SetMethod(method)

	if body != nil {
		req.SetBody(body)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	err := o.client.Do(req, resp)
	if err != nil {
		return nil, err
	}

	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		switch code {
		case fasthttp.StatusNotFound:
			return nil, ErrNotFound
		case fasthttp.StatusInsufficientStorage:
			return nil, ErrOutOfLimit
		}

		return nil, fmt.Errorf("unexpected status code: %d", code)
	}

	// The response is pooled; the body must outlive its release.
	return append([]byte(nil), resp.Body()...), nil
}
