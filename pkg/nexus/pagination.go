package nexus

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNoMoreItems is returned by PageIterator.Next once the last page is exhausted.
var ErrNoMoreItems = errors.New("no more items")

// PageGetter fetches a single collection page by absolute URL and returns the
// raw response body. A non-2xx response must surface as a *TransportError.
type PageGetter interface {
	GetPage(ctx context.Context, url string) ([]byte, error)
}

// PageGetterFunc adapts a function to the PageGetter interface.
type PageGetterFunc func(ctx context.Context, url string) ([]byte, error)

// GetPage implements PageGetter.
func (f PageGetterFunc) GetPage(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// PageIterator walks a cursor-paginated collection, yielding result references
// one at a time and crossing page boundaries transparently. Pages are fetched
// lazily, one GET per page, and never revisited. Any page-level failure is
// terminal: the iterator keeps returning the same error and issues no further
// requests.
type PageIterator struct {
	ctx     context.Context
	getter  PageGetter
	nextURL string
	buffer  []ResultRef
	count   int
	err     error
}

// NewPageIterator creates an iterator over the collection rooted at startURL.
func NewPageIterator(ctx context.Context, getter PageGetter, startURL string) *PageIterator {
	return &PageIterator{
		ctx:     ctx,
		getter:  getter,
		nextURL: startURL,
	}
}

// HasNext reports whether another item may be available. It does not issue a
// request: a trailing page that turns out to be empty is discovered by Next.
func (it *PageIterator) HasNext() bool {
	if it.err != nil {
		return false
	}

	return len(it.buffer) > 0 || it.nextURL != ""
}

// Next returns the next result reference in page order. It returns
// ErrNoMoreItems after the final page is exhausted.
func (it *PageIterator) Next() (ResultRef, error) {
	if it.err != nil {
		return ResultRef{}, it.err
	}

	for len(it.buffer) == 0 {
		if it.nextURL == "" {
			return ResultRef{}, ErrNoMoreItems
		}

		err := it.fetchPage()
		if err != nil {
			it.err = err

			return ResultRef{}, err
		}
	}

	ref := it.buffer[0]
	it.buffer = it.buffer[1:]
	it.count++

	return ref, nil
}

// Count returns the number of items yielded so far.
func (it *PageIterator) Count() int {
	return it.count
}

// fetchPage retrieves the current page and advances the cursor.
func (it *PageIterator) fetchPage() error {
	url := it.nextURL
	it.nextURL = ""

	body, err := it.getter.GetPage(it.ctx, url)
	if err != nil {
		return err
	}

	page, err := ParseResultPage(url, body)
	if err != nil {
		return err
	}

	it.buffer = page.Results
	it.nextURL = page.Links.Next

	return nil
}

// ParseResultPage decodes a collection page body, enforcing the presence of
// the 'results' attribute. A payload without it is a protocol violation and
// the raw body is preserved for diagnosis.
func ParseResultPage(url string, body []byte) (*ResultPage, error) {
	var raw map[string]json.RawMessage

	err := json.Unmarshal(body, &raw)
	if err != nil {
		return nil, &ProtocolError{URL: url, Field: "results", Body: body}
	}

	if _, ok := raw["results"]; !ok {
		return nil, &ProtocolError{URL: url, Field: "results", Body: body}
	}

	var page ResultPage

	err = json.Unmarshal(body, &page)
	if err != nil {
		return nil, &ProtocolError{URL: url, Field: "results", Body: body}
	}

	return &page, nil
}
