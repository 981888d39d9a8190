// Package catalog provides the external book catalog lookup used when a user
// searches for a title to add to their shelf. It wraps the Goodreads XML
// search API. An empty result set is a normal outcome and is returned as an
// empty slice with a nil error; ErrUnavailable covers transport and decode
// failures so callers can tell "no matches" from "catalog down".
package catalog

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bararan/swapandread/internal/model"
)

// ErrUnavailable indicates the catalog service could not be reached or
// returned an unusable response.
var ErrUnavailable = errors.New("catalog service unavailable")

// maxResults caps how many candidates a search returns.
const maxResults = 10

// Config holds catalog client settings
type Config struct {
	BaseURL string
	Key     string
	Timeout time.Duration
}

// Client queries the Goodreads search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
}

// NewClient creates a new catalog client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		key:        cfg.Key,
	}
}

// goodreadsResponse mirrors the subset of the search XML we care about.
type goodreadsResponse struct {
	XMLName xml.Name `xml:"GoodreadsResponse"`
	Search  struct {
		TotalResults int `xml:"total-results"`
		Results      struct {
			Works []goodreadsWork `xml:"work"`
		} `xml:"results"`
	} `xml:"search"`
}

type goodreadsWork struct {
	ID      string `xml:"id"`
	PubYear string `xml:"original_publication_year"`
	Book    struct {
		Title  string `xml:"title"`
		Author struct {
			Name string `xml:"name"`
		} `xml:"author"`
		ImageURL string `xml:"image_url"`
	} `xml:"best_book"`
}

// Search looks up candidate books by title, capped at 10 results.
func (c *Client) Search(ctx context.Context, title string) ([]model.CatalogResult, error) {
	q := url.Values{}
	q.Set("key", c.key)
	q.Set("q", title)
	endpoint := fmt.Sprintf("%s/search/index.xml?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed goodreadsResponse
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}

	if parsed.Search.TotalResults == 0 {
		return []model.CatalogResult{}, nil
	}

	works := parsed.Search.Results.Works
	if len(works) > maxResults {
		works = works[:maxResults]
	}

	results := make([]model.CatalogResult, 0, len(works))
	for _, w := range works {
		results = append(results, model.CatalogResult{
			ID:      w.ID,
			Title:   w.Book.Title,
			Author:  w.Book.Author.Name,
			PubYear: w.PubYear,
			ImgURL:  w.Book.ImageURL,
		})
	}

	return results, nil
}
