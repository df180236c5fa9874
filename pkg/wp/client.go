// Package wp is a thin client for the WordPress REST API surface this
// pipeline needs: name-based searches, by-slug existence lookup, and the
// post create/update writes.
package wp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to one WordPress instance using an application password.
type Client struct {
	client   *http.Client
	baseURL  string
	username string
	password string
}

// NewClient creates a client for the given base URL (scheme + host).
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		client:   &http.Client{},
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
	}
}

// User is a CMS author account.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Term is a taxonomy term (tag or category).
type Term struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Media is a media-library item.
type Media struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text"`
}

// Post is the subset of a post record this pipeline reads back.
type Post struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
	Slug   string `json:"slug"`
	Link   string `json:"link"`
}

// FAQEntry is one question/answer pair in the structured-fields repeater.
// Open controls the entry's expand/collapse default in the UI.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Open     bool   `json:"open"`
}

// StructuredFields is the ACF payload attached to every post write.
type StructuredFields struct {
	Description   string     `json:"description"`
	SchemaEnabled bool       `json:"schema_enabled"`
	SchemaJSON    string     `json:"schema_json"`
	FAQ           []FAQEntry `json:"faq,omitempty"`
}

// PostPayload is the write body for create and update calls. Status is
// left empty on updates so the existing status is preserved server-side.
type PostPayload struct {
	Title      string            `json:"title"`
	Status     string            `json:"status,omitempty"`
	Slug       string            `json:"slug,omitempty"`
	Author     int               `json:"author"`
	Content    string            `json:"content"`
	Tags       []int             `json:"tags"`
	Categories []int             `json:"categories"`
	ACF        *StructuredFields `json:"acf,omitempty"`
}

// SearchUsers looks up authors by display name.
func (c *Client) SearchUsers(name string) ([]User, error) {
	var users []User
	err := c.get("/wp-json/wp/v2/users", url.Values{"search": {name}}, &users)
	return users, err
}

// SearchTerms looks up taxonomy terms by name. taxonomy is the REST
// collection name: "tags" or "categories".
func (c *Client) SearchTerms(taxonomy, name string) ([]Term, error) {
	var terms []Term
	err := c.get("/wp-json/wp/v2/"+taxonomy, url.Values{"search": {name}}, &terms)
	return terms, err
}

// SearchMedia looks up media-library items by name.
func (c *Client) SearchMedia(name string) ([]Media, error) {
	var media []Media
	err := c.get("/wp-json/wp/v2/media", url.Values{"search": {name}}, &media)
	return media, err
}

// FindPost checks whether a post already exists, by slug when one is
// known and by title search otherwise. All statuses are considered, not
// just live content. Returns nil when no post matches.
func (c *Client) FindPost(slug, title string) (*Post, error) {
	query := url.Values{"status": {"any"}}
	if slug != "" {
		query.Set("slug", slug)
	} else {
		query.Set("search", title)
	}

	var posts []Post
	if err := c.get("/wp-json/wp/v2/posts", query, &posts); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

// CreatePost creates a new post record.
func (c *Client) CreatePost(payload PostPayload) (*Post, error) {
	post := &Post{}
	if err := c.post("/wp-json/wp/v2/posts", payload, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost updates an existing post record by id.
func (c *Client) UpdatePost(id int, payload PostPayload) (*Post, error) {
	post := &Post{}
	if err := c.post(fmt.Sprintf("/wp-json/wp/v2/posts/%d", id), payload, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (c *Client) get(path string, query url.Values, into interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, into)
}

func (c *Client) post(path string, body, into interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, into)
}

func (c *Client) do(req *http.Request, into interface{}) error {
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s returned status %d: %s", req.Method, req.URL.Path, resp.StatusCode, snippet)
	}

	if into == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}
