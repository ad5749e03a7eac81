package e2etest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type Client struct {
	client *http.Client
	url    string
	// secFetchSite is sent as the Sec-Fetch-Site header when set.
	secFetchSite string
}

// NewClient creates an HTTP client that keeps the session cookie between requests and follows redirects.
func NewClient(url string) (*Client, error) {
	return NewClientWithSecFetchSite(url, "")
}

// NewClientWithSecFetchSite creates a client that sends secFetchSite as the Sec-Fetch-Site header on every
// request. Use it to simulate cross-origin browser requests.
func NewClientWithSecFetchSite(url, secFetchSite string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		client:       &http.Client{Jar: jar}, //nolint:exhaustruct // defaults are fine for tests.
		url:          url,
		secFetchSite: secFetchSite,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	for {
		resp, err := c.Get(ctx, urlPath)
		if err == nil {
			if closeErr := resp.Body.Close(); closeErr != nil {
				return fmt.Errorf("close response body: %w", closeErr)
			}
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	req, err := c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request with context: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document. Responses other than 200 OK are errors.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, urlPath)
	if err != nil {
		return nil, fmt.Errorf("client get: %w", err)
	}
	return documentFromResponse(resp)
}

// PostForm posts the url encoded data to urlPath, follows the redirect and returns the final response. The caller
// closes the body.
func (c *Client) PostForm(ctx context.Context, urlPath string, data neturl.Values) (*http.Response, error) {
	req, err := c.newRequestWithContext(ctx, http.MethodPost, urlPath, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("new request with context: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// SubmitForm submits a form in the doc identified with action formActionURLPath and returns the response document.
//
// The form is submitted with its current values like a browser would: inputs with a name and a value, checked
// checkboxes and radios, textareas and selected options. formFields is a map of label text to value that overrides
// the value of the field the label points to.
func (c *Client) SubmitForm(
	ctx context.Context,
	doc *goquery.Document,
	formActionURLPath string,
	formFields map[string]string,
) (*goquery.Document, error) {
	form, err := findForm(doc, formActionURLPath)
	if err != nil {
		return nil, fmt.Errorf("find form: %w", err)
	}

	formData := currentValues(form)
	for labelText, value := range formFields {
		var field *goquery.Selection
		if field, err = fieldForLabel(form, labelText); err != nil {
			return nil, fmt.Errorf("find input for label: %w", err)
		}
		name, exists := field.Attr("name")
		if !exists {
			return nil, fmt.Errorf("input has no name attribute (label: %s, form_action: %s)",
				labelText, formActionURLPath)
		}
		if field.Is("input[type=checkbox]") {
			formData.Add(name, value)
			continue
		}
		formData.Set(name, value)
	}

	resp, err := c.PostForm(ctx, formActionURLPath, formData)
	if err != nil {
		return nil, fmt.Errorf("post form: %w", err)
	}
	return documentFromResponse(resp)
}

// currentValues collects the values a browser would submit for form without user interaction.
func currentValues(form *goquery.Selection) neturl.Values {
	values := neturl.Values{}
	form.Find("input[name]").Each(func(_ int, input *goquery.Selection) {
		name, _ := input.Attr("name")
		value, _ := input.Attr("value")
		switch input.AttrOr("type", "text") {
		case "checkbox", "radio":
			if _, checked := input.Attr("checked"); checked {
				values.Add(name, value)
			}
		case "submit", "button", "reset":
		default:
			values.Add(name, value)
		}
	})
	form.Find("textarea[name]").Each(func(_ int, textarea *goquery.Selection) {
		values.Add(textarea.AttrOr("name", ""), textarea.Text())
	})
	form.Find("select[name]").Each(func(_ int, selectElement *goquery.Selection) {
		name := selectElement.AttrOr("name", "")
		selected := selectElement.Find("option[selected]")
		if selected.Length() == 0 && !isMultipleSelect(selectElement) {
			selected = selectElement.Find("option").First()
		}
		selected.Each(func(_ int, option *goquery.Selection) {
			values.Add(name, option.AttrOr("value", option.Text()))
		})
	})
	return values
}

func documentFromResponse(resp *http.Response) (*goquery.Document, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}
	doc.Url = resp.Request.URL
	return doc, nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.secFetchSite != "" {
		req.Header.Set("Sec-Fetch-Site", c.secFetchSite)
	}
	return req, nil
}
