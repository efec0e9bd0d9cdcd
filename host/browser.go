// ABOUTME: Display that opens the preview viewer page in the user's browser.
// ABOUTME: Maps the preview URI onto the local server's /view route.

package host

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/browser"
)

// BrowserDisplay opens BaseURL + "/view" in the system browser.
type BrowserDisplay struct {
	BaseURL string
	// Open defaults to browser.OpenURL.
	Open func(url string) error
}

// ViewURL returns the viewer address for uri.
func ViewURL(baseURL, uri string, column ViewColumn, title string) string {
	q := url.Values{}
	q.Set("uri", uri)
	q.Set("column", strconv.Itoa(int(column)))
	q.Set("title", title)
	return strings.TrimSuffix(baseURL, "/") + "/view?" + q.Encode()
}

// Show opens the viewer for uri.
func (b BrowserDisplay) Show(ctx context.Context, uri string, column ViewColumn, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.BaseURL == "" {
		return fmt.Errorf("browser display: no server address")
	}
	open := b.Open
	if open == nil {
		open = browser.OpenURL
	}
	if err := open(ViewURL(b.BaseURL, uri, column, title)); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
