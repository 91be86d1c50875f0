package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/generation"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
)

// Fetcher turns a product page URL into product data. Error texts are shown
// to admins after classification, so they name the cause plainly.
type Fetcher interface {
	Scrape(ctx context.Context, rawURL string) (generation.ProductData, error)
}

type Scraper struct {
	HTTP      *http.Client
	UserAgent string
}

var _ Fetcher = (*Scraper)(nil)

const maxPage = 4 << 20

func (s *Scraper) Scrape(ctx context.Context, rawURL string) (generation.ProductData, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return generation.ProductData{}, fmt.Errorf("url %q is not supported", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return generation.ProductData{}, err
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	req.Header.Set("Accept", "text/html")

	hc := s.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return generation.ProductData{}, fmt.Errorf("fetch %s: %w", u.Host, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return generation.ProductData{}, fmt.Errorf("%s is blocking the request (status %d)", u.Host, resp.StatusCode)
	case resp.StatusCode >= 400:
		return generation.ProductData{}, fmt.Errorf("fetch %s: status %d", u.Host, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return generation.ProductData{}, fmt.Errorf("content type %q is not supported", ct)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPage))
	if err != nil {
		return generation.ProductData{}, fmt.Errorf("parse %s: %w", u.Host, err)
	}
	pd := extract(doc)
	if pd.Name == "" {
		return generation.ProductData{}, fmt.Errorf("no product data found at %s", u.Host)
	}
	pd.SourceURL = u.String()
	if pd.Image != "" {
		if img, err := u.Parse(pd.Image); err == nil {
			pd.Image = img.String()
		}
	}
	return pd, nil
}

var priceRe = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)?`)

func parsePrice(s string) decimal.Decimal {
	m := priceRe.FindString(strings.ReplaceAll(s, " ", ""))
	d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", "."))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// extract reads Open Graph / product meta tags, falling back to <title> and
// the description meta.
func extract(doc *html.Node) generation.ProductData {
	meta := map[string]string{}
	var title string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				var key, content string
				for _, a := range n.Attr {
					switch a.Key {
					case "property", "name", "itemprop":
						key = strings.ToLower(a.Val)
					case "content":
						content = strings.TrimSpace(a.Val)
					}
				}
				if key != "" && content != "" {
					if _, seen := meta[key]; !seen {
						meta[key] = content
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	first := func(keys ...string) string {
		for _, k := range keys {
			if v := meta[k]; v != "" {
				return v
			}
		}
		return ""
	}
	pd := generation.ProductData{
		Name:        first("og:title", "twitter:title"),
		Description: first("og:description", "description", "twitter:description"),
		Image:       first("og:image", "twitter:image"),
		Currency:    first("product:price:currency", "og:price:currency", "pricecurrency"),
		Price:       parsePrice(first("product:price:amount", "og:price:amount", "price")),
	}
	if pd.Name == "" {
		pd.Name = title
	}
	return pd
}
