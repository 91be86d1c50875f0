package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/csvpipe"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
)

var _ csvpipe.Transport = (*Client)(nil)

// ExportCSV fetches the backend-generated CSV. An empty ids means the whole
// view described by filter.
func (c *Client) ExportCSV(ctx context.Context, res csvpipe.Resource, ids []string, filter url.Values) (string, io.ReadCloser, error) {
	q := url.Values{}
	if len(ids) > 0 {
		q.Set(routes.ExportIDsParam, strings.Join(ids, ","))
	} else {
		for k, vs := range filter {
			q[k] = append([]string(nil), vs...)
		}
	}
	resp, err := c.send(ctx, true, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, c.url(routes.Export(res), q), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/csv")
		return req, nil
	})
	if err != nil {
		return "", nil, err
	}
	return attachmentName(resp.Header.Get("Content-Disposition"), res.Filename()), resp.Body, nil
}

func attachmentName(cd, fallback string) string {
	if cd == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil || params["filename"] == "" {
		return fallback
	}
	return params["filename"]
}

// ImportCSV uploads the file as one multipart request. It is not retried.
func (c *Client) ImportCSV(ctx context.Context, res csvpipe.Resource, name string, file io.Reader) (csvpipe.ImportSummary, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(routes.ImportFileField, name)
	if err != nil {
		return csvpipe.ImportSummary{}, err
	}
	if _, err := io.Copy(fw, file); err != nil {
		return csvpipe.ImportSummary{}, fmt.Errorf("read %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return csvpipe.ImportSummary{}, err
	}

	resp, err := c.send(ctx, false, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.url(routes.Import(res), nil), bytes.NewReader(buf.Bytes()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req, nil
	})
	if err != nil {
		return csvpipe.ImportSummary{}, err
	}
	defer resp.Body.Close()
	var sum csvpipe.ImportSummary
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		return csvpipe.ImportSummary{}, fmt.Errorf("decode import summary: %w", err)
	}
	return sum, nil
}
