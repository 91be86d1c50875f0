package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/catalog"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
)

func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	err := c.doJSON(ctx, http.MethodGet, routes.Products, nil, nil, &out)
	return out, err
}

// CreateProduct validates p locally first; an invalid product never reaches
// the network.
func (c *Client) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if err := catalog.Validate(p); err != nil {
		return catalog.Product{}, err
	}
	var out catalog.Product
	err := c.doJSON(ctx, http.MethodPost, routes.Products, nil, p, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, routes.Products+"/"+url.PathEscape(id), nil, nil, nil)
}
