package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/generation"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
)

type generationAPI struct{ c *Client }

var _ generation.API = generationAPI{}

func (c *Client) Generation() generation.API { return generationAPI{c: c} }

// ErrNoTaskID is returned when the backend accepts a generation request
// without naming the task to poll.
var ErrNoTaskID = errors.New("generate: response has no task_id")

type submitRequest struct {
	URL string `json:"url"`
}

type submitResponse struct {
	TaskID generation.TaskID `json:"task_id"`
}

func (g generationAPI) Submit(ctx context.Context, u string) (generation.TaskID, error) {
	var out submitResponse
	if err := g.c.doJSON(ctx, http.MethodPost, routes.Generate, nil, submitRequest{URL: u}, &out); err != nil {
		return "", err
	}
	if out.TaskID == "" {
		return "", ErrNoTaskID
	}
	return out.TaskID, nil
}

func (g generationAPI) Status(ctx context.Context, id generation.TaskID) (generation.Task, error) {
	var t generation.Task
	err := g.c.doJSON(ctx, http.MethodGet, routes.Generate+"/"+url.PathEscape(string(id)), nil, nil, &t)
	return t, err
}
