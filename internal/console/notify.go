package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/client"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/debounce"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/generation"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/lifecycle"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/validation"
)

// Notify turns any failure into one line for the admin. It never panics.
func Notify(err error) string {
	var (
		tf *generation.TaskFailedError
		te *lifecycle.TransitionError
		ae *client.APIError
		ve validation.Errors
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &tf):
		return tf.UserMessage()
	case errors.As(err, &te):
		return transitionMessage(te)
	case errors.As(err, &ve):
		return "Please fix: " + ve.Error()
	case errors.Is(err, orders.ErrTotalsMismatch):
		return "Order data is inconsistent (totals do not add up); contact support."
	case errors.As(err, &ae):
		switch {
		case len(ae.Fields) > 0:
			return "Please fix: " + ae.Fields.Error()
		case ae.Status == http.StatusUnauthorized || ae.Status == http.StatusForbidden:
			return "Not authorized: check the admin token."
		case ae.Status == http.StatusNotFound:
			return "Not found: " + ae.Error()
		case ae.Status >= 500:
			return "The server failed to process the request; try again later."
		}
		return ae.Error()
	case errors.Is(err, debounce.ErrSuperseded):
		return "Search replaced by a newer one."
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	case errors.Is(err, context.DeadlineExceeded):
		return "Timed out waiting for the server."
	}
	return err.Error()
}

func transitionMessage(te *lifecycle.TransitionError) string {
	switch te.Reason {
	case lifecycle.ReasonTerminalState:
		return fmt.Sprintf("Cannot change %s from %s to %s: the record can no longer move there.", te.Kind, te.From, te.To)
	case lifecycle.ReasonUnknownState:
		return fmt.Sprintf("Cannot change %s from %q to %q: unknown value.", te.Kind, te.From, te.To)
	}
	return fmt.Sprintf("Cannot change %s from %s to %s.", te.Kind, te.From, te.To)
}
