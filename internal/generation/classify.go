package generation

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryBlockedBySource   Category = "blocked_by_source"
	CategoryUnsupportedSource Category = "unsupported_source"
	CategoryGeneric           Category = "generic"
)

var patterns = []struct {
	cat  Category
	subs []string
}{
	{CategoryBlockedBySource, []string{"blocking the request", "access denied", "status 403", "captcha"}},
	{CategoryUnsupportedSource, []string{"not supported", "unsupported", "no product data"}},
}

// Classify maps a raw task error to a user-facing category by substring.
func Classify(raw string) Category {
	s := strings.ToLower(raw)
	for _, p := range patterns {
		for _, sub := range p.subs {
			if strings.Contains(s, sub) {
				return p.cat
			}
		}
	}
	return CategoryGeneric
}

func (c Category) Message(raw string) string {
	switch c {
	case CategoryBlockedBySource:
		return "The website is blocking automated requests. Try another product page or enter the details manually."
	case CategoryUnsupportedSource:
		return "This website is not supported for product generation yet."
	default:
		return "Product generation failed: " + raw
	}
}

// TaskFailedError is returned when a task reaches failed. The task is not
// retried; the user has to submit again.
type TaskFailedError struct {
	ID       TaskID
	Category Category
	Raw      string
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %s failed (%s): %s", e.ID, e.Category, e.Raw)
}

func (e *TaskFailedError) UserMessage() string { return e.Category.Message(e.Raw) }
