package search

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit inside a 32-bit OFFSET.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Values is the read side of a query string. url.Values satisfies it and
// MapValues wraps fiber's c.Queries().
type Values interface {
	Get(key string) string
}

type MapValues map[string]string

func (m MapValues) Get(key string) string { return m[key] }

// Page is the requested window; it never feeds the count query.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePage reads page/limit, appending messages to errs for bad input.
// Missing values default to page 1 and defaultLimit; limit is capped at MaxLimit.
func ParsePage(v Values, defaultLimit int, errs *[]string) Page {
	p := Page{Page: 1, Limit: defaultLimit}
	if n, ok := positiveInt(v, "page", errs); ok {
		if n > MaxPage {
			*errs = append(*errs, "page must be at most "+strconv.Itoa(MaxPage))
		} else {
			p.Page = n
		}
	}
	if n, ok := positiveInt(v, "limit", errs); ok {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func positiveInt(v Values, key string, errs *[]string) (int, bool) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		*errs = append(*errs, key+" must be a positive integer")
		return 0, false
	}
	return n, true
}

func optionalInt(v Values, key string, errs *[]string) *int {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, key+" must be a whole number")
		return nil
	}
	return &n
}

func optionalFloat(v Values, key string, errs *[]string) *float64 {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		*errs = append(*errs, key+" must be a non-negative number")
		return nil
	}
	return &f
}

func optionalUint(v Values, key string, errs *[]string) *uint {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		*errs = append(*errs, key+" must be a positive integer")
		return nil
	}
	u := uint(n)
	return &u
}

func oneOf(v Values, key string, allowed []string, errs *[]string) string {
	raw := strings.ToLower(strings.TrimSpace(v.Get(key)))
	if raw == "" {
		return ""
	}
	for _, a := range allowed {
		if raw == a {
			return raw
		}
	}
	*errs = append(*errs, key+" must be one of: "+strings.Join(allowed, ", "))
	return ""
}
