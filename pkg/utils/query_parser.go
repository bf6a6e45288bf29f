package utils

import (
	"net/url"
	"strconv"
)

type Filter struct {
	Limit  int
	Offset int
	Page   int
	Search string
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ParseFilterFromQuery reads pagination and search parameters with safe bounds.
func ParseFilterFromQuery(values url.Values) Filter {
	f := Filter{Limit: defaultLimit, Page: 1}

	if raw := values.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			f.Limit = n
		}
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if raw := values.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			f.Page = n
		}
	}
	f.Offset = (f.Page - 1) * f.Limit

	f.Search = values.Get("search")
	return f
}
