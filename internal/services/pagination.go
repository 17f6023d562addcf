package services

import (
	"context"

	"github.com/tidwall/gjson"
)

const (
	playlistPageSize = 50
	trackPageSize    = 100
)

// pageFetcher requests one page of a limit/offset listing.
type pageFetcher func(ctx context.Context, limit, offset int) (*Response, error)

// paginate walks a limit/offset listing, passing each item to visit.
//
// It stops after a short page, after a page without an "items" array, or when visit returns false.
func paginate(ctx context.Context, limit int, fetch pageFetcher, visit func(item gjson.Result) bool) error {
	offset := 0
	for {
		resp, err := fetch(ctx, limit, offset)
		if err != nil {
			return err
		}

		items := resp.Get("items")
		if !items.IsArray() {
			return nil
		}

		page := items.Array()
		for _, item := range page {
			if !visit(item) {
				return nil
			}
		}

		if len(page) < limit {
			return nil
		}
		offset += limit
	}
}
