package lightspeed

import (
	"context"
	"net/url"
	"strconv"
)

// collectVersioned walks a version-cursor endpoint: request with `after`,
// advance the cursor to the highest version seen in the page, stop on the
// first empty page. The accumulated-record cap aborts with a warning when a
// misbehaving upstream never returns an empty page.
func collectVersioned[T versioned](ctx context.Context, c *Client, endpoint string, after int64) ([]T, error) {
	var all []T

	for {
		q := url.Values{}
		if after > 0 {
			q.Set("after", strconv.FormatInt(after, 10))
		}

		var env envelope[T]
		if err := c.getJSON(ctx, endpoint, q, &env); err != nil {
			return nil, err
		}
		if len(env.Data) == 0 {
			break
		}
		all = append(all, env.Data...)

		var pageMax int64
		for _, rec := range env.Data {
			if v := rec.RecordVersion(); v > pageMax {
				pageMax = v
			}
		}
		if pageMax == 0 {
			// No versions in the page means the cursor cannot advance.
			break
		}
		after = pageMax

		if len(all) >= c.maxRecords {
			c.logger.Warn("Reached maximum record limit, aborting pagination",
				"endpoint", endpoint,
				"records", len(all),
			)
			break
		}
	}

	c.logger.Info("Fetched records", "endpoint", endpoint, "count", len(all))
	return all, nil
}

// collectPaged walks an offset-paginated endpoint: increment the page number
// until a page comes back shorter than the requested page size.
func collectPaged[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	var all []T

	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("page_size", strconv.Itoa(c.pageSize))

		var env envelope[T]
		if err := c.getJSON(ctx, endpoint, q, &env); err != nil {
			return nil, err
		}
		if len(env.Data) == 0 {
			break
		}
		all = append(all, env.Data...)

		if len(env.Data) < c.pageSize {
			break
		}
		if page >= maxPages {
			c.logger.Warn("Reached maximum page limit, aborting pagination",
				"endpoint", endpoint,
				"pages", page,
			)
			break
		}
	}

	c.logger.Info("Fetched records", "endpoint", endpoint, "count", len(all))
	return all, nil
}
