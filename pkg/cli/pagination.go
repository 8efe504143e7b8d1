package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// fetchAllPages follows next_page_token until the listing is exhausted and
// returns the merged items found under dataKey. baseQuery is never mutated.
func fetchAllPages(client *Client, method, path string, baseQuery url.Values, dataKey string) ([]interface{}, error) {
	var items []interface{}
	pageToken := ""

	for {
		query := url.Values{}
		for k, vs := range baseQuery {
			query[k] = append([]string(nil), vs...)
		}
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}

		resp, err := client.Do(method, path, query, nil)
		if err != nil {
			return nil, err
		}
		if err := CheckError(resp); err != nil {
			return nil, err
		}
		respBody, err := ReadBody(resp)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		var page map[string]interface{}
		if err := json.Unmarshal(respBody, &page); err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}

		if data, ok := page[dataKey].([]interface{}); ok {
			items = append(items, data...)
		}

		pageToken, _ = page["next_page_token"].(string)
		if pageToken == "" {
			return items, nil
		}
	}
}

// decodePages re-marshals merged page items into a typed slice.
func decodePages(items []interface{}, out interface{}) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse items: %w", err)
	}
	return nil
}
