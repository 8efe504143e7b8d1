package cli

import (
	"fmt"
	"net/url"
	"strings"
)

// validateHostURL accepts a bare http(s) origin: scheme and authority,
// nothing after. Request paths compose against it verbatim.
func validateHostURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("invalid host %q: host URL cannot be empty", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid host %q: %w", raw, err)
	}

	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("invalid host %q: scheme must be http or https", raw)
	case u.Host == "":
		return fmt.Errorf("invalid host %q: missing host", raw)
	case u.Path != "" && u.Path != "/":
		return fmt.Errorf("invalid host %q: host must not include a path", raw)
	case u.RawQuery != "" || u.Fragment != "":
		return fmt.Errorf("invalid host %q: host must not include query or fragment", raw)
	default:
		return nil
	}
}
