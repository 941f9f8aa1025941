package app

import (
	"net/url"
	"strings"
)

func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") != "" {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// dbNameFromURL recovers the database name from either URL form
// (postgres://...) or keyword form (host=... dbname=...), for span naming.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if name := dbNameFromURI(trimmed); name != "" {
		return name
	}
	return dbNameFromKeywordDSN(trimmed)
}

func dbNameFromURI(dsn string) string {
	parsed, err := url.Parse(dsn)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
}

func dbNameFromKeywordDSN(dsn string) string {
	for _, token := range strings.Fields(dsn) {
		value, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name := strings.Trim(strings.TrimSpace(value), `"'`); name != "" {
			return name
		}
	}
	return ""
}
