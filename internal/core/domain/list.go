package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NormalizeList turns any stored representation of a string list into a clean
// []string. Accepted inputs:
//
//	[]string / []any          already structured
//	{"a",b}                   Postgres array literal
//	["a","b"]                 JSON array text
//	a, b                      comma-separated text
//
// Items are trimmed, quote characters removed and empty items dropped.
// NormalizeList(NormalizeList(x)) == NormalizeList(x) for every x.
func NormalizeList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		return cleanItems(val)
	case []any:
		items := make([]string, 0, len(val))
		for _, it := range val {
			if it == nil {
				continue
			}
			items = append(items, fmt.Sprint(it))
		}
		return cleanItems(items)
	case []byte:
		return normalizeText(string(val))
	case string:
		return normalizeText(val)
	default:
		return []string{}
	}
}

func normalizeText(s string) []string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return []string{}
	case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
		return cleanItems(splitArrayLiteral(s[1 : len(s)-1]))
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		var items []string
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			return cleanItems(items)
		}
		return cleanItems(strings.Split(s[1:len(s)-1], ","))
	default:
		return cleanItems(strings.Split(s, ","))
	}
}

// splitArrayLiteral splits the body of a Postgres array literal on commas that
// are not inside double quotes. Backslash escapes are honoured inside quotes.
// Unquoted NULL elements are dropped.
func splitArrayLiteral(body string) []string {
	var (
		items   []string
		cur     strings.Builder
		quoted  bool
		escaped bool
		wasQ    bool
	)
	flush := func() {
		item := cur.String()
		if !wasQ && strings.EqualFold(strings.TrimSpace(item), "NULL") {
			item = ""
		}
		items = append(items, item)
		cur.Reset()
		wasQ = false
	}
	for _, r := range body {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quoted && r == '\\':
			escaped = true
		case r == '"':
			quoted = !quoted
			wasQ = true
		case r == ',' && !quoted:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return items
}

func cleanItems(in []string) []string {
	out := make([]string, 0, len(in))
	for _, it := range in {
		it = strings.TrimSpace(strings.ReplaceAll(it, `"`, ""))
		if it == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}
