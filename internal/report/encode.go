package report

import (
	"net/url"
	"strconv"
	"strings"
)

// EncodeURL normalizes the query string of raw. Parameters are decoded,
// blank values dropped, values of a repeated key grouped under its first
// appearance, and everything re-encoded in form style (space as '+').
// The rest of the URL is kept as is.
//
//	EncodeURL(`https://www.google.com/search?q=intitle:"admin" login&hl=`)
//	// https://www.google.com/search?q=intitle%3A%22admin%22+login
func EncodeURL(raw string) string {
	rest, fragment, hasFragment := strings.Cut(raw, "#")
	base, query, _ := strings.Cut(rest, "?")

	var keys []string
	values := make(map[string][]string)
	for _, pair := range strings.Split(query, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || v == "" {
			continue
		}
		k, v = unquotePlus(k), unquotePlus(v)
		if _, seen := values[k]; !seen {
			keys = append(keys, k)
		}
		values[k] = append(values[k], v)
	}

	var encoded []string
	for _, k := range keys {
		for _, v := range values[k] {
			encoded = append(encoded, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}

	out := base
	if len(encoded) > 0 {
		out += "?" + strings.Join(encoded, "&")
	}
	if hasFragment && fragment != "" {
		out += "#" + fragment
	}
	return out
}

// unquotePlus decodes form encoding one escape at a time: '+' becomes a
// space, every valid %XX becomes its byte, and a malformed escape is kept
// literally without affecting its neighbours.
func unquotePlus(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}

	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			buf = append(buf, ' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b, _ := strconv.ParseUint(s[i+1:i+3], 16, 8)
			buf = append(buf, byte(b))
			i += 2
		default:
			buf = append(buf, c)
		}
	}
	return strings.ToValidUTF8(string(buf), "\uFFFD")
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
