// Package transform holds the pure functions that turn a tab's URL and title
// into the text that gets copied.
package transform

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Style identifies one of the mutually exclusive copy formats.
type Style string

const (
	StylePlain    Style = "plain-url"
	StyleTitle    Style = "title-url"
	StyleMarkdown Style = "markdown-url"
	StyleBacklog  Style = "backlog-url"
)

// DefaultStyle is used when no style has been stored yet.
const DefaultStyle = StylePlain

// Styles returns every copy style in menu order.
func Styles() []Style {
	return []Style{StylePlain, StyleTitle, StyleMarkdown, StyleBacklog}
}

// ParseStyle reports whether s names a known style.
func ParseStyle(s string) (Style, bool) {
	for _, st := range Styles() {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// trackedDomain is the one retail domain whose query strings are stripped.
const trackedDomain = "amazon.co.jp"

// reservedEscapes are characters whose escapes survive decoding, so that
// decoding never changes how a URL splits into its components.
const reservedEscapes = ";/?:@&=+$,#"

// RemoveTrackingParams returns scheme://host/path for URLs on the tracked
// domain and the input unchanged for every other URL, including those with
// no host (file:, about:, data:, mailto:).
// Returns an error if rawURL does not parse or is relative.
func RemoveTrackingParams(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("parse url: %q is not an absolute URL", rawURL)
	}

	if !isTrackedHost(u.Hostname()) {
		return rawURL, nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return u.Scheme + "://" + originHost(u) + path, nil
}

// originHost returns u.Host without the scheme's default port.
func originHost(u *url.URL) string {
	port := u.Port()
	if (u.Scheme == "https" && port == "443") || (u.Scheme == "http" && port == "80") {
		return strings.TrimSuffix(u.Host, ":"+port)
	}
	return u.Host
}

func isTrackedHost(host string) bool {
	host = strings.ToLower(host)
	return host == trackedDomain || strings.HasSuffix(host, "."+trackedDomain)
}

// DecodePercentEncoding decodes percent-escapes in rawURL. Escapes of
// reserved characters are kept as-is. Multi-byte escapes must form valid
// UTF-8; malformed escapes return an error.
func DecodePercentEncoding(rawURL string) (string, error) {
	if !strings.Contains(rawURL, "%") {
		return rawURL, nil
	}

	var b strings.Builder
	b.Grow(len(rawURL))

	for i := 0; i < len(rawURL); {
		if rawURL[i] != '%' {
			b.WriteByte(rawURL[i])
			i++
			continue
		}

		c, ok := unhexAt(rawURL, i)
		if !ok {
			return "", malformedEscape(rawURL, i)
		}

		if c < utf8.RuneSelf {
			if strings.IndexByte(reservedEscapes, c) >= 0 {
				b.WriteString(rawURL[i : i+3])
			} else {
				b.WriteByte(c)
			}
			i += 3
			continue
		}

		n := sequenceLength(c)
		if n == 0 {
			return "", malformedEscape(rawURL, i)
		}
		seq := make([]byte, 0, n)
		seq = append(seq, c)
		j := i + 3
		for k := 1; k < n; k++ {
			cont, ok := unhexAt(rawURL, j)
			if !ok {
				return "", malformedEscape(rawURL, i)
			}
			seq = append(seq, cont)
			j += 3
		}
		if r, size := utf8.DecodeRune(seq); r == utf8.RuneError || size != n {
			return "", malformedEscape(rawURL, i)
		}
		b.Write(seq)
		i = j
	}

	return b.String(), nil
}

// unhexAt decodes the %XX escape starting at s[i].
func unhexAt(s string, i int) (byte, bool) {
	if i+2 >= len(s) || s[i] != '%' {
		return 0, false
	}
	hi, ok1 := unhex(s[i+1])
	lo, ok2 := unhex(s[i+2])
	if !ok1 || !ok2 {
		return 0, false
	}
	return hi<<4 | lo, true
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// sequenceLength returns the UTF-8 sequence length implied by a lead byte,
// or 0 if c cannot start a sequence.
func sequenceLength(c byte) int {
	switch {
	case c&0xE0 == 0xC0:
		return 2
	case c&0xF0 == 0xE0:
		return 3
	case c&0xF8 == 0xF0:
		return 4
	}
	return 0
}

func malformedEscape(s string, i int) error {
	end := i + 3
	if end > len(s) {
		end = len(s)
	}
	return fmt.Errorf("decode url: malformed escape %q at offset %d", s[i:end], i)
}

// FormatOutput renders a title and URL in the given style.
// Unknown styles fall back to the plain URL.
func FormatOutput(title, rawURL string, style Style) string {
	switch style {
	case StyleTitle:
		return title + " " + rawURL
	case StyleMarkdown:
		return "[" + title + "](" + rawURL + ")"
	case StyleBacklog:
		return "[" + title + ">" + rawURL + "]"
	default:
		return rawURL
	}
}
