package markdown

import "strings"

func blockMarkers(name string) (string, string) {
	return "<!-- urworld:" + name + ":start -->", "<!-- urworld:" + name + ":end -->"
}

// UpsertBlock replaces the named generated block in body, appending it when
// absent. Text outside the markers is left untouched.
func UpsertBlock(body, name, generated string) string {
	startMarker, endMarker := blockMarkers(name)
	block := startMarker + "\n" + strings.TrimRight(generated, "\n") + "\n" + endMarker

	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	if start >= 0 && end > start {
		return body[:start] + block + body[end+len(endMarker):]
	}

	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}
