package fetch

import "strings"

// shellMinBytes is the size below which a response is assumed to be a
// client-rendered shell rather than real content.
const shellMinBytes = 2500

// spaMarkers are root-element fingerprints of common single-page-application
// frameworks. Their presence in a small page means the content arrives via
// JavaScript.
var spaMarkers = []string{
	"__next_data__",
	`id="__next"`,
	"react-root",
	`id="root"></div>`,
	"ng-version",
	`id="app"></div>`,
}

// LooksLikeShell reports whether html is an empty SPA shell that needs
// dynamic rendering before extraction is worthwhile.
func LooksLikeShell(html string) bool {
	if html == "" {
		return true
	}
	low := strings.ToLower(html)
	for _, m := range spaMarkers {
		if strings.Contains(low, m) {
			return true
		}
	}
	return len(html) < shellMinBytes
}
