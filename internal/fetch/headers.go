package fetch

import "math/rand"

// acceptLanguage is sent with every request; merchant sites serve the most
// parseable markup to English locales.
const acceptLanguage = "en-US,en;q=0.9"

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// randomUserAgent returns a realistic desktop user agent string.
func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}
