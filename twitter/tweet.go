package twitter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultDomains are the hosts accepted when no platform domains are configured.
var DefaultDomains = []string{"twitter.com", "x.com"}

var defaultValidator = NewURLValidator(DefaultDomains)

// regexp to capture username and ID out of a twitter post URL
var tweetURLPattern = regexp.MustCompile(`^https?://(?:www\.)?(?:twitter|x)\.com/(?P<UserName>[^/]+)/status/(?P<PostID>\d+)`)

// URLValidator checks post URLs against a fixed set of platform domains.
type URLValidator struct {
	pattern *regexp.Regexp
}

func NewURLValidator(domains []string) *URLValidator {
	if len(domains) == 0 {
		domains = DefaultDomains
	}
	quoted := make([]string, 0, len(domains))
	for _, domain := range domains {
		quoted = append(quoted, regexp.QuoteMeta(strings.TrimSpace(domain)))
	}
	// "status" is matched case-sensitively; the analysis service parses it the same way
	pattern := fmt.Sprintf(`^https?://(?:www\.)?(?:%s)/[^/]+/status/\d+`, strings.Join(quoted, "|"))
	return &URLValidator{pattern: regexp.MustCompile(pattern)}
}

func (v *URLValidator) IsValid(candidate string) bool {
	if strings.TrimSpace(candidate) == "" {
		return false
	}
	return v.pattern.MatchString(candidate)
}

// IsValidPostURL reports whether candidate is a twitter.com or x.com status URL.
func IsValidPostURL(candidate string) bool {
	return defaultValidator.IsValid(candidate)
}

func ConstructTweetURL(authorName string, tweetID string) string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s", authorName, tweetID)
}

// Takes in a URL and extracts the UserName and PostID if it's a Twitter/X URL.
// Return value order is UserName followed by PostID, followed by error.
func DeconstructTweetURL(tweetURL string) (string, string, error) {
	matches := tweetURLPattern.FindStringSubmatch(tweetURL)
	if matches == nil {
		return "", "", errors.New("not a tweet URL")
	}
	return matches[1], matches[2], nil
}
