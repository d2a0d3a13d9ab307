package shared

import (
	"fmt"
	"net/url"
)

const ActivityPublic = "https://www.w3.org/ns/activitystreams#Public"

const ActivityStreamsContext = "https://www.w3.org/ns/activitystreams"

// Peers also use the compact forms of the public collection.
var publicAliases = map[string]struct{}{
	ActivityPublic: {},
	"as:Public":    {},
	"Public":       {},
}

func IsPublicAddress(addr string) bool {
	_, ok := publicAliases[addr]
	return ok
}

func GetHostName(userUrl string) (string, error) {
	var parsedUrl *url.URL
	var urlError error
	parsedUrl, urlError = url.Parse(userUrl)
	if urlError != nil {
		return "", fmt.Errorf("Failed to parse user URL '%s': %v", userUrl, urlError)
	}
	if parsedUrl.Host == "" {
		return "", fmt.Errorf("URL has no host: '%s'", userUrl)
	}
	return parsedUrl.Host, nil
}
