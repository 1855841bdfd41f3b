// Package nominatim implements provider.SearchProvider against an
// OpenStreetMap Nominatim search endpoint.
//
// Requests are bounded to the search region through the viewbox parameter and
// filtered by result category through the layer parameter ("poi" or
// "poi,address"). The client waits on a token-bucket limiter before each
// request, retries rate-limited and 5xx responses with exponential backoff,
// and drops result rows that cannot be located.
package nominatim
