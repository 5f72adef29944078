package transport

import "github.com/hlsgate/hlsgate/internal/config"

// providerReferers maps known provider names to the Referer their CDNs
// require. The playback surface cannot send these itself, which is the
// reason this subsystem exists.
var providerReferers = map[string]string{
	"gogoanime":  "https://gogoanimehd.io/",
	"animepahe":  "https://animepahe.ru/",
	"zoro":       "https://hianime.to/",
	"nineanime":  "https://9animetv.to/",
	"kickassime": "https://kickassanime.am/",
}

// DefaultHeaders returns the headers a direct fetch from the given
// provider's CDN requires: the provider's Referer (built-in table,
// overridable via config) plus a User-Agent.
func DefaultHeaders(provider string) map[string]string {
	headers := map[string]string{
		"User-Agent": config.GetUserAgent(),
	}

	if referer, ok := providerReferers[provider]; ok {
		headers["Referer"] = referer
	}

	cfg := config.GetConfig()
	if cfg == nil {
		return headers
	}
	if override, ok := cfg.Providers[provider]; ok {
		if override.Referer != "" {
			headers["Referer"] = override.Referer
		}
		if override.UserAgent != "" {
			headers["User-Agent"] = override.UserAgent
		}
	}
	return headers
}
