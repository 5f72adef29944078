// Package testutil provides m3u8 playlist fixtures shared by tests across
// the module.
package testutil

import (
	"fmt"
	"strings"
)

// MasterPlaylist is a two-variant master playlist with relative variant URIs.
const MasterPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-STREAM-INF:BANDWIDTH=5000000,RESOLUTION=1920x1080,CODECS="avc1.64001f,mp4a.40.2"
hls/1080/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2000000,RESOLUTION=1280x720
hls/720/index.m3u8
`

// MediaPlaylist is a media playlist mixing relative and absolute segment
// URIs plus a key directive carrying a URI attribute.
const MediaPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXT-X-KEY:METHOD=AES-128,URI="enc.key",IV=0x1566B
#EXTINF:9.8,
seg1.ts
#EXTINF:9.8,
seg2.ts
#EXTINF:9.8,
https://other-cdn.test/seg3.ts
#EXT-X-ENDLIST
`

// MediaPlaylistN builds a media playlist with n sequential relative segments.
func MediaPlaylistN(n int) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n#EXT-X-VERSION:3\n#EXT-X-TARGETDURATION:10\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "#EXTINF:9.8,\nseg%d.ts\n", i)
	}
	b.WriteString("#EXT-X-ENDLIST\n")
	return b.String()
}
