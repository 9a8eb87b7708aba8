package tunnel

import (
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// Decode takes a partial domain and decodes it to a packet
func Decode(payload string) (*packet, error) {
	payload = strings.ToLower(payload)
	parts := strings.Split(payload, ".")
	if len(parts) < 2 {
		return nil, ERR_PAYLOAD_INCOMPLETE
	}
	lenMarker := parts[len(parts)-1]
	metaLabel := parts[len(parts)-2]
	parts = parts[0 : len(parts)-2]

	if len(lenMarker) < 2 || lenMarker[0] != 'l' {
		return nil, ERR_PAYLOAD_INCOMPLETE
	}
	expected, err := strconv.Atoi(lenMarker[1:])
	if err != nil || expected != (len(payload)-len(lenMarker)-1) {
		return nil, ERR_PAYLOAD_INCOMPLETE
	}

	t, id, n, err := parseMeta(metaLabel)
	if err != nil {
		return nil, err
	}

	for i, p := range parts {
		parts[i], err = idna.ToUnicode(p)
		if err != nil {
			return nil, err
		}
	}

	return newPacket(t, id, n, strings.Join(parts, "")), nil
}
