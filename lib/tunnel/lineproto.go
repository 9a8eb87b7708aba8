package tunnel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type (
	packet struct {
		t  packetType
		id uint32
		h  *header
		c  *content
	}
	header struct {
		count uint32
		name  string
	}
	content struct {
		seq  uint32
		text string
	}
	packetType byte
)

var (
	ERR_PAYLOAD_INCOMPLETE = errors.New("Payload incomplete")
	ERR_BAD_META           = errors.New("Bad meta label")

	TYPE_CONTENT packetType = 'c'
	TYPE_HEADER  packetType = 'h'
)

// meta renders the label carrying type, id and count or sequence number
func meta(t packetType, id, n uint32) string {
	return fmt.Sprintf("%c%08x-%d", t, id&0x7fffffff, n)
}

// parseMeta is the inverse of meta
func parseMeta(label string) (packetType, uint32, uint32, error) {
	if len(label) < 2 {
		return 0, 0, 0, ERR_BAD_META
	}
	t := packetType(label[0])
	if t != TYPE_HEADER && t != TYPE_CONTENT {
		return 0, 0, 0, ERR_BAD_META
	}
	parts := strings.SplitN(label[1:], "-", 2)
	if len(parts) != 2 {
		return 0, 0, 0, ERR_BAD_META
	}
	id, err := strconv.ParseUint(parts[0], 16, 31)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ERR_BAD_META, err)
	}
	n, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ERR_BAD_META, err)
	}
	return t, uint32(id), uint32(n), nil
}

func newPacket(t packetType, id, n uint32, text string) *packet {
	p := &packet{
		t:  t,
		id: id,
	}
	if p.IsHeader() {
		p.h = &header{
			count: n,
			name:  text,
		}
	} else {
		p.c = &content{
			seq:  n,
			text: text,
		}
	}
	return p
}

func (p *packet) Content() *content {
	return p.c
}

func (p *packet) Header() *header {
	return p.h
}

func (p *packet) Id() uint32 {
	return p.id
}

func (p *packet) IsHeader() bool {
	return p.t == TYPE_HEADER
}

// Name is the still encoded message name
func (h *header) Name() string {
	return h.name
}

// Count is the number of content packets of the message
func (h *header) Count() uint32 {
	return h.count
}

func (c *content) Seq() uint32 {
	return c.seq
}

// Text is the still encoded chunk
func (c *content) Text() string {
	return c.text
}
