package tunnel

import (
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jpicht/nulldot/lib/nulldot"
	"golang.org/x/net/idna"
)

var (
	ERR_NOT_TEXT      = errors.New("Not UTF-8 text")
	ERR_NAME_TOO_LONG = errors.New("Name too long")
)

const (
	// partLength is the number of runes per label, the punycode of 32
	// symbols stays well below 63 bytes
	partLength = 32

	// payloadRunes bounds the encoded runes of one content message
	payloadRunes = 3 * partLength

	// nameRunes bounds the encoded name of a header message, which has
	// no chunk to carry and gets one more label
	nameRunes = 4 * partLength
)

// Encode packs encoded text and a meta label into a partial domain
func Encode(text, metaLabel string) string {
	runes := []rune(text)
	parts := make([]string, 0, len(runes)/partLength+2)
	for start := 0; start < len(runes); start += partLength {
		end := start + partLength
		if end > len(runes) {
			end = len(runes)
		}
		part, _ := idna.ToASCII(string(runes[start:end]))
		parts = append(parts, part)
	}
	parts = append(parts, metaLabel)

	encoded := strings.Join(parts, ".")
	return encoded + ".l" + strconv.Itoa(len(encoded))
}

// GenHeaderMsg generates a header message, announcing count chunks to the
// server
func GenHeaderMsg(id, count uint32, name string) string {
	return Encode(name, meta(TYPE_HEADER, id, count))
}

// GenContentMsg generates a content message, transporting one chunk
func GenContentMsg(id, seq uint32, text string) string {
	return Encode(text, meta(TYPE_CONTENT, id, seq))
}

// ChunkSize is the number of UTF-16 units one message carries with codec
func ChunkSize(codec *nulldot.Codec) int {
	return payloadRunes / int(codec.Variant().Width+1)
}

// Chunk splits text into pieces of at most size UTF-16 units without
// splitting a rune
func Chunk(text string, size int) []string {
	var (
		chunks []string
		start  int
		units  int
	)
	for i, r := range text {
		n := 1
		if r >= 0x10000 {
			n = 2
		}
		if units+n > size && i > start {
			chunks = append(chunks, text[start:i])
			start, units = i, 0
		}
		units += n
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}
	return chunks
}

// Checksum is the message id of text
func Checksum(text string) uint32 {
	return crc32.ChecksumIEEE([]byte(text)) & 0x7fffffff
}

// EncodeText transforms text into a series of messages
func EncodeText(codec *nulldot.Codec, key, name, text string) (chan string, error) {
	size := ChunkSize(codec)
	id := Checksum(text)

	encodedName, err := codec.EncodeString(name, key)
	if err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(encodedName); n > nameRunes {
		return nil, fmt.Errorf("%w: %q needs %d of %d symbols", ERR_NAME_TOO_LONG, name, n, nameRunes)
	}

	chunks := Chunk(text, size)
	msgs := make([]string, 0, len(chunks)+1)
	msgs = append(msgs, GenHeaderMsg(id, uint32(len(chunks)), encodedName))
	for i, chunk := range chunks {
		encoded, err := codec.EncodeString(chunk, key)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, GenContentMsg(id, uint32(i), encoded))
	}

	c := make(chan string)
	go func(c chan<- string, msgs []string) {
		defer close(c)
		for _, msg := range msgs {
			c <- msg
		}
	}(c, msgs)
	return c, nil
}

// EncodeFile transforms a file into a series of messages
func EncodeFile(codec *nulldot.Codec, key, filePath string) (chan string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, ERR_NOT_TEXT
	}
	return EncodeText(codec, key, path.Base(filePath), string(data))
}
