package tunnel

import (
	"errors"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jpicht/nulldot/lib/nulldot"
)

var (
	ERR_EXISTS        = errors.New("Id already in use")
	ERR_INCOMPLETE    = errors.New("Message is incomplete")
	ERR_NOT_DECLARED  = errors.New("Id not declared")
	ERR_OUT_OF_BOUNDS = errors.New("Sequence number out of bounds")
	ERR_CHECKSUM      = errors.New("Checksum mismatch")
)

type (
	// message represents the transfer state of a single text
	message struct {
		lock      sync.Mutex
		name      string
		count     uint32
		timestamp time.Time
		chunks    map[uint32]string
	}
	// Receiver manages the messages that are currently in transfer and
	// decodes them once complete
	Receiver struct {
		lock     sync.Mutex
		out      string
		codec    *nulldot.Codec
		key      string
		messages map[uint32]*message
	}
)

// NewReceiver creates a receiver writing decoded texts to dir
func NewReceiver(dir string, codec *nulldot.Codec, key string) *Receiver {
	return &Receiver{
		out:      dir,
		codec:    codec,
		key:      key,
		messages: make(map[uint32]*message),
	}
}

// AddMessage registers a new message for transfer
func (r *Receiver) AddMessage(id, count uint32, encodedName string) error {
	name, err := r.codec.Decode(encodedName, r.key)
	if err != nil {
		return err
	}

	r.lock.Lock()
	if m, ok := r.messages[id]; ok {
		if name != m.name || count != m.count {
			r.lock.Unlock()
			log.Infof("Message exists: %08x %s", id, m.name)
			return ERR_EXISTS
		}
		log.Infof("Override message: %08x %s", id, name)
	}

	log.Infof("New message: %08x %s (%d chunks)", id, name, count)
	m := &message{
		name:      name,
		count:     count,
		timestamp: time.Now(),
		chunks:    make(map[uint32]string),
	}
	r.messages[id] = m
	r.lock.Unlock()

	return r.finish(id, m)
}

// AddChunk stores an encoded chunk in the corresponding message
func (r *Receiver) AddChunk(id, seq uint32, encoded string) error {
	r.lock.Lock()
	m, ok := r.messages[id]
	r.lock.Unlock()

	if !ok {
		log.Infof("Chunk for unknown message: %08x", id)
		return ERR_NOT_DECLARED
	}

	if seq >= m.count {
		return ERR_OUT_OF_BOUNDS
	}

	log.Infof("Chunk for message: %08x seq %d", id, seq)
	if err := m.Add(seq, encoded); err != nil {
		return err
	}

	return r.finish(id, m)
}

// finish decodes and stores m once all chunks arrived
func (r *Receiver) finish(id uint32, m *message) error {
	// only the caller removing m from the map writes it
	r.lock.Lock()
	if !m.Complete() || r.messages[id] != m {
		r.lock.Unlock()
		return nil
	}
	delete(r.messages, id)
	r.lock.Unlock()

	text, err := m.Text(r.codec, r.key)
	if err != nil {
		return err
	}

	log.Infof("Message complete: %08x %s %d", id, m.name, len(text))
	if sum := Checksum(text); sum != id {
		log.Infof("Checksum mismatch %08x != %08x", id, sum)
		return ERR_CHECKSUM
	}
	log.Info("Checksum OK")

	return m.ToDisk(id, r.out, text)
}

// Add a chunk to this message
func (m *message) Add(seq uint32, encoded string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.chunks[seq]; ok {
		return ERR_EXISTS
	}

	m.chunks[seq] = encoded

	return nil
}

// Complete checks if this message is transferred completely
func (m *message) Complete() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return uint32(len(m.chunks)) == m.count
}

// seqs returns all sequence numbers in ascending order
func (m *message) seqs() []uint32 {
	seqs := make([]uint32, 0, len(m.chunks))
	for seq := range m.chunks {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	return seqs
}

// Text decodes all chunks in order
func (m *message) Text(codec *nulldot.Codec, key string) (string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if uint32(len(m.chunks)) != m.count {
		return "", ERR_INCOMPLETE
	}

	var b strings.Builder
	for _, seq := range m.seqs() {
		chunk, err := codec.Decode(m.chunks[seq], key)
		if err != nil {
			return "", err
		}
		b.WriteString(chunk)
	}
	return b.String(), nil
}

// ToDisk writes the decoded text to the directory
func (m *message) ToDisk(id uint32, baseDir, text string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	// create a sane file name
	base := path.Base(m.name)
	if base == "/" || base == "." || base == "" {
		base = ""
	} else {
		base = "_" + base
	}
	name := path.Join(baseDir, m.timestamp.Format("20060102T150405")+"_"+strconv.Itoa(int(id))+base+".txt")

	return os.WriteFile(name, []byte(text), 0644)
}
