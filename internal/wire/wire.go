// Package wire defines the frame protocol spoken between a parallel loop
// and its worker processes.
//
// A worker reads a stream of gob-encoded [Call] frames on stdin and writes
// one gob-encoded [Reply] frame per call on stdout, in order. Task and
// environment payloads are pre-encoded to bytes by the caller so that the
// frame types stay free of user type parameters; only the two ends that
// know the concrete types ever decode the payloads.
package wire

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
)

// Call is one unit of work sent to a worker process.
type Call struct {
	// Work names a registered work function in the worker's registry.
	Work string
	// Index is the task's position in the caller's input sequence. It is
	// echoed back unchanged in the matching Reply.
	Index int
	// Task is the gob-encoded per-task argument value.
	Task []byte
	// Env is the gob-encoded broadcast environment, empty when none.
	Env []byte
}

// Reply is the outcome of one Call.
type Reply struct {
	Index int
	// Result is the gob-encoded return value, empty on failure.
	Result []byte
	// Err is the failure message, empty on success. Errors lose their
	// concrete type at the process boundary; only the text survives.
	Err string
}

// Encode gob-encodes a payload value for embedding in a frame.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

// Decode gob-decodes a payload produced by [Encode] into v, which must be
// a pointer to the original concrete type.
func Decode(data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}

// Conn carries framed calls and replies over a byte stream pair. It is
// used from both ends: the loop writes calls and reads replies, the worker
// the reverse.
type Conn struct {
	enc *gob.Encoder
	dec *gob.Decoder
}

// NewConn wraps a read/write stream pair in a frame connection.
func NewConn(r io.Reader, w io.Writer) *Conn {
	return &Conn{enc: gob.NewEncoder(w), dec: gob.NewDecoder(r)}
}

// WriteCall sends one call frame.
func (c *Conn) WriteCall(call *Call) error {
	if err := c.enc.Encode(call); err != nil {
		return fmt.Errorf("write call frame: %w", err)
	}
	return nil
}

// ReadCall receives the next call frame. It returns io.EOF once the peer
// closes its end of the stream.
func (c *Conn) ReadCall() (*Call, error) {
	var call Call
	if err := c.dec.Decode(&call); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read call frame: %w", err)
	}
	return &call, nil
}

// WriteReply sends one reply frame.
func (c *Conn) WriteReply(reply *Reply) error {
	if err := c.enc.Encode(reply); err != nil {
		return fmt.Errorf("write reply frame: %w", err)
	}
	return nil
}

// ReadReply receives the next reply frame.
func (c *Conn) ReadReply() (*Reply, error) {
	var reply Reply
	if err := c.dec.Decode(&reply); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read reply frame: %w", err)
	}
	return &reply, nil
}
