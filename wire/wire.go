// Package wire implements the Wayland wire format: message framing and the
// marshalling of arguments described by proto.Message signatures.
//
// File descriptors never appear in the byte payload. Encode returns them in
// argument order for the transport to send as ancillary data, and Decode
// pulls them from an FDSource in the same order.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bnema/wlclient/proto"
)

// ByteOrder is the host byte order. Wayland connections are always local, so
// the wire uses whatever the host uses.
var ByteOrder binary.ByteOrder = binary.NativeEndian

const (
	// HeaderSize is the size of a message header.
	HeaderSize = 8
	// MaxMessageSize is the largest frame the 16-bit length field can carry
	// while staying 4-byte aligned.
	MaxMessageSize = 1<<16 - 4
)

var (
	ErrShortBuffer  = errors.New("short buffer")
	ErrBadAlignment = errors.New("message size is not 4-byte aligned")
	ErrBadString    = errors.New("malformed string")
	ErrMissingFD    = errors.New("expected file descriptor not received")
	ErrTruncated    = errors.New("argument runs past end of message")
	ErrOversize     = errors.New("message size out of range")
	ErrNullArg      = errors.New("null value in non-nullable argument")
	ErrArgMismatch  = errors.New("argument does not match signature")
	ErrBadNewID     = errors.New("malformed new_id")
	ErrTrailingData = errors.New("trailing bytes after last argument")
)

// Header is the fixed 8-byte prefix of every message.
type Header struct {
	Sender uint32
	Opcode uint16
	Size   uint16
}

// PutHeader writes h into the first HeaderSize bytes of b.
func PutHeader(b []byte, h Header) {
	ByteOrder.PutUint32(b[0:4], h.Sender)
	// Upper 16 bits = size, lower 16 bits = opcode
	ByteOrder.PutUint32(b[4:8], uint32(h.Size)<<16|uint32(h.Opcode))
}

// ParseHeader reads a header from b and validates its size field.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortBuffer
	}
	sizeOpcode := ByteOrder.Uint32(b[4:8])
	h := Header{
		Sender: ByteOrder.Uint32(b[0:4]),
		Opcode: uint16(sizeOpcode),
		Size:   uint16(sizeOpcode >> 16),
	}
	if h.Size < HeaderSize {
		return h, fmt.Errorf("%w: %d", ErrOversize, h.Size)
	}
	if h.Size%4 != 0 {
		return h, fmt.Errorf("%w: %d", ErrBadAlignment, h.Size)
	}
	return h, nil
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

// Size returns the encoded length of a message with the given arguments,
// header included.
func Size(msg *proto.Message, args []Arg) int {
	n := HeaderSize
	for i := range msg.Args {
		desc := &msg.Args[i]
		a := &args[i]
		switch desc.Type {
		case proto.Int, proto.Uint, proto.Fixed, proto.Object:
			n += 4
		case proto.NewID:
			if desc.Dynamic() {
				n += 4 + pad4(len(a.Iface)+1) + 4
			}
			n += 4
		case proto.String:
			n += 4
			if !a.Null {
				n += pad4(len(a.Str) + 1)
			}
		case proto.Array:
			n += 4 + pad4(len(a.Bytes))
		}
	}
	return n
}

// Encode appends the frame for msg sent by sender with the given opcode to
// buf. It returns the extended buffer and the message's file descriptors in
// argument order. On error buf is returned unchanged.
func Encode(buf []byte, sender uint32, opcode uint16, msg *proto.Message, args []Arg) ([]byte, []int, error) {
	if len(args) != len(msg.Args) {
		return buf, nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArgMismatch, msg.Name, len(msg.Args), len(args))
	}
	for i := range msg.Args {
		if err := checkArg(&msg.Args[i], &args[i]); err != nil {
			return buf, nil, fmt.Errorf("%s.%s: %w", msg.Name, msg.Args[i].Name, err)
		}
	}
	size := Size(msg, args)
	if size > MaxMessageSize {
		return buf, nil, fmt.Errorf("%w: %s is %d bytes", ErrOversize, msg.Name, size)
	}

	start := len(buf)
	out := grow(buf, size)
	PutHeader(out[start:], Header{Sender: sender, Opcode: opcode, Size: uint16(size)})
	off := start + HeaderSize

	var fds []int
	for i := range msg.Args {
		desc := &msg.Args[i]
		a := &args[i]
		switch desc.Type {
		case proto.Int, proto.Uint, proto.Fixed, proto.Object:
			ByteOrder.PutUint32(out[off:], a.Value)
			off += 4
		case proto.NewID:
			if desc.Dynamic() {
				off = putString(out, off, a.Iface)
				ByteOrder.PutUint32(out[off:], a.Version)
				off += 4
			}
			ByteOrder.PutUint32(out[off:], a.Value)
			off += 4
		case proto.String:
			if a.Null {
				ByteOrder.PutUint32(out[off:], 0)
				off += 4
			} else {
				off = putString(out, off, a.Str)
			}
		case proto.Array:
			ByteOrder.PutUint32(out[off:], uint32(len(a.Bytes)))
			off += 4
			copy(out[off:], a.Bytes)
			end := off + pad4(len(a.Bytes))
			clear(out[off+len(a.Bytes) : end])
			off = end
		case proto.FD:
			fds = append(fds, a.FD)
		}
	}
	if off-start != size {
		panic(fmt.Sprintf("wire: encoded %d bytes for %s, expected %d", off-start, msg.Name, size))
	}
	return out, fds, nil
}

func grow(buf []byte, n int) []byte {
	if cap(buf)-len(buf) >= n {
		return buf[:len(buf)+n]
	}
	out := make([]byte, len(buf)+n, 2*cap(buf)+n)
	copy(out, buf)
	return out
}

func putString(out []byte, off int, s string) int {
	n := len(s) + 1
	ByteOrder.PutUint32(out[off:], uint32(n))
	off += 4
	copy(out[off:], s)
	end := off + pad4(n)
	clear(out[off+len(s) : end])
	return end
}

func checkArg(desc *proto.Arg, a *Arg) error {
	if a.Type != desc.Type {
		return fmt.Errorf("%w: want %s, got %s", ErrArgMismatch, desc.Type, a.Type)
	}
	switch desc.Type {
	case proto.Object:
		if a.Value == 0 && !desc.Nullable {
			return ErrNullArg
		}
	case proto.NewID:
		if a.Value == 0 {
			return ErrNullArg
		}
		if desc.Dynamic() {
			if a.Iface == "" {
				return fmt.Errorf("%w: empty interface name", ErrBadNewID)
			}
			if err := checkString(a.Iface); err != nil {
				return err
			}
		}
	case proto.String:
		if a.Null {
			if !desc.Nullable {
				return ErrNullArg
			}
			return nil
		}
		return checkString(a.Str)
	case proto.FD:
		if a.FD < 0 {
			return fmt.Errorf("%w: invalid file descriptor %d", ErrArgMismatch, a.FD)
		}
	}
	return nil
}

func checkString(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return fmt.Errorf("%w: embedded NUL", ErrBadString)
		}
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid UTF-8", ErrBadString)
	}
	return nil
}

// FDSource supplies received file descriptors in arrival order.
type FDSource interface {
	NextFD() (int, bool)
}

// Decode parses the body of a message (the bytes following its header)
// against msg. File descriptors are taken from fds. On error, descriptors
// already taken are returned alongside the error so the caller can close
// them.
func Decode(body []byte, msg *proto.Message, fds FDSource) ([]Arg, error) {
	args := make([]Arg, len(msg.Args))
	off := 0
	for i := range msg.Args {
		desc := &msg.Args[i]
		a := &args[i]
		a.Type = desc.Type
		var err error
		switch desc.Type {
		case proto.Int, proto.Uint, proto.Fixed:
			a.Value, off, err = readUint32(body, off)
		case proto.Object:
			a.Value, off, err = readUint32(body, off)
			if err == nil && a.Value == 0 && !desc.Nullable {
				err = ErrNullArg
			}
		case proto.NewID:
			if desc.Dynamic() {
				var null bool
				a.Iface, null, off, err = readString(body, off)
				if err == nil && (null || a.Iface == "") {
					err = fmt.Errorf("%w: empty interface name", ErrBadNewID)
				}
				if err == nil {
					a.Version, off, err = readUint32(body, off)
				}
			}
			if err == nil {
				a.Value, off, err = readUint32(body, off)
			}
			if err == nil && a.Value == 0 {
				err = ErrNullArg
			}
		case proto.String:
			a.Str, a.Null, off, err = readString(body, off)
			if err == nil && a.Null && !desc.Nullable {
				err = ErrNullArg
			}
		case proto.Array:
			a.Bytes, off, err = readArray(body, off)
		case proto.FD:
			fd, ok := fds.NextFD()
			if !ok {
				err = ErrMissingFD
			} else {
				a.FD = fd
			}
		default:
			err = fmt.Errorf("%w: unknown type %s", ErrArgMismatch, desc.Type)
		}
		if err != nil {
			return args[:i], fmt.Errorf("%s.%s: %w", msg.Name, desc.Name, err)
		}
	}
	if off != len(body) {
		return args, fmt.Errorf("%s: %w (%d of %d)", msg.Name, ErrTrailingData, off, len(body))
	}
	return args, nil
}

func readUint32(b []byte, off int) (uint32, int, error) {
	if off+4 > len(b) {
		return 0, off, ErrShortBuffer
	}
	return ByteOrder.Uint32(b[off:]), off + 4, nil
}

func readString(b []byte, off int) (string, bool, int, error) {
	n, off, err := readUint32(b, off)
	if err != nil {
		return "", false, off, err
	}
	if n == 0 {
		return "", true, off, nil
	}
	if n > uint32(len(b)-off) {
		return "", false, off, fmt.Errorf("%w: length %d overruns message", ErrBadString, n)
	}
	end := off + pad4(int(n))
	if end > len(b) {
		return "", false, off, ErrTruncated
	}
	raw := b[off : off+int(n)]
	if raw[n-1] != 0 {
		return "", false, off, fmt.Errorf("%w: missing NUL terminator", ErrBadString)
	}
	return string(raw[:n-1]), false, end, nil
}

func readArray(b []byte, off int) ([]byte, int, error) {
	n, off, err := readUint32(b, off)
	if err != nil {
		return nil, off, err
	}
	if n > uint32(len(b)-off) || off+pad4(int(n)) > len(b) {
		return nil, off, fmt.Errorf("%w: array of %d bytes", ErrTruncated, n)
	}
	out := make([]byte, n)
	copy(out, b[off:off+int(n)])
	return out, off + pad4(int(n)), nil
}
