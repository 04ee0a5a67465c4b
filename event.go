package wlclient

import (
	"strings"

	"github.com/bnema/wlclient/proto"
	"github.com/bnema/wlclient/wire"
)

// Event is a decoded message from the compositor. Object and new_id
// arguments have already been resolved against the object map. Handlers
// may read the arguments by index through Args, or in order with the
// cursor methods Uint32, Int32, Fixed, Str, Array, FD and Object.
type Event struct {
	Proxy   *Proxy
	Opcode  uint16
	Message *proto.Message
	Args    []wire.Arg

	obj     *object
	objects []*object
	next    int
}

// Arg returns the i-th argument, resolving nothing.
func (e *Event) Arg(i int) wire.Arg { return e.Args[i] }

// ObjectAt returns the main proxy of the object carried by the i-th
// argument. It returns nil for a null object and for objects that are
// unknown or already destroyed.
func (e *Event) ObjectAt(i int) *Proxy {
	if i >= len(e.objects) || e.objects[i] == nil {
		return nil
	}
	return e.objects[i].main
}

func (e *Event) advance() (int, bool) {
	if e.next >= len(e.Args) {
		return 0, false
	}
	i := e.next
	e.next++
	return i, true
}

// Uint32 reads the next argument as an unsigned integer
func (e *Event) Uint32() uint32 {
	i, ok := e.advance()
	if !ok {
		return 0
	}
	return e.Args[i].Uint()
}

// Int32 reads the next argument as a signed integer
func (e *Event) Int32() int32 {
	i, ok := e.advance()
	if !ok {
		return 0
	}
	return e.Args[i].Int()
}

// Fixed reads the next argument as a fixed-point number
func (e *Event) Fixed() wire.Fixed {
	i, ok := e.advance()
	if !ok {
		return 0
	}
	return e.Args[i].Fixed()
}

// Str reads the next argument as a string. A null string reads as "".
func (e *Event) Str() string {
	i, ok := e.advance()
	if !ok {
		return ""
	}
	return e.Args[i].Str
}

// OptStr reads the next argument as a nullable string.
func (e *Event) OptStr() *string {
	i, ok := e.advance()
	if !ok {
		return nil
	}
	return e.Args[i].OptString()
}

// Array reads the next argument as a byte array
func (e *Event) Array() []byte {
	i, ok := e.advance()
	if !ok {
		return nil
	}
	return e.Args[i].Bytes
}

// FD reads the next argument as a file descriptor. The handler owns it and
// must close it.
func (e *Event) FD() int {
	i, ok := e.advance()
	if !ok {
		return -1
	}
	return e.Args[i].FD
}

// Object reads the next object or new_id argument.
func (e *Event) Object() *Proxy {
	i, ok := e.advance()
	if !ok {
		return nil
	}
	return e.ObjectAt(i)
}

func (e *Event) String() string {
	var b strings.Builder
	b.WriteString(e.Proxy.String())
	b.WriteByte('.')
	b.WriteString(e.Message.Name)
	b.WriteByte('(')
	for i, a := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatArg(&e.Message.Args[i], a, e.objects[i]))
	}
	b.WriteByte(')')
	return b.String()
}

// closeFDs releases descriptors carried by an event nobody will handle.
func (e *Event) closeFDs() {
	closeArgFDs(e.Args)
}
