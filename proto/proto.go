// Package proto describes Wayland protocols as plain data.
//
// The records in this package are produced by the wlgen code generator from
// protocol XML files and consumed by the wire codec and the client runtime.
// They are immutable once registered and safe to share between goroutines.
package proto

import (
	"fmt"
	"strings"
	"sync"
)

// ArgType is the wire type of a message argument.
type ArgType uint8

const (
	Int ArgType = iota + 1
	Uint
	Fixed
	String
	Object
	NewID
	Array
	FD
)

var argTypeNames = [...]string{
	Int:    "int",
	Uint:   "uint",
	Fixed:  "fixed",
	String: "string",
	Object: "object",
	NewID:  "new_id",
	Array:  "array",
	FD:     "fd",
}

func (t ArgType) String() string {
	if int(t) < len(argTypeNames) && argTypeNames[t] != "" {
		return argTypeNames[t]
	}
	return fmt.Sprintf("ArgType(%d)", uint8(t))
}

// ParseArgType returns the ArgType named by s, as spelled in protocol XML.
func ParseArgType(s string) (ArgType, bool) {
	for t, name := range argTypeNames {
		if name != "" && name == s {
			return ArgType(t), true
		}
	}
	return 0, false
}

// Arg describes one argument of a request or event.
type Arg struct {
	Name string
	Type ArgType
	// Interface names the target interface of Object and NewID arguments. An
	// empty Interface on a NewID argument makes the message dynamically typed:
	// the interface name and version travel on the wire ahead of the id.
	Interface string
	// Nullable permits a null Object or String.
	Nullable bool
	// Enum is the qualified name ("iface.enum" or a local "enum") of the enum
	// constraining an Int or Uint argument.
	Enum    string
	Summary string
}

// Dynamic reports whether the argument is an untyped new_id.
func (a *Arg) Dynamic() bool {
	return a.Type == NewID && a.Interface == ""
}

// Message describes a request or an event.
type Message struct {
	Name       string
	Since      uint32
	Destructor bool
	Args       []Arg
}

// NewIDArg returns the index of the message's new_id argument, or -1.
func (m *Message) NewIDArg() int {
	for i := range m.Args {
		if m.Args[i].Type == NewID {
			return i
		}
	}
	return -1
}

// FDCount is the number of file descriptors the message carries.
func (m *Message) FDCount() int {
	n := 0
	for i := range m.Args {
		if m.Args[i].Type == FD {
			n++
		}
	}
	return n
}

// Signature renders the argument list in the compact form used by
// libwayland ("?s", "nu", ...), which is handy in logs and tests.
func (m *Message) Signature() string {
	var b strings.Builder
	if m.Since > 1 {
		fmt.Fprintf(&b, "%d", m.Since)
	}
	for _, a := range m.Args {
		if a.Nullable {
			b.WriteByte('?')
		}
		switch a.Type {
		case Int:
			b.WriteByte('i')
		case Uint:
			b.WriteByte('u')
		case Fixed:
			b.WriteByte('f')
		case String:
			b.WriteByte('s')
		case Object:
			b.WriteByte('o')
		case NewID:
			if a.Interface == "" {
				b.WriteString("su")
			}
			b.WriteByte('n')
		case Array:
			b.WriteByte('a')
		case FD:
			b.WriteByte('h')
		}
	}
	return b.String()
}

// Entry is one named value of an enum.
type Entry struct {
	Name    string
	Value   uint32
	Since   uint32
	Summary string
}

// Enum describes a set of named values. Bitfield enums combine entries with
// a bitwise OR; the others are scalar and open: values outside the listed
// entries are preserved, not rejected.
type Enum struct {
	Name     string
	Since    uint32
	Bitfield bool
	Entries  []Entry
}

// Lookup returns the entry with the given name.
func (e *Enum) Lookup(name string) (Entry, bool) {
	for _, entry := range e.Entries {
		if entry.Name == name {
			return entry, true
		}
	}
	return Entry{}, false
}

// Format renders v with entry names. Bitfields are rendered as a |-joined
// list, with any unnamed remainder in hex.
func (e *Enum) Format(v uint32) string {
	if !e.Bitfield {
		for _, entry := range e.Entries {
			if entry.Value == v {
				return entry.Name
			}
		}
		return fmt.Sprintf("%d", v)
	}
	if v == 0 {
		for _, entry := range e.Entries {
			if entry.Value == 0 {
				return entry.Name
			}
		}
		return "0"
	}
	var parts []string
	rest := v
	for _, entry := range e.Entries {
		if entry.Value != 0 && v&entry.Value == entry.Value {
			parts = append(parts, entry.Name)
			rest &^= entry.Value
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", rest))
	}
	return strings.Join(parts, "|")
}

// Interface describes a versioned set of requests and events. Opcodes are
// indexes into Requests and Events.
type Interface struct {
	Name     string
	Version  uint32
	Requests []Message
	Events   []Message
	Enums    []Enum
}

func (i *Interface) String() string { return i.Name }

// Request returns the request with the given opcode.
func (i *Interface) Request(opcode uint16) (*Message, bool) {
	if int(opcode) >= len(i.Requests) {
		return nil, false
	}
	return &i.Requests[opcode], true
}

// Event returns the event with the given opcode.
func (i *Interface) Event(opcode uint16) (*Message, bool) {
	if int(opcode) >= len(i.Events) {
		return nil, false
	}
	return &i.Events[opcode], true
}

// Enum returns the enum with the given local name.
func (i *Interface) Enum(name string) (*Enum, bool) {
	for k := range i.Enums {
		if i.Enums[k].Name == name {
			return &i.Enums[k], true
		}
	}
	return nil, false
}

// DestructorRequest returns the opcode of the request a client sends to
// dispose of an object of this interface without further arguments. Only
// destructors whose arguments are all absent qualify.
func (i *Interface) DestructorRequest() (uint16, bool) {
	for op := range i.Requests {
		m := &i.Requests[op]
		if m.Destructor && len(m.Args) == 0 {
			return uint16(op), true
		}
	}
	return 0, false
}

// Protocol groups the interfaces declared by one XML file.
type Protocol struct {
	Name       string
	Interfaces []*Interface
}

var registry = struct {
	sync.RWMutex
	ifaces map[string]*Interface
}{ifaces: make(map[string]*Interface)}

// Register makes the interfaces known to Lookup. Generated packages call it
// from init. Registering a different descriptor under a name already taken
// panics, since both could not be meant.
func Register(ifaces ...*Interface) {
	registry.Lock()
	defer registry.Unlock()
	for _, iface := range ifaces {
		if prev, ok := registry.ifaces[iface.Name]; ok && prev != iface {
			panic("proto: interface " + iface.Name + " registered twice")
		}
		registry.ifaces[iface.Name] = iface
	}
}

// Lookup returns the registered interface with the given name.
func Lookup(name string) (*Interface, bool) {
	registry.RLock()
	defer registry.RUnlock()
	iface, ok := registry.ifaces[name]
	return iface, ok
}

// Lookup resolves the protocol's own interfaces first, then the registry.
func (p *Protocol) Lookup(name string) (*Interface, bool) {
	for _, iface := range p.Interfaces {
		if iface.Name == name {
			return iface, true
		}
	}
	return Lookup(name)
}
