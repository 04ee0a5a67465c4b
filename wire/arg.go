package wire

import (
	"fmt"
	"strconv"

	"github.com/bnema/wlclient/proto"
)

// NewID is the value of a dynamically typed new_id argument, as carried by
// generic bind requests.
type NewID struct {
	Interface string
	Version   uint32
	ID        uint32
}

// Arg is one argument value. Type selects which fields are meaningful:
//
//	Int, Uint, Fixed, Object, NewID  Value
//	String                           Str, Null
//	Array                            Bytes
//	FD                               FD
//	NewID (dynamic)                  Value, Iface, Version
type Arg struct {
	Type    proto.ArgType
	Value   uint32
	Str     string
	Null    bool
	Bytes   []byte
	FD      int
	Iface   string
	Version uint32
}

func Int(v int32) Arg        { return Arg{Type: proto.Int, Value: uint32(v)} }
func Uint(v uint32) Arg      { return Arg{Type: proto.Uint, Value: v} }
func FixedArg(v Fixed) Arg   { return Arg{Type: proto.Fixed, Value: uint32(v)} }
func String(s string) Arg    { return Arg{Type: proto.String, Str: s} }
func NullString() Arg        { return Arg{Type: proto.String, Null: true} }
func Object(id uint32) Arg   { return Arg{Type: proto.Object, Value: id} }
func Array(b []byte) Arg     { return Arg{Type: proto.Array, Bytes: b} }
func FD(fd int) Arg          { return Arg{Type: proto.FD, FD: fd} }
func NewIDArg(id uint32) Arg { return Arg{Type: proto.NewID, Value: id} }

// OptString returns a null string argument for nil and s otherwise.
func OptString(s *string) Arg {
	if s == nil {
		return NullString()
	}
	return String(*s)
}

// DynamicNewID returns a dynamically typed new_id argument.
func DynamicNewID(n NewID) Arg {
	return Arg{Type: proto.NewID, Value: n.ID, Iface: n.Interface, Version: n.Version}
}

func (a Arg) Int() int32       { return int32(a.Value) }
func (a Arg) Uint() uint32     { return a.Value }
func (a Arg) Fixed() Fixed     { return Fixed(int32(a.Value)) }
func (a Arg) ObjectID() uint32 { return a.Value }

// OptString returns nil for a null string.
func (a Arg) OptString() *string {
	if a.Null {
		return nil
	}
	s := a.Str
	return &s
}

// NewID returns the dynamic new_id triple. For typed new_id arguments only
// ID is set.
func (a Arg) NewID() NewID {
	return NewID{Interface: a.Iface, Version: a.Version, ID: a.Value}
}

// String renders the argument the way WAYLAND_DEBUG traces do.
func (a Arg) String() string {
	switch a.Type {
	case proto.Int:
		return strconv.FormatInt(int64(int32(a.Value)), 10)
	case proto.Uint:
		return strconv.FormatUint(uint64(a.Value), 10)
	case proto.Fixed:
		return strconv.FormatFloat(a.Fixed().Float64(), 'f', -1, 64)
	case proto.String:
		if a.Null {
			return "nil"
		}
		return strconv.Quote(a.Str)
	case proto.Object:
		if a.Value == 0 {
			return "nil"
		}
		return "#" + strconv.FormatUint(uint64(a.Value), 10)
	case proto.NewID:
		if a.Iface != "" {
			return fmt.Sprintf("new id %s@%d#%d", a.Iface, a.Version, a.Value)
		}
		return "new id #" + strconv.FormatUint(uint64(a.Value), 10)
	case proto.Array:
		return fmt.Sprintf("array[%d]", len(a.Bytes))
	case proto.FD:
		return "fd " + strconv.Itoa(a.FD)
	default:
		return "?"
	}
}
