package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var outputMode = Enum{
	Name:     "mode",
	Bitfield: true,
	Entries: []Entry{
		{Name: "current", Value: 0x1},
		{Name: "preferred", Value: 0x2},
	},
}

var subpixel = Enum{
	Name: "subpixel",
	Entries: []Entry{
		{Name: "unknown", Value: 0},
		{Name: "none", Value: 1},
		{Name: "horizontal_rgb", Value: 2},
	},
}

func TestParseArgType(t *testing.T) {
	for _, name := range []string{"int", "uint", "fixed", "string", "object", "new_id", "array", "fd"} {
		typ, ok := ParseArgType(name)
		require.True(t, ok, name)
		assert.Equal(t, name, typ.String())
	}
	_, ok := ParseArgType("double")
	assert.False(t, ok)
	assert.Equal(t, "ArgType(42)", ArgType(42).String())
}

func TestSignature(t *testing.T) {
	tests := []struct {
		msg  Message
		want string
	}{
		{Message{Name: "sync", Args: []Arg{{Type: NewID, Interface: "wl_callback"}}}, "n"},
		{Message{Name: "bind", Args: []Arg{{Type: Uint}, {Type: NewID}}}, "usun"},
		{Message{Name: "attach", Args: []Arg{{Type: Object, Nullable: true}, {Type: Int}, {Type: Int}}}, "?oii"},
		{Message{Name: "damage_buffer", Since: 4, Args: []Arg{{Type: Int}, {Type: Int}, {Type: Int}, {Type: Int}}}, "4iiii"},
		{Message{Name: "create_pool", Args: []Arg{{Type: NewID, Interface: "wl_shm_pool"}, {Type: FD}, {Type: Int}}}, "nhi"},
		{Message{Name: "motion", Args: []Arg{{Type: Uint}, {Type: Fixed}, {Type: Fixed}}}, "uff"},
		{Message{Name: "title", Args: []Arg{{Type: String, Nullable: true}, {Type: Array}}}, "?sa"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.msg.Signature(), tt.msg.Name)
	}
}

func TestMessageHelpers(t *testing.T) {
	m := Message{Args: []Arg{{Type: FD}, {Type: NewID, Interface: "wl_buffer"}, {Type: FD}}}
	assert.Equal(t, 1, m.NewIDArg())
	assert.Equal(t, 2, m.FDCount())
	assert.False(t, m.Args[1].Dynamic())
	assert.Equal(t, -1, (&Message{}).NewIDArg())
	assert.True(t, (&Arg{Type: NewID}).Dynamic())
	assert.False(t, (&Arg{Type: Object}).Dynamic())
}

func TestEnumFormat(t *testing.T) {
	tests := []struct {
		enum Enum
		v    uint32
		want string
	}{
		{subpixel, 2, "horizontal_rgb"},
		{subpixel, 0, "unknown"},
		{subpixel, 9, "9"},
		{outputMode, 0x3, "current|preferred"},
		{outputMode, 0x2, "preferred"},
		{outputMode, 0x0, "0"},
		{outputMode, 0x9, "current|0x8"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.enum.Format(tt.v))
	}

	e, ok := subpixel.Lookup("none")
	require.True(t, ok)
	assert.Equal(t, uint32(1), e.Value)
	_, ok = subpixel.Lookup("vertical_bgr")
	assert.False(t, ok)
}

func TestInterfaceLookups(t *testing.T) {
	iface := &Interface{
		Name:    "test_surface",
		Version: 3,
		Requests: []Message{
			{Name: "attach", Since: 1},
			{Name: "destroy", Since: 1, Destructor: true},
		},
		Events: []Message{{Name: "enter", Since: 1}},
		Enums:  []Enum{subpixel},
	}
	m, ok := iface.Request(1)
	require.True(t, ok)
	assert.Equal(t, "destroy", m.Name)
	_, ok = iface.Request(2)
	assert.False(t, ok)
	_, ok = iface.Event(0)
	assert.True(t, ok)
	_, ok = iface.Event(1)
	assert.False(t, ok)

	op, ok := iface.DestructorRequest()
	require.True(t, ok)
	assert.Equal(t, uint16(1), op)

	e, ok := iface.Enum("subpixel")
	require.True(t, ok)
	assert.Equal(t, "none", e.Format(1))
	_, ok = iface.Enum("mode")
	assert.False(t, ok)
}

func TestDestructorWithArgumentsDoesNotQualify(t *testing.T) {
	iface := &Interface{
		Name: "test_toplevel",
		Requests: []Message{
			{Name: "destroy_with_reason", Destructor: true, Args: []Arg{{Name: "reason", Type: Uint}}},
		},
	}
	_, ok := iface.DestructorRequest()
	assert.False(t, ok)
}

func TestRegister(t *testing.T) {
	a := &Interface{Name: "proto_test_a", Version: 1}
	Register(a)
	Register(a)

	got, ok := Lookup("proto_test_a")
	require.True(t, ok)
	assert.Same(t, a, got)
	_, ok = Lookup("proto_test_missing")
	assert.False(t, ok)

	assert.Panics(t, func() {
		Register(&Interface{Name: "proto_test_a", Version: 2})
	})

	local := &Interface{Name: "proto_test_a", Version: 9}
	p := &Protocol{Name: "test", Interfaces: []*Interface{local}}
	got, ok = p.Lookup("proto_test_a")
	require.True(t, ok)
	assert.Same(t, local, got)
}
