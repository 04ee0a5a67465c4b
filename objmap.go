package wlclient

import (
	"fmt"

	"github.com/bnema/wlclient/proto"
)

const (
	// DisplayID is the id of the wl_display singleton.
	DisplayID uint32 = 1
	// ServerIDStart is the first id in the range the compositor allocates.
	ServerIDStart uint32 = 0xff000000
	// clientIDMax is the last id the client may allocate.
	clientIDMax = ServerIDStart - 1
	// denseLimit bounds the slice-backed part of an id table.
	denseLimit = 1 << 16
)

// object is the map's slot for one protocol object. Proxies are handles to
// it; the map owns it.
type object struct {
	id         uint32
	iface      *proto.Interface
	version    uint32
	dispatcher Dispatcher
	userData   any
	main       *Proxy
	refs       int

	// destroyed is set once the client may no longer send requests.
	destroyed bool
	// zombie marks an id whose object is gone locally but may still be
	// the sender of events in flight. A client id waits for delete_id; a
	// server id is held until the compositor introduces a new object with
	// it.
	zombie bool
	// deleted records a delete_id that arrived while the object was still
	// live; the id is freed as soon as the object is removed.
	deleted bool
}

func (o *object) live() bool { return o != nil && !o.zombie && !o.destroyed }

// idTable maps ids relative to base onto slots: a dense slice for the first
// denseLimit ids and a map for the rest.
type idTable struct {
	base   uint32
	dense  []*object
	sparse map[uint32]*object
}

func (t *idTable) get(id uint32) *object {
	i := id - t.base
	if i < denseLimit {
		if int(i) < len(t.dense) {
			return t.dense[i]
		}
		return nil
	}
	return t.sparse[i]
}

func (t *idTable) set(id uint32, obj *object) {
	i := id - t.base
	if i < denseLimit {
		for int(i) >= len(t.dense) {
			t.dense = append(t.dense, nil)
		}
		t.dense[i] = obj
		return
	}
	if obj == nil {
		delete(t.sparse, i)
		return
	}
	if t.sparse == nil {
		t.sparse = make(map[uint32]*object)
	}
	t.sparse[i] = obj
}

func (t *idTable) each(f func(*object)) {
	for _, obj := range t.dense {
		if obj != nil {
			f(obj)
		}
	}
	for _, obj := range t.sparse {
		f(obj)
	}
}

// objectMap holds every object known to a connection. Client ids come from
// a counter starting at 2 plus a free list fed only by delete_id; server ids
// are indexed as the compositor introduces them. The two ranges never share
// state. The map is not safe for concurrent use; the Display's lock guards
// it together with the output buffer.
type objectMap struct {
	client idTable
	server idTable
	next   uint32
	free   []uint32
}

func newObjectMap() *objectMap {
	return &objectMap{
		client: idTable{base: 0},
		server: idTable{base: ServerIDStart},
		next:   DisplayID + 1,
	}
}

func (m *objectMap) table(id uint32) *idTable {
	if id >= ServerIDStart {
		return &m.server
	}
	return &m.client
}

// allocate returns a client id that is not in use and whose previous
// owner, if any, has been acknowledged by the compositor.
func (m *objectMap) allocate() (uint32, error) {
	if n := len(m.free); n > 0 {
		id := m.free[n-1]
		m.free = m.free[:n-1]
		return id, nil
	}
	if m.next > clientIDMax {
		return 0, fmt.Errorf("client id space exhausted")
	}
	id := m.next
	m.next++
	return id, nil
}

// unallocate returns an id that never reached the wire.
func (m *objectMap) unallocate(id uint32) {
	if id+1 == m.next {
		m.next--
		return
	}
	m.free = append(m.free, id)
}

// insert places obj at its id. An occupied slot means the two peers
// disagree about which objects exist, except for a server zombie, whose id
// the compositor is free to reuse.
func (m *objectMap) insert(obj *object) error {
	if obj.id == 0 {
		return fmt.Errorf("%w: null id", ErrIDInUse)
	}
	t := m.table(obj.id)
	if prev := t.get(obj.id); prev != nil && !(obj.id >= ServerIDStart && prev.zombie) {
		return fmt.Errorf("%w: %d held by %s", ErrIDInUse, obj.id, prev.iface.Name)
	}
	t.set(obj.id, obj)
	return nil
}

// lookup returns the slot for id, zombies included.
func (m *objectMap) lookup(id uint32) *object {
	if id == 0 {
		return nil
	}
	return m.table(id).get(id)
}

// remove takes obj out of service. A client id stays reserved as a zombie
// until delete_id arrives, unless it already has. A server id is released
// to the compositor at once, but its slot keeps decoding the events still
// in flight so their file descriptors are consumed in order.
func (m *objectMap) remove(obj *object) {
	obj.destroyed = true
	t := m.table(obj.id)
	if t.get(obj.id) != obj {
		return
	}
	if obj.id >= ServerIDStart {
		obj.zombie = true
		return
	}
	if obj.deleted {
		t.set(obj.id, nil)
		m.free = append(m.free, obj.id)
		return
	}
	obj.zombie = true
}

// deleteID handles the compositor's acknowledgement that id is gone. It
// reports whether the id was known.
func (m *objectMap) deleteID(id uint32) bool {
	if id == DisplayID || id >= ServerIDStart {
		return false
	}
	obj := m.client.get(id)
	if obj == nil {
		return false
	}
	if obj.zombie {
		m.client.set(id, nil)
		m.free = append(m.free, id)
		return true
	}
	obj.deleted = true
	return true
}

// isFree reports whether id sits in the free list.
func (m *objectMap) isFree(id uint32) bool {
	for _, f := range m.free {
		if f == id {
			return true
		}
	}
	return false
}

func (m *objectMap) each(f func(*object)) {
	m.client.each(f)
	m.server.each(f)
}
