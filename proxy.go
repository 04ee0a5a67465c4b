package wlclient

import (
	"fmt"

	"github.com/bnema/wlclient/proto"
	"github.com/bnema/wlclient/wire"
)

// Object is anything with a protocol object id.
type Object interface {
	ID() uint32
}

// Request is implemented by the generated request variants of every
// interface. Args returns the arguments in wire order; a new_id argument
// carries id 0 and is filled in when the request is sent.
type Request interface {
	Opcode() uint16
	Args() []wire.Arg
}

// Dispatcher receives the events of one object. HandleEvent runs on the
// goroutine calling Dispatch or DispatchPending; Destroy runs once when the
// object leaves the object map.
type Dispatcher interface {
	HandleEvent(ev *Event)
	Destroy(p *Proxy)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ev *Event)

func (f DispatcherFunc) HandleEvent(ev *Event) { f(ev) }

func (DispatcherFunc) Destroy(*Proxy) {}

type nopDispatcher struct{}

func (nopDispatcher) HandleEvent(*Event) {}

func (nopDispatcher) Destroy(*Proxy) {}

// Proxy is a handle to one protocol object. The main proxy is created with
// the object and is the only handle allowed to install a dispatcher.
// Attached handles returned by Share keep the object alive until every
// handle has been dropped.
type Proxy struct {
	display *Display
	obj     *object
	main    bool
	dropped bool
}

func newObject(d *Display, id uint32, iface *proto.Interface, version uint32, dispatcher Dispatcher) *object {
	if dispatcher == nil {
		dispatcher = nopDispatcher{}
	}
	obj := &object{
		id:         id,
		iface:      iface,
		version:    version,
		dispatcher: dispatcher,
		refs:       1,
	}
	obj.main = &Proxy{display: d, obj: obj, main: true}
	return obj
}

// ID returns the object id, or 0 for a nil proxy.
func (p *Proxy) ID() uint32 {
	if p == nil {
		return 0
	}
	return p.obj.id
}

// Interface returns the object's interface descriptor.
func (p *Proxy) Interface() *proto.Interface {
	return p.obj.iface
}

// Version returns the version negotiated when the object was created.
func (p *Proxy) Version() uint32 {
	return p.obj.version
}

// Display returns the connection the object belongs to.
func (p *Proxy) Display() *Display {
	return p.display
}

// IsMain reports whether p is the object's main proxy.
func (p *Proxy) IsMain() bool {
	return p.main
}

// Alive reports whether requests may still be sent on the object.
func (p *Proxy) Alive() bool {
	p.display.mu.Lock()
	defer p.display.mu.Unlock()
	return p.obj.live()
}

func (p *Proxy) String() string {
	if p == nil {
		return "nil"
	}
	return fmt.Sprintf("%s#%d", p.obj.iface.Name, p.obj.id)
}

// Equal reports whether p and q refer to the same object of the same
// connection.
func (p *Proxy) Equal(q *Proxy) bool {
	if p == nil || q == nil {
		return p == q
	}
	return p.display == q.display && p.obj.id == q.obj.id
}

// UserData returns the value stored with SetUserData. All handles to the
// object share it.
func (p *Proxy) UserData() any {
	p.display.mu.Lock()
	defer p.display.mu.Unlock()
	return p.obj.userData
}

func (p *Proxy) SetUserData(v any) {
	p.display.mu.Lock()
	p.obj.userData = v
	p.display.mu.Unlock()
}

// SetDispatcher installs the object's event dispatcher. Passing nil
// restores the default, which drops events.
func (p *Proxy) SetDispatcher(dispatcher Dispatcher) error {
	if !p.main || p.obj.id == DisplayID {
		return localError("set dispatcher", fmt.Errorf("%w: %s", ErrNotMain, p))
	}
	if dispatcher == nil {
		dispatcher = nopDispatcher{}
	}
	p.display.mu.Lock()
	p.obj.dispatcher = dispatcher
	p.display.mu.Unlock()
	return nil
}

// Share returns an attached handle to the same object.
func (p *Proxy) Share() *Proxy {
	p.display.mu.Lock()
	defer p.display.mu.Unlock()
	p.obj.refs++
	return &Proxy{display: p.display, obj: p.obj}
}

// Send submits a request that creates no object.
func (p *Proxy) Send(req Request) error {
	_, err := p.display.send(p.obj, req, false, nil)
	return err
}

// SendNew submits a request carrying a new_id argument and returns the main
// proxy of the object it creates. For typed new_id arguments the object
// inherits the sender's version; dynamically typed ones carry their own.
func (p *Proxy) SendNew(req Request) (*Proxy, error) {
	return p.display.send(p.obj, req, true, nil)
}

func (p *Proxy) sendNewWith(req Request, dispatcher Dispatcher) (*Proxy, error) {
	return p.display.send(p.obj, req, true, dispatcher)
}

// Drop releases the handle. When the last handle goes, the object is
// destroyed: if its interface declares an argument-less destructor request
// and the drop policy allows it, that request is sent; otherwise the object
// is only forgotten locally. Dropping a handle twice is a no-op.
func (p *Proxy) Drop() error {
	d := p.display
	d.mu.Lock()
	if p.dropped {
		d.mu.Unlock()
		return nil
	}
	p.dropped = true
	obj := p.obj
	obj.refs--
	if obj.refs > 0 || obj.destroyed || obj.id == DisplayID {
		d.mu.Unlock()
		return nil
	}
	opcode, ok := obj.iface.DestructorRequest()
	send := ok && d.dropPolicy == DropSendsDestructor && d.state == StateReady
	if !send {
		d.objects.remove(obj)
		d.mu.Unlock()
		obj.dispatcher.Destroy(obj.main)
		return nil
	}
	d.mu.Unlock()
	_, err := d.send(obj, rawRequest{opcode: opcode}, false, nil)
	return err
}

// rawRequest is a request built from untyped arguments.
type rawRequest struct {
	opcode uint16
	args   []wire.Arg
}

func (r rawRequest) Opcode() uint16 { return r.opcode }

func (r rawRequest) Args() []wire.Arg { return r.args }

// NewRequest builds a request from an opcode and raw arguments, for
// interfaces without generated bindings.
func NewRequest(opcode uint16, args ...wire.Arg) Request {
	return rawRequest{opcode: opcode, args: args}
}

// Binding is satisfied by pointers to generated proxy wrappers. Interface
// must work on a nil receiver.
type Binding[T any] interface {
	*T
	Interface() *proto.Interface
	SetProxy(p *Proxy)
}

// Wrap returns a typed wrapper around p, or nil for a nil proxy.
func Wrap[T any, PT Binding[T]](p *Proxy) PT {
	if p == nil {
		return nil
	}
	w := PT(new(T))
	w.SetProxy(p)
	return w
}
