// Package wlclient is a Wayland client library: it connects to a
// compositor, tracks protocol objects, encodes requests and decodes and
// dispatches events. Typed bindings for the core protocol are generated by
// cmd/wlgen from wayland.xml.
package wlclient

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/bnema/wlclient/proto"
	"github.com/bnema/wlclient/wire"
)

// State is the lifecycle stage of a Display.
type State uint8

const (
	StateConnecting State = iota
	StateReady
	// StateBroken is entered on the first fatal error. Requests fail with
	// that error and queued events are no longer dispatched.
	StateBroken
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateBroken:
		return "broken"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Display is a connection to a compositor and the wl_display object it
// starts with. Requests may be sent from any goroutine. Events are read by
// ReadEvents or Dispatch and handed to dispatchers by whichever goroutine
// calls Dispatch or DispatchPending, one at a time and in arrival order.
type Display struct {
	*Proxy

	// mu guards the output side of the socket, the object map, the state
	// and the pending queue. Dispatchers run without it.
	mu            sync.Mutex
	sock          *socket
	objects       *objectMap
	state         State
	err           error
	peerErr       *PeerError
	pending       []*Event
	encBuf        []byte
	droppedWrites int

	readMu     sync.Mutex
	dispatchMu sync.Mutex
	closing    atomic.Bool

	log        *logrus.Logger
	trace      *tracer
	dropPolicy DropPolicy
}

func newDisplay(fd int, o options) (*Display, error) {
	sock, err := newSocket(fd)
	if err != nil {
		_ = closeFD(fd)
		return nil, &Error{Kind: TransportError, Op: "connect", Err: err}
	}
	d := &Display{
		sock:       sock,
		objects:    newObjectMap(),
		state:      StateConnecting,
		log:        o.log,
		dropPolicy: o.dropPolicy,
	}
	if *o.debug {
		d.trace = newTracer(o.debugOut)
	}
	obj := newObject(d, DisplayID, DisplayInterface, 1, nil)
	if err := d.objects.insert(obj); err != nil {
		panic(err)
	}
	d.Proxy = obj.main
	d.state = StateReady
	d.log.WithField("fd", fd).Debug("connected to compositor")
	return d, nil
}

// State returns the connection's lifecycle stage.
func (d *Display) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Err returns the error that broke the connection, or nil.
func (d *Display) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// ProtocolError returns the compositor's wl_display.error, if one was
// received.
func (d *Display) ProtocolError() *PeerError {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.peerErr
}

// Fd returns the socket descriptor, for use with an external poll loop.
func (d *Display) Fd() int {
	return d.sock.fd
}

// failLocked moves the connection to StateBroken, recording err as the
// reason. Only the first fatal error is kept.
func (d *Display) failLocked(kind ErrorKind, op string, err error) error {
	if d.closing.Load() {
		return localError(op, ErrClosed)
	}
	switch d.state {
	case StateClosed:
		return localError(op, ErrClosed)
	case StateBroken:
		return d.err
	}
	d.state = StateBroken
	d.err = &Error{Kind: kind, Op: op, Err: err}
	d.sock.shutdown()
	if !d.closing.Load() {
		d.log.WithError(err).WithField("kind", kind.String()).Error("connection broken")
	}
	return d.err
}

func (d *Display) checkLocked(op string) error {
	if d.closing.Load() {
		return localError(op, ErrClosed)
	}
	switch d.state {
	case StateBroken:
		return d.err
	case StateClosed:
		return localError(op, ErrClosed)
	}
	return nil
}

func (d *Display) send(obj *object, req Request, wantNew bool, dispatcher Dispatcher) (*Proxy, error) {
	opcode := req.Opcode()
	args := req.Args()

	d.mu.Lock()
	if err := d.checkLocked("send"); err != nil {
		if d.state == StateBroken {
			if d.droppedWrites == 0 {
				d.log.WithError(err).Debug("dropping requests on broken connection")
			}
			d.droppedWrites++
		}
		d.mu.Unlock()
		return nil, err
	}
	child, err := d.sendLocked(obj, opcode, args, wantNew, dispatcher)
	if err != nil {
		d.mu.Unlock()
		return nil, err
	}
	var (
		destroyed  *object
		destructor Dispatcher
	)
	if msg, _ := obj.iface.Request(opcode); msg.Destructor {
		d.objects.remove(obj)
		destroyed, destructor = obj, obj.dispatcher
	}
	d.mu.Unlock()

	if destroyed != nil {
		destructor.Destroy(destroyed.main)
	}
	if child == nil {
		return nil, nil
	}
	return child.main, nil
}

func (d *Display) sendLocked(obj *object, opcode uint16, args []wire.Arg, wantNew bool, dispatcher Dispatcher) (*object, error) {
	if !obj.live() {
		return nil, localError("send", fmt.Errorf("%w: %s#%d", ErrObjectDestroyed, obj.iface.Name, obj.id))
	}
	msg, ok := obj.iface.Request(opcode)
	if !ok {
		return nil, localError("send", fmt.Errorf("%w: %s has no request %d", ErrInvalidRequest, obj.iface.Name, opcode))
	}
	if msg.Since > obj.version {
		return nil, localError("send", fmt.Errorf("%w: %s.%s needs version %d, %s#%d has %d",
			ErrVersionTooLow, obj.iface.Name, msg.Name, msg.Since, obj.iface.Name, obj.id, obj.version))
	}
	if len(args) != len(msg.Args) {
		return nil, localError("send", fmt.Errorf("%w: %s.%s takes %d arguments, got %d",
			ErrInvalidRequest, obj.iface.Name, msg.Name, len(msg.Args), len(args)))
	}

	var child *object
	if i := msg.NewIDArg(); i >= 0 {
		iface, version, err := childInterface(obj, &msg.Args[i], args[i])
		if err != nil {
			return nil, localError("send", err)
		}
		id, err := d.objects.allocate()
		if err != nil {
			return nil, localError("send", err)
		}
		args[i].Value = id
		child = newObject(d, id, iface, version, dispatcher)
	} else if wantNew {
		return nil, localError("send", fmt.Errorf("%w: %s.%s creates no object", ErrInvalidRequest, obj.iface.Name, msg.Name))
	}

	frame, fds, err := wire.Encode(d.encBuf[:0], obj.id, opcode, msg, args)
	if err != nil {
		if child != nil {
			d.objects.unallocate(child.id)
		}
		return nil, localError("send", fmt.Errorf("%w: %w", ErrInvalidRequest, err))
	}
	d.encBuf = frame
	if d.trace != nil {
		d.trace.request(obj, msg, args, d.requestObjectsLocked(msg, args, child))
	}
	if err := d.sock.queue(frame, fds); err != nil {
		if child != nil {
			d.objects.unallocate(child.id)
		}
		var e *Error
		if errors.As(err, &e) {
			return nil, err
		}
		return nil, d.failLocked(TransportError, "send", err)
	}
	if child != nil {
		if err := d.objects.insert(child); err != nil {
			panic(fmt.Sprintf("wlclient: allocator returned an id in use: %v", err))
		}
	}
	return child, nil
}

func childInterface(parent *object, desc *proto.Arg, a wire.Arg) (*proto.Interface, uint32, error) {
	if desc.Dynamic() {
		iface, ok := proto.Lookup(a.Iface)
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown interface %q", ErrInvalidRequest, a.Iface)
		}
		if a.Version == 0 || a.Version > iface.Version {
			return nil, 0, fmt.Errorf("%w: %s version %d, supported 1 to %d", ErrInvalidRequest, iface.Name, a.Version, iface.Version)
		}
		return iface, a.Version, nil
	}
	iface, ok := proto.Lookup(desc.Interface)
	if !ok {
		return nil, 0, fmt.Errorf("%w: unknown interface %q", ErrInvalidRequest, desc.Interface)
	}
	return iface, parent.version, nil
}

func (d *Display) requestObjectsLocked(msg *proto.Message, args []wire.Arg, child *object) []*object {
	objs := make([]*object, len(args))
	for i := range args {
		switch msg.Args[i].Type {
		case proto.Object:
			objs[i] = d.objects.lookup(args[i].Value)
		case proto.NewID:
			objs[i] = child
		}
	}
	return objs
}

// Flush writes queued requests without blocking. It returns ErrWouldBlock
// when the socket is full; the rest is written by a later Flush or
// Dispatch.
func (d *Display) Flush() error {
	return d.flush(false)
}

func (d *Display) flush(block bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkLocked("flush"); err != nil {
		return err
	}
	err := d.sock.flush(block)
	if err == nil || errors.Is(err, ErrWouldBlock) {
		return err
	}
	return d.failLocked(TransportError, "flush", err)
}

// ReadEvents reads what the socket has available without blocking and
// queues the decoded events for DispatchPending.
func (d *Display) ReadEvents() error {
	return d.readEvents(false)
}

func (d *Display) readEvents(block bool) error {
	d.readMu.Lock()
	defer d.readMu.Unlock()

	d.mu.Lock()
	err := d.checkLocked("read")
	d.mu.Unlock()
	if err != nil {
		return err
	}

	_, err = d.sock.read(block)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkLocked("read"); err != nil {
		return err
	}
	if err != nil {
		if errors.Is(err, ErrWouldBlock) {
			return nil
		}
		return d.failLocked(TransportError, "read", err)
	}
	return d.decodeBufferedLocked()
}

func (d *Display) decodeBufferedLocked() error {
	for {
		buf := d.sock.buffered()
		if len(buf) < wire.HeaderSize {
			return nil
		}
		h, err := wire.ParseHeader(buf)
		if err != nil {
			return d.failLocked(CodecError, "read", err)
		}
		if len(buf) < int(h.Size) {
			return nil
		}
		ev, err := d.decodeLocked(h, buf[wire.HeaderSize:h.Size])
		d.sock.consume(int(h.Size))
		if err != nil {
			return err
		}
		if ev != nil {
			d.pending = append(d.pending, ev)
		}
	}
}

func (d *Display) decodeLocked(h wire.Header, body []byte) (*Event, error) {
	obj := d.objects.lookup(h.Sender)
	if obj == nil {
		d.log.WithFields(logrus.Fields{"id": h.Sender, "opcode": h.Opcode}).Debug("event for unknown object discarded")
		return nil, nil
	}
	msg, ok := obj.iface.Event(h.Opcode)
	if !ok {
		return nil, d.failLocked(ProtocolViolation, "read", fmt.Errorf("%s#%d has no event %d", obj.iface.Name, obj.id, h.Opcode))
	}
	args, err := wire.Decode(body, msg, &d.sock.inFDs)
	if err != nil {
		closeArgFDs(args)
		kind := CodecError
		if errors.Is(err, wire.ErrNullArg) {
			kind = ProtocolViolation
		}
		return nil, d.failLocked(kind, "read", fmt.Errorf("%s#%d: %w", obj.iface.Name, obj.id, err))
	}
	if !obj.live() {
		if d.trace != nil {
			d.trace.discarded(obj, msg, args)
		}
		closeArgFDs(args)
		return nil, d.orphanChildrenLocked(obj, msg, args)
	}
	if msg.Since > obj.version {
		closeArgFDs(args)
		return nil, d.failLocked(ProtocolViolation, "read", fmt.Errorf("%s.%s needs version %d, %s#%d has %d",
			obj.iface.Name, msg.Name, msg.Since, obj.iface.Name, obj.id, obj.version))
	}

	ev := &Event{
		Proxy:   obj.main,
		Opcode:  h.Opcode,
		Message: msg,
		Args:    args,
		obj:     obj,
		objects: make([]*object, len(args)),
	}
	for i := range args {
		desc := &msg.Args[i]
		switch desc.Type {
		case proto.Object:
			if args[i].Value == 0 {
				continue
			}
			o := d.objects.lookup(args[i].Value)
			if o == nil {
				if obj.id == DisplayID {
					continue
				}
				closeArgFDs(args)
				return nil, d.failLocked(ProtocolViolation, "read", fmt.Errorf("%s.%s: %w %d", obj.iface.Name, msg.Name, ErrUnknownObject, args[i].Value))
			}
			if !o.live() {
				continue
			}
			if desc.Interface != "" && o.iface.Name != desc.Interface {
				closeArgFDs(args)
				return nil, d.failLocked(ProtocolViolation, "read", fmt.Errorf("%s.%s: %s#%d is not a %s",
					obj.iface.Name, msg.Name, o.iface.Name, o.id, desc.Interface))
			}
			ev.objects[i] = o
		case proto.NewID:
			child, err := d.serverObjectLocked(obj, desc, args[i])
			if err != nil {
				closeArgFDs(args)
				return nil, d.failLocked(ProtocolViolation, "read", fmt.Errorf("%s.%s: %w", obj.iface.Name, msg.Name, err))
			}
			ev.objects[i] = child
		}
	}
	return ev, nil
}

// orphanChildrenLocked registers the objects a discarded event introduces.
// Nobody will use them, but the compositor may send events from them and
// those must still be decoded for their file descriptors.
func (d *Display) orphanChildrenLocked(obj *object, msg *proto.Message, args []wire.Arg) error {
	for i := range msg.Args {
		if msg.Args[i].Type != proto.NewID {
			continue
		}
		child, err := d.serverObjectLocked(obj, &msg.Args[i], args[i])
		if err != nil {
			return d.failLocked(ProtocolViolation, "read", fmt.Errorf("%s.%s: %w", obj.iface.Name, msg.Name, err))
		}
		d.objects.remove(child)
	}
	return nil
}

// serverObjectLocked creates the object introduced by a new_id event
// argument.
func (d *Display) serverObjectLocked(parent *object, desc *proto.Arg, a wire.Arg) (*object, error) {
	name, version := desc.Interface, parent.version
	if desc.Dynamic() {
		name, version = a.Iface, a.Version
	}
	iface, ok := proto.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("new object of unknown interface %q", name)
	}
	if a.Value < ServerIDStart {
		return nil, fmt.Errorf("%w: %d", ErrBadServerID, a.Value)
	}
	child := newObject(d, a.Value, iface, version, nil)
	if err := d.objects.insert(child); err != nil {
		return nil, err
	}
	return child, nil
}

// DispatchPending hands every queued event to its object's dispatcher
// without reading from the socket. It returns the number of events
// dispatched.
func (d *Display) DispatchPending() (int, error) {
	d.dispatchMu.Lock()
	defer d.dispatchMu.Unlock()

	n := 0
	for {
		d.mu.Lock()
		if err := d.checkLocked("dispatch"); err != nil {
			d.mu.Unlock()
			return n, err
		}
		if len(d.pending) == 0 {
			d.mu.Unlock()
			return n, nil
		}
		ev := d.pending[0]
		d.pending[0] = nil
		d.pending = d.pending[1:]
		obj := ev.obj

		if !obj.live() {
			// destroyed by the client after the event was read
			ev.closeFDs()
			d.mu.Unlock()
			continue
		}
		if d.trace != nil {
			d.trace.event(ev)
		}
		if obj.id == DisplayID {
			err := d.handleDisplayEventLocked(ev)
			d.mu.Unlock()
			n++
			if err != nil {
				return n, err
			}
			continue
		}
		dispatcher := obj.dispatcher
		d.mu.Unlock()

		dispatcher.HandleEvent(ev)
		n++

		if ev.Message.Destructor {
			d.mu.Lock()
			first := !obj.destroyed
			if first {
				d.objects.remove(obj)
			}
			dispatcher = obj.dispatcher
			d.mu.Unlock()
			if first {
				dispatcher.Destroy(obj.main)
			}
		}
	}
}

func (d *Display) handleDisplayEventLocked(ev *Event) error {
	switch ev.Opcode {
	case DisplayEvtError:
		pe := &PeerError{
			ObjectID: ev.Args[0].Value,
			Code:     ev.Args[1].Value,
			Message:  ev.Args[2].Str,
		}
		if o := d.objects.lookup(pe.ObjectID); o != nil {
			pe.Interface = o.iface.Name
		}
		d.peerErr = pe
		return d.failLocked(PeerErrorKind, "dispatch", pe)
	case DisplayEvtDeleteID:
		id := ev.Args[0].Value
		if !d.objects.deleteID(id) {
			d.log.WithField("id", id).Warn("delete_id for unknown object")
		}
	}
	return nil
}

// Dispatch dispatches queued events. When none are queued it flushes
// pending requests, blocks until the compositor sends something, and
// dispatches what arrived.
func (d *Display) Dispatch() (int, error) {
	n, err := d.DispatchPending()
	if err != nil || n > 0 {
		return n, err
	}
	if err := d.flush(true); err != nil {
		return 0, err
	}
	d.mu.Lock()
	empty := len(d.pending) == 0
	d.mu.Unlock()
	if empty {
		if err := d.readEvents(true); err != nil {
			return 0, err
		}
	}
	return d.DispatchPending()
}

// Roundtrip sends wl_display.sync and dispatches events until the
// compositor answers it, so every request sent before the call has been
// processed when it returns.
func (d *Display) Roundtrip() error {
	var done atomic.Bool
	_, err := d.Proxy.sendNewWith(DisplaySyncRequest{}, DispatcherFunc(func(*Event) {
		done.Store(true)
	}))
	if err != nil {
		return err
	}
	for !done.Load() {
		if _, err := d.Dispatch(); err != nil {
			return err
		}
	}
	return nil
}

// Close shuts the connection down. Unsent requests are discarded, queued
// events are dropped and every remaining object's dispatcher is told it
// was destroyed. Close wakes goroutines blocked in Dispatch, which then
// return ErrClosed.
func (d *Display) Close() error {
	if !d.closing.CompareAndSwap(false, true) {
		return nil
	}
	d.sock.shutdown()

	d.readMu.Lock()
	d.mu.Lock()
	d.state = StateClosed
	for _, ev := range d.pending {
		ev.closeFDs()
	}
	d.pending = nil
	type gone struct {
		p          *Proxy
		dispatcher Dispatcher
	}
	var destroyed []gone
	d.objects.each(func(o *object) {
		if o.live() && o.id != DisplayID {
			o.destroyed = true
			destroyed = append(destroyed, gone{o.main, o.dispatcher})
		}
	})
	err := d.sock.close()
	d.mu.Unlock()
	d.readMu.Unlock()

	for _, g := range destroyed {
		g.dispatcher.Destroy(g.p)
	}
	if err != nil {
		return &Error{Kind: TransportError, Op: "close", Err: err}
	}
	return nil
}
