package wlclient

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/bnema/wlclient/wire"
)

func TestRegistryEnumeration(t *testing.T) {
	d, s := newTestDisplay(t)

	advertised := []Global{
		{Name: 1, Interface: "wl_compositor", Version: 6},
		{Name: 2, Interface: "wl_shm", Version: 2},
		{Name: 3, Interface: "wl_output", Version: 4},
	}
	var g errgroup.Group
	g.Go(func() error {
		req, err := s.expect(DisplayInterface, "get_registry")
		if err != nil {
			return err
		}
		reg := req.Args[0].Value
		for _, gl := range advertised {
			if err := s.send(reg, RegistryEvtGlobal, wire.Uint(gl.Name), wire.String(gl.Interface), wire.Uint(gl.Version)); err != nil {
				return err
			}
		}
		if req, err = s.read(); err != nil {
			return err
		}
		return s.answerSync(req, 0, false)
	})

	reg, err := d.GetRegistry()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), reg.ID())

	var seen []RegistryEvent
	globals, err := WatchGlobals(reg, func(ev RegistryEvent) { seen = append(seen, ev) })
	require.NoError(t, err)
	require.NoError(t, d.Roundtrip())
	require.NoError(t, g.Wait())

	if diff := cmp.Diff(advertised, globals.All()); diff != "" {
		t.Errorf("globals mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, seen, len(advertised))

	gl, ok := globals.Find("wl_compositor")
	require.True(t, ok)
	assert.GreaterOrEqual(t, gl.Version, uint32(1))
	for _, gl := range globals.All() {
		for _, r := range gl.Interface {
			assert.True(t, r > 0x20 && r < 0x7f, "non-printable interface name %q", gl.Interface)
		}
	}
	_, ok = globals.Find("wl_seat")
	assert.False(t, ok)
	assert.Equal(t, StateReady, d.State())
}

func TestGlobalRemove(t *testing.T) {
	d, s := newTestDisplay(t)
	reg, err := d.GetRegistry()
	require.NoError(t, err)
	globals, err := WatchGlobals(reg, nil)
	require.NoError(t, err)
	require.NoError(t, d.Flush())
	s.mustRead(t, DisplayInterface, "get_registry")

	s.mustSend(t, reg.ID(), RegistryEvtGlobal, wire.Uint(4), wire.String("wl_output"), wire.Uint(4))
	s.mustSend(t, reg.ID(), RegistryEvtGlobal, wire.Uint(5), wire.String("wl_output"), wire.Uint(2))
	s.mustSend(t, reg.ID(), RegistryEvtGlobalRemove, wire.Uint(4))
	dispatchAtLeast(t, d, 3)

	_, ok := globals.Lookup(4)
	assert.False(t, ok)
	gl, ok := globals.Find("wl_output")
	require.True(t, ok)
	assert.Equal(t, Global{Name: 5, Interface: "wl_output", Version: 2}, gl)
}

func TestRoundtripReleasesCallbackID(t *testing.T) {
	tests := []struct {
		name        string
		deleteFirst bool
	}{
		{name: "done then delete_id"},
		{name: "delete_id then done", deleteFirst: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, s := newTestDisplay(t)
			_, err := d.GetRegistry()
			require.NoError(t, err)

			var g errgroup.Group
			g.Go(func() error {
				if _, err := s.expect(DisplayInterface, "get_registry"); err != nil {
					return err
				}
				req, err := s.expect(DisplayInterface, "sync")
				if err != nil {
					return err
				}
				if id := req.Args[0].Value; id != 3 {
					return fmt.Errorf("sync allocated id %d", id)
				}
				return s.answerSync(req, 0, tt.deleteFirst)
			})
			require.NoError(t, d.Roundtrip())
			require.NoError(t, g.Wait())

			assert.True(t, isFree(d, 3), "callback id not released")
			cb, err := d.Sync()
			require.NoError(t, err)
			assert.Equal(t, uint32(3), cb.ID())
		})
	}
}

func TestBindDynamicNewID(t *testing.T) {
	d, s := newTestDisplay(t)

	var boundID uint32
	var g errgroup.Group
	g.Go(func() error {
		req, err := s.expect(DisplayInterface, "get_registry")
		if err != nil {
			return err
		}
		if err := s.send(req.Args[0].Value, RegistryEvtGlobal, wire.Uint(7), wire.String("wl_shm"), wire.Uint(1)); err != nil {
			return err
		}
		if req, err = s.read(); err != nil {
			return err
		}
		if err := s.answerSync(req, 0, false); err != nil {
			return err
		}

		req, err = s.expect(RegistryInterface, "bind")
		if err != nil {
			return err
		}
		want := wire.NewID{Interface: "wl_shm", Version: 1, ID: req.Args[1].Value}
		if req.Args[0].Uint() != 7 || req.Args[1].NewID() != want {
			return fmt.Errorf("bad bind arguments %v", req.Args)
		}
		boundID = req.Args[1].Value
		for _, f := range []ShmFormat{ShmFormatArgb8888, ShmFormatXrgb8888} {
			if err := s.send(boundID, ShmEvtFormat, wire.Uint(uint32(f))); err != nil {
				return err
			}
		}
		if req, err = s.read(); err != nil {
			return err
		}
		return s.answerSync(req, 0, false)
	})

	reg, err := d.GetRegistry()
	require.NoError(t, err)
	globals, err := WatchGlobals(reg, nil)
	require.NoError(t, err)
	require.NoError(t, d.Roundtrip())

	gl, ok := globals.Lookup(7)
	require.True(t, ok)
	shm, err := BindGlobal[Shm](reg, gl, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), shm.Version())

	var formats []ShmFormat
	require.NoError(t, shm.SetHandler(func(ev ShmEvent) {
		if ev, ok := ev.(ShmFormatEvent); ok {
			formats = append(formats, ev.Format)
		}
	}))
	require.NoError(t, d.Roundtrip())
	require.NoError(t, g.Wait())

	assert.Equal(t, boundID, shm.ID())
	assert.Equal(t, []ShmFormat{ShmFormatArgb8888, ShmFormatXrgb8888}, formats)
	assert.Equal(t, "xrgb8888", formats[1].String())
}

func TestBindGlobalRejectsMismatch(t *testing.T) {
	d, _ := newTestDisplay(t)
	reg, err := d.GetRegistry()
	require.NoError(t, err)

	_, err = BindGlobal[Shm](reg, Global{Name: 1, Interface: "wl_output", Version: 4}, 0)
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, LocalInvariantViolation, KindOf(err))

	_, err = reg.Bind(1, OutputInterface, OutputInterface.Version+1)
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, StateReady, d.State())
}

func TestCreatePoolPassesFD(t *testing.T) {
	d, s := newTestDisplay(t)
	shm := Wrap[Shm](bindTest(t, d, s, ShmInterface, 1))

	pool, err := NewMappedPool(shm, 4096)
	require.NoError(t, err)
	copy(pool.Data(), "pixels")
	require.NoError(t, d.Flush())

	req := s.mustRead(t, ShmInterface, "create_pool")
	assert.Equal(t, pool.ID(), req.Args[0].Value)
	assert.Equal(t, int32(4096), req.Args[2].Int())
	assert.Empty(t, s.fds, "descriptor delivered more than once")

	fd := req.Args[1].FD
	t.Cleanup(func() { _ = unix.Close(fd) })
	var st unix.Stat_t
	require.NoError(t, unix.Fstat(fd, &st))
	assert.Equal(t, int64(4096), st.Size)
	buf := make([]byte, 6)
	_, err = unix.Pread(fd, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(buf))

	buffer, err := pool.Buffer(0, 32, 32, 128, ShmFormatXrgb8888)
	require.NoError(t, err)
	_, err = pool.Buffer(0, 64, 64, 256, ShmFormatXrgb8888)
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.NoError(t, pool.Close())
	require.NoError(t, d.Flush())

	req = s.mustRead(t, ShmPoolInterface, "create_buffer")
	assert.Equal(t, buffer.ID(), req.Args[0].Value)
	assert.Equal(t, uint32(ShmFormatXrgb8888), req.Args[5].Uint())
	s.mustRead(t, ShmPoolInterface, "destroy")
}

func TestPeerErrorBreaksConnection(t *testing.T) {
	d, s := newTestDisplay(t)

	// The typed path refuses unknown opcodes without touching the socket.
	err := d.Send(NewRequest(9999))
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.Equal(t, LocalInvariantViolation, KindOf(err))

	d.mu.Lock()
	require.NoError(t, d.sock.queue(rawFrame(DisplayID, 9999), nil))
	d.mu.Unlock()
	require.NoError(t, d.Flush())

	req, err := s.read()
	require.NoError(t, err)
	require.Nil(t, req.Msg)
	require.Equal(t, uint16(9999), req.Opcode)
	s.mustSend(t, DisplayID, DisplayEvtError,
		wire.Object(DisplayID), wire.Uint(uint32(DisplayErrorInvalidMethod)), wire.String("invalid method 9999, object wl_display#1"))

	_, err = d.Dispatch()
	var pe *PeerError
	require.ErrorAs(t, err, &pe)
	want := &PeerError{ObjectID: 1, Interface: "wl_display", Code: 1, Message: "invalid method 9999, object wl_display#1"}
	assert.Equal(t, want, pe)
	assert.Equal(t, PeerErrorKind, KindOf(err))
	assert.Equal(t, StateBroken, d.State())
	assert.Equal(t, want, d.ProtocolError())

	_, err = d.Sync()
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, PeerErrorKind, KindOf(err))
	_, err = d.Dispatch()
	assert.ErrorIs(t, err, &Error{Kind: PeerErrorKind})
}

func TestDoneCallbackRejectsRequests(t *testing.T) {
	d, s := newTestDisplay(t)
	cb, err := d.Sync()
	require.NoError(t, err)

	var got []CallbackEvent
	require.NoError(t, cb.SetHandler(func(ev CallbackEvent) { got = append(got, ev) }))
	require.NoError(t, d.Flush())
	req, err := s.read()
	require.NoError(t, err)
	require.NoError(t, s.answerSync(req, 42, false))
	dispatchAtLeast(t, d, 2)

	assert.Equal(t, []CallbackEvent{CallbackDoneEvent{CallbackData: 42}}, got)
	assert.False(t, cb.Alive())

	err = cb.Send(NewRequest(0))
	require.ErrorIs(t, err, ErrObjectDestroyed)
	assert.Equal(t, LocalInvariantViolation, KindOf(err))
	assert.Equal(t, StateReady, d.State())
}

func TestVersionGating(t *testing.T) {
	d, s := newTestDisplay(t)
	comp := Wrap[Compositor](bindTest(t, d, s, CompositorInterface, 3))
	surf, err := comp.CreateSurface()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), surf.Version())

	err = surf.DamageBuffer(0, 0, 1, 1)
	require.ErrorIs(t, err, ErrVersionTooLow)
	assert.Equal(t, LocalInvariantViolation, KindOf(err))
	require.NoError(t, surf.SetBufferScale(2))
	require.NoError(t, d.Flush())

	s.mustRead(t, CompositorInterface, "create_surface")
	// Nothing reached the wire for the rejected request.
	req := s.mustRead(t, SurfaceInterface, "set_buffer_scale")
	assert.Equal(t, int32(2), req.Args[0].Int())
	assert.Equal(t, StateReady, d.State())
}

func TestEventAboveObjectVersion(t *testing.T) {
	d, s := newTestDisplay(t)
	comp := Wrap[Compositor](bindTest(t, d, s, CompositorInterface, 3))
	surf, err := comp.CreateSurface()
	require.NoError(t, err)
	require.NoError(t, d.Flush())
	s.mustRead(t, CompositorInterface, "create_surface")

	s.mustSend(t, surf.ID(), SurfaceEvtPreferredBufferScale, wire.Int(2))
	_, err = d.Dispatch()
	assert.ErrorIs(t, err, &Error{Kind: ProtocolViolation})
	assert.Equal(t, StateBroken, d.State())
}

func TestDestroyThenRequest(t *testing.T) {
	d, s := newTestDisplay(t)
	comp := Wrap[Compositor](bindTest(t, d, s, CompositorInterface, 6))
	surf, err := comp.CreateSurface()
	require.NoError(t, err)
	id := surf.ID()

	require.NoError(t, surf.Destroy())
	err = surf.Commit()
	require.ErrorIs(t, err, ErrObjectDestroyed)
	assert.Equal(t, LocalInvariantViolation, KindOf(err))
	require.NoError(t, d.Flush())

	s.mustRead(t, CompositorInterface, "create_surface")
	s.mustRead(t, SurfaceInterface, "destroy")

	// Events still in flight for the zombie are dropped.
	s.mustSend(t, id, SurfaceEvtPreferredBufferScale, wire.Int(2))
	assert.False(t, isFree(d, id))
	s.mustSend(t, DisplayID, DisplayEvtDeleteID, wire.Uint(id))
	dispatchAtLeast(t, d, 1)
	assert.True(t, isFree(d, id))
	assert.Equal(t, StateReady, d.State())
}

func TestNullObjectArguments(t *testing.T) {
	d, s := newTestDisplay(t)
	comp := Wrap[Compositor](bindTest(t, d, s, CompositorInterface, 6))
	surf, err := comp.CreateSurface()
	require.NoError(t, err)
	require.NoError(t, surf.Attach(nil, 0, 0))
	require.NoError(t, d.Flush())

	s.mustRead(t, CompositorInterface, "create_surface")
	req := s.mustRead(t, SurfaceInterface, "attach")
	assert.Equal(t, uint32(0), req.Args[0].ObjectID())

	require.NoError(t, s.write(rawFrame(surf.ID(), SurfaceEvtEnter, 0), nil))
	_, err = d.Dispatch()
	require.ErrorIs(t, err, wire.ErrNullArg)
	assert.Equal(t, ProtocolViolation, KindOf(err))
}

func TestNullObjectRequestRejected(t *testing.T) {
	d, s := newTestDisplay(t)
	factory := bindTest(t, d, s, testFactoryInterface, 1)

	err := factory.Send(NewRequest(2, wire.Object(0)))
	require.ErrorIs(t, err, wire.ErrNullArg)
	assert.Equal(t, LocalInvariantViolation, KindOf(err))
	assert.Equal(t, StateReady, d.State())
}

func TestFDOrdering(t *testing.T) {
	d, s := newTestDisplay(t)
	factory := bindTest(t, d, s, testFactoryInterface, 1)

	pipe := func() (r, w int) {
		var p [2]int
		require.NoError(t, unix.Pipe2(p[:], unix.O_CLOEXEC))
		t.Cleanup(func() {
			_ = unix.Close(p[0])
			_ = unix.Close(p[1])
		})
		return p[0], p[1]
	}
	readByte := func(fd int) string {
		b := make([]byte, 1)
		n, err := unix.Read(fd, b)
		require.NoError(t, err)
		return string(b[:n])
	}

	// client to compositor
	ar, aw := pipe()
	br, bw := pipe()
	require.NoError(t, factory.Send(NewRequest(0, wire.FD(ar), wire.Uint(5), wire.FD(br))))
	require.NoError(t, d.Flush())
	req := s.mustRead(t, testFactoryInterface, "pass")
	defer unix.Close(req.Args[0].FD)
	defer unix.Close(req.Args[2].FD)
	_, err := unix.Write(aw, []byte("a"))
	require.NoError(t, err)
	_, err = unix.Write(bw, []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, "a", readByte(req.Args[0].FD))
	assert.Equal(t, "b", readByte(req.Args[2].FD))

	// compositor to client
	cr, cw := pipe()
	dr, dw := pipe()
	_, err = unix.Write(cw, []byte("c"))
	require.NoError(t, err)
	_, err = unix.Write(dw, []byte("d"))
	require.NoError(t, err)
	frame, fds, err := s.frame(factory.ID(), 1, wire.FD(cr), wire.FD(dr))
	require.NoError(t, err)
	require.NoError(t, s.write(frame, fds))

	var got []string
	require.NoError(t, factory.SetDispatcher(DispatcherFunc(func(ev *Event) {
		for i := 0; i < 2; i++ {
			fd := ev.FD()
			got = append(got, readByte(fd))
			_ = unix.Close(fd)
		}
	})))
	dispatchAtLeast(t, d, 1)
	assert.Equal(t, []string{"c", "d"}, got)
}

func TestServerCreatedObjects(t *testing.T) {
	d, s := newTestDisplay(t)
	factory := bindTest(t, d, s, testFactoryInterface, 1)

	var child *Proxy
	pings := 0
	require.NoError(t, factory.SetDispatcher(DispatcherFunc(func(ev *Event) {
		switch ev.Message.Name {
		case "created":
			child = ev.Object()
			require.NoError(t, child.SetDispatcher(DispatcherFunc(func(*Event) { pings++ })))
		case "child":
			assert.True(t, ev.Object().Equal(child))
		}
	})))

	s.mustSend(t, factory.ID(), 0, wire.NewIDArg(ServerIDStart))
	dispatchAtLeast(t, d, 1)
	require.NotNil(t, child)
	assert.Equal(t, ServerIDStart, child.ID())
	assert.Equal(t, "wlclient_test_child", child.Interface().Name)
	assert.Equal(t, factory.Version(), child.Version())
	assert.True(t, child.IsMain())

	s.mustSend(t, ServerIDStart, 0)
	s.mustSend(t, factory.ID(), 2, wire.Object(ServerIDStart))
	dispatchAtLeast(t, d, 2)
	assert.Equal(t, 1, pings)

	// A second object with the same id means the peers disagree.
	s.mustSend(t, factory.ID(), 0, wire.NewIDArg(ServerIDStart))
	_, err := d.Dispatch()
	require.ErrorIs(t, err, ErrIDInUse)
	assert.Equal(t, ProtocolViolation, KindOf(err))
}

func TestServerObjectOutsideServerRange(t *testing.T) {
	d, s := newTestDisplay(t)
	factory := bindTest(t, d, s, testFactoryInterface, 1)

	s.mustSend(t, factory.ID(), 0, wire.NewIDArg(40))
	_, err := d.Dispatch()
	require.ErrorIs(t, err, ErrBadServerID)
	assert.Equal(t, ProtocolViolation, KindOf(err))
}

func TestDiscardedEventChildrenKeepFDOrder(t *testing.T) {
	d, s := newTestDisplay(t)
	gone := bindTest(t, d, s, testFactoryInterface, 1)
	live := bindTest(t, d, s, testFactoryInterface, 1)

	require.NoError(t, gone.Send(NewRequest(1)))
	require.NoError(t, d.Flush())
	s.mustRead(t, testFactoryInterface, "destroy")

	var (
		got     []string
		created *Proxy
	)
	require.NoError(t, live.SetDispatcher(DispatcherFunc(func(ev *Event) {
		switch ev.Message.Name {
		case "created":
			created = ev.Object()
		case "passed":
			for i := 0; i < 2; i++ {
				fd := ev.FD()
				got = append(got, readPipe(t, fd))
				_ = unix.Close(fd)
			}
		}
	})))

	// Sent before the compositor saw the destroy: the child is never
	// handed out, yet its descriptor must not reach the live factory.
	s.mustSend(t, gone.ID(), 0, wire.NewIDArg(ServerIDStart))
	s.mustSend(t, ServerIDStart, 1, wire.FD(pipeWith(t, "orphan")))
	s.mustSend(t, live.ID(), 1, wire.FD(pipeWith(t, "b")), wire.FD(pipeWith(t, "c")))
	dispatchAtLeast(t, d, 1)
	assert.Equal(t, []string{"b", "c"}, got)
	assert.Equal(t, StateReady, d.State())

	d.mu.Lock()
	assert.Zero(t, d.sock.inFDs.len())
	d.mu.Unlock()

	// the orphan's id is free for the compositor to reuse
	s.mustSend(t, live.ID(), 0, wire.NewIDArg(ServerIDStart))
	dispatchAtLeast(t, d, 1)
	require.NotNil(t, created)
	assert.Equal(t, ServerIDStart, created.ID())
	assert.True(t, created.Alive())
}

func TestTooManyFDsRejected(t *testing.T) {
	d, s := newTestDisplay(t)
	factory := bindTest(t, d, s, testFactoryInterface, 1)

	fd := pipeWith(t, "x")
	args := make([]wire.Arg, maxFDsOut+1)
	for i := range args {
		args[i] = wire.FD(fd)
	}
	err := factory.Send(NewRequest(testFactoryReqPassMany, args...))
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, LocalInvariantViolation, KindOf(err))
	assert.Equal(t, StateReady, d.State())

	// the rejected request left nothing behind
	require.NoError(t, factory.Send(NewRequest(0, wire.FD(fd), wire.Uint(7), wire.FD(fd))))
	require.NoError(t, d.Flush())
	req := s.mustRead(t, testFactoryInterface, "pass")
	defer unix.Close(req.Args[0].FD)
	defer unix.Close(req.Args[2].FD)
	assert.Equal(t, uint32(7), req.Args[1].Value)
}

func TestObjectArgumentInterfaceMismatch(t *testing.T) {
	d, s := newTestDisplay(t)
	factory := bindTest(t, d, s, testFactoryInterface, 1)

	// id 2 is the registry, not a child
	require.NoError(t, s.write(rawFrame(factory.ID(), 2, 2), nil))
	_, err := d.Dispatch()
	assert.Equal(t, ProtocolViolation, KindOf(err))
	assert.True(t, strings.Contains(err.Error(), "wl_registry#2 is not a wlclient_test_child"), err.Error())
}

func TestUnknownSenderDiscarded(t *testing.T) {
	d, s := newTestDisplay(t)
	_, err := d.Sync()
	require.NoError(t, err)
	require.NoError(t, d.Flush())
	req, err := s.read()
	require.NoError(t, err)

	require.NoError(t, s.write(rawFrame(77, 0, 1, 2), nil))
	require.NoError(t, s.answerSync(req, 0, false))
	dispatchAtLeast(t, d, 2)
	assert.Equal(t, StateReady, d.State())
}

func TestTruncatedEventIsFatal(t *testing.T) {
	d, s := newTestDisplay(t)
	reg, err := d.GetRegistry()
	require.NoError(t, err)
	require.NoError(t, d.Flush())
	s.mustRead(t, DisplayInterface, "get_registry")

	// global(name, interface, version) with a string length running past
	// the end of the frame
	require.NoError(t, s.write(rawFrame(reg.ID(), RegistryEvtGlobal, 1, 64, 0), nil))
	_, err = d.Dispatch()
	assert.Equal(t, CodecError, KindOf(err))
	assert.Equal(t, StateBroken, d.State())
}

func TestConcurrentSenders(t *testing.T) {
	d, s := newTestDisplay(t)
	comp := Wrap[Compositor](bindTest(t, d, s, CompositorInterface, 6))

	const workers, perWorker = 8, 16
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for j := 0; j < perWorker; j++ {
				surf, err := comp.CreateSurface()
				if err != nil {
					return err
				}
				if err := surf.Commit(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.NoError(t, d.Flush())

	created := make(map[uint32]bool)
	for i := 0; i < 2*workers*perWorker; i++ {
		req, err := s.read()
		require.NoError(t, err)
		require.NotNil(t, req.Msg)
		switch req.Msg.Name {
		case "create_surface":
			id := req.Args[0].Value
			require.False(t, created[id], "id %d allocated twice", id)
			created[id] = true
		case "commit":
			require.True(t, created[req.Sender], "commit before create_surface for %d", req.Sender)
		default:
			t.Fatalf("unexpected %s", req)
		}
	}
	assert.Len(t, created, workers*perWorker)
}

func TestDropPolicy(t *testing.T) {
	t.Run("sends destructor", func(t *testing.T) {
		d, s := newTestDisplay(t)
		comp := Wrap[Compositor](bindTest(t, d, s, CompositorInterface, 6))
		surf, err := comp.CreateSurface()
		require.NoError(t, err)
		shared := surf.Share()
		assert.False(t, shared.IsMain())
		require.Error(t, shared.SetDispatcher(nil))

		require.NoError(t, surf.Drop())
		require.NoError(t, surf.Drop())
		assert.True(t, shared.Alive())
		_, err = comp.CreateRegion()
		require.NoError(t, err)
		require.NoError(t, shared.Drop())
		assert.False(t, shared.Alive())
		require.NoError(t, d.Flush())

		s.mustRead(t, CompositorInterface, "create_surface")
		s.mustRead(t, CompositorInterface, "create_region")
		s.mustRead(t, SurfaceInterface, "destroy")
	})

	t.Run("silent", func(t *testing.T) {
		d, s := newTestDisplay(t, WithDropPolicy(DropSilently))
		comp := Wrap[Compositor](bindTest(t, d, s, CompositorInterface, 6))
		surf, err := comp.CreateSurface()
		require.NoError(t, err)

		destroyed := 0
		require.NoError(t, surf.SetDispatcher(destroyCounter{&destroyed}))
		require.NoError(t, surf.Drop())
		assert.False(t, surf.Alive())
		assert.Equal(t, 1, destroyed)
		_, err = comp.CreateRegion()
		require.NoError(t, err)
		require.NoError(t, d.Flush())

		s.mustRead(t, CompositorInterface, "create_surface")
		s.mustRead(t, CompositorInterface, "create_region")
	})
}

type destroyCounter struct{ n *int }

func (destroyCounter) HandleEvent(*Event) {}

func (c destroyCounter) Destroy(*Proxy) { *c.n++ }

func TestCloseWakesDispatch(t *testing.T) {
	d, _ := newTestDisplay(t)
	cb, err := d.Sync()
	require.NoError(t, err)
	destroyed := 0
	require.NoError(t, cb.SetDispatcher(destroyCounter{&destroyed}))

	errc := make(chan error, 1)
	go func() {
		_, err := d.Dispatch()
		errc <- err
	}()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, d.Close())

	select {
	case err := <-errc:
		require.ErrorIs(t, err, ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("Dispatch still blocked after Close")
	}
	assert.Equal(t, StateClosed, d.State())
	assert.Equal(t, 1, destroyed)
	require.NoError(t, d.Close())

	_, err = d.Sync()
	require.ErrorIs(t, err, ErrClosed)
}

func TestPeerHangup(t *testing.T) {
	d, s := newTestDisplay(t)
	require.NoError(t, unix.Shutdown(s.fd, unix.SHUT_WR))

	_, err := d.Dispatch()
	assert.Equal(t, TransportError, KindOf(err))
	assert.Equal(t, StateBroken, d.State())
	assert.Same(t, d.Err(), err)
}

func TestDebugTrace(t *testing.T) {
	var mu sync.Mutex
	var buf bytes.Buffer
	d, s := newTestDisplay(t, WithDebug(true), WithDebugOutput(lockedWriter{&mu, &buf}))

	_, err := d.Sync()
	require.NoError(t, err)
	require.NoError(t, d.Flush())
	req, err := s.read()
	require.NoError(t, err)
	require.NoError(t, s.answerSync(req, 7, false))
	dispatchAtLeast(t, d, 2)

	mu.Lock()
	out := buf.String()
	mu.Unlock()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^\[ *\d+\.\d{3}\]  -> wl_display#1\.sync\(new id wl_callback#2\)$`, lines[0])
	assert.Regexp(t, `\] wl_callback#2\.done\(7\)$`, lines[1])
	assert.Regexp(t, `\] wl_display#1\.delete_id\(2\)$`, lines[2])
}

type lockedWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func TestErrorKinds(t *testing.T) {
	err := &Error{Kind: CodecError, Op: "read", Err: wire.ErrTruncated}
	assert.True(t, errors.Is(err, wire.ErrTruncated))
	assert.True(t, errors.Is(err, &Error{Kind: CodecError}))
	assert.False(t, errors.Is(err, &Error{Kind: TransportError}))
	assert.Equal(t, "wlclient: read: malformed message: argument runs past end of message", err.Error())
	assert.True(t, CodecError.Fatal())
	assert.False(t, LocalInvariantViolation.Fatal())
	assert.Equal(t, ErrorKind(0), KindOf(errors.New("other")))
}
