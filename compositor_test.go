package wlclient

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/bnema/wlclient/proto"
	"github.com/bnema/wlclient/wire"
)

// Interfaces only the tests speak, covering what the core protocol lacks:
// several descriptors in one message and objects created by the compositor.
var testFactoryInterface = &proto.Interface{
	Name:    "wlclient_test_factory",
	Version: 2,
	Requests: []proto.Message{
		{Name: "pass", Since: 1, Args: []proto.Arg{
			{Name: "a", Type: proto.FD},
			{Name: "tag", Type: proto.Uint},
			{Name: "b", Type: proto.FD},
		}},
		{Name: "destroy", Since: 1, Destructor: true},
		{Name: "adopt", Since: 1, Args: []proto.Arg{
			{Name: "child", Type: proto.Object, Interface: "wlclient_test_child"},
		}},
	},
	Events: []proto.Message{
		{Name: "created", Since: 1, Args: []proto.Arg{
			{Name: "id", Type: proto.NewID, Interface: "wlclient_test_child"},
		}},
		{Name: "passed", Since: 1, Args: []proto.Arg{
			{Name: "a", Type: proto.FD},
			{Name: "b", Type: proto.FD},
		}},
		{Name: "child", Since: 1, Args: []proto.Arg{
			{Name: "child", Type: proto.Object, Interface: "wlclient_test_child"},
		}},
	},
}

var testChildInterface = &proto.Interface{
	Name:    "wlclient_test_child",
	Version: 2,
	Events: []proto.Message{
		{Name: "ping", Since: 1},
		{Name: "handle", Since: 1, Args: []proto.Arg{
			{Name: "fd", Type: proto.FD},
		}},
	},
}

// testFactoryReqPassMany carries one descriptor more than a single
// sendmsg may hold.
const testFactoryReqPassMany = 3

func init() {
	many := proto.Message{Name: "pass_many", Since: 1}
	for i := 0; i < maxFDsOut+1; i++ {
		many.Args = append(many.Args, proto.Arg{Name: fmt.Sprintf("fd%d", i), Type: proto.FD})
	}
	testFactoryInterface.Requests = append(testFactoryInterface.Requests, many)
	proto.Register(testFactoryInterface, testChildInterface)
}

// fakeCompositor is the server end of a socketpair. It decodes requests
// with the same descriptors as the client and writes events back.
type fakeCompositor struct {
	fd   int
	buf  []byte
	fds  []int
	objs map[uint32]*proto.Interface
}

type request struct {
	Sender uint32
	Opcode uint16
	Iface  *proto.Interface
	Msg    *proto.Message
	Args   []wire.Arg
}

func (r request) String() string {
	if r.Msg == nil {
		return fmt.Sprintf("%s#%d.<%d>", r.Iface.Name, r.Sender, r.Opcode)
	}
	return fmt.Sprintf("%s#%d.%s", r.Iface.Name, r.Sender, r.Msg.Name)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestDisplay(t *testing.T, opts ...Option) (*Display, *fakeCompositor) {
	t.Helper()
	pair, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)
	// A stuck test fails instead of hanging.
	require.NoError(t, unix.SetsockoptTimeval(pair[1], unix.SOL_SOCKET, unix.SO_RCVTIMEO, &unix.Timeval{Sec: 5}))

	opts = append([]Option{WithLogger(quietLogger()), WithDebug(false)}, opts...)
	d, err := ConnectFD(pair[0], opts...)
	require.NoError(t, err)

	s := &fakeCompositor{
		fd:   pair[1],
		objs: map[uint32]*proto.Interface{DisplayID: DisplayInterface},
	}
	t.Cleanup(func() {
		_ = d.Close()
		_ = unix.Close(s.fd)
		for _, fd := range s.fds {
			_ = unix.Close(fd)
		}
	})
	return d, s
}

// NextFD hands out received descriptors to wire.Decode. The compositor
// keeps no ownership of descriptors it has handed out.
func (s *fakeCompositor) NextFD() (int, bool) {
	if len(s.fds) == 0 {
		return -1, false
	}
	fd := s.fds[0]
	s.fds = s.fds[1:]
	return fd, true
}

func (s *fakeCompositor) read() (request, error) {
	for {
		if len(s.buf) >= wire.HeaderSize {
			h, err := wire.ParseHeader(s.buf)
			if err != nil {
				return request{}, err
			}
			if len(s.buf) >= int(h.Size) {
				return s.decode(h)
			}
		}
		b := make([]byte, 4096)
		oob := make([]byte, unix.CmsgSpace(4*maxFDsOut))
		n, oobn, _, _, err := unix.Recvmsg(s.fd, b, oob, unix.MSG_CMSG_CLOEXEC)
		if err != nil {
			return request{}, fmt.Errorf("recvmsg: %w", err)
		}
		if n == 0 {
			return request{}, io.EOF
		}
		if oobn > 0 {
			scms, err := unix.ParseSocketControlMessage(oob[:oobn])
			if err != nil {
				return request{}, err
			}
			for i := range scms {
				fds, err := unix.ParseUnixRights(&scms[i])
				if err != nil {
					return request{}, err
				}
				s.fds = append(s.fds, fds...)
			}
		}
		s.buf = append(s.buf, b[:n]...)
	}
}

func (s *fakeCompositor) decode(h wire.Header) (request, error) {
	body := s.buf[wire.HeaderSize:h.Size]
	defer func() { s.buf = s.buf[h.Size:] }()
	iface, ok := s.objs[h.Sender]
	if !ok {
		return request{}, fmt.Errorf("request for unknown object %d", h.Sender)
	}
	req := request{Sender: h.Sender, Opcode: h.Opcode, Iface: iface}
	msg, ok := iface.Request(h.Opcode)
	if !ok {
		return req, nil
	}
	args, err := wire.Decode(body, msg, s)
	if err != nil {
		return req, err
	}
	req.Msg, req.Args = msg, args
	if i := msg.NewIDArg(); i >= 0 {
		name := msg.Args[i].Interface
		if msg.Args[i].Dynamic() {
			name = args[i].Iface
		}
		child, ok := proto.Lookup(name)
		if !ok {
			return req, fmt.Errorf("new object of unknown interface %q", name)
		}
		s.objs[args[i].Value] = child
	}
	return req, nil
}

func (s *fakeCompositor) expect(iface *proto.Interface, name string) (request, error) {
	req, err := s.read()
	if err != nil {
		return req, err
	}
	if req.Iface.Name != iface.Name || req.Msg == nil || req.Msg.Name != name {
		return req, fmt.Errorf("%w: got %s, want %s.%s", errUnexpected, req, iface.Name, name)
	}
	return req, nil
}

func (s *fakeCompositor) mustRead(t *testing.T, iface *proto.Interface, name string) request {
	t.Helper()
	req, err := s.expect(iface, name)
	require.NoError(t, err)
	return req
}

func (s *fakeCompositor) frame(sender uint32, opcode uint16, args ...wire.Arg) ([]byte, []int, error) {
	iface, ok := s.objs[sender]
	if !ok {
		return nil, nil, fmt.Errorf("event from unknown object %d", sender)
	}
	msg, ok := iface.Event(opcode)
	if !ok {
		return nil, nil, fmt.Errorf("%s has no event %d", iface.Name, opcode)
	}
	frame, fds, err := wire.Encode(nil, sender, opcode, msg, args)
	if err != nil {
		return nil, nil, err
	}
	if i := msg.NewIDArg(); i >= 0 {
		child, _ := proto.Lookup(msg.Args[i].Interface)
		s.objs[args[i].Value] = child
	}
	return frame, fds, nil
}

func (s *fakeCompositor) send(sender uint32, opcode uint16, args ...wire.Arg) error {
	frame, fds, err := s.frame(sender, opcode, args...)
	if err != nil {
		return err
	}
	return s.write(frame, fds)
}

func (s *fakeCompositor) write(b []byte, fds []int) error {
	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}
	return unix.Sendmsg(s.fd, b, oob, nil, 0)
}

func (s *fakeCompositor) mustSend(t *testing.T, sender uint32, opcode uint16, args ...wire.Arg) {
	t.Helper()
	require.NoError(t, s.send(sender, opcode, args...))
}

// rawFrame builds a frame without any validation.
func rawFrame(sender uint32, opcode uint16, words ...uint32) []byte {
	b := make([]byte, wire.HeaderSize+4*len(words))
	wire.PutHeader(b, wire.Header{Sender: sender, Opcode: opcode, Size: uint16(len(b))})
	for i, w := range words {
		wire.ByteOrder.PutUint32(b[wire.HeaderSize+4*i:], w)
	}
	return b
}

// answerSync serves one wl_display.sync: the callback fires and its id is
// released, optionally in the opposite order.
func (s *fakeCompositor) answerSync(req request, serial uint32, deleteFirst bool) error {
	if req.Msg == nil || req.Msg.Name != "sync" {
		return fmt.Errorf("expected wl_display.sync, got %s", req)
	}
	id := req.Args[0].Value
	done, _, err := s.frame(id, CallbackEvtDone, wire.Uint(serial))
	if err != nil {
		return err
	}
	del, _, err := s.frame(DisplayID, DisplayEvtDeleteID, wire.Uint(id))
	if err != nil {
		return err
	}
	delete(s.objs, id)
	if deleteFirst {
		return s.write(append(del, done...), nil)
	}
	return s.write(append(done, del...), nil)
}

// dispatchAtLeast dispatches until n events have been handled.
func dispatchAtLeast(t *testing.T, d *Display, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for got := 0; got < n; {
		require.True(t, time.Now().Before(deadline), "dispatched %d of %d events", got, n)
		k, err := d.Dispatch()
		require.NoError(t, err)
		got += k
	}
}

func isFree(d *Display, id uint32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.objects.isFree(id)
}

// bindTest binds a global of the given interface and version without a
// registry roundtrip; the fake compositor accepts any bind.
func bindTest(t *testing.T, d *Display, s *fakeCompositor, iface *proto.Interface, version uint32) *Proxy {
	t.Helper()
	reg, err := d.GetRegistry()
	require.NoError(t, err)
	p, err := reg.Bind(1, iface, version)
	require.NoError(t, err)
	require.NoError(t, d.Flush())
	s.mustRead(t, DisplayInterface, "get_registry")
	req := s.mustRead(t, RegistryInterface, "bind")
	require.Equal(t, p.ID(), req.Args[1].Value)
	return p
}

var errUnexpected = errors.New("unexpected request")

// pipeWith returns the read end of a pipe holding content. Both ends are
// closed when the test ends.
func pipeWith(t *testing.T, content string) int {
	t.Helper()
	var p [2]int
	require.NoError(t, unix.Pipe2(p[:], unix.O_CLOEXEC))
	t.Cleanup(func() {
		_ = unix.Close(p[0])
		_ = unix.Close(p[1])
	})
	_, err := unix.Write(p[1], []byte(content))
	require.NoError(t, err)
	return p[0]
}

func readPipe(t *testing.T, fd int) string {
	t.Helper()
	b := make([]byte, 16)
	n, err := unix.Read(fd, b)
	require.NoError(t, err)
	return string(b[:n])
}
