//go:build linux

package wlclient

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/bnema/wlclient/proto"
	"github.com/bnema/wlclient/wire"
)

const (
	// maxFDsOut is the most descriptors sent with one sendmsg. libwayland
	// servers reject larger batches.
	maxFDsOut = 28
	// maxFDsIn bounds descriptors received but not yet claimed by a message.
	maxFDsIn = 1024
	// outBufferSize bounds bytes queued for the socket before a flush is
	// forced.
	outBufferSize = 64 << 10
	// inBufferSize holds at least one frame of the largest size.
	inBufferSize = 128 << 10
	// scmMaxFD is the kernel's limit on descriptors in one control message.
	scmMaxFD = 253
)

// fdQueue is a bounded FIFO of received file descriptors.
type fdQueue struct {
	items [maxFDsIn]int
	head  int
	n     int
}

func (q *fdQueue) push(fd int) bool {
	if q.n == len(q.items) {
		return false
	}
	q.items[(q.head+q.n)%len(q.items)] = fd
	q.n++
	return true
}

// NextFD removes and returns the oldest descriptor.
func (q *fdQueue) NextFD() (int, bool) {
	if q.n == 0 {
		return -1, false
	}
	fd := q.items[q.head]
	q.head = (q.head + 1) % len(q.items)
	q.n--
	return fd, true
}

func (q *fdQueue) len() int { return q.n }

func (q *fdQueue) closeAll() {
	for {
		fd, ok := q.NextFD()
		if !ok {
			return
		}
		_ = unix.Close(fd)
	}
}

// socket is a non-blocking Wayland stream with buffered output and an
// ancillary descriptor queue in each direction. It is not safe for
// concurrent use; the Display serializes access.
type socket struct {
	fd int

	out    []byte
	outFDs []int // duplicates owned by the socket until sent

	in    []byte
	inOff int
	inFDs fdQueue
	oob   []byte
}

func newSocket(fd int) (*socket, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, os.NewSyscallError("setnonblock", err)
	}
	unix.CloseOnExec(fd)
	return &socket{
		fd:  fd,
		out: make([]byte, 0, outBufferSize),
		in:  make([]byte, 0, inBufferSize),
		oob: make([]byte, unix.CmsgSpace(4*scmMaxFD)),
	}, nil
}

func dialSocket(path string) (int, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, os.NewSyscallError("socket", err)
	}
	err = ignoreEINTR(func() error {
		return unix.Connect(fd, &unix.SockaddrUnix{Name: path})
	})
	if err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("connect %s: %w", path, err)
	}
	return fd, nil
}

// This function is used to automatically retry syscalls when they return
// EINTR due to having handled a signal instead of executing.
func ignoreEINTR(f func() error) error {
	for {
		if err := f(); err != unix.EINTR {
			return err
		}
	}
}

// queue appends an encoded frame and its descriptors to the output buffer.
// When either bound would overflow, pending output is drained first,
// blocking until the socket accepts enough of it.
func (s *socket) queue(frame []byte, fds []int) error {
	if len(fds) > maxFDsOut {
		return &Error{Kind: LocalInvariantViolation, Op: "queue",
			Err: fmt.Errorf("%w: %d file descriptors in one message, limit is %d", ErrInvalidRequest, len(fds), maxFDsOut)}
	}
	for len(s.outFDs)+len(fds) > maxFDsOut || len(s.out)+len(frame) > outBufferSize {
		if err := s.flush(true); err != nil {
			return err
		}
	}
	dups := make([]int, 0, len(fds))
	for _, fd := range fds {
		dup, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
		if err != nil {
			for _, d := range dups {
				_ = unix.Close(d)
			}
			return &Error{Kind: LocalInvariantViolation, Op: "queue", Err: os.NewSyscallError("dup", err)}
		}
		dups = append(dups, dup)
	}
	s.out = append(s.out, frame...)
	s.outFDs = append(s.outFDs, dups...)
	return nil
}

// flush writes buffered output. Without block it returns ErrWouldBlock as
// soon as the socket stops accepting data.
func (s *socket) flush(block bool) error {
	for len(s.out) > 0 {
		var oob []byte
		if len(s.outFDs) > 0 {
			oob = unix.UnixRights(s.outFDs...)
		}
		n, err := unix.SendmsgN(s.fd, s.out, oob, nil, unix.MSG_DONTWAIT|unix.MSG_NOSIGNAL)
		switch err {
		case nil:
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			if !block {
				return ErrWouldBlock
			}
			if err := s.wait(unix.POLLOUT); err != nil {
				return err
			}
			continue
		default:
			return os.NewSyscallError("sendmsg", err)
		}
		if n > 0 && len(s.outFDs) > 0 {
			// Ancillary data travels with the first byte written.
			for _, fd := range s.outFDs {
				_ = unix.Close(fd)
			}
			s.outFDs = s.outFDs[:0]
		}
		s.out = s.out[:copy(s.out, s.out[n:])]
	}
	return nil
}

// read receives whatever the socket has available, appending bytes to the
// input buffer and descriptors to the input queue. It returns the number
// of bytes read, io.EOF when the peer closed the connection, and
// ErrWouldBlock when nothing was available and block is false.
func (s *socket) read(block bool) (int, error) {
	if s.inOff > 0 {
		s.in = s.in[:copy(s.in, s.in[s.inOff:])]
		s.inOff = 0
	}
	if len(s.in) == cap(s.in) {
		return 0, fmt.Errorf("input buffer full (%d bytes)", len(s.in))
	}
	for {
		n, oobn, flags, _, err := unix.Recvmsg(s.fd, s.in[len(s.in):cap(s.in)], s.oob, unix.MSG_DONTWAIT|unix.MSG_CMSG_CLOEXEC)
		switch err {
		case nil:
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			if !block {
				return 0, ErrWouldBlock
			}
			if err := s.wait(unix.POLLIN); err != nil {
				return 0, err
			}
			continue
		default:
			return 0, os.NewSyscallError("recvmsg", err)
		}
		if oobn > 0 {
			if err := s.receiveFDs(s.oob[:oobn]); err != nil {
				return 0, err
			}
		}
		if flags&unix.MSG_CTRUNC != 0 {
			return 0, fmt.Errorf("ancillary data truncated")
		}
		if n == 0 {
			return 0, io.EOF
		}
		s.in = s.in[:len(s.in)+n]
		return n, nil
	}
}

func (s *socket) receiveFDs(oob []byte) error {
	scms, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return fmt.Errorf("parse control message: %w", err)
	}
	for i := range scms {
		if scms[i].Header.Level != unix.SOL_SOCKET || scms[i].Header.Type != unix.SCM_RIGHTS {
			continue
		}
		fds, err := unix.ParseUnixRights(&scms[i])
		if err != nil {
			return fmt.Errorf("parse unix rights: %w", err)
		}
		for j, fd := range fds {
			if !s.inFDs.push(fd) {
				for _, rest := range fds[j:] {
					_ = unix.Close(rest)
				}
				return fmt.Errorf("too many file descriptors pending (%d)", maxFDsIn)
			}
		}
	}
	return nil
}

// buffered returns the received bytes not yet consumed.
func (s *socket) buffered() []byte { return s.in[s.inOff:] }

func (s *socket) consume(n int) { s.inOff += n }

func (s *socket) wait(events int16) error {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: events}}
	for {
		_, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return os.NewSyscallError("poll", err)
		}
		if fds[0].Revents&unix.POLLNVAL != 0 {
			return os.NewSyscallError("poll", unix.EBADF)
		}
		return nil
	}
}

// shutdown wakes every goroutine blocked in poll on the socket.
func (s *socket) shutdown() {
	_ = unix.Shutdown(s.fd, unix.SHUT_RDWR)
}

// close releases the socket and every descriptor it still holds. Queued
// output is discarded.
func (s *socket) close() error {
	for _, fd := range s.outFDs {
		_ = unix.Close(fd)
	}
	s.outFDs = nil
	s.out = s.out[:0]
	s.inFDs.closeAll()
	return unix.Close(s.fd)
}

func closeArgFDs(args []wire.Arg) {
	for _, a := range args {
		if a.Type == proto.FD && a.FD >= 0 {
			_ = unix.Close(a.FD)
		}
	}
}

func closeFD(fd int) error { return unix.Close(fd) }
