//go:build linux

package wlclient

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CreateAnonymousFile returns a sealed, close-on-exec memory file of the
// given size, suitable for sharing with the compositor.
func CreateAnonymousFile(size int64) (int, error) {
	fd, err := unix.MemfdCreate("wlclient-shm", unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err == nil {
		if err := unix.Ftruncate(fd, size); err != nil {
			_ = unix.Close(fd)
			return -1, os.NewSyscallError("ftruncate", err)
		}
		// Add seals to prevent resizing
		_, err = unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, unix.F_SEAL_SHRINK|unix.F_SEAL_GROW|unix.F_SEAL_SEAL)
		if err != nil {
			_ = unix.Close(fd)
			return -1, os.NewSyscallError("fcntl", err)
		}
		return fd, nil
	}

	// Kernels without memfd: an unnamed file in /dev/shm.
	fd, err = unix.Open("/dev/shm", unix.O_TMPFILE|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return -1, os.NewSyscallError("open", err)
	}
	if err := unix.Ftruncate(fd, size); err != nil {
		_ = unix.Close(fd)
		return -1, os.NewSyscallError("ftruncate", err)
	}
	return fd, nil
}

// MappedPool is a memory-mapped file shared with the compositor through a
// wl_shm_pool.
type MappedPool struct {
	*ShmPool
	fd   int
	data []byte
}

// NewMappedPool allocates size bytes of shared memory and announces them with
// wl_shm.create_pool. The descriptor is passed to the compositor; the
// mapping stays with the caller until Close.
func NewMappedPool(shm *Shm, size int) (*MappedPool, error) {
	if size <= 0 {
		return nil, localError("create pool", fmt.Errorf("%w: pool size %d", ErrInvalidRequest, size))
	}
	fd, err := CreateAnonymousFile(int64(size))
	if err != nil {
		return nil, localError("create pool", err)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, localError("create pool", os.NewSyscallError("mmap", err))
	}
	pool, err := shm.CreatePool(fd, int32(size))
	if err != nil {
		_ = unix.Munmap(data)
		_ = unix.Close(fd)
		return nil, err
	}
	return &MappedPool{ShmPool: pool, fd: fd, data: data}, nil
}

// Data returns the mapped memory.
func (p *MappedPool) Data() []byte { return p.data }

// Size returns the pool size in bytes.
func (p *MappedPool) Size() int { return len(p.data) }

// Buffer carves a wl_buffer out of the pool, checking that it fits.
func (p *MappedPool) Buffer(offset, width, height, stride int32, format ShmFormat) (*Buffer, error) {
	if offset < 0 || width <= 0 || height <= 0 || stride < width {
		return nil, localError("create buffer", fmt.Errorf("%w: %dx%d stride %d at %d", ErrInvalidRequest, width, height, stride, offset))
	}
	if int64(offset)+int64(stride)*int64(height) > int64(len(p.data)) {
		return nil, localError("create buffer", fmt.Errorf("%w: buffer exceeds pool of %d bytes", ErrInvalidRequest, len(p.data)))
	}
	return p.CreateBuffer(offset, width, height, stride, format)
}

// Close destroys the wl_shm_pool and releases the mapping. Buffers created
// from the pool stay valid on the compositor side.
func (p *MappedPool) Close() error {
	err := p.Destroy()
	if p.data != nil {
		if uerr := unix.Munmap(p.data); uerr != nil && err == nil {
			err = os.NewSyscallError("munmap", uerr)
		}
		p.data = nil
	}
	if p.fd >= 0 {
		_ = unix.Close(p.fd)
		p.fd = -1
	}
	return err
}
