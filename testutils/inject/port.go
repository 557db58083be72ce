// Package inject provides injectable fakes for tests.
package inject

import "io"

// Port is an injectable serial port. Unset funcs fall back to the embedded
// ReadWriteCloser, or succeed trivially when there is none.
type Port struct {
	io.ReadWriteCloser
	ReadFunc             func(p []byte) (n int, err error)
	WriteFunc            func(p []byte) (n int, err error)
	CloseFunc            func() error
	ResetInputBufferFunc func() error
	DrainFunc            func() error
}

// Read calls the injected Read or the real version. With neither it reports
// end of input.
func (p *Port) Read(b []byte) (n int, err error) {
	if p.ReadFunc == nil {
		if p.ReadWriteCloser == nil {
			return 0, io.EOF
		}
		return p.ReadWriteCloser.Read(b)
	}
	return p.ReadFunc(b)
}

// Write calls the injected Write or the real version. With neither it fails
// as a closed pipe would.
func (p *Port) Write(b []byte) (n int, err error) {
	if p.WriteFunc == nil {
		if p.ReadWriteCloser == nil {
			return 0, io.ErrClosedPipe
		}
		return p.ReadWriteCloser.Write(b)
	}
	return p.WriteFunc(b)
}

// Close calls the injected Close or the real version.
func (p *Port) Close() error {
	if p.CloseFunc == nil {
		if p.ReadWriteCloser == nil {
			return nil
		}
		return p.ReadWriteCloser.Close()
	}
	return p.CloseFunc()
}

// ResetInputBuffer calls the injected ResetInputBuffer or does nothing.
func (p *Port) ResetInputBuffer() error {
	if p.ResetInputBufferFunc == nil {
		return nil
	}
	return p.ResetInputBufferFunc()
}

// Drain calls the injected Drain or does nothing.
func (p *Port) Drain() error {
	if p.DrainFunc == nil {
		return nil
	}
	return p.DrainFunc()
}
