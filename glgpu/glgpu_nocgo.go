//go:build tinygo || !cgo

package glgpu

import (
	"errors"

	"github.com/soypat/glmat"
)

var errNoCGO = errors.New("glgpu requires CGo and is not supported on TinyGo")

// Backend compiles glmat materials into OpenGL programs. Requires CGo.
type Backend struct{}

// NewBackend returns a Backend ready for use on the current GL context.
func NewBackend() *Backend { return &Backend{} }

// Init1x1GLFW starts a hidden 1x1 GLFW window so materials can be compiled
// without the embedding application owning a window.
func Init1x1GLFW() (terminate func(), err error) {
	return nil, errNoCGO
}

// Compile implements [glmat.Backend].
func (b *Backend) Compile(source []byte, settings glmat.CompileSettings) (glmat.Program, error) {
	return nil, errNoCGO
}

// Destroy implements [glmat.Backend].
func (b *Backend) Destroy(p glmat.Program) error {
	return errNoCGO
}

// NewInstance implements [glmat.Backend].
func (b *Backend) NewInstance(p glmat.Program) (glmat.ProgramInstance, error) {
	return nil, errNoCGO
}

// SetParameter implements [glmat.Backend].
func (b *Backend) SetParameter(inst glmat.ProgramInstance, name string, value any) error {
	return errNoCGO
}

// Bind makes the instance's program current and applies its material's
// pipeline state.
func (b *Backend) Bind(inst glmat.ProgramInstance) error {
	return errNoCGO
}
