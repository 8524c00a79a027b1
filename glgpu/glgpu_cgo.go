//go:build !tinygo && cgo

package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/glmat"
)

// Backend compiles glmat materials into OpenGL programs. A current GL
// context is required before any method is called; see [Init1x1GLFW].
type Backend struct {
	scratch []byte
}

// NewBackend returns a Backend ready for use on the current GL context.
func NewBackend() *Backend { return &Backend{} }

// Init1x1GLFW starts a hidden 1x1 GLFW window so materials can be compiled
// without the embedding application owning a window. It returns a
// termination function that should be called after the last GL use.
func Init1x1GLFW() (terminate func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Visible, glfw.False)
	window, err := glfw.CreateWindow(1, 1, "glmat compile", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, err
	}
	return glfw.Terminate, nil
}

type program struct {
	p        glgl.Program
	settings glmat.CompileSettings
}

type instance struct {
	prog *program
}

// Compile implements [glmat.Backend].
func (b *Backend) Compile(source []byte, settings glmat.CompileSettings) (glmat.Program, error) {
	b.scratch = AppendFragmentSource(b.scratch[:0], source, settings)
	b.scratch = append(b.scratch, 0)
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertexSource + "\x00",
		Fragment: string(b.scratch),
	})
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w\n%s", settings.Name, err, b.scratch[:len(b.scratch)-1])
	}
	return &program{p: prog, settings: settings}, nil
}

// Destroy implements [glmat.Backend].
func (b *Backend) Destroy(p glmat.Program) error {
	prog := castProgram(p)
	prog.p.Delete()
	return glgl.Err()
}

// NewInstance implements [glmat.Backend].
func (b *Backend) NewInstance(p glmat.Program) (glmat.ProgramInstance, error) {
	return &instance{prog: castProgram(p)}, nil
}

// SetParameter implements [glmat.Backend]. Parameters whose uniforms were
// optimized out of the compiled program are ignored.
func (b *Backend) SetParameter(inst glmat.ProgramInstance, name string, value any) error {
	in := castInstance(inst)
	in.prog.p.Bind()
	loc, err := in.prog.p.UniformLocation(name + "\x00")
	if err != nil {
		return nil // Uniform unused by this variant.
	}
	switch v := value.(type) {
	case bool:
		var i int32
		if v {
			i = 1
		}
		gl.Uniform1i(loc, i)
	case int32:
		gl.Uniform1i(loc, v)
	case float32:
		gl.Uniform1f(loc, v)
	case ms3.Vec:
		gl.Uniform3f(loc, v.X, v.Y, v.Z)
	case [4]float32:
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	case ms3.Mat3:
		arr := v.Array()
		gl.UniformMatrix3fv(loc, 1, false, &arr[0])
	default:
		return fmt.Errorf("unsupported parameter type %T for %q", value, name)
	}
	return glgl.Err()
}

// Bind makes the instance's program current and applies the blend, depth
// and culling state its material was compiled with. Call before issuing
// draws with the instance.
func (b *Backend) Bind(inst glmat.ProgramInstance) error {
	in := castInstance(inst)
	in.prog.p.Bind()
	settings := in.prog.settings
	if settings.Blending == glmat.BlendingTransparent {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA) // Premultiplied alpha.
	} else {
		gl.Disable(gl.BLEND)
	}
	gl.DepthMask(settings.DepthWrite || settings.Blending != glmat.BlendingTransparent)
	if settings.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
	return glgl.Err()
}

func castProgram(p glmat.Program) *program {
	prog, ok := p.(*program)
	if !ok {
		panic(fmt.Sprintf("glgpu: foreign program handle %T", p))
	}
	return prog
}

func castInstance(inst glmat.ProgramInstance) *instance {
	in, ok := inst.(*instance)
	if !ok {
		panic(fmt.Sprintf("glgpu: foreign instance handle %T", inst))
	}
	return in
}
