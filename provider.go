package glmat

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/soypat/geometry/ms3"
)

// ErrNilBackend is returned when constructing a provider without a backend.
var ErrNilBackend = errors.New("glmat: nil backend")

// Program is an opaque backend handle to a compiled material program.
type Program any

// ProgramInstance is an opaque backend handle to one instance's parameter block.
type ProgramInstance any

// Backend compiles generated material source and manages the resulting GPU
// resources. It is the only collaborator glmat depends on; [Provider]
// implementations invoke Compile at most once per distinct material key.
type Backend interface {
	// Compile turns generated source text and its compile settings into a
	// program handle. Failure is fatal for that key: glmat neither retries
	// nor substitutes a fallback material.
	Compile(source []byte, settings CompileSettings) (Program, error)
	// Destroy releases a compiled program. Called once per cached program
	// during provider teardown.
	Destroy(prog Program) error
	// NewInstance allocates a parameter block bound to prog.
	NewInstance(prog Program) (ProgramInstance, error)
	// SetParameter sets a named parameter on an instance parameter block.
	// Value is one of bool, int32, float32, [4]float32, ms3.Vec or ms3.Mat3
	// matching the [ParamDecl] list the program was compiled with. Backends
	// ignore names their compiled program does not retain.
	SetParameter(inst ProgramInstance, name string, value any) error
}

// Material owns one compiled program shared by every instance created
// against the same constrained key. Materials are created and destroyed
// exclusively by their [Provider].
type Material struct {
	// Key is the constrained key the material was compiled for.
	Key MaterialKey
	// Name is the diagnostic label the material was compiled under.
	Name string
	prog Program
}

// Program returns the backend handle of the compiled material.
func (m *Material) Program() Program { return m.prog }

// Instance binds one object's parameters onto a shared [Material]. The
// parameter block is private to its creator; destroying or mutating it
// never affects the material or sibling instances.
type Instance struct {
	mat  *Material
	data ProgramInstance
}

// Material returns the shared compiled material the instance is bound to.
func (in *Instance) Material() *Material { return in.mat }

// Data returns the backend parameter block handle of the instance.
func (in *Instance) Data() ProgramInstance { return in.data }

// Provider obtains material instances for raw material keys. The only
// concrete strategy implemented here is the generated ubershader cache of
// [NewUbershaderProvider]; precompiled-variant providers can satisfy the
// same interface.
type Provider interface {
	// CreateInstance returns a new instance for the raw key and UV map,
	// compiling the underlying material on first use of the key's
	// constrained form. label names the material in diagnostics and has no
	// semantic effect.
	CreateInstance(key MaterialKey, uvmap UvMap, label string) (*Instance, error)
	// MaterialsCount returns the number of distinct compiled materials.
	MaterialsCount() int
	// Materials enumerates the compiled materials currently cached.
	Materials() []*Material
	// DestroyMaterials releases every cached material through the backend
	// and empties the cache. Calling it on an empty provider is a no-op.
	DestroyMaterials() error
}

// Ubershader is a [Provider] that generates shader source per constrained
// key and caches the compiled result so each distinct key compiles at most
// once for the provider's lifetime.
//
// Ubershader is not safe for concurrent use. Callers that share one
// provider across goroutines must serialize CreateInstance and
// DestroyMaterials with their own lock; compiled materials themselves are
// immutable after creation and safe to share read-only.
type Ubershader struct {
	backend   Backend
	cache     map[MaterialKey]*Material
	materials []*Material
	scratch   []byte
}

var _ Provider = (*Ubershader)(nil)

// NewUbershaderProvider returns a generated-ubershader material provider
// compiling through backend.
func NewUbershaderProvider(backend Backend) (*Ubershader, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	return &Ubershader{
		backend: backend,
		cache:   make(map[MaterialKey]*Material),
	}, nil
}

// CreateInstance implements [Provider].
func (p *Ubershader) CreateInstance(key MaterialKey, uvmap UvMap, label string) (*Instance, error) {
	Constrain(&key, &uvmap)
	mat, err := p.material(key, label)
	if err != nil {
		return nil, err
	}
	data, err := p.backend.NewInstance(mat.prog)
	if err != nil {
		return nil, fmt.Errorf("instancing material %q: %w", mat.Name, err)
	}
	set := func(name string, value any) {
		if err == nil {
			err = p.backend.SetParameter(data, name, value)
		}
	}
	uvIndex := func(slot TextureSlot) int32 {
		if !key.HasTexture(slot) {
			return -1
		}
		return int32(uvmap[key.UV(slot)]) - 1
	}
	identity := ms3.IdentityMat3()
	for slot := TextureSlot(0); slot < numTextureSlots; slot++ {
		set(slotParams[slot].index, uvIndex(slot))
		set(slotParams[slot].matrix, identity)
	}
	set("blendEnabled", key.Alpha == AlphaBlend)
	set("baseColorFactor", [4]float32{1, 1, 1, 1})
	set("metallicFactor", float32(1))
	set("roughnessFactor", float32(1))
	set("normalScale", float32(1))
	set("aoStrength", float32(1))
	set("emissiveFactor", ms3.Vec{})
	if err != nil {
		return nil, fmt.Errorf("binding instance of material %q: %w", mat.Name, err)
	}
	return &Instance{mat: mat, data: data}, nil
}

// material serves the get-or-create contract of the cache. key must already
// be constrained.
func (p *Ubershader) material(key MaterialKey, label string) (*Material, error) {
	if mat, ok := p.cache[key]; ok {
		return mat, nil
	}
	p.scratch = AppendSource(p.scratch[:0], key)
	name := materialName(label, key)
	prog, err := p.backend.Compile(p.scratch, Settings(key, name))
	if err != nil {
		return nil, fmt.Errorf("compiling material %q: %w", name, err)
	}
	mat := &Material{Key: key, Name: name, prog: prog}
	p.cache[key] = mat
	p.materials = append(p.materials, mat)
	return mat, nil
}

// MaterialsCount implements [Provider].
func (p *Ubershader) MaterialsCount() int { return len(p.materials) }

// Materials implements [Provider].
func (p *Ubershader) Materials() []*Material {
	return append([]*Material{}, p.materials...) // Clone slice and return it.
}

// DestroyMaterials implements [Provider].
func (p *Ubershader) DestroyMaterials() error {
	var errs []error
	for _, mat := range p.materials {
		err := p.backend.Destroy(mat.prog)
		if err != nil {
			errs = append(errs, fmt.Errorf("destroying material %q: %w", mat.Name, err))
		}
	}
	p.materials = p.materials[:0]
	clear(p.cache)
	return errors.Join(errs...)
}

// materialName derives the diagnostic name of a compiled material from the
// caller's label and the key hash so distinct variants never alias.
func materialName(label string, key MaterialKey) string {
	if label == "" {
		label = "uber"
	}
	b := append([]byte(label), '_')
	b = strconv.AppendUint(b, key.Hash(), 32)
	return string(b)
}
