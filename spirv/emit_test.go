package spirv

import (
	"encoding/binary"
	"testing"

	"github.com/vkshade/shadyc/ir"
)

func TestEmitVoidEntryPoint(t *testing.T) {
	a := ir.NewArena(ir.DefaultConfig())
	fn := a.NewFunctionHeader("main", nil, nil, true)
	a.SetFunctionBody(fn, nil, a.NewReturn(nil))
	root := a.NewRoot([]*ir.Node{fn})

	binary_, err := Emit(DefaultEmitOptions(), root)
	if err != nil {
		t.Fatalf("Emit returned an error: %v", err)
	}
	if len(binary_) < 20 {
		t.Fatalf("emitted module too small: got %d bytes", len(binary_))
	}
	if magic := binary.LittleEndian.Uint32(binary_[0:4]); magic != MagicNumber {
		t.Fatalf("emitted module has wrong magic: got 0x%08X", magic)
	}
}

func TestEmitRejectsNonRootProgram(t *testing.T) {
	a := ir.NewArena(ir.DefaultConfig())
	fn := a.NewFunctionHeader("main", nil, nil, true)
	a.SetFunctionBody(fn, nil, a.NewReturn(nil))

	if _, err := Emit(DefaultEmitOptions(), fn); err == nil {
		t.Fatalf("Emit should reject a program whose root is not an ir.Root")
	}
}

func TestEmitGlobalVariableAndLoad(t *testing.T) {
	a := ir.NewArena(ir.Config{CheckTypes: true})
	i := a.NewInt()
	g := a.NewGlobalVariable("counter", ir.GlobalLogical, i, "", nil)

	fn := a.NewFunctionHeader("kernel", nil, nil, true)
	load := a.NewPrimOp(ir.OpLoad, []*ir.Node{g}, a.NewQualified(ir.UniformityVarying, i))
	ret := a.NewReturn(nil)
	a.SetFunctionBody(fn, nil, a.NewLet(load, letTailReturning(a, ret)))

	root := a.NewRoot([]*ir.Node{g, fn})

	binary_, err := Emit(DefaultEmitOptions(), root)
	if err != nil {
		t.Fatalf("Emit returned an error: %v", err)
	}
	if len(binary_) < 20 {
		t.Fatalf("emitted module too small: got %d bytes", len(binary_))
	}
}

// letTailReturning builds a single-param AnonymousLambda whose body is
// tail, discarding the loaded value — enough to exercise emitStmt's Let
// handling without needing a second instruction to consume the result.
func letTailReturning(a *ir.Arena, tail *ir.Node) *ir.Node {
	lam := a.NewAnonymousLambdaHeader([]*ir.Node{a.NewVariable("v", a.NewInt())})
	a.SetAnonymousLambdaBody(lam, tail)
	return lam
}
