package typecheck

import (
	"testing"

	"github.com/vkshade/shadyc/ir"
)

func buildUntypedAddProgram(src *ir.Arena) *ir.Node {
	one := src.NewIntLiteral(1)
	two := src.NewIntLiteral(2)
	sum := src.NewPrimOp(ir.OpAdd, []*ir.Node{one, two}, nil)
	ret := src.NewReturn([]*ir.Node{sum})
	fn := src.NewFunctionHeader("main", nil, []*ir.Node{src.NewQualified(ir.UniformityUniform, src.NewInt())}, true)
	src.SetFunctionBody(fn, nil, ret)
	return src.NewRoot([]*ir.Node{fn})
}

func TestInferProgramAttachesTypes(t *testing.T) {
	src := ir.NewArena(ir.DefaultConfig()) // CheckTypes off
	root := buildUntypedAddProgram(src)

	dst, out, err := InferProgram(src, root)
	if err != nil {
		t.Fatalf("InferProgram: %v", err)
	}
	if !dst.Config.CheckTypes {
		t.Fatalf("destination arena does not have CheckTypes set")
	}

	rp := out.Payload.(*ir.RootPayload)
	fn := rp.Decls[0]
	ret := fn.Body()
	rpay := ret.Payload.(ir.ReturnPayload)
	sum := rpay.Args[0]
	if sum.Type == nil {
		t.Fatalf("PrimOp(add) carries no type after infer_program")
	}
	inner, uniform := ir.Unqualify(sum.Type)
	if inner.Tag != ir.TagInt {
		t.Fatalf("sum's type = %s, want Int", inner.Tag)
	}
	if uniform != ir.UniformityUniform {
		t.Fatalf("sum's uniformity = %v, want Uniform (both operands uniform)", uniform)
	}
}

func TestInferProgramIsDeterministic(t *testing.T) {
	src := ir.NewArena(ir.DefaultConfig())
	root := buildUntypedAddProgram(src)

	dst1, out1, err := InferProgram(src, root)
	if err != nil {
		t.Fatalf("first InferProgram: %v", err)
	}
	dst2, out2, err := InferProgram(src, root)
	if err != nil {
		t.Fatalf("second InferProgram: %v", err)
	}

	fn1 := out1.Payload.(*ir.RootPayload).Decls[0]
	fn2 := out2.Payload.(*ir.RootPayload).Decls[0]
	sum1 := fn1.Body().Payload.(ir.ReturnPayload).Args[0]
	sum2 := fn2.Body().Payload.(ir.ReturnPayload).Args[0]

	it1, _ := ir.Unqualify(sum1.Type)
	it2, _ := ir.Unqualify(sum2.Type)
	if it1.Tag != it2.Tag {
		t.Fatalf("two independent infer_program runs disagree: %s vs %s", it1.Tag, it2.Tag)
	}
	_ = dst1
	_ = dst2
}

func TestUniformityJoinsToVarying(t *testing.T) {
	src := ir.NewArena(ir.DefaultConfig())
	varTy := src.NewQualified(ir.UniformityVarying, src.NewInt())
	v := src.NewVariable("tid", varTy)
	one := src.NewIntLiteral(1)
	sum := src.NewPrimOp(ir.OpAdd, []*ir.Node{v, one}, nil)
	ret := src.NewReturn([]*ir.Node{sum})
	fn := src.NewFunctionHeader("f", []*ir.Node{v}, nil, false)
	src.SetFunctionBody(fn, nil, ret)
	root := src.NewRoot([]*ir.Node{fn})

	_, out, err := InferProgram(src, root)
	if err != nil {
		t.Fatalf("InferProgram: %v", err)
	}
	sumOut := out.Payload.(*ir.RootPayload).Decls[0].Body().Payload.(ir.ReturnPayload).Args[0]
	if Uniformity(sumOut) != ir.UniformityVarying {
		t.Fatalf("Uniformity(sum) = %v, want Varying (joins with a Varying operand)", Uniformity(sumOut))
	}
}

func TestValidateRejectsStoreOnNonPointer(t *testing.T) {
	src := ir.NewArena(ir.DefaultConfig())
	notAPointer := src.NewIntLiteral(0)
	val := src.NewIntLiteral(7)
	store := src.NewPrimOp(ir.OpStore, []*ir.Node{notAPointer, val}, nil)
	ret := src.NewLet(store, mustLambda(src))
	fn := src.NewFunctionHeader("bad", nil, nil, false)
	src.SetFunctionBody(fn, nil, ret)
	root := src.NewRoot([]*ir.Node{fn})

	if _, _, err := InferProgram(src, root); err == nil {
		t.Fatalf("InferProgram accepted a Store on a non-pointer operand")
	}
}

func mustLambda(a *ir.Arena) *ir.Node {
	lam := a.NewAnonymousLambdaHeader(nil)
	a.SetAnonymousLambdaBody(lam, a.NewReturn(nil))
	return lam
}
