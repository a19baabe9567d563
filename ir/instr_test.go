package ir

import "testing"

func TestPrimOpArithmeticPreservesWidthAndUniformity(t *testing.T) {
	a := NewArena(Config{CheckTypes: true})

	x := a.NewIntLiteral(1) // Qualified(Uniform, Int)
	y := a.NewIntLiteral(2)

	sum := a.NewPrimOp(OpAdd, []*Node{x, y}, nil)
	inner, uniform := Unqualify(sum.Type)
	if inner.Tag != TagInt {
		t.Fatalf("add result type = %s, want Int", inner.Tag)
	}
	if uniform != UniformityUniform {
		t.Fatalf("add of two uniform operands = %s, want Uniform", uniform)
	}
}

func TestPrimOpComparisonYieldsBool(t *testing.T) {
	a := NewArena(Config{CheckTypes: true})
	x := a.NewIntLiteral(1)
	y := a.NewIntLiteral(2)

	lt := a.NewPrimOp(OpLt, []*Node{x, y}, nil)
	inner, _ := Unqualify(lt.Type)
	if inner.Tag != TagBool {
		t.Fatalf("lt result type = %s, want Bool", inner.Tag)
	}
}

func TestPrimOpVaryingOperandInfectsResult(t *testing.T) {
	a := NewArena(Config{CheckTypes: true})
	uniformVal := a.NewIntLiteral(1)
	varying := a.NewVariable("tid", a.NewQualified(UniformityVarying, a.NewInt()))

	sum := a.NewPrimOp(OpAdd, []*Node{uniformVal, varying}, nil)
	_, uniform := Unqualify(sum.Type)
	if uniform != UniformityVarying {
		t.Fatalf("add with one Varying operand = %s, want Varying", uniform)
	}
}

func TestPrimOpAllocaProducesFunctionScopedPointer(t *testing.T) {
	a := NewArena(Config{CheckTypes: true})
	i := a.NewInt()

	alloc := a.NewPrimOp(OpAlloca, nil, i)
	inner, uniform := Unqualify(alloc.Type)
	if inner.Tag != TagPtr {
		t.Fatalf("alloca result type = %s, want Ptr", inner.Tag)
	}
	ptr := inner.Payload.(PtrPayload)
	if ptr.Space != FunctionSpace {
		t.Fatalf("alloca result space = %s, want Function", ptr.Space)
	}
	if ptr.Pointee != i {
		t.Fatalf("alloca result pointee != allocated type")
	}
	if uniform != UniformityUniform {
		t.Fatalf("alloca result uniformity = %s, want Uniform", uniform)
	}
}

func TestPrimOpLoadStripsPointer(t *testing.T) {
	a := NewArena(Config{CheckTypes: true})
	i := a.NewInt()
	ptrTy := a.NewQualified(UniformityVarying, a.NewPtr(GlobalPhysical, i))
	ptrVal := a.NewVariable("p", ptrTy)

	load := a.NewPrimOp(OpLoad, []*Node{ptrVal}, nil)
	inner, uniform := Unqualify(load.Type)
	if inner != i {
		t.Fatalf("load result type != pointee type")
	}
	if uniform != UniformityVarying {
		t.Fatalf("load result uniformity = %s, want Varying (inherited from the pointer)", uniform)
	}
}

func TestPrimOpStoreIsVoid(t *testing.T) {
	a := NewArena(Config{CheckTypes: true})
	i := a.NewInt()
	ptrTy := a.NewQualified(UniformityUniform, a.NewPtr(FunctionSpace, i))
	ptrVal := a.NewVariable("p", ptrTy)
	val := a.NewIntLiteral(7)

	store := a.NewPrimOp(OpStore, []*Node{ptrVal, val}, nil)
	if store.Type != nil {
		t.Fatalf("store result type = %v, want nil (void)", store.Type)
	}
}

func TestPrimOpInterningRespectsOperands(t *testing.T) {
	a := NewArena(DefaultConfig())
	x := a.NewIntLiteral(1)
	y := a.NewIntLiteral(2)

	add1 := a.NewPrimOp(OpAdd, []*Node{x, y}, nil)
	add2 := a.NewPrimOp(OpAdd, []*Node{x, y}, nil)
	if add1 != add2 {
		t.Fatalf("identical PrimOps did not intern to the same node")
	}

	sub := a.NewPrimOp(OpSub, []*Node{x, y}, nil)
	if add1 == sub {
		t.Fatalf("PrimOps with different ops collapsed to the same node")
	}
}

func TestYieldTypesSingleResultInstruction(t *testing.T) {
	a := NewArena(Config{CheckTypes: true})
	x := a.NewIntLiteral(1)
	y := a.NewIntLiteral(2)
	add := a.NewPrimOp(OpAdd, []*Node{x, y}, nil)

	ys := YieldTypes(add)
	if len(ys) != 1 {
		t.Fatalf("YieldTypes(add) returned %d types, want 1", len(ys))
	}
}

func TestYieldTypesStructuredInstruction(t *testing.T) {
	a := NewArena(Config{CheckTypes: true})
	boolTy := a.NewQualified(UniformityUniform, a.NewBool())
	intTy := a.NewQualified(UniformityUniform, a.NewInt())
	cond := a.NewTrue()
	trueLam := a.NewAnonymousLambdaHeader(nil)
	a.SetAnonymousLambdaBody(trueLam, a.NewReturn(nil))
	falseLam := a.NewAnonymousLambdaHeader(nil)
	a.SetAnonymousLambdaBody(falseLam, a.NewReturn(nil))

	ifNode := a.NewIf([]*Node{intTy}, cond, trueLam, falseLam)
	ys := YieldTypes(ifNode)
	if len(ys) != 1 || ys[0] != intTy {
		t.Fatalf("YieldTypes(if) = %v, want [intTy]", ys)
	}
	if ifNode.Type != intTy {
		t.Fatalf("single-yield If did not attach Type")
	}
	_ = boolTy
}
