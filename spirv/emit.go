package spirv

import (
	"fmt"

	"github.com/vkshade/shadyc/diag"
	"github.com/vkshade/shadyc/ir"
)

// Emit lowers a fully-pipelined program (the output of pipeline.Run) to
// a SPIR-V binary module. It assumes every precondition the pipeline
// stages establish: no Unbound/UntypedNumber nodes, no Mask type, no
// TailCall, and Qualified-wrapped value/instruction types throughout.
// Logical pointer address spaces are accepted directly (lower_decay_ptrs
// is an optional gate, not a hard precondition) and mapped onto their
// natural SPIR-V storage classes.
func Emit(opts EmitOptions, prog *ir.Node) ([]byte, error) {
	rp, ok := prog.Payload.(*ir.RootPayload)
	if !ok {
		return nil, diag.New(diag.KindStructural, diag.Position{}, "", "program root is not a Root declaration")
	}

	b := NewModuleBuilder(opts.Version)
	e := &emitter{
		b:              b,
		opts:           opts,
		typeIDs:        map[*ir.Node]uint32{},
		ptrTypeIDs:     map[string]uint32{},
		fnTypeIDs:      map[string]uint32{},
		constIDs:       map[*ir.Node]uint32{},
		constDeclIDs:   map[*ir.Node]uint32{},
		globals:        map[*ir.Node]uint32{},
		globalIDByName: map[string]uint32{},
		funcIDs:        map[*ir.Node]uint32{},
		decoratedBlocks: map[uint32]bool{},
	}
	e.voidID = b.AddTypeVoid()

	b.AddCapability(CapabilityShader)
	for _, c := range opts.Capabilities {
		b.AddCapability(c)
	}
	b.SetMemoryModel(AddressingModelLogical, MemoryModelGLSL450)

	var funcs []*ir.Node
	for _, d := range rp.Decls {
		if d.IsFunction() {
			e.funcIDs[d] = b.AllocID()
			funcs = append(funcs, d)
		}
	}

	for _, d := range rp.Decls {
		switch d.Tag {
		case ir.TagGlobalVariable:
			if err := e.emitGlobalVariable(d); err != nil {
				return nil, err
			}
		case ir.TagConstant:
			if err := e.emitConstantDecl(d); err != nil {
				return nil, err
			}
		}
	}

	var entryPoints []*ir.Node
	for _, fn := range funcs {
		fp := fn.Payload.(*ir.FunctionPayload)
		fe := &functionEmitter{
			e:          e,
			fn:         fn,
			valueIDs:   map[*ir.Node]uint32{},
			bbLabels:   map[*ir.Node]uint32{},
			bbQueued:   map[*ir.Node]bool{},
			bbIncoming: map[*ir.Node][]phiEdge{},
		}
		if err := fe.emitFunction(); err != nil {
			return nil, err
		}
		if opts.Debug && fp.Name != "" {
			b.AddName(e.funcIDs[fn], fp.Name)
		}
		if fp.IsEntryPoint {
			entryPoints = append(entryPoints, fn)
		}
	}

	// SPIR-V 1.4+ entry points list every global variable they touch in
	// their interface, not just Input/Output ones; listing every global
	// unconditionally is a conservative over-approximation of that.
	for _, fn := range entryPoints {
		fp := fn.Payload.(*ir.FunctionPayload)
		b.AddEntryPoint(ExecutionModelGLCompute, e.funcIDs[fn], fp.Name, e.globalOrder)
		b.AddExecutionMode(e.funcIDs[fn], ExecutionModeLocalSize, 1, 1, 1)
	}

	return b.Build(), nil
}

// emitter carries whole-module state: type/constant/global caches keyed
// by the hash-consed ir.Node pointer identity that already deduplicates
// them on the IR side.
type emitter struct {
	b    *ModuleBuilder
	opts EmitOptions

	voidID uint32

	typeIDs    map[*ir.Node]uint32
	ptrTypeIDs map[string]uint32
	fnTypeIDs  map[string]uint32

	arrayLenType   uint32
	arrayLenConsts map[uint64]uint32

	constIDs     map[*ir.Node]uint32 // literal value node -> constant id
	constDeclIDs map[*ir.Node]uint32 // named Constant decl -> constant id

	globals        map[*ir.Node]uint32
	globalOrder    []uint32
	globalIDByName map[string]uint32

	funcIDs map[*ir.Node]uint32

	decoratedBlocks map[uint32]bool
}

// innerOf strips a Qualified wrapper, tolerating types that were never
// wrapped (every pointee/member/array-element type in this IR is
// already bare, so this is mostly a defensive no-op).
func innerOf(n *ir.Node) *ir.Node {
	inner, _ := ir.Unqualify(n)
	return inner
}

// typeID resolves t (Qualified or bare) to its SPIR-V type id, building
// and caching it on first use.
func (e *emitter) typeID(t *ir.Node) (uint32, error) {
	return e.buildType(innerOf(t))
}

func (e *emitter) buildType(t *ir.Node) (uint32, error) {
	if t == nil {
		return 0, diag.New(diag.KindStructural, diag.Position{}, "", "missing type")
	}
	if id, ok := e.typeIDs[t]; ok {
		return id, nil
	}

	var id uint32
	switch t.Tag {
	case ir.TagQualified:
		return e.typeID(t)

	case ir.TagInt:
		width := uint32(32)
		if t.Arena.Config.WordWidth == ir.IntWidth64 {
			width = 64
		}
		id = e.b.AddTypeInt(width, true)

	case ir.TagBool:
		id = e.b.AddTypeBool()

	case ir.TagFloat:
		id = e.b.AddTypeFloat(32)

	case ir.TagMask:
		return 0, diag.LoweringPrecondition(diag.Position{}, "", "a subgroup mask type")

	case ir.TagPtr:
		pp := t.Payload.(ir.PtrPayload)
		pointeeID, err := e.typeID(pp.Pointee)
		if err != nil {
			return 0, err
		}
		sc := storageClassOf(pp.Space)
		id = e.pointerTypeID(sc, pointeeID)
		if err := e.decorateBlockIfNeeded(sc, pp.Pointee, pointeeID); err != nil {
			return 0, err
		}

	case ir.TagRecord:
		rp := t.Payload.(ir.RecordPayload)
		memberIDs := make([]uint32, len(rp.Members))
		for i, m := range rp.Members {
			mid, err := e.typeID(m)
			if err != nil {
				return 0, err
			}
			memberIDs[i] = mid
		}
		id = e.b.AddTypeStruct(memberIDs...)

	case ir.TagFnType:
		fp := t.Payload.(ir.FnTypePayload)
		resultID := e.voidID
		if len(fp.Results) == 1 {
			rid, err := e.typeID(fp.Results[0])
			if err != nil {
				return 0, err
			}
			resultID = rid
		} else if len(fp.Results) > 1 {
			return 0, diag.Unimplemented(diag.Position{}, "function type with more than one result")
		}
		paramIDs := make([]uint32, len(fp.Params))
		for i, p := range fp.Params {
			pid, err := e.typeID(p)
			if err != nil {
				return 0, err
			}
			paramIDs[i] = pid
		}
		id = e.fnTypeID(resultID, paramIDs)

	case ir.TagArray:
		ap := t.Payload.(ir.ArrayPayload)
		elemID, err := e.typeID(ap.Element)
		if err != nil {
			return 0, err
		}
		if ap.Size == nil {
			id = e.b.AddTypeRuntimeArray(elemID)
		} else {
			lenID, err := e.sizeConstID(*ap.Size)
			if err != nil {
				return 0, err
			}
			id = e.b.AddTypeArray(elemID, lenID)
		}
		stride, err := e.sizeOf(innerOf(ap.Element))
		if err != nil {
			return 0, err
		}
		e.b.AddDecorate(id, DecorationArrayStride, stride)

	default:
		return 0, diag.Unimplemented(diag.Position{}, "type kind "+t.Tag.String())
	}

	e.typeIDs[t] = id
	return id, nil
}

func (e *emitter) pointerTypeID(sc StorageClass, pointeeID uint32) uint32 {
	k := fmt.Sprintf("%d:%d", sc, pointeeID)
	if id, ok := e.ptrTypeIDs[k]; ok {
		return id
	}
	id := e.b.AddTypePointer(sc, pointeeID)
	e.ptrTypeIDs[k] = id
	return id
}

func (e *emitter) fnTypeID(resultTypeID uint32, paramTypeIDs []uint32) uint32 {
	k := fmt.Sprintf("%d|%v", resultTypeID, paramTypeIDs)
	if id, ok := e.fnTypeIDs[k]; ok {
		return id
	}
	id := e.b.AddTypeFunction(resultTypeID, paramTypeIDs...)
	e.fnTypeIDs[k] = id
	return id
}

func (e *emitter) sizeConstID(v uint64) (uint32, error) {
	if e.arrayLenConsts == nil {
		e.arrayLenConsts = map[uint64]uint32{}
	}
	if id, ok := e.arrayLenConsts[v]; ok {
		return id, nil
	}
	if e.arrayLenType == 0 {
		e.arrayLenType = e.b.AddTypeInt(32, false)
	}
	id := e.b.AddConstant(e.arrayLenType, uint32(v))
	e.arrayLenConsts[v] = id
	return id, nil
}

// sizeOf estimates a type's storage size in bytes, for computing struct
// member offsets and array strides. Pointers are sized as 64-bit
// regardless of address space, a simplification since this grammar has
// no explicit physical/logical layout distinction at this level.
func (e *emitter) sizeOf(t *ir.Node) (uint32, error) {
	switch t.Tag {
	case ir.TagInt:
		if t.Arena.Config.WordWidth == ir.IntWidth64 {
			return 8, nil
		}
		return 4, nil
	case ir.TagBool, ir.TagFloat:
		return 4, nil
	case ir.TagPtr:
		return 8, nil
	case ir.TagArray:
		ap := t.Payload.(ir.ArrayPayload)
		elemSize, err := e.sizeOf(innerOf(ap.Element))
		if err != nil {
			return 0, err
		}
		if ap.Size == nil {
			return elemSize, nil
		}
		return elemSize * uint32(*ap.Size), nil
	case ir.TagRecord:
		rp := t.Payload.(ir.RecordPayload)
		var total uint32
		for _, m := range rp.Members {
			sz, err := e.sizeOf(innerOf(m))
			if err != nil {
				return 0, err
			}
			total = alignUp(total, sz) + sz
		}
		return total, nil
	default:
		return 4, nil
	}
}

func alignUp(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	if rem := offset % align; rem != 0 {
		return offset + (align - rem)
	}
	return offset
}

// decorateBlockIfNeeded adds the Block/Offset decorations a Record type
// needs once it backs a buffer-style global variable. Storage classes
// that never cross a shader interface (Function, Private, Workgroup,
// ...) skip this — their structs need no explicit layout.
func (e *emitter) decorateBlockIfNeeded(sc StorageClass, pointeeType *ir.Node, pointeeID uint32) error {
	switch sc {
	case StorageClassStorageBuffer, StorageClassUniform, StorageClassPushConstant:
	default:
		return nil
	}
	inner := innerOf(pointeeType)
	if inner.Tag != ir.TagRecord {
		return nil
	}
	if e.decoratedBlocks[pointeeID] {
		return nil
	}
	e.decoratedBlocks[pointeeID] = true

	rp := inner.Payload.(ir.RecordPayload)
	e.b.AddDecorate(pointeeID, DecorationBlock)
	var offset uint32
	for i, m := range rp.Members {
		sz, err := e.sizeOf(innerOf(m))
		if err != nil {
			return err
		}
		offset = alignUp(offset, sz)
		e.b.AddMemberDecorate(pointeeID, uint32(i), DecorationOffset, offset)
		offset += sz
	}
	return nil
}

// storageClassOf maps a grammar address space onto the SPIR-V storage
// class it is emitted with. SubgroupPhysical has no dedicated SPIR-V
// storage class — subgroup-scoped values are ordinary Private variables
// whose subgroup semantics live entirely in how they're accessed, not
// in their storage class — and External, standing in for an
// opaque externally-bound resource, maps to UniformConstant the way a
// sampler or image binding would.
func storageClassOf(space ir.AddressSpace) StorageClass {
	switch space {
	case ir.GlobalLogical:
		return StorageClassStorageBuffer
	case ir.GlobalPhysical:
		return StorageClassPhysicalStorageBuffer
	case ir.SharedLogical, ir.SharedPhysical:
		return StorageClassWorkgroup
	case ir.PrivateLogical, ir.PrivatePhysical, ir.SubgroupPhysical:
		return StorageClassPrivate
	case ir.FunctionSpace:
		return StorageClassFunction
	case ir.Generic:
		return StorageClassGeneric
	case ir.Input:
		return StorageClassInput
	case ir.Output:
		return StorageClassOutput
	case ir.External:
		return StorageClassUniformConstant
	default:
		return StorageClassPrivate
	}
}

// builtinDecoration maps the builtin names normalize_builtins
// recognizes onto their SPIR-V BuiltIn enumerant.
func builtinDecoration(name string) (BuiltIn, bool) {
	switch name {
	case "GlobalInvocationId":
		return BuiltInGlobalInvocationID, true
	case "LocalInvocationId":
		return BuiltInLocalInvocationID, true
	case "WorkgroupId":
		return BuiltInWorkgroupID, true
	case "SubgroupId":
		return BuiltInSubgroupId, true
	case "SubgroupInvocationId":
		return BuiltInSubgroupLocalInvocationId, true
	case "SubgroupSize":
		return BuiltInSubgroupSize, true
	}
	return 0, false
}

func (e *emitter) emitGlobalVariable(d *ir.Node) error {
	p := d.Payload.(*ir.GlobalVariablePayload)
	pointeeID, err := e.typeID(p.Type)
	if err != nil {
		return err
	}
	sc := storageClassOf(p.Space)
	ptrID := e.pointerTypeID(sc, pointeeID)
	if err := e.decorateBlockIfNeeded(sc, p.Type, pointeeID); err != nil {
		return err
	}

	var id uint32
	if p.Init != nil {
		initID, err := e.emitConstantExpr(p.Init)
		if err != nil {
			return err
		}
		id = e.b.AddVariableWithInit(ptrID, sc, initID)
	} else {
		id = e.b.AddVariable(ptrID, sc)
	}

	if p.Builtin != "" {
		bi, ok := builtinDecoration(p.Builtin)
		if !ok {
			return diag.New(diag.KindStructural, diag.Position{}, p.Name, "unrecognized builtin %q", p.Builtin)
		}
		e.b.AddDecorate(id, DecorationBuiltIn, uint32(bi))
	}
	if e.opts.Debug && p.Name != "" {
		e.b.AddName(id, p.Name)
	}

	e.globals[d] = id
	e.globalOrder = append(e.globalOrder, id)
	if p.Name != "" {
		e.globalIDByName[p.Name] = id
	}
	return nil
}

func (e *emitter) emitConstantDecl(d *ir.Node) error {
	p := d.Payload.(*ir.ConstantPayload)
	id, err := e.emitConstantExpr(p.Value)
	if err != nil {
		return err
	}
	e.constDeclIDs[d] = id
	if e.opts.Debug && p.Name != "" {
		e.b.AddName(id, p.Name)
	}
	return nil
}

// emitConstantExpr emits (once, cached by node identity) the literal
// backing a value node: IntLiteral, True, or False. True/False nodes
// carry a nil Payload (ir.NewTrue/NewFalse never set one), so this
// switches on Tag rather than attempting a Payload type assertion.
func (e *emitter) emitConstantExpr(n *ir.Node) (uint32, error) {
	if id, ok := e.constIDs[n]; ok {
		return id, nil
	}
	var id uint32
	switch n.Tag {
	case ir.TagIntLiteral:
		p := n.Payload.(ir.IntLiteralPayload)
		tid, err := e.typeID(n.Type)
		if err != nil {
			return 0, err
		}
		width := uint32(32)
		if inner := innerOf(n.Type); inner != nil && inner.Arena.Config.WordWidth == ir.IntWidth64 {
			width = 64
		}
		if width == 64 {
			v := uint64(p.Value)
			id = e.b.AddConstant(tid, uint32(v), uint32(v>>32))
		} else {
			id = e.b.AddConstant(tid, uint32(p.Value))
		}
	case ir.TagTrue:
		tid, err := e.typeID(n.Type)
		if err != nil {
			return 0, err
		}
		id = e.b.AddConstantTrue(tid)
	case ir.TagFalse:
		tid, err := e.typeID(n.Type)
		if err != nil {
			return 0, err
		}
		id = e.b.AddConstantFalse(tid)
	default:
		return 0, diag.Unimplemented(diag.Position{}, "constant expression of kind "+n.Tag.String())
	}
	e.constIDs[n] = id
	return id, nil
}

// mergeKind discriminates which terminator family a mergeContext
// resolves: MergeYield shares mergeIfMatchBlock across If/Match/Block
// (whichever of the three is nearest still catches it), Join belongs to
// Control, and MergeBreak/MergeContinue belong to Loop.
type mergeKind uint8

const (
	mergeIfMatchBlock mergeKind = iota
	mergeControl
	mergeLoop
)

// yieldRecord is one incoming edge to a structured merge block: the
// label execution came from, and the values that control-flow edge
// yields, in YieldTypes order.
type yieldRecord struct {
	pred uint32
	args []uint32
}

// mergeContext is a stack of enclosing structured-control-flow scopes,
// threaded through emitStmt/emitInstruction by hand rather than
// recovered from a dominator tree: cfa.Scope's graph deliberately omits
// the edge from a branch's body back to its own merge continuation (see
// cfa/scope.go's processCFNode), so a postorder/RPO walk of it does not
// reproduce the nesting structured emission needs.
type mergeContext struct {
	parent       *mergeContext
	kind         mergeKind
	mergeLabel   uint32
	contLabel    uint32 // loop only
	yields       *[]yieldRecord
	continueArgs *[]yieldRecord // loop only
}

func (mc *mergeContext) find(kind mergeKind) *mergeContext {
	for c := mc; c != nil; c = c.parent {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

func (mc *mergeContext) recordYield(y yieldRecord) { *mc.yields = append(*mc.yields, y) }
func (mc *mergeContext) recordContinue(y yieldRecord) {
	*mc.continueArgs = append(*mc.continueArgs, y)
}

// phiEdge is one incoming edge to a legacy (Jump/Branch/Switch-reached)
// BasicBlock, recorded at the point its parameter arguments are already
// known values.
type phiEdge struct {
	pred uint32
	args []uint32
}

// valueKind distinguishes which opcode family (integer, boolean,
// floating-point) a PrimOp operand's type belongs to.
type valueKind uint8

const (
	kindInt valueKind = iota
	kindBool
	kindFloat
)

// functionEmitter carries one Function's emission state: the live SSA
// value bindings (parameters, let-bound instruction results, loop/basic
// block parameters), and the worklist driving the legacy basic-block
// path.
type functionEmitter struct {
	e  *emitter
	fn *ir.Node

	valueIDs map[*ir.Node]uint32

	currentLabel uint32

	// allocaInsertAt is the function-instruction index right after the
	// entry block's OpLabel; every OpAlloca splices its OpVariable there
	// rather than at the current emission point, since SPIR-V requires
	// every Function-storage-class OpVariable to appear first in the
	// entry block.
	allocaInsertAt int

	bbLabels   map[*ir.Node]uint32
	bbQueue    []*ir.Node
	bbQueued   map[*ir.Node]bool
	bbIncoming map[*ir.Node][]phiEdge
}

func (fe *functionEmitter) emitFunction() error {
	e := fe.e
	fn := fe.fn
	p := fn.Payload.(*ir.FunctionPayload)

	if len(p.Results) > 1 {
		return diag.Unimplemented(diag.Position{}, "function with more than one result: "+p.Name)
	}
	resultTypeID := e.voidID
	if len(p.Results) == 1 {
		rid, err := e.typeID(p.Results[0])
		if err != nil {
			return err
		}
		resultTypeID = rid
	}

	paramTypeIDs := make([]uint32, len(p.Params))
	for i, prm := range p.Params {
		tid, err := e.typeID(prm.Type)
		if err != nil {
			return err
		}
		paramTypeIDs[i] = tid
	}

	fnTypeID := e.fnTypeID(resultTypeID, paramTypeIDs)
	funcID := e.funcIDs[fn]
	e.b.AddFunctionWithID(funcID, fnTypeID, resultTypeID, FunctionControlNone)

	for i, prm := range p.Params {
		id := e.b.AddFunctionParameter(paramTypeIDs[i])
		fe.valueIDs[prm] = id
	}

	entryLabel := e.b.AllocID()
	e.b.AddLabelWithID(entryLabel)
	fe.currentLabel = entryLabel
	fe.allocaInsertAt = e.b.FunctionInstructionCount()

	if p.Body == nil {
		return diag.New(diag.KindStructural, diag.Position{}, p.Name, "function has no body")
	}
	if err := fe.emitStmt(p.Body, nil); err != nil {
		return err
	}

	for len(fe.bbQueue) > 0 {
		bb := fe.bbQueue[0]
		fe.bbQueue = fe.bbQueue[1:]
		if err := fe.emitBasicBlock(bb); err != nil {
			return err
		}
	}

	e.b.AddFunctionEnd()
	return nil
}

func (fe *functionEmitter) ensureBBLabel(bb *ir.Node) uint32 {
	if id, ok := fe.bbLabels[bb]; ok {
		return id
	}
	id := fe.e.b.AllocID()
	fe.bbLabels[bb] = id
	return id
}

func (fe *functionEmitter) enqueueBlock(bb *ir.Node, args []uint32) {
	fe.bbIncoming[bb] = append(fe.bbIncoming[bb], phiEdge{pred: fe.currentLabel, args: args})
	if !fe.bbQueued[bb] {
		fe.bbQueued[bb] = true
		fe.bbQueue = append(fe.bbQueue, bb)
	}
}

func (fe *functionEmitter) emitBasicBlock(bb *ir.Node) error {
	e := fe.e
	label := fe.ensureBBLabel(bb)
	e.b.AddLabelWithID(label)
	fe.currentLabel = label

	p := bb.Payload.(*ir.BasicBlockPayload)
	incoming := fe.bbIncoming[bb]
	for i, prm := range p.Params {
		tid, err := e.typeID(prm.Type)
		if err != nil {
			return err
		}
		pairs := make([]uint32, 0, len(incoming)*2)
		for _, edge := range incoming {
			pairs = append(pairs, edge.args[i], edge.pred)
		}
		fe.valueIDs[prm] = e.b.AddPhi(tid, pairs...)
	}
	return fe.emitStmt(bb.Body(), nil)
}

// evalValue resolves a value node to its already-emitted SPIR-V id:
// function-local first (parameters, let/phi bindings), then module-wide
// globals and named constants by identity.
func (fe *functionEmitter) evalValue(n *ir.Node) (uint32, error) {
	switch n.Tag {
	case ir.TagVariable:
		if id, ok := fe.valueIDs[n]; ok {
			return id, nil
		}
		p := n.Payload.(ir.VariablePayload)
		if id, ok := fe.e.globalIDByName[p.Name]; ok {
			return id, nil
		}
		return 0, diag.New(diag.KindBinding, diag.Position{}, p.Name, "unresolved variable reference")
	case ir.TagIntLiteral, ir.TagTrue, ir.TagFalse:
		return fe.e.emitConstantExpr(n)
	case ir.TagConstant:
		if id, ok := fe.e.constDeclIDs[n]; ok {
			return id, nil
		}
		return 0, diag.New(diag.KindBinding, diag.Position{}, n.Name(), "reference to an unemitted constant")
	case ir.TagGlobalVariable:
		if id, ok := fe.e.globals[n]; ok {
			return id, nil
		}
		return 0, diag.New(diag.KindBinding, diag.Position{}, n.Name(), "reference to an unemitted global variable")
	case ir.TagUnbound, ir.TagUntypedNumber:
		return 0, diag.LoweringPrecondition(diag.Position{}, n.Name(), n.Tag.String())
	default:
		return 0, diag.Unimplemented(diag.Position{}, "value of kind "+n.Tag.String())
	}
}

func (fe *functionEmitter) evalArgs(args ir.NodeList) ([]uint32, error) {
	ids := make([]uint32, len(args))
	for i, a := range args {
		id, err := fe.evalValue(a)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func evalSwitchLiteral(n *ir.Node) (uint32, error) {
	switch n.Tag {
	case ir.TagIntLiteral:
		return uint32(n.Payload.(ir.IntLiteralPayload).Value), nil
	case ir.TagTrue:
		return 1, nil
	case ir.TagFalse:
		return 0, nil
	}
	return 0, diag.Unimplemented(diag.Position{}, "switch case literal of kind "+n.Tag.String())
}

// phiFromYields builds one OpPhi per yield type from the recorded
// incoming edges, in YieldTypes order. Safe to call once every yielding
// edge has already run (true by construction: emitStmt only returns to
// its caller after the branch it was emitting has reached a terminator).
func (fe *functionEmitter) phiFromYields(yieldTypes ir.NodeList, yields []yieldRecord) ([]uint32, error) {
	ids := make([]uint32, len(yieldTypes))
	for i, yt := range yieldTypes {
		tid, err := fe.e.typeID(yt)
		if err != nil {
			return nil, err
		}
		if len(yields) == 0 {
			return nil, diag.New(diag.KindStructural, diag.Position{}, "", "structured merge has a yield type but no incoming edge")
		}
		pairs := make([]uint32, 0, len(yields)*2)
		for _, y := range yields {
			pairs = append(pairs, y.args[i], y.pred)
		}
		ids[i] = fe.e.b.AddPhi(tid, pairs...)
	}
	return ids, nil
}

// emitStmt emits one terminator and, transitively via Let, every
// instruction inlined in front of it, within the current SPIR-V block.
// mc is the nearest enclosing structured merge context, nil at a
// function/basic-block body's own root.
func (fe *functionEmitter) emitStmt(term *ir.Node, mc *mergeContext) error {
	e := fe.e
	switch p := term.Payload.(type) {
	case ir.JumpPayload:
		args, err := fe.evalArgs(p.Args)
		if err != nil {
			return err
		}
		label := fe.ensureBBLabel(p.Target)
		fe.enqueueBlock(p.Target, args)
		e.b.AddBranch(label)
		return nil

	case ir.BranchPayload:
		cond, err := fe.evalValue(p.Cond)
		if err != nil {
			return err
		}
		args, err := fe.evalArgs(p.Args)
		if err != nil {
			return err
		}
		trueL := fe.ensureBBLabel(p.TrueTarget)
		falseL := fe.ensureBBLabel(p.FalseTarget)
		fe.enqueueBlock(p.TrueTarget, args)
		fe.enqueueBlock(p.FalseTarget, args)
		e.b.AddBranchConditional(cond, trueL, falseL)
		return nil

	case ir.SwitchPayload:
		sel, err := fe.evalValue(p.Inspectee)
		if err != nil {
			return err
		}
		args, err := fe.evalArgs(p.Args)
		if err != nil {
			return err
		}
		if p.Default == nil {
			return diag.New(diag.KindStructural, diag.Position{}, "", "switch terminator has no default target")
		}
		defaultLabel := fe.ensureBBLabel(p.Default)
		fe.enqueueBlock(p.Default, args)
		cases := make([]uint32, 0, len(p.Cases)*2)
		for _, c := range p.Cases {
			lit, err := evalSwitchLiteral(c.Literal)
			if err != nil {
				return err
			}
			lbl := fe.ensureBBLabel(c.Target)
			fe.enqueueBlock(c.Target, args)
			cases = append(cases, lit, lbl)
		}
		e.b.AddSwitch(sel, defaultLabel, cases...)
		return nil

	case ir.ReturnPayload:
		if len(p.Args) == 0 {
			e.b.AddReturn()
			return nil
		}
		v, err := fe.evalValue(p.Args[0])
		if err != nil {
			return err
		}
		e.b.AddReturnValue(v)
		return nil

	case ir.LetPayload:
		results, err := fe.emitInstruction(p.Instruction, mc)
		if err != nil {
			return err
		}
		tailParams := p.Tail.Payload.(*ir.AnonymousLambdaPayload).Params
		if len(tailParams) != len(results) {
			return diag.New(diag.KindStructural, diag.Position{}, "", "let binds %d names but its instruction produced %d results", len(tailParams), len(results))
		}
		for i, prm := range tailParams {
			fe.valueIDs[prm] = results[i]
		}
		return fe.emitStmt(p.Tail.Body(), mc)

	case ir.JoinPayload:
		cc := mc.find(mergeControl)
		if cc == nil {
			return diag.New(diag.KindStructural, diag.Position{}, "", "join with no enclosing control")
		}
		args, err := fe.evalArgs(p.Args)
		if err != nil {
			return err
		}
		cc.recordYield(yieldRecord{pred: fe.currentLabel, args: args})
		e.b.AddBranch(cc.mergeLabel)
		return nil

	case ir.MergeBreakPayload:
		lc := mc.find(mergeLoop)
		if lc == nil {
			return diag.New(diag.KindStructural, diag.Position{}, "", "merge_break with no enclosing loop")
		}
		args, err := fe.evalArgs(p.Args)
		if err != nil {
			return err
		}
		lc.recordYield(yieldRecord{pred: fe.currentLabel, args: args})
		e.b.AddBranch(lc.mergeLabel)
		return nil

	case ir.MergeContinuePayload:
		lc := mc.find(mergeLoop)
		if lc == nil {
			return diag.New(diag.KindStructural, diag.Position{}, "", "merge_continue with no enclosing loop")
		}
		args, err := fe.evalArgs(p.Args)
		if err != nil {
			return err
		}
		lc.recordContinue(yieldRecord{pred: fe.currentLabel, args: args})
		e.b.AddBranch(lc.contLabel)
		return nil

	case ir.MergeYieldPayload:
		ic := mc.find(mergeIfMatchBlock)
		if ic == nil {
			return diag.New(diag.KindStructural, diag.Position{}, "", "merge_yield with no enclosing if/match/block")
		}
		args, err := fe.evalArgs(p.Args)
		if err != nil {
			return err
		}
		ic.recordYield(yieldRecord{pred: fe.currentLabel, args: args})
		e.b.AddBranch(ic.mergeLabel)
		return nil

	case ir.TailCallPayload:
		return diag.LoweringPrecondition(diag.Position{}, term.Name(), "a tail call")

	case ir.UnreachablePayload:
		e.b.AddUnreachable()
		return nil

	default:
		return diag.Unimplemented(diag.Position{}, "terminator of kind "+term.Tag.String())
	}
}

// emitInstruction emits instr and returns its result ids in YieldTypes
// order (empty for a void PrimOp/Call).
func (fe *functionEmitter) emitInstruction(instr *ir.Node, mc *mergeContext) ([]uint32, error) {
	switch p := instr.Payload.(type) {
	case ir.PrimOpPayload:
		id, err := fe.emitPrimOp(instr, p)
		if err != nil {
			return nil, err
		}
		if p.Op == ir.OpStore {
			return nil, nil
		}
		return []uint32{id}, nil

	case ir.CallPayload:
		id, err := fe.emitCall(instr, p)
		if err != nil {
			return nil, err
		}
		if instr.Type == nil {
			return nil, nil
		}
		return []uint32{id}, nil

	case ir.IfPayload:
		return fe.emitIf(p, mc)
	case ir.MatchPayload:
		return fe.emitMatch(p, mc)
	case ir.LoopPayload:
		return fe.emitLoop(p, mc)
	case ir.ControlPayload:
		return fe.emitControl(p, mc)
	case ir.BlockPayload:
		return fe.emitBlockInstr(p, mc)

	default:
		return nil, diag.Unimplemented(diag.Position{}, "instruction of kind "+instr.Tag.String())
	}
}

func (fe *functionEmitter) operandKind(n *ir.Node) (valueKind, error) {
	inner := innerOf(n.Type)
	if inner == nil {
		return 0, diag.New(diag.KindType, diag.Position{}, n.Name(), "operand has no resolved type")
	}
	switch inner.Tag {
	case ir.TagBool:
		return kindBool, nil
	case ir.TagFloat:
		return kindFloat, nil
	case ir.TagInt:
		return kindInt, nil
	default:
		return 0, diag.Unimplemented(diag.Position{}, "primitive operation over "+inner.Tag.String())
	}
}

func (fe *functionEmitter) emitAlloca(instr *ir.Node) (uint32, error) {
	ptrTypeID, err := fe.e.typeID(instr.Type)
	if err != nil {
		return 0, err
	}
	id := fe.e.b.AllocID()
	ib := NewInstructionBuilder()
	ib.AddWord(ptrTypeID)
	ib.AddWord(id)
	ib.AddWord(uint32(StorageClassFunction))
	fe.e.b.insertFunctionInstructions(fe.allocaInsertAt, []Instruction{ib.Build(OpVariable)})
	fe.allocaInsertAt++
	return id, nil
}

func (fe *functionEmitter) emitPrimOp(instr *ir.Node, p ir.PrimOpPayload) (uint32, error) {
	switch p.Op {
	case ir.OpAlloca:
		return fe.emitAlloca(instr)

	case ir.OpLoad:
		ptr, err := fe.evalValue(p.Operands[0])
		if err != nil {
			return 0, err
		}
		tid, err := fe.e.typeID(instr.Type)
		if err != nil {
			return 0, err
		}
		return fe.e.b.AddLoad(tid, ptr), nil

	case ir.OpStore:
		ptr, err := fe.evalValue(p.Operands[0])
		if err != nil {
			return 0, err
		}
		val, err := fe.evalValue(p.Operands[1])
		if err != nil {
			return 0, err
		}
		fe.e.b.AddStore(ptr, val)
		return 0, nil

	case ir.OpNot:
		operand, err := fe.evalValue(p.Operands[0])
		if err != nil {
			return 0, err
		}
		kind, err := fe.operandKind(p.Operands[0])
		if err != nil {
			return 0, err
		}
		tid, err := fe.e.typeID(instr.Type)
		if err != nil {
			return 0, err
		}
		opcode := OpNot
		if kind == kindBool {
			opcode = OpLogicalNot
		}
		return fe.e.b.AddUnaryOp(opcode, tid, operand), nil

	default:
		return fe.emitBinaryPrimOp(instr, p)
	}
}

func binOpcode(op ir.PrimOpKind, kind valueKind) (OpCode, error) {
	switch op {
	case ir.OpAdd:
		if kind == kindFloat {
			return OpFAdd, nil
		}
		return OpIAdd, nil
	case ir.OpSub:
		if kind == kindFloat {
			return OpFSub, nil
		}
		return OpISub, nil
	case ir.OpMul:
		if kind == kindFloat {
			return OpFMul, nil
		}
		return OpIMul, nil
	case ir.OpDiv:
		if kind == kindFloat {
			return OpFDiv, nil
		}
		return OpSDiv, nil
	case ir.OpMod:
		if kind == kindFloat {
			return OpFMod, nil
		}
		return OpSMod, nil
	case ir.OpLt:
		if kind == kindFloat {
			return OpFOrdLessThan, nil
		}
		return OpSLessThan, nil
	case ir.OpLte:
		if kind == kindFloat {
			return OpFOrdLessThanEqual, nil
		}
		return OpSLessThanEqual, nil
	case ir.OpGt:
		if kind == kindFloat {
			return OpFOrdGreaterThan, nil
		}
		return OpSGreaterThan, nil
	case ir.OpGte:
		if kind == kindFloat {
			return OpFOrdGreaterThanEqual, nil
		}
		return OpSGreaterThanEqual, nil
	case ir.OpEq:
		switch kind {
		case kindFloat:
			return OpFOrdEqual, nil
		case kindBool:
			return OpLogicalEqual, nil
		default:
			return OpIEqual, nil
		}
	case ir.OpNeq:
		switch kind {
		case kindFloat:
			return OpFOrdNotEqual, nil
		case kindBool:
			return OpLogicalNotEqual, nil
		default:
			return OpINotEqual, nil
		}
	case ir.OpAnd:
		if kind == kindBool {
			return OpLogicalAnd, nil
		}
		return OpBitwiseAnd, nil
	case ir.OpOr:
		if kind == kindBool {
			return OpLogicalOr, nil
		}
		return OpBitwiseOr, nil
	case ir.OpXor:
		// SPIR-V has no dedicated logical-xor opcode; not-equal over
		// booleans is exactly xor.
		if kind == kindBool {
			return OpLogicalNotEqual, nil
		}
		return OpBitwiseXor, nil
	}
	return 0, fmt.Errorf("spirv: unhandled primitive operation %s", op)
}

func (fe *functionEmitter) emitBinaryPrimOp(instr *ir.Node, p ir.PrimOpPayload) (uint32, error) {
	if len(p.Operands) != 2 {
		return 0, diag.New(diag.KindStructural, diag.Position{}, "", "%s takes two operands, got %d", p.Op, len(p.Operands))
	}
	left, err := fe.evalValue(p.Operands[0])
	if err != nil {
		return 0, err
	}
	right, err := fe.evalValue(p.Operands[1])
	if err != nil {
		return 0, err
	}
	kind, err := fe.operandKind(p.Operands[0])
	if err != nil {
		return 0, err
	}
	tid, err := fe.e.typeID(instr.Type)
	if err != nil {
		return 0, err
	}
	opcode, err := binOpcode(p.Op, kind)
	if err != nil {
		return 0, err
	}
	return fe.e.b.AddBinaryOp(opcode, tid, left, right), nil
}

func (fe *functionEmitter) emitCall(instr *ir.Node, p ir.CallPayload) (uint32, error) {
	calleeID, ok := fe.e.funcIDs[p.Callee]
	if !ok {
		return 0, diag.New(diag.KindBinding, diag.Position{}, p.Callee.Name(), "call to an undeclared function")
	}
	args, err := fe.evalArgs(p.Args)
	if err != nil {
		return 0, err
	}
	resultTypeID := fe.e.voidID
	if instr.Type != nil {
		tid, err := fe.e.typeID(instr.Type)
		if err != nil {
			return 0, err
		}
		resultTypeID = tid
	}
	return fe.e.b.AddFunctionCall(resultTypeID, calleeID, args...), nil
}

// emitIf emits a structured two-way selection. True/False are
// AnonymousLambdas taking no parameters of their own (If carries no
// block arguments beyond its yielded results); an absent False branches
// the false edge straight to the merge block, which is only well-formed
// when YieldTypes is empty.
func (fe *functionEmitter) emitIf(p ir.IfPayload, mc *mergeContext) ([]uint32, error) {
	e := fe.e
	cond, err := fe.evalValue(p.Cond)
	if err != nil {
		return nil, err
	}

	mergeLabel := e.b.AllocID()
	trueLabel := e.b.AllocID()
	falseLabel := mergeLabel
	if p.False != nil {
		falseLabel = e.b.AllocID()
	} else if len(p.YieldTypes) > 0 {
		return nil, diag.New(diag.KindStructural, diag.Position{}, "", "if has yield types but no else branch")
	}

	e.b.AddSelectionMerge(mergeLabel, SelectionControlNone)
	e.b.AddBranchConditional(cond, trueLabel, falseLabel)

	var yields []yieldRecord
	branchMC := &mergeContext{parent: mc, kind: mergeIfMatchBlock, mergeLabel: mergeLabel, yields: &yields}

	e.b.AddLabelWithID(trueLabel)
	fe.currentLabel = trueLabel
	if err := fe.emitStmt(p.True.Body(), branchMC); err != nil {
		return nil, err
	}

	if p.False != nil {
		e.b.AddLabelWithID(falseLabel)
		fe.currentLabel = falseLabel
		if err := fe.emitStmt(p.False.Body(), branchMC); err != nil {
			return nil, err
		}
	}

	e.b.AddLabelWithID(mergeLabel)
	fe.currentLabel = mergeLabel
	return fe.phiFromYields(p.YieldTypes, yields)
}

func (fe *functionEmitter) emitMatch(p ir.MatchPayload, mc *mergeContext) ([]uint32, error) {
	e := fe.e
	sel, err := fe.evalValue(p.Inspectee)
	if err != nil {
		return nil, err
	}

	mergeLabel := e.b.AllocID()
	defaultLabel := mergeLabel
	if p.Default != nil {
		defaultLabel = e.b.AllocID()
	} else if len(p.YieldTypes) > 0 {
		return nil, diag.New(diag.KindStructural, diag.Position{}, "", "match has yield types but no default case")
	}

	caseLabels := make([]uint32, len(p.Cases))
	switchWords := make([]uint32, 0, len(p.Cases)*2)
	for i, c := range p.Cases {
		lit, err := evalSwitchLiteral(c.Literal)
		if err != nil {
			return nil, err
		}
		caseLabels[i] = e.b.AllocID()
		switchWords = append(switchWords, lit, caseLabels[i])
	}

	e.b.AddSelectionMerge(mergeLabel, SelectionControlNone)
	e.b.AddSwitch(sel, defaultLabel, switchWords...)

	var yields []yieldRecord
	branchMC := &mergeContext{parent: mc, kind: mergeIfMatchBlock, mergeLabel: mergeLabel, yields: &yields}

	for i, c := range p.Cases {
		e.b.AddLabelWithID(caseLabels[i])
		fe.currentLabel = caseLabels[i]
		if err := fe.emitStmt(c.Body.Body(), branchMC); err != nil {
			return nil, err
		}
	}
	if p.Default != nil {
		e.b.AddLabelWithID(defaultLabel)
		fe.currentLabel = defaultLabel
		if err := fe.emitStmt(p.Default.Body(), branchMC); err != nil {
			return nil, err
		}
	}

	e.b.AddLabelWithID(mergeLabel)
	fe.currentLabel = mergeLabel
	return fe.phiFromYields(p.YieldTypes, yields)
}

// emitLoop emits a structured loop as the canonical SPIR-V
// preheader/header/body/continue/merge shape. Loop-carried params need
// an OpPhi in the header merging the preheader edge (known immediately)
// with every MergeContinue edge (only known once the body has been
// walked); their result ids are allocated up front so the body can
// reference them, and the actual OpPhi instructions are spliced into
// the header after the fact, exploiting the same forward-reference
// allowance SPIR-V grants OpFunctionCall.
func (fe *functionEmitter) emitLoop(p ir.LoopPayload, mc *mergeContext) ([]uint32, error) {
	e := fe.e
	initArgs, err := fe.evalArgs(p.InitialArgs)
	if err != nil {
		return nil, err
	}
	preheaderLabel := fe.currentLabel

	headerLabel := e.b.AllocID()
	e.b.AddBranch(headerLabel)
	e.b.AddLabelWithID(headerLabel)
	fe.currentLabel = headerLabel
	phiInsertAt := e.b.FunctionInstructionCount()

	paramTypeIDs := make([]uint32, len(p.Params))
	phiIDs := make([]uint32, len(p.Params))
	for i, prm := range p.Params {
		tid, err := e.typeID(prm.Type)
		if err != nil {
			return nil, err
		}
		paramTypeIDs[i] = tid
		phiIDs[i] = e.b.AllocID()
	}

	bodyLabel := e.b.AllocID()
	mergeLabel := e.b.AllocID()
	contLabel := e.b.AllocID()
	e.b.AddLoopMerge(mergeLabel, contLabel, LoopControlNone)
	e.b.AddBranch(bodyLabel)

	e.b.AddLabelWithID(bodyLabel)
	fe.currentLabel = bodyLabel
	for i, prm := range p.Params {
		fe.valueIDs[prm] = phiIDs[i]
	}

	var breakYields []yieldRecord
	var continueArgs []yieldRecord
	loopMC := &mergeContext{
		parent: mc, kind: mergeLoop,
		mergeLabel: mergeLabel, contLabel: contLabel,
		yields: &breakYields, continueArgs: &continueArgs,
	}
	if err := fe.emitStmt(p.Body.Body(), loopMC); err != nil {
		return nil, err
	}

	e.b.AddLabelWithID(contLabel)
	fe.currentLabel = contLabel
	e.b.AddBranch(headerLabel)

	phiInstrs := make([]Instruction, len(p.Params))
	for i := range p.Params {
		ib := NewInstructionBuilder()
		ib.AddWord(paramTypeIDs[i])
		ib.AddWord(phiIDs[i])
		ib.AddWord(initArgs[i])
		ib.AddWord(preheaderLabel)
		for _, ca := range continueArgs {
			ib.AddWord(ca.args[i])
			ib.AddWord(ca.pred)
		}
		phiInstrs[i] = ib.Build(OpPhi)
	}
	e.b.insertFunctionInstructions(phiInsertAt, phiInstrs)

	e.b.AddLabelWithID(mergeLabel)
	fe.currentLabel = mergeLabel
	return fe.phiFromYields(p.YieldTypes, breakYields)
}

// emitControl models a join point reachable only via Join as a loop
// that always runs exactly once: SPIR-V has no structured construct for
// "a region you can jump out of the middle of" other than a loop merge,
// so Control borrows that shape without any actual iteration — nothing
// ever branches back to its continue block.
func (fe *functionEmitter) emitControl(p ir.ControlPayload, mc *mergeContext) ([]uint32, error) {
	e := fe.e
	bodyLabel := e.b.AllocID()
	mergeLabel := e.b.AllocID()
	contLabel := e.b.AllocID()

	e.b.AddLoopMerge(mergeLabel, contLabel, LoopControlNone)
	e.b.AddBranch(bodyLabel)

	e.b.AddLabelWithID(bodyLabel)
	fe.currentLabel = bodyLabel
	var yields []yieldRecord
	innerMC := &mergeContext{parent: mc, kind: mergeControl, mergeLabel: mergeLabel, yields: &yields}
	if err := fe.emitStmt(p.Inside.Body(), innerMC); err != nil {
		return nil, err
	}

	e.b.AddLabelWithID(contLabel)
	fe.currentLabel = contLabel
	e.b.AddBranch(bodyLabel)

	e.b.AddLabelWithID(mergeLabel)
	fe.currentLabel = mergeLabel
	return fe.phiFromYields(p.YieldTypes, yields)
}

// emitBlockInstr emits a Block: a nested scope with no branch of its
// own, whose only way out is MergeYield. Its body is inlined directly
// into the current SPIR-V block; the merge label only becomes a real
// block once that inlined body reaches its MergeYield (or a further
// nested exit bubbles a branch up to it).
func (fe *functionEmitter) emitBlockInstr(p ir.BlockPayload, mc *mergeContext) ([]uint32, error) {
	e := fe.e
	mergeLabel := e.b.AllocID()
	var yields []yieldRecord
	innerMC := &mergeContext{parent: mc, kind: mergeIfMatchBlock, mergeLabel: mergeLabel, yields: &yields}
	if err := fe.emitStmt(p.Inside.Body(), innerMC); err != nil {
		return nil, err
	}
	e.b.AddLabelWithID(mergeLabel)
	fe.currentLabel = mergeLabel
	return fe.phiFromYields(p.YieldTypes, yields)
}
