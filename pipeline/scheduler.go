package pipeline

import "github.com/vkshade/shadyc/ir"

// schedulerFunctionName names the dummy scheduling entry PrependScheduler
// adds, mirroring shady's generate_dummy_constants pattern of seeding the
// module with a fixed declaration a later stage can find by name.
const schedulerFunctionName = "__scheduler"

// PrependScheduler is spec.md §9's supplemented dynamic-scheduling
// feature: when Config.DynamicScheduling is set, Run adds a scheduler
// Function to the module before bind_program sees it. The scheduler
// itself — picking a ready workgroup off a device-side queue — is a
// target-specific runtime concern outside this grammar's scope; what
// this stage owns is reserving the declaration's name and shape so a
// front-end or later backend pass can recognize and fill it in.
func PrependScheduler(src *ir.Arena, prog *ir.Node) *ir.Node {
	rp, ok := prog.Payload.(*ir.RootPayload)
	if !ok {
		return prog
	}
	for _, d := range rp.Decls {
		if d.IsFunction() && d.Name() == schedulerFunctionName {
			return prog // already present
		}
	}

	fn := src.NewFunctionHeader(schedulerFunctionName, nil, nil, false)
	src.SetFunctionBody(fn, nil, src.NewReturn(nil))

	decls := append(append(ir.NodeList{}, rp.Decls...), fn)
	return src.NewRoot(decls)
}
