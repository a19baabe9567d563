package ir

import "testing"

func TestUniformityJoin(t *testing.T) {
	tests := []struct {
		name string
		a, b Uniformity
		want Uniformity
	}{
		{"unknown absorbed by uniform left", UniformityUnknown, UniformityUniform, UniformityUniform},
		{"unknown absorbed by uniform right", UniformityUniform, UniformityUnknown, UniformityUniform},
		{"unknown absorbed by varying", UniformityUnknown, UniformityVarying, UniformityVarying},
		{"both unknown stays unknown", UniformityUnknown, UniformityUnknown, UniformityUnknown},
		{"uniform join uniform is uniform", UniformityUniform, UniformityUniform, UniformityUniform},
		{"uniform join varying is varying", UniformityUniform, UniformityVarying, UniformityVarying},
		{"varying join uniform is varying", UniformityVarying, UniformityUniform, UniformityVarying},
		{"varying join varying is varying", UniformityVarying, UniformityVarying, UniformityVarying},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Join(tt.b); got != tt.want {
				t.Errorf("%s.Join(%s) = %s, want %s", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestUnqualify(t *testing.T) {
	a := NewArena(DefaultConfig())
	i := a.NewInt()
	q := a.NewQualified(UniformityVarying, i)

	inner, u := Unqualify(q)
	if inner != i {
		t.Fatalf("Unqualify returned wrong inner type")
	}
	if u != UniformityVarying {
		t.Fatalf("Unqualify returned wrong qualifier: %s", u)
	}

	inner2, u2 := Unqualify(i)
	if inner2 != i || u2 != UniformityUnknown {
		t.Fatalf("Unqualify on a non-Qualified type should pass through with Unknown qualifier")
	}
}

func TestAddressSpaceIsLogical(t *testing.T) {
	logical := []AddressSpace{GlobalLogical, SharedLogical, PrivateLogical}
	physical := []AddressSpace{GlobalPhysical, SharedPhysical, PrivatePhysical, SubgroupPhysical, FunctionSpace, Generic, Input, Output, External}

	for _, s := range logical {
		if !s.IsLogical() {
			t.Errorf("%s.IsLogical() = false, want true", s)
		}
	}
	for _, s := range physical {
		if s.IsLogical() {
			t.Errorf("%s.IsLogical() = true, want false", s)
		}
	}
}

func TestArrayInternmentDistinguishesSize(t *testing.T) {
	a := NewArena(DefaultConfig())
	i := a.NewInt()

	runtime1 := a.NewArray(i, nil)
	runtime2 := a.NewArray(i, nil)
	if runtime1 != runtime2 {
		t.Fatalf("two runtime-sized arrays of Int did not intern to the same node")
	}

	size4 := uint64(4)
	sized := a.NewArray(i, &size4)
	if sized == runtime1 {
		t.Fatalf("sized and runtime-sized arrays collapsed to the same node")
	}

	size4b := uint64(4)
	sized2 := a.NewArray(i, &size4b)
	if sized != sized2 {
		t.Fatalf("two Array(Int, 4) built from distinct size pointers did not intern to the same node")
	}
}
