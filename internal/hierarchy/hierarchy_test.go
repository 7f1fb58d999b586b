package hierarchy

import (
	"testing"

	"unshrink/internal/classinfo"
)

func TestBuild(t *testing.T) {
	classes := []classinfo.CommonClassInfo{
		classinfo.NewClassInfo("a/B", "java/lang/Object", []string{"a/I"}, 0, nil, nil),
		classinfo.NewClassInfo("a/C", "a/B", []string{"a/I"}, 0, nil, nil),
	}

	g := Build(classes)

	if len(g.Nodes) != 2 {
		t.Errorf("Nodes = %v", g.Nodes)
	}
	wantEdges := map[[2]string]bool{
		{"a/B", "java/lang/Object"}: true,
		{"a/B", "a/I"}:              true,
		{"a/C", "a/B"}:              true,
		{"a/C", "a/I"}:              true,
	}
	if len(g.Edges) != len(wantEdges) {
		t.Fatalf("Edges = %v", g.Edges)
	}
	for _, e := range g.Edges {
		if !wantEdges[[2]string{e.Caller, e.Callee}] {
			t.Errorf("unexpected edge %v", e)
		}
	}
}
