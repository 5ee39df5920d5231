package walker

import (
	"testing"

	"github.com/darkxdd/FigmaCursor-sub000/internal/figma"
	"github.com/darkxdd/FigmaCursor-sub000/internal/tester"
)

func node(id, typ string, w, h float64, children ...figma.Node) figma.Node {
	n := figma.Node{ID: id, Name: id, Type: typ, Children: children}
	if w > 0 || h > 0 {
		n.AbsoluteBoundingBox = &figma.Rectangle{Width: w, Height: h}
	}
	return n
}

func TestFindIncludeTypeAndSize(t *testing.T) {
	nodes := []figma.Node{
		node("a", "COMPONENT", 100, 50),
		node("b", "TEXT", 100, 50),
		node("c", "COMPONENT", 10, 10),
	}
	got := Find(nodes, Options{IncludeTypes: []string{"COMPONENT"}, MinSize: 20})
	tester.Eq(t, len(got), 1)
	tester.Eq(t, got[0].ID, "a")
}

func TestFindExcludeTypes(t *testing.T) {
	nodes := []figma.Node{
		node("a", "FRAME", 100, 100),
		node("b", "VECTOR", 100, 100),
	}
	got := Find(nodes, Options{ExcludeTypes: []string{"VECTOR"}})
	tester.Eq(t, len(got), 1)
	tester.Eq(t, got[0].ID, "a")
}

func TestFindDescendsPastNonQualifyingParent(t *testing.T) {
	nodes := []figma.Node{
		node("parent", "FRAME", 500, 500,
			node("child", "COMPONENT", 100, 100),
		),
	}
	got := Find(nodes, Options{IncludeTypes: []string{"COMPONENT"}})
	tester.Eq(t, len(got), 1)
	tester.Eq(t, got[0].ID, "child")
}

func TestFindMaxComponentsStopsEarly(t *testing.T) {
	nodes := []figma.Node{
		node("a", "COMPONENT", 50, 50),
		node("b", "COMPONENT", 50, 50),
		node("c", "COMPONENT", 50, 50),
	}
	got := Find(nodes, Options{IncludeTypes: []string{"COMPONENT"}, MaxComponents: 2})
	tester.Eq(t, len(got), 2)
	tester.Eq(t, got[0].ID, "a")
	tester.Eq(t, got[1].ID, "b")
}

func TestFindMaxDepth(t *testing.T) {
	nodes := []figma.Node{
		node("top", "COMPONENT", 50, 50,
			node("deep", "COMPONENT", 50, 50),
		),
	}
	got := Find(nodes, Options{IncludeTypes: []string{"COMPONENT"}, MaxDepth: 1})
	tester.Eq(t, len(got), 1)
	tester.Eq(t, got[0].ID, "top")
}

func TestFindMissingGeometryFilteredByMinSize(t *testing.T) {
	nodes := []figma.Node{
		node("no-geom", "COMPONENT", 0, 0),
		node("sized", "COMPONENT", 40, 40),
	}
	got := Find(nodes, Options{IncludeTypes: []string{"COMPONENT"}, MinSize: 1})
	tester.Eq(t, len(got), 1)
	tester.Eq(t, got[0].ID, "sized")

	// Without a minimum, zero geometry qualifies.
	got = Find(nodes, Options{IncludeTypes: []string{"COMPONENT"}})
	tester.Eq(t, len(got), 2)
}

func TestFindMaxSize(t *testing.T) {
	nodes := []figma.Node{
		node("small", "FRAME", 100, 100),
		node("huge", "FRAME", 5000, 5000),
	}
	got := Find(nodes, Options{MaxSize: 1000})
	tester.Eq(t, len(got), 1)
	tester.Eq(t, got[0].ID, "small")
}

func TestByType(t *testing.T) {
	nodes := []figma.Node{
		node("a", "TEXT", 10, 10),
		node("b", "FRAME", 10, 10),
		node("c", "text", 10, 10),
	}
	got := ByType(nodes, "TEXT")
	tester.Eq(t, len(got), 2)
}

func TestPaginate(t *testing.T) {
	nodes := make([]figma.Node, 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		nodes = append(nodes, node(id, "FRAME", 10, 10))
	}

	p := Paginate(nodes, 1, 2)
	tester.Eq(t, len(p.Items), 2)
	tester.Eq(t, p.Total, 5)
	tester.True(t, p.HasMore)

	p = Paginate(nodes, 3, 2)
	tester.Eq(t, len(p.Items), 1)
	tester.False(t, p.HasMore)

	p = Paginate(nodes, 9, 2)
	tester.Eq(t, len(p.Items), 0)
	tester.Eq(t, p.Total, 5)
	tester.False(t, p.HasMore)
}

func TestTopLevelFlattensOneLevel(t *testing.T) {
	pages := []figma.Node{
		node("1:0", "CANVAS", 0, 0,
			node("1:1", "FRAME", 400, 300),
			node("1:2", "FRAME", 200, 100, node("1:3", "TEXT", 50, 20)),
		),
		node("2:0", "CANVAS", 0, 0, node("2:1", "COMPONENT", 120, 40)),
	}

	top := TopLevel(pages)
	tester.Eq(t, 3, len(top))
	tester.Eq(t, "1:1", top[0].ID)
	tester.Eq(t, "2:1", top[2].ID)
	// Grandchildren stay nested, not flattened.
	tester.Eq(t, 1, len(top[1].Children))
}

func TestTopLevelEmptyRoots(t *testing.T) {
	tester.Eq(t, 0, len(TopLevel(nil)))
	tester.Eq(t, 0, len(TopLevel([]figma.Node{node("1:0", "CANVAS", 0, 0)})))
}
