package rdfgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAndObjects(t *testing.T) {
	g := NewGraph()
	s := NamedNode("https://example/a")
	g.Add(s, "https://example/label", Literal("A"))
	objs := g.Objects(s, "https://example/label")
	assert.Len(t, objs, 1)
	assert.Equal(t, "A", objs[0].Value())
}

func TestSubjectsWithObject(t *testing.T) {
	g := NewGraph()
	scheme := NamedNode("https://example/scheme")
	c1 := NamedNode("https://example/c1")
	c2 := NamedNode("https://example/c2")
	g.Add(c1, "inScheme", scheme)
	g.Add(c2, "inScheme", scheme)
	subs := g.SubjectsWithObject("inScheme", scheme)
	assert.ElementsMatch(t, []Term{c1, c2}, subs)
}

func TestRemoveMatching(t *testing.T) {
	g := NewGraph()
	s := NamedNode("https://example/a")
	g.Add(s, "p", Literal("keep"))
	g.Add(s, "id", Literal("drop"))
	n := g.RemoveMatching(func(tr Triple) bool { return tr.P == "id" })
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, g.Count())
}

func TestReplaceObject(t *testing.T) {
	g := NewGraph()
	s := NamedNode("https://example/a")
	old := NamedNode("https://example/old")
	newT := NamedNode("https://example/new")
	g.Add(s, "ref", old)
	n := g.ReplaceObject(old, newT)
	assert.Equal(t, 1, n)
	assert.Equal(t, []Term{newT}, g.Objects(s, "ref"))
}

func TestMoveSubjectTriples(t *testing.T) {
	g := NewGraph()
	from := NamedNode("https://example/from")
	to := NamedNode("https://example/to")
	g.Add(from, "id", Literal("keep-id"))
	g.Add(from, "label", Literal("Move me"))
	g.MoveSubjectTriples(from, to, map[string]bool{"id": true})

	assert.Len(t, g.SubjectTriples(from), 1) // id stays
	moved := g.SubjectTriples(to)
	assert.Len(t, moved, 1)
	assert.Equal(t, "label", moved[0].P)
}

func TestBFSReachable(t *testing.T) {
	g := NewGraph()
	a := NamedNode("a")
	b := NamedNode("b")
	c := NamedNode("c")
	orphan := NamedNode("orphan")
	g.Add(a, "ref", b)
	g.Add(b, "ref", c)
	g.Add(orphan, "ref", a) // orphan points in, but is not reachable FROM a

	reached := BFSReachable(g, []Term{a})
	assert.True(t, reached[key(a)])
	assert.True(t, reached[key(b)])
	assert.True(t, reached[key(c)])
	assert.False(t, reached[key(orphan)])
}

func TestSubjectsPreservesFirstSeenOrder(t *testing.T) {
	g := NewGraph()
	a := NamedNode("a")
	b := NamedNode("b")
	g.Add(b, "p", Literal("1"))
	g.Add(a, "p", Literal("2"))
	g.Add(b, "p2", Literal("3"))
	assert.Equal(t, []Term{b, a}, g.Subjects())
}
