// Package thread holds the client-side model of one content item's discussion.
//
// Comments live in an arena keyed by id. The top-level order and each node's
// replies are kept as id index lists, so targeted updates and subtree removal
// never walk a nested object graph and never recurse.
package thread

import (
	"slices"
	"sync"
	"time"
)

// Comment is a server-confirmed comment. ID, CreatedAt and Score are assigned
// by the server; AuthorID and Text never change once the comment is in a Tree.
type Comment struct {
	ID        int64
	ParentID  *int64
	AuthorID  int64
	Text      string
	CreatedAt time.Time
	Score     int64
}

// View is a comment together with its nesting depth, zero for top level.
type View struct {
	Comment
	Depth int
}

type node struct {
	comment  Comment
	parent   int64
	children []int64
}

// Tree is the thread of exactly one content item. It is safe for concurrent use.
type Tree struct {
	mu        sync.RWMutex
	contentID int64
	nodes     map[int64]*node
	roots     []int64
}

func New() *Tree {
	return &Tree{nodes: make(map[int64]*node)}
}

// Replace drops the current thread and loads comments for contentID.
// Records are linked through ParentID; a record whose parent is missing from
// the batch becomes top level. For duplicate ids the later record wins and
// the first position is kept.
func (t *Tree) Replace(contentID int64, comments []Comment) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.contentID = contentID
	t.nodes = make(map[int64]*node, len(comments))
	t.roots = nil

	order := make([]int64, 0, len(comments))
	for _, c := range comments {
		if n, ok := t.nodes[c.ID]; ok {
			n.comment = c
			continue
		}
		t.nodes[c.ID] = &node{comment: c}
		order = append(order, c.ID)
	}

	for _, id := range order {
		n := t.nodes[id]
		if pid := n.comment.ParentID; pid != nil && *pid != id {
			if p, ok := t.nodes[*pid]; ok {
				n.parent = *pid
				p.children = append(p.children, id)
				continue
			}
		}
		t.roots = append(t.roots, id)
	}

	t.breakCycles(order)
}

// breakCycles promotes to top level any node that cannot be reached from a
// root, which only happens when the parent links in a batch form a loop.
func (t *Tree) breakCycles(order []int64) {
	reached := make(map[int64]struct{}, len(t.nodes))
	mark := func(from int64) {
		stack := []int64{from}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			reached[id] = struct{}{}
			stack = append(stack, t.nodes[id].children...)
		}
	}
	for _, id := range t.roots {
		mark(id)
	}
	if len(reached) == len(t.nodes) {
		return
	}

	for _, id := range order {
		if _, ok := reached[id]; ok {
			continue
		}
		n := t.nodes[id]
		t.detach(id, n.parent)
		n.parent = 0
		t.roots = append(t.roots, id)
		mark(id)
	}
}

// Insert adds a confirmed comment. It is appended to its parent's replies
// when ParentID names a comment in the tree and to the top level otherwise.
// Inserting an id that is already present refreshes its server-assigned
// fields and keeps its position.
func (t *Tree) Insert(c Comment) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n, ok := t.nodes[c.ID]; ok {
		n.comment.CreatedAt = c.CreatedAt
		n.comment.Score = c.Score
		return
	}

	n := &node{comment: c}
	t.nodes[c.ID] = n

	if c.ParentID != nil {
		if p, ok := t.nodes[*c.ParentID]; ok {
			n.parent = *c.ParentID
			p.children = append(p.children, c.ID)
			return
		}
	}
	t.roots = append(t.roots, c.ID)
}

// UpdateScore sets the score of id. It reports false when id is not in the tree.
func (t *Tree) UpdateScore(id, score int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	n.comment.Score = score
	return true
}

// Remove deletes id and every reply below it, returning the removed ids in
// pre-order. Unknown ids remove nothing.
func (t *Tree) Remove(id int64) []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	t.detach(id, n.parent)

	var removed []int64
	stack := []int64{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cn := t.nodes[cur]
		delete(t.nodes, cur)
		removed = append(removed, cur)

		for i := len(cn.children) - 1; i >= 0; i-- {
			stack = append(stack, cn.children[i])
		}
	}
	return removed
}

func (t *Tree) detach(id, parent int64) {
	drop := func(v int64) bool { return v == id }
	if p, ok := t.nodes[parent]; ok && parent != 0 {
		p.children = slices.DeleteFunc(p.children, drop)
		return
	}
	t.roots = slices.DeleteFunc(t.roots, drop)
}

func (t *Tree) ContentID() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.contentID
}

func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

func (t *Tree) Get(id int64) (Comment, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n, ok := t.nodes[id]
	if !ok {
		return Comment{}, false
	}
	return n.comment, true
}

func (t *Tree) Roots() []Comment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.collect(t.roots)
}

func (t *Tree) Children(id int64) []Comment {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return t.collect(n.children)
}

func (t *Tree) collect(ids []int64) []Comment {
	out := make([]Comment, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.nodes[id].comment)
	}
	return out
}

// Walk visits every comment in display order (pre-order, replies after their
// parent) until fn returns false. fn must not modify the tree.
func (t *Tree) Walk(fn func(c Comment, depth int) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	type frame struct {
		id    int64
		depth int
	}

	stack := make([]frame, 0, len(t.roots))
	for i := len(t.roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{id: t.roots[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.nodes[f.id]
		if !fn(n.comment, f.depth) {
			return
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: n.children[i], depth: f.depth + 1})
		}
	}
}

// Snapshot returns the thread flattened in display order.
func (t *Tree) Snapshot() []View {
	out := make([]View, 0, t.Len())
	t.Walk(func(c Comment, depth int) bool {
		out = append(out, View{Comment: c, Depth: depth})
		return true
	})
	return out
}
