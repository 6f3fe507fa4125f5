// Package tree reconstructs the hierarchical call graph from the flat span
// list and computes per-node timing breakdowns.
package tree

import "github.com/whitesnakegang/ouroboros-sub007/internal/try/trace"

// Build indexes spans by id and links each under its parent. A span whose
// parent id does not appear in the span set becomes a root, so disjoint
// fan-out produces multiple roots rather than an error. Children keep the
// original encounter order. Arrival order of the input is arbitrary: spans
// from concurrent sub-calls complete out of order, which is why indexing
// happens before any linking.
func Build(spans []trace.SpanRecord, totalDurationMs int64) []*trace.SpanNode {
	if len(spans) == 0 {
		return nil
	}

	index := make(map[string]*trace.SpanNode, len(spans))
	nodes := make([]*trace.SpanNode, 0, len(spans))
	for _, s := range spans {
		node := &trace.SpanNode{
			Span:       s,
			DurationMs: s.DurationMs(),
		}
		if _, dup := index[s.ID]; !dup {
			index[s.ID] = node
		}
		nodes = append(nodes, node)
	}

	var roots []*trace.SpanNode
	for _, node := range nodes {
		parent, ok := index[node.Span.ParentID]
		if node.Span.ParentID == "" || !ok || parent == node {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// Spans in a parent cycle (a→b→a) are neither roots nor reachable
	// from one. Promote the first-encountered member of each cycle and
	// cut its parent edge, like self-parenting, so no span vanishes.
	reached := make(map[*trace.SpanNode]bool, len(nodes))
	var mark func(*trace.SpanNode)
	mark = func(n *trace.SpanNode) {
		if reached[n] {
			return
		}
		reached[n] = true
		for _, child := range n.Children {
			mark(child)
		}
	}
	for _, root := range roots {
		mark(root)
	}
	for _, node := range nodes {
		if reached[node] {
			continue
		}
		if parent, ok := index[node.Span.ParentID]; ok {
			parent.Children = dropChild(parent.Children, node)
		}
		roots = append(roots, node)
		mark(node)
	}

	for _, root := range roots {
		computeMetrics(root, totalDurationMs)
	}
	return roots
}

func dropChild(children []*trace.SpanNode, node *trace.SpanNode) []*trace.SpanNode {
	for i, child := range children {
		if child == node {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}

// computeMetrics fills self-duration and percentages depth first. Negative
// self-duration from overlapping concurrent children or clock skew clamps
// to 0; a zero total yields zero percentages instead of dividing.
func computeMetrics(node *trace.SpanNode, totalDurationMs int64) {
	var childrenMs int64
	for _, child := range node.Children {
		computeMetrics(child, totalDurationMs)
		childrenMs += child.DurationMs
	}

	node.SelfDurationMs = node.DurationMs - childrenMs
	if node.SelfDurationMs < 0 {
		node.SelfDurationMs = 0
	}

	if totalDurationMs > 0 {
		node.Percentage = float64(node.DurationMs) / float64(totalDurationMs) * 100
		node.SelfPercentage = float64(node.SelfDurationMs) / float64(totalDurationMs) * 100
	}
}

// Flatten returns the nodes of the forest in depth-first pre-order: each
// node before its children, children in order. Consumers paginate or sort
// the result without losing node identity.
func Flatten(roots []*trace.SpanNode) []*trace.SpanNode {
	var out []*trace.SpanNode
	var walk func(*trace.SpanNode)
	walk = func(node *trace.SpanNode) {
		out = append(out, node)
		for _, child := range node.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return out
}
