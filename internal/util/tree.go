package util

// WalkPreorder visits root and its descendants depth-first, parents before
// children and siblings in the order children returns them. It uses an
// explicit stack, so depth is bounded by memory rather than the call stack.
// depth is 0 for the root.
func WalkPreorder[N any](root N, children func(N) []N, visit func(node N, depth int)) {
	type frame struct {
		node  N
		depth int
	}

	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visit(top.node, top.depth)

		kids := children(top.node)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: kids[i], depth: top.depth + 1})
		}
	}
}
