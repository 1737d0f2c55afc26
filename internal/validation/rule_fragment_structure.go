package validation

import (
	language "github.com/mjmahone/fragc/internal/language"
)

// checkFragmentStructure verifies the shape of the fragment graph before
// any argument resolution is attempted: argument definitions are unique per
// fragment, every spread targets a known fragment, supplied arguments name
// declared ones, and no fragment transitively spreads itself. The return
// value reports whether the graph is safe to walk.
func (c *checker) checkFragmentStructure() bool {
	walkable := true

	for _, frag := range c.doc.Fragments {
		seen := make(map[string]bool, len(frag.ArgumentDefinitions))
		for _, def := range frag.ArgumentDefinitions {
			if seen[def.Variable] {
				c.add(violationDuplicateFragmentArgument(frag.Name, def.Variable, def.Position))
				continue
			}
			seen[def.Variable] = true
		}
	}

	c.forEachDocumentSpread(func(s *language.FragmentSpread) {
		frag := c.doc.Fragments.ForName(s.Name)
		if frag == nil {
			c.add(violationUnknownFragment(s.Name, s.Position))
			walkable = false
			return
		}
		for _, arg := range s.Arguments {
			if frag.ArgumentDefinitions.ForName(arg.Name) == nil {
				c.add(violationUnknownFragmentArgument(frag.Name, arg.Name, arg.Position))
			}
		}
	})

	if c.checkFragmentCycles() {
		walkable = false
	}
	return walkable
}

// checkFragmentCycles runs a three-color DFS over the fragment spread graph
// and reports each cycle once. Returns true when any cycle exists.
func (c *checker) checkFragmentCycles() bool {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(c.doc.Fragments))
	found := false

	var stack []string
	var dfs func(frag *language.FragmentDefinition)
	dfs = func(frag *language.FragmentDefinition) {
		state[frag.Name] = visiting
		stack = append(stack, frag.Name)
		forEachSpread(frag.SelectionSet, func(s *language.FragmentSpread) {
			target := c.doc.Fragments.ForName(s.Name)
			if target == nil {
				return
			}
			switch state[target.Name] {
			case visiting:
				found = true
				path := cyclePath(stack, target.Name)
				c.add(violationFragmentCycle(path, s.Position))
			case unvisited:
				dfs(target)
			}
		})
		stack = stack[:len(stack)-1]
		state[frag.Name] = done
	}

	for _, frag := range c.doc.Fragments {
		if state[frag.Name] == unvisited {
			dfs(frag)
		}
	}
	return found
}

// cyclePath slices the DFS stack from the re-entered fragment onward and
// closes the loop by repeating it.
func cyclePath(stack []string, reentered string) []string {
	for i, name := range stack {
		if name == reentered {
			path := make([]string, 0, len(stack)-i+1)
			path = append(path, stack[i:]...)
			return append(path, reentered)
		}
	}
	return []string{reentered, reentered}
}
