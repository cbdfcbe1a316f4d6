package config

import "github.com/matzehuels/framegrid/pkg/core/frameset"

// inherited carries the attributes a container passes to its descendants.
type inherited struct {
	border      int
	frameBorder bool
}

// Build creates a tree from a validated description. The returned paths map
// every node to its position in the description ("root/body/toc", or an
// index for unnamed nodes).
func Build(d *Document, opts frameset.Options) (*frameset.Tree, map[frameset.NodeID]string, error) {
	root := &d.Root
	inh := resolve(root, inherited{border: DefaultBorder, frameBorder: true})
	spec, err := containerSpec(root, inh)
	if err != nil {
		return nil, nil, err
	}
	spec.Name = nameOr(root.Name, d.Name)

	tree := frameset.NewTree(spec, opts)
	paths := map[frameset.NodeID]string{tree.Root(): "root"}
	if err := addChildren(tree, tree.Root(), root, inh, "root", paths); err != nil {
		return nil, nil, err
	}
	return tree, paths, nil
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

func resolve(n *Node, parent inherited) inherited {
	out := parent
	if n.Border != nil {
		out.border = *n.Border
	}
	if n.FrameBorder != nil {
		out.frameBorder = *n.FrameBorder
	}
	return out
}

func containerSpec(n *Node, inh inherited) (frameset.ContainerSpec, error) {
	rows, err := ParseLengths(n.Rows)
	if err != nil {
		return frameset.ContainerSpec{}, err
	}
	cols, err := ParseLengths(n.Cols)
	if err != nil {
		return frameset.ContainerSpec{}, err
	}
	return frameset.ContainerSpec{
		Name:          n.Name,
		Rows:          rows,
		Cols:          cols,
		Border:        inh.border,
		BorderVisible: inh.frameBorder,
		BorderColor:   n.BorderColor,
		NoResize:      n.NoResize,
		Flatten:       n.Flatten,
	}, nil
}

func addChildren(tree *frameset.Tree, parent frameset.NodeID, n *Node, inh inherited, path string, paths map[frameset.NodeID]string) error {
	for i := range n.Children {
		child := &n.Children[i]
		childInh := resolve(child, inh)
		p := childPath(path, i, child.Name)

		if !child.IsContainer() {
			id, err := tree.AddLeaf(parent, frameset.LeafSpec{
				Name:          child.Name,
				NoResize:      child.NoResize,
				FrameBorder:   childInh.frameBorder,
				NaturalWidth:  child.NaturalWidth,
				NaturalHeight: child.NaturalHeight,
			})
			if err != nil {
				return err
			}
			paths[id] = p
			continue
		}

		spec, err := containerSpec(child, childInh)
		if err != nil {
			return err
		}
		id, err := tree.AddContainer(parent, spec)
		if err != nil {
			return err
		}
		paths[id] = p
		if err := addChildren(tree, id, child, childInh, p, paths); err != nil {
			return err
		}
	}
	return nil
}
