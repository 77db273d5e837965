package catalog

type ParentCategory struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Subcategories []ChildCategory `json:"subcategories"`
}

type ChildCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CategoryTree groups categories under their parents. Parents keep the order
// in which they were first seen, either directly or through one of their
// children; children keep input order.
func CategoryTree(categories []Category) []ParentCategory {
	index := make(map[int]int, len(categories))
	var tree []ParentCategory

	parent := func(id int, name string) *ParentCategory {
		if pos, ok := index[id]; ok {
			return &tree[pos]
		}
		index[id] = len(tree)
		tree = append(tree, ParentCategory{ID: id, Name: name, Subcategories: []ChildCategory{}})
		return &tree[len(tree)-1]
	}

	for _, c := range categories {
		if c.Parent == nil {
			p := parent(c.ID, c.Name)
			p.Name = c.Name
			continue
		}
		p := parent(c.Parent.ID, c.Parent.Name)
		p.Subcategories = append(p.Subcategories, ChildCategory{ID: c.ID, Name: c.Name})
	}

	if tree == nil {
		return []ParentCategory{}
	}
	return tree
}
