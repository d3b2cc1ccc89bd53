package bucket

import "github.com/agentstation/polemap/pkg/attachment"

// Group is a display row: a head record and the wires it carries.
type Group struct {
	Head     attachment.Record   `json:"head" yaml:"head"`
	Children []attachment.Record `json:"children,omitempty" yaml:"children,omitempty"`
}

type slot struct {
	pole  string
	layer attachment.Layer
	key   float64
}

type ref struct {
	pole  string
	layer attachment.Layer
	id    string
}

// GroupRecords nests wires under the insulator carrying them so a wire is not
// displayed twice. A wire belongs to an insulator when it names it as parent,
// or, lacking a usable parent link, when its bucket on that pole and layer
// holds exactly one insulator. Everything else is its own group. Groups keep
// input order.
func GroupRecords(records []attachment.Record) []Group {
	// First pass: index insulators by id and by height slot.
	byID := make(map[ref]int)
	bySlot := make(map[slot][]int)
	for i, r := range records {
		if r.Kind != attachment.KindInsulator {
			continue
		}
		byID[ref{r.PoleID, r.Layer, r.ID}] = i
		s := slot{r.PoleID, r.Layer, Key(r.Height)}
		bySlot[s] = append(bySlot[s], i)
	}

	// Second pass: attach wires, preserving input order of heads.
	parentOf := make(map[int]int)
	for i, r := range records {
		if r.Kind != attachment.KindWire {
			continue
		}
		if r.ParentID != "" {
			if p, ok := byID[ref{r.PoleID, r.Layer, r.ParentID}]; ok {
				parentOf[i] = p
				continue
			}
		}
		if candidates := bySlot[slot{r.PoleID, r.Layer, Key(r.Height)}]; len(candidates) == 1 {
			parentOf[i] = candidates[0]
		}
	}

	groups := make([]Group, 0, len(records))
	head := make(map[int]int)
	for i, r := range records {
		if _, child := parentOf[i]; child {
			continue
		}
		head[i] = len(groups)
		groups = append(groups, Group{Head: r})
	}
	for i, r := range records {
		if p, ok := parentOf[i]; ok {
			g := &groups[head[p]]
			g.Children = append(g.Children, r)
		}
	}
	return groups
}
