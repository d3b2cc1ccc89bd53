package adapters

import (
	"github.com/tidwall/gjson"

	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/normalize"
)

// Source-A layer types.
const (
	layerMeasured    = "Measured"
	layerRecommended = "Recommended"
)

// designPole is the per-design context shared by every record of a structure.
type designPole struct {
	id        string
	secondary string
	layer     attachment.Layer
	agl       float64
}

func (p designPole) record(kind attachment.Kind, id, description, owner string) attachment.Record {
	return attachment.Record{
		PoleID:        p.id,
		SecondaryCode: p.secondary,
		Layer:         p.layer,
		Kind:          kind,
		Description:   description,
		Owner:         owner,
		ID:            id,
		PoleHeight:    p.agl,
	}
}

// walkDesignTree visits locations, designs and their structure members in
// document order.
func walkDesignTree(root gjson.Result, e *emitter) {
	i := 0
	visit := func(_, location gjson.Result) bool {
		i++
		walkLocation(location, i, e)
		return true
	}
	root.Get("leads").ForEach(func(_, lead gjson.Result) bool {
		lead.Get("locations").ForEach(visit)
		return true
	})
	root.Get("locations").ForEach(visit)
	if i == 0 {
		e.warn("design document contains no locations")
	}
}

func walkLocation(location gjson.Result, i int, e *emitter) {
	poleID := normalize.PoleID(location.Get("label").String())
	if poleID == "" {
		poleID = normalize.PoleID(location.Get("id").String())
		if poleID == "" {
			poleID = fallbackID("LOCATION", i)
		}
		e.warn("design location %d has no label; using %s", i, poleID)
	}
	secondary := location.Get("mapNumber").String()

	designs := location.Get("designs")
	if !designs.IsArray() || len(designs.Array()) == 0 {
		e.warn("pole %s: design location has no designs", poleID)
		return
	}
	designs.ForEach(func(_, design gjson.Result) bool {
		var layer attachment.Layer
		switch lt := design.Get("layerType").String(); lt {
		case layerMeasured:
			layer = attachment.SourceABaseline
		case layerRecommended:
			layer = attachment.SourceAProposed
		default:
			e.warn("pole %s: skipping design with layer type %q", poleID, lt)
			return true
		}
		structure := design.Get("structure")
		agl, _ := e.length(structure.Get("pole.agl"), poleID)
		walkStructure(structure, designPole{id: poleID, secondary: secondary, layer: layer, agl: agl}, e)
		return true
	})
}

// armRef is what an insulator inherits from the cross-arm that carries it.
type armRef struct {
	id     string
	height float64
	known  bool
}

// insulatorRef is what a wire inherits from the insulator that carries it.
type insulatorRef struct {
	id     string
	height float64
	known  bool
}

func walkStructure(structure gjson.Result, pole designPole, e *emitter) {
	wires := make(map[string]gjson.Result)
	structure.Get("wires").ForEach(func(_, w gjson.Result) bool {
		wires[w.Get("id").String()] = w
		return true
	})

	arms := make(map[string]armRef)
	structure.Get("crossArms").ForEach(func(key, arm gjson.Result) bool {
		id := idOf(arm, "crossarm", key)
		height, known := e.length(arm.Get("attachmentHeight"), pole.id)
		r := pole.record(attachment.KindCrossArm, id,
			orDefault(arm.Get("clientItem.type").String(), "Cross Arm"),
			e.n.Owner(arm.Get("owner.id").String()))
		r.Height = height
		r.CrossArmID = id
		r.Subtype = e.n.Class(attachment.KindCrossArm)
		e.emit(r, known)
		arm.Get("insulators").ForEach(func(_, ref gjson.Result) bool {
			arms[refID(ref)] = armRef{id: id, height: height, known: known}
			return true
		})
		return true
	})

	parents := make(map[string]insulatorRef)
	structure.Get("insulators").ForEach(func(key, ins gjson.Result) bool {
		id := idOf(ins, "insulator", key)
		arm, onArm := arms[id]
		height, known := e.length(ins.Get("attachmentHeight"), pole.id)
		if !known && onArm {
			height, known = arm.height, arm.known
		}
		itemType := ins.Get("clientItem.type").String()
		if ci := ins.Get("clientItem"); itemType == "" && ci.Type == gjson.String {
			itemType = ci.String()
		}
		r := pole.record(attachment.KindInsulator, id, orDefault(itemType, "Insulator"),
			e.n.Owner(ins.Get("owner.id").String()))
		r.Height = height
		if onArm {
			r.CrossArmID = arm.id
		}
		r.Subtype = e.n.Class(attachment.KindInsulator, itemType)

		first := true
		ins.Get("wires").ForEach(func(_, ref gjson.Result) bool {
			wireID := refID(ref)
			parents[wireID] = insulatorRef{id: id, height: height, known: known}
			if w, ok := wires[wireID]; ok && first {
				r.Subtype = wireClass(w, e)
				first = false
			}
			return true
		})
		e.emit(r, known)
		return true
	})

	structure.Get("wires").ForEach(func(key, w gjson.Result) bool {
		id := idOf(w, "wire", key)
		r := pole.record(attachment.KindWire, id,
			describe(w.Get("usageGroup").String(), w.Get("clientItem.size").String()),
			e.n.Owner(w.Get("owner.id").String()))
		height, known := e.length(w.Get("attachmentHeight"), pole.id)
		if parent, ok := parents[id]; ok {
			r.ParentID = parent.id
			if parent.known {
				height, known = parent.height, true
			}
		}
		r.Height = height
		r.Subtype = wireClass(w, e)
		e.emit(r, known)
		return true
	})

	structure.Get("guys").ForEach(func(key, g gjson.Result) bool {
		id := idOf(g, "guy", key)
		r := pole.record(attachment.KindGuy, id,
			orDefault(g.Get("clientItem.type").String(), "Guy"),
			e.n.Owner(g.Get("owner.id").String()))
		height, known := e.fallbackHeight(g, pole)
		r.Height = height
		r.Subtype = e.n.Class(attachment.KindGuy)
		e.emit(r, known)
		return true
	})

	structure.Get("equipments").ForEach(func(key, eq gjson.Result) bool {
		id := idOf(eq, "equipment", key)
		itemType := eq.Get("clientItem.type").String()
		r := pole.record(attachment.KindEquipment, id, orDefault(itemType, "Equipment"),
			e.n.Owner(eq.Get("owner.id").String()))
		height, known := e.fallbackHeight(eq, pole)
		r.Height = height
		r.Subtype = e.n.Class(attachment.KindEquipment, itemType)
		e.emit(r, known)
		return true
	})
}

func wireClass(w gjson.Result, e *emitter) attachment.Class {
	return e.n.Class(attachment.KindWire, w.Get("usageGroup").String(), w.Get("clientItem.size").String())
}

// fallbackHeight resolves guy and equipment heights: explicit attachment
// height first, then the pole's above-ground length less the distance to the
// member's bottom.
func (e *emitter) fallbackHeight(item gjson.Result, pole designPole) (float64, bool) {
	if h, ok := e.length(item.Get("attachmentHeight"), pole.id); ok {
		return h, true
	}
	if pole.agl > 0 {
		if d, ok := e.length(item.Get("distanceToBottom"), pole.id); ok {
			return pole.agl - d, true
		}
	}
	return 0, false
}

// length reads a Source-A length: a {unit, value} object or a bare number
// in metres.
func (e *emitter) length(v gjson.Result, poleID string) (float64, bool) {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return 0, false
	case v.Type == gjson.Number:
		return e.n.Feet(v.Float(), normalize.Metre), true
	case v.IsObject():
		value := v.Get("value")
		if value.Type != gjson.Number {
			e.warn("pole %s: length %s has no numeric value", poleID, v.Raw)
			return 0, false
		}
		unit, ok := normalize.ParseUnit(v.Get("unit").String())
		if !ok {
			e.warn("pole %s: unknown length unit %q; assuming metres", poleID, v.Get("unit").String())
			unit = normalize.Metre
		}
		return e.n.Feet(value.Float(), unit), true
	default:
		e.warn("pole %s: unreadable length %s", poleID, v.Raw)
		return 0, false
	}
}

// idOf returns the member id, falling back to a positional id.
func idOf(v gjson.Result, prefix string, key gjson.Result) string {
	if id := v.Get("id").String(); id != "" {
		return id
	}
	return fallbackID(prefix, int(key.Int()))
}

// refID accepts either a bare id or an object carrying one.
func refID(ref gjson.Result) string {
	if ref.IsObject() {
		return ref.Get("id").String()
	}
	return ref.String()
}
