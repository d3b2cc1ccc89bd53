package adapters

import (
	"github.com/tidwall/gjson"

	"github.com/agentstation/polemap/pkg/attachment"
	"github.com/agentstation/polemap/pkg/normalize"
)

// Source-B photofirst_data sections.
const (
	sectionWire      = "wire"
	sectionInsulator = "insulator"
	sectionGuying    = "guying"
	sectionEquipment = "equipment"
)

// surveyPole is the per-node context shared by every record of a pole.
type surveyPole struct {
	id        string
	secondary string
	agl       float64
}

// surveyHeights is a measured item's baseline and proposed heights.
type surveyHeights struct {
	baseline float64
	proposed float64
	known    bool
}

type surveyWalker struct {
	e      *emitter
	photos map[string]gjson.Result
	traces map[string]gjson.Result
}

// walkSurvey visits pole nodes and the measurements of their main photo in
// document order.
func walkSurvey(root gjson.Result, e *emitter) {
	s := &surveyWalker{
		e:      e,
		photos: index(root.Get("photos")),
		traces: index(root.Get("traces.trace_data")),
	}
	poles := 0
	root.Get("nodes").ForEach(func(key, node gjson.Result) bool {
		attrs := node.Get("attributes")
		if firstValue(attrs.Get("node_type")).String() != "pole" && !attrs.Get("pole_tag").Exists() {
			return true
		}
		poles++
		s.walkNode(key.String(), node)
		return true
	})
	if poles == 0 {
		e.warn("survey document contains no pole nodes")
	}
}

func (s *surveyWalker) walkNode(nodeID string, node gjson.Result) {
	attrs := node.Get("attributes")
	pole := surveyPole{
		id:        normalize.PoleID(firstValue(attrs.Get("pole_tag")).Get("tagtext").String()),
		secondary: firstValue(attrs.Get("scid")).String(),
	}
	if pole.id == "" {
		pole.id = normalize.PoleID(nodeID)
		s.e.warn("survey node %s has no pole tag; using node id", nodeID)
	}
	if agl := firstValue(attrs.Get("measured_pole_height")); agl.Type == gjson.Number {
		pole.agl = s.e.n.Feet(agl.Float(), normalize.Inch)
	}

	photoID := mainPhoto(node.Get("photos"))
	if photoID == "" {
		s.e.warn("pole %s: survey node has no photos", pole.id)
		return
	}
	photo, ok := s.photos[photoID]
	if !ok {
		s.e.warn("pole %s: photo %s not found", pole.id, photoID)
		return
	}

	photo.Get("photofirst_data").ForEach(func(section, items gjson.Result) bool {
		items.ForEach(func(key, item gjson.Result) bool {
			s.walkItem(section.String(), key.String(), item, pole)
			return true
		})
		return true
	})
}

// mainPhoto returns the id of the photo associated as "main", or the first
// photo when none is.
func mainPhoto(photos gjson.Result) string {
	first, main := "", ""
	photos.ForEach(func(key, photo gjson.Result) bool {
		if first == "" {
			first = key.String()
		}
		if photo.Get("association").String() == "main" {
			main = key.String()
			return false
		}
		return true
	})
	if main != "" {
		return main
	}
	return first
}

func (s *surveyWalker) walkItem(section, id string, item gjson.Result, pole surveyPole) {
	trace := s.traces[item.Get("_trace").String()]
	owner := s.e.n.Owner(trace.Get("company").String())
	cableType := trace.Get("cable_type").String()
	traceType := trace.Get("_trace_type").String()

	switch section {
	case sectionWire:
		heights := s.measured(item)
		r := s.record(pole, attachment.KindWire, id, describe(cableType, traceType), owner)
		r.Subtype = s.e.n.Class(attachment.KindWire, cableType, traceType)
		s.emitLayers(r, item, heights)

	case sectionInsulator:
		heights := s.measured(item)
		insulatorType := item.Get("insulator_type").String()
		r := s.record(pole, attachment.KindInsulator, id, orDefault(insulatorType, "Insulator"), owner)
		r.Subtype = s.e.n.Class(attachment.KindInsulator, insulatorType)

		children := item.Get("_children.wire")
		first := true
		var wires []attachment.Record
		children.ForEach(func(key, child gjson.Result) bool {
			ct := s.traces[child.Get("_trace").String()]
			childCable, childType := ct.Get("cable_type").String(), ct.Get("_trace_type").String()
			w := s.record(pole, attachment.KindWire, key.String(), describe(childCable, childType), s.e.n.Owner(ct.Get("company").String()))
			w.ParentID = id
			w.Subtype = s.e.n.Class(attachment.KindWire, childCable, childType)
			if first {
				r.Subtype = w.Subtype
				if r.Owner == "" {
					r.Owner = w.Owner
				}
				first = false
			}
			wires = append(wires, w)
			return true
		})
		s.emitLayers(r, item, heights)
		for _, w := range wires {
			s.emitLayers(w, item, heights)
		}

	case sectionGuying:
		heights := s.withFallback(item, pole)
		r := s.record(pole, attachment.KindGuy, id, orDefault(cableType, "Guy"), owner)
		r.Subtype = s.e.n.Class(attachment.KindGuy)
		s.emitLayers(r, item, heights)

	case sectionEquipment:
		heights := s.withFallback(item, pole)
		equipmentType := item.Get("equipment_type").String()
		r := s.record(pole, attachment.KindEquipment, id, orDefault(equipmentType, "Equipment"), owner)
		r.Subtype = s.e.n.Class(attachment.KindEquipment, equipmentType)
		s.emitLayers(r, item, heights)
	}
}

func (s *surveyWalker) record(pole surveyPole, kind attachment.Kind, id, description, owner string) attachment.Record {
	return attachment.Record{
		PoleID:        pole.id,
		SecondaryCode: pole.secondary,
		Kind:          kind,
		Description:   description,
		Owner:         owner,
		ID:            id,
		PoleHeight:    pole.agl,
	}
}

// emitLayers emits a baseline record unless the item is proposed-only, and a
// proposed record at the measured height plus the make-ready move.
func (s *surveyWalker) emitLayers(r attachment.Record, item gjson.Result, h surveyHeights) {
	if !item.Get("_proposed").Bool() {
		base := r
		base.Layer = attachment.SourceBBaseline
		base.Height = h.baseline
		s.e.emit(base, h.known)
	}
	proposed := r
	proposed.Layer = attachment.SourceBProposed
	proposed.Height = h.proposed
	s.e.emit(proposed, h.known)
}

func (s *surveyWalker) measured(item gjson.Result) surveyHeights {
	v := item.Get("_measured_height")
	if v.Type != gjson.Number {
		return surveyHeights{}
	}
	return s.heights(s.e.n.Feet(v.Float(), normalize.Inch), item)
}

// withFallback resolves guy and equipment heights: measured height first,
// then above-ground length less the measured distance to bottom.
func (s *surveyWalker) withFallback(item gjson.Result, pole surveyPole) surveyHeights {
	if h := s.measured(item); h.known {
		return h
	}
	d := item.Get("measured_distance_to_bottom")
	if pole.agl > 0 && d.Type == gjson.Number {
		return s.heights(pole.agl-s.e.n.Feet(d.Float(), normalize.Inch), item)
	}
	return surveyHeights{}
}

func (s *surveyWalker) heights(base float64, item gjson.Result) surveyHeights {
	h := surveyHeights{baseline: base, proposed: base, known: true}
	if move := item.Get("mr_move"); move.Type == gjson.Number {
		h.proposed = base + s.e.n.Feet(move.Float(), normalize.Inch)
	}
	return h
}
