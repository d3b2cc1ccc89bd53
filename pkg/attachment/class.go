package attachment

// Class is the usage class of an attachment (its subtype).
type Class string

const (
	ClassPrimary       Class = "primary"
	ClassNeutral       Class = "neutral"
	ClassSecondary     Class = "secondary"
	ClassService       Class = "service"
	ClassCommunication Class = "communication"
	ClassCommDrop      Class = "comm_drop"
	ClassStreetlight   Class = "streetlight"
	ClassPoleTop       Class = "pole_top"
	ClassGuy           Class = "guy"
	ClassEquipment     Class = "equipment"
	ClassUnknown       Class = "unknown"
)

// String returns the string representation of a class.
func (c Class) String() string {
	return string(c)
}

// IsCommunication reports whether the class is a communication-service
// attachment (cable plant or drop).
func (c Class) IsCommunication() bool {
	return c == ClassCommunication || c == ClassCommDrop
}

// Phase is the coarse electrical grouping used when clustering wires.
type Phase string

const (
	PhasePrimary       Phase = "primary"
	PhaseNeutral       Phase = "neutral"
	PhaseSecondary     Phase = "secondary"
	PhaseCommunication Phase = "communication"
	PhaseOther         Phase = "other"
)

// Phase returns the phase class of the usage class.
func (c Class) Phase() Phase {
	switch c {
	case ClassPrimary:
		return PhasePrimary
	case ClassNeutral:
		return PhaseNeutral
	case ClassSecondary, ClassService, ClassStreetlight:
		return PhaseSecondary
	case ClassCommunication, ClassCommDrop:
		return PhaseCommunication
	default:
		return PhaseOther
	}
}
