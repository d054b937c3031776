package types

// Variance is the marker declared on a type parameter. It governs the
// comparison direction of the parameter's arguments during subtype checking,
// and the positions the parameter may occur in within member signatures.
type Variance uint8

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "covariant"
	case Contravariant:
		return "contravariant"
	case Invariant:
		return "invariant"
	default:
		return "invalid"
	}
}

// position is the effective polarity of a type-parameter occurrence.
// Member parameters start negative, the member result starts positive, and
// each generic-argument step composes the slot's declared variance:
// a covariant slot preserves the position, a contravariant slot flips it,
// and an invariant slot collapses it to both at once.
type position struct {
	positive, negative bool
}

var (
	positionPositive = position{positive: true}
	positionNegative = position{negative: true}
	positionBoth     = position{positive: true, negative: true}
)

func (p position) compose(v Variance) position {
	switch v {
	case Covariant:
		return p
	case Contravariant:
		return position{positive: p.negative, negative: p.positive}
	default:
		return positionBoth
	}
}

func (p position) String() string {
	switch p {
	case positionPositive:
		return "positive"
	case positionNegative:
		return "negative"
	case positionBoth:
		return "invariant"
	default:
		return "invalid"
	}
}

// permits reports whether a parameter declared with variance v may occur
// at this position. Covariant parameters are excluded from negative
// positions, contravariant parameters from positive ones, and invariant
// parameters are unrestricted.
func (p position) permits(v Variance) bool {
	switch v {
	case Covariant:
		return !p.negative
	case Contravariant:
		return !p.positive
	default:
		return true
	}
}
