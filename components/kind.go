// Package components defines ECS components for the simulation.
package components

// Kind identifies what an entity is. The kind selects the component set the
// entity is created with.
type Kind uint8

const (
	KindNone Kind = iota

	// Hostile obstacles
	KindMail
	KindPaperwork
	KindPatrol
	KindTrap
	KindDrone
	KindThrown
	KindBeam

	// Allies
	KindIntern
	KindSenior
	KindDistractor
	KindRep

	// Friendly projectile fired by ranged allies
	KindProjectile

	// Weapon pickup that ends the stealth phase
	KindWeapon

	numKinds
)

var kindNames = [numKinds]string{
	KindNone:       "none",
	KindMail:       "mail",
	KindPaperwork:  "paperwork",
	KindPatrol:     "patrol",
	KindTrap:       "trap",
	KindDrone:      "drone",
	KindThrown:     "thrown",
	KindBeam:       "beam",
	KindIntern:     "intern",
	KindSenior:     "senior",
	KindDistractor: "distractor",
	KindRep:        "rep",
	KindProjectile: "projectile",
	KindWeapon:     "weapon",
}

// String returns the config name of the kind.
func (k Kind) String() string {
	if k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind maps a config name back to its kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name && Kind(k) != KindNone {
			return Kind(k), true
		}
	}
	return KindNone, false
}

// Category groups kinds by the collision rules they take part in.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryHazard
	CategoryAlly
	CategoryProjectile
	CategoryPickup
)

// Category returns the kind's rule group.
func (k Kind) Category() Category {
	switch {
	case k >= KindMail && k <= KindBeam:
		return CategoryHazard
	case k >= KindIntern && k <= KindRep:
		return CategoryAlly
	case k == KindProjectile:
		return CategoryProjectile
	case k == KindWeapon:
		return CategoryPickup
	}
	return CategoryNone
}

// HazardKinds lists the hostile kinds in declaration order.
var HazardKinds = []Kind{KindMail, KindPaperwork, KindPatrol, KindTrap, KindDrone, KindThrown, KindBeam}

// AllyKinds lists the recruitable kinds in declaration order.
var AllyKinds = []Kind{KindIntern, KindSenior, KindDistractor, KindRep}

// AllKinds lists every spawnable kind.
var AllKinds = []Kind{
	KindMail, KindPaperwork, KindPatrol, KindTrap, KindDrone, KindThrown, KindBeam,
	KindIntern, KindSenior, KindDistractor, KindRep,
	KindProjectile, KindWeapon,
}
