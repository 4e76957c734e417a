package systems

import (
	"github.com/pthm-cable/officerage/components"
	"github.com/pthm-cable/officerage/config"
)

// Economy holds score, the rage meter and the ally cost ladder.
type Economy struct {
	score     int
	rage      int
	threshold int

	costs    map[components.Kind]int
	steps    map[components.Kind]int
	recruits map[components.Kind]int
}

// NewEconomy creates an economy with the given rage threshold and starting costs.
func NewEconomy(threshold int, costs, steps map[components.Kind]int) *Economy {
	e := &Economy{
		threshold: threshold,
		costs:     make(map[components.Kind]int, len(costs)),
		steps:     make(map[components.Kind]int, len(steps)),
		recruits:  make(map[components.Kind]int),
	}
	for k, v := range costs {
		e.costs[k] = v
	}
	for k, v := range steps {
		e.steps[k] = v
	}
	return e
}

// NewEconomyFromConfig builds the economy from the economy and ally sections.
func NewEconomyFromConfig(cfg *config.Config) *Economy {
	costs := make(map[components.Kind]int)
	steps := make(map[components.Kind]int)
	for _, k := range components.AllyKinds {
		a := cfg.Derived.Allies[k.String()]
		costs[k] = a.Cost
		steps[k] = a.CostStep
	}
	return NewEconomy(cfg.Economy.RageThreshold, costs, steps)
}

// Score returns the current score.
func (e *Economy) Score() int { return e.score }

// Rage returns the current rage meter.
func (e *Economy) Rage() int { return e.rage }

// Threshold returns the rage threshold.
func (e *Economy) Threshold() int { return e.threshold }

// AddScore adds delta and clamps the result at zero.
func (e *Economy) AddScore(delta int) int {
	e.score += delta
	if e.score < 0 {
		e.score = 0
	}
	return e.score
}

// AddRage adds delta to the meter. When the meter reaches the threshold it
// resets to zero and AddRage returns true, once per crossing.
func (e *Economy) AddRage(delta int) bool {
	e.rage += delta
	if e.rage < 0 {
		e.rage = 0
	}
	if e.rage >= e.threshold {
		e.rage = 0
		return true
	}
	return false
}

// Cost returns the current recruitment cost of kind. Unknown kinds report -1.
func (e *Economy) Cost(kind components.Kind) int {
	c, ok := e.costs[kind]
	if !ok {
		return -1
	}
	return c
}

// TryRecruit pays for one ally of kind. It fails without side effects when
// the score cannot cover the cost.
func (e *Economy) TryRecruit(kind components.Kind) bool {
	cost, ok := e.costs[kind]
	if !ok || e.score < cost {
		return false
	}
	e.score -= cost
	e.costs[kind] = cost + e.steps[kind]
	e.recruits[kind]++
	return true
}

// RecruitCount returns the total number of successful recruitments.
func (e *Economy) RecruitCount() int {
	n := 0
	for _, c := range e.recruits {
		n += c
	}
	return n
}

// Costs returns a copy of the current cost ladder.
func (e *Economy) Costs() map[components.Kind]int {
	out := make(map[components.Kind]int, len(e.costs))
	for k, v := range e.costs {
		out[k] = v
	}
	return out
}
