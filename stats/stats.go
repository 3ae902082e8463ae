package stats

import (
	"math"
	"sort"
)

// StatID enumerates the primary attributes tracked for a combat vehicle or
// one of its weapons.
type StatID uint8

const (
	StatFirepower StatID = iota
	StatThrust
	StatShieldFlux
	StatAvionics

	StatCount
)

// DerivedID enumerates derived values computed from the attribute totals.
type DerivedID uint8

const (
	DerivedDamageScalar DerivedID = iota
	DerivedMaxSpeedScalar
	DerivedShieldRegenScalar
	DerivedCooldownRate

	DerivedCount
)

// Layer describes the precedence order for additive and multiplicative
// modifiers.
type Layer uint8

const (
	LayerBase Layer = iota
	LayerUpgrade
	LayerTemporary

	LayerCount
)

// SourceKind identifies the origin of a modifier for deterministic ordering.
type SourceKind uint8

const (
	SourceKindUnknown SourceKind = iota
	SourceKindArchetype
	SourceKindUpgrade
	SourceKindModifier
)

// SourceKey uniquely identifies the origin of a modifier inside a layer.
type SourceKey struct {
	Kind SourceKind
	ID   string
}

// ValueSet stores a fixed vector of stat values.
type ValueSet [StatCount]float64

// DerivedSet stores derived stat values.
type DerivedSet [DerivedCount]float64

type layerStack struct {
	add ValueSet
	mul ValueSet
}

type layerSource struct {
	delta Delta
}

// Component owns the stat state for one vehicle or weapon and caches the
// folded totals.
type Component struct {
	layers  [LayerCount]layerStack
	sources map[Layer]map[SourceKey]*layerSource
	totals  ValueSet
	derived DerivedSet
	dirty   bool
	version uint64
}

// Delta captures additive and multiplicative contributions from one source.
type Delta struct {
	Add ValueSet
	Mul ValueSet
}

// NewDelta creates a delta with neutral multiplicative values.
func NewDelta() Delta {
	d := Delta{}
	d.Mul = unitValueSet()
	return d
}

// NewComponent constructs a component seeded with the provided base values.
func NewComponent(base ValueSet) Component {
	c := Component{}
	c.ensureInit()
	baseDelta := NewDelta()
	baseDelta.Add = base
	c.applySource(LayerBase, SourceKey{Kind: SourceKindArchetype, ID: "base"}, baseDelta)
	c.dirty = true
	c.Resolve()
	return c
}

func (c *Component) ensureInit() {
	if c.sources != nil {
		return
	}
	c.sources = make(map[Layer]map[SourceKey]*layerSource)
	for layer := Layer(0); layer < LayerCount; layer++ {
		c.layers[layer].mul = unitValueSet()
	}
	c.dirty = true
}

// Apply records or replaces the contribution of a source within a layer.
func (c *Component) Apply(layer Layer, key SourceKey, delta Delta) {
	if c == nil || layer >= LayerCount {
		return
	}
	c.ensureInit()
	if c.applySource(layer, key, delta) {
		c.dirty = true
	}
}

// Remove discards the contribution of a single source. Reporting whether the
// source was present lets callers treat double-removal as a no-op.
func (c *Component) Remove(layer Layer, key SourceKey) bool {
	if c == nil || layer >= LayerCount {
		return false
	}
	c.ensureInit()
	if c.removeSource(layer, key) {
		c.dirty = true
		return true
	}
	return false
}

// Resolve folds all layers in deterministic order and recomputes the derived
// values. Safe to call every frame; a clean component returns immediately.
func (c *Component) Resolve() {
	if c == nil {
		return
	}
	c.ensureInit()
	if !c.dirty {
		return
	}

	total := c.layers[LayerBase].add
	multiplyValueSet(&total, c.layers[LayerBase].mul)

	for layer := LayerUpgrade; layer < LayerCount; layer++ {
		stack := &c.layers[layer]
		addValueSet(&total, stack.add)
		multiplyValueSet(&total, stack.mul)
	}

	c.totals = total
	c.derived = computeDerived(total)
	c.version++
	c.dirty = false
}

// Totals returns the cached total stat values.
func (c *Component) Totals() ValueSet {
	return c.totals
}

// GetTotal returns the cached total for a specific stat.
func (c *Component) GetTotal(id StatID) float64 {
	if id >= StatCount {
		return 0
	}
	return c.totals[id]
}

// GetDerived returns the cached derived value.
func (c *Component) GetDerived(id DerivedID) float64 {
	if id >= DerivedCount {
		return 0
	}
	return c.derived[id]
}

// Version returns the component version updated on each resolve.
func (c *Component) Version() uint64 {
	return c.version
}

func (c *Component) applySource(layer Layer, key SourceKey, delta Delta) bool {
	if c.sources[layer] == nil {
		c.sources[layer] = make(map[SourceKey]*layerSource)
	}
	current := c.sources[layer][key]
	if current != nil && deltasEqual(current.delta, delta) {
		return false
	}
	if current == nil {
		current = &layerSource{}
		c.sources[layer][key] = current
	}
	current.delta = delta
	c.rebuildLayerStack(layer)
	return true
}

func (c *Component) removeSource(layer Layer, key SourceKey) bool {
	entries := c.sources[layer]
	if len(entries) == 0 {
		return false
	}
	if _, ok := entries[key]; !ok {
		return false
	}
	delete(entries, key)
	if len(entries) == 0 {
		delete(c.sources, layer)
	}
	c.rebuildLayerStack(layer)
	return true
}

func (c *Component) rebuildLayerStack(layer Layer) {
	stack := &c.layers[layer]
	stack.add = ValueSet{}
	stack.mul = unitValueSet()
	entries := c.sources[layer]
	if len(entries) == 0 {
		return
	}
	keys := make([]SourceKey, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].ID < keys[j].ID
	})
	for _, key := range keys {
		src := entries[key]
		addValueSet(&stack.add, src.delta.Add)
		multiplyValueSet(&stack.mul, src.delta.Mul)
	}
}

func addValueSet(target *ValueSet, other ValueSet) {
	for i := range target {
		target[i] += other[i]
	}
}

func multiplyValueSet(target *ValueSet, other ValueSet) {
	for i := range target {
		target[i] *= other[i]
	}
}

func unitValueSet() ValueSet {
	var vs ValueSet
	for i := range vs {
		vs[i] = 1
	}
	return vs
}

func deltasEqual(a, b Delta) bool {
	for i := range a.Add {
		if math.Abs(a.Add[i]-b.Add[i]) > 1e-9 {
			return false
		}
		if math.Abs(a.Mul[i]-b.Mul[i]) > 1e-9 {
			return false
		}
	}
	return true
}
