// Package connect implements the connect resolver of spec §4.H: given a
// pair of metal layers, find the intermediate routing layers, generate the
// via stack across each adjacent pair, and cache the resulting vias by
// intersection size so repeated same-size requests reuse one DB via
// definition.
//
// Grounded on original_source/src/pdn/src/connect.cpp.
package connect

import (
	"fmt"
	"regexp"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/via"
)

// cacheKey identifies a cached via stack by the layer pair and the
// intersection's dimensions (not its position): repeated calls with a
// same-size intersection reuse the same DB via definition, per spec §4.H.
type cacheKey struct {
	lo, hi   otable.OID
	w, h     int32
}

// Stack is the resolved via chain for one (L0, L1) connect rule: one
// via.Result per adjacent layer pair, bottom to top.
type Stack struct {
	Layers []otable.OID // L0, intermediate..., L1
	Vias   []via.Result // len(Layers)-1
}

// Resolver resolves Connect rules against one Tech, caching generated via
// stacks and filtering candidate rules through a deny-list regex.
type Resolver struct {
	tech  *tech.Tech
	gen   *via.Generator
	cache map[cacheKey]Stack
	deny  []*regexp.Regexp
}

// NewResolver binds a resolver to t. denyPatterns are regexes matched
// against a via-generate rule's or tech via's Name; a match excludes that
// candidate from consideration, per spec §4.H's "user-supplied regex
// deny-list".
func NewResolver(t *tech.Tech, denyPatterns []string) (*Resolver, error) {
	r := &Resolver{
		tech:  t,
		gen:   via.NewGenerator(t),
		cache: make(map[cacheKey]Stack),
	}
	for _, p := range denyPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("connect: bad deny pattern %q: %w", p, err)
		}
		r.deny = append(r.deny, re)
	}
	return r, nil
}

func (r *Resolver) denied(name string) bool {
	for _, re := range r.deny {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Resolve finds the ordered intermediate routing layers between lo and hi,
// generates a via at intersection for every adjacent pair, and returns the
// full stack. A same-dimension intersection on the same (lo, hi) pair
// reuses the previously generated Stack.
func (r *Resolver) Resolve(lo, hi otable.OID, intersection geom.Rect) (Stack, error) {
	key := cacheKey{lo, hi, intersection.DX() + 1, intersection.DY() + 1}
	if cached, ok := r.cache[key]; ok {
		return cached, nil
	}

	mids, err := r.tech.LayersBetween(lo, hi)
	if err != nil {
		return Stack{}, err
	}

	layers := append([]otable.OID{lo}, mids...)
	layers = append(layers, hi)

	stack := Stack{Layers: layers}
	for i := 0; i+1 < len(layers); i++ {
		result, err := r.generateFiltered(layers[i], layers[i+1], intersection)
		if err != nil {
			return Stack{}, err
		}
		stack.Vias = append(stack.Vias, result)
	}

	r.cache[key] = stack
	return stack, nil
}

// generateFiltered calls the via generator once. With deny patterns set,
// the bottom layer's rule/tech-via lists are temporarily narrowed to the
// candidates whose names no pattern matches for the duration of the call,
// then restored; via.Generator scores only what remains.
func (r *Resolver) generateFiltered(bottom, top otable.OID, rect geom.Rect) (via.Result, error) {
	bl, err := r.tech.Layers.Get(bottom)
	if err != nil {
		return via.Result{}, err
	}

	if len(r.deny) == 0 {
		return r.gen.Generate(bottom, top, rect)
	}

	origRules := bl.ViaGenerateRules
	origVias := bl.TechVias
	defer func() {
		bl.ViaGenerateRules = origRules
		bl.TechVias = origVias
	}()

	var allowedRules []otable.OID
	for _, id := range origRules {
		rule := r.tech.ViaGenerateRules.MustGet(id)
		if !r.denied(rule.Name) {
			allowedRules = append(allowedRules, id)
		}
	}
	var allowedVias []otable.OID
	for _, id := range origVias {
		v := r.tech.Vias.MustGet(id)
		if !r.denied(v.Name) {
			allowedVias = append(allowedVias, id)
		}
	}
	bl.ViaGenerateRules = allowedRules
	bl.TechVias = allowedVias

	return r.gen.Generate(bottom, top, rect)
}
