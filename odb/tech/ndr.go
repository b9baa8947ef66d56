package tech

// NDR is a non-default rule: a named alternative layer/via policy attached
// to either a Tech (global) or a Block (scope-local), per spec §3.
type NDR struct {
	Name     string
	IsBlock  bool
	Layers   map[string]NDRLayerRule
	MinCuts  map[string]int // cut layer name -> minimum cut count
}

// NDRLayerRule overrides a layer's width and spacing for nets routed under
// this rule.
type NDRLayerRule struct {
	Width   int32
	Spacing int32 // 0 = use the layer's own rule
}

// LayerRuleWidth returns the width the wire opcode decoder (§4.E) should
// use for a segment bound by this NDR on the given layer, falling back to
// 0 (caller substitutes the layer's preferred width) if the NDR has no
// override for that layer.
func (n *NDR) LayerRuleWidth(layer string) int32 {
	if n == nil {
		return 0
	}
	return n.Layers[layer].Width
}
