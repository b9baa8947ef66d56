package render

// Summary tallies the counts PDNRenderer's display-control labels show
// next to each toggle (vias, followpins/rings/straps as shapes, repair
// channels): total vias and total repair channels across src's snapshot.
func Summary(src Source) (vias, channels int) {
	return len(src.Vias()), len(src.RepairChannels())
}
