package floor

// Route maps a bank of actuator values onto activeCount output channels.
//
// The output has exactly activeCount entries, zero-initialized. Bank values
// are written in order at a cycling index, so a bank wider than the channel
// count wraps and later values overwrite earlier slots: only the final lap is
// visible. A shorter bank leaves trailing slots at zero. A non-positive
// activeCount yields an empty slice.
func Route(activeCount int, bank []float64) []float64 {
	if activeCount < 0 {
		activeCount = 0
	}
	out := make([]float64, activeCount)
	if activeCount == 0 {
		return out
	}
	idx := 0
	for _, v := range bank {
		out[idx] = v
		idx++
		if idx == activeCount {
			idx = 0
		}
	}
	return out
}

// RouteByChannel folds routed values onto the channel each active node is
// bound to. routed is indexed like active; extra entries on either side are
// ignored. When several nodes share a channel the later node wins.
func RouteByChannel(active []Node, routed []float64) map[int]float64 {
	out := make(map[int]float64, len(active))
	for i, n := range active {
		if i >= len(routed) {
			break
		}
		out[n.Channel()] = routed[i]
	}
	return out
}
