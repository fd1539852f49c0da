package cascade

// RowWaveDelays staggers elements by shared grid row instead of distance
// from a focal point. Every element in one row shares a delay of
// amount x band, where the band follows the wave direction:
//
//   - WaveForward:   top row first.
//   - WaveReverse:   bottom row first.
//   - WaveCenterOut: center row(s) first, expanding outward; even row counts
//     start from the two middle rows simultaneously.
//   - WaveEdgesIn:   top and bottom rows first, converging on the center.
func RowWaveDelays(layout *GridLayout, dir WaveDirection, amount float64) map[ElementID]float64 {
	delays := make(map[ElementID]float64, len(layout.Elements))
	if layout.Empty() {
		return delays
	}

	for i := range layout.Elements {
		el := &layout.Elements[i]
		band := waveBand(int(el.Position.Y), layout.Rows, dir)
		delays[el.ID] = amount * float64(band)
	}
	return delays
}

// ColumnWaveDelays staggers elements by column using tolerance-based
// clustering of pixel x positions rather than the grid column index. Column
// members are frequently near- but not exactly aligned (variable-width text
// runs), so each element is assigned to the nearest detected x cluster. A
// tolerance of zero means DefaultGridTolerance. Delay semantics match
// RowWaveDelays with left/right in place of top/bottom.
func ColumnWaveDelays(layout *GridLayout, dir WaveDirection, amount, tolerance float64) map[ElementID]float64 {
	delays := make(map[ElementID]float64, len(layout.Elements))
	if layout.Empty() {
		return delays
	}
	if tolerance <= 0 {
		tolerance = DefaultGridTolerance
	}

	centers := make([]float64, len(layout.Elements))
	for i := range layout.Elements {
		cx, _ := layout.Elements[i].PixelBounds.Center()
		centers[i] = cx
	}
	table := clusterPositions(centers, tolerance)

	for i := range layout.Elements {
		col := nearestIndex(table, centers[i])
		band := waveBand(col, len(table), dir)
		delays[layout.Elements[i].ID] = amount * float64(band)
	}
	return delays
}

// waveBand maps a row/column index to its delay band under a direction.
func waveBand(index, count int, dir WaveDirection) int {
	if count <= 1 {
		return 0
	}
	switch dir {
	case WaveReverse:
		return count - 1 - index
	case WaveCenterOut:
		// Two starting rows/columns for even counts.
		lo := (count - 1) / 2
		hi := count / 2
		d1 := index - lo
		if d1 < 0 {
			d1 = -d1
		}
		d2 := index - hi
		if d2 < 0 {
			d2 = -d2
		}
		if d2 < d1 {
			return d2
		}
		return d1
	case WaveEdgesIn:
		if other := count - 1 - index; other < index {
			return other
		}
		return index
	default:
		return index
	}
}
