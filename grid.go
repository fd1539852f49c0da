package cascade

import (
	"log"
	"math"
	"sort"
)

// GridElement is one element's place in a detected grid. Distance and
// NormalizedDistance are populated by ComputeDistances, not by detection.
type GridElement struct {
	ID          ElementID
	Position    Point // grid coordinate: X = column index, Y = row index
	PixelBounds Rect

	Distance           float64
	NormalizedDistance float64
}

// GridLayout is the result of grid detection over a set of elements.
// A zero-element layout is valid and means "nothing to stagger".
type GridLayout struct {
	Rows, Columns int
	Elements      []GridElement

	// OriginPoint is the focal point in grid coordinates, set by
	// ResolveOrigin. Zero until then.
	OriginPoint Point

	// MaxDistance is the largest per-element distance, set by
	// ComputeDistances.
	MaxDistance float64
}

// Empty reports whether the layout contains no elements.
func (g *GridLayout) Empty() bool { return len(g.Elements) == 0 }

// DetectGrid infers a row/column grid from element bounding geometry using
// the default pixel tolerance. Elements that fail to resolve are skipped
// with a logged warning. See DetectGridTolerance.
func DetectGrid(resolver ElementResolver, ids []ElementID) GridLayout {
	return DetectGridTolerance(resolver, ids, DefaultGridTolerance)
}

// DetectGridTolerance infers a grid layout purely from bounding boxes: the
// distinct (within tolerance) top edges become rows and the distinct left
// edges become columns, each element taking the index of its nearest row and
// column cluster. Irregular layouts, where rows x columns does not equal the
// element count, are rerouted to a per-element bucketing pass instead of
// being reported as errors. Zero resolvable elements yield an empty layout;
// a single element yields a 1x1 grid.
func DetectGridTolerance(resolver ElementResolver, ids []ElementID, tolerance float64) GridLayout {
	if tolerance <= 0 {
		tolerance = DefaultGridTolerance
	}

	elems := resolveGridElements(resolver, ids)
	if len(elems) == 0 {
		return GridLayout{}
	}
	if len(elems) == 1 {
		elems[0].Position = Point{}
		return GridLayout{Rows: 1, Columns: 1, Elements: elems}
	}

	tops := make([]float64, len(elems))
	lefts := make([]float64, len(elems))
	for i := range elems {
		tops[i] = elems[i].PixelBounds.Y
		lefts[i] = elems[i].PixelBounds.X
	}

	rowTable := clusterPositions(tops, tolerance)
	colTable := clusterPositions(lefts, tolerance)

	if len(rowTable)*len(colTable) != len(elems) {
		return detectPrecise(elems, tolerance)
	}

	for i := range elems {
		row := nearestIndex(rowTable, elems[i].PixelBounds.Y)
		col := nearestIndex(colTable, elems[i].PixelBounds.X)
		elems[i].Position = Point{X: float64(col), Y: float64(row)}
	}

	return GridLayout{
		Rows:     len(rowTable),
		Columns:  len(colTable),
		Elements: elems,
	}
}

// DetectGridManual lays elements out on a caller-specified grid in input
// order, row-major, instead of inferring dimensions from geometry. Used when
// a stagger config carries explicit row/column counts.
func DetectGridManual(resolver ElementResolver, ids []ElementID, rows, columns int) GridLayout {
	elems := resolveGridElements(resolver, ids)
	if len(elems) == 0 {
		return GridLayout{}
	}

	if columns <= 0 && rows <= 0 {
		columns = len(elems)
		rows = 1
	}
	if columns <= 0 {
		columns = (len(elems) + rows - 1) / rows
	}
	if rows <= 0 {
		rows = (len(elems) + columns - 1) / columns
	}

	for i := range elems {
		elems[i].Position = Point{
			X: float64(i % columns),
			Y: float64(i / columns),
		}
	}

	return GridLayout{Rows: rows, Columns: columns, Elements: elems}
}

// resolveGridElements turns IDs into GridElements, dropping any that do not
// resolve. A missing element is a soft condition: the host may have removed
// or not yet re-created the node.
func resolveGridElements(resolver ElementResolver, ids []ElementID) []GridElement {
	elems := make([]GridElement, 0, len(ids))
	for _, id := range ids {
		el := resolver.Resolve(id)
		if el == nil {
			log.Printf("cascade: element %q not found, excluded from grid", id)
			continue
		}
		elems = append(elems, GridElement{ID: id, PixelBounds: el.Bounds()})
	}
	return elems
}

// clusterPositions merges a set of 1D positions into cluster centers: values
// within tolerance of a cluster's start join it. Returned centers are sorted
// ascending and are the mean of their members.
func clusterPositions(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var centers []float64
	start := sorted[0]
	sum := sorted[0]
	count := 1
	for _, v := range sorted[1:] {
		if v-start <= tolerance {
			sum += v
			count++
			continue
		}
		centers = append(centers, sum/float64(count))
		start, sum, count = v, v, 1
	}
	centers = append(centers, sum/float64(count))
	return centers
}

// nearestIndex returns the index of the table entry closest to v. The table
// must be sorted ascending and non-empty.
func nearestIndex(table []float64, v float64) int {
	best := 0
	bestDist := math.Abs(table[0] - v)
	for i := 1; i < len(table); i++ {
		d := math.Abs(table[i] - v)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// detectPrecise assigns grid positions by pairwise tolerance bucketing
// instead of fixed cluster tables. Handles jagged layouts where the grid is
// not a full rectangle: each element joins the first row/column bucket whose
// representative edge lies within tolerance, or founds a new one.
func detectPrecise(elems []GridElement, tolerance float64) GridLayout {
	rowBuckets := bucketByEdge(elems, tolerance, func(e *GridElement) float64 { return e.PixelBounds.Y })
	colBuckets := bucketByEdge(elems, tolerance, func(e *GridElement) float64 { return e.PixelBounds.X })

	for i := range elems {
		elems[i].Position = Point{
			X: float64(bucketIndexOf(colBuckets, i)),
			Y: float64(bucketIndexOf(rowBuckets, i)),
		}
	}

	return GridLayout{
		Rows:     len(rowBuckets),
		Columns:  len(colBuckets),
		Elements: elems,
	}
}

// edgeBucket groups element indices sharing one edge position.
type edgeBucket struct {
	edge    float64 // representative edge of the first member
	members []int
}

// bucketByEdge groups element indices by tolerance comparison on the given
// edge accessor. Buckets are returned sorted by edge position.
func bucketByEdge(elems []GridElement, tolerance float64, edge func(*GridElement) float64) []edgeBucket {
	var buckets []edgeBucket
	for i := range elems {
		v := edge(&elems[i])
		placed := false
		for b := range buckets {
			if math.Abs(buckets[b].edge-v) <= tolerance {
				buckets[b].members = append(buckets[b].members, i)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, edgeBucket{edge: v, members: []int{i}})
		}
	}
	sort.Slice(buckets, func(a, b int) bool { return buckets[a].edge < buckets[b].edge })
	return buckets
}

// bucketIndexOf returns the bucket index containing element index i.
func bucketIndexOf(buckets []edgeBucket, i int) int {
	for b := range buckets {
		for _, m := range buckets[b].members {
			if m == i {
				return b
			}
		}
	}
	return 0
}
