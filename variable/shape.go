package variable

import "github.com/arloliu/das2/array"

// mergeShapes merges two external-axis shape vectors per §4.2.2's index
// merge rules, applied one axis at a time.
func mergeShapes(a, b array.Shape) array.Shape {
	var out array.Shape
	for i := range out {
		out[i] = array.MergeIndex(a[i], b[i])
	}

	return out
}
