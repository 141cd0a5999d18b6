// Package grid converts between linear cell positions and (column, row)
// coordinates of a row-major character grid.
package grid

// GetGridCoords returns the column and row of linear position index on a
// grid cols wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Linear returns the linear position of (x, y) on a grid cols wide.
func Linear(x, y, cols int) int {
	return y*cols + x
}
