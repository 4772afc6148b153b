package world

// TileMap is the city grid. Each cell carries one id: values below 100
// are terrain metadata for collision, 100 and above are trigger ids
// handled by trigger dispatch.
type TileMap struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Cells  [][]int `json:"cells"` // Cells[y][x]
}

// NewTileMap creates an empty walkable grid.
func NewTileMap(width, height int) *TileMap {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	cells := make([][]int, height)
	for y := range cells {
		cells[y] = make([]int, width)
	}
	return &TileMap{Width: width, Height: height, Cells: cells}
}

// InBounds reports whether the tile coordinate is on the map.
func (m *TileMap) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// At returns the cell id at (x, y), or 0 off-map.
func (m *TileMap) At(x, y int) int {
	if !m.InBounds(x, y) {
		return 0
	}
	return m.Cells[y][x]
}

// Set writes a cell id.
func (m *TileMap) Set(x, y, id int) {
	if m.InBounds(x, y) {
		m.Cells[y][x] = id
	}
}

// valid reports whether a loaded map is structurally sound: declared
// dimensions positive and every row the declared width.
func (m *TileMap) valid() bool {
	if m == nil || m.Width < 1 || m.Height < 1 || len(m.Cells) != m.Height {
		return false
	}
	for _, row := range m.Cells {
		if len(row) != m.Width {
			return false
		}
	}
	return true
}
