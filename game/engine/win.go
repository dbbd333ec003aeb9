package engine

// HasThreeInARow reports whether marker occupies WinLength contiguous cells
// along any row, column, or diagonal of length at least WinLength.
func HasThreeInARow(board Board, marker Marker) bool {
	for _, line := range Lines(board) {
		if containsRun(line, marker) {
			return true
		}
	}
	return false
}

// Winner returns the first marker of the variant holding a winning line,
// or Empty when nobody has won.
func Winner(board Board, v Variant) Marker {
	for _, m := range v.Markers() {
		if HasThreeInARow(board, m) {
			return m
		}
	}
	return Empty
}

// Lines returns every row, every column, and the diagonals of both families
// at offsets -2..+2. Diagonals shorter than WinLength are never produced.
func Lines(board Board) [][]Marker {
	lines := make([][]Marker, 0, 4*BoardSize)
	for i := 0; i < BoardSize; i++ {
		row := make([]Marker, BoardSize)
		col := make([]Marker, BoardSize)
		for j := 0; j < BoardSize; j++ {
			row[j] = board[i][j]
			col[j] = board[j][i]
		}
		lines = append(lines, row, col)
	}

	maxOffset := BoardSize - WinLength
	for offset := -maxOffset; offset <= maxOffset; offset++ {
		lines = append(lines, diagonal(board, offset, false), diagonal(board, offset, true))
	}
	return lines
}

// diagonal walks cells (r, r+offset). When anti is set the board is read
// mirrored left to right, so the walk covers (r, BoardSize-1-r-offset).
func diagonal(board Board, offset int, anti bool) []Marker {
	var line []Marker
	for r := 0; r < BoardSize; r++ {
		c := r + offset
		if anti {
			c = BoardSize - 1 - r - offset
		}
		if m, ok := board.Get(Position{Row: r, Col: c}); ok {
			line = append(line, m)
		}
	}
	return line
}

func containsRun(line []Marker, marker Marker) bool {
	if len(line) < WinLength {
		return false
	}
	for start := 0; start+WinLength <= len(line); start++ {
		run := true
		for k := 0; k < WinLength; k++ {
			if line[start+k] != marker {
				run = false
				break
			}
		}
		if run {
			return true
		}
	}
	return false
}
