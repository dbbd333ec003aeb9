package env

import "github.com/wricardo/mcp-training/neutreeko/game/engine"

// StateIndex ranks an easy board among all C(25, 3) placements of three
// white pieces, giving a value in [0, 2300). Boards that do not hold exactly
// three white pieces yield -1.
func StateIndex(board engine.Board) int {
	cells := board.Positions(engine.White)
	if len(cells) != engine.PiecesPerPlayer {
		return -1
	}

	// positions arrive in ascending row-major order, so c1 < c2 < c3
	index := 0
	for k, pos := range cells {
		index += binomial(pos.Index(), k+1)
	}
	return index
}

// BoardFromIndex is the inverse of StateIndex
func BoardFromIndex(index int) (engine.Board, bool) {
	var board engine.Board
	if index < 0 || index >= EasyObservationSpace {
		return board, false
	}

	remaining := index
	for k := engine.PiecesPerPlayer; k >= 1; k-- {
		c := k - 1
		for binomial(c+1, k) <= remaining {
			c++
		}
		remaining -= binomial(c, k)
		board[c/engine.BoardSize][c%engine.BoardSize] = engine.White
	}
	return board, true
}

func binomial(n, k int) int {
	if k < 0 || n < k {
		return 0
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}
