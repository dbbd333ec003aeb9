// Package env wraps the Neutreeko engine in an agent-environment interface.
//
// An Env exposes integer actions, a configurable reward table and episode
// termination on a win, on exceeding the turn limit, or (full game) on
// threefold repetition of a position. Easy-variant observations also carry
// a dense board index in [0, 2300) suitable for tabular learners.
//
// Action indices address stable piece slots: piece_index = action / D and
// direction = order[action % D], where D is 4 for the easy variant and 8 for
// the full game. A slot keeps naming the same piece for the whole episode.
package env
