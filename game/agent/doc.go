// Package agent provides reference agents for the Neutreeko environment and
// an episode runner. RandomAgent picks uniformly among legal actions and
// GreedyAgent takes an immediate win whenever one is available.
package agent
