// Package strategy implements the closed set of alignment strategies the
// orchestrator searches over.
//
// Each strategy maps reference indices to edited indices under its own
// trade-off: nearest-neighbor is the cheap greedy pass, the unbalanced
// strategy specializes in unequal track lengths, the dynamic-programming
// strategy runs full weighted DTW, and the hybrid strategy resolves a cost
// matrix greedily under sequence-order constraints with local re-optimization.
// Strategies report failure by returning an error; the orchestrator simply
// excludes a failed strategy from scoring.
package strategy
