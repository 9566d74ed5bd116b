// Package stageboard is a solver suite for the ICFP Contest 2023 musician
// placement problem: position every musician on a stage so that the sum of
// per-(musician, attendee) impacts, tempered by distance, taste, volume,
// closeness, and line-of-sight blocking, is as large as possible.
//
// The packages layer bottom-up:
//
//	geom/        — 2D vectors, boxes, segment distance, circle tangents
//	problem/     — problem & solution domain types plus the JSON wire codec
//	board/       — the incremental scoring engine (the centerpiece)
//	evaluate/    — brute-force ground-truth scorer, the board's oracle
//	hungarian/   — generic maximum-weight bipartite assignment
//	move/        — reversible board perturbations for local search
//	anneal/      — the simulated-annealing driver
//	seed/        — perimeter + grid initial placement
//	subdivision/ — parallel per-cell solving with wall-as-pillar borders
//	config/      — TOML solver configuration
//	httpapi/     — contest API client (fetch problems, submit solutions)
//
// cmd/stageboard ties them together as a CLI. Everything below cmd is usable
// as a library; the Board in particular is designed to support any local
// search that needs exact scores at O((M+P)·log A) per move.
package stageboard
