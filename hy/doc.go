// Package hy holds the pieces shared by the hybrid UCC and FD discovery
// algorithms: the witness list produced by sampling, the efficiency-ranked
// sampler, and the bookkeeping for level-wise validation results.
//
// The sampler compares row pairs that sit close together inside the clusters
// of a column. Each comparison yields an agree set (the columns on which the
// two rows share a non-singleton class), which is a witness against every
// candidate dependency it contradicts. The validator hands back the row pairs
// that disproved its candidates as comparison suggestions, and the sampler
// processes those first in the next round.
package hy
