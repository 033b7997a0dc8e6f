// Package textutil provides text processing utilities for fuzzy similarity
// and filename sanitization.
//
// The similarity scores follow the normalized Indel distance used by common
// fuzzy-matching libraries: identical strings score 100, strings with no
// common characters score 0. TokenSortRatio ignores word order and
// PartialRatio scores the best-aligned substring. Callers are expected to
// case-fold inputs themselves.
package textutil
