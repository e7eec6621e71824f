// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package benchmark provides deterministic large-column fixtures for
// benchmarking the column layer: ragged list columns with configurable row
// counts, list lengths, and null densities.
package benchmark

import (
	"math/rand"

	"github.com/ziongh/cudf/column"
)

// FixtureConfig shapes a generated list column.
type FixtureConfig struct {
	Rows       int
	MaxListLen int
	NullEvery  int // every n-th row is null; 0 disables nulls
	Seed       int64
}

// DefaultConfig is a medium-sized ragged column with sparse nulls.
func DefaultConfig() FixtureConfig {
	return FixtureConfig{Rows: 10_000, MaxListLen: 8, NullEvery: 13, Seed: 1}
}

// ListInt64 generates a list<int64> column per the config.
func ListInt64(cfg FixtureConfig) (*column.Column, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	rows := make([]any, cfg.Rows)
	for i := range rows {
		if cfg.NullEvery > 0 && i%cfg.NullEvery == 0 {
			continue
		}
		n := rng.Intn(cfg.MaxListLen + 1)
		sub := make([]any, n)
		for j := range sub {
			sub[j] = rng.Int63n(1 << 20)
		}
		rows[i] = sub
	}
	return column.FromValues(column.ListOf(column.Int64), rows)
}

// Indices generates a parallel index column for gathering from src: each
// row selects a random subset of the source row's elements, empty (or
// untouched null) where the source row is null.
func Indices(src *column.Column, cfg FixtureConfig) (*column.Column, error) {
	rng := rand.New(rand.NewSource(cfg.Seed + 1))
	srcRows, err := src.Values()
	if err != nil {
		return nil, err
	}
	rows := make([]any, len(srcRows))
	for i, r := range srcRows {
		if r == nil {
			rows[i] = []any{}
			continue
		}
		avail := len(r.([]any))
		n := 0
		if avail > 0 {
			n = rng.Intn(avail)
		}
		sub := make([]any, n)
		for j := range sub {
			sub[j] = int32(rng.Intn(avail))
		}
		rows[i] = sub
	}
	return column.FromValues(column.ListOf(column.Int32), rows)
}
