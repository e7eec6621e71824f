// Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package conformance provides the reference column fixtures for wire
// compatibility checks: a named matrix of columns covering every element
// type, null pattern, and nesting depth, plus helpers that assert the
// serialization and Arrow interchange round-trips hold for each of them.
//
// Alternative kernel backends and payload transports can run [Fixtures]
// through their own paths to verify they agree with the reference
// behavior. The fixture constructors are exported so other test suites can
// reuse individual columns without pulling in the whole matrix.
package conformance
