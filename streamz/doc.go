// Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package streamz provides a thin message-queue handle for feeding the
// column layer from Kafka: connect once, read a span of a partition as a
// string column, inspect and commit offsets, and produce messages back.
//
// The handle is configured with a flat librdkafka-style key/value map
// ([Config]) so existing consumer configurations carry over unchanged. Only
// the connection-level keys are interpreted; everything else is ignored.
//
// Reads are bounded and synchronous: [Handle.ReadLines] consumes
// [start, end) of one partition, splits the payloads on a delimiter, and
// returns the lines as a string [column.Column] ready for the dataframe
// layer. Cancellation and timeouts come from the caller's context.
package streamz
