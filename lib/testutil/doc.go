// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides channel helpers for concurrency tests.
// Each helper wraps a select with a timeout safety valve so that a
// buggy component fails the test instead of hanging the run.
package testutil
