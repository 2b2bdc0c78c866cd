// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client runtime.
//
// It parses one sub-command with its flags and drives the SDK facade:
// account creation, login and logout, encrypted submissions, listing,
// decryption and watching the event stream.
package client
