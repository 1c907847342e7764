// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package evm holds the fixed-size primitives of EVM storage: 32-byte words and 20-byte addresses,
// plus the keccak-256 hash used to derive storage slots.
package evm
