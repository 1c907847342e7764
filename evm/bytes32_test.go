// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package evm

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytes32(t *testing.T) {
	full := "0x00000000000000000000000000000000000000000000000000000000000001f4"

	tests := []struct {
		in      string
		want    Bytes32
		wantErr bool
	}{
		{full, MustParseBytes32(full), false},
		{full[2:], MustParseBytes32(full), false},
		{"0x1f4", MustParseBytes32(full), false},
		{"0x", Bytes32{}, true},
		{"0xzz", Bytes32{}, true},
		{"0x" + full[2:] + "00", Bytes32{}, true},
	}
	for _, tt := range tests {
		got, err := ParseBytes32(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, uint64(500), MustParseBytes32(full).Uint256().Uint64())
}

func TestBytes32JSON(t *testing.T) {
	word := Uint256ToBytes32(uint256.NewInt(3))

	data, err := json.Marshal(&word)
	require.NoError(t, err)
	assert.Equal(t, `"0x0000000000000000000000000000000000000000000000000000000000000003"`, string(data))

	var decoded Bytes32
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, word, decoded)
	assert.Equal(t, "0x00000000…00000003", word.AbbrevString())
}

func TestAddress(t *testing.T) {
	addr, err := ParseAddress("0x00000000000000000000000000000000000000ff")
	require.NoError(t, err)
	assert.Equal(t, BytesToAddress([]byte{0xff}), *addr)

	_, err = ParseAddress("0x00ff")
	assert.Error(t, err)
	_, err = ParseAddress("1x00000000000000000000000000000000000000ff")
	assert.Error(t, err)

	data, err := json.Marshal(addr)
	require.NoError(t, err)
	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *addr, decoded)
}
