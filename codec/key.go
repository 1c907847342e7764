// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package codec

import (
	"github.com/vechain/storagepatch/errs"
	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/layout"
)

// EncodeKey encodes a mapping key of type t the way Solidity hashes it.
//
// Value-type keys are returned as their 32-byte ABI encoding: signed integers sign extended,
// bytesN right padded, everything else left padded. String and dynamic bytes keys are returned
// as their raw bytes with raw set, and must be hashed without padding.
func EncodeKey(value any, t *layout.Type) (key []byte, raw bool, err error) {
	switch t.Kind {
	case layout.Bytes:
		b, err := toBytes(value, t)
		if err != nil {
			return nil, false, err
		}
		return b, true, nil
	case layout.Scalar:
		w, err := encodeScalar(value, t)
		if err != nil {
			return nil, false, err
		}
		width := t.Width()
		switch t.Scalar {
		case layout.Int:
			if w[32-width]&0x80 != 0 {
				for i := range 32 - width {
					w[i] = 0xff
				}
			}
		case layout.FixedBytes:
			var shifted evm.Bytes32
			copy(shifted[:], w[32-width:])
			w = shifted
		}
		return w[:], false, nil
	}
	return nil, false, errs.Unsupported("%s as mapping key", t)
}
