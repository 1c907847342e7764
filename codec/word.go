// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package codec

import (
	"github.com/pkg/errors"

	"github.com/vechain/storagepatch/evm"
)

// Offsets count bytes from the low-order end of the word: a field at offset o and width w
// covers word[32-o-w : 32-o].

func checkField(offset, width int) error {
	if offset < 0 || width < 1 || offset+width > 32 {
		return errors.Errorf("invalid field: %d bytes at offset %d", width, offset)
	}
	return nil
}

// MergePartialWord replaces the width bytes at offset in current with the low width bytes
// of value. All other bytes of current are kept.
func MergePartialWord(current, value evm.Bytes32, offset, width int) (evm.Bytes32, error) {
	if err := checkField(offset, width); err != nil {
		return evm.Bytes32{}, err
	}
	merged := current
	copy(merged[32-offset-width:32-offset], value[32-width:])
	return merged, nil
}

// ExtractPartialWord returns the width bytes at offset in word, moved to the low-order end
// of an otherwise zero word.
func ExtractPartialWord(word evm.Bytes32, offset, width int) (evm.Bytes32, error) {
	if err := checkField(offset, width); err != nil {
		return evm.Bytes32{}, err
	}
	var field evm.Bytes32
	copy(field[32-width:], word[32-offset-width:32-offset])
	return field, nil
}
