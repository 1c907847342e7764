// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package codec

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/vechain/storagepatch/errs"
	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/layout"
)

func toBig(value any, t *layout.Type) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, errs.TypeMismatch("nil %s", t)
		}
		return v, nil
	case big.Int:
		return &v, nil
	case *uint256.Int:
		if v == nil {
			return nil, errs.TypeMismatch("nil %s", t)
		}
		return v.ToBig(), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case string:
		n, err := parseBig(v)
		if err != nil {
			return nil, errs.TypeMismatch("invalid %s value %q", t, v)
		}
		return n, nil
	}
	return nil, errs.TypeMismatch("cannot use %T as %s", value, t)
}

func toBool(value any, t *layout.Type) (bool, error) {
	if v, ok := value.(bool); ok {
		return v, nil
	}
	return false, errs.TypeMismatch("cannot use %T as %s", value, t)
}

func toAddress(value any, t *layout.Type) (evm.Address, error) {
	switch v := value.(type) {
	case evm.Address:
		return v, nil
	case *evm.Address:
		if v != nil {
			return *v, nil
		}
	case common.Address:
		return evm.Address(v), nil
	case string:
		addr, err := evm.ParseAddress(v)
		if err != nil {
			return evm.Address{}, errs.TypeMismatch("invalid %s value %q", t, v)
		}
		return *addr, nil
	case []byte:
		if len(v) == evm.AddressLength {
			return evm.BytesToAddress(v), nil
		}
	}
	return evm.Address{}, errs.TypeMismatch("cannot use %T as %s", value, t)
}

func toBytes(value any, t *layout.Type) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case evm.Bytes32:
		return v[:], nil
	case common.Hash:
		return v[:], nil
	}
	return nil, errs.TypeMismatch("cannot use %T as %s", value, t)
}

func toWord(value any, t *layout.Type) (evm.Bytes32, error) {
	switch v := value.(type) {
	case evm.Bytes32:
		return v, nil
	case common.Hash:
		return evm.Bytes32(v), nil
	case [32]byte:
		return evm.Bytes32(v), nil
	}
	return evm.Bytes32{}, errs.TypeMismatch("cannot use %T as the raw word of %s", value, t)
}
