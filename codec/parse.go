// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package codec

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/storagepatch/errs"
	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/layout"
)

// ParseValue converts text, as typed on a command line or sent over HTTP, into the Go value
// Encode expects for t.
//
// Integers are decimal or 0x hex with an optional minus sign, booleans true/false, addresses
// and bytesN 0x hex. Dynamic bytes are 0x hex, or taken literally without the prefix.
// Strings are taken literally. Whole container cells take a 0x hex word.
func ParseValue(text string, t *layout.Type) (any, error) {
	switch t.Kind {
	case layout.DynamicArray:
		return parseNumber(text, t)
	case layout.Mapping, layout.FixedArray, layout.Struct:
		w, err := evm.ParseBytes32(text)
		if err != nil {
			return nil, errs.TypeMismatch("invalid raw word %q for %s", text, t)
		}
		return w, nil
	case layout.Bytes:
		if t.Scalar == layout.DynamicBytes && has0x(text) {
			b, err := hexutil.Decode(text)
			if err != nil {
				return nil, errs.TypeMismatch("invalid %s value %q", t, text)
			}
			return b, nil
		}
		if t.Scalar == layout.DynamicBytes {
			return []byte(text), nil
		}
		return text, nil
	}

	switch t.Scalar {
	case layout.Uint, layout.Int, layout.Enum, layout.Raw:
		return parseNumber(text, t)
	case layout.Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, errs.TypeMismatch("invalid %s value %q", t, text)
		}
		return b, nil
	case layout.Address:
		addr, err := evm.ParseAddress(text)
		if err != nil {
			return nil, errs.TypeMismatch("invalid %s value %q", t, text)
		}
		return *addr, nil
	case layout.FixedBytes:
		if !has0x(text) {
			return nil, errs.TypeMismatch("%s value %q must be 0x prefixed hex", t, text)
		}
		s := text[2:]
		if len(s)%2 == 1 {
			s = "0" + s
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, errs.TypeMismatch("invalid %s value %q", t, text)
		}
		return b, nil
	}
	return nil, errs.Unsupported("parsing %s", t)
}

func parseNumber(text string, t *layout.Type) (*big.Int, error) {
	n, err := parseBig(text)
	if err != nil {
		return nil, errs.TypeMismatch("invalid %s value %q", t, text)
	}
	return n, nil
}

func parseBig(text string) (*big.Int, error) {
	s := strings.TrimSpace(text)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	n, ok := math.ParseBig256(s)
	if !ok || s == "" {
		return nil, errors.Errorf("invalid number %q", text)
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}

func has0x(s string) bool {
	return len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X")
}

// Format renders a decoded value for display.
func Format(v any) string {
	switch v := v.(type) {
	case *big.Int:
		return v.String()
	case []byte:
		return hexutil.Encode(v)
	case string:
		return strconv.Quote(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
