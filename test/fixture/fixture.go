// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixture provides the storage layout of a sample contract for tests.
//
//	contract Sample {
//	    enum Kind { None, Small, Large }
//	    struct Person { string name; uint256 age; uint8 level; bool active; }
//
//	    uint256 total;                                          // slot 0
//	    uint8 small; int16 delta; bool flag; address owner;     // slot 1, packed
//	    string name;                                            // slot 2
//	    mapping(address => uint256) balances;                   // slot 3
//	    uint256[] items;                                        // slot 4
//	    Person person;                                          // slots 5..7
//	    uint256[5] values;                                      // slots 8..12
//	    mapping(string => Person) people;                       // slot 13
//	    mapping(address => mapping(uint256 => bool)) allowed;   // slot 14
//	    Person[] members;                                       // slot 15
//	    bytes4 tag; Kind kind;                                  // slot 16, packed
//	    bytes data;                                             // slot 17
//	    mapping(int8 => uint256) signedKeys;                    // slot 18
//	    mapping(bytes4 => address) tagged;                      // slot 19
//	    uint8[] smallItems;                                     // slot 20
//	    uint256[2][3] matrix;                                   // slots 21..26
//	    mapping(bytes => uint256) blobs;                        // slot 27
//	}
package fixture

import (
	"github.com/vechain/storagepatch/layout"
)

// SampleJSON is the solc storageLayout output of the Sample contract.
const SampleJSON = `{
  "storage": [
    {"astId": 3, "contract": "contracts/Sample.sol:Sample", "label": "total", "offset": 0, "slot": "0", "type": "t_uint256"},
    {"astId": 5, "contract": "contracts/Sample.sol:Sample", "label": "small", "offset": 0, "slot": "1", "type": "t_uint8"},
    {"astId": 7, "contract": "contracts/Sample.sol:Sample", "label": "delta", "offset": 1, "slot": "1", "type": "t_int16"},
    {"astId": 9, "contract": "contracts/Sample.sol:Sample", "label": "flag", "offset": 3, "slot": "1", "type": "t_bool"},
    {"astId": 11, "contract": "contracts/Sample.sol:Sample", "label": "owner", "offset": 4, "slot": "1", "type": "t_address"},
    {"astId": 13, "contract": "contracts/Sample.sol:Sample", "label": "name", "offset": 0, "slot": "2", "type": "t_string_storage"},
    {"astId": 17, "contract": "contracts/Sample.sol:Sample", "label": "balances", "offset": 0, "slot": "3", "type": "t_mapping(t_address,t_uint256)"},
    {"astId": 20, "contract": "contracts/Sample.sol:Sample", "label": "items", "offset": 0, "slot": "4", "type": "t_array(t_uint256)dyn_storage"},
    {"astId": 23, "contract": "contracts/Sample.sol:Sample", "label": "person", "offset": 0, "slot": "5", "type": "t_struct(Person)31_storage"},
    {"astId": 27, "contract": "contracts/Sample.sol:Sample", "label": "values", "offset": 0, "slot": "8", "type": "t_array(t_uint256)5_storage"},
    {"astId": 36, "contract": "contracts/Sample.sol:Sample", "label": "people", "offset": 0, "slot": "13", "type": "t_mapping(t_string_memory_ptr,t_struct(Person)31_storage)"},
    {"astId": 42, "contract": "contracts/Sample.sol:Sample", "label": "allowed", "offset": 0, "slot": "14", "type": "t_mapping(t_address,t_mapping(t_uint256,t_bool))"},
    {"astId": 46, "contract": "contracts/Sample.sol:Sample", "label": "members", "offset": 0, "slot": "15", "type": "t_array(t_struct(Person)31_storage)dyn_storage"},
    {"astId": 48, "contract": "contracts/Sample.sol:Sample", "label": "tag", "offset": 0, "slot": "16", "type": "t_bytes4"},
    {"astId": 51, "contract": "contracts/Sample.sol:Sample", "label": "kind", "offset": 4, "slot": "16", "type": "t_enum(Kind)55"},
    {"astId": 53, "contract": "contracts/Sample.sol:Sample", "label": "data", "offset": 0, "slot": "17", "type": "t_bytes_storage"},
    {"astId": 58, "contract": "contracts/Sample.sol:Sample", "label": "signedKeys", "offset": 0, "slot": "18", "type": "t_mapping(t_int8,t_uint256)"},
    {"astId": 62, "contract": "contracts/Sample.sol:Sample", "label": "tagged", "offset": 0, "slot": "19", "type": "t_mapping(t_bytes4,t_address)"},
    {"astId": 65, "contract": "contracts/Sample.sol:Sample", "label": "smallItems", "offset": 0, "slot": "20", "type": "t_array(t_uint8)dyn_storage"},
    {"astId": 71, "contract": "contracts/Sample.sol:Sample", "label": "matrix", "offset": 0, "slot": "21", "type": "t_array(t_array(t_uint256)2_storage)3_storage"},
    {"astId": 75, "contract": "contracts/Sample.sol:Sample", "label": "blobs", "offset": 0, "slot": "27", "type": "t_mapping(t_bytes_memory_ptr,t_uint256)"}
  ],
  "types": {
    "t_address": {"encoding": "inplace", "label": "address", "numberOfBytes": "20"},
    "t_array(t_array(t_uint256)2_storage)3_storage": {"base": "t_array(t_uint256)2_storage", "encoding": "inplace", "label": "uint256[2][3]", "numberOfBytes": "192"},
    "t_array(t_struct(Person)31_storage)dyn_storage": {"base": "t_struct(Person)31_storage", "encoding": "dynamic_array", "label": "struct Sample.Person[]", "numberOfBytes": "32"},
    "t_array(t_uint256)2_storage": {"base": "t_uint256", "encoding": "inplace", "label": "uint256[2]", "numberOfBytes": "64"},
    "t_array(t_uint256)5_storage": {"base": "t_uint256", "encoding": "inplace", "label": "uint256[5]", "numberOfBytes": "160"},
    "t_array(t_uint256)dyn_storage": {"base": "t_uint256", "encoding": "dynamic_array", "label": "uint256[]", "numberOfBytes": "32"},
    "t_array(t_uint8)dyn_storage": {"base": "t_uint8", "encoding": "dynamic_array", "label": "uint8[]", "numberOfBytes": "32"},
    "t_bool": {"encoding": "inplace", "label": "bool", "numberOfBytes": "1"},
    "t_bytes4": {"encoding": "inplace", "label": "bytes4", "numberOfBytes": "4"},
    "t_bytes_memory_ptr": {"encoding": "bytes", "label": "bytes", "numberOfBytes": "32"},
    "t_bytes_storage": {"encoding": "bytes", "label": "bytes", "numberOfBytes": "32"},
    "t_enum(Kind)55": {"encoding": "inplace", "label": "enum Sample.Kind", "numberOfBytes": "1"},
    "t_int16": {"encoding": "inplace", "label": "int16", "numberOfBytes": "2"},
    "t_int8": {"encoding": "inplace", "label": "int8", "numberOfBytes": "1"},
    "t_mapping(t_address,t_mapping(t_uint256,t_bool))": {"encoding": "mapping", "key": "t_address", "label": "mapping(address => mapping(uint256 => bool))", "numberOfBytes": "32", "value": "t_mapping(t_uint256,t_bool)"},
    "t_mapping(t_address,t_uint256)": {"encoding": "mapping", "key": "t_address", "label": "mapping(address => uint256)", "numberOfBytes": "32", "value": "t_uint256"},
    "t_mapping(t_bytes4,t_address)": {"encoding": "mapping", "key": "t_bytes4", "label": "mapping(bytes4 => address)", "numberOfBytes": "32", "value": "t_address"},
    "t_mapping(t_bytes_memory_ptr,t_uint256)": {"encoding": "mapping", "key": "t_bytes_memory_ptr", "label": "mapping(bytes => uint256)", "numberOfBytes": "32", "value": "t_uint256"},
    "t_mapping(t_int8,t_uint256)": {"encoding": "mapping", "key": "t_int8", "label": "mapping(int8 => uint256)", "numberOfBytes": "32", "value": "t_uint256"},
    "t_mapping(t_string_memory_ptr,t_struct(Person)31_storage)": {"encoding": "mapping", "key": "t_string_memory_ptr", "label": "mapping(string => struct Sample.Person)", "numberOfBytes": "32", "value": "t_struct(Person)31_storage"},
    "t_mapping(t_uint256,t_bool)": {"encoding": "mapping", "key": "t_uint256", "label": "mapping(uint256 => bool)", "numberOfBytes": "32", "value": "t_bool"},
    "t_string_memory_ptr": {"encoding": "bytes", "label": "string", "numberOfBytes": "32"},
    "t_string_storage": {"encoding": "bytes", "label": "string", "numberOfBytes": "32"},
    "t_struct(Person)31_storage": {
      "encoding": "inplace",
      "label": "struct Sample.Person",
      "numberOfBytes": "96",
      "members": [
        {"astId": 24, "contract": "contracts/Sample.sol:Sample", "label": "name", "offset": 0, "slot": "0", "type": "t_string_storage"},
        {"astId": 26, "contract": "contracts/Sample.sol:Sample", "label": "age", "offset": 0, "slot": "1", "type": "t_uint256"},
        {"astId": 28, "contract": "contracts/Sample.sol:Sample", "label": "level", "offset": 0, "slot": "2", "type": "t_uint8"},
        {"astId": 30, "contract": "contracts/Sample.sol:Sample", "label": "active", "offset": 1, "slot": "2", "type": "t_bool"}
      ]
    },
    "t_uint256": {"encoding": "inplace", "label": "uint256", "numberOfBytes": "32"},
    "t_uint8": {"encoding": "inplace", "label": "uint8", "numberOfBytes": "1"}
  }
}`

// Layout parses SampleJSON, panicking on error.
func Layout() *layout.Layout {
	l, err := layout.Parse([]byte(SampleJSON))
	if err != nil {
		panic(err)
	}
	return l
}

// Index builds the index of SampleJSON, panicking on error.
func Index() *layout.Index {
	idx, err := layout.NewIndex(Layout())
	if err != nil {
		panic(err)
	}
	return idx
}
