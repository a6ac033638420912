// Copyright 2026 Intelmart Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/intelmart/intelmart/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalAccount serializes an Account to bytes.
func MarshalAccount(account *core.Account) []byte {
	buf := make([]byte, core.AccountMUS.Size(*account))
	core.AccountMUS.Marshal(*account, buf)
	return buf
}

// UnmarshalAccount deserializes an Account from bytes.
func UnmarshalAccount(data []byte) (*core.Account, error) {
	account, _, err := core.AccountMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// MarshalLedgerEntry serializes a LedgerEntry to bytes.
func MarshalLedgerEntry(entry *core.LedgerEntry) []byte {
	buf := make([]byte, core.LedgerEntryMUS.Size(*entry))
	core.LedgerEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalLedgerEntry deserializes a LedgerEntry from bytes.
func UnmarshalLedgerEntry(data []byte) (*core.LedgerEntry, error) {
	entry, _, err := core.LedgerEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarshalEscrowTransaction serializes an EscrowTransaction to bytes.
func MarshalEscrowTransaction(tx *core.EscrowTransaction) []byte {
	buf := make([]byte, core.EscrowTransactionMUS.Size(*tx))
	core.EscrowTransactionMUS.Marshal(*tx, buf)
	return buf
}

// UnmarshalEscrowTransaction deserializes an EscrowTransaction from bytes.
func UnmarshalEscrowTransaction(data []byte) (*core.EscrowTransaction, error) {
	tx, _, err := core.EscrowTransactionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// MarshalDemand serializes a Demand to bytes.
func MarshalDemand(demand *core.Demand) []byte {
	buf := make([]byte, core.DemandMUS.Size(*demand))
	core.DemandMUS.Marshal(*demand, buf)
	return buf
}

// UnmarshalDemand deserializes a Demand from bytes.
func UnmarshalDemand(data []byte) (*core.Demand, error) {
	demand, _, err := core.DemandMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &demand, nil
}

// MarshalIntel serializes an Intel listing to bytes.
func MarshalIntel(intel *core.Intel) []byte {
	buf := make([]byte, core.IntelMUS.Size(*intel))
	core.IntelMUS.Marshal(*intel, buf)
	return buf
}

// UnmarshalIntel deserializes an Intel listing from bytes.
func UnmarshalIntel(data []byte) (*core.Intel, error) {
	intel, _, err := core.IntelMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &intel, nil
}

// MarshalEmbeddingRecord serializes an EmbeddingRecord to bytes.
func MarshalEmbeddingRecord(record *core.EmbeddingRecord) []byte {
	buf := make([]byte, core.EmbeddingRecordMUS.Size(*record))
	core.EmbeddingRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalEmbeddingRecord deserializes an EmbeddingRecord from bytes.
func UnmarshalEmbeddingRecord(data []byte) (*core.EmbeddingRecord, error) {
	record, _, err := core.EmbeddingRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
