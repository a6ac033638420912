package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/intelmart/intelmart/core"
)

// Key prefixes for different data types
const (
	accountPrefix     = "acct"
	accountIDSeq      = "acctseq"
	ledgerEntryPrefix = "ledg"
	ledgerEntryIDSeq  = "ledgseq"
	escrowPrefix      = "esctx"
	escrowPartyPrefix = "esctxp"
	escrowIDSeq       = "esctxseq"
	demandPrefix      = "dem"
	demandDatePrefix  = "demd"
	demandIDSeq       = "demseq"
	intelPrefix       = "intl"
	intelDatePrefix   = "intld"
	intelIDSeq        = "intlseq"
	embeddingPrefix   = "embr"
)

// makeAccountKey generates a key for an account by ID.
func makeAccountKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", accountPrefix, id))
}

// makeLedgerEntryKey generates a composite key for a ledger entry.
// Format: prefix:accountID:entryID. Entry IDs are monotonic, so iterating
// the account's prefix yields entries in creation order.
func makeLedgerEntryKey(accountId, entryId core.ID) []byte {
	return makeCompositeKey(ledgerEntryPrefix, uint64(accountId), uint64(entryId))
}

// makePartialLedgerEntryKey generates a partial key for per-account scans.
func makePartialLedgerEntryKey(accountId core.ID) []byte {
	return makePartialCompositeKey(ledgerEntryPrefix, uint64(accountId))
}

// makeEscrowKey generates a key for an escrow transaction by ID.
func makeEscrowKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", escrowPrefix, id))
}

// makeEscrowPartyKey generates a composite key for the party index.
// Format: prefix:accountID:txID
func makeEscrowPartyKey(accountId, txId core.ID) []byte {
	return makeCompositeKey(escrowPartyPrefix, uint64(accountId), uint64(txId))
}

// makePartialEscrowPartyKey generates a partial key for party scans.
func makePartialEscrowPartyKey(accountId core.ID) []byte {
	return makePartialCompositeKey(escrowPartyPrefix, uint64(accountId))
}

// makeDemandKey generates a key for a demand by ID.
func makeDemandKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", demandPrefix, id))
}

// makeDemandDateKey generates a composite key for the demand date index.
func makeDemandDateKey(timestamp time.Time, id core.ID) []byte {
	return makeCompositeKey(demandDatePrefix, uint64(timestamp.UnixMicro()), uint64(id))
}

// makePartialDemandDateKey generates a partial key for date range scans.
func makePartialDemandDateKey(timestamp time.Time) []byte {
	return makePartialCompositeKey(demandDatePrefix, uint64(timestamp.UnixMicro()))
}

// makeIntelKey generates a key for an intel listing by ID.
func makeIntelKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", intelPrefix, id))
}

// makeIntelDateKey generates a composite key for the intel date index.
func makeIntelDateKey(timestamp time.Time, id core.ID) []byte {
	return makeCompositeKey(intelDatePrefix, uint64(timestamp.UnixMicro()), uint64(id))
}

// makePartialIntelDateKey generates a partial key for date range scans.
func makePartialIntelDateKey(timestamp time.Time) []byte {
	return makePartialCompositeKey(intelDatePrefix, uint64(timestamp.UnixMicro()))
}

// makeEmbeddingKey generates a key for an embedding record. The record ID is
// derived from (kind, entityID), so one key exists per entity.
func makeEmbeddingKey(kind core.EntityKind, entityId core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", embeddingPrefix, core.EmbeddingRecordID(kind, entityId)))
}

// makeCompositeKey builds prefix:a:b with both parts written BigEndian so
// lexicographic sort matches numeric order.
func makeCompositeKey(prefix string, a, b uint64) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], a)
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], b)
	return buf
}

// makePartialCompositeKey builds prefix:a for range scans.
func makePartialCompositeKey(prefix string, a uint64) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], a)
	return buf
}
