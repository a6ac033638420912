package core

// Hand-maintained MUS serializers for the stored domain types. Field order
// must match the struct definitions in models.go.

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	vectorSer   = ord.NewSliceSer[float32](raw.Float32)
	metadataSer = ord.NewMapSer[string, string](ord.String, ord.String)
)

// IDMUS serializes core.ID values.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	raw, n, err := varint.Uint64.Unmarshal(bs)
	return ID(raw), n, err
}

func (idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

// AccountMUS serializes core.Account values.
var AccountMUS = accountMUS{}

type accountMUS struct{}

func (accountMUS) Marshal(v Account, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Int64.Marshal(v.CreditsBalance, bs[n:])
	n += varint.Int.Marshal(v.Reputation, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (accountMUS) Unmarshal(bs []byte) (v Account, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.CreditsBalance, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Reputation, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

func (accountMUS) Size(v Account) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Int64.Size(v.CreditsBalance)
	size += varint.Int.Size(v.Reputation)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	size += raw.TimeUnixMicro.Size(v.UpdatedAt)
	return size
}

// LedgerEntryMUS serializes core.LedgerEntry values.
var LedgerEntryMUS = ledgerEntryMUS{}

type ledgerEntryMUS struct{}

func (ledgerEntryMUS) Marshal(v LedgerEntry, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.AccountId, bs[n:])
	n += varint.Int.Marshal(int(v.Kind), bs[n:])
	n += varint.Int64.Marshal(v.Amount, bs[n:])
	n += varint.Int64.Marshal(v.BalanceAfter, bs[n:])
	n += ord.String.Marshal(v.ReferenceId, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (ledgerEntryMUS) Unmarshal(bs []byte) (v LedgerEntry, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.AccountId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	var kind int
	kind, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Kind = EntryKind(kind)
	v.Amount, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.BalanceAfter, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.ReferenceId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

func (ledgerEntryMUS) Size(v LedgerEntry) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.AccountId)
	size += varint.Int.Size(int(v.Kind))
	size += varint.Int64.Size(v.Amount)
	size += varint.Int64.Size(v.BalanceAfter)
	size += ord.String.Size(v.ReferenceId)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	return size
}

// EscrowTransactionMUS serializes core.EscrowTransaction values.
var EscrowTransactionMUS = escrowTransactionMUS{}

type escrowTransactionMUS struct{}

func (escrowTransactionMUS) Marshal(v EscrowTransaction, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.BuyerId, bs[n:])
	n += IDMUS.Marshal(v.SellerId, bs[n:])
	n += varint.Int.Marshal(int(v.SubjectKind), bs[n:])
	n += IDMUS.Marshal(v.SubjectId, bs[n:])
	n += varint.Int64.Marshal(v.GrossAmount, bs[n:])
	n += varint.Int64.Marshal(v.PlatformFee, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (escrowTransactionMUS) Unmarshal(bs []byte) (v EscrowTransaction, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.BuyerId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.SellerId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	var kind int
	kind, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.SubjectKind = EntityKind(kind)
	v.SubjectId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.GrossAmount, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.PlatformFee, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	var status int
	status, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Status = EscrowStatus(status)
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

func (escrowTransactionMUS) Size(v EscrowTransaction) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.BuyerId)
	size += IDMUS.Size(v.SellerId)
	size += varint.Int.Size(int(v.SubjectKind))
	size += IDMUS.Size(v.SubjectId)
	size += varint.Int64.Size(v.GrossAmount)
	size += varint.Int64.Size(v.PlatformFee)
	size += varint.Int.Size(int(v.Status))
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	size += raw.TimeUnixMicro.Size(v.UpdatedAt)
	return size
}

// DemandMUS serializes core.Demand values.
var DemandMUS = demandMUS{}

type demandMUS struct{}

func (demandMUS) Marshal(v Demand, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.BuyerId, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += varint.Int64.Marshal(v.BountyCredits, bs[n:])
	n += varint.Int.Marshal(v.DeadlineDays, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (demandMUS) Unmarshal(bs []byte) (v Demand, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.BuyerId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.BountyCredits, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.DeadlineDays, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	var status int
	status, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Status = DemandStatus(status)
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

func (demandMUS) Size(v Demand) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.BuyerId)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Category)
	size += varint.Int64.Size(v.BountyCredits)
	size += varint.Int.Size(v.DeadlineDays)
	size += varint.Int.Size(int(v.Status))
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	size += raw.TimeUnixMicro.Size(v.UpdatedAt)
	return size
}

// IntelMUS serializes core.Intel values.
var IntelMUS = intelMUS{}

type intelMUS struct{}

func (intelMUS) Marshal(v Intel, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.SellerId, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += varint.Int64.Marshal(v.PriceCredits, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (intelMUS) Unmarshal(bs []byte) (v Intel, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.SellerId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.PriceCredits, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	var status int
	status, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Status = IntelStatus(status)
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

func (intelMUS) Size(v Intel) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.SellerId)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Category)
	size += varint.Int64.Size(v.PriceCredits)
	size += varint.Int.Size(int(v.Status))
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	size += raw.TimeUnixMicro.Size(v.UpdatedAt)
	return size
}

// EmbeddingRecordMUS serializes core.EmbeddingRecord values.
var EmbeddingRecordMUS = embeddingRecordMUS{}

type embeddingRecordMUS struct{}

func (embeddingRecordMUS) Marshal(v EmbeddingRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Int.Marshal(int(v.EntityKind), bs[n:])
	n += IDMUS.Marshal(v.EntityId, bs[n:])
	n += vectorSer.Marshal(v.Vector, bs[n:])
	n += metadataSer.Marshal(v.Metadata, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (embeddingRecordMUS) Unmarshal(bs []byte) (v EmbeddingRecord, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	var kind int
	kind, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.EntityKind = EntityKind(kind)
	v.EntityId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Vector, n1, err = vectorSer.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Metadata, n1, err = metadataSer.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

func (embeddingRecordMUS) Size(v EmbeddingRecord) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Int.Size(int(v.EntityKind))
	size += IDMUS.Size(v.EntityId)
	size += vectorSer.Size(v.Vector)
	size += metadataSer.Size(v.Metadata)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	size += raw.TimeUnixMicro.Size(v.UpdatedAt)
	return size
}
