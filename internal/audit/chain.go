package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/danielpatrickdp/endochain/go-core/internal/timeutil"
)

// #region chain-struct
// Chain is the process-wide append-only audit log. Appends are serialized;
// reads work on snapshots.
type Chain struct {
	mu      sync.RWMutex
	records []Record
	backend Backend
	hasher  Hasher
	clock   timeutil.Clock
	logger  *zap.Logger
}

// Option configures a Chain.
type Option func(*Chain)

// WithClock sets the timestamp source for Append.
func WithClock(c timeutil.Clock) Option {
	return func(ch *Chain) { ch.clock = c }
}

// WithHasher sets the digest used for record hashes.
func WithHasher(h Hasher) Option {
	return func(ch *Chain) { ch.hasher = h }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(ch *Chain) {
		if l != nil {
			ch.logger = l
		}
	}
}

// #endregion chain-struct

// #region constructor
// NewChain loads the records already held by backend and resumes from its head.
func NewChain(ctx context.Context, backend Backend, opts ...Option) (*Chain, error) {
	c := &Chain{
		backend: backend,
		hasher:  SHA256(),
		clock:   timeutil.RealClock{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	existing, err := backend.Load(ctx)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	c.records = existing
	c.logger.Debug("audit chain opened", zap.Int("records", len(existing)))
	return c, nil
}

// #endregion constructor

// #region append
// Append records one computation, stamped with the chain's clock.
func (c *Chain) Append(ctx context.Context, fingerprint, score, stage string) (Record, error) {
	return c.append(ctx, nil, fingerprint, score, stage)
}

// AppendAt records one computation with a caller-supplied timestamp.
func (c *Chain) AppendAt(ctx context.Context, ts time.Time, fingerprint, score, stage string) (Record, error) {
	return c.append(ctx, &ts, fingerprint, score, stage)
}

func (c *Chain) append(ctx context.Context, ts *time.Time, fingerprint, score, stage string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var when time.Time
	if ts != nil {
		when = *ts
	} else {
		when = c.clock.Now()
	}

	prev := GenesisHash
	if n := len(c.records); n > 0 {
		prev = c.records[n-1].RecordHash
	}
	rec := Record{
		Sequence:         uint64(len(c.records)),
		Timestamp:        when.UTC().Truncate(time.Millisecond),
		InputFingerprint: norm.NFC.String(fingerprint),
		Score:            norm.NFC.String(score),
		Stage:            norm.NFC.String(stage),
		PreviousHash:     prev,
	}
	rec.RecordHash = c.hasher.Hash(rec)

	if err := c.backend.Append(ctx, rec); err != nil {
		c.logger.Error("audit append failed", zap.Uint64("sequence", rec.Sequence), zap.Error(err))
		return Record{}, &StorageError{Op: "append", Err: err}
	}
	c.records = append(c.records, rec)

	c.logger.Debug("audit record appended",
		zap.Uint64("sequence", rec.Sequence),
		zap.String("stage", stage),
		zap.String("record_hash", rec.RecordHash),
	)
	return rec, nil
}

// #endregion append

// #region read
// Len returns the number of records.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Head returns the latest record, if any.
func (c *Chain) Head() (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.records) == 0 {
		return Record{}, false
	}
	return c.records[len(c.records)-1], true
}

// HeadHash returns the latest record hash, or GenesisHash for an empty chain.
func (c *Chain) HeadHash() string {
	if h, ok := c.Head(); ok {
		return h.RecordHash
	}
	return GenesisHash
}

// Get returns the record with the given sequence number.
func (c *Chain) Get(seq uint64) (Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if seq >= uint64(len(c.records)) {
		return Record{}, fmt.Errorf("%w: sequence %d", ErrNotFound, seq)
	}
	return c.records[seq], nil
}

// Records returns a snapshot copy of the chain.
func (c *Chain) Records() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Hasher returns the digest in use.
func (c *Chain) Hasher() Hasher { return c.hasher }

// #endregion read

// #region export
// ExportDocument is the JSON document produced by Chain.Export.
type ExportDocument struct {
	GenesisHash string   `json:"genesis_hash"`
	HeadHash    string   `json:"head_hash"`
	Length      int      `json:"length"`
	Keyed       bool     `json:"keyed"`
	Records     []Record `json:"records"`
}

// Export renders the full chain as indented JSON.
func (c *Chain) Export() ([]byte, error) {
	records := c.Records()
	head := GenesisHash
	if n := len(records); n > 0 {
		head = records[n-1].RecordHash
	}
	doc := ExportDocument{
		GenesisHash: GenesisHash,
		HeadHash:    head,
		Length:      len(records),
		Keyed:       c.hasher.Keyed(),
		Records:     records,
	}
	if doc.Records == nil {
		doc.Records = []Record{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// #endregion export
