package gormdb

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/16navigabraham/Tipjar/internal/domain"
)

// ErrDuplicateTx is returned when a tip for the same chain transaction is
// already recorded.
var ErrDuplicateTx = errors.New("tip already recorded for transaction")

// TipModel represents a ledger row. Rows are inserted once and never updated.
type TipModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Sender    string    `gorm:"index;not null;size:42"`
	Receiver  string    `gorm:"index;not null;size:42"`
	Token     string    `gorm:"not null;size:16"`
	Amount    string    `gorm:"not null"`
	Message   string    `gorm:"size:1024"`
	ChainID   int64     `gorm:"not null;uniqueIndex:idx_tips_chain_tx"`
	TxID      string    `gorm:"not null;size:66;uniqueIndex:idx_tips_chain_tx"`
	CreatedAt time.Time `gorm:"index;not null"`
}

func (TipModel) TableName() string {
	return "tips"
}

// TipRepository is the gorm-backed tip ledger.
type TipRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTipRepository(db *gorm.DB) *TipRepository {
	return &TipRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func toDomainTip(m *TipModel) *domain.TipRecord {
	return &domain.TipRecord{
		ID:        strconv.FormatUint(uint64(m.ID), 10),
		Sender:    m.Sender,
		Receiver:  m.Receiver,
		Token:     m.Token,
		Amount:    m.Amount,
		Message:   m.Message,
		TxID:      m.TxID,
		ChainID:   m.ChainID,
		Timestamp: m.CreatedAt,
	}
}

func toTipModel(r *domain.TipRecord) *TipModel {
	return &TipModel{
		Sender:   r.Sender,
		Receiver: r.Receiver,
		Token:    r.Token,
		Amount:   r.Amount,
		Message:  r.Message,
		ChainID:  r.ChainID,
		TxID:     r.TxID,
	}
}

// Append stores a confirmed tip. The ledger assigns the id and timestamp and
// writes them back into rec.
func (r *TipRepository) Append(ctx context.Context, rec *domain.TipRecord) error {
	sender, ok := domain.NormalizeAddress(rec.Sender)
	if !ok {
		return errors.Errorf("invalid sender address %q", rec.Sender)
	}
	receiver, ok := domain.NormalizeAddress(rec.Receiver)
	if !ok {
		return errors.Errorf("invalid receiver address %q", rec.Receiver)
	}
	if rec.TxID == "" {
		return errors.New("missing transaction id")
	}

	model := toTipModel(rec)
	model.Sender = sender
	model.Receiver = receiver
	model.CreatedAt = r.now()

	err := r.db.WithContext(ctx).Create(model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Wrapf(ErrDuplicateTx, "tx %s", rec.TxID)
	}
	if err != nil {
		return errors.Wrap(err, "creating tip")
	}

	*rec = *toDomainTip(model)
	return nil
}

// QueryBySender returns tips sent by address, newest first.
func (r *TipRepository) QueryBySender(ctx context.Context, address string) ([]*domain.TipRecord, error) {
	addr, ok := domain.NormalizeAddress(address)
	if !ok {
		return nil, nil
	}
	return r.find(ctx, "sender = ?", addr)
}

// QueryByReceiver returns tips received by address, newest first.
func (r *TipRepository) QueryByReceiver(ctx context.Context, address string) ([]*domain.TipRecord, error) {
	addr, ok := domain.NormalizeAddress(address)
	if !ok {
		return nil, nil
	}
	return r.find(ctx, "receiver = ?", addr)
}

// QueryAll returns the whole ledger, newest first.
func (r *TipRepository) QueryAll(ctx context.Context) ([]*domain.TipRecord, error) {
	return r.find(ctx, nil)
}

func (r *TipRepository) find(ctx context.Context, query interface{}, args ...interface{}) ([]*domain.TipRecord, error) {
	var models []TipModel
	q := r.db.WithContext(ctx)
	if query != nil {
		q = q.Where(query, args...)
	}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "querying tips")
	}

	tips := make([]*domain.TipRecord, len(models))
	for i := range models {
		tips[i] = toDomainTip(&models[i])
	}
	return tips, nil
}
