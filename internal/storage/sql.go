package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/rocketshoes-cart/pkg/db"
)

// Snapshot is one row of the cart_snapshots table.
type Snapshot struct {
	StorageKey string    `gorm:"column:storage_key;primaryKey"`
	Payload    string    `gorm:"column:payload;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (Snapshot) TableName() string { return "cart_snapshots" }

// SQL persists values in the cart_snapshots table through GORM.
type SQL struct {
	client *db.Client
	now    func() time.Time
}

func NewSQL(client *db.Client) (*SQL, error) {
	if client == nil || client.DB() == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &SQL{client: client, now: time.Now}, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	var row Snapshot
	err := s.client.DB().WithContext(ctx).Where("storage_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load snapshot %q: %w", key, err)
	}
	return row.Payload, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	row := Snapshot{StorageKey: key, Payload: value, UpdatedAt: s.now().UTC()}
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return nil
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
