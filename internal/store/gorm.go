package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRow is the single-table layout for persisted snapshots.
type SnapshotRow struct {
	ClientKey string    `gorm:"primaryKey"        json:"client_key"`
	Data      string    `gorm:"not null"          json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GormPersister struct {
	db *gorm.DB
}

func NewGormPersister(db *gorm.DB) (*GormPersister, error) {
	if err := db.AutoMigrate(&SnapshotRow{}); err != nil {
		return nil, err
	}
	return &GormPersister{db: db}, nil
}

func (p *GormPersister) Load(ctx context.Context, key string) ([]byte, error) {
	var row SnapshotRow
	err := p.db.WithContext(ctx).Where("client_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Data), nil
}

func (p *GormPersister) Save(ctx context.Context, key string, data []byte) error {
	row := SnapshotRow{ClientKey: key, Data: string(data), UpdatedAt: time.Now()}
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
}
