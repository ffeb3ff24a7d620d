package cart

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot is the persisted cart row, one per session key. It is the
// server-side analog of a browser's local storage slot.
type Snapshot struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Payload   []byte    `gorm:"column:payload"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Snapshot) TableName() string {
	return "cart_snapshots"
}

// GormBackend stores cart snapshots in a relational table via GORM.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

// Migrate creates the snapshot table when missing.
func (g *GormBackend) Migrate() error {
	return g.db.AutoMigrate(&Snapshot{})
}

func (g *GormBackend) Load(ctx context.Context, key string) ([]Line, error) {
	var row Snapshot
	err := g.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeSnapshot(row.Payload)
}

func (g *GormBackend) Save(ctx context.Context, key string, lines []Line) error {
	payload, err := encodeSnapshot(lines)
	if err != nil {
		return err
	}
	row := Snapshot{Key: key, Payload: payload, UpdatedAt: time.Now().UTC()}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
}
