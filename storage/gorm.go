package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one stored JSON document.
type Document struct {
	DocKey    string    `gorm:"primaryKey;size:64"`
	Body      string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Document) TableName() string { return "ledger_documents" }

// GormStore keeps documents in the ledger_documents table. Works on MySQL
// and Postgres; the body column maps to longtext or text respectively.
type GormStore struct {
	db *gorm.DB
}

var (
	_ KeyValueStore = (*GormStore)(nil)
	_ Remover       = (*GormStore)(nil)
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the documents table.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&Document{})
}

func (s *GormStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	var doc Document
	err := s.db.WithContext(ctx).Where("doc_key = ?", key).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(doc.Body), dest); err != nil {
		return false, decodeError(key, err)
	}
	return true, nil
}

func (s *GormStore) Save(ctx context.Context, key string, value any) error {
	if err := checkKey(key); err != nil {
		return err
	}
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}
	doc := Document{DocKey: key, Body: string(body), UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc).Error
}

func (s *GormStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("doc_key IN ?", keys).Delete(&Document{}).Error
}
