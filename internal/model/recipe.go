package model

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is a schemaless recipe payload stored in a JSONB column. The
// store does not validate it on reads; consumers go through the normalizer.
type Document map[string]any

// Value implements the driver.Valuer interface
func (d Document) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "{}", nil
	}
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface
func (d *Document) Scan(value interface{}) error {
	if value == nil {
		*d = Document{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, d)
}

// Recipe is the stored envelope around a recipe document: the document
// itself plus typed columns for everything the query builder filters on.
// The text index columns are derived from the document on every write.
type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      string    `gorm:"size:64;not null;index" json:"user_id"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Title       string    `gorm:"size:255;not null;check:title <> ''" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Difficulty  string    `gorm:"size:16;not null;default:medium;index" json:"difficulty"`
	TotalTime   int       `gorm:"not null;default:0" json:"total_time"`
	Calories    float64   `gorm:"not null;default:0" json:"calories"`
	Likes       int       `gorm:"not null;default:0" json:"likes"`

	// Lowercase search and membership indexes over the document.
	IngredientNames string `gorm:"type:text" json:"-"`
	CategoriesText  string `gorm:"type:text" json:"-"`
	SavedByText     string `gorm:"type:text" json:"-"`

	Doc Document `gorm:"type:jsonb;not null;default:'{}'" json:"doc"`
}

// BeforeCreate assigns the identifier so inserts behave the same on
// Postgres and the in-memory test database.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// JoinTags builds the "|a|b|" membership index stored alongside the
// document. An empty set is the empty string.
func JoinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "|" + strings.Join(tags, "|") + "|"
}

// SplitTags is the inverse of JoinTags.
func SplitTags(s string) []string {
	trimmed := strings.Trim(s, "|")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "|")
}
