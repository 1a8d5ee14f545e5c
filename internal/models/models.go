package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Roles as stored in users.role
const (
	RoleUser       = "user"
	RoleStoreOwner = "store_owner"
	RoleAdmin      = "admin"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User is a platform account: a normal user, a store owner or an administrator
type User struct {
	BaseModel
	Name         string    `json:"name" gorm:"type:varchar(60);not null"`
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Address      string    `json:"address" gorm:"type:varchar(400)"`
	Role         string    `json:"role" gorm:"type:varchar(20);not null;default:user;index"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Stores []Store `json:"stores,omitempty" gorm:"foreignKey:OwnerID"`
}

// Store is a rated store, owned by a store owner
type Store struct {
	BaseModel
	Name        string    `json:"name" gorm:"type:varchar(100);not null;index"`
	Email       string    `json:"email" gorm:"not null"`
	Address     string    `json:"address" gorm:"type:varchar(400);not null"`
	Description string    `json:"description" gorm:"type:text"`
	OwnerID     string    `json:"owner_id" gorm:"not null;index"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Owner   *User    `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
	Ratings []Rating `json:"ratings,omitempty" gorm:"foreignKey:StoreID"`
}

// Rating is one user's 1-5 star rating of one store. A user rates a store at most once.
type Rating struct {
	BaseModel
	StoreID   string    `json:"store_id" gorm:"not null;uniqueIndex:idx_rating_store_user"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_rating_store_user;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:varchar(500)"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Store *Store `json:"store,omitempty" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Store{}, &Rating{})
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}

// FindByIDWithPreload finds a record by ID with preloading
func FindByIDWithPreload[T any](db *gorm.DB, id string, model *T, preloads ...string) error {
	query := db
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	return query.Where("id = ?", id).First(model).Error
}
