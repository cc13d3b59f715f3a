package repository

import (
	"database/sql"

	"starter-api/internal/entities"
)

// userRow is the persisted shape of a user
type userRow struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"uniqueIndex:idx_users_email;not null"`
	FirstName      sql.NullString
	LastName       sql.NullString
	HashedPassword string `gorm:"not null"`
}

func (userRow) TableName() string {
	return "users"
}

func toUserRow(u entities.User) userRow {
	return userRow{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      toNullString(u.FirstName),
		LastName:       toNullString(u.LastName),
		HashedPassword: u.HashedPassword,
	}
}

func (r userRow) toEntity() entities.User {
	return entities.User{
		ID:             r.ID,
		Email:          r.Email,
		FirstName:      fromNullString(r.FirstName),
		LastName:       fromNullString(r.LastName),
		HashedPassword: r.HashedPassword,
	}
}

// itemRow is the persisted shape of an item
type itemRow struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex:idx_items_name;not null"`
	Description sql.NullString
	Price       float64 `gorm:"not null;check:chk_items_price_positive,price > 0"`
}

func (itemRow) TableName() string {
	return "items"
}

func toItemRow(i entities.Item) itemRow {
	return itemRow{
		ID:          i.ID,
		Name:        i.Name,
		Description: toNullString(i.Description),
		Price:       i.Price,
	}
}

func (r itemRow) toEntity() entities.Item {
	return entities.Item{
		ID:          r.ID,
		Name:        r.Name,
		Description: fromNullString(r.Description),
		Price:       r.Price,
	}
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
