package database

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string
	Email        string `gorm:"index"`
	PasswordHash []byte
	AvatarStyle  string
	IsAdmin      bool
	SessionToken string    `gorm:"index"`
	Posts        []Post    `gorm:"foreignKey:AuthorID"`
	Comments     []Comment `gorm:"foreignKey:AuthorID"`
}

type Post struct {
	gorm.Model
	AuthorID uint `gorm:"index"`
	Author   User
	Title    string `gorm:"uniqueIndex"`
	Subtitle string
	Body     string `gorm:"type:text"`
	ImageURL string
	Date     string
	Tags     datatypes.JSON
	Comments []Comment `gorm:"foreignKey:PostID"`
}

type Comment struct {
	gorm.Model
	AuthorID uint `gorm:"index"`
	Author   User
	PostID   uint   `gorm:"index"`
	Body     string `gorm:"type:text"`
}

// UserByEmail returns nil without an error when no account uses the email.
func UserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	result := db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

func UserBySessionToken(db *gorm.DB, token string) (*User, error) {
	var user User
	result := db.Where(&User{SessionToken: token}).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

// PostByTitle is used to reject duplicate titles before hitting the unique
// index, so the user gets a form error instead of a storage error.
func PostByTitle(db *gorm.DB, title string) (*Post, error) {
	var post Post
	result := db.Where("title = ?", title).First(&post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &post, nil
}

// PostByID loads a post with its author and comments (comment authors
// included, for avatars and display names).
func PostByID(db *gorm.DB, id uint) (*Post, error) {
	var post Post
	result := db.Preload("Author").Preload("Comments.Author").First(&post, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &post, nil
}

// DeletePost removes a post together with its comments so none are orphaned.
func DeletePost(db *gorm.DB, post *Post) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}

func CountUsers(db *gorm.DB) (int64, error) {
	var count int64
	result := db.Model(&User{}).Count(&count)
	return count, result.Error
}
