package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 관리자 계정
type User struct {
	gorm.Model
	Username string `gorm:"size:50;unique;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"size:80" json:"name"`
}

// EnsureUser creates a bcrypt-hashed admin account when the given
// credentials are non-empty and no account with that username exists.
func EnsureUser(gdb *gorm.DB, username, password, name string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	var existing User
	if err := gdb.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return gdb.Create(&User{Username: trimmedUser, Password: string(hashed), Name: strings.TrimSpace(name)}).Error
	}

	return nil
}
