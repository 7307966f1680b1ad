package db

import (
	"fmt"
	"io"
	"time"

	"newsboard/internal/models"
	"newsboard/internal/utils"

	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixtures is the YAML document accepted by `newsboard seed`.
type Fixtures struct {
	Users []UserFixture `yaml:"users"`
	News  []NewsFixture `yaml:"news"`
}

type UserFixture struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// NewsFixture.Date accepts most common layouts ("2024-05-01",
// "2024-05-01 10:00", RFC 3339, ...). Dates without a zone are UTC; an empty
// date means now.
type NewsFixture struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
	Date  string `yaml:"date"`
}

func (n NewsFixture) date() (time.Time, error) {
	if n.Date == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseIn(n.Date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("news fixture %q: bad date %q: %w", n.Title, n.Date, err)
	}
	return t.UTC(), nil
}

// ParseFixtures decodes a fixtures document.
func ParseFixtures(r io.Reader) (*Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// SeedResult counts the rows a Seed call created.
type SeedResult struct {
	Users int
	News  int
}

// Seed inserts fixtures in one transaction. Users that already exist are
// skipped; news is always appended.
func Seed(conn *gorm.DB, f *Fixtures) (SeedResult, error) {
	var res SeedResult
	err := conn.Transaction(func(tx *gorm.DB) error {
		for _, u := range f.Users {
			var count int64
			if err := tx.Model(&models.User{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if _, err := CreateUser(tx, u.Username, u.Password); err != nil {
				return err
			}
			res.Users++
		}

		for _, n := range f.News {
			if n.Title == "" {
				return fmt.Errorf("news fixture %d: empty title", res.News+1)
			}
			date, err := n.date()
			if err != nil {
				return err
			}
			news := models.News{Title: n.Title, Text: n.Text, Date: date}
			if err := tx.Create(&news).Error; err != nil {
				return fmt.Errorf("create news %q: %w", n.Title, err)
			}
			res.News++
		}
		return nil
	})
	return res, err
}

// CreateUser stores a user with a bcrypt-hashed password.
func CreateUser(conn *gorm.DB, username, password string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Username: username, Password: hash}
	if err := conn.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return &user, nil
}
