package database

import (
	"gorm.io/gorm"
)

type Database struct {
	postRepo *PostRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		postRepo: NewPostRepo(db),
	}
}

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}
