package models

type Book struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;size:200;uniqueIndex;not null" json:"name"`
}

func (Book) TableName() string {
	return "books"
}
