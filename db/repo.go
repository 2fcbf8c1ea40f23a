package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// Transaction 在同一个 tx 里执行 fn；fn 拿到的 Repo 绑定该 tx
func (r *Repo) Transaction(ctx context.Context, fn func(tx *Repo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repo{DB: tx})
	})
}

// translate 把 gorm 错误换成包内哨兵错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// MaxPage 页码上限，保证 offset 不溢出
const MaxPage = 1_000_000

// Page 统一分页参数
type Page struct {
	Page int
	Size int
}

func (p Page) normalize(defSize, maxSize int) Page {
	switch {
	case p.Page <= 0:
		p.Page = 1
	case p.Page > MaxPage:
		p.Page = MaxPage
	}
	switch {
	case p.Size <= 0:
		p.Size = defSize
	case p.Size > maxSize:
		p.Size = maxSize
	}
	return p
}

func (p Page) Offset() int { return (p.Page - 1) * p.Size }

func paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Size)
	}
}
