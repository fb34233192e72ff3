package repository

import "github.com/jhoicas/omnitrack-api/internal/domain/entity"

// UserRepository puerto de persistencia para usuarios (colaborador de borde).
type UserRepository interface {
	Create(user *entity.User) (*entity.User, error)
	GetByID(id int64) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	List() ([]*entity.User, error)
}
