package repository

import (
	"time"

	"kiu_social_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByUuid(uuid string) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user uuid=%s", uuid)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user email=%s", email)
	}
	return &user, nil
}

func (r *userRepository) FindByEmailOrUsername(email, username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ? OR username = ?", email, username).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user email=%s username=%s", email, username)
	}
	return &user, nil
}

func (r *userRepository) FindByUuids(uuids []string) ([]model.User, error) {
	if len(uuids) == 0 {
		return nil, nil
	}
	var users []model.User
	if err := r.db.Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "batch find users")
	}
	return users, nil
}

func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "create user")
	}
	return nil
}

func (r *userRepository) UpdateProfile(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return wrapDBError(err, "update user profile")
	}
	return nil
}

func (r *userRepository) Search(query, excludeUuid string, excludeUuids []string, limit int) ([]model.User, error) {
	pattern := "%" + query + "%"
	tx := r.db.Where("uuid != ? AND is_active = ?", excludeUuid, true).
		Where("first_name ILIKE ? OR last_name ILIKE ? OR username ILIKE ? OR major ILIKE ?",
			pattern, pattern, pattern, pattern)
	if len(excludeUuids) > 0 {
		tx = tx.Where("uuid NOT IN ?", excludeUuids)
	}
	var users []model.User
	if err := tx.Limit(limit).Find(&users).Error; err != nil {
		return nil, wrapDBErrorf(err, "search users q=%s", query)
	}
	return users, nil
}

func (r *userRepository) SetPresence(uuid string, online bool, at time.Time) error {
	updates := map[string]interface{}{
		"is_online": online,
		"last_seen": at,
	}
	if err := r.db.Model(&model.User{}).Where("uuid = ?", uuid).Updates(updates).Error; err != nil {
		return wrapDBErrorf(err, "set presence uuid=%s", uuid)
	}
	return nil
}
