package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"adsbot/pkg/domain"
)

const migrateLockID int64 = 51720417

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := withMigrationLock(db, func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&UserModel{}, &AdModel{}, &AdHistoryModel{}, &CategoryModel{}, &StudentMessageModel{}); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		if err := tx.Exec(`
			DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM information_schema.table_constraints
					WHERE table_schema = 'public'
					AND table_name = 'ad_history'
					AND constraint_name = 'ad_history_ad_id_fkey'
				) THEN
					ALTER TABLE ad_history
					ADD CONSTRAINT ad_history_ad_id_fkey
					FOREIGN KEY (ad_id) REFERENCES ads(id) ON DELETE RESTRICT;
				END IF;
				IF NOT EXISTS (
					SELECT 1 FROM information_schema.table_constraints
					WHERE table_schema = 'public'
					AND table_name = 'ads'
					AND constraint_name = 'ads_user_id_fkey'
				) THEN
					ALTER TABLE ads
					ADD CONSTRAINT ads_user_id_fkey
					FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT;
				END IF;
			END $$;
		`).Error; err != nil {
			return fmt.Errorf("ensure ad foreign keys: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func withMigrationLock(db *gorm.DB, fn func(*gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open sql conn: %w", err)
	}
	defer conn.Close()
	if err := execAdvisory(ctx, conn, "SELECT pg_advisory_lock($1)", migrateLockID); err != nil {
		return fmt.Errorf("acquire migrate lock: %w", err)
	}
	defer func() {
		_ = execAdvisory(ctx, conn, "SELECT pg_advisory_unlock($1)", migrateLockID)
	}()
	return fn(db)
}

func execAdvisory(ctx context.Context, conn *sql.Conn, query string, lockID int64) error {
	_, err := conn.ExecContext(ctx, query, lockID)
	return err
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertUser registers a user or refreshes username, role and language.
func (s *GormStore) UpsertUser(u domain.User) (domain.User, error) {
	model := userToModel(u)
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"username": gorm.Expr("EXCLUDED.username"),
			"role":     gorm.Expr("COALESCE(NULLIF(EXCLUDED.role, ''), users.role)"),
			"language": gorm.Expr("COALESCE(NULLIF(EXCLUDED.language, ''), users.language)"),
		}),
	}).Create(&model).Error
	if err != nil {
		return domain.User{}, err
	}
	user, _, err := s.GetUser(u.ID)
	return user, err
}

// GetUser returns a user by ID.
func (s *GormStore) GetUser(id int64) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// UserStats counts users per role.
func (s *GormStore) UserStats() (domain.UserStats, error) {
	var rows []struct {
		Role  string
		Count int
	}
	if err := s.db.Model(&UserModel{}).Select("role, COUNT(*) AS count").Group("role").Scan(&rows).Error; err != nil {
		return domain.UserStats{}, err
	}
	var stats domain.UserStats
	for _, row := range rows {
		stats.Total += row.Count
		switch domain.Role(row.Role) {
		case domain.RoleGraduate:
			stats.Graduates = row.Count
		case domain.RoleEmployer:
			stats.Employers = row.Count
		case domain.RoleStudent:
			stats.Students = row.Count
		case domain.RoleUnset:
		}
	}
	return stats, nil
}

// CreateAd inserts the ad and its "created" history entry.
func (s *GormStore) CreateAd(ad domain.Ad) (domain.Ad, error) {
	if ad.Data == nil {
		ad.Data = domain.Payload{}
	}
	model, err := adToModel(ad)
	if err != nil {
		return domain.Ad{}, fmt.Errorf("encode ad: %w", err)
	}
	model.ID = 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		return appendHistory(tx, domain.AdHistoryEntry{
			AdID:      model.ID,
			Action:    domain.ActionCreated,
			NewData:   ad.Data,
			ChangedBy: ad.UserID,
			CreatedAt: model.CreatedAt,
		})
	})
	if err != nil {
		return domain.Ad{}, err
	}
	return adFromModel(model)
}

// GetAd returns an ad by ID regardless of status.
func (s *GormStore) GetAd(id int64) (domain.Ad, bool, error) {
	var model AdModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ad{}, false, nil
		}
		return domain.Ad{}, false, err
	}
	ad, err := adFromModel(model)
	if err != nil {
		return domain.Ad{}, false, err
	}
	return ad, true, nil
}

// TransitionAd moves an ad to t.To when its current status is in t.From.
// The row is locked and the update is conditioned on the observed status,
// so two concurrent callers cannot both succeed.
func (s *GormStore) TransitionAd(t Transition) (domain.Ad, error) {
	var out domain.Ad
	err := s.db.Transaction(func(tx *gorm.DB) error {
		model, err := lockAd(tx, t.AdID)
		if err != nil {
			return err
		}
		current := domain.AdStatus(model.Status)
		if !statusAllowed(current, t.From) {
			return ErrStatusConflict
		}
		ad, err := adFromModel(model)
		if err != nil {
			return err
		}
		applyTransition(&ad, t)
		res := tx.Model(&AdModel{}).
			Where("id = ? AND status = ?", t.AdID, string(current)).
			Updates(map[string]any{
				"status":       string(ad.Status),
				"updated_at":   ad.UpdatedAt,
				"submitted_at": ad.SubmittedAt,
				"approved_at":  ad.ApprovedAt,
				"approved_by":  ad.ApprovedBy,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}
		if err := appendHistory(tx, statusHistory(t.AdID, current, t)); err != nil {
			return err
		}
		out = ad
		return nil
	})
	if err != nil {
		return domain.Ad{}, err
	}
	return out, nil
}

// UpdateAdField merges one payload key and records the old and new value.
func (s *GormStore) UpdateAdField(id int64, field, value string, actor int64, at time.Time) (domain.Ad, error) {
	var out domain.Ad
	err := s.db.Transaction(func(tx *gorm.DB) error {
		model, err := lockAd(tx, id)
		if err != nil {
			return err
		}
		ad, err := adFromModel(model)
		if err != nil {
			return err
		}
		old := ad.Data[field]
		ad.Data = ad.Data.Clone()
		ad.Data[field] = value
		ad.UpdatedAt = at.UTC()
		data, err := encodePayload(ad.Data)
		if err != nil {
			return err
		}
		if err := tx.Model(&AdModel{}).Where("id = ?", id).Updates(map[string]any{
			"data":       data,
			"updated_at": ad.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		if err := appendHistory(tx, domain.AdHistoryEntry{
			AdID:      id,
			Action:    domain.ActionFieldUpdated,
			FieldName: field,
			OldValue:  old,
			NewValue:  value,
			ChangedBy: actor,
			CreatedAt: ad.UpdatedAt,
		}); err != nil {
			return err
		}
		out = ad
		return nil
	})
	if err != nil {
		return domain.Ad{}, err
	}
	return out, nil
}

// UpdateAdData replaces the payload and, when file is non-nil, the file
// reference.
func (s *GormStore) UpdateAdData(id int64, data domain.Payload, file *domain.FileRef, actor int64, at time.Time) (domain.Ad, error) {
	var out domain.Ad
	err := s.db.Transaction(func(tx *gorm.DB) error {
		model, err := lockAd(tx, id)
		if err != nil {
			return err
		}
		ad, err := adFromModel(model)
		if err != nil {
			return err
		}
		oldData := ad.Data
		ad.Data = data.Clone()
		ad.UpdatedAt = at.UTC()
		encoded, err := encodePayload(ad.Data)
		if err != nil {
			return err
		}
		updates := map[string]any{
			"data":       encoded,
			"updated_at": ad.UpdatedAt,
		}
		if file != nil {
			ad.File = *file
			updates["file_id"] = file.FileID
			updates["file_path"] = file.Path
		}
		if err := tx.Model(&AdModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := appendHistory(tx, domain.AdHistoryEntry{
			AdID:      id,
			Action:    domain.ActionUpdated,
			OldData:   oldData,
			NewData:   ad.Data,
			ChangedBy: actor,
			CreatedAt: ad.UpdatedAt,
		}); err != nil {
			return err
		}
		out = ad
		return nil
	})
	if err != nil {
		return domain.Ad{}, err
	}
	return out, nil
}

// ListAdsByOwner returns the owner's non-deleted ads, newest first.
func (s *GormStore) ListAdsByOwner(userID int64) ([]domain.Ad, error) {
	return s.listAds(
		s.db.Where("user_id = ? AND status <> ?", userID, string(domain.StatusDeleted)).
			Order("created_at DESC").Order("id DESC"),
	)
}

// CountActiveAdsByOwner counts the owner's non-deleted ads.
func (s *GormStore) CountActiveAdsByOwner(userID int64) (int, error) {
	var count int64
	if err := s.db.Model(&AdModel{}).
		Where("user_id = ? AND status <> ?", userID, string(domain.StatusDeleted)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// ListPendingAds returns pending ads in submission order.
func (s *GormStore) ListPendingAds(adType domain.AdType) ([]domain.Ad, error) {
	tx := s.db.Where("status = ?", string(domain.StatusPending))
	if adType != "" {
		tx = tx.Where("ad_type = ?", string(adType))
	}
	return s.listAds(tx.Order("submitted_at ASC NULLS FIRST").Order("id ASC"))
}

// ListApprovedByCategory matches employer "category" and graduate
// "profession" against name, newest approval first.
func (s *GormStore) ListApprovedByCategory(category string, limit int) ([]domain.Ad, error) {
	if limit <= 0 {
		limit = 20
	}
	employer := s.db.Where("ad_type = ?", string(domain.AdEmployer)).
		Where(datatypes.JSONQuery("data").Equals(category, domain.AdEmployer.CategoryField()))
	graduate := s.db.Where("ad_type = ?", string(domain.AdGraduate)).
		Where(datatypes.JSONQuery("data").Equals(category, domain.AdGraduate.CategoryField()))
	return s.listAds(
		s.db.Where("status = ?", string(domain.StatusApproved)).
			Where(employer.Or(graduate)).
			Order("approved_at DESC NULLS LAST").
			Order("created_at DESC").
			Limit(limit),
	)
}

func (s *GormStore) listAds(tx *gorm.DB) ([]domain.Ad, error) {
	var models []AdModel
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Ad, 0, len(models))
	for _, m := range models {
		ad, err := adFromModel(m)
		if err != nil {
			return nil, fmt.Errorf("decode ad %d: %w", m.ID, err)
		}
		res = append(res, ad)
	}
	return res, nil
}

// AdStats counts ads per status.
func (s *GormStore) AdStats() (domain.AdStats, error) {
	var rows []struct {
		Status string
		Count  int
	}
	if err := s.db.Model(&AdModel{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return domain.AdStats{}, err
	}
	var stats domain.AdStats
	for _, row := range rows {
		stats.Total += row.Count
		switch domain.AdStatus(row.Status) {
		case domain.StatusApproved:
			stats.Approved = row.Count
		case domain.StatusPending:
			stats.Pending = row.Count
		case domain.StatusRejected:
			stats.Rejected = row.Count
		case domain.StatusCancelled:
			stats.Cancelled = row.Count
		case domain.StatusDraft, domain.StatusDeleted:
		}
	}
	return stats, nil
}

// ListAdHistory returns the audit trail of an ad, newest first.
func (s *GormStore) ListAdHistory(adID int64) ([]domain.AdHistoryEntry, error) {
	var models []AdHistoryModel
	if err := s.db.Where("ad_id = ?", adID).Order("created_at DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.AdHistoryEntry, 0, len(models))
	for _, m := range models {
		entry, err := historyFromModel(m)
		if err != nil {
			return nil, fmt.Errorf("decode history %d: %w", m.ID, err)
		}
		res = append(res, entry)
	}
	return res, nil
}

// ListActiveFilePaths returns file paths referenced by non-deleted ads.
func (s *GormStore) ListActiveFilePaths() ([]string, error) {
	var paths []string
	if err := s.db.Model(&AdModel{}).
		Where("status <> ? AND file_path <> ''", string(domain.StatusDeleted)).
		Pluck("file_path", &paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

// CreateCategory inserts a category with a unique name.
func (s *GormStore) CreateCategory(name string) (domain.Category, error) {
	model := CategoryModel{Name: name, CreatedAt: time.Now().UTC()}
	if err := s.db.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Category{}, ErrDuplicate
		}
		return domain.Category{}, err
	}
	return categoryFromModel(model), nil
}

// RenameCategory changes a category name.
func (s *GormStore) RenameCategory(id int64, name string) error {
	res := s.db.Model(&CategoryModel{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category permanently.
func (s *GormStore) DeleteCategory(id int64) error {
	res := s.db.Delete(&CategoryModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetCategory returns a category by ID.
func (s *GormStore) GetCategory(id int64) (domain.Category, bool, error) {
	return s.findCategory("id = ?", id)
}

// GetCategoryByName returns a category by exact name.
func (s *GormStore) GetCategoryByName(name string) (domain.Category, bool, error) {
	return s.findCategory("name = ?", name)
}

func (s *GormStore) findCategory(query string, arg any) (domain.Category, bool, error) {
	var model CategoryModel
	if err := s.db.First(&model, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Category{}, false, nil
		}
		return domain.Category{}, false, err
	}
	return categoryFromModel(model), true, nil
}

// ListCategories returns all categories ordered by name.
func (s *GormStore) ListCategories() ([]domain.Category, error) {
	var models []CategoryModel
	if err := s.db.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Category, 0, len(models))
	for _, m := range models {
		res = append(res, categoryFromModel(m))
	}
	return res, nil
}

// CategoryCount returns the number of categories.
func (s *GormStore) CategoryCount() (int, error) {
	var count int64
	if err := s.db.Model(&CategoryModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// CreateStudentMessage records a forwarded student inquiry.
func (s *GormStore) CreateStudentMessage(msg domain.StudentMessage) (domain.StudentMessage, error) {
	model := studentMessageToModel(msg)
	model.ID = 0
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.StudentMessage{}, err
	}
	return studentMessageFromModel(model), nil
}

// GetStudentMessageByGroupMessageID finds the inquiry forwarded as the given
// admin-group message.
func (s *GormStore) GetStudentMessageByGroupMessageID(groupMessageID int) (domain.StudentMessage, bool, error) {
	var model StudentMessageModel
	if err := s.db.Where("group_message_id = ?", groupMessageID).Order("id DESC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.StudentMessage{}, false, nil
		}
		return domain.StudentMessage{}, false, err
	}
	return studentMessageFromModel(model), true, nil
}

// ListStudentMessagesByUser returns a student's messages, newest first.
func (s *GormStore) ListStudentMessagesByUser(userID int64) ([]domain.StudentMessage, error) {
	var models []StudentMessageModel
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.StudentMessage, 0, len(models))
	for _, m := range models {
		res = append(res, studentMessageFromModel(m))
	}
	return res, nil
}

func lockAd(tx *gorm.DB, id int64) (AdModel, error) {
	var model AdModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdModel{}, ErrNotFound
		}
		return AdModel{}, err
	}
	return model, nil
}

func appendHistory(tx *gorm.DB, entry domain.AdHistoryEntry) error {
	model, err := historyToModel(entry)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	model.ID = 0
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}
	if err := tx.Create(&model).Error; err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
