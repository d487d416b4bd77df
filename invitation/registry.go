// Package invitation issues and checks the registration codes that gate account creation.
package invitation

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"shiftnote-backend/models"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Charset leaves out 0/O, 1/I/l and similar look-alikes.
const Charset = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

const (
	BossCodeLength     = 16
	PersonalCodeLength = 12
)

const (
	ModeBoss     = "boss"
	ModePersonal = "personal"
)

const cacheTTL = time.Minute

var (
	ErrNameTaken    = errors.New("name already has an allowlist entry")
	ErrNotFound     = errors.New("allowlist entry not found")
	ErrInvalidRole  = errors.New("role must be worker, manager or boss")
	ErrInvalidStore = errors.New("store must be store1, store2 or both")
	ErrNameRequired = errors.New("name is required")
	ErrInvalidCode  = errors.New("invalid registration code")
)

type Registry struct {
	DB       *gorm.DB
	BossCode string
	Cache    *ristretto.Cache[string, bool]
}

func NewRegistry(db *gorm.DB, bossCode string) (*Registry, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, bool]{
		NumCounters: 1e4,
		MaxCost:     1 << 12,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("allowlist cache: %w", err)
	}
	return &Registry{DB: db, BossCode: bossCode, Cache: cache}, nil
}

func (r *Registry) Close() {
	if r.Cache != nil {
		r.Cache.Close()
	}
}

// Resolution is what a code turned out to be.
type Resolution struct {
	Mode  string
	Entry *models.AllowedName
}

// GenerateCode returns a random code from Charset, 16 characters for boss entries and 12 otherwise.
func GenerateCode(role string) (string, error) {
	n := PersonalCodeLength
	if role == models.RoleBoss {
		n = BossCodeLength
	}
	limit := big.NewInt(int64(len(Charset)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(Charset[idx.Int64()])
	}
	return b.String(), nil
}

func IsValidEntryRole(role string) bool {
	return role == models.RoleWorker || role == models.RoleManager || role == models.RoleBoss
}

// AddAllowedName creates an entry and returns it with its freshly issued code.
// An existing entry for the same name is left untouched.
func (r *Registry) AddAllowedName(ctx context.Context, name, role, storeID string) (*models.AllowedName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !IsValidEntryRole(role) {
		return nil, ErrInvalidRole
	}
	if !models.IsValidUserStore(storeID) {
		return nil, ErrInvalidStore
	}

	db := r.DB.WithContext(ctx)
	exists, err := r.entryExists(db, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrNameTaken
	}

	code, err := GenerateCode(role)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	entry := models.AllowedName{
		Name:             name,
		Role:             role,
		StoreID:          storeID,
		RegistrationCode: code,
	}
	if err := db.Create(&entry).Error; err != nil {
		// lost a race against a concurrent add of the same name
		if exists, _ := r.entryExists(db, name); exists {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("create allowlist entry: %w", err)
	}

	r.invalidate(name)
	return &entry, nil
}

// RegenerateCode replaces the entry's code. The previous code stops working immediately.
func (r *Registry) RegenerateCode(ctx context.Context, name string) (string, error) {
	db := r.DB.WithContext(ctx)
	var entry models.AllowedName
	if err := db.Where("name = ?", name).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	code, err := GenerateCode(entry.Role)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	if err := db.Model(&entry).Update("registration_code", code).Error; err != nil {
		return "", fmt.Errorf("update code: %w", err)
	}

	r.invalidate(name)
	return code, nil
}

func (r *Registry) ValidatePersonalCode(ctx context.Context, code string) (*models.AllowedName, error) {
	if code == "" {
		return nil, ErrNotFound
	}
	var entry models.AllowedName
	if err := r.DB.WithContext(ctx).Where("registration_code = ?", code).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ValidateRegistrationCode checks boss codes against the shared secret and every other
// role against the allowlist.
func (r *Registry) ValidateRegistrationCode(ctx context.Context, role, code string) (bool, error) {
	if role == models.RoleBoss {
		return r.isBossCode(code), nil
	}
	_, err := r.ValidatePersonalCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Resolve classifies code as the boss secret, a personal code, or ErrInvalidCode.
func (r *Registry) Resolve(ctx context.Context, code string) (*Resolution, error) {
	code = strings.TrimSpace(code)
	if r.isBossCode(code) {
		return &Resolution{Mode: ModeBoss}, nil
	}
	entry, err := r.ValidatePersonalCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}
	return &Resolution{Mode: ModePersonal, Entry: entry}, nil
}

func (r *Registry) IsNameAllowed(ctx context.Context, name string) (bool, error) {
	if r.Cache != nil {
		if allowed, ok := r.Cache.Get(name); ok {
			return allowed, nil
		}
	}

	allowed, err := r.entryExists(r.DB.WithContext(ctx), name)
	if err != nil {
		return false, err
	}

	if r.Cache != nil {
		r.Cache.SetWithTTL(name, allowed, 1, cacheTTL)
		r.Cache.Wait()
	}
	return allowed, nil
}

// SessionActive reports whether a token issued to userID may still be used. The account must
// still exist under the same name and role, and worker or manager accounts must still hold
// an allowlist entry.
func (r *Registry) SessionActive(ctx context.Context, userID uuid.UUID, name, role string) (bool, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Select("id", "name", "role").Where("id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if user.Name != name || user.Role != role {
		return false, nil
	}
	if user.BypassesAllowlist() {
		return true, nil
	}
	return r.IsNameAllowed(ctx, user.Name)
}

// RemoveAllowedName deletes the entry and every account registered under the same name.
func (r *Registry) RemoveAllowedName(ctx context.Context, name string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entries := tx.Where("name = ?", name).Delete(&models.AllowedName{})
		if entries.Error != nil {
			return entries.Error
		}
		users := tx.Where("name = ?", name).Delete(&models.User{})
		if users.Error != nil {
			return users.Error
		}
		if entries.RowsAffected == 0 && users.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	r.invalidate(name)
	return err
}

func (r *Registry) List(ctx context.Context) ([]models.AllowedName, error) {
	var entries []models.AllowedName
	if err := r.DB.WithContext(ctx).Order("added_at ASC, name ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Registry) isBossCode(code string) bool {
	if r.BossCode == "" || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(r.BossCode)) == 1
}

func (r *Registry) entryExists(db *gorm.DB, name string) (bool, error) {
	var count int64
	if err := db.Model(&models.AllowedName{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Registry) invalidate(name string) {
	if r.Cache != nil {
		r.Cache.Del(name)
	}
}
