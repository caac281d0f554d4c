package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/model"
	"github.com/khanghh/unionhub/params"
	"github.com/spf13/cast"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	KeyMembershipPrefix   = "membership.number_prefix"
	KeyDuesDefaultAmount  = "dues.default_amount_cents"
	KeyDuesGraceDays      = "dues.grace_days"
	ActionSettingsUpdated = "settings_updated"
)

type normalizer func(value interface{}) (interface{}, error)

func normalizeString(value interface{}) (interface{}, error) {
	s, err := cast.ToStringE(value)
	if err != nil {
		return nil, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidValue
	}
	return s, nil
}

func normalizeNonNegativeInt(value interface{}) (interface{}, error) {
	n, err := cast.ToInt64E(value)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, ErrInvalidValue
	}
	return n, nil
}

var knownSettings = map[string]struct {
	defaultValue interface{}
	normalize    normalizer
}{
	KeyMembershipPrefix:  {params.DefaultMembershipPrefix, normalizeString},
	KeyDuesDefaultAmount: {int64(params.DefaultDuesAmountCents), normalizeNonNegativeInt},
	KeyDuesGraceDays:     {int64(0), normalizeNonNegativeInt},
}

// SettingService stores console settings. Keys missing from the table resolve to
// their defaults.
type SettingService struct {
	tx        database.Transactor
	repo      Repository
	auditRepo audit.Repository
	defaults  map[string]interface{}
}

// SetDefault overrides the built-in default of a known key.
func (s *SettingService) SetDefault(key string, value interface{}) error {
	def, ok := knownSettings[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	normalized, err := def.normalize(value)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidValue, key)
	}
	s.defaults[key] = normalized
	return nil
}

func (s *SettingService) GetAll(ctx context.Context) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(s.defaults))
	for key, value := range s.defaults {
		values[key] = value
	}
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		var value interface{}
		if err := json.Unmarshal(item.Value, &value); err != nil {
			slog.Warn("Invalid setting value", "key", item.Key, "error", err)
			continue
		}
		values[item.Key] = value
	}
	return values, nil
}

func (s *SettingService) get(ctx context.Context, key string) interface{} {
	values, err := s.GetAll(ctx)
	if err != nil {
		slog.Error("Failed to load settings", "error", err)
		return s.defaults[key]
	}
	return values[key]
}

func (s *SettingService) MembershipPrefix(ctx context.Context) string {
	prefix := cast.ToString(s.get(ctx, KeyMembershipPrefix))
	if prefix == "" {
		return params.DefaultMembershipPrefix
	}
	return prefix
}

func (s *SettingService) DuesDefaultAmountCents(ctx context.Context) int64 {
	return cast.ToInt64(s.get(ctx, KeyDuesDefaultAmount))
}

func (s *SettingService) DuesGraceDays(ctx context.Context) int {
	return cast.ToInt(s.get(ctx, KeyDuesGraceDays))
}

// Update validates and upserts all given keys in one transaction.
func (s *SettingService) Update(ctx context.Context, adminID uint, updates map[string]interface{}) (map[string]interface{}, error) {
	if len(updates) == 0 {
		return nil, ErrEmptyUpdate
	}
	keys := make([]string, 0, len(updates))
	rows := make([]*model.Setting, 0, len(updates))
	for key, raw := range updates {
		def, ok := knownSettings[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
		}
		value, err := def.normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidValue, key)
		}
		blob, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		rows = append(rows, &model.Setting{Key: key, Value: datatypes.JSON(blob), UpdatedBy: &adminID})
	}
	sort.Strings(keys)

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, row := range rows {
			if err := repo.Upsert(ctx, row); err != nil {
				return err
			}
		}
		entry := audit.NewEntry(ActionSettingsUpdated, audit.Admin(adminID), "setting", 0, map[string]interface{}{"keys": keys})
		return s.auditRepo.WithTx(tx).Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return s.GetAll(ctx)
}

func NewSettingService(tx database.Transactor, repo Repository, auditRepo audit.Repository) *SettingService {
	defaults := make(map[string]interface{}, len(knownSettings))
	for key, def := range knownSettings {
		defaults[key] = def.defaultValue
	}
	return &SettingService{tx: tx, repo: repo, auditRepo: auditRepo, defaults: defaults}
}
