package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func uintPtr(v uint) *uint { return &v }

func TestClassifyActor(t *testing.T) {
	tests := []struct {
		name string
		log  model.AuditLog
		want ActorType
	}{
		{"admin fk", model.AuditLog{ActorAdminID: uintPtr(1)}, ActorAdmin},
		{"user fk", model.AuditLog{ActorUserID: uintPtr(7)}, ActorProponent},
		{"both fks prefer admin", model.AuditLog{ActorAdminID: uintPtr(1), ActorUserID: uintPtr(7)}, ActorAdmin},
		{"no fk", model.AuditLog{}, ActorSystem},
		{"ai hint", model.AuditLog{Metadata: datatypes.JSON(`{"actorType":"AI"}`)}, ActorAI},
		{"ai hint lowercase wins over admin", model.AuditLog{ActorAdminID: uintPtr(1), Metadata: datatypes.JSON(`{"actorType":"ai"}`)}, ActorAI},
		{"system hint wins over user", model.AuditLog{ActorUserID: uintPtr(2), Metadata: datatypes.JSON(`{"actorType":"system"}`)}, ActorSystem},
		{"unknown hint ignored", model.AuditLog{ActorUserID: uintPtr(2), Metadata: datatypes.JSON(`{"actorType":"robot"}`)}, ActorProponent},
		{"broken metadata", model.AuditLog{ActorAdminID: uintPtr(3), Metadata: datatypes.JSON(`{`)}, ActorAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyActor(&tt.log))
		})
	}
}

func TestNewEntry(t *testing.T) {
	log := NewEntry("registration_rejected", Admin(4), "user", 12, map[string]interface{}{"reason": "incomplete proof"}, WithIP("10.0.0.1"))
	require.NotNil(t, log.ActorAdminID)
	assert.Equal(t, uint(4), *log.ActorAdminID)
	assert.Nil(t, log.ActorUserID)
	require.NotNil(t, log.EntityID)
	assert.Equal(t, uint(12), *log.EntityID)
	assert.Equal(t, "10.0.0.1", log.IPAddress)

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(log.Metadata, &meta))
	assert.Equal(t, "incomplete proof", meta["reason"])
	assert.NotContains(t, meta, "actorType")

	sys := NewEntry("dues_generated", System(), "dues_ledger", 0, nil)
	assert.Nil(t, sys.EntityID)
	assert.Equal(t, ActorSystem, ClassifyActor(sys))
	assert.JSONEq(t, `{"actorType":"system"}`, string(sys.Metadata))

	empty := NewEntry("member_login_success", User(2), "user", 2, nil)
	assert.Empty(t, empty.Metadata)
}

func TestParseActorType(t *testing.T) {
	got, err := ParseActorType("ai")
	require.NoError(t, err)
	assert.Equal(t, ActorAI, got)
	got, err = ParseActorType("Proponent")
	require.NoError(t, err)
	assert.Equal(t, ActorProponent, got)
	_, err = ParseActorType("robot")
	assert.ErrorIs(t, err, ErrInvalidActorType)
}

type fakeRepository struct {
	logs []*model.AuditLog
}

func (r *fakeRepository) WithTx(tx *gorm.DB) Repository { return r }

func (r *fakeRepository) Create(ctx context.Context, log *model.AuditLog) error {
	log.ID = uint(len(r.logs) + 1)
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeRepository) First(ctx context.Context, id uint) (*model.AuditLog, error) {
	for _, log := range r.logs {
		if log.ID == id {
			return log, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepository) Find(ctx context.Context, filter Filter, page common.PageRequest) ([]*model.AuditLog, int64, error) {
	return r.logs, int64(len(r.logs)), nil
}

func (r *fakeRepository) CountByAction(ctx context.Context, filter Filter) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, log := range r.logs {
		counts[log.Action]++
	}
	return counts, nil
}

func (r *fakeRepository) CountByActorType(ctx context.Context, filter Filter) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, log := range r.logs {
		counts[string(ClassifyActor(log))]++
	}
	return counts, nil
}

func TestAuditServiceList(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{}
	svc := NewAuditService(repo)

	require.NoError(t, svc.Record(ctx, NewEntry("admin_login_success", Admin(1), "admin", 1, nil)))
	require.NoError(t, svc.Record(ctx, NewEntry("member_registered", User(5), "user", 5, nil)))
	require.NoError(t, svc.Record(ctx, NewEntry("member_registered", User(6), "user", 6, nil)))

	result, err := svc.List(ctx, Filter{}, common.NewPageRequest(1, 20))
	require.NoError(t, err)
	assert.Len(t, result.Items, 3)
	assert.Equal(t, int64(3), result.Meta.Total)
	assert.Equal(t, int64(2), result.Summary.ByAction["member_registered"])
	assert.Equal(t, int64(1), result.Summary.ByActorType["admin"])
	assert.Equal(t, int64(2), result.Summary.ByActorType["proponent"])
	assert.Equal(t, int64(0), result.Summary.ByActorType["AI"])
	assert.Equal(t, int64(0), result.Summary.ByActorType["system"])
	assert.Equal(t, ActorProponent, result.Items[1].ActorType)

	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
	entry, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, ActorAdmin, entry.ActorType)
}
