package repository

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"smspanel/internal/domain"
	"smspanel/internal/model"
)

var (
	tenantA = Scope{TenantID: 1, UserID: 10}
	tenantB = Scope{TenantID: 2, UserID: 20}
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Contact{}, &model.ContactGroup{}, &model.Group{},
		&model.Blacklist{}, &model.SmsTitle{}, &model.SmsMessage{},
	))
	return db
}

func TestCreateStampsScopeTenant(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Blacklist](db, "created_at DESC")

	// A tenant ID smuggled in on the record must be overwritten.
	rec := &model.Blacklist{Phone: "5551112233"}
	rec.TenantID = tenantB.TenantID
	rec.IsActive = false

	require.NoError(t, repo.Create(tenantA, rec))

	var stored model.Blacklist
	require.NoError(t, db.First(&stored, rec.ID).Error)
	assert.Equal(t, tenantA.TenantID, stored.TenantID)
	assert.True(t, stored.IsActive)
}

func TestListIsTenantScopedAndOrdered(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Blacklist](db, "created_at DESC")

	old := &model.Blacklist{Phone: "111"}
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	newer := &model.Blacklist{Phone: "222"}
	newer.CreatedAt = time.Now().Add(-1 * time.Hour)
	other := &model.Blacklist{Phone: "333"}

	require.NoError(t, repo.Create(tenantA, old))
	require.NoError(t, repo.Create(tenantA, newer))
	require.NoError(t, repo.Create(tenantB, other))

	list, err := repo.List(tenantA)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "222", list[0].Phone, "newest first")
	assert.Equal(t, "111", list[1].Phone)

	listB, err := repo.List(tenantB)
	require.NoError(t, err)
	require.Len(t, listB, 1)
	assert.Equal(t, "333", listB[0].Phone)
}

func TestListExcludesInactive(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Blacklist](db, "created_at DESC")

	rec := &model.Blacklist{Phone: "111"}
	require.NoError(t, repo.Create(tenantA, rec))
	_, err := repo.SoftDelete(tenantA, rec.ID)
	require.NoError(t, err)

	list, err := repo.List(tenantA)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSoftDeleteCrossTenantIsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Contact](db, "created_at DESC")

	rec := &model.Contact{FirstName: "Ali", Phone: "5550001122"}
	require.NoError(t, repo.Create(tenantA, rec))

	// Tenant B must see tenant A's record as absent, not as forbidden.
	_, err := repo.SoftDelete(tenantB, rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.SoftDelete(tenantB, 99999)
	assert.ErrorIs(t, err, domain.ErrNotFound, "absent and cross-tenant are indistinguishable")

	var stored model.Contact
	require.NoError(t, db.First(&stored, rec.ID).Error)
	assert.True(t, stored.IsActive, "cross-tenant delete must not touch the record")
}

func TestSoftDeleteIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Contact](db, "created_at DESC")

	rec := &model.Contact{FirstName: "Ali", Phone: "5550001122"}
	require.NoError(t, repo.Create(tenantA, rec))

	first, err := repo.SoftDelete(tenantA, rec.ID)
	require.NoError(t, err)
	assert.False(t, first.IsActive)

	second, err := repo.SoftDelete(tenantA, rec.ID)
	require.NoError(t, err, "repeated delete is a safe no-op")
	assert.False(t, second.IsActive)
}

func TestUpdateChecksOwnershipAndProtectsTenant(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Group](db, "name ASC")

	rec := &model.Group{Name: "VIP"}
	require.NoError(t, repo.Create(tenantA, rec))

	_, err := repo.Update(tenantB, rec.ID, map[string]interface{}{"name": "stolen"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := repo.Update(tenantA, rec.ID, map[string]interface{}{
		"name":      "VIP 2",
		"tenant_id": tenantB.TenantID,
	})
	require.NoError(t, err)
	assert.Equal(t, "VIP 2", updated.Name)
	assert.Equal(t, tenantA.TenantID, updated.TenantID, "tenant_id is not updatable")
}

func TestBulkCreateAll(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Blacklist](db, "created_at DESC")

	recs := []*model.Blacklist{
		{Phone: "111"},
		{Phone: "222"},
		{Phone: "333"},
	}
	require.NoError(t, repo.BulkCreate(tenantA, recs))

	var count int64
	require.NoError(t, db.Model(&model.Blacklist{}).Where("tenant_id = ?", tenantA.TenantID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestContactImportIsAtomic(t *testing.T) {
	db := newTestDB(t)
	contacts := NewContacts(db)

	items := []ContactImportItem{
		{FirstName: "Ali", Phone: "5550000001"},
		{FirstName: "Veli", Phone: "5550000002"},
		{FirstName: "Invalid"}, // missing phone
	}

	_, err := contacts.Import(tenantA, items)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	var count int64
	require.NoError(t, db.Model(&model.Contact{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "one invalid item must leave zero persisted records")
}

func TestContactImportRejectsForeignGroup(t *testing.T) {
	db := newTestDB(t)
	contacts := NewContacts(db)
	groups := NewGroups(db)

	foreign := &model.Group{Name: "B grubu"}
	require.NoError(t, groups.Create(tenantB, foreign))

	_, err := contacts.Import(tenantA, []ContactImportItem{
		{FirstName: "Ali", Phone: "5550000001", GroupID: foreign.ID},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Contact{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestContactImportLinksGroups(t *testing.T) {
	db := newTestDB(t)
	contacts := NewContacts(db)
	groups := NewGroups(db)

	group := &model.Group{Name: "Satış"}
	require.NoError(t, groups.Create(tenantA, group))

	created, err := contacts.Import(tenantA, []ContactImportItem{
		{FirstName: "Ali", Phone: "5550000001", GroupID: group.ID},
		{FirstName: "Veli", Phone: "5550000002"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	var links int64
	require.NoError(t, db.Model(&model.ContactGroup{}).Where("group_id = ?", group.ID).Count(&links).Error)
	assert.EqualValues(t, 1, links)

	listed, err := groups.ListWithCounts(tenantA)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.EqualValues(t, 1, listed[0].ContactCount)
}

func TestListWhere(t *testing.T) {
	db := newTestDB(t)
	repo := New[model.Blacklist](db, "created_at DESC")

	require.NoError(t, repo.BulkCreate(tenantA, []*model.Blacklist{
		{Phone: "111"}, {Phone: "222"},
	}))
	require.NoError(t, repo.Create(tenantB, &model.Blacklist{Phone: "111"}))

	hits, err := repo.ListWhere(tenantA, "phone IN ?", []string{"111", "999"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "111", hits[0].Phone)
	assert.Equal(t, tenantA.TenantID, hits[0].TenantID)
}
