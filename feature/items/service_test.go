package items

import (
	"context"
	"testing"
	"time"

	"shoplist/core/database"
	"shoplist/core/reconcile"
	"shoplist/core/validation"
	"shoplist/feature/catalog"
	"shoplist/feature/lists"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	owner    = reconcile.User{ID: "alice", Email: "alice@example.com"}
	member   = reconcile.User{ID: "bob", Email: "bob@example.com"}
	stranger = reconcile.User{ID: "carol", Email: "carol@example.com"}
)

type fixture struct {
	db      *gorm.DB
	lists   *lists.Service
	service *Service
	listID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	listStore := lists.NewStore(db)
	require.NoError(t, listStore.Migrate())
	store := NewStore(db)
	require.NoError(t, store.Migrate())

	table, err := catalog.DefaultTable()
	require.NoError(t, err)
	matcher, err := catalog.NewMatcher(table, catalog.Config{MemoSize: 16})
	require.NoError(t, err)

	listSvc := lists.NewService(listStore, lists.Config{}, nil, zap.NewNop(), false)
	rec, err := listSvc.Create(context.Background(), owner, lists.CreateRequest{Name: "Weekly", SharedWith: []string{member.Email}})
	require.NoError(t, err)

	return &fixture{
		db:      db,
		lists:   listSvc,
		service: NewService(store, listSvc, matcher, zap.NewNop()),
		listID:  rec.ID,
	}
}

func (f *fixture) add(t *testing.T, user reconcile.User, req AddRequest) *Item {
	t.Helper()
	it, err := f.service.Add(context.Background(), user, f.listID, req)
	require.NoError(t, err)
	return it
}

func TestService_AddDetectsCategory(t *testing.T) {
	f := newFixture(t)

	milk := f.add(t, owner, AddRequest{Name: "  Milk ", Quantity: "2 L"})
	assert.Equal(t, "Milk", milk.Name)
	assert.Equal(t, "2 L", milk.Quantity)
	assert.Equal(t, "dairy_milk_cream", milk.Category)
	assert.Equal(t, owner.ID, milk.CreatedBy)

	typo := f.add(t, member, AddRequest{Name: "bananna"})
	assert.Equal(t, "produce_fruits", typo.Category)

	unknown := f.add(t, owner, AddRequest{Name: "qqqq"})
	assert.Equal(t, catalog.CategoryOther, unknown.Category)

	explicit := f.add(t, owner, AddRequest{Name: "milk", Category: "household"})
	assert.Equal(t, "household", explicit.Category)
}

func TestService_AccessIsCheckedThroughTheList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.add(t, owner, AddRequest{Name: "bread"})

	_, err := f.service.Add(ctx, stranger, f.listID, AddRequest{Name: "eggs"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.List(ctx, stranger, f.listID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.SetPicked(ctx, stranger, it.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.SetPicked(ctx, member, "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.SetPicked(ctx, member, it.ID, true)
	assert.NoError(t, err)
}

func TestService_ListGroupsByCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.add(t, owner, AddRequest{Name: "qqqq"})
	f.add(t, owner, AddRequest{Name: "milk"})
	f.add(t, owner, AddRequest{Name: "pear"})
	f.add(t, owner, AddRequest{Name: "apple"})
	picked := f.add(t, owner, AddRequest{Name: "lemon"})
	deleted := f.add(t, owner, AddRequest{Name: "orange"})

	_, err := f.service.SetPicked(ctx, owner, picked.ID, true)
	require.NoError(t, err)
	_, err = f.service.Delete(ctx, owner, deleted.ID)
	require.NoError(t, err)

	g, err := f.service.List(ctx, member, f.listID)
	require.NoError(t, err)

	var categories []string
	for _, c := range g.Active {
		categories = append(categories, c.Name)
	}
	assert.Equal(t, []string{"produce_fruits", "dairy_milk_cream", catalog.CategoryOther}, categories)
	require.Len(t, g.Active[0].Items, 2)
	assert.Equal(t, "apple", g.Active[0].Items[0].Name)
	assert.Equal(t, "pear", g.Active[0].Items[1].Name)

	require.Len(t, g.Picked, 1)
	assert.Equal(t, picked.ID, g.Picked[0].ID)
	require.Len(t, g.Deleted, 1)
	assert.Equal(t, deleted.ID, g.Deleted[0].ID)
}

func TestService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.add(t, owner, AddRequest{Name: "milk"})

	name := "banana"
	updated, err := f.service.Update(ctx, member, it.ID, UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "banana", updated.Name)
	assert.Equal(t, "produce_fruits", updated.Category)

	category := "snacks"
	notes := "ripe ones"
	updated, err = f.service.Update(ctx, member, it.ID, UpdateRequest{Category: &category, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "snacks", updated.Category)
	assert.Equal(t, "ripe ones", updated.Notes)

	unchanged, err := f.service.Update(ctx, member, it.ID, UpdateRequest{})
	require.NoError(t, err)
	assert.Equal(t, updated.UpdatedAt, unchanged.UpdatedAt)
}

func TestService_BlankNamesAreRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.add(t, owner, AddRequest{Name: "milk"})

	var verr *validation.Error
	_, err := f.service.Add(ctx, owner, f.listID, AddRequest{Name: "   "})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	blank := " \t "
	_, err = f.service.Update(ctx, owner, it.ID, UpdateRequest{Name: &blank})
	require.ErrorAs(t, err, &verr)

	g, err := f.service.List(ctx, owner, f.listID)
	require.NoError(t, err)
	require.Len(t, g.Active, 1)
	require.Len(t, g.Active[0].Items, 1)
	assert.Equal(t, "milk", g.Active[0].Items[0].Name)
}

func TestService_DeleteRestoreAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, owner, AddRequest{Name: "apple"})
	b := f.add(t, owner, AddRequest{Name: "bread"})
	f.add(t, owner, AddRequest{Name: "milk"})

	_, err := f.service.SetPicked(ctx, owner, a.ID, true)
	require.NoError(t, err)
	_, err = f.service.SetPicked(ctx, owner, b.ID, true)
	require.NoError(t, err)

	n, err := f.service.ClearPicked(ctx, member, f.listID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	restored, err := f.service.Restore(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
	assert.False(t, restored.Picked)

	g, err := f.service.List(ctx, owner, f.listID)
	require.NoError(t, err)
	assert.Len(t, g.Deleted, 1)

	n, err = f.service.ClearAll(ctx, owner, f.listID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	g, err = f.service.List(ctx, owner, f.listID)
	require.NoError(t, err)
	assert.Empty(t, g.Active)
	assert.Empty(t, g.Deleted)
}

func TestService_ChangesTouchTheList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.lists.Access(ctx, owner, f.listID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	f.add(t, member, AddRequest{Name: "eggs"})

	after, err := f.lists.Access(ctx, owner, f.listID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestListCleanupRemovesItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, owner, AddRequest{Name: "apple"})

	res, err := f.lists.Cleanup(ctx, owner, reconcile.CleanupOptions{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)

	var count int64
	require.NoError(t, f.db.Model(&Item{}).Count(&count).Error)
	assert.Zero(t, count)
}
