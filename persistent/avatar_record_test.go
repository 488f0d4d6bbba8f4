package persistent

import (
	"context"
	"testing"

	"github.com/buzkaaclicker/avatars"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/buntdb"
)

func testAvatarRecordStore(t *testing.T, store avatars.AvatarRecordStore) {
	assert := assert.New(t)
	ctx := context.Background()

	_, err := store.Any(ctx)
	assert.Equal(avatars.ErrRecordNotFound, err)
	_, err = store.ByUserId(ctx, "1")
	assert.Equal(avatars.ErrRecordNotFound, err)

	if !assert.NoError(store.Insert(ctx, "1")) || !assert.NoError(store.Insert(ctx, "2")) {
		return
	}
	assert.Equal(avatars.KindStore, avatars.KindOf(store.Insert(ctx, "2")), "duplicated user id")

	record, err := store.Any(ctx)
	if assert.NoError(err) {
		assert.Equal(avatars.UserId("1"), record.UserId)
	}
	record, err = store.ByUserId(ctx, "2")
	if assert.NoError(err) {
		assert.Equal(avatars.UserId("2"), record.UserId)
	}

	assert.NoError(store.DeleteByUserId(ctx, "1"))
	assert.NoError(store.DeleteByUserId(ctx, "1"))
	_, err = store.ByUserId(ctx, "1")
	assert.Equal(avatars.ErrRecordNotFound, err)

	record, err = store.Any(ctx)
	if assert.NoError(err) {
		assert.Equal(avatars.UserId("2"), record.UserId)
	}
}

func TestPgAvatarRecordStore(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
		return
	}
	ctx := context.Background()

	db := PgOpenTest(ctx)
	defer db.Close()

	_, err := db.NewTruncateTable().Model((*AvatarRecord)(nil)).Exec(ctx)
	if !assert.NoError(t, err) {
		return
	}
	testAvatarRecordStore(t, &AvatarRecordStore{DB: db})
}

func TestBuntAvatarRecordStore(t *testing.T) {
	bdb, err := buntdb.Open(":memory:")
	if err != nil {
		panic(err)
	}
	defer bdb.Close()

	store := &BuntAvatarRecordStore{Buntdb: bdb}
	if !assert.NoError(t, store.CreateIndexes()) {
		return
	}
	assert.NoError(t, store.CreateIndexes(), "indexes are created once")
	testAvatarRecordStore(t, store)
}
