package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/kvstore"
	kvredis "github.com/utafrali/storefront/internal/kvstore/redis"
	"github.com/utafrali/storefront/pkg/logger"
)

func TestAddToCart_TwiceIncrementsQuantity(t *testing.T) {
	env := newTestEnv("42")
	sf := env.storefront(t)
	ctx := context.Background()

	assert.True(t, sf.Cart.AddToCart(ctx, product("1", 10)))
	assert.True(t, sf.Cart.AddToCart(ctx, product("1", 10)))

	items := sf.Cart.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, sf.Cart.TotalItems(ctx))
}

func TestAddToCart_KeepsInsertionOrder(t *testing.T) {
	env := newTestEnv("42")
	sf := env.storefront(t)
	ctx := context.Background()

	sf.Cart.AddToCart(ctx, product("3", 1))
	sf.Cart.AddToCart(ctx, product("1", 1))
	sf.Cart.AddToCart(ctx, product("3", 1))

	items := sf.Cart.Items(ctx)
	require.Len(t, items, 2)
	assert.Equal(t, domain.ProductID("3"), items[0].Product.ID)
	assert.Equal(t, domain.ProductID("1"), items[1].Product.ID)
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	for _, qty := range []int{0, -5} {
		env := newTestEnv("42")
		sf := env.storefront(t)
		ctx := context.Background()

		sf.Cart.AddToCart(ctx, product("1", 10))
		sf.Cart.AddToCart(ctx, product("2", 10))
		sf.Cart.UpdateQuantity(ctx, "1", qty)

		items := sf.Cart.Items(ctx)
		require.Len(t, items, 1, "quantity %d", qty)
		assert.Equal(t, domain.ProductID("2"), items[0].Product.ID)
	}
}

func TestUpdateQuantity_SetsQuantity(t *testing.T) {
	env := newTestEnv("42")
	sf := env.storefront(t)
	ctx := context.Background()

	sf.Cart.AddToCart(ctx, product("1", 10))
	sf.Cart.UpdateQuantity(ctx, "1", 5)
	assert.Equal(t, 5, sf.Cart.TotalItems(ctx))
	assert.Equal(t, "50.00", sf.Cart.TotalCost(ctx))
}

func TestUpdateQuantity_UnknownProductIsNoop(t *testing.T) {
	env := newTestEnv("42")
	sf := env.storefront(t)
	ctx := context.Background()

	sf.Cart.AddToCart(ctx, product("1", 10))
	sf.Cart.UpdateQuantity(ctx, "9", 3)

	items := sf.Cart.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	env := newTestEnv("42")
	sf := env.storefront(t)
	ctx := context.Background()

	sf.Cart.AddToCart(ctx, product("1", 10))
	sf.Cart.RemoveFromCart(ctx, "9")
	assert.Len(t, sf.Cart.Items(ctx), 1)

	sf.Cart.RemoveFromCart(ctx, "1")
	assert.Empty(t, sf.Cart.Items(ctx))
	assert.JSONEq(t, `[]`, env.raw(t, "cart_42"))
}

func TestTotalCost_RoundsToTwoDecimals(t *testing.T) {
	env := newTestEnv("42")
	sf := env.storefront(t)
	ctx := context.Background()

	sf.Cart.AddToCart(ctx, product("1", 12.49))
	sf.Cart.AddToCart(ctx, product("1", 12.49))

	assert.Equal(t, "24.98", sf.Cart.TotalCost(ctx))
	view := sf.Cart.View(ctx)
	assert.Equal(t, "24.98", view.TotalCost)
	assert.Equal(t, 2, view.TotalItems)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv("42")
	sf := env.storefront(t)
	ctx := context.Background()

	sf.Cart.AddToCart(ctx, product("1", 1))
	sf.Cart.ClearCart(ctx)

	assert.Empty(t, sf.Cart.Items(ctx))
	assert.Equal(t, "0.00", sf.Cart.TotalCost(ctx))
	assert.JSONEq(t, `[]`, env.raw(t, "cart_42"))
}

func TestCart_PersistsUnderUserKey(t *testing.T) {
	env := newTestEnv("42")
	sf := env.storefront(t)
	ctx := context.Background()

	sf.Cart.AddToCart(ctx, product("1", 9.5))

	assert.JSONEq(t,
		`[{"product":{"id":"1","name":"Product 1","price":9.5,"imageUrl":"https://img.example/1.jpg"},"quantity":1}]`,
		env.raw(t, "cart_42"),
	)

	reloaded := env.storefront(t)
	assert.Equal(t, sf.Cart.Items(ctx), reloaded.Cart.Items(ctx))
	assert.Equal(t, "42", reloaded.Cart.UserID(ctx))
}

func TestCart_NoSessionIsNoop(t *testing.T) {
	env := newTestEnv("")
	sf := env.storefront(t)
	ctx := context.Background()

	assert.False(t, sf.Cart.AddToCart(ctx, product("1", 1)))
	sf.Cart.UpdateQuantity(ctx, "1", 3)
	sf.Cart.ClearCart(ctx)

	assert.Empty(t, sf.Cart.Items(ctx))
	assert.Empty(t, sf.Cart.UserID(ctx))
	_, err := env.kv.Get(ctx, kvstore.CartKey(""))
	assert.Error(t, err)
}

func TestCart_NotVisibleToOtherUser(t *testing.T) {
	env := newTestEnv("42")
	sf := env.storefront(t)
	ctx := context.Background()

	sf.Cart.AddToCart(ctx, product("1", 1))

	env.session.signIn("7")
	sf.Cart.LoadCart(ctx)
	assert.Empty(t, sf.Cart.Items(ctx))
	assert.Equal(t, "7", sf.Cart.UserID(ctx))

	env.session.signIn("42")
	sf.Cart.LoadCart(ctx)
	require.Len(t, sf.Cart.Items(ctx), 1)
}

func TestCart_UserSwitchNeverWritesAcrossUsers(t *testing.T) {
	env := newTestEnv("42")
	sf := env.storefront(t)
	ctx := context.Background()

	sf.Cart.AddToCart(ctx, product("1", 1))
	before := env.raw(t, "cart_42")

	env.session.signIn("7")
	sf.Cart.AddToCart(ctx, product("2", 1))

	assert.Equal(t, before, env.raw(t, "cart_42"))
	items := sf.Cart.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, domain.ProductID("2"), items[0].Product.ID)
	assert.Contains(t, env.raw(t, "cart_7"), `"id":"2"`)
}

func TestCart_LogoutEmptiesView(t *testing.T) {
	env := newTestEnv("42")
	sf := env.storefront(t)
	ctx := context.Background()

	sf.Cart.AddToCart(ctx, product("1", 1))
	env.session.signIn("")

	view := sf.Cart.View(ctx)
	assert.Empty(t, view.Lines)
	assert.Empty(t, view.UserID)
	assert.NotEmpty(t, env.raw(t, "cart_42"))
}

func TestLoadCart_MalformedStorageIsEmpty(t *testing.T) {
	env := newTestEnv("42")
	ctx := context.Background()
	require.NoError(t, env.kv.Set(ctx, "cart_42", `{not json`, 0))

	sf := env.storefront(t)
	assert.Empty(t, sf.Cart.Items(ctx))

	sf.Cart.AddToCart(ctx, product("1", 1))
	assert.Len(t, sf.Cart.Items(ctx), 1)
}

func TestLoadCart_DropsInvalidLines(t *testing.T) {
	env := newTestEnv("42")
	ctx := context.Background()
	require.NoError(t, env.kv.Set(ctx, "cart_42", `[
		{"product":{"id":1,"name":"a","price":1},"quantity":2},
		{"product":{"id":2,"name":"b","price":1},"quantity":0},
		{"product":{"id":1,"name":"dup","price":1},"quantity":1}
	]`, 0))

	sf := env.storefront(t)
	items := sf.Cart.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "a", items[0].Product.Name)
}

func TestCart_RedisBackendAppliesTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	kv := kvredis.NewStore(client, "")
	session := &fakeSession{userID: "42"}
	sf := New(context.Background(), kv, session, new(mockCatalog), logger.Discard(), Options{CartTTL: 24 * time.Hour})

	sf.Cart.AddToCart(context.Background(), product("1", 3))

	assert.True(t, mr.Exists("storefront:cart_42"))
	assert.Equal(t, 24*time.Hour, mr.TTL("storefront:cart_42"))

	restarted := New(context.Background(), kv, session, new(mockCatalog), logger.Discard(), Options{})
	assert.Equal(t, 1, restarted.Cart.TotalItems(context.Background()))
}

func TestCart_StorageFailureKeepsMemoryState(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	sf := New(context.Background(), kvredis.NewStore(client, ""), &fakeSession{userID: "42"}, new(mockCatalog), logger.Discard(), Options{})
	mr.Close()

	assert.True(t, sf.Cart.AddToCart(context.Background(), product("1", 3)))
	assert.Equal(t, 1, sf.Cart.TotalItems(context.Background()))
}

func TestCart_ReadsFollowSessionUser(t *testing.T) {
	env := newTestEnv("42")
	sf := env.storefront(t)
	ctx := context.Background()

	sf.Cart.AddToCart(ctx, product("1", 4))
	env.session.signIn("7")

	assert.Zero(t, sf.Cart.TotalItems(ctx))
	assert.Equal(t, "0.00", sf.Cart.TotalCost(ctx))
	assert.Empty(t, sf.Cart.Items(ctx))
	assert.Equal(t, "7", sf.Cart.UserID(ctx))

	snap := sf.Snapshot(ctx)
	assert.Equal(t, "7", snap.Cart.UserID)
	assert.Empty(t, snap.Cart.Lines)

	env.session.signIn("")
	assert.Empty(t, sf.Snapshot(ctx).Cart.Lines)
	assert.Empty(t, sf.Cart.UserID(ctx))

	env.session.signIn("42")
	assert.Equal(t, 1, sf.Cart.TotalItems(ctx))
	assert.Equal(t, "4.00", sf.Snapshot(ctx).Cart.TotalCost)
}
