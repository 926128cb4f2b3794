package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/edvin/mongoadmin/internal/authz"
)

func TestDatabaseService_ListVisible(t *testing.T) {
	store := &mockStore{}
	svc := NewDatabaseService(store, authz.New("local"))
	ctx := context.Background()

	all := []string{"ns_bob_example_com__b", "local", "ns_ann_example_com__x", "shop", "ns_ann_example_com__a"}
	store.On("ListDatabaseNames", ctx).Return(all, nil)

	got, err := svc.ListVisible(ctx, regularUser("ann@example.com"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ns_ann_example_com__a", "ns_ann_example_com__x"}, got)

	got, err = svc.ListVisible(ctx, adminUser())
	require.NoError(t, err)
	assert.Equal(t, []string{"ns_ann_example_com__a", "ns_ann_example_com__x", "ns_bob_example_com__b", "shop"}, got)
}

func TestDatabaseService_ListVisible_Empty(t *testing.T) {
	store := &mockStore{}
	svc := NewDatabaseService(store, authz.New())
	ctx := context.Background()

	store.On("ListDatabaseNames", ctx).Return([]string{"shop"}, nil)

	got, err := svc.ListVisible(ctx, regularUser("ann@example.com"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDatabaseService_Create_QualifiesName(t *testing.T) {
	store := &mockStore{}
	svc := NewDatabaseService(store, authz.New())
	ctx := context.Background()

	store.On("ListCollectionNames", ctx, "ns_ann_example_com__shop").Return([]string{}, nil)
	store.On("InsertOne", ctx, "ns_ann_example_com__shop", InitCollection, bson.M{"initialized": true}).Return("id1", nil)

	name, err := svc.Create(ctx, regularUser("ann@example.com"), " shop ")
	require.NoError(t, err)
	assert.Equal(t, "ns_ann_example_com__shop", name)
	store.AssertExpectations(t)
}

func TestDatabaseService_Create_AlreadyQualified(t *testing.T) {
	store := &mockStore{}
	svc := NewDatabaseService(store, authz.New())
	ctx := context.Background()

	store.On("ListCollectionNames", ctx, "ns_admin__logs").Return(nil, nil)
	store.On("InsertOne", ctx, "ns_admin__logs", InitCollection, mock.Anything).Return("id1", nil)

	name, err := svc.Create(ctx, adminUser(), "ns_admin__logs")
	require.NoError(t, err)
	assert.Equal(t, "ns_admin__logs", name)
}

func TestDatabaseService_Create_Invalid(t *testing.T) {
	svc := NewDatabaseService(&mockStore{}, authz.New())
	u := regularUser("ann@example.com")

	for _, name := range []string{"", "admin", "_hidden", "bad name", "a.b"} {
		_, err := svc.Create(context.Background(), u, name)
		assert.Equal(t, KindInvalidInput, KindOf(err), name)
	}
}

func TestDatabaseService_Create_QualifiedTooLong(t *testing.T) {
	svc := NewDatabaseService(&mockStore{}, authz.New())
	u := regularUser("a.very.long.address.for.testing@example.com")

	_, err := svc.Create(context.Background(), u, "abcdefghijklmnopqrstuvwxyz")
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestDatabaseService_Create_ExistingIsOK(t *testing.T) {
	store := &mockStore{}
	svc := NewDatabaseService(store, authz.New())
	ctx := context.Background()

	store.On("ListCollectionNames", ctx, "ns_ann_example_com__shop").Return([]string{"orders", InitCollection}, nil)

	name, err := svc.Create(ctx, regularUser("ann@example.com"), "shop")
	require.NoError(t, err)
	assert.Equal(t, "ns_ann_example_com__shop", name)
	store.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDatabaseService_Create_ExistingWithoutMarker(t *testing.T) {
	store := &mockStore{}
	svc := NewDatabaseService(store, authz.New())
	ctx := context.Background()

	store.On("ListCollectionNames", ctx, "ns_ann_example_com__shop").Return([]string{"orders"}, nil)
	store.On("InsertOne", ctx, "ns_ann_example_com__shop", InitCollection, bson.M{"initialized": true}).Return("id1", nil)

	_, err := svc.Create(ctx, regularUser("ann@example.com"), "shop")
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestDatabaseService_Drop(t *testing.T) {
	store := &mockStore{}
	svc := NewDatabaseService(store, authz.New())
	ctx := context.Background()

	store.On("ListDatabaseNames", ctx).Return([]string{"ns_ann_example_com__shop"}, nil)
	store.On("DropDatabase", ctx, "ns_ann_example_com__shop").Return(nil)

	require.NoError(t, svc.Drop(ctx, regularUser("ann@example.com"), "ns_ann_example_com__shop"))
	store.AssertExpectations(t)
}

func TestDatabaseService_Drop_OutsideNamespace(t *testing.T) {
	store := &mockStore{}
	svc := NewDatabaseService(store, authz.New())

	err := svc.Drop(context.Background(), regularUser("ann@example.com"), "ns_bob_example_com__shop")
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindForbidden, e.Kind)
	assert.Equal(t, "you don't have access to this database", e.Message)
	store.AssertNotCalled(t, "ListDatabaseNames", mock.Anything)
}

func TestDatabaseService_Drop_Missing(t *testing.T) {
	store := &mockStore{}
	svc := NewDatabaseService(store, authz.New())
	ctx := context.Background()

	store.On("ListDatabaseNames", ctx).Return([]string{}, nil)

	err := svc.Drop(ctx, adminUser(), "shop")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDatabaseService_StoreFailure(t *testing.T) {
	store := &mockStore{}
	svc := NewDatabaseService(store, authz.New())
	ctx := context.Background()

	store.On("ListDatabaseNames", ctx).Return(nil, StoreFailure(errors.New("no reachable servers"), true))

	_, err := svc.ListVisible(ctx, adminUser())
	assert.Equal(t, KindStore, KindOf(err))
	assert.Contains(t, err.Error(), "list databases")
}
