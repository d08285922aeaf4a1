package messaging

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mitmail/internal/model"
	"mitmail/internal/store"
	"mitmail/internal/store/filestore"
)

func newTestService(t *testing.T) *Service {
	st, err := filestore.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return NewService(st, nil, zap.NewNop())
}

func testUser(email, handle string, purpose model.EmailTag) *model.User {
	return &model.User{
		Email:         email,
		AccountType:   model.AccountTypePersonal,
		EmailPurpose:  purpose,
		MitIDUsername: handle,
	}
}

func TestSendStampsSenderData(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	caller := testUser("a@x.com", "H1", model.EmailTagMarketing)
	m, err := svc.Send(ctx, caller, "a@x.com", "b@x.com", "hello")
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "a@x.com", m.SenderEmail)
	assert.Equal(t, "b@x.com", m.ReceiverEmail)
	assert.Equal(t, model.EmailTagMarketing, m.EmailTag)
	assert.Equal(t, "H1", m.MitIDUsername)
	assert.Equal(t, "hello", m.Text)

	// fresh id per message
	m2, err := svc.Send(ctx, caller, "a@x.com", "b@x.com", "hello again")
	require.NoError(t, err)
	assert.NotEqual(t, m.ID, m2.ID)
}

func TestSendAsSomeoneElseForbidden(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	caller := testUser("a@x.com", "H1", model.EmailTagStandard)
	_, err := svc.Send(ctx, caller, "b@x.com", "c@x.com", "spoofed")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Send(ctx, caller, "a@x.com", "", "no receiver")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestListReturnsExactlyRelated(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := testUser("a@x.com", "H1", model.EmailTagStandard)
	other := testUser("c@x.com", "H3", model.EmailTagStandard)

	// three related messages
	_, err := svc.Send(ctx, alice, "a@x.com", "b@x.com", "sent")
	require.NoError(t, err)
	_, err = svc.Send(ctx, other, "c@x.com", "a@x.com", "received")
	require.NoError(t, err)
	_, err = svc.Send(ctx, alice, "a@x.com", "a@x.com", "to self")
	require.NoError(t, err)

	// five unrelated ones
	for i := 0; i < 5; i++ {
		_, err = svc.Send(ctx, other, "c@x.com", "d@x.com", fmt.Sprintf("noise %d", i))
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, m := range got {
		assert.True(t, m.Involves("a@x.com"))
	}
}

func TestListByHandle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := testUser("a@x.com", "H1", model.EmailTagNewsletter)
	bob := testUser("b@x.com", "H2", model.EmailTagStandard)

	_, err := svc.Send(ctx, alice, "a@x.com", "b@x.com", "one")
	require.NoError(t, err)
	_, err = svc.Send(ctx, alice, "a@x.com", "c@x.com", "two")
	require.NoError(t, err)
	_, err = svc.Send(ctx, bob, "b@x.com", "a@x.com", "three")
	require.NoError(t, err)

	got, err := svc.ListByHandle(ctx, "H1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, m := range got {
		assert.Equal(t, "H1", m.MitIDUsername)
		assert.Equal(t, model.EmailTagNewsletter, m.EmailTag)
	}
}

func TestDeleteOwnership(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := testUser("a@x.com", "H1", model.EmailTagStandard)
	m, err := svc.Send(ctx, alice, "a@x.com", "b@x.com", "hello")
	require.NoError(t, err)

	// a stranger may not delete
	err = svc.Delete(ctx, "stranger@x.com", m.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// the receiver may
	require.NoError(t, svc.Delete(ctx, "b@x.com", m.ID))

	// gone for both participants
	got, err := svc.List(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, got)

	// deleting again is NotFound
	err = svc.Delete(ctx, "b@x.com", m.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// unknown id is NotFound even for a stranger
	err = svc.Delete(ctx, "stranger@x.com", "no-such-id")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteBySender(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := testUser("a@x.com", "H1", model.EmailTagStandard)
	m, err := svc.Send(ctx, alice, "a@x.com", "b@x.com", "hello")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "a@x.com", m.ID))

	got, err := svc.List(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Empty(t, got)
}
