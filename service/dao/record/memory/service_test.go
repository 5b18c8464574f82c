package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ln-history/lnhistory/model"
	"github.com/ln-history/lnhistory/service/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(id string, msgType model.MessageType, scid *model.ShortChannelID) *model.Record {
	return &model.Record{
		ID:         id,
		MsgType:    msgType,
		SCID:       scid,
		Raw:        []byte{0x01, 0x02},
		ReceivedAt: time.Now().UTC(),
	}
}

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := New()

	record := newRecord("a1", model.MsgNodeAnnouncement, nil)
	require.Nil(t, svc.Save(ctx, record))

	loaded, err := svc.Load(ctx, "a1")
	require.Nil(t, err)
	assert.Equal(t, record, loaded)

	// Stored value is a copy, later caller mutations stay invisible.
	record.MsgType = model.MsgChannelUpdate
	loaded, err = svc.Load(ctx, "a1")
	require.Nil(t, err)
	assert.Equal(t, model.MsgNodeAnnouncement, loaded.MsgType)

	assert.Nil(t, svc.Delete(ctx, "a1"))
	_, err = svc.Load(ctx, "a1")
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "a1"), dao.ErrNotFound)
}

func TestService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := New()

	assert.ErrorIs(t, svc.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, svc.Save(ctx, &model.Record{}), dao.ErrInvalidID)

	_, err := svc.Load(ctx, "")
	assert.ErrorIs(t, err, dao.ErrInvalidID)
	assert.ErrorIs(t, svc.Delete(ctx, ""), dao.ErrInvalidID)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc := New()

	scid := model.NewShortChannelID(100, 1, 0)
	require.Nil(t, svc.Save(ctx, newRecord("c", model.MsgChannelUpdate, &scid)))
	require.Nil(t, svc.Save(ctx, newRecord("a", model.MsgNodeAnnouncement, nil)))
	require.Nil(t, svc.Save(ctx, newRecord("b", model.MsgChannelAnnouncement, &scid)))

	records, err := svc.List(ctx)
	require.Nil(t, err)
	assert.Equal(t, 3, len(records))
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, "c", records[2].ID)

	records, err = svc.List(ctx, dao.NewParameter("MsgType", "channel_update"))
	require.Nil(t, err)
	assert.Equal(t, 1, len(records))
	assert.Equal(t, "c", records[0].ID)

	records, err = svc.List(ctx, dao.NewParameter("MsgType", "channel_update", "channel_announcement"))
	require.Nil(t, err)
	assert.Equal(t, 2, len(records))

	records, err = svc.List(ctx, dao.NewParameter("SCID", scid.String()))
	require.Nil(t, err)
	assert.Equal(t, 2, len(records))

	records, err = svc.List(ctx, dao.NewParameter("SCID", "999x9x9"))
	require.Nil(t, err)
	assert.Equal(t, 0, len(records))
}
