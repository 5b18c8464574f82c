package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ln-history/lnhistory/model"
	"github.com/ln-history/lnhistory/service/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	svc, err := New(t.TempDir())
	require.Nil(t, err)

	scid := model.NewShortChannelID(700000, 1, 0)
	record := &model.Record{
		ID:         model.Digest([]byte{0x01, 0x02, 0x03}),
		MsgType:    model.MsgChannelUpdate,
		SCID:       &scid,
		Timestamp:  1700000000,
		Raw:        []byte{0x01, 0x02, 0x03},
		ReceivedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.Nil(t, svc.Save(ctx, record))

	loaded, err := svc.Load(ctx, record.ID)
	require.Nil(t, err)
	assert.Equal(t, record.ID, loaded.ID)
	assert.Equal(t, record.MsgType, loaded.MsgType)
	assert.Equal(t, record.Raw, loaded.Raw)
	if assert.NotNil(t, loaded.SCID) {
		assert.Equal(t, scid, *loaded.SCID)
	}

	records, err := svc.List(ctx)
	require.Nil(t, err)
	assert.Equal(t, 1, len(records))

	records, err = svc.List(ctx, dao.NewParameter("MsgType", "node_announcement"))
	require.Nil(t, err)
	assert.Equal(t, 0, len(records))

	require.Nil(t, svc.Delete(ctx, record.ID))
	_, err = svc.Load(ctx, record.ID)
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, record.ID), dao.ErrNotFound)
}

func TestService_SaveWritesUnderBasePath(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()
	svc, err := New(baseDir)
	require.Nil(t, err)

	record := &model.Record{
		ID:      model.Digest([]byte{0x0a}),
		MsgType: model.MsgNodeAnnouncement,
		Raw:     []byte{0x0a},
	}
	require.Nil(t, svc.Save(ctx, record))

	_, err = os.Stat(filepath.Join(baseDir, record.ID+".json"))
	require.Nil(t, err, "record file has to land under the base directory")

	records, err := svc.List(ctx)
	require.Nil(t, err)
	assert.Equal(t, 1, len(records))
}

func TestService_Validation(t *testing.T) {
	ctx := context.Background()
	svc, err := New(t.TempDir())
	require.Nil(t, err)

	assert.ErrorIs(t, svc.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, svc.Save(ctx, &model.Record{}), dao.ErrInvalidID)
	_, err = svc.Load(ctx, "")
	assert.ErrorIs(t, err, dao.ErrInvalidID)

	_, err = New("")
	assert.NotNil(t, err)
}
