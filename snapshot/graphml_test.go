package snapshot

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ln-history/lnhistory/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalGraphML(t *testing.T) {
	snap := New(time.Now())
	scid := model.NewShortChannelID(700000, 1, 0)
	snap.Apply(announcement(scid, 0x11, 0x22))
	snap.Apply(&model.NodeAnnouncement{
		NodeID:    nodeID(0x11),
		Alias:     "alice",
		RGBColor:  model.HexBytes{0xaa, 0xbb, 0xcc},
		Timestamp: 1,
	})
	snap.Apply(update(scid, 10, 0, 1000))
	snap.Apply(&model.ChannelAmount{Satoshis: 5000000})
	// Policy stub without announcement must not become an edge.
	snap.Apply(update(model.NewShortChannelID(999, 1, 0), 10, 0, 1))

	data, err := snap.MarshalGraphML()
	require.Nil(t, err)

	var doc graphML
	require.Nil(t, xml.Unmarshal(data, &doc))
	assert.Equal(t, "http://graphml.graphdrawing.org/xmlns", doc.XMLNS)
	assert.Equal(t, "undirected", doc.Graph.EdgeDefault)
	assert.Equal(t, 2, len(doc.Graph.Nodes))
	require.Equal(t, 1, len(doc.Graph.Edges))

	edge := doc.Graph.Edges[0]
	assert.Equal(t, "700000x1x0", edge.ID)
	assert.Equal(t, nodeID(0x11).String(), edge.Source)
	assert.Equal(t, nodeID(0x22).String(), edge.Target)

	values := map[string]string{}
	for _, data := range edge.Data {
		values[data.Key] = data.Value
	}
	assert.Equal(t, "5000000", values["satoshis"])
	assert.Equal(t, "1000", values["fee_base"])

	aliases := map[string]string{}
	for _, node := range doc.Graph.Nodes {
		for _, data := range node.Data {
			if data.Key == "alias" {
				aliases[node.ID] = data.Value
			}
		}
	}
	assert.Equal(t, "alice", aliases[nodeID(0x11).String()])
}

func TestWriteGraphML(t *testing.T) {
	snap := New(time.Now())
	snap.Apply(announcement(model.NewShortChannelID(100, 1, 0), 0x11, 0x22))

	dest := filepath.Join(t.TempDir(), "graph.graphml")
	require.Nil(t, snap.WriteGraphML(context.Background(), dest))

	data, err := os.ReadFile(dest)
	require.Nil(t, err)
	assert.Contains(t, string(data), "<graphml")
}
